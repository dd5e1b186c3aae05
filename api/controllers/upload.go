package controllers

import (
	"errors"
	"net/http"

	"github.com/angelmondragon/leaddesk-backend/api/responses"
	"github.com/angelmondragon/leaddesk-backend/internal/upload"
	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
)

const multipartMemoryBytes = 8 << 20

// UploadDistribute accepts a multipart "file" field and distributes its rows.
func UploadDistribute(svc upload.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file too large").
					WithDetails(map[string]any{"limitBytes": tooLarge.Limit}))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "No file uploaded").
				WithDetails(map[string]string{"file": "is required"}))
			return
		}
		defer file.Close()

		summary, err := svc.Distribute(r.Context(), upload.File{Filename: header.Filename, Content: file})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
