package controllers

import (
	"net/http"

	"github.com/angelmondragon/leaddesk-backend/api/middleware"
	"github.com/angelmondragon/leaddesk-backend/api/responses"
	"github.com/angelmondragon/leaddesk-backend/api/validators"
	"github.com/angelmondragon/leaddesk-backend/internal/tasks"
	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
)

// TasksMine lists the caller's tasks; administrators get every task.
func TasksMine(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		list, err := svc.ListForCaller(r.Context(), identity.Role, identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"tasks": list})
	}
}

func TasksByAgent(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentID, err := validators.ParseUUIDParam(r, "agentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByAgent(r.Context(), agentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"tasks": list})
	}
}
