package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/angelmondragon/leaddesk-backend/api/responses"
	"github.com/angelmondragon/leaddesk-backend/api/validators"
	pkgAuth "github.com/angelmondragon/leaddesk-backend/pkg/auth"
	"github.com/angelmondragon/leaddesk-backend/pkg/config"
	"github.com/angelmondragon/leaddesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdentityLoader resolves the live account behind a token.
type IdentityLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticate validates a bearer token, loads the account it names and
// seeds the request context with the caller's identity.
func Authenticate(cfg config.JWTConfig, identities IdentityLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			user, err := identities.FindByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load identity"))
				return
			}

			identity := Identity{
				UserID: user.ID,
				Name:   user.Name,
				Email:  user.Email,
				Role:   user.Role,
			}
			ctx := WithIdentity(r.Context(), identity)

			if logg != nil {
				ctx = logg.WithUserID(ctx, identity.UserID.String())
				ctx = logg.WithActorRole(ctx, string(identity.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
