package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/leaddesk-backend/internal/users"
	"github.com/angelmondragon/leaddesk-backend/pkg/config"
	"github.com/angelmondragon/leaddesk-backend/pkg/db"
	"github.com/angelmondragon/leaddesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
	"github.com/angelmondragon/leaddesk-backend/pkg/security"
	"gorm.io/gorm"
)

// AdminSeedRequest describes the first administrator account.
type AdminSeedRequest struct {
	Name     string
	Email    string
	Mobile   string
	Password string
}

// SeedResult reports what the seeder did.
type SeedResult struct {
	User    *users.UserDTO
	Created bool
}

// AdminSeeder creates the first administrator when it does not exist yet.
type AdminSeeder interface {
	Seed(ctx context.Context, req AdminSeedRequest) (*SeedResult, error)
}

// AdminSeederParams names the dependencies for the admin seed flow.
type AdminSeederParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type adminSeeder struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewAdminSeeder builds an admin seeder.
func NewAdminSeeder(params AdminSeederParams) (AdminSeeder, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &adminSeeder{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// SeedRequestFromConfig maps the LEADDESK_ADMIN_* settings onto a request.
func SeedRequestFromConfig(cfg config.SeedConfig) AdminSeedRequest {
	return AdminSeedRequest{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Mobile:   cfg.AdminMobile,
		Password: cfg.AdminPassword,
	}
}

// Seed is idempotent: an existing account with the same email is returned
// untouched.
func (s *adminSeeder) Seed(ctx context.Context, req AdminSeedRequest) (*SeedResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	var result SeedResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		existing, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			result.User = users.FromModel(existing)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check admin email")
		}

		passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Name:         name,
			Email:        email,
			Mobile:       strings.TrimSpace(req.Mobile),
			PasswordHash: passwordHash,
			Role:         enums.RoleAdmin,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
		}

		result.User = users.FromModel(user)
		result.Created = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
