// Package agents manages agent accounts on behalf of administrators.
package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/leaddesk-backend/internal/tasks"
	"github.com/angelmondragon/leaddesk-backend/internal/users"
	"github.com/angelmondragon/leaddesk-backend/pkg/config"
	"github.com/angelmondragon/leaddesk-backend/pkg/db"
	"github.com/angelmondragon/leaddesk-backend/pkg/db/models"
	"github.com/angelmondragon/leaddesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
	"github.com/angelmondragon/leaddesk-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	emailInUseMessage    = "Email already in use"
	agentNotFoundMessage = "Agent not found"
)

// Service defines the agent administration operations.
type Service interface {
	List(ctx context.Context) ([]users.UserDTO, error)
	Create(ctx context.Context, req CreateAgentRequest) (*AgentDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateAgentRequest) (*AgentDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams bundles the dependencies of the agents service.
type ServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type service struct {
	db          *db.Client
	users       *users.Repository
	tasks       *tasks.Repository
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService constructs the agents service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{
		db:          params.DB,
		users:       users.NewRepository(params.DB.DB()),
		tasks:       tasks.NewRepository(params.DB.DB()),
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

// List returns every agent, oldest first.
func (s *service) List(ctx context.Context) ([]users.UserDTO, error) {
	list, err := s.users.ListByRole(ctx, enums.RoleAgent)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list agents")
	}
	return users.FromModels(list), nil
}

func (s *service) Create(ctx context.Context, req CreateAgentRequest) (*AgentDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         name,
		Email:        email,
		Mobile:       strings.TrimSpace(req.Mobile),
		PasswordHash: hash,
		Role:         enums.RoleAgent,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, emailInUse(err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create agent")
	}

	s.logInfo(ctx, user.ID, "agent.created")
	return agentFromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateAgentRequest) (*AgentDTO, error) {
	agent, err := s.findAgent(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be blank")
		}
		updates["name"] = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != agent.Email {
			if err := s.ensureEmailFree(ctx, email, agent.ID); err != nil {
				return nil, err
			}
			updates["email"] = email
		}
	}
	if req.Mobile != nil {
		updates["mobile"] = strings.TrimSpace(*req.Mobile)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := security.HashPassword(*req.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
	}

	if err := s.users.Update(ctx, agent.ID, updates); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, emailInUse(err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update agent")
	}

	updated, err := s.users.FindByID(ctx, agent.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload agent")
	}
	s.logInfo(ctx, agent.ID, "agent.updated")
	return agentFromModel(updated), nil
}

// Delete removes the agent's tasks and then the agent, in one transaction.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var removedTasks int64
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.users.WithTx(tx)
		if _, err := userRepo.FindByIDAndRole(ctx, id, enums.RoleAgent); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, agentNotFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load agent")
		}

		n, err := s.tasks.WithTx(tx).DeleteByAgent(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete agent tasks")
		}
		removedTasks = n

		if _, err := userRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete agent")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"agent_id": id.String(), "tasks_removed": removedTasks})
		s.logg.Info(logCtx, "agent.deleted")
	}
	return nil
}

func (s *service) findAgent(ctx context.Context, id uuid.UUID) (*models.User, error) {
	agent, err := s.users.FindByIDAndRole(ctx, id, enums.RoleAgent)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, agentNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load agent")
	}
	return agent, nil
}

// ensureEmailFree fails when email belongs to an account other than self.
func (s *service) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check agent email")
	}
	if existing.ID != self {
		return emailInUse(nil)
	}
	return nil
}

func (s *service) logInfo(ctx context.Context, id uuid.UUID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithField(ctx, "agent_id", id.String()), msg)
}

func emailInUse(cause error) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, cause, emailInUseMessage).
		WithDetails(map[string]string{"email": "is already in use"})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
