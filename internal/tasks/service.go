package tasks

import (
	"context"
	"fmt"

	"github.com/angelmondragon/leaddesk-backend/pkg/db/models"
	"github.com/angelmondragon/leaddesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service lists tasks for the task endpoints.
type Service interface {
	ListForCaller(ctx context.Context, role enums.Role, userID uuid.UUID) ([]TaskDTO, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]TaskDTO, error)
}

type taskLister interface {
	List(ctx context.Context, filter QueryFilter) ([]models.Task, error)
}

type service struct {
	repo taskLister
}

// NewService builds the task listing service.
func NewService(repo taskLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tasks repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListForCaller(ctx context.Context, role enums.Role, userID uuid.UUID) ([]TaskDTO, error) {
	return s.list(ctx, ScopeFilterFor(role, userID))
}

// ListByAgent returns an empty list for ids that are not agents.
func (s *service) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]TaskDTO, error) {
	return s.list(ctx, QueryFilter{AgentID: &agentID})
}

func (s *service) list(ctx context.Context, filter QueryFilter) ([]TaskDTO, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tasks")
	}
	return FromModels(list), nil
}
