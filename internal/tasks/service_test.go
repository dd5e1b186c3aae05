package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/leaddesk-backend/pkg/db/models"
	"github.com/angelmondragon/leaddesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubLister struct {
	filter QueryFilter
	tasks  []models.Task
	err    error
}

func (s *stubLister) List(_ context.Context, filter QueryFilter) ([]models.Task, error) {
	s.filter = filter
	return s.tasks, s.err
}

func TestServiceScopesByRole(t *testing.T) {
	stub := &stubLister{tasks: []models.Task{{FirstName: "A"}}}
	svc, err := NewService(stub)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	agentID := uuid.New()
	out, err := svc.ListForCaller(context.Background(), enums.RoleAgent, agentID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].FirstName != "A" {
		t.Fatalf("unexpected tasks %+v", out)
	}
	if stub.filter.AgentID == nil || *stub.filter.AgentID != agentID {
		t.Fatalf("expected agent scope, got %+v", stub.filter)
	}

	if _, err := svc.ListForCaller(context.Background(), enums.RoleAdmin, agentID); err != nil {
		t.Fatalf("list admin: %v", err)
	}
	if stub.filter.AgentID != nil {
		t.Fatalf("expected unscoped admin filter, got %+v", stub.filter)
	}

	other := uuid.New()
	if _, err := svc.ListByAgent(context.Background(), other); err != nil {
		t.Fatalf("list by agent: %v", err)
	}
	if stub.filter.AgentID == nil || *stub.filter.AgentID != other {
		t.Fatalf("expected filter on requested agent, got %+v", stub.filter)
	}
}

func TestServiceWrapsRepositoryErrors(t *testing.T) {
	svc, _ := NewService(&stubLister{err: errors.New("boom")})

	_, err := svc.ListByAgent(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error without repository")
	}
}
