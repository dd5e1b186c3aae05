package tasks

import (
	"github.com/angelmondragon/leaddesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// QueryFilter narrows a task listing. The zero value matches every task.
type QueryFilter struct {
	AgentID *uuid.UUID
	None    bool
}

// ScopeFilterFor returns the tasks a caller may see: administrators see all,
// agents see their own, anyone else sees nothing.
func ScopeFilterFor(role enums.Role, userID uuid.UUID) QueryFilter {
	switch role {
	case enums.RoleAdmin:
		return QueryFilter{}
	case enums.RoleAgent:
		id := userID
		return QueryFilter{AgentID: &id}
	default:
		return QueryFilter{None: true}
	}
}
