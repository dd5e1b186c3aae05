package agents

import (
	"github.com/angelmondragon/leaddesk-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CreateAgentRequest is the body of POST /api/agents.
type CreateAgentRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Password string `json:"password" validate:"required,strongpassword"`
}

// UpdateAgentRequest is the partial body of PUT /api/agents/{id}. Nil fields
// are left untouched.
type UpdateAgentRequest struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=120"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Mobile   *string `json:"mobile" validate:"omitempty,mobile"`
	Password *string `json:"password" validate:"omitempty,strongpassword"`
}

// AgentDTO is the agent shape returned by create and update.
type AgentDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Mobile string    `json:"mobile"`
}

func agentFromModel(u *models.User) *AgentDTO {
	return &AgentDTO{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Mobile: u.Mobile,
	}
}
