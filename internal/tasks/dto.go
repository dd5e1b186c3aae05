package tasks

import (
	"time"

	"github.com/angelmondragon/leaddesk-backend/internal/distribution"
	"github.com/angelmondragon/leaddesk-backend/pkg/db/models"
	"github.com/google/uuid"
)

// TaskDTO is the listing shape of a task.
type TaskDTO struct {
	ID        uuid.UUID `json:"id"`
	AgentID   uuid.UUID `json:"agentId"`
	FirstName string    `json:"firstName"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeadDTO is the trimmed task shape returned by an upload.
type LeadDTO struct {
	FirstName string `json:"firstName"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

// AgentTasks is one group of the distribution summary.
type AgentTasks struct {
	Agent distribution.Agent `json:"agent"`
	Tasks []LeadDTO          `json:"tasks"`
}

// FromModel maps a stored task to its API shape.
func FromModel(t models.Task) TaskDTO {
	return TaskDTO{
		ID:        t.ID,
		AgentID:   t.AgentID,
		FirstName: t.FirstName,
		Phone:     t.Phone,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
	}
}

// FromModels converts a slice, preserving order. The result is never nil.
func FromModels(list []models.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(list))
	for _, t := range list {
		out = append(out, FromModel(t))
	}
	return out
}

// GroupByAgent buckets already sorted tasks per agent. Groups follow the order
// of agents and agents without tasks are left out.
func GroupByAgent(agents []distribution.Agent, list []models.Task) []AgentTasks {
	byAgent := make(map[uuid.UUID][]LeadDTO, len(agents))
	for _, t := range list {
		byAgent[t.AgentID] = append(byAgent[t.AgentID], LeadDTO{
			FirstName: t.FirstName,
			Phone:     t.Phone,
			Notes:     t.Notes,
		})
	}

	groups := make([]AgentTasks, 0, len(agents))
	for _, agent := range agents {
		leads := byAgent[agent.ID]
		if len(leads) == 0 {
			continue
		}
		groups = append(groups, AgentTasks{Agent: agent, Tasks: leads})
		delete(byAgent, agent.ID)
	}
	return groups
}
