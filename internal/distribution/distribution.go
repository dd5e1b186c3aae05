// Package distribution assigns normalized leads to agents round-robin.
package distribution

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/leaddesk-backend/internal/ingest"
	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
)

// MaxWorkingAgents caps how many agents share a single upload.
const MaxWorkingAgents = 5

// Agent is the public view of an agent taking part in a distribution.
type Agent struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Assignment pairs a lead with its agent. Index is the lead's position in the upload.
type Assignment struct {
	AgentID uuid.UUID
	Index   int
	Lead    ingest.Lead
}

// WorkingSubset returns the first MaxWorkingAgents agents of an
// oldest-first list. An empty list is an error.
func WorkingSubset(agents []Agent) ([]Agent, error) {
	if len(agents) == 0 {
		return nil, NoAgentsAvailable()
	}
	n := len(agents)
	if n > MaxWorkingAgents {
		n = MaxWorkingAgents
	}
	out := make([]Agent, n)
	copy(out, agents[:n])
	return out, nil
}

// Assign gives lead i to subset[i mod len(subset)], so per-agent counts
// differ by at most one and earlier agents take the remainder.
func Assign(leads []ingest.Lead, subset []Agent) ([]Assignment, error) {
	if len(subset) == 0 {
		return nil, NoAgentsAvailable()
	}
	out := make([]Assignment, len(leads))
	for i, lead := range leads {
		out[i] = Assignment{
			AgentID: subset[i%len(subset)].ID,
			Index:   i,
			Lead:    lead,
		}
	}
	return out, nil
}

// Counts returns how many assignments each agent received, keyed by agent id.
func Counts(assignments []Assignment) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for _, a := range assignments {
		counts[a.AgentID]++
	}
	return counts
}

// NoAgentsAvailable is returned when no AGENT account exists to receive tasks.
func NoAgentsAvailable() error {
	return pkgerrors.New(pkgerrors.CodeNoAgentsAvailable, "no agents available")
}
