package tasks

import (
	"testing"

	"github.com/angelmondragon/leaddesk-backend/internal/distribution"
	"github.com/angelmondragon/leaddesk-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByAgentFollowsAgentOrder(t *testing.T) {
	alice := distribution.Agent{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}
	bob := distribution.Agent{ID: uuid.New(), Name: "Bob", Email: "bob@example.com"}
	idle := distribution.Agent{ID: uuid.New(), Name: "Idle", Email: "idle@example.com"}

	list := []models.Task{
		{AgentID: bob.ID, FirstName: "B", Phone: "2"},
		{AgentID: alice.ID, FirstName: "C", Phone: "3"},
		{AgentID: alice.ID, FirstName: "A", Phone: "1", Notes: "x"},
	}

	groups := GroupByAgent([]distribution.Agent{alice, idle, bob}, list)
	require.Len(t, groups, 2)

	assert.Equal(t, alice, groups[0].Agent)
	assert.Equal(t, []LeadDTO{{FirstName: "C", Phone: "3"}, {FirstName: "A", Phone: "1", Notes: "x"}}, groups[0].Tasks)
	assert.Equal(t, bob, groups[1].Agent)
	assert.Equal(t, []LeadDTO{{FirstName: "B", Phone: "2"}}, groups[1].Tasks)
}

func TestGroupByAgentEmpty(t *testing.T) {
	groups := GroupByAgent(nil, nil)
	require.NotNil(t, groups)
	assert.Empty(t, groups)
}
