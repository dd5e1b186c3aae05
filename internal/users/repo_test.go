package users

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/leaddesk-backend/pkg/db"
	"github.com/angelmondragon/leaddesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/leaddesk-backend/pkg/db/models"
	"github.com/angelmondragon/leaddesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Name:         "Alice",
		Email:        "alice@example.com",
		Mobile:       "+15551234567",
		PasswordHash: "hash",
		Role:         enums.RoleAgent,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)

	_, err = repo.FindByIDAndRole(ctx, created.ID, enums.RoleAdmin)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.Create(ctx, CreateUserDTO{
		Name:         "Alice Again",
		Email:        "alice@example.com",
		Mobile:       "+15551234567",
		PasswordHash: "hash",
		Role:         enums.RoleAgent,
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryListByRoleOrdersByCreation(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	second := dbtest.CreateUser(t, conn, "bob", enums.RoleAgent, base.Add(time.Minute))
	first := dbtest.CreateUser(t, conn, "alice", enums.RoleAgent, base)
	dbtest.CreateUser(t, conn, "root", enums.RoleAdmin, base.Add(-time.Hour))

	list, err := repo.ListByRole(context.Background(), enums.RoleAgent)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	agent := dbtest.CreateUser(t, conn, "carol", enums.RoleAgent, time.Now().Add(-time.Hour))

	require.NoError(t, repo.Update(ctx, agent.ID, map[string]any{"name": "Caroline"}))
	require.NoError(t, repo.Update(ctx, agent.ID, nil))

	updated, err := repo.FindByID(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caroline", updated.Name)
	assert.True(t, updated.UpdatedAt.After(agent.UpdatedAt))

	err = conn.Transaction(func(tx *gorm.DB) error {
		affected, err := repo.WithTx(tx).Delete(ctx, agent.ID)
		assert.EqualValues(t, 1, affected)
		return err
	})
	require.NoError(t, err)

	affected, err := repo.Delete(ctx, agent.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	var count int64
	require.NoError(t, conn.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFromModelsNeverNil(t *testing.T) {
	out := FromModels(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}
