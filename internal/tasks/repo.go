package tasks

import (
	"context"

	"github.com/angelmondragon/leaddesk-backend/internal/repo"
	"github.com/angelmondragon/leaddesk-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const insertBatchSize = 500

// Repository persists and reads assigned tasks.
type Repository struct {
	repo.Base
}

// NewRepository constructs a tasks repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository that runs on the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// BulkCreate inserts tasks in batches. Callers wrap it in a transaction so
// that a failed batch leaves nothing behind.
func (r *Repository) BulkCreate(ctx context.Context, list []models.Task) error {
	if len(list) == 0 {
		return nil
	}
	return r.DB(ctx).CreateInBatches(list, insertBatchSize).Error
}

// List returns the tasks matching filter, newest first.
func (r *Repository) List(ctx context.Context, filter QueryFilter) ([]models.Task, error) {
	list := []models.Task{}
	if filter.None {
		return list, nil
	}
	query := r.DB(ctx).Model(&models.Task{})
	if filter.AgentID != nil {
		query = query.Where("agent_id = ?", *filter.AgentID)
	}
	if err := newestFirst(query).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByAgents returns the tasks of every agent in ids, newest first.
func (r *Repository) ListByAgents(ctx context.Context, ids []uuid.UUID) ([]models.Task, error) {
	list := []models.Task{}
	if len(ids) == 0 {
		return list, nil
	}
	query := r.DB(ctx).Where("agent_id IN ?", ids)
	if err := newestFirst(query).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteByAgent removes every task assigned to agentID.
func (r *Repository) DeleteByAgent(ctx context.Context, agentID uuid.UUID) (int64, error) {
	res := r.DB(ctx).Where("agent_id = ?", agentID).Delete(&models.Task{})
	return res.RowsAffected, res.Error
}

// Rows of one upload share created_at; row_index keeps them in reverse file order.
func newestFirst(q *gorm.DB) *gorm.DB {
	return q.Order("created_at DESC").Order("row_index DESC")
}
