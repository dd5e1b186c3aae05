package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is one lead assigned to an agent by an upload.
type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AgentID   uuid.UUID `gorm:"column:agent_id;type:uuid;not null;index"`
	FirstName string    `gorm:"column:first_name;not null"`
	Phone     string    `gorm:"column:phone;not null"`
	Notes     string    `gorm:"column:notes;not null;default:''"`
	RowIndex  int       `gorm:"column:row_index;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
