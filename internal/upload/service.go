// Package upload runs the upload-and-distribute pipeline.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/angelmondragon/leaddesk-backend/internal/distribution"
	"github.com/angelmondragon/leaddesk-backend/internal/ingest"
	"github.com/angelmondragon/leaddesk-backend/internal/tasks"
	"github.com/angelmondragon/leaddesk-backend/internal/users"
	"github.com/angelmondragon/leaddesk-backend/pkg/db"
	"github.com/angelmondragon/leaddesk-backend/pkg/db/models"
	"github.com/angelmondragon/leaddesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
	"github.com/angelmondragon/leaddesk-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// File is one uploaded lead file.
type File struct {
	Filename string
	Content  io.Reader
}

// Summary is the per-agent view returned after a successful distribution.
type Summary struct {
	Distributed []tasks.AgentTasks `json:"distributed"`
}

// Service distributes uploaded lead files across agents.
type Service interface {
	Distribute(ctx context.Context, file File) (*Summary, error)
}

// ServiceParams bundles the dependencies of the upload service.
type ServiceParams struct {
	DB      *db.Client
	Dir     string
	Metrics *metrics.UploadMetrics
	Logger  *logger.Logger
	Now     func() time.Time
}

type service struct {
	db      *db.Client
	users   *users.Repository
	tasks   *tasks.Repository
	dir     string
	metrics *metrics.UploadMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService constructs the upload pipeline.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Dir == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		db:      params.DB,
		users:   users.NewRepository(params.DB.DB()),
		tasks:   tasks.NewRepository(params.DB.DB()),
		dir:     params.Dir,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     now,
	}, nil
}

// Distribute spools the file, parses and normalizes it, assigns the leads to
// the working agents and persists them in one transaction. The spooled file
// is removed on every return path.
func (s *service) Distribute(ctx context.Context, file File) (summary *Summary, err error) {
	started := s.now()
	defer func() {
		s.metrics.ObserveUpload(outcomeFor(err), s.now().Sub(started))
	}()

	ext := ingest.ExtensionOf(file.Filename)
	if !ingest.IsSupportedExtension(ext) {
		return nil, ingest.UnsupportedFileType(ext)
	}
	if file.Content == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}

	name := SpoolName(file.Filename, ext, started)
	path, err := spool(s.dir, name, file.Content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "spool upload")
	}
	ctx = s.logg.WithUploadID(ctx, name)
	defer s.remove(ctx, path)

	table, err := ingest.Parse(path, ext)
	if err != nil {
		return nil, err
	}
	normalized, err := ingest.Normalize(table)
	s.metrics.AddRows(len(normalized.Leads), normalized.Dropped)
	if err != nil {
		return nil, err
	}

	agentModels, err := s.users.ListByRole(ctx, enums.RoleAgent)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load agents")
	}
	subset, err := distribution.WorkingSubset(toAgents(agentModels))
	if err != nil {
		return nil, err
	}
	assignments, err := distribution.Assign(normalized.Leads, subset)
	if err != nil {
		return nil, err
	}

	createdAt := started.UTC()
	rows := make([]models.Task, len(assignments))
	for i, a := range assignments {
		rows[i] = models.Task{
			AgentID:   a.AgentID,
			FirstName: a.Lead.FirstName,
			Phone:     a.Lead.Phone,
			Notes:     a.Lead.Notes,
			RowIndex:  a.Index,
			CreatedAt: createdAt,
		}
	}
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.tasks.WithTx(tx).BulkCreate(ctx, rows)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "persist tasks")
	}

	ids := make([]uuid.UUID, 0, len(subset))
	for _, agent := range subset {
		ids = append(ids, agent.ID)
	}
	persisted, err := s.tasks.ListByAgents(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "reload tasks")
	}

	counts := distribution.Counts(assignments)
	for _, agent := range subset {
		if n := counts[agent.ID]; n > 0 {
			s.metrics.ObserveAgentLoad(n)
		}
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"rows_kept":    len(normalized.Leads),
		"rows_dropped": normalized.Dropped,
		"agents":       len(subset),
	})
	s.logg.Info(logCtx, "upload.distributed")

	return &Summary{Distributed: tasks.GroupByAgent(subset, persisted)}, nil
}

func (s *service) remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "upload.cleanup_failed")
	}
}

func toAgents(list []models.User) []distribution.Agent {
	out := make([]distribution.Agent, len(list))
	for i, u := range list {
		out[i] = distribution.Agent{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return out
}

func outcomeFor(err error) string {
	if err == nil {
		return metrics.OutcomeDistributed
	}
	if typed := pkgerrors.As(err); typed != nil && pkgerrors.MetadataFor(typed.Code()).HTTPStatus < 500 {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeFailed
}
