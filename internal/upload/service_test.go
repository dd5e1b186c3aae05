package upload

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/leaddesk-backend/pkg/db"
	"github.com/angelmondragon/leaddesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/leaddesk-backend/pkg/db/models"
	"github.com/angelmondragon/leaddesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
	"github.com/angelmondragon/leaddesk-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	conn *gorm.DB
	dir  string
	svc  Service
	base time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	dir := t.TempDir()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	svc, err := NewService(ServiceParams{
		DB:      db.NewFromGorm(conn),
		Dir:     dir,
		Metrics: metrics.NewUploadMetrics(prometheus.NewRegistry()),
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Now:     func() time.Time { return base.Add(time.Hour) },
	})
	require.NoError(t, err)
	return &fixture{conn: conn, dir: dir, svc: svc, base: base}
}

func (f *fixture) agents(t *testing.T, names ...string) []models.User {
	t.Helper()
	out := make([]models.User, len(names))
	for i, name := range names {
		out[i] = dbtest.CreateUser(t, f.conn, name, enums.RoleAgent, f.base.Add(time.Duration(i)*time.Minute))
	}
	return out
}

func (f *fixture) taskCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.conn.Model(&models.Task{}).Count(&count).Error)
	return count
}

func (f *fixture) assertDirEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "spooled file should be removed")
}

func csvFile(name, content string) File {
	return File{Filename: name, Content: strings.NewReader(content)}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestDistributeTwoAgentsThreeRows(t *testing.T) {
	f := newFixture(t)
	agents := f.agents(t, "alice", "bob")
	dbtest.CreateUser(t, f.conn, "root", enums.RoleAdmin, f.base.Add(-time.Hour))

	summary, err := f.svc.Distribute(context.Background(), csvFile("leads.csv",
		"firstName,phone,notes\nA,1,n1\nB,2,\nC,3,n3\n"))
	require.NoError(t, err)
	require.Len(t, summary.Distributed, 2)

	first := summary.Distributed[0]
	assert.Equal(t, agents[0].ID, first.Agent.ID)
	assert.Equal(t, "alice", first.Agent.Name)
	require.Len(t, first.Tasks, 2)
	assert.Equal(t, "C", first.Tasks[0].FirstName)
	assert.Equal(t, "A", first.Tasks[1].FirstName)
	assert.Equal(t, "n1", first.Tasks[1].Notes)

	second := summary.Distributed[1]
	assert.Equal(t, agents[1].ID, second.Agent.ID)
	require.Len(t, second.Tasks, 1)
	assert.Equal(t, "B", second.Tasks[0].FirstName)
	assert.Equal(t, "", second.Tasks[0].Notes)

	assert.EqualValues(t, 3, f.taskCount(t))
	f.assertDirEmpty(t)
}

func TestDistributeUsesFiveOldestAgents(t *testing.T) {
	f := newFixture(t)
	agents := f.agents(t, "a1", "a2", "a3", "a4", "a5", "a6", "a7")

	var buf bytes.Buffer
	buf.WriteString("FirstName,Phone\n")
	for i := 0; i < 12; i++ {
		buf.WriteString("lead,555\n")
	}

	summary, err := f.svc.Distribute(context.Background(), File{Filename: "Leads.CSV", Content: &buf})
	require.NoError(t, err)
	require.Len(t, summary.Distributed, 5)

	want := []int{3, 3, 2, 2, 2}
	for i, group := range summary.Distributed {
		assert.Equal(t, agents[i].ID, group.Agent.ID)
		assert.Len(t, group.Tasks, want[i])
	}

	var late int64
	require.NoError(t, f.conn.Model(&models.Task{}).
		Where("agent_id IN ?", []any{agents[5].ID, agents[6].ID}).
		Count(&late).Error)
	assert.Zero(t, late)
}

func TestDistributeDropsIncompleteRows(t *testing.T) {
	f := newFixture(t)
	f.agents(t, "alice")

	summary, err := f.svc.Distribute(context.Background(), csvFile("leads.csv",
		"firstName,phone\nA,1\n,2\nC,\nD,4\n"))
	require.NoError(t, err)
	require.Len(t, summary.Distributed, 1)
	assert.Len(t, summary.Distributed[0].Tasks, 2)
	assert.EqualValues(t, 2, f.taskCount(t))
}

func TestDistributeFailures(t *testing.T) {
	cases := []struct {
		name   string
		agents []string
		file   File
		code   pkgerrors.Code
	}{
		{
			name:   "unsupported extension",
			agents: []string{"alice"},
			file:   csvFile("leads.txt", "firstName,phone\nA,1\n"),
			code:   pkgerrors.CodeUnsupportedFileType,
		},
		{
			name:   "malformed csv",
			agents: []string{"alice"},
			file:   csvFile("leads.csv", "firstName,phone\nA,1,extra\n"),
			code:   pkgerrors.CodeParse,
		},
		{
			name:   "no valid rows",
			agents: []string{"alice"},
			file:   csvFile("leads.csv", "firstName,phone\n,1\nB,\n"),
			code:   pkgerrors.CodeNoValidRows,
		},
		{
			name: "no agents",
			file: csvFile("leads.csv", "firstName,phone\nA,1\n"),
			code: pkgerrors.CodeNoAgentsAvailable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.agents(t, tc.agents...)

			summary, err := f.svc.Distribute(context.Background(), tc.file)
			require.Error(t, err)
			assert.Nil(t, summary)
			requireCode(t, err, tc.code)
			assert.Zero(t, f.taskCount(t))
			f.assertDirEmpty(t)
		})
	}
}

func TestDistributePersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.agents(t, "alice")
	require.NoError(t, f.conn.Migrator().DropTable(&models.Task{}))

	_, err := f.svc.Distribute(context.Background(), csvFile("leads.csv", "firstName,phone\nA,1\n"))
	requireCode(t, err, pkgerrors.CodePersistence)
	f.assertDirEmpty(t)
}

func TestNewServiceValidatesParams(t *testing.T) {
	logg := logger.New(logger.Options{Output: io.Discard})
	client := dbtest.OpenClient(t)

	_, err := NewService(ServiceParams{Dir: "x", Logger: logg})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{DB: client, Logger: logg})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{DB: client, Dir: "x"})
	assert.Error(t, err)
}
