//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/internal/domain/scan"
	"github.com/turtacn/NicheSignal/internal/infrastructure/database/postgres"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// startPostgres launches a PostgreSQL 16 container and returns a migrated pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "niche_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/niche_test?sslmode=disable", host, port.Port())
	require.NoError(t, postgres.RunMigrations(dsn, "file://../../../../migrations"))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func sampleRun(industry string) (*scan.Run, []*scan.VerdictRecord) {
	run := scan.NewRun(industry, 25)
	run.Finish(3, 2, false, "reports/report_"+industry+".md")

	verdicts := []*scan.VerdictRecord{
		{
			ID: uuid.New(), RunID: run.ID,
			PostURL: "https://old.reddit.com/r/logistics/a", PostTitle: "Spreadsheet hell",
			AspectScore: 2.85, SemanticScore: 0.61,
			Classification: post.ClassStrongOpportunity, Confidence: 0.9,
			Reasoning: "tool-seeking language", PainType: post.PainTypeProcess,
			CreatedAt: time.Now().UTC(),
		},
		{
			ID: uuid.New(), RunID: run.ID,
			PostURL: "https://old.reddit.com/r/logistics/b", PostTitle: "Pricing rant",
			AspectScore: 1.0, SemanticScore: 0.45,
			Classification: post.ClassWeakOpportunity, Confidence: 0.6,
			Reasoning: "cost pain only", PainType: post.PainTypeCost,
			Fallback:  true,
			CreatedAt: time.Now().UTC(),
		},
	}
	return run, verdicts
}

func TestScanRepositoryRoundTrip(t *testing.T) {
	pool := startPostgres(t)
	repo := postgres.NewScanRepository(pool, nil)
	ctx := context.Background()

	run, verdicts := sampleRun("logistics")
	require.NoError(t, repo.SaveRun(ctx, run, verdicts))

	got, gotVerdicts, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "logistics", got.Industry)
	assert.Equal(t, 2, got.Relevant)

	require.Len(t, gotVerdicts, 2)
	// Ordered by aspect score descending.
	assert.Equal(t, 2.85, gotVerdicts[0].AspectScore)
	assert.Equal(t, post.ClassStrongOpportunity, gotVerdicts[0].Classification)
	assert.Equal(t, post.PainTypeProcess, gotVerdicts[0].PainType)
	assert.True(t, gotVerdicts[1].Fallback)
}

func TestScanRepositoryGetRunNotFound(t *testing.T) {
	pool := startPostgres(t)
	repo := postgres.NewScanRepository(pool, nil)

	_, _, err := repo.GetRun(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRunNotFound, errors.GetCode(err))
}

func TestScanRepositoryListRuns(t *testing.T) {
	pool := startPostgres(t)
	repo := postgres.NewScanRepository(pool, nil)
	ctx := context.Background()

	first, _ := sampleRun("logistics")
	second, _ := sampleRun("logistics")
	other, _ := sampleRun("dentistry")
	require.NoError(t, repo.SaveRun(ctx, first, nil))
	require.NoError(t, repo.SaveRun(ctx, second, nil))
	require.NoError(t, repo.SaveRun(ctx, other, nil))

	runs, err := repo.ListRuns(ctx, "logistics", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "logistics", r.Industry)
	}

	all, err := repo.ListRuns(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
