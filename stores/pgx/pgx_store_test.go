package pgx_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	escore "github.com/escore/escore"
	"github.com/escore/escore/internal/storetest"
	"github.com/escore/escore/stores/pgx"
)

func isDockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

// setupPostgres boots a disposable Postgres container and returns a pool
// connected to it along with a teardown func.
func setupPostgres(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	if !isDockerAvailable() {
		t.Skip("docker is not available, skipping pgx integration test")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("escore"),
		postgres.WithUsername("escore"),
		postgres.WithPassword("escore"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup
}

func TestEventStore_Compliance(t *testing.T) {
	pool, cleanup := setupPostgres(t)
	defer cleanup()

	storetest.Run(t, func(t *testing.T) escore.EventStore {
		t.Helper()
		store, err := pgx.NewEventStore(context.Background(), pool, pgx.WithTypeRegistry(storetest.Registry()))
		if err != nil {
			t.Fatalf("failed to construct event store: %v", err)
		}
		return store
	})
}
