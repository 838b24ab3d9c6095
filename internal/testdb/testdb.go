// Package testdb starts disposable PostgreSQL instances for
// integration tests. Each call boots a container, connects a pool and
// applies the schema migrations.
package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"pulse/internal/database"
	"pulse/internal/migrations"
)

// Start boots a PostgreSQL container with the schema applied and
// returns a connected database service. Containers and pools are torn
// down through t.Cleanup. Tests calling Start should honor -short.
func Start(t *testing.T) database.Service {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("pulse_test"),
		tcpostgres.WithUsername("pulse"),
		tcpostgres.WithPassword("pulse"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewWithURL(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = migrations.NewMigrator(db).Apply(ctx)
	require.NoError(t, err)

	return db
}
