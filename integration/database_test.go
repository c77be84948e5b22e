//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPathwaysWithMySQL tests the pathways CLI with a MySQL backend.
func TestPathwaysWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "pathways",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/pathways?parseTime=true", host, port.Port())
	exerciseBackend(t, "mysql", connStr)
}

// TestPathwaysWithPostgres tests the pathways CLI with a PostgreSQL backend.
func TestPathwaysWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseBackend(t, "postgresql", connStr)
}

// exerciseBackend drives the cache and run ledger commands against one backend.
func exerciseBackend(t *testing.T, backend, connStr string) {
	t.Helper()
	home := t.TempDir()
	env := []string{
		"PATHWAYS_CACHE_BACKEND=" + backend,
		"PATHWAYS_CACHE_DB_CONNECT=" + connStr,
		"PATHWAYS_RUNS_BACKEND=" + backend,
		"PATHWAYS_RUNS_DB_CONNECT=" + connStr,
	}

	runPathways(t, home, env, "cache", "clear")
	runPathways(t, home, env, "runs", "clear")

	out := runPathways(t, home, env, "runs", "migrate")
	assert.Contains(t, out, "to version 2")

	runPathways(t, home, env, "actions", "--dataset", datasetPath, "--output", "json")
	runPathways(t, home, env, "sankey", "--dataset", datasetPath, "--output", "json")

	status := runPathways(t, home, env, "cache", "status")
	assert.Contains(t, status, "Cache Backend: "+backend)
	assert.Contains(t, status, "Total Entries: 2")

	runs := runPathways(t, home, env, "runs", "status")
	assert.Contains(t, runs, "Total Runs: 2")
	assert.Contains(t, runs, "Table Sizes:")
}
