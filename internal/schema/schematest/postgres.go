//go:build integration

// Package schematest starts a throwaway Postgres with every table created.
package schematest

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/schema"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/database"
)

// NewDB runs a Postgres container for the duration of t and returns a
// connection to a database on which EnsureTables has run.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("records"),
		postgres.WithUsername("records"),
		postgres.WithPassword("records"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	db, err := database.Connect(database.Config{DSN: dsn, MaxConns: 4, TimeZone: "UTC"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := schema.EnsureTables(ctx, db); err != nil {
		t.Fatalf("ensure tables: %v", err)
	}
	return db
}
