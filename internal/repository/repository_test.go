package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "./migrations",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestGetUnprocessedEvents_Empty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	events, err := repo.GetUnprocessedEvents(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestInsertEvent_ThenDrain(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	payload := []byte(`[{"id":"Q2hlY2tvdXRMaW5lOjE=","base_price":"10.01"}]`)
	err := repo.InsertEvent(ctx, "checkout-1", EventCheckoutLinesSerialized, payload)
	require.NoError(t, err)
	err = repo.InsertEvent(ctx, "checkout-2", EventCheckoutLinesBase, []byte(`[]`))
	require.NoError(t, err)

	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	// oldest first
	assert.Equal(t, "checkout-1", events[0].AggregateID)
	assert.Equal(t, EventCheckoutLinesSerialized, events[0].EventType)
	assert.JSONEq(t, string(payload), string(events[0].Payload))

	err = repo.MarkEventAsProcessed(ctx, events[0].ID)
	require.NoError(t, err)

	remaining, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "checkout-2", remaining[0].AggregateID)
}

func TestGetUnprocessedEvents_RespectsLimit(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.InsertEvent(ctx, "checkout-1", EventCheckoutLinesBase, []byte(`[]`)))
	}

	events, err := repo.GetUnprocessedEvents(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestGetStuckEvents(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.InsertEvent(ctx, "checkout-1", EventCheckoutLinesBase, []byte(`[]`)))

	// a fresh event is not stuck
	stuck, err := repo.GetStuckEvents(ctx, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, stuck)

	// everything unprocessed is stuck under a zero cutoff
	stuck, err = repo.GetStuckEvents(ctx, -time.Second)
	require.NoError(t, err)
	assert.Len(t, stuck, 1)
}
