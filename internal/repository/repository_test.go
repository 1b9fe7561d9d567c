package repository

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// These tests run against live services when TEST_REDIS_ADDR / TEST_POSTGRES_DSN are set.

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestSnapshotCache(t *testing.T) {
	client := testRedis(t)
	cache := NewSnapshotCache(client, time.Minute)
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, snapshotKeyPrefix+key) })

	t.Run("should miss unknown keys", func(t *testing.T) {
		_, ok, err := cache.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should round-trip a snapshot", func(t *testing.T) {
		created := domain.NewTimestamp(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
		snap := domain.Snapshot{
			Tickets:     []domain.Ticket{{ID: "a", Status: domain.TicketStatusResolved, CreatedAt: created}},
			UnreadCount: 2,
			FetchedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, cache.Save(ctx, key, snap))

		got, ok, err := cache.Load(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2, got.UnreadCount)
		assert.True(t, got.Tickets[0].CreatedAt.Equal(created.Time))
		assert.True(t, got.FetchedAt.Equal(snap.FetchedAt))
	})
}

func TestUIStateStore(t *testing.T) {
	client := testRedis(t)
	store := NewUIStateStore(client, time.Minute)
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, uiStateKeyPrefix+key) })

	state := domain.UIState{View: domain.ViewTickets, Modal: domain.ModalAssign, TicketID: "t1"}
	require.NoError(t, store.Save(ctx, key, state))
	got, ok, err := store.Load(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state, got)
}

func TestReportRepository(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../migrations/001_reports.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	repo := NewReportRepository(pool)
	creator := uuid.NewString()
	report := &domain.ArchivedReport{
		ID:         uuid.NewString(),
		Title:      "Rapport mensuel",
		ReportType: domain.ReportTypeOverview,
		CreatorID:  creator,
		Data:       json.RawMessage(`{"total_tickets":3}`),
	}
	t.Cleanup(func() { _, _ = pool.Exec(ctx, `DELETE FROM reports WHERE creator_id=$1`, creator) })

	require.NoError(t, repo.Create(ctx, report))
	assert.False(t, report.GeneratedAt.IsZero())

	got, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Title, got.Title)
	assert.JSONEq(t, `{"total_tickets":3}`, string(got.Data))

	list, err := repo.List(ctx, ReportFilter{CreatorID: &creator})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
