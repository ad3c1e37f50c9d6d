package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestVisitsAndCleanup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTest(t)

	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "a", Path: "/", Timestamp: now}))
	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "a", Path: "/", Timestamp: now.Add(-time.Hour)}))
	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "b", Path: "/cv/academic", Timestamp: now.AddDate(0, 0, -3)}))
	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "c", Path: "/", Timestamp: now.AddDate(-2, 0, 0)}))

	recent, err := s.RecentVisits(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, now, recent[0].Timestamp)

	st, err := s.Stats(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 4, st.TotalVisitors)
	require.EqualValues(t, 3, st.UniqueVisitors)
	require.EqualValues(t, 2, st.VisitorsToday)
	require.EqualValues(t, 3, st.VisitorsThisWeek)
	require.Equal(t, PathCount{Path: "/", Views: 3}, st.TopPaths[0])

	n, err := s.DeleteVisitsBefore(ctx, now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestMessagesLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTest(t)

	m := Message{ID: "m1", Name: "Ada", Email: "ada@example.com", Body: "hi", Status: StatusPending, CreatedAt: now}
	require.NoError(t, s.SaveMessage(ctx, m))
	require.NoError(t, s.SetMessageStatus(ctx, "m1", StatusFailed))

	got, err := s.Message(ctx, "m1")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, got.Status)
	require.Equal(t, now, got.CreatedAt)

	_, err = s.Message(ctx, "nope")
	require.True(t, errors.Is(err, ErrNotFound))
	require.True(t, errors.Is(s.SetMessageStatus(ctx, "nope", StatusSent), ErrNotFound))

	list, err := s.Messages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	st, err := s.Stats(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, st.TotalMessages)
	require.EqualValues(t, 1, st.FailedMessages)
}

func TestDownloadsCounted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTest(t)

	require.NoError(t, s.RecordDownload(ctx, "academic", "a", now))
	require.NoError(t, s.RecordDownload(ctx, "academic", "b", now))
	require.NoError(t, s.RecordDownload(ctx, "professional", "a", now))

	st, err := s.Stats(ctx, now)
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"academic": 2, "professional": 1}, st.Downloads)
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "folio.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
}
