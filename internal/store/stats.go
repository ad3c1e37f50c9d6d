package store

import (
	"context"
	"fmt"
	"time"
)

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64            `json:"total_visitors"`
	UniqueVisitors   int64            `json:"unique_visitors"`
	VisitorsToday    int64            `json:"visitors_today"`
	VisitorsThisWeek int64            `json:"visitors_this_week"`
	TotalMessages    int64            `json:"total_messages"`
	FailedMessages   int64            `json:"failed_messages"`
	Downloads        map[string]int64 `json:"downloads"`
	TopPaths         []PathCount      `json:"top_paths"`
	RecentVisitors   []Visit          `json:"recent_visitors"`
}

// PathCount is a page and how often it was viewed.
type PathCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// Stats computes the dashboard summary relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	st := &Stats{Downloads: make(map[string]int64)}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	counts := []struct {
		dst  *int64
		q    string
		args []any
	}{
		{&st.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&st.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&st.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{day.Unix()}},
		{&st.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{now.AddDate(0, 0, -7).Unix()}},
		{&st.TotalMessages, `SELECT COUNT(*) FROM messages`, nil},
		{&st.FailedMessages, `SELECT COUNT(*) FROM messages WHERE status = ?`, []any{StatusFailed}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.q, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("store: stats: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT variant, COUNT(*) FROM cv_downloads GROUP BY variant`)
	if err != nil {
		return nil, fmt.Errorf("store: stats downloads: %w", err)
	}
	for rows.Next() {
		var v string
		var n int64
		if err := rows.Scan(&v, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("store: scan downloads: %w", err)
		}
		st.Downloads[v] = n
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT path, COUNT(*) AS views FROM visitors GROUP BY path ORDER BY views DESC, path LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("store: stats paths: %w", err)
	}
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Views); err != nil {
			rows.Close()
			return nil, fmt.Errorf("store: scan paths: %w", err)
		}
		st.TopPaths = append(st.TopPaths, pc)
	}
	rows.Close()

	st.RecentVisitors, err = s.RecentVisits(ctx, 50)
	if err != nil {
		return nil, err
	}
	return st, nil
}
