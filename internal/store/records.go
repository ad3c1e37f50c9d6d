package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Visit is one tracked page view. The client IP is only ever stored hashed.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Message status values.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Message is a stored contact form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordVisit stores a page view.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, ts) VALUES (?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, v.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("store: record visit: %w", err)
	}
	return nil
}

// RecentVisits returns the newest visits first.
func (s *Store) RecentVisits(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), ts
		FROM visitors ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent visits: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("store: scan visit: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, v)
	}
	return out, rows.Err()
}

// DeleteVisitsBefore removes visits older than cutoff and reports how many
// rows went.
func (s *Store) DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE ts < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("store: cleanup visits: %w", err)
	}
	return res.RowsAffected()
}

// SaveMessage inserts a contact message.
func (s *Store) SaveMessage(ctx context.Context, m Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, name, email, subject, body, status, ts) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Subject, m.Body, m.Status, m.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("store: save message: %w", err)
	}
	return nil
}

// SetMessageStatus updates the delivery status of a message.
func (s *Store) SetMessageStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE messages SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("store: set message status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Message loads one message by id.
func (s *Store) Message(ctx context.Context, id string) (Message, error) {
	var m Message
	var ts int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, COALESCE(subject, ''), body, status, ts FROM messages WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Status, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	if err != nil {
		return Message{}, fmt.Errorf("store: load message: %w", err)
	}
	m.CreatedAt = time.Unix(ts, 0).UTC()
	return m, nil
}

// Messages returns the newest messages first.
func (s *Store) Messages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, COALESCE(subject, ''), body, status, ts
		FROM messages ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var ts int64
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Status, &ts); err != nil {
			return nil, fmt.Errorf("store: scan message: %w", err)
		}
		m.CreatedAt = time.Unix(ts, 0).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// RecordDownload counts a CV download.
func (s *Store) RecordDownload(ctx context.Context, variant, hashedIP string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cv_downloads (variant, hashed_ip, ts) VALUES (?, ?, ?)`, variant, hashedIP, at.Unix())
	if err != nil {
		return fmt.Errorf("store: record download: %w", err)
	}
	return nil
}
