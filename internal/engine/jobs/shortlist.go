package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotShortlisted is returned when removing a posting that is not saved.
var ErrNotShortlisted = errors.New("posting not in shortlist")

// ShortlistEntry is a posting bookmarked during a session.
type ShortlistEntry struct {
	ID      int64   `json:"id"`
	Posting Posting `json:"posting"`
	AddedAt string  `json:"added_at"`
}

// Shortlist keeps bookmarked postings per session in an in-memory SQLite
// database. Nothing is written to disk; the data is gone when the process exits.
type Shortlist struct {
	db *sql.DB
}

// OpenShortlist opens a private in-memory database.
func OpenShortlist() (*Shortlist, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("shortlist: open db: %w", err)
	}
	// Every connection to :memory: is a separate database; keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := initShortlistSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("shortlist: init schema: %w", err)
	}
	return &Shortlist{db: db}, nil
}

func initShortlistSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS shortlist (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		session     TEXT NOT NULL,
		url         TEXT NOT NULL,
		title       TEXT NOT NULL,
		company     TEXT,
		location    TEXT,
		date_posted TEXT,
		description TEXT,
		source      TEXT,
		added_at    TEXT NOT NULL,
		UNIQUE(session, url)
	)`)
	return err
}

// Close releases the database.
func (s *Shortlist) Close() error { return s.db.Close() }

// Add saves p for the session. It reports false when the URL was already saved.
func (s *Shortlist) Add(ctx context.Context, session string, p Posting) (bool, error) {
	if p.URL == "" {
		return false, errors.New("shortlist: posting has no URL")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO shortlist (session, url, title, company, location, date_posted, description, source, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session, p.URL, p.Title, p.Company, p.Location, p.DatePosted, p.Description, p.Source,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("shortlist: insert: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// List returns the session's entries in insertion order.
func (s *Shortlist) List(ctx context.Context, session string) ([]ShortlistEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, title, company, location, date_posted, description, source, added_at
		 FROM shortlist WHERE session = ? ORDER BY id`, session)
	if err != nil {
		return nil, fmt.Errorf("shortlist: list: %w", err)
	}
	defer rows.Close()

	out := []ShortlistEntry{}
	for rows.Next() {
		var e ShortlistEntry
		var company, location, posted, desc, source sql.NullString
		if err := rows.Scan(&e.ID, &e.Posting.URL, &e.Posting.Title, &company, &location, &posted, &desc, &source, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("shortlist: scan: %w", err)
		}
		e.Posting.Company = company.String
		e.Posting.Location = location.String
		e.Posting.DatePosted = posted.String
		e.Posting.Description = desc.String
		e.Posting.Source = source.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// Remove deletes one entry of the session by id.
func (s *Shortlist) Remove(ctx context.Context, session string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shortlist WHERE session = ? AND id = ?`, session, id)
	if err != nil {
		return fmt.Errorf("shortlist: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w (id=%d)", ErrNotShortlisted, id)
	}
	return nil
}

// Clear drops every entry of the session.
func (s *Shortlist) Clear(ctx context.Context, session string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM shortlist WHERE session = ?`, session); err != nil {
		return fmt.Errorf("shortlist: clear: %w", err)
	}
	return nil
}
