// Package store provides SQLite persistence for the portal backend:
// interstitial items, per-viewer interaction flags, aggregate tallies,
// comments and view registrations.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/citygate/interstitial/internal/content"
	"github.com/citygate/interstitial/internal/interact"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	// Build connection string based on database type
	connStr := dbPath
	if dbPath == ":memory:" {
		// For in-memory databases, use shared cache mode so all connections
		// in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// For in-memory databases, limit to 1 connection to avoid issues
	// with multiple connections getting different databases
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Enable WAL mode for file-based databases (not :memory:)
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT,
		media_url TEXT,
		total_seconds INTEGER NOT NULL,
		mandatory_seconds INTEGER NOT NULL,
		skippable INTEGER DEFAULT 1,
		status TEXT NOT NULL DEFAULT 'active',
		event_start DATETIME,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS flags (
		viewer_id TEXT NOT NULL,
		content_id TEXT NOT NULL,
		type TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (viewer_id, content_id, type)
	);

	CREATE TABLE IF NOT EXISTS tallies (
		content_id TEXT NOT NULL,
		type TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (content_id, type)
	);

	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		content_id TEXT NOT NULL,
		author TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS views (
		content_id TEXT NOT NULL,
		viewer_id TEXT NOT NULL,
		viewed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);
	CREATE INDEX IF NOT EXISTS idx_flags_content ON flags(content_id, type);
	CREATE INDEX IF NOT EXISTS idx_comments_content ON comments(content_id);
	CREATE INDEX IF NOT EXISTS idx_views_content ON views(content_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SeedItems stores content items, returning count of new items inserted.
// Duplicates (by ID) are silently ignored via INSERT OR IGNORE.
// Thread-safe: acquires write lock.
func (s *Store) SeedItems(items []content.Item) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`
		INSERT OR IGNORE INTO items (
			id, kind, title, body, media_url, total_seconds,
			mandatory_seconds, skippable, status, event_start, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for _, item := range items {
		var eventStart any
		if !item.EventStart.IsZero() {
			eventStart = item.EventStart
		}
		createdAt := item.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		result, err := stmt.Exec(
			item.ID,
			string(item.Kind),
			item.Title,
			item.Body,
			item.MediaURL,
			item.TotalSeconds,
			item.MandatorySeconds,
			boolToInt(item.Skippable),
			string(item.Status),
			eventStart,
			createdAt,
		)
		if err != nil {
			return newCount, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return newCount, err
		}
		if affected > 0 {
			newCount++
		}
	}

	return newCount, nil
}

// ActiveItems retrieves the items eligible for presentation, oldest first
// so the queue order is stable across fetches.
// Thread-safe: acquires read lock.
func (s *Store) ActiveItems() ([]content.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, kind, title, body, media_url, total_seconds,
			mandatory_seconds, skippable, status, event_start, created_at
		FROM items
		WHERE status = 'active'
		ORDER BY created_at ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []content.Item
	for rows.Next() {
		var (
			item       content.Item
			kind       string
			status     string
			skipInt    int
			eventStart sql.NullTime
		)
		err := rows.Scan(
			&item.ID,
			&kind,
			&item.Title,
			&item.Body,
			&item.MediaURL,
			&item.TotalSeconds,
			&item.MandatorySeconds,
			&skipInt,
			&status,
			&eventStart,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		item.Kind = content.Kind(kind)
		item.Status = content.Status(status)
		item.Skippable = skipInt != 0
		if eventStart.Valid {
			item.EventStart = eventStart.Time
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// RegisterView records that an item was shown to a viewer.
// Thread-safe: acquires write lock.
func (s *Store) RegisterView(contentID, viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO views (content_id, viewer_id, viewed_at) VALUES (?, ?, ?)",
		contentID, viewerID, time.Now(),
	)
	return err
}

// Toggle applies one interaction for a viewer and returns the new
// aggregate count for that type. Like and favorite flip a per-viewer flag;
// share and calendar increment an unconditioned tally.
// Thread-safe: acquires write lock.
func (s *Store) Toggle(viewerID, contentID string, typ interact.Type) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch typ {
	case interact.TypeLike, interact.TypeFavorite:
		res, err := s.db.Exec(
			"DELETE FROM flags WHERE viewer_id = ? AND content_id = ? AND type = ?",
			viewerID, contentID, string(typ),
		)
		if err != nil {
			return 0, err
		}
		deleted, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if deleted == 0 {
			_, err = s.db.Exec(
				"INSERT INTO flags (viewer_id, content_id, type, created_at) VALUES (?, ?, ?, ?)",
				viewerID, contentID, string(typ), time.Now(),
			)
			if err != nil {
				return 0, err
			}
		}
		return s.countFlags(contentID, typ)

	case interact.TypeShare, interact.TypeCalendar:
		_, err := s.db.Exec(`
			INSERT INTO tallies (content_id, type, count) VALUES (?, ?, 1)
			ON CONFLICT(content_id, type) DO UPDATE SET count = count + 1
		`, contentID, string(typ))
		if err != nil {
			return 0, err
		}
		return s.countTally(contentID, typ)

	default:
		return 0, fmt.Errorf("type %q cannot be toggled", typ)
	}
}

// Counters computes the aggregate counts for one item across all types.
// Comment counts come straight from the comments table.
// Thread-safe: acquires read lock.
func (s *Store) Counters(contentID string) (interact.Counters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counters := interact.Counters{}
	for _, typ := range []interact.Type{interact.TypeLike, interact.TypeFavorite} {
		n, err := s.countFlags(contentID, typ)
		if err != nil {
			return nil, err
		}
		counters[typ] = n
	}
	for _, typ := range []interact.Type{interact.TypeShare, interact.TypeCalendar} {
		n, err := s.countTally(contentID, typ)
		if err != nil {
			return nil, err
		}
		counters[typ] = n
	}

	var comments int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM comments WHERE content_id = ?", contentID,
	).Scan(&comments)
	if err != nil {
		return nil, err
	}
	counters[interact.TypeComment] = comments

	return counters, nil
}

// Flags returns which flag-style interactions a viewer has active on an
// item. Share and calendar are tallies, not flags, so they never appear.
// Thread-safe: acquires read lock.
func (s *Store) Flags(viewerID, contentID string) (interact.Flags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT type FROM flags WHERE viewer_id = ? AND content_id = ?",
		viewerID, contentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flags := interact.Flags{}
	for rows.Next() {
		var typ string
		if err := rows.Scan(&typ); err != nil {
			return nil, err
		}
		flags[interact.Type(typ)] = true
	}
	return flags, rows.Err()
}

// Comments retrieves an item's comments oldest first.
// Thread-safe: acquires read lock.
func (s *Store) Comments(contentID string) ([]interact.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, content_id, author, text, created_at
		FROM comments
		WHERE content_id = ?
		ORDER BY created_at ASC
	`, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []interact.Comment
	for rows.Next() {
		var c interact.Comment
		if err := rows.Scan(&c.ID, &c.ContentID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddComment appends a comment and returns the stored record.
// Thread-safe: acquires write lock.
func (s *Store) AddComment(viewerID, contentID, text string) (interact.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := interact.Comment{
		ID:        uuid.NewString(),
		ContentID: contentID,
		Author:    viewerID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		"INSERT INTO comments (id, content_id, author, text, created_at) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.ContentID, c.Author, c.Text, c.CreatedAt,
	)
	if err != nil {
		return interact.Comment{}, err
	}
	return c, nil
}

// countFlags counts active flags of one type for an item.
// Caller must hold s.mu (read lock is sufficient).
func (s *Store) countFlags(contentID string, typ interact.Type) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM flags WHERE content_id = ? AND type = ?",
		contentID, string(typ),
	).Scan(&n)
	return n, err
}

// countTally reads the running tally of one type for an item.
// Caller must hold s.mu (read lock is sufficient).
func (s *Store) countTally(contentID string, typ interact.Type) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COALESCE(SUM(count), 0) FROM tallies WHERE content_id = ? AND type = ?",
		contentID, string(typ),
	).Scan(&n)
	return n, err
}

// boolToInt converts a bool to an int for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
