// Package session persists the cross-invocation record of touched paths
// for the current working session. The record is valid as a whole for a
// fixed window anchored at first touch; after the window expires it is
// discarded and restarted empty. Every failure path degrades to an empty
// state so the gate never blocks, or fails, because of its own storage.
package session

import (
	"database/sql"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_window (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS touched_paths (
	seq   INTEGER PRIMARY KEY AUTOINCREMENT,
	path  TEXT NOT NULL UNIQUE
);
`

// State is the in-memory view of the persisted session record.
type State struct {
	// TouchedPaths is ordered by first touch.
	TouchedPaths []string
	CreatedAt    time.Time
}

// Count returns the number of distinct touched paths.
func (s State) Count() int {
	return len(s.TouchedPaths)
}

// Contains reports whether the path has been touched in this window.
func (s State) Contains(path string) bool {
	for _, p := range s.TouchedPaths {
		if p == path {
			return true
		}
	}
	return false
}

// Store owns the session record and its TTL logic. Callers never touch the
// backing database directly.
type Store struct {
	db     *sql.DB
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the session database at path. It never
// returns an error: if the database cannot be opened or migrated, the
// returned store serves empty state and swallows writes.
func Open(path string, ttl time.Duration, logger *zap.Logger) *Store {
	s := &Store{ttl: ttl, logger: logger, now: time.Now}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Warn("session db open failed, continuing stateless", zap.Error(err))
		return s
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		logger.Warn("session db pragma failed, continuing stateless", zap.Error(err))
		_ = db.Close()
		return s
	}
	if _, err := db.Exec(schema); err != nil {
		logger.Warn("session db migrate failed, continuing stateless", zap.Error(err))
		_ = db.Close()
		return s
	}

	s.db = db
	return s
}

// Close releases the underlying database, if any.
func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Load returns the current session state. An absent, expired, or unreadable
// record yields a fresh empty state. Expiry is all-or-nothing: the window's
// anchor timestamp gates the whole path set.
func (s *Store) Load() State {
	if s.db == nil {
		return State{}
	}

	createdAt, ok := s.windowStart()
	if !ok {
		return State{}
	}
	if s.now().Sub(createdAt) >= s.ttl {
		s.reset()
		return State{}
	}

	paths, err := s.paths()
	if err != nil {
		s.logger.Warn("session paths read failed, treating as empty", zap.Error(err))
		return State{}
	}
	return State{TouchedPaths: paths, CreatedAt: createdAt}
}

// MergeAndSave unions path into the touched set and persists the result.
// The window anchor is stamped only when the record is created by this
// call; later touches do not refresh the TTL clock. Persistence failures
// are swallowed and the merged in-memory state is still returned so the
// current invocation's rules see the union.
func (s *Store) MergeAndSave(path string) State {
	st := s.Load()

	if st.CreatedAt.IsZero() {
		st.CreatedAt = s.now()
		if s.db != nil {
			if _, err := s.db.Exec(
				`INSERT INTO session_window (id, created_at) VALUES (1, ?)
				 ON CONFLICT(id) DO UPDATE SET created_at = excluded.created_at`,
				st.CreatedAt.UTC().Format(time.RFC3339Nano),
			); err != nil {
				s.logger.Warn("session window stamp failed", zap.Error(err))
			}
		}
	}

	if !st.Contains(path) {
		st.TouchedPaths = append(st.TouchedPaths, path)
		if s.db != nil {
			if _, err := s.db.Exec(
				`INSERT INTO touched_paths (path) VALUES (?) ON CONFLICT(path) DO NOTHING`,
				path,
			); err != nil {
				s.logger.Warn("session path persist failed", zap.Error(err))
			}
		}
	}

	return st
}

func (s *Store) windowStart() (time.Time, bool) {
	var createdStr string
	err := s.db.QueryRow(`SELECT created_at FROM session_window WHERE id = 1`).Scan(&createdStr)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("session window read failed, treating as empty", zap.Error(err))
		}
		return time.Time{}, false
	}
	createdAt, err := time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return time.Time{}, false
	}
	return createdAt, true
}

func (s *Store) paths() ([]string, error) {
	rows, err := s.db.Query(`SELECT path FROM touched_paths ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func (s *Store) reset() {
	if _, err := s.db.Exec(`DELETE FROM touched_paths`); err != nil {
		s.logger.Warn("session reset failed", zap.Error(err))
	}
	if _, err := s.db.Exec(`DELETE FROM session_window`); err != nil {
		s.logger.Warn("session reset failed", zap.Error(err))
	}
}
