// Package profile persists call-site cache snapshots so the shape of a
// site (which kinds it learned, whether it went megamorphic) can be compared
// across runs.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/interop/internal/convert"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT    NOT NULL,
	recorded_at     TEXT    NOT NULL,
	site            TEXT    NOT NULL,
	target          TEXT    NOT NULL,
	cache_limit     INTEGER NOT NULL,
	state           TEXT    NOT NULL,
	kinds           TEXT    NOT NULL,
	megamorphic     INTEGER NOT NULL,
	hits            INTEGER NOT NULL,
	specializations INTEGER NOT NULL,
	fallbacks       INTEGER NOT NULL,
	failures        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS snapshots_site ON snapshots(site, target);
`

// Row is one recorded snapshot.
type Row struct {
	RunID      string
	RecordedAt time.Time
	convert.CacheState
}

// Store is a SQLite-backed snapshot store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening profile db %s: %w", path, err)
	}
	// modernc sqlite connections do not share an in-memory database
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing profile db %s: %w", path, err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NewRunID returns a fresh identifier grouping the snapshots of one run.
func NewRunID() string {
	return uuid.NewString()
}

// Record stores states under runID in a single transaction.
func (s *Store) Record(ctx context.Context, runID string, states ...convert.CacheState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshots
		(run_id, recorded_at, site, target, cache_limit, state, kinds, megamorphic,
		 hits, specializations, fallbacks, failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}
	defer stmt.Close()

	at := s.now().UTC().Format(time.RFC3339Nano)
	for _, st := range states {
		kinds, err := json.Marshal(st.Kinds)
		if err != nil {
			return fmt.Errorf("encoding kinds of %s: %w", st.Site, err)
		}
		_, err = stmt.ExecContext(ctx, runID, at, st.Site, st.Target, st.Limit, st.State, string(kinds),
			st.Megamorphic, int64(st.Hits), int64(st.Specializations), int64(st.Fallbacks), int64(st.Failures))
		if err != nil {
			return fmt.Errorf("recording %s: %w", st.Site, err)
		}
	}
	return tx.Commit()
}

// List returns every snapshot, oldest first. A non-empty site filters by site.
func (s *Store) List(ctx context.Context, site string) ([]Row, error) {
	query := `SELECT run_id, recorded_at, site, target, cache_limit, state, kinds, megamorphic,
		hits, specializations, fallbacks, failures FROM snapshots`
	var args []interface{}
	if site != "" {
		query += ` WHERE site = ?`
		args = append(args, site)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r                                Row
			at, kinds                        string
			hits, specs, fallbacks, failures int64
		)
		err := rows.Scan(&r.RunID, &at, &r.Site, &r.Target, &r.Limit, &r.State, &kinds, &r.Megamorphic,
			&hits, &specs, &fallbacks, &failures)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		if r.RecordedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("snapshot time %q: %w", at, err)
		}
		if err := json.Unmarshal([]byte(kinds), &r.Kinds); err != nil {
			return nil, fmt.Errorf("snapshot kinds %q: %w", kinds, err)
		}
		r.Hits, r.Specializations = uint64(hits), uint64(specs)
		r.Fallbacks, r.Failures = uint64(fallbacks), uint64(failures)
		out = append(out, r)
	}
	return out, rows.Err()
}
