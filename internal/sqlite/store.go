package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/webfeathers/gemshelf/pkg/types"
)

// timeFormat is how timestamps are persisted.
const timeFormat = time.RFC3339

// maxUniqueAttempts bounds the slug and field-name suffix retry loops.
// Exhausting it surfaces types.ErrConflict.
const maxUniqueAttempts = 100

// Store is the SQLite-backed catalog store. Accessors share one database
// handle; multi-step invariant-bearing operations run inside transactions.
type Store struct {
	db    *sql.DB
	cfg   types.Config
	files types.FileStore
	log   zerolog.Logger

	fields    *Fields
	specimens *Specimens
	photos    *Photos
}

// Open creates the data directory if needed, opens the SQLite database, and
// ensures the schema exists. files is the external collaborator that removes
// photo artifacts; it may not be nil.
func Open(cfg types.Config, files types.FileStore, log zerolog.Logger) (*Store, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	// Foreign keys must be enabled per connection for the specimen cascade
	// to apply.
	dsn := "file:" + cfg.DatabasePath() + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create indexes: %w", err)
		}
	}

	s := &Store{db: db, cfg: cfg, files: files, log: log}
	s.fields = &Fields{store: s}
	s.specimens = &Specimens{store: s}
	s.photos = &Photos{store: s}
	return s, nil
}

// Close releases the database handle. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Fields returns the field catalog accessor.
func (s *Store) Fields() *Fields { return s.fields }

// Specimens returns the specimen repository accessor.
func (s *Store) Specimens() *Specimens { return s.specimens }

// Photos returns the photo collection accessor.
func (s *Store) Photos() *Photos { return s.photos }

// Config returns the effective configuration the store was opened with.
func (s *Store) Config() types.Config { return s.cfg }

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure, the backstop for slug and field-name check-then-insert races.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nowUTC returns the current time truncated for stable round-tripping
// through the text timestamp columns.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// parseTime decodes a persisted timestamp, tolerating an empty column.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
