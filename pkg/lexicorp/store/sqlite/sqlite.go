package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
	"github.com/cognicore/lexicorp/pkg/lexicorp/store"
	"github.com/cognicore/lexicorp/pkg/lexicorp/vocabulary"
)

// sqliteStore implements store.VocabularyStore using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and makes sure the
// vocabulary schema exists.
func OpenSQLite(ctx context.Context, path string) (store.VocabularyStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS vocab_tokens (
	id INTEGER PRIMARY KEY,
	token TEXT UNIQUE NOT NULL,
	df INTEGER NOT NULL,
	cf INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS vocab_meta (
	key TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Load reads the vocabulary. The docs counter row marks a saved vocabulary;
// without it nothing has been saved yet.
func (s *sqliteStore) Load(ctx context.Context) (*vocabulary.Vocabulary, bool, error) {
	var counts vocabulary.Counts
	err := s.db.QueryRowContext(ctx, `SELECT value FROM vocab_meta WHERE key='docs'`).Scan(&counts.Docs)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read vocabulary counters: %w", internalerr.ErrPersistence, err)
	}
	if counts.Positions, err = s.meta(ctx, "positions"); err != nil {
		return nil, false, err
	}
	if counts.NNZ, err = s.meta(ctx, "nnz"); err != nil {
		return nil, false, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, token, df, cf FROM vocab_tokens ORDER BY id`)
	if err != nil {
		return nil, false, fmt.Errorf("%w: read vocabulary tokens: %w", internalerr.ErrPersistence, err)
	}
	defer rows.Close()

	var entries []vocabulary.Entry
	for rows.Next() {
		var e vocabulary.Entry
		if err := rows.Scan(&e.ID, &e.Token, &e.DocFreq, &e.CollFreq); err != nil {
			return nil, false, fmt.Errorf("%w: scan vocabulary token: %w", internalerr.ErrPersistence, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("%w: read vocabulary tokens: %w", internalerr.ErrPersistence, err)
	}

	v, err := vocabulary.Restore(counts, entries)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *sqliteStore) meta(ctx context.Context, key string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM vocab_meta WHERE key=?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: vocabulary counter %q missing", internalerr.ErrCorrupt, key)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: read vocabulary counter %q: %w", internalerr.ErrPersistence, key, err)
	}
	return value, nil
}

// Save replaces both tables inside one transaction.
func (s *sqliteStore) Save(ctx context.Context, v *vocabulary.Vocabulary) error {
	if err := s.save(ctx, v); err != nil {
		return fmt.Errorf("%w: save vocabulary: %w", internalerr.ErrPersistence, err)
	}
	return nil
}

func (s *sqliteStore) save(ctx context.Context, v *vocabulary.Vocabulary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vocab_tokens`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vocab_meta`); err != nil {
		return err
	}

	c := v.Counts()
	meta := []struct {
		key   string
		value int64
	}{
		{"docs", c.Docs},
		{"positions", c.Positions},
		{"nnz", c.NNZ},
	}
	for _, m := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO vocab_meta (key, value) VALUES (?, ?)`, m.key, m.value); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO vocab_tokens (id, token, df, cf) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range v.Entries() {
		if _, err := stmt.ExecContext(ctx, e.ID, e.Token, e.DocFreq, e.CollFreq); err != nil {
			return err
		}
	}

	return tx.Commit()
}
