// internal/catalog/sqlite.go
//
// SQLite-backed catalog source.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout).
//   - Applying embedded migrations from sql/*.sql (idempotent, recorded in _migrations).
//   - Importing question records and reading them back in insertion order.
//
// The game only ever reads from this database; writes happen when the
// catalog is seeded or imported.

package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/emoji-quiz/internal/game"
)

//go:embed sql/*.sql
var migrations embed.FS

// OpenDB opens (and creates if missing) a SQLite database file and migrates it.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	// Ensure directory exists for ./data/catalog.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// migrate applies embedded migrations in lexical order, each in its own transaction.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Count returns the number of stored questions.
func Count(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM questions`).Scan(&n)
	return n, err
}

// Import inserts items in a single transaction. Rows whose answer already
// exists for the same category are ignored.
func Import(ctx context.Context, db *sql.DB, items []game.Question) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT OR IGNORE INTO questions
            (emoji_puzzle, answer, year, lead_actor, famous_quote, difficulty, category)
        VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, q := range items {
		res, err := stmt.ExecContext(ctx, q.Puzzle, q.Answer, q.Year, q.LeadActor, q.Quote,
			string(q.Difficulty), string(q.Category))
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", q.Answer, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// ReadAll returns every stored question in insertion order.
func ReadAll(ctx context.Context, db *sql.DB) ([]game.Question, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT emoji_puzzle, answer, year, lead_actor, famous_quote, difficulty, category
        FROM questions
        ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []game.Question
	for rows.Next() {
		var q game.Question
		var diff, cat string
		if err := rows.Scan(&q.Puzzle, &q.Answer, &q.Year, &q.LeadActor, &q.Quote, &diff, &cat); err != nil {
			return nil, err
		}
		q.Difficulty, q.Category = game.Difficulty(diff), game.Category(cat)
		out = append(out, q)
	}
	return out, rows.Err()
}

// loadSQLite opens dsn, seeds an empty table from the embedded catalog and
// reads every question back.
func loadSQLite(ctx context.Context, dsn string) ([]game.Question, error) {
	db, err := OpenDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	defer db.Close()

	n, err := Count(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if n == 0 {
		seed, err := Default()
		if err != nil {
			return nil, err
		}
		added, err := Import(ctx, db, clean(seed, "embedded"))
		if err != nil {
			return nil, fmt.Errorf("seed catalog db: %w", err)
		}
		log.Info().Str("db", dsn).Int("questions", added).Msg("seeded catalog db")
	}
	return ReadAll(ctx, db)
}
