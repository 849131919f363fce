// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/newsroom-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "prompts.db"
)

// SQLiteStore is the durable prompt log backend: a WAL-mode SQLite database
// with an FTS5 index over both prompt columns. go-sqlite3 must be compiled
// with the sqlite_fts5 build tag (the mage Build and Test targets pass it);
// without it NewSQLiteStore fails creating the FTS virtual table.
type SQLiteStore struct {
	db         *sql.DB
	maxResults int
}

// NewSQLiteStore opens or creates the prompt log database at
// logsDir/index/prompts.db and creates the schema if it does not exist.
func NewSQLiteStore(cfg types.LogStoreConfig) (*SQLiteStore, error) {
	dbDir := filepath.Join(cfg.LogsDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &SQLiteStore{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS prompt_log (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			timestamp TEXT NOT NULL,
			original_prompt TEXT NOT NULL,
			enhanced_prompt TEXT NOT NULL,
			provider TEXT,
			article_count INTEGER DEFAULT 0,
			status TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prompt_log_provider ON prompt_log(provider)`,
		`CREATE INDEX IF NOT EXISTS idx_prompt_log_status ON prompt_log(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='prompt_log_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE prompt_log_fts USING fts5(original_prompt, enhanced_prompt, content=prompt_log, content_rowid=rowid)`,
			`CREATE TRIGGER prompt_log_ai AFTER INSERT ON prompt_log BEGIN
				INSERT INTO prompt_log_fts(rowid, original_prompt, enhanced_prompt)
				VALUES (new.rowid, new.original_prompt, new.enhanced_prompt);
			END`,
			`CREATE TRIGGER prompt_log_ad AFTER DELETE ON prompt_log BEGIN
				INSERT INTO prompt_log_fts(prompt_log_fts, rowid, original_prompt, enhanced_prompt)
				VALUES('delete', old.rowid, old.original_prompt, old.enhanced_prompt);
			END`,
			`CREATE TRIGGER prompt_log_au AFTER UPDATE ON prompt_log BEGIN
				INSERT INTO prompt_log_fts(prompt_log_fts, rowid, original_prompt, enhanced_prompt)
				VALUES('delete', old.rowid, old.original_prompt, old.enhanced_prompt);
				INSERT INTO prompt_log_fts(rowid, original_prompt, enhanced_prompt)
				VALUES (new.rowid, new.original_prompt, new.enhanced_prompt);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Write inserts one prompt log entry. An entry with no ID gets a fresh one.
func (s *SQLiteStore) Write(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prompt_log (id, timestamp, original_prompt, enhanced_prompt, provider, article_count, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.UTC().Format(time.RFC3339Nano),
		e.OriginalPrompt, e.EnhancedPrompt, e.Provider, e.ArticleCount, string(e.Status),
	)
	if err != nil {
		return fmt.Errorf("inserting prompt log entry: %w", err)
	}
	return nil
}

// SetArticleCount records the run outcome on an existing entry.
func (s *SQLiteStore) SetArticleCount(ctx context.Context, id string, count int, status EntryStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE prompt_log SET article_count = ?, status = ? WHERE id = ?`,
		count, string(status), id,
	)
	if err != nil {
		return fmt.Errorf("updating prompt log entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("prompt log entry %s not found", id)
	}
	return nil
}

// ftsQuery rewrites raw search text as quoted FTS5 phrase terms so syntax
// characters and operator words match literally instead of surfacing as
// query errors. Terms are joined by FTS5's implicit AND.
func ftsQuery(text string) string {
	terms := strings.Fields(text)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// Search queries the prompt log with optional full-text search and
// structured filters. Full-text queries are ranked by relevance; filter-only
// queries return newest entries first.
func (s *SQLiteStore) Search(ctx context.Context, q Query) ([]Entry, error) {
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb      strings.Builder
		args    []any
		ftsText = ftsQuery(q.Text)
		useFTS  = ftsText != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT l.id, l.timestamp, l.original_prompt, l.enhanced_prompt,
				l.provider, l.article_count, l.status
			FROM prompt_log_fts
			JOIN prompt_log l ON l.rowid = prompt_log_fts.rowid
			WHERE prompt_log_fts MATCH ?`)
		args = append(args, ftsText)
	} else {
		qb.WriteString(
			`SELECT l.id, l.timestamp, l.original_prompt, l.enhanced_prompt,
				l.provider, l.article_count, l.status
			FROM prompt_log l
			WHERE 1=1`)
	}

	if q.Provider != "" {
		qb.WriteString(` AND l.provider = ?`)
		args = append(args, q.Provider)
	}

	if q.Status != "" {
		qb.WriteString(` AND l.status = ?`)
		args = append(args, string(q.Status))
	}

	if useFTS {
		qb.WriteString(` ORDER BY prompt_log_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY l.timestamp DESC`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying prompt log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			ts     string
			status string
		)
		if err := rows.Scan(&e.ID, &ts, &e.OriginalPrompt, &e.EnhancedPrompt,
			&e.Provider, &e.ArticleCount, &status); err != nil {
			return nil, fmt.Errorf("scanning prompt log entry: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Timestamp = parsed
		}
		e.Status = EntryStatus(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
