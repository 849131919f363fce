// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vector

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/pdiddy/newsroom-engine/pkg/types"
)

const defaultTable = "context_documents"

// embeddingDim is the vector column width. Matches nomic-embed-text.
const embeddingDim = 768

// tablePattern restricts configured table names to plain identifiers, since
// they are interpolated into SQL.
var tablePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PGIndex is a Postgres + pgvector backed Index. Queries are embedded via
// the configured Embedder and matched by cosine distance.
type PGIndex struct {
	pool     *pgxpool.Pool
	embedder Embedder
	table    string
}

// NewPGIndex connects to Postgres, registers the vector type, and ensures
// the context-document table exists.
func NewPGIndex(ctx context.Context, cfg types.VectorConfig, embedder Embedder) (*PGIndex, error) {
	table := cfg.Table
	if table == "" {
		table = defaultTable
	}
	if !tablePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to Postgres: %w", err)
	}

	idx := &PGIndex{pool: pool, embedder: embedder, table: table}
	if err := idx.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *PGIndex) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d)
		)`, idx.table, embeddingDim),
	}
	for _, stmt := range statements {
		if _, err := idx.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Search embeds the query and returns the topK nearest documents by cosine
// distance, best-first. Score is 1 - distance.
func (idx *PGIndex) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 5
	}

	emb, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := idx.pool.Query(ctx, fmt.Sprintf(
		`SELECT title, content, 1 - (embedding <=> $1) AS score
		 FROM %s
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`, idx.table),
		pgvector.NewVector(emb), topK,
	)
	if err != nil {
		return nil, fmt.Errorf("querying context documents: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Title, &m.Content, &m.Score); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Upsert stores a context document and its embedding. A document with no ID
// gets a fresh one.
func (idx *PGIndex) Upsert(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	emb, err := idx.embedder.Embed(ctx, doc.Title+"\n"+doc.Content)
	if err != nil {
		return fmt.Errorf("embedding document: %w", err)
	}

	_, err = idx.pool.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, title, content, embedding) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
			title=excluded.title, content=excluded.content, embedding=excluded.embedding`,
		idx.table),
		doc.ID, doc.Title, doc.Content, pgvector.NewVector(emb),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (idx *PGIndex) Close() error {
	idx.pool.Close()
	return nil
}
