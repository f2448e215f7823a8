package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Client backed by a documents table with jsonb fields.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed document store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Get implements Client.
func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	const selectSQL = `
		SELECT fields
		FROM documents
		WHERE collection = $1 AND id = $2
	`

	var raw []byte
	if err := p.pool.QueryRow(ctx, selectSQL, collection, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("docstore: get %s/%s: %w", collection, id, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("docstore: decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Set implements Client with an upsert.
func (p *Postgres) Set(ctx context.Context, collection, id string, fields Document) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("docstore: marshal %s/%s: %w", collection, id, err)
	}

	const upsertSQL = `
		INSERT INTO documents (collection, id, fields)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET fields = EXCLUDED.fields
	`
	if _, err := p.pool.Exec(ctx, upsertSQL, collection, id, body); err != nil {
		return fmt.Errorf("docstore: set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update implements Client with a jsonb merge.
func (p *Postgres) Update(ctx context.Context, collection, id string, partial Document) error {
	body, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("docstore: marshal partial %s/%s: %w", collection, id, err)
	}

	const mergeSQL = `
		UPDATE documents
		SET fields = fields || $3::jsonb
		WHERE collection = $1 AND id = $2
	`
	tag, err := p.pool.Exec(ctx, mergeSQL, collection, id, body)
	if err != nil {
		return fmt.Errorf("docstore: update %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete implements Client.
func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll implements Client.
func (p *Postgres) ListAll(ctx context.Context, collection string) ([]Document, error) {
	const listSQL = `
		SELECT id, fields
		FROM documents
		WHERE collection = $1
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, listSQL, collection)
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("docstore: scan %s: %w", collection, err)
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("docstore: decode %s/%s: %w", collection, id, err)
		}
		doc["id"] = id
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
	}

	return docs, nil
}
