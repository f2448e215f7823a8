package blobstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Client backed by a blobs table with bytea content.
type Postgres struct {
	pool    *pgxpool.Pool
	baseURL string
}

// NewPostgres creates a PostgreSQL-backed blob store. References are baseURL
// joined with the blob path.
func NewPostgres(pool *pgxpool.Pool, baseURL string) *Postgres {
	return &Postgres{
		pool:    pool,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload implements Client with an upsert, so re-uploading a path replaces
// the prior content in place.
func (p *Postgres) Upload(ctx context.Context, path string, data []byte) (string, error) {
	const upsertSQL = `
		INSERT INTO blobs (path, content)
		VALUES ($1, $2)
		ON CONFLICT (path) DO UPDATE SET content = EXCLUDED.content, updated_at = now()
	`
	if _, err := p.pool.Exec(ctx, upsertSQL, path, data); err != nil {
		return "", fmt.Errorf("blobstore: upload %s: %w", path, err)
	}
	return p.Reference(path), nil
}

// Reference implements Client.
func (p *Postgres) Reference(path string) string {
	return p.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Delete implements Client.
func (p *Postgres) Delete(ctx context.Context, path string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM blobs WHERE path = $1`, path)
	if err != nil {
		return fmt.Errorf("blobstore: delete %s: %w", path, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
