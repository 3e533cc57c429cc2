package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUploadExists is returned by Record when the key is already indexed.
var ErrUploadExists = errors.New("upload already indexed")

// Upload is one row of the upload index.
type Upload struct {
	Key          string
	OriginalName string
	Size         int64
	ContentType  string
	CreatedAt    time.Time
}

// UploadIndex records metadata about stored uploads.
type UploadIndex interface {
	Record(ctx context.Context, u Upload) error

	// Lookup returns false when the key is not indexed.
	Lookup(ctx context.Context, key string) (Upload, bool, error)
}

// PgUploadIndex is the PostgreSQL UploadIndex.
type PgUploadIndex struct {
	pool *pgxpool.Pool
}

func NewPgUploadIndex(pool *pgxpool.Pool) *PgUploadIndex {
	return &PgUploadIndex{pool: pool}
}

const insertUpload = `
INSERT INTO uploads (key, original_name, size, content_type)
VALUES ($1, $2, $3, $4)`

const selectUpload = `
SELECT key, original_name, size, content_type, created_at
FROM uploads
WHERE key = $1`

func (i *PgUploadIndex) Record(ctx context.Context, u Upload) error {
	_, err := i.pool.Exec(ctx, insertUpload, u.Key, u.OriginalName, u.Size, u.ContentType)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrUploadExists
		}
		return fmt.Errorf("failed to index upload %s: %w", u.Key, err)
	}
	return nil
}

func (i *PgUploadIndex) Lookup(ctx context.Context, key string) (Upload, bool, error) {
	var u Upload
	err := i.pool.QueryRow(ctx, selectUpload, key).
		Scan(&u.Key, &u.OriginalName, &u.Size, &u.ContentType, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Upload{}, false, nil
		}
		return Upload{}, false, fmt.Errorf("failed to look up upload %s: %w", key, err)
	}
	return u, true, nil
}

// NopUploadIndex is used when no database is configured.
type NopUploadIndex struct{}

func (NopUploadIndex) Record(context.Context, Upload) error { return nil }

func (NopUploadIndex) Lookup(context.Context, string) (Upload, bool, error) {
	return Upload{}, false, nil
}
