package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/alert-dispatch/internal/core"
	"github.com/target/alert-dispatch/internal/data/pgxutil"
)

// PgBlobStore implements the object-storage boundary on Postgres. It backs
// the credential vault in deployments without a cloud bucket: ciphertext
// blobs keyed by (bucket, key), written whole in a single upsert.
type PgBlobStore struct {
	DB *sql.DB
}

// NewPgBlobStore creates a new PgBlobStore.
func NewPgBlobStore(db *sql.DB) *PgBlobStore {
	return &PgBlobStore{DB: db}
}

// Put writes the object atomically, replacing any previous version.
func (s *PgBlobStore) Put(ctx context.Context, bucket, key string, body []byte) error {
	if bucket == "" || key == "" {
		return errors.New("bucket and key are required")
	}
	err := pgxutil.WithPgxConn(ctx, s.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx,
			`INSERT INTO credential_blobs (bucket, key, body, updated_at)
			 VALUES ($1, $2, $3, now())
			 ON CONFLICT (bucket, key)
			 DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
			bucket, key, body)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("put blob %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Get returns the object body, or core.ErrObjectNotFound for an absent key.
func (s *PgBlobStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if bucket == "" || key == "" {
		return nil, errors.New("bucket and key are required")
	}
	var body []byte
	err := pgxutil.WithPgxConn(ctx, s.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT body FROM credential_blobs WHERE bucket = $1 AND key = $2`,
			bucket, key).Scan(&body)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("blob %s/%s: %w", bucket, key, core.ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s/%s: %w", bucket, key, err)
	}
	return body, nil
}
