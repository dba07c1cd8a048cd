package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/target/alert-dispatch/internal/data/pgxutil"
	"github.com/target/alert-dispatch/internal/domain/model"
)

// OutputConfigRepo persists the per-deployment output configuration in
// Postgres. Rows are (service_key, position, descriptor) with a unique
// constraint on (service_key, descriptor), so a colliding descriptor can
// never silently overwrite another destination's slot.
type OutputConfigRepo struct {
	DB *sql.DB
}

// NewOutputConfigRepo creates a new OutputConfigRepo.
func NewOutputConfigRepo(db *sql.DB) *OutputConfigRepo {
	return &OutputConfigRepo{DB: db}
}

func mapConfigWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", ErrOutputConfigConflict, pgErr.ConstraintName)
	}
	return err
}

// Load reads the full output configuration, descriptors ordered by their
// configured position within each service.
func (r *OutputConfigRepo) Load(ctx context.Context) (model.OutputConfig, error) {
	cfg := make(model.OutputConfig)
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT service_key, descriptor
			   FROM output_descriptors
			  ORDER BY service_key, position`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var serviceKey, descriptor string
			if scanErr := rows.Scan(&serviceKey, &descriptor); scanErr != nil {
				return scanErr
			}
			cfg[serviceKey] = append(cfg[serviceKey], descriptor)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("load output configuration: %w", err)
	}
	return cfg, nil
}

// ReplaceService swaps the full descriptor sequence for one service key in a
// single transaction. Validation happens before this is called; the swap is
// all-or-nothing.
func (r *OutputConfigRepo) ReplaceService(ctx context.Context, serviceKey string, descriptors []string) error {
	if serviceKey == "" {
		return errors.New("service key is required")
	}

	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM output_descriptors WHERE service_key = $1`, serviceKey); err != nil {
			return err
		}
		for position, descriptor := range descriptors {
			if _, err := tx.Exec(ctx,
				`INSERT INTO output_descriptors (service_key, position, descriptor)
				 VALUES ($1, $2, $3)`, serviceKey, position, descriptor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace output configuration for %s: %w", serviceKey, mapConfigWriteErr(err))
	}
	return nil
}
