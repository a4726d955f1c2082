package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// The service owns its single table and creates it at startup; there is no
// migration tooling. Statements run one at a time because the pool's default
// query mode does not allow multi-statement strings.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS promotions (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(63) NOT NULL,
		start_date TIMESTAMPTZ NOT NULL,
		end_date   TIMESTAMPTZ,
		type       TEXT NOT NULL,
		value      DOUBLE PRECISION NOT NULL,
		ongoing    BOOLEAN NOT NULL,
		product_id BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_promotions_name ON promotions (name)`,
	`CREATE INDEX IF NOT EXISTS idx_promotions_product_id ON promotions (product_id)`,
}

// EnsureSchema creates the promotions table and its indexes if they do not
// already exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	log.Info().Msg("database schema ready")
	return nil
}
