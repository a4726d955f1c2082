package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecommstack/promotions-service/internal/model"
)

// PoolInterface defines the database operations needed by the repository.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PromotionRepository provides data access for promotions using pgx.
type PromotionRepository struct {
	pool PoolInterface
}

// NewPromotionRepository creates a new PromotionRepository with the given pool.
func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// NewPromotionRepositoryWithPool creates a new PromotionRepository with a
// custom pool interface. This is primarily used for testing.
func NewPromotionRepositoryWithPool(pool PoolInterface) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

const promotionColumns = `id, name, start_date, end_date, type, value, ongoing, product_id`

// Insert inserts a new promotion and assigns the generated id to promo.ID.
func (r *PromotionRepository) Insert(ctx context.Context, promo *model.Promotion) error {
	query := `INSERT INTO promotions (name, start_date, end_date, type, value, ongoing, product_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		promo.Name, promo.StartDate, promo.EndDate,
		promo.Type.String(), promo.Value, promo.Ongoing, promo.ProductID,
	).Scan(&promo.ID)
	if err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

// GetByID retrieves a promotion by its id.
// Returns nil, nil if the promotion is not found (service layer handles this).
func (r *PromotionRepository) GetByID(ctx context.Context, id int64) (*model.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = $1`

	promo, err := scanPromotion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get promotion %d: %w", id, err)
	}
	return promo, nil
}

// Update replaces every stored field of the promotion identified by promo.ID.
// Updating a row that no longer exists is a no-op.
func (r *PromotionRepository) Update(ctx context.Context, promo *model.Promotion) error {
	query := `UPDATE promotions
		SET name = $1, start_date = $2, end_date = $3, type = $4, value = $5, ongoing = $6, product_id = $7
		WHERE id = $8`

	_, err := r.pool.Exec(ctx, query,
		promo.Name, promo.StartDate, promo.EndDate,
		promo.Type.String(), promo.Value, promo.Ongoing, promo.ProductID,
		promo.ID,
	)
	if err != nil {
		return fmt.Errorf("update promotion %d: %w", promo.ID, err)
	}
	return nil
}

// Delete removes the promotion with the given id. Deleting an id that does
// not exist is not an error.
func (r *PromotionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion %d: %w", id, err)
	}
	return nil
}

// ListAll returns every stored promotion. Ordering is store-determined.
func (r *PromotionRepository) ListAll(ctx context.Context) ([]model.Promotion, error) {
	return r.list(ctx, `SELECT `+promotionColumns+` FROM promotions`)
}

// ListByName returns promotions whose name matches exactly.
func (r *PromotionRepository) ListByName(ctx context.Context, name string) ([]model.Promotion, error) {
	return r.list(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE name = $1`, name)
}

// ListByProductID returns promotions applied to the given product.
func (r *PromotionRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Promotion, error) {
	return r.list(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE product_id = $1`, productID)
}

// ListByStartDate returns promotions starting at exactly the given instant.
func (r *PromotionRepository) ListByStartDate(ctx context.Context, start time.Time) ([]model.Promotion, error) {
	return r.list(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE start_date = $1`, start)
}

// ListActiveOn returns promotions whose date range covers the given instant.
// Open-ended promotions (NULL end_date) match any instant at or after their
// start date.
func (r *PromotionRepository) ListActiveOn(ctx context.Context, at time.Time) ([]model.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions
		WHERE start_date <= $1 AND (end_date IS NULL OR end_date >= $1)`
	return r.list(ctx, query, at)
}

func (r *PromotionRepository) list(ctx context.Context, query string, args ...any) ([]model.Promotion, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query promotions: %w", err)
	}
	defer rows.Close()

	// Return empty slice, not nil
	promotions := []model.Promotion{}
	for rows.Next() {
		promo, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		promotions = append(promotions, *promo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotion rows: %w", err)
	}
	return promotions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPromotion(row rowScanner) (*model.Promotion, error) {
	var promo model.Promotion
	var typeName string
	err := row.Scan(
		&promo.ID,
		&promo.Name,
		&promo.StartDate,
		&promo.EndDate,
		&typeName,
		&promo.Value,
		&promo.Ongoing,
		&promo.ProductID,
	)
	if err != nil {
		return nil, err
	}
	promoType, err := model.ParseType(typeName)
	if err != nil {
		return nil, fmt.Errorf("stored promotion type: %w", err)
	}
	promo.Type = promoType
	return &promo, nil
}
