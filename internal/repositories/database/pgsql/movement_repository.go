package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/apperrors"
	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	portsrepo "github.com/kigalisoft/salon_manager_app/internal/core/ports/repositories"
	"github.com/kigalisoft/salon_manager_app/internal/models"
	"github.com/kigalisoft/salon_manager_app/internal/utils/mapping"
	"github.com/kigalisoft/salon_manager_app/internal/utils/pagination"
)

const movementColumns = `movement_id, product_id, movement_type, direction, quantity, notes, level_after, created_at, created_by`

type PgxMovementRepository struct {
	BaseRepository
}

// newPgxMovementRepository creates a new repository for the stock ledger.
func newPgxMovementRepository(pool *pgxpool.Pool) portsrepo.MovementRepositoryFacade {
	return &PgxMovementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxMovementRepository implements portsrepo.MovementRepositoryFacade
var _ portsrepo.MovementRepositoryFacade = (*PgxMovementRepository)(nil)

// lockProductLevel reads and locks the product row inside tx, returning the
// current cached stock level.
func lockProductLevel(ctx context.Context, tx pgx.Tx, productID string) (decimal.Decimal, error) {
	var level decimal.Decimal
	err := tx.QueryRow(ctx,
		`SELECT stock_level FROM products WHERE product_id = $1 FOR UPDATE;`,
		productID,
	).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to lock product %s: %w", productID, err)
	}
	return level, nil
}

// AppendMovement inserts one immutable ledger row and maintains the cached
// stock level in a single transaction. The product row lock serializes
// concurrent appends to the same product, so level_after values are gapless
// and the cache never drifts from the ledger.
func (r *PgxMovementRepository) AppendMovement(ctx context.Context, movement domain.StockMovement, allowNegative bool) (*domain.StockMovement, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	currentLevel, err := lockProductLevel(ctx, tx, movement.ProductID)
	if err != nil {
		return nil, err
	}

	newLevel := currentLevel.Add(movement.SignedQuantity())
	if !allowNegative && newLevel.IsNegative() {
		return nil, fmt.Errorf("%w: product %s has %s, movement needs %s",
			apperrors.ErrInsufficientStock, movement.ProductID, currentLevel.String(), movement.Quantity.String())
	}

	modelMovement := mapping.ToModelStockMovement(movement)
	modelMovement.LevelAfter = newLevel

	insertQuery := fmt.Sprintf(`
		INSERT INTO stock_movements (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, movementColumns)
	_, err = tx.Exec(ctx, insertQuery,
		modelMovement.MovementID,
		modelMovement.ProductID,
		modelMovement.MovementType,
		modelMovement.Direction,
		modelMovement.Quantity,
		modelMovement.Notes,
		modelMovement.LevelAfter,
		modelMovement.CreatedAt,
		modelMovement.CreatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert movement %s: %w", movement.MovementID, err)
	}

	updateQuery := `
		UPDATE products
		SET stock_level = $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery, movement.ProductID, newLevel, movement.CreatedAt, movement.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock level for product %s: %w", movement.ProductID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// The row was locked above, so this should be unreachable.
		return nil, apperrors.ErrNotFound
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	stored := mapping.ToDomainStockMovement(modelMovement)
	return &stored, nil
}

// FindMovementsByProduct retrieves a page of a product's ledger, oldest
// first, using (created_at, movement_id) token-based pagination.
func (r *PgxMovementRepository) FindMovementsByProduct(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	args := []interface{}{productID}
	query := fmt.Sprintf(`
		SELECT %s
		FROM stock_movements
		WHERE product_id = $1
	`, movementColumns)

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastMovementID, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (created_at, movement_id) > ($2, $3)`
		args = append(args, lastCreatedAt, lastMovementID)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at ASC, movement_id ASC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query movements for product %s: %w", productID, err)
	}
	defer rows.Close()

	movements := []models.StockMovement{}
	for rows.Next() {
		var m models.StockMovement
		err := rows.Scan(
			&m.MovementID,
			&m.ProductID,
			&m.MovementType,
			&m.Direction,
			&m.Quantity,
			&m.Notes,
			&m.LevelAfter,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan movement row for product %s: %w", productID, err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating movement rows for product %s: %w", productID, err)
	}

	var nextTokenVal *string
	if len(movements) > limit {
		movements = movements[:limit]
		last := movements[len(movements)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.MovementID)
		nextTokenVal = &token
	}

	return mapping.ToDomainStockMovementSlice(movements), nextTokenVal, nil
}

// RebuildStockLevel refolds the product's entire ledger and repairs the
// cached stock level column, returning the rebuilt level.
func (r *PgxMovementRepository) RebuildStockLevel(ctx context.Context, productID string, userID string, now time.Time) (decimal.Decimal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	if _, err := lockProductLevel(ctx, tx, productID); err != nil {
		return decimal.Zero, err
	}

	var rebuilt decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN direction = 'DECREASE' THEN -quantity ELSE quantity END), 0)
		FROM stock_movements
		WHERE product_id = $1;
	`, productID).Scan(&rebuilt)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fold ledger for product %s: %w", productID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE products
		SET stock_level = $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1;
	`, productID, rebuilt, now, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to repair stock level for product %s: %w", productID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, err
	}

	return rebuilt, nil
}
