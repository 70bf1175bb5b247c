package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/apperrors"
	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	portsrepo "github.com/kigalisoft/salon_manager_app/internal/core/ports/repositories"
	"github.com/kigalisoft/salon_manager_app/internal/models"
	"github.com/kigalisoft/salon_manager_app/internal/utils/mapping"
)

const productColumns = `product_id, salon_id, name, sku, unit_price, tax_rate, is_inventory_item, stock_level, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxProductRepository struct {
	pool *pgxpool.Pool
}

// newPgxProductRepository creates a new repository for product data.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{pool: pool}
}

// Ensure PgxProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.SalonID,
		&m.Name,
		&m.SKU,
		&m.UnitPrice,
		&m.TaxRate,
		&m.IsInventoryItem,
		&m.StockLevel,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindProductByID retrieves a product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE product_id = $1;`, productColumns)

	modelProduct, err := scanProduct(r.pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}

	domainProduct := mapping.ToDomainProduct(modelProduct)
	return &domainProduct, nil
}

// ListLowStockProducts retrieves active inventory-tracked products at or
// below the threshold, most depleted first.
func (r *PgxProductRepository) ListLowStockProducts(ctx context.Context, salonID string, threshold decimal.Decimal) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE salon_id = $1 AND is_active = TRUE AND is_inventory_item = TRUE AND stock_level <= $2
		ORDER BY stock_level ASC, name ASC;
	`, productColumns)

	rows, err := r.pool.Query(ctx, query, salonID, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock products for salon %s: %w", salonID, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row for salon %s: %w", salonID, err)
		}
		products = append(products, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows for salon %s: %w", salonID, err)
	}

	return mapping.ToDomainProductSlice(products), nil
}
