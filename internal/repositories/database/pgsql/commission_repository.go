package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/apperrors"
	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	portsrepo "github.com/kigalisoft/salon_manager_app/internal/core/ports/repositories"
	"github.com/kigalisoft/salon_manager_app/internal/models"
	"github.com/kigalisoft/salon_manager_app/internal/utils/mapping"
	"github.com/kigalisoft/salon_manager_app/internal/utils/pagination"
)

const commissionColumns = `commission_id, salon_id, employee_id, source_type, source_id, sale_amount, commission_rate, amount, currency_code, paid, paid_at, payment_method, payment_reference, created_at, created_by, last_updated_at, last_updated_by`

type PgxCommissionRepository struct {
	BaseRepository
}

// newPgxCommissionRepository creates a new repository for commission and
// settlement data.
func newPgxCommissionRepository(pool *pgxpool.Pool) portsrepo.CommissionRepositoryFacade {
	return &PgxCommissionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCommissionRepository implements portsrepo.CommissionRepositoryFacade
var _ portsrepo.CommissionRepositoryFacade = (*PgxCommissionRepository)(nil)

func scanCommission(row pgx.Row) (models.CommissionRecord, error) {
	var m models.CommissionRecord
	var paymentMethod, paymentReference sql.NullString
	err := row.Scan(
		&m.CommissionID,
		&m.SalonID,
		&m.EmployeeID,
		&m.SourceType,
		&m.SourceID,
		&m.SaleAmount,
		&m.CommissionRate,
		&m.Amount,
		&m.CurrencyCode,
		&m.Paid,
		&m.PaidAt,
		&paymentMethod,
		&paymentReference,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	m.PaymentMethod = paymentMethod.String
	m.PaymentReference = paymentReference.String
	return m, nil
}

// FindCommissionByID retrieves a commission record by its ID.
func (r *PgxCommissionRepository) FindCommissionByID(ctx context.Context, commissionID string) (*domain.CommissionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM commissions WHERE commission_id = $1;`, commissionColumns)

	m, err := scanCommission(r.Pool.QueryRow(ctx, query, commissionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find commission by ID %s: %w", commissionID, err)
	}

	record := mapping.ToDomainCommissionRecord(m)
	return &record, nil
}

// FindCommissionsByIDs retrieves multiple commission records keyed by ID.
// Missing IDs are simply absent from the map; the caller decides whether
// that is an error.
func (r *PgxCommissionRepository) FindCommissionsByIDs(ctx context.Context, commissionIDs []string) (map[string]domain.CommissionRecord, error) {
	if len(commissionIDs) == 0 {
		return map[string]domain.CommissionRecord{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM commissions WHERE commission_id = ANY($1);`, commissionColumns)

	rows, err := r.Pool.Query(ctx, query, commissionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query commissions by IDs: %w", err)
	}
	defer rows.Close()

	recordsMap := make(map[string]domain.CommissionRecord)
	for rows.Next() {
		m, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission row during batch fetch: %w", err)
		}
		recordsMap[m.CommissionID] = mapping.ToDomainCommissionRecord(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commission rows during batch fetch: %w", err)
	}

	return recordsMap, nil
}

// ListCommissionsByEmployee retrieves a page of an employee's commissions,
// newest first, optionally filtered by paid status.
func (r *PgxCommissionRepository) ListCommissionsByEmployee(ctx context.Context, employeeID string, paid *bool, limit int, nextToken *string) ([]domain.CommissionRecord, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{employeeID}
	query := fmt.Sprintf(`
		SELECT %s
		FROM commissions
		WHERE employee_id = $1
	`, commissionColumns)

	if paid != nil {
		query += fmt.Sprintf(` AND paid = $%d`, len(args)+1)
		args = append(args, *paid)
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastCommissionID, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += fmt.Sprintf(` AND (created_at, commission_id) < ($%d, $%d)`, len(args)+1, len(args)+2)
		args = append(args, lastCreatedAt, lastCommissionID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, commission_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query commissions for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	records := []models.CommissionRecord{}
	for rows.Next() {
		m, err := scanCommission(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan commission row for employee %s: %w", employeeID, err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating commission rows for employee %s: %w", employeeID, err)
	}

	var nextTokenVal *string
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.CommissionID)
		nextTokenVal = &token
	}

	return mapping.ToDomainCommissionRecordSlice(records), nextTokenVal, nil
}

// UnpaidSummaryByEmployee returns the count and total amount of an
// employee's unpaid commissions.
func (r *PgxCommissionRepository) UnpaidSummaryByEmployee(ctx context.Context, employeeID string) (int, decimal.Decimal, error) {
	var count int
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM commissions
		WHERE employee_id = $1 AND paid = FALSE;
	`, employeeID).Scan(&count, &total)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to summarize unpaid commissions for employee %s: %w", employeeID, err)
	}
	return count, total, nil
}

// FindSettlementByIdempotencyKey retrieves the settlement recorded under a
// client-supplied idempotency key.
func (r *PgxCommissionRepository) FindSettlementByIdempotencyKey(ctx context.Context, key string) (*domain.Settlement, error) {
	query := `
		SELECT settlement_id, employee_id, method, reference, total_amount, commission_count, commission_ids, idempotency_key, settled_at, created_by
		FROM settlements
		WHERE idempotency_key = $1;
	`
	var m models.Settlement
	var reference sql.NullString
	err := r.Pool.QueryRow(ctx, query, key).Scan(
		&m.SettlementID,
		&m.EmployeeID,
		&m.Method,
		&reference,
		&m.TotalAmount,
		&m.CommissionCount,
		&m.CommissionIDs,
		&m.IdempotencyKey,
		&m.SettledAt,
		&m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settlement by idempotency key: %w", err)
	}
	m.Reference = reference.String

	settlement := mapping.ToDomainSettlement(m)
	return &settlement, nil
}

// lockCommissionsForSettlement locks the listed commission rows in a
// deterministic order and verifies every one exists and is still unpaid.
func lockCommissionsForSettlement(ctx context.Context, tx pgx.Tx, commissionIDs []string) error {
	query := `
		SELECT commission_id, paid
		FROM commissions
		WHERE commission_id = ANY($1)
		ORDER BY commission_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, commissionIDs)
	if err != nil {
		return fmt.Errorf("failed to lock commissions for settlement: %w", err)
	}
	defer rows.Close()

	locked := make(map[string]bool, len(commissionIDs))
	for rows.Next() {
		var id string
		var paid bool
		if err := rows.Scan(&id, &paid); err != nil {
			return fmt.Errorf("failed to scan locked commission row: %w", err)
		}
		if paid {
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyPaid, id)
		}
		locked[id] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating locked commission rows: %w", err)
	}

	for _, id := range commissionIDs {
		if !locked[id] {
			return fmt.Errorf("%w: commission %s", apperrors.ErrNotFound, id)
		}
	}
	return nil
}

// debitWalletInTx performs the conditional wallet debit inside the
// settlement transaction.
func debitWalletInTx(ctx context.Context, tx pgx.Tx, settlement models.Settlement) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE wallets
		SET balance = balance - $2, last_updated_at = $3, last_updated_by = $4
		WHERE owner_id = $1 AND balance >= $2;
	`, settlement.EmployeeID, settlement.TotalAmount, settlement.SettledAt, settlement.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to debit wallet for employee %s: %w", settlement.EmployeeID, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	// Distinguish a missing wallet from an uncovered debit, still inside the
	// transaction so the balance read is consistent.
	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE owner_id = $1;`, settlement.EmployeeID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: wallet for employee %s", apperrors.ErrNotFound, settlement.EmployeeID)
		}
		return fmt.Errorf("failed to read wallet balance for employee %s: %w", settlement.EmployeeID, err)
	}
	return apperrors.NewInsufficientBalanceError(settlement.EmployeeID, balance, settlement.TotalAmount)
}

// SettleCommissions atomically flips every listed commission to paid and
// records the settlement. All-or-nothing: the commission rows are locked
// first, the wallet debit (when requested) happens next, and any failure
// rolls the whole transaction back leaving every record unpaid and the
// wallet untouched.
func (r *PgxCommissionRepository) SettleCommissions(ctx context.Context, settlement domain.Settlement, commissionIDs []string, debitWallet bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	if err := lockCommissionsForSettlement(ctx, tx, commissionIDs); err != nil {
		return err
	}

	modelSettlement := mapping.ToModelSettlement(settlement)

	if debitWallet {
		if err := debitWalletInTx(ctx, tx, modelSettlement); err != nil {
			return err
		}
	}

	updateQuery := `
		UPDATE commissions
		SET paid = TRUE, paid_at = $2, payment_method = $3, payment_reference = $4, last_updated_at = $5, last_updated_by = $6
		WHERE commission_id = $1 AND paid = FALSE;
	`
	batch := &pgx.Batch{}
	for _, id := range commissionIDs {
		batch.Queue(updateQuery, id, modelSettlement.SettledAt, modelSettlement.Method, modelSettlement.Reference, modelSettlement.SettledAt, modelSettlement.CreatedBy)
	}
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to mark commission %s paid: %w", commissionIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			// Locked and verified unpaid above, so this should be unreachable.
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: %s", apperrors.ErrAlreadyPaid, commissionIDs[i])
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close settlement batch: %w", err)
	}
	if batchErr != nil {
		return batchErr
	}

	var idempotencyKey sql.NullString
	if modelSettlement.IdempotencyKey != nil {
		idempotencyKey = sql.NullString{String: *modelSettlement.IdempotencyKey, Valid: true}
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO settlements (settlement_id, employee_id, method, reference, total_amount, commission_count, commission_ids, idempotency_key, settled_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`,
		modelSettlement.SettlementID,
		modelSettlement.EmployeeID,
		modelSettlement.Method,
		modelSettlement.Reference,
		modelSettlement.TotalAmount,
		modelSettlement.CommissionCount,
		modelSettlement.CommissionIDs,
		idempotencyKey,
		modelSettlement.SettledAt,
		modelSettlement.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// A concurrent retry with the same idempotency key won the race.
			return fmt.Errorf("%w: settlement with this idempotency key already recorded", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert settlement %s: %w", modelSettlement.SettlementID, err)
	}

	return r.Commit(ctx, tx)
}
