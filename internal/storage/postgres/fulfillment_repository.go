package postgres

import (
	"context"
	"fmt"

	"github.com/aiaxcartpremium/aiaxshop/internal/app"
	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FulfillmentRepository bundles the row-lock selection, claim and ledger
// write the allocation engine runs inside one transaction.
type FulfillmentRepository struct {
	pool *pgxpool.Pool
}

func NewFulfillmentRepository(pool *pgxpool.Pool) *FulfillmentRepository {
	return &FulfillmentRepository{pool: pool}
}

func (r *FulfillmentRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *FulfillmentRepository) GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, buyer, product_id, account_type, duration, price,
       payment_method, reference_number, proof_url, status, created_at
FROM orders
WHERE id = $1
FOR UPDATE`

	var o domain.Order
	var status string
	err := r.queryRow(ctx, query, orderID).Scan(
		&o.ID, &o.Buyer, &o.ProductID, &o.AccountType, &o.Duration, &o.Price,
		&o.Payment.Method, &o.Payment.ReferenceNumber, &o.Payment.ProofURL, &status, &o.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order for update: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *FulfillmentRepository) GetSaleByOrderID(ctx context.Context, orderID string) (*domain.SaleRecord, error) {
	const query = `
SELECT id, order_id, buyer, source, product_id, account_type, duration,
       purchase_date, additional_days, base_expiry, adjusted_expiry,
       email, password, profile, pin, price, created_at
FROM records
WHERE order_id = $1`

	var s domain.SaleRecord
	err := r.queryRow(ctx, query, orderID).Scan(
		&s.ID, &s.OrderID, &s.Buyer, &s.Source, &s.ProductID, &s.AccountType, &s.Duration,
		&s.PurchaseDate, &s.BonusDays, &s.BaseExpiry, &s.AdjustedExpiry,
		&s.Credential.Login, &s.Credential.Secret, &s.Credential.Profile, &s.Credential.PIN,
		&s.Price, &s.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale by order: %w", err)
	}
	return &s, nil
}

// FindAvailableUnits selects sellable stock oldest-first. SKIP LOCKED keeps
// concurrent fulfillments from queueing on (or double-picking) each other's
// candidate rows.
func (r *FulfillmentRepository) FindAvailableUnits(ctx context.Context, criteria app.UnitCriteria, limit int) ([]domain.InventoryUnit, error) {
	query := `
SELECT id, product_id, account_type, duration, email, password, profile, pin,
       status, premium_until, archive_after, created_at
FROM stocks
WHERE product_id = $1 AND status = 'available'`
	args := []any{criteria.ProductID}

	if criteria.AccountType != "" {
		args = append(args, criteria.AccountType)
		query += fmt.Sprintf(" AND account_type = $%d", len(args))
	}
	if criteria.Duration != "" {
		args = append(args, criteria.Duration)
		query += fmt.Sprintf(" AND duration = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d FOR UPDATE SKIP LOCKED", len(args))

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("find available units: %w", err)
	}
	defer rows.Close()

	var units []domain.InventoryUnit
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, unit)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate units: %w", rows.Err())
	}
	return units, nil
}

// ClaimUnit is the sole available -> sold transition in the system. The
// status guard makes it a compare-and-set: a racer that already claimed the
// unit leaves nothing for this update to match.
func (r *FulfillmentRepository) ClaimUnit(ctx context.Context, unitID string) (bool, error) {
	const stmt = `UPDATE stocks SET status = 'sold' WHERE id = $1 AND status = 'available'`

	tag, err := r.exec(ctx, stmt, unitID)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("claim unit: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *FulfillmentRepository) CreateSale(ctx context.Context, sale domain.SaleRecord) error {
	err := insertSale(ctx, r.exec, sale)
	if err != nil {
		if isUniqueViolation(err) {
			// The partial unique index on records.order_id: another
			// fulfillment already delivered this order.
			return domain.ErrOrderAlreadyFinalized
		}
		return err
	}
	return nil
}

func (r *FulfillmentRepository) CompleteOrder(ctx context.Context, orderID string) error {
	const stmt = `UPDATE orders SET status = 'delivered' WHERE id = $1 AND status IN ('pending', 'paid')`

	tag, err := r.exec(ctx, stmt, orderID)
	if err != nil {
		return fmt.Errorf("complete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderAlreadyFinalized
	}
	return nil
}

func (r *FulfillmentRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *FulfillmentRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *FulfillmentRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
