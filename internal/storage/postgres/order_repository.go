package postgres

import (
	"context"
	"fmt"

	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, buyer, product_id, account_type, duration, price,
                    payment_method, reference_number, proof_url, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, stmt,
		order.ID,
		order.Buyer,
		order.ProductID,
		order.AccountType,
		order.Duration,
		order.Price,
		order.Payment.Method,
		order.Payment.ReferenceNumber,
		order.Payment.ProofURL,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, buyer, product_id, account_type, duration, price,
       payment_method, reference_number, proof_url, status, created_at
FROM orders
WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) ListOrders(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	query := `
SELECT id, buyer, product_id, account_type, duration, price,
       payment_method, reference_number, proof_url, status, created_at
FROM orders`
	var args []any
	if status != nil {
		args = append(args, *status)
		query += " WHERE status = $1"
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate orders: %w", rows.Err())
	}
	return orders, nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, to domain.OrderStatus, from ...domain.OrderStatus) error {
	const stmt = `UPDATE orders SET status = $2 WHERE id = $1 AND status = ANY($3)`

	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}

	tag, err := r.pool.Exec(ctx, stmt, orderID, to, allowed)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	err = r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("get order status: %w", err)
	}
	if domain.OrderStatus(current) == to {
		// Retried transition, nothing to do.
		return nil
	}
	return domain.ErrOrderAlreadyFinalized
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(
		&o.ID, &o.Buyer, &o.ProductID, &o.AccountType, &o.Duration, &o.Price,
		&o.Payment.Method, &o.Payment.ReferenceNumber, &o.Payment.ProofURL, &status, &o.CreatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}
