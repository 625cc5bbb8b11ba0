package postgres

import (
	"context"
	"fmt"

	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type SaleRepository struct {
	pool *pgxpool.Pool
}

func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

func (r *SaleRepository) CreateSale(ctx context.Context, sale domain.SaleRecord) error {
	if err := insertSale(ctx, r.pool.Exec, sale); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderAlreadyFinalized
		}
		return err
	}
	return nil
}

func (r *SaleRepository) GetSale(ctx context.Context, saleID string) (domain.SaleRecord, error) {
	const query = saleColumns + ` WHERE id = $1`

	sale, err := scanSale(r.pool.QueryRow(ctx, query, saleID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.SaleRecord{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.SaleRecord{}, domain.ErrSaleNotFound
		}
		return domain.SaleRecord{}, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

func (r *SaleRepository) ListSales(ctx context.Context, buyer string) ([]domain.SaleRecord, error) {
	query := saleColumns
	var args []any
	if buyer != "" {
		args = append(args, buyer)
		query += " WHERE buyer = $1"
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.SaleRecord
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate sales: %w", rows.Err())
	}
	return sales, nil
}

func (r *SaleRepository) UpdateSale(ctx context.Context, sale domain.SaleRecord) error {
	const stmt = `
UPDATE records
SET buyer = $2, source = $3, account_type = $4, duration = $5,
    purchase_date = $6, additional_days = $7, base_expiry = $8,
    adjusted_expiry = $9, email = $10, password = $11, profile = $12,
    pin = $13, price = $14
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt,
		sale.ID,
		sale.Buyer,
		sale.Source,
		sale.AccountType,
		sale.Duration,
		sale.PurchaseDate,
		sale.BonusDays,
		sale.BaseExpiry,
		sale.AdjustedExpiry,
		sale.Credential.Login,
		sale.Credential.Secret,
		sale.Credential.Profile,
		sale.Credential.PIN,
		sale.Price,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func (r *SaleRepository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(price), 0) FROM records`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total revenue: %w", err)
	}
	return total, nil
}

const saleColumns = `
SELECT id, order_id, buyer, source, product_id, account_type, duration,
       purchase_date, additional_days, base_expiry, adjusted_expiry,
       email, password, profile, pin, price, created_at
FROM records`

func scanSale(row pgx.Row) (domain.SaleRecord, error) {
	var s domain.SaleRecord
	err := row.Scan(
		&s.ID, &s.OrderID, &s.Buyer, &s.Source, &s.ProductID, &s.AccountType, &s.Duration,
		&s.PurchaseDate, &s.BonusDays, &s.BaseExpiry, &s.AdjustedExpiry,
		&s.Credential.Login, &s.Credential.Secret, &s.Credential.Profile, &s.Credential.PIN,
		&s.Price, &s.CreatedAt,
	)
	if err != nil {
		return domain.SaleRecord{}, err
	}
	return s, nil
}

type execFunc func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

func insertSale(ctx context.Context, exec execFunc, sale domain.SaleRecord) error {
	const stmt = `
INSERT INTO records (id, order_id, buyer, source, product_id, account_type,
                     duration, purchase_date, additional_days, base_expiry,
                     adjusted_expiry, email, password, profile, pin, price, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := exec(ctx, stmt,
		sale.ID,
		sale.OrderID,
		sale.Buyer,
		sale.Source,
		sale.ProductID,
		sale.AccountType,
		sale.Duration,
		sale.PurchaseDate,
		sale.BonusDays,
		sale.BaseExpiry,
		sale.AdjustedExpiry,
		sale.Credential.Login,
		sale.Credential.Secret,
		sale.Credential.Profile,
		sale.Credential.PIN,
		sale.Price,
		sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return err
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}
