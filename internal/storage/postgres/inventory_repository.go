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

type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *InventoryRepository) CreateUnit(ctx context.Context, unit domain.InventoryUnit) error {
	const stmt = `
INSERT INTO stocks (id, product_id, account_type, duration, email, password,
                    profile, pin, status, premium_until, archive_after, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.exec(ctx, stmt,
		unit.ID,
		unit.ProductID,
		unit.AccountType,
		unit.Duration,
		unit.Credential.Login,
		unit.Credential.Secret,
		unit.Credential.Profile,
		unit.Credential.PIN,
		unit.Status,
		unit.PremiumUntil,
		unit.ArchiveAfterDays,
		unit.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

func (r *InventoryRepository) ListUnits(ctx context.Context, filter app.UnitFilter) ([]domain.InventoryUnit, error) {
	query := `
SELECT id, product_id, account_type, duration, email, password, profile, pin,
       status, premium_until, archive_after, created_at
FROM stocks`
	var args []any
	clause := " WHERE"

	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf("%s product_id = $%d", clause, len(args))
		clause = " AND"
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf("%s status = $%d", clause, len(args))
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list units: %w", err)
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

func (r *InventoryRepository) ArchiveUnit(ctx context.Context, unitID string) error {
	const stmt = `UPDATE stocks SET status = 'archived' WHERE id = $1 AND status IN ('available', 'reserved')`
	return r.transition(ctx, stmt, unitID, domain.UnitStatusArchived)
}

func (r *InventoryRepository) RestoreUnit(ctx context.Context, unitID string) error {
	const stmt = `UPDATE stocks SET status = 'available' WHERE id = $1 AND status = 'archived'`
	return r.transition(ctx, stmt, unitID, domain.UnitStatusAvailable)
}

func (r *InventoryRepository) DeleteUnit(ctx context.Context, unitID string) error {
	const stmt = `DELETE FROM stocks WHERE id = $1 AND status <> 'sold'`

	tag, err := r.pool.Exec(ctx, stmt, unitID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete unit: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	status, err := r.unitStatus(ctx, unitID)
	if err != nil {
		return err
	}
	if status == domain.UnitStatusSold {
		// A sold unit backs a ledger entry; deleting it would orphan the
		// sale's provenance.
		return domain.ErrCannotDeleteSoldUnit
	}
	return fmt.Errorf("delete unit %s: unexpected status %s", unitID, status)
}

// transition applies a guarded status update and normalizes the zero-rows
// outcomes: absent unit, already in the target state, or a state the guard
// refuses to leave.
func (r *InventoryRepository) transition(ctx context.Context, stmt, unitID string, target domain.UnitStatus) error {
	tag, err := r.pool.Exec(ctx, stmt, unitID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update unit status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	status, err := r.unitStatus(ctx, unitID)
	if err != nil {
		return err
	}
	if status == target {
		return nil
	}
	return domain.ErrUnitNotAvailable
}

func (r *InventoryRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *InventoryRepository) unitStatus(ctx context.Context, unitID string) (domain.UnitStatus, error) {
	var status string
	err := r.pool.QueryRow(ctx, `SELECT status FROM stocks WHERE id = $1`, unitID).Scan(&status)
	if err != nil {
		if isInvalidUUID(err) {
			return "", domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return "", domain.ErrUnitNotFound
		}
		return "", fmt.Errorf("get unit status: %w", err)
	}
	return domain.UnitStatus(status), nil
}

func scanUnit(row pgx.Row) (domain.InventoryUnit, error) {
	var u domain.InventoryUnit
	var status string
	err := row.Scan(
		&u.ID, &u.ProductID, &u.AccountType, &u.Duration,
		&u.Credential.Login, &u.Credential.Secret, &u.Credential.Profile, &u.Credential.PIN,
		&status, &u.PremiumUntil, &u.ArchiveAfterDays, &u.CreatedAt,
	)
	if err != nil {
		return domain.InventoryUnit{}, err
	}
	u.Status = domain.UnitStatus(status)
	return u, nil
}
