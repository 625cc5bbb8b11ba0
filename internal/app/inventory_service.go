package app

import (
	"context"
	"time"

	"github.com/aiaxcartpremium/aiaxshop/internal/clock"
	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/aiaxcartpremium/aiaxshop/internal/expiry"
	"github.com/google/uuid"
)

// UnitFilter narrows inventory listings. Empty fields match everything.
type UnitFilter struct {
	ProductID string
	Status    domain.UnitStatus
}

type InventoryRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateUnit(ctx context.Context, unit domain.InventoryUnit) error
	ListUnits(ctx context.Context, filter UnitFilter) ([]domain.InventoryUnit, error)
	// ArchiveUnit moves an available unit out of the sellable pool.
	ArchiveUnit(ctx context.Context, unitID string) error
	// RestoreUnit moves an archived unit back to available.
	RestoreUnit(ctx context.Context, unitID string) error
	// DeleteUnit hard-deletes a unit. Sold units are refused with
	// ErrCannotDeleteSoldUnit so ledger history keeps its provenance.
	DeleteUnit(ctx context.Context, unitID string) error
}

// InventoryService manages the credential stock pool. It never transitions
// units to sold; that is the fulfillment engine's claim path.
type InventoryService struct {
	repo  InventoryRepository
	clock clock.Clock
}

func NewInventoryService(repo InventoryRepository, clk clock.Clock) *InventoryService {
	return &InventoryService{
		repo:  repo,
		clock: clk,
	}
}

type AddUnitsInput struct {
	ProductID   string
	AccountType string
	Duration    string
	Credential  domain.Credential
	// Quantity inserts that many units sharing the same credential payload,
	// the way shared-profile accounts are stocked in batches.
	Quantity         int
	PremiumUntil     *time.Time
	ArchiveAfterDays *int
}

// AddUnits inserts Quantity available units in one transaction, so a
// failed insert never leaves a partial batch behind. The duration code is
// validated up front so unsellable stock never enters the pool.
func (s *InventoryService) AddUnits(ctx context.Context, in AddUnitsInput) ([]domain.InventoryUnit, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidID
	}
	if in.Credential.Login == "" || in.Credential.Secret == "" {
		return nil, domain.ErrCredentialRequired
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := expiry.Parse(in.Duration); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	units := make([]domain.InventoryUnit, 0, in.Quantity)
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		for i := 0; i < in.Quantity; i++ {
			unit := domain.InventoryUnit{
				ID:               uuid.NewString(),
				ProductID:        in.ProductID,
				AccountType:      in.AccountType,
				Duration:         in.Duration,
				Credential:       in.Credential,
				Status:           domain.UnitStatusAvailable,
				PremiumUntil:     in.PremiumUntil,
				ArchiveAfterDays: in.ArchiveAfterDays,
				CreatedAt:        now,
			}
			if err := s.repo.CreateUnit(txCtx, unit); err != nil {
				return err
			}
			units = append(units, unit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return units, nil
}

func (s *InventoryService) List(ctx context.Context, filter UnitFilter) ([]domain.InventoryUnit, error) {
	switch filter.Status {
	case "", domain.UnitStatusAvailable, domain.UnitStatusReserved, domain.UnitStatusSold, domain.UnitStatusArchived:
	default:
		return nil, domain.ErrInvalidStatusFilter
	}
	return s.repo.ListUnits(ctx, filter)
}

func (s *InventoryService) Archive(ctx context.Context, unitID string) error {
	if unitID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.ArchiveUnit(ctx, unitID)
}

func (s *InventoryService) Restore(ctx context.Context, unitID string) error {
	if unitID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.RestoreUnit(ctx, unitID)
}

func (s *InventoryService) Delete(ctx context.Context, unitID string) error {
	if unitID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteUnit(ctx, unitID)
}
