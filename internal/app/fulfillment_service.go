package app

import (
	"context"
	"errors"
	"time"

	"github.com/aiaxcartpremium/aiaxshop/internal/clock"
	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/aiaxcartpremium/aiaxshop/internal/expiry"
	"github.com/google/uuid"
)

// UnitCriteria filters available inventory. Empty fields are not filtered
// on; ProductID is always required.
type UnitCriteria struct {
	ProductID   string
	AccountType string
	Duration    string
}

type FulfillmentRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	GetSaleByOrderID(ctx context.Context, orderID string) (*domain.SaleRecord, error)
	// FindAvailableUnits returns non-archived available units, oldest first.
	FindAvailableUnits(ctx context.Context, criteria UnitCriteria, limit int) ([]domain.InventoryUnit, error)
	// ClaimUnit flips a unit available -> sold and reports whether this
	// caller won it. False means a racer already took the unit.
	ClaimUnit(ctx context.Context, unitID string) (bool, error)
	CreateSale(ctx context.Context, sale domain.SaleRecord) error
	// CompleteOrder moves a still-fulfillable order to delivered.
	CompleteOrder(ctx context.Context, orderID string) error
}

// FulfillmentService converts a paid/approved order into a delivered sale
// record. It is the only writer allowed to touch inventory, orders and the
// sales ledger in one operation.
type FulfillmentService struct {
	repo         FulfillmentRepository
	clock        clock.Clock
	allocTimeout time.Duration
}

const (
	defaultAllocationTimeout = 5 * time.Second
	candidateBatchSize       = 10
	maxSelectionAttempts     = 3
)

type FulfillmentOption func(*FulfillmentService)

// WithAllocationTimeout bounds how long one fulfillment attempt may block
// on the store before failing with ErrAllocationTimeout.
func WithAllocationTimeout(d time.Duration) FulfillmentOption {
	return func(s *FulfillmentService) {
		if d > 0 {
			s.allocTimeout = d
		}
	}
}

func NewFulfillmentService(repo FulfillmentRepository, clk clock.Clock, opts ...FulfillmentOption) *FulfillmentService {
	svc := &FulfillmentService{
		repo:         repo,
		clock:        clk,
		allocTimeout: defaultAllocationTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type FulfillResult struct {
	Sale domain.SaleRecord
	// Created is false when the order was already delivered and the
	// existing sale record is being returned.
	Created bool
}

// FulfillOrder allocates one available inventory unit to the order, appends
// the sale record and completes the order, all in a single transaction.
// Calling it again for a delivered order returns the existing sale without
// claiming anything. NoAvailableStock and AllocationTimeout leave the order
// untouched, so callers may retry.
func (s *FulfillmentService) FulfillOrder(ctx context.Context, orderID string) (FulfillResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.allocTimeout)
	defer cancel()

	var result FulfillResult
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}

		if order.Status.Terminal() {
			if order.Status == domain.OrderStatusDelivered {
				existing, err := s.repo.GetSaleByOrderID(txCtx, orderID)
				if err != nil {
					return err
				}
				if existing != nil {
					result = FulfillResult{Sale: *existing, Created: false}
					return nil
				}
			}
			return domain.ErrOrderAlreadyFinalized
		}

		unit, err := s.claimMatchingUnit(txCtx, order)
		if err != nil {
			return err
		}

		// Purchase date is the moment of delivery, not order placement.
		now := s.clock.Now()
		base, adjusted, err := expiry.Compute(now, unit.Duration, 0)
		if err != nil {
			return err
		}
		if unit.PremiumUntil != nil && adjusted.After(*unit.PremiumUntil) {
			adjusted = *unit.PremiumUntil
		}

		orderRef := order.ID
		sale := domain.SaleRecord{
			ID:             uuid.NewString(),
			OrderID:        &orderRef,
			Buyer:          order.Buyer,
			Source:         domain.SourceWebsite,
			ProductID:      unit.ProductID,
			AccountType:    unit.AccountType,
			Duration:       unit.Duration,
			PurchaseDate:   now,
			BonusDays:      0,
			BaseExpiry:     base,
			AdjustedExpiry: adjusted,
			Credential:     unit.Credential,
			Price:          order.Price,
			CreatedAt:      now,
		}

		if err := s.repo.CreateSale(txCtx, sale); err != nil {
			return err
		}
		if err := s.repo.CompleteOrder(txCtx, order.ID); err != nil {
			return err
		}

		result = FulfillResult{Sale: sale, Created: true}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return FulfillResult{}, domain.ErrAllocationTimeout
		}
		return FulfillResult{}, err
	}
	return result, nil
}

// claimMatchingUnit selects the oldest available unit for the order's tier
// and claims it. Orders placed without a specific tier, or whose tier has
// no stock, fall back to any available unit of the product. Lost claim
// races trigger a bounded re-selection against the remaining pool.
func (s *FulfillmentService) claimMatchingUnit(ctx context.Context, order domain.Order) (domain.InventoryUnit, error) {
	exact := UnitCriteria{
		ProductID:   order.ProductID,
		AccountType: order.AccountType,
		Duration:    order.Duration,
	}
	loose := UnitCriteria{ProductID: order.ProductID}

	for attempt := 0; attempt < maxSelectionAttempts; attempt++ {
		candidates, err := s.repo.FindAvailableUnits(ctx, exact, candidateBatchSize)
		if err != nil {
			return domain.InventoryUnit{}, err
		}
		if len(candidates) == 0 && exact != loose {
			candidates, err = s.repo.FindAvailableUnits(ctx, loose, candidateBatchSize)
			if err != nil {
				return domain.InventoryUnit{}, err
			}
		}
		if len(candidates) == 0 {
			return domain.InventoryUnit{}, domain.ErrNoAvailableStock
		}

		for _, unit := range candidates {
			claimed, err := s.repo.ClaimUnit(ctx, unit.ID)
			if err != nil {
				return domain.InventoryUnit{}, err
			}
			if claimed {
				return unit, nil
			}
		}
		// Every candidate went to a racer between selection and claim.
	}
	return domain.InventoryUnit{}, domain.ErrNoAvailableStock
}
