package app

import (
	"context"

	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/shopspring/decimal"
)

type StatsRepository interface {
	CountOrdersByStatus(ctx context.Context, status domain.OrderStatus) (int, error)
	CountUnitsByStatus(ctx context.Context, status domain.UnitStatus) (int, error)
	CountSales(ctx context.Context) (int, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}

// Overview mirrors the admin dashboard counters. Pure read-side
// projections; fulfillment's atomicity is what keeps them consistent.
type Overview struct {
	PendingOrders  int
	AvailableUnits int
	SoldUnits      int
	SaleRecords    int
	TotalRevenue   decimal.Decimal
}

type StatsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) Overview(ctx context.Context) (Overview, error) {
	pending, err := s.repo.CountOrdersByStatus(ctx, domain.OrderStatusPending)
	if err != nil {
		return Overview{}, err
	}
	available, err := s.repo.CountUnitsByStatus(ctx, domain.UnitStatusAvailable)
	if err != nil {
		return Overview{}, err
	}
	sold, err := s.repo.CountUnitsByStatus(ctx, domain.UnitStatusSold)
	if err != nil {
		return Overview{}, err
	}
	sales, err := s.repo.CountSales(ctx)
	if err != nil {
		return Overview{}, err
	}
	revenue, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		PendingOrders:  pending,
		AvailableUnits: available,
		SoldUnits:      sold,
		SaleRecords:    sales,
		TotalRevenue:   revenue,
	}, nil
}
