package app

import (
	"context"
	"testing"

	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/shopspring/decimal"
)

func TestStatsService_Overview(t *testing.T) {
	t.Parallel()

	repo := &fakeStatsRepo{
		ordersByStatus: map[domain.OrderStatus]int{
			domain.OrderStatusPending:   4,
			domain.OrderStatusDelivered: 9,
		},
		unitsByStatus: map[domain.UnitStatus]int{
			domain.UnitStatusAvailable: 12,
			domain.UnitStatusSold:      9,
		},
		saleCount: 11,
		revenue:   decimal.NewFromFloat(1350.75),
	}
	svc := NewStatsService(repo)

	ov, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ov.PendingOrders != 4 {
		t.Fatalf("expected 4 pending orders, got %d", ov.PendingOrders)
	}
	if ov.AvailableUnits != 12 {
		t.Fatalf("expected 12 available units, got %d", ov.AvailableUnits)
	}
	if ov.SoldUnits != 9 {
		t.Fatalf("expected 9 sold units, got %d", ov.SoldUnits)
	}
	if ov.SaleRecords != 11 {
		t.Fatalf("expected 11 sale records, got %d", ov.SaleRecords)
	}
	if !ov.TotalRevenue.Equal(decimal.NewFromFloat(1350.75)) {
		t.Fatalf("expected revenue 1350.75, got %s", ov.TotalRevenue)
	}
}

type fakeStatsRepo struct {
	ordersByStatus map[domain.OrderStatus]int
	unitsByStatus  map[domain.UnitStatus]int
	saleCount      int
	revenue        decimal.Decimal
}

func (f *fakeStatsRepo) CountOrdersByStatus(_ context.Context, status domain.OrderStatus) (int, error) {
	return f.ordersByStatus[status], nil
}

func (f *fakeStatsRepo) CountUnitsByStatus(_ context.Context, status domain.UnitStatus) (int, error) {
	return f.unitsByStatus[status], nil
}

func (f *fakeStatsRepo) CountSales(_ context.Context) (int, error) {
	return f.saleCount, nil
}

func (f *fakeStatsRepo) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	return f.revenue, nil
}
