package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/aiaxcartpremium/aiaxshop/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestOrderRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewOrderRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("CreateOrder and GetOrder round-trip", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Netflix")

		order := domain.Order{
			ID:          uuid.NewString(),
			Buyer:       "juan",
			ProductID:   productID,
			AccountType: "solo",
			Duration:    "30d",
			Price:       decimal.NewFromFloat(149.50),
			Payment:     domain.Payment{Method: "gcash", ReferenceNumber: "REF-1", ProofURL: "https://proof/1"},
			Status:      domain.OrderStatusPending,
			CreatedAt:   time.Now().UTC(),
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.GetOrder(ctx, order.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Buyer != order.Buyer || got.Payment.ReferenceNumber != "REF-1" || !got.Price.Equal(order.Price) {
			t.Fatalf("unexpected order: %+v", got)
		}
	})

	t.Run("CreateOrder rejects unknown product", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		err := repo.CreateOrder(ctx, domain.Order{
			ID:        uuid.NewString(),
			Buyer:     "juan",
			ProductID: "00000000-0000-0000-0000-000000000001",
			Price:     decimal.NewFromInt(100),
			Status:    domain.OrderStatusPending,
			CreatedAt: time.Now().UTC(),
		})
		if err != domain.ErrProductNotFound {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("GetOrder error mapping", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		_, err := repo.GetOrder(ctx, "00000000-0000-0000-0000-000000000001")
		if err != domain.ErrOrderNotFound {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
		_, err = repo.GetOrder(ctx, "not-a-uuid")
		if err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("ListOrders filters by status", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Netflix")

		testutil.InsertOrder(t, ctx, pool, productID, domain.Order{Status: domain.OrderStatusPending})
		testutil.InsertOrder(t, ctx, pool, productID, domain.Order{Status: domain.OrderStatusPending})
		testutil.InsertOrder(t, ctx, pool, productID, domain.Order{Status: domain.OrderStatusDelivered})

		pending := domain.OrderStatusPending
		orders, err := repo.ListOrders(ctx, &pending)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(orders) != 2 {
			t.Fatalf("expected 2 pending orders, got %d", len(orders))
		}

		all, err := repo.ListOrders(ctx, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 orders, got %d", len(all))
		}
	})

	t.Run("UpdateOrderStatus guards terminal states", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Netflix")
		orderID := testutil.InsertOrder(t, ctx, pool, productID, domain.Order{Status: domain.OrderStatusPending})

		err := repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusPaid, domain.OrderStatusPending)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Retry of the same transition is a no-op.
		err = repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusPaid, domain.OrderStatusPending)
		if err != nil {
			t.Fatalf("expected idempotent retry, got %v", err)
		}

		err = repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusCancelled,
			domain.OrderStatusPending, domain.OrderStatusPaid)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		err = repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusPaid, domain.OrderStatusPending)
		if err != domain.ErrOrderAlreadyFinalized {
			t.Fatalf("expected ErrOrderAlreadyFinalized, got %v", err)
		}

		err = repo.UpdateOrderStatus(ctx, "00000000-0000-0000-0000-000000000001",
			domain.OrderStatusPaid, domain.OrderStatusPending)
		if err != domain.ErrOrderNotFound {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}
