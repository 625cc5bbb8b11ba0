package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/aiaxcartpremium/aiaxshop/internal/app"
	"github.com/aiaxcartpremium/aiaxshop/internal/clock"
	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/aiaxcartpremium/aiaxshop/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestFulfillmentRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewFulfillmentRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetOrderForUpdate returns order and ErrOrderNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		productID := testutil.InsertProduct(t, ctx, pool, "Netflix")
		orderID := testutil.InsertOrder(t, ctx, pool, productID, domain.Order{
			Buyer:       "juan",
			AccountType: "solo",
			Duration:    "30d",
		})

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			order, err := repo.GetOrderForUpdate(txCtx, orderID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if order.ID != orderID || order.Buyer != "juan" || order.Status != domain.OrderStatusPending {
				t.Fatalf("unexpected order: %+v", order)
			}

			missing := "00000000-0000-0000-0000-000000000001"
			_, err = repo.GetOrderForUpdate(txCtx, missing)
			if err != domain.ErrOrderNotFound {
				t.Fatalf("expected ErrOrderNotFound, got %v", err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		_, err = repo.GetOrderForUpdate(ctx, "not-a-uuid")
		if err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("FindAvailableUnits orders oldest first and filters tier", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Netflix")
		now := time.Now().UTC()

		newest := testutil.InsertStock(t, ctx, pool, productID, domain.InventoryUnit{
			AccountType: "solo", Duration: "30d", CreatedAt: now,
			Credential: domain.Credential{Login: "c@x.com", Secret: "pw"},
		})
		oldest := testutil.InsertStock(t, ctx, pool, productID, domain.InventoryUnit{
			AccountType: "solo", Duration: "30d", CreatedAt: now.Add(-2 * time.Hour),
			Credential: domain.Credential{Login: "a@x.com", Secret: "pw"},
		})
		testutil.InsertStock(t, ctx, pool, productID, domain.InventoryUnit{
			AccountType: "shared", Duration: "90d", CreatedAt: now.Add(-3 * time.Hour),
			Credential: domain.Credential{Login: "b@x.com", Secret: "pw"},
		})
		testutil.InsertStock(t, ctx, pool, productID, domain.InventoryUnit{
			AccountType: "solo", Duration: "30d", Status: domain.UnitStatusArchived,
			CreatedAt:  now.Add(-4 * time.Hour),
			Credential: domain.Credential{Login: "d@x.com", Secret: "pw"},
		})

		units, err := repo.FindAvailableUnits(ctx, app.UnitCriteria{
			ProductID: productID, AccountType: "solo", Duration: "30d",
		}, 10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(units) != 2 {
			t.Fatalf("expected 2 matching units, got %d", len(units))
		}
		if units[0].ID != oldest || units[1].ID != newest {
			t.Fatalf("expected oldest-first ordering, got %s then %s", units[0].ID, units[1].ID)
		}

		all, err := repo.FindAvailableUnits(ctx, app.UnitCriteria{ProductID: productID}, 10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 available units for the product, got %d", len(all))
		}
	})

	t.Run("ClaimUnit wins once", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Netflix")
		unitID := testutil.InsertStock(t, ctx, pool, productID, domain.InventoryUnit{
			AccountType: "solo", Duration: "30d",
			Credential: domain.Credential{Login: "a@x.com", Secret: "pw"},
		})

		claimed, err := repo.ClaimUnit(ctx, unitID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !claimed {
			t.Fatalf("expected first claim to win")
		}

		claimed, err = repo.ClaimUnit(ctx, unitID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if claimed {
			t.Fatalf("expected second claim to lose")
		}

		var status string
		if err := pool.QueryRow(ctx, `SELECT status FROM stocks WHERE id = $1`, unitID).Scan(&status); err != nil {
			t.Fatalf("query status: %v", err)
		}
		if status != "sold" {
			t.Fatalf("expected sold, got %s", status)
		}
	})

	t.Run("CreateSale refuses a second record for one order", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Netflix")
		orderID := testutil.InsertOrder(t, ctx, pool, productID, domain.Order{})
		now := time.Now().UTC()

		sale := domain.SaleRecord{
			ID:             uuid.NewString(),
			OrderID:        &orderID,
			Buyer:          "juan",
			Source:         domain.SourceWebsite,
			ProductID:      productID,
			AccountType:    "solo",
			Duration:       "30d",
			PurchaseDate:   now,
			BaseExpiry:     now.AddDate(0, 0, 30),
			AdjustedExpiry: now.AddDate(0, 0, 30),
			Credential:     domain.Credential{Login: "a@x.com", Secret: "pw"},
			Price:          decimal.NewFromInt(149),
			CreatedAt:      now,
		}
		if err := repo.CreateSale(ctx, sale); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		dup := sale
		dup.ID = uuid.NewString()
		err := repo.CreateSale(ctx, dup)
		if err != domain.ErrOrderAlreadyFinalized {
			t.Fatalf("expected ErrOrderAlreadyFinalized, got %v", err)
		}
	})

	// Runs the whole engine against the real transaction: when the ledger
	// insert fails mid-fulfillment, the claimed unit and the order must both
	// come back untouched, never a mix.
	t.Run("failed ledger write rolls back the claim and the order", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Netflix")
		orderID := testutil.InsertOrder(t, ctx, pool, productID, domain.Order{
			AccountType: "solo",
			Duration:    "30d",
		})
		unitID := testutil.InsertStock(t, ctx, pool, productID, domain.InventoryUnit{
			AccountType: "solo", Duration: "30d",
			Credential: domain.Credential{Login: "a@x.com", Secret: "pw"},
		})

		// A record already referencing the order makes the partial unique
		// index reject the engine's ledger insert.
		now := time.Now().UTC()
		if err := NewSaleRepository(pool).CreateSale(ctx, domain.SaleRecord{
			ID:             uuid.NewString(),
			OrderID:        &orderID,
			Buyer:          "buyer@example.com",
			Source:         domain.SourceWebsite,
			ProductID:      productID,
			AccountType:    "solo",
			Duration:       "30d",
			PurchaseDate:   now,
			BaseExpiry:     now.AddDate(0, 0, 30),
			AdjustedExpiry: now.AddDate(0, 0, 30),
			Credential:     domain.Credential{Login: "old@x.com", Secret: "pw"},
			Price:          decimal.NewFromInt(100),
			CreatedAt:      now,
		}); err != nil {
			t.Fatalf("seed conflicting sale: %v", err)
		}

		svc := app.NewFulfillmentService(repo, clock.NewFixed(now))
		_, err := svc.FulfillOrder(ctx, orderID)
		if err != domain.ErrOrderAlreadyFinalized {
			t.Fatalf("expected ErrOrderAlreadyFinalized, got %v", err)
		}

		var unitStatus string
		if err := pool.QueryRow(ctx, `SELECT status FROM stocks WHERE id = $1`, unitID).Scan(&unitStatus); err != nil {
			t.Fatalf("query unit status: %v", err)
		}
		if unitStatus != "available" {
			t.Fatalf("expected claim rolled back to available, got %s", unitStatus)
		}

		var orderStatus string
		if err := pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&orderStatus); err != nil {
			t.Fatalf("query order status: %v", err)
		}
		if orderStatus != "pending" {
			t.Fatalf("expected order still pending, got %s", orderStatus)
		}

		var count int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM records WHERE order_id = $1`, orderID).Scan(&count); err != nil {
			t.Fatalf("query records: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected only the seeded record, got %d", count)
		}
	})

	t.Run("CompleteOrder only moves fulfillable orders", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Netflix")
		orderID := testutil.InsertOrder(t, ctx, pool, productID, domain.Order{Status: domain.OrderStatusPaid})

		if err := repo.CompleteOrder(ctx, orderID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var status string
		if err := pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status); err != nil {
			t.Fatalf("query status: %v", err)
		}
		if status != "delivered" {
			t.Fatalf("expected delivered, got %s", status)
		}

		err := repo.CompleteOrder(ctx, orderID)
		if err != domain.ErrOrderAlreadyFinalized {
			t.Fatalf("expected ErrOrderAlreadyFinalized, got %v", err)
		}
	})
}
