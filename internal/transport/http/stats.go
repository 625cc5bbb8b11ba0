package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aiaxcartpremium/aiaxshop/internal/app"
	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/shopspring/decimal"
)

type StatsProvider interface {
	Overview(ctx context.Context) (app.Overview, error)
}

type CatalogReader interface {
	List(ctx context.Context) ([]domain.Product, error)
}

type overviewResponse struct {
	PendingOrders  int             `json:"pending_orders"`
	AvailableUnits int             `json:"available_units"`
	SoldUnits      int             `json:"sold_units"`
	SaleRecords    int             `json:"sale_records"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

// HandleStats serves the dashboard counters.
func HandleStats(svc StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ov, err := svc.Overview(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, overviewResponse{
			PendingOrders:  ov.PendingOrders,
			AvailableUnits: ov.AvailableUnits,
			SoldUnits:      ov.SoldUnits,
			SaleRecords:    ov.SaleRecords,
			TotalRevenue:   ov.TotalRevenue,
		})
	}
}

type productResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleListProducts serves the read-only catalog for presentation.
func HandleListProducts(svc CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.List(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]productResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, productResponse{
				ID:        p.ID,
				Name:      p.Name,
				Category:  p.Category,
				CreatedAt: p.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
