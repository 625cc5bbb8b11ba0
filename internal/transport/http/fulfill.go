package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aiaxcartpremium/aiaxshop/internal/app"
	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// OrderFulfiller is the minimal interface needed to fulfill an order.
type OrderFulfiller interface {
	FulfillOrder(ctx context.Context, orderID string) (app.FulfillResult, error)
}

type saleResponse struct {
	ID             string          `json:"id"`
	OrderID        *string         `json:"order_id,omitempty"`
	Buyer          string          `json:"buyer"`
	Source         string          `json:"source"`
	ProductID      string          `json:"product_id"`
	AccountType    string          `json:"account_type,omitempty"`
	Duration       string          `json:"duration,omitempty"`
	PurchaseDate   time.Time       `json:"purchase_date"`
	BonusDays      int             `json:"bonus_days"`
	BaseExpiry     time.Time       `json:"base_expiry"`
	AdjustedExpiry time.Time       `json:"adjusted_expiry"`
	Login          string          `json:"login"`
	Secret         string          `json:"secret"`
	Profile        string          `json:"profile,omitempty"`
	PIN            string          `json:"pin,omitempty"`
	Price          decimal.Decimal `json:"price"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toSaleResponse(s domain.SaleRecord) saleResponse {
	return saleResponse{
		ID:             s.ID,
		OrderID:        s.OrderID,
		Buyer:          s.Buyer,
		Source:         s.Source,
		ProductID:      s.ProductID,
		AccountType:    s.AccountType,
		Duration:       s.Duration,
		PurchaseDate:   s.PurchaseDate,
		BonusDays:      s.BonusDays,
		BaseExpiry:     s.BaseExpiry,
		AdjustedExpiry: s.AdjustedExpiry,
		Login:          s.Credential.Login,
		Secret:         s.Credential.Secret,
		Profile:        s.Credential.Profile,
		PIN:            s.Credential.PIN,
		Price:          s.Price,
		CreatedAt:      s.CreatedAt,
	}
}

// HandleFulfillOrder triggers the allocation engine for one order. 201
// means a fresh delivery; 200 returns the sale of an already-delivered
// order without claiming anything.
func HandleFulfillOrder(svc OrderFulfiller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.FulfillOrder(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		writeJSON(w, status, toSaleResponse(res.Sale))
	}
}
