package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aiaxcartpremium/aiaxshop/internal/app"
	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// OrderManager is the slice of the order service these handlers need.
type OrderManager interface {
	Place(ctx context.Context, in app.PlaceOrderInput) (domain.Order, error)
	Get(ctx context.Context, orderID string) (domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error)
	MarkPaid(ctx context.Context, orderID string) error
	Cancel(ctx context.Context, orderID string) error
	Reject(ctx context.Context, orderID string) error
}

type placeOrderRequest struct {
	Buyer           string          `json:"buyer"`
	ProductID       string          `json:"product_id"`
	AccountType     string          `json:"account_type"`
	Duration        string          `json:"duration"`
	Price           decimal.Decimal `json:"price"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber string          `json:"reference_number"`
	ProofURL        string          `json:"proof_url"`
}

type orderResponse struct {
	ID              string          `json:"id"`
	Buyer           string          `json:"buyer"`
	ProductID       string          `json:"product_id"`
	AccountType     string          `json:"account_type,omitempty"`
	Duration        string          `json:"duration,omitempty"`
	Price           decimal.Decimal `json:"price"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	ProofURL        string          `json:"proof_url,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		Buyer:           o.Buyer,
		ProductID:       o.ProductID,
		AccountType:     o.AccountType,
		Duration:        o.Duration,
		Price:           o.Price,
		PaymentMethod:   o.Payment.Method,
		ReferenceNumber: o.Payment.ReferenceNumber,
		ProofURL:        o.Payment.ProofURL,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
}

// HandlePlaceOrder returns an HTTP handler for creating pending orders.
func HandlePlaceOrder(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req placeOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		order, err := svc.Place(r.Context(), app.PlaceOrderInput{
			Buyer:       req.Buyer,
			ProductID:   req.ProductID,
			AccountType: req.AccountType,
			Duration:    req.Duration,
			Price:       req.Price,
			Payment: domain.Payment{
				Method:          req.PaymentMethod,
				ReferenceNumber: req.ReferenceNumber,
				ProofURL:        req.ProofURL,
			},
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toOrderResponse(order))
	}
}

func HandleGetOrder(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

// HandleListOrders lists orders, optionally filtered with ?status=.
func HandleListOrders(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *domain.OrderStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			s := domain.OrderStatus(raw)
			switch s {
			case domain.OrderStatusPending, domain.OrderStatusPaid, domain.OrderStatusDelivered,
				domain.OrderStatusCancelled, domain.OrderStatusRejected:
				status = &s
			default:
				writeError(w, http.StatusBadRequest, codeInvalidStatusFilter, "invalid status filter")
				return
			}
		}

		orders, err := svc.List(r.Context(), status)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]orderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, toOrderResponse(o))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleOrderTransition adapts the pay/cancel/reject operations, which all
// share the id-in-path, no-body shape.
func HandleOrderTransition(transition func(ctx context.Context, orderID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := transition(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
