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

// SalesManager is the slice of the sales service these handlers need.
type SalesManager interface {
	RecordManual(ctx context.Context, in app.ManualSaleInput) (domain.SaleRecord, error)
	Amend(ctx context.Context, saleID string, patch app.SalePatch) (domain.SaleRecord, error)
	List(ctx context.Context, buyer string) ([]domain.SaleRecord, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}

type manualSaleRequest struct {
	Buyer        string          `json:"buyer"`
	Source       string          `json:"source"`
	ProductID    string          `json:"product_id"`
	AccountType  string          `json:"account_type"`
	Duration     string          `json:"duration"`
	PurchaseDate time.Time       `json:"purchase_date"`
	BonusDays    int             `json:"bonus_days"`
	Login        string          `json:"login"`
	Secret       string          `json:"secret"`
	Profile      string          `json:"profile"`
	PIN          string          `json:"pin"`
	Price        decimal.Decimal `json:"price"`
}

// HandleRecordManualSale appends a sale made outside the order flow.
func HandleRecordManualSale(svc SalesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req manualSaleRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		sale, err := svc.RecordManual(r.Context(), app.ManualSaleInput{
			Buyer:        req.Buyer,
			Source:       req.Source,
			ProductID:    req.ProductID,
			AccountType:  req.AccountType,
			Duration:     req.Duration,
			PurchaseDate: req.PurchaseDate,
			BonusDays:    req.BonusDays,
			Credential: domain.Credential{
				Login:   req.Login,
				Secret:  req.Secret,
				Profile: req.Profile,
				PIN:     req.PIN,
			},
			Price: req.Price,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toSaleResponse(sale))
	}
}

type amendSaleRequest struct {
	Buyer        *string          `json:"buyer"`
	Source       *string          `json:"source"`
	AccountType  *string          `json:"account_type"`
	Duration     *string          `json:"duration"`
	PurchaseDate *time.Time       `json:"purchase_date"`
	BonusDays    *int             `json:"bonus_days"`
	Login        *string          `json:"login"`
	Secret       *string          `json:"secret"`
	Profile      *string          `json:"profile"`
	PIN          *string          `json:"pin"`
	Price        *decimal.Decimal `json:"price"`
}

// HandleAmendSale applies an admin correction patch to a ledger entry.
func HandleAmendSale(svc SalesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req amendSaleRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		sale, err := svc.Amend(r.Context(), chi.URLParam(r, "id"), app.SalePatch{
			Buyer:        req.Buyer,
			Source:       req.Source,
			AccountType:  req.AccountType,
			Duration:     req.Duration,
			PurchaseDate: req.PurchaseDate,
			BonusDays:    req.BonusDays,
			Login:        req.Login,
			Secret:       req.Secret,
			Profile:      req.Profile,
			PIN:          req.PIN,
			Price:        req.Price,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSaleResponse(sale))
	}
}

// HandleListSales lists ledger entries, optionally filtered with ?buyer=.
func HandleListSales(svc SalesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sales, err := svc.List(r.Context(), r.URL.Query().Get("buyer"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]saleResponse, 0, len(sales))
		for _, s := range sales {
			resp = append(resp, toSaleResponse(s))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type revenueResponse struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

func HandleTotalRevenue(svc SalesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := svc.TotalRevenue(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, revenueResponse{TotalRevenue: total})
	}
}
