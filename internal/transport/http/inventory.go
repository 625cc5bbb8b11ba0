package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aiaxcartpremium/aiaxshop/internal/app"
	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/go-chi/chi/v5"
)

// InventoryManager is the slice of the inventory service these handlers
// need.
type InventoryManager interface {
	AddUnits(ctx context.Context, in app.AddUnitsInput) ([]domain.InventoryUnit, error)
	List(ctx context.Context, filter app.UnitFilter) ([]domain.InventoryUnit, error)
	Archive(ctx context.Context, unitID string) error
	Restore(ctx context.Context, unitID string) error
	Delete(ctx context.Context, unitID string) error
}

type addUnitsRequest struct {
	ProductID        string     `json:"product_id"`
	AccountType      string     `json:"account_type"`
	Duration         string     `json:"duration"`
	Login            string     `json:"login"`
	Secret           string     `json:"secret"`
	Profile          string     `json:"profile"`
	PIN              string     `json:"pin"`
	Quantity         int        `json:"quantity"`
	PremiumUntil     *time.Time `json:"premium_until"`
	ArchiveAfterDays *int       `json:"archive_after_days"`
}

type unitResponse struct {
	ID               string     `json:"id"`
	ProductID        string     `json:"product_id"`
	AccountType      string     `json:"account_type"`
	Duration         string     `json:"duration"`
	Login            string     `json:"login"`
	Profile          string     `json:"profile,omitempty"`
	Status           string     `json:"status"`
	PremiumUntil     *time.Time `json:"premium_until,omitempty"`
	ArchiveAfterDays *int       `json:"archive_after_days,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// toUnitResponse deliberately omits secret and PIN; credentials are only
// delivered through sale records.
func toUnitResponse(u domain.InventoryUnit) unitResponse {
	return unitResponse{
		ID:               u.ID,
		ProductID:        u.ProductID,
		AccountType:      u.AccountType,
		Duration:         u.Duration,
		Login:            u.Credential.Login,
		Profile:          u.Credential.Profile,
		Status:           string(u.Status),
		PremiumUntil:     u.PremiumUntil,
		ArchiveAfterDays: u.ArchiveAfterDays,
		CreatedAt:        u.CreatedAt,
	}
}

// HandleAddUnits stocks one or more units of a credential.
func HandleAddUnits(svc InventoryManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addUnitsRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		units, err := svc.AddUnits(r.Context(), app.AddUnitsInput{
			ProductID:   req.ProductID,
			AccountType: req.AccountType,
			Duration:    req.Duration,
			Credential: domain.Credential{
				Login:   req.Login,
				Secret:  req.Secret,
				Profile: req.Profile,
				PIN:     req.PIN,
			},
			Quantity:         req.Quantity,
			PremiumUntil:     req.PremiumUntil,
			ArchiveAfterDays: req.ArchiveAfterDays,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]unitResponse, 0, len(units))
		for _, u := range units {
			resp = append(resp, toUnitResponse(u))
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// HandleListInventory lists units, optionally filtered with ?product_id=
// and ?status=.
func HandleListInventory(svc InventoryManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := app.UnitFilter{
			ProductID: r.URL.Query().Get("product_id"),
			Status:    domain.UnitStatus(r.URL.Query().Get("status")),
		}

		units, err := svc.List(r.Context(), filter)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]unitResponse, 0, len(units))
		for _, u := range units {
			resp = append(resp, toUnitResponse(u))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleUnitTransition adapts archive/restore, which share the id-in-path,
// no-body shape.
func HandleUnitTransition(transition func(ctx context.Context, unitID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := transition(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleDeleteUnit(svc InventoryManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
