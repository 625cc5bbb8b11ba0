package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
)

const (
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidID            = "invalid_id"
	codeInvalidPrice         = "invalid_price"
	codeInvalidQuantity      = "invalid_quantity"
	codeInvalidStatusFilter  = "invalid_status_filter"
	codeBuyerRequired        = "buyer_required"
	codeCredentialRequired   = "credential_required"
	codeInvalidDurationCode  = "invalid_duration_code"
	codeInvalidBonus         = "invalid_bonus_adjustment"
	codeOrderNotFound        = "order_not_found"
	codeOrderFinalized       = "order_already_finalized"
	codeNoAvailableStock     = "no_available_stock"
	codeAllocationTimeout    = "allocation_timeout"
	codeUnitNotFound         = "unit_not_found"
	codeUnitNotAvailable     = "unit_not_available"
	codeCannotDeleteSoldUnit = "cannot_delete_sold_unit"
	codeSaleNotFound         = "sale_not_found"
	codeProductNotFound      = "product_not_found"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps core error kinds onto HTTP statuses and stable
// machine-readable codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case errors.Is(err, domain.ErrUnitNotFound):
		writeError(w, http.StatusNotFound, codeUnitNotFound, err.Error())
	case errors.Is(err, domain.ErrSaleNotFound):
		writeError(w, http.StatusNotFound, codeSaleNotFound, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderAlreadyFinalized):
		writeError(w, http.StatusConflict, codeOrderFinalized, err.Error())
	case errors.Is(err, domain.ErrNoAvailableStock):
		writeError(w, http.StatusConflict, codeNoAvailableStock, err.Error())
	case errors.Is(err, domain.ErrUnitNotAvailable):
		writeError(w, http.StatusConflict, codeUnitNotAvailable, err.Error())
	case errors.Is(err, domain.ErrCannotDeleteSoldUnit):
		writeError(w, http.StatusConflict, codeCannotDeleteSoldUnit, err.Error())
	case errors.Is(err, domain.ErrAllocationTimeout):
		writeError(w, http.StatusServiceUnavailable, codeAllocationTimeout, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrInvalidStatusFilter):
		writeError(w, http.StatusBadRequest, codeInvalidStatusFilter, err.Error())
	case errors.Is(err, domain.ErrBuyerRequired):
		writeError(w, http.StatusBadRequest, codeBuyerRequired, err.Error())
	case errors.Is(err, domain.ErrCredentialRequired):
		writeError(w, http.StatusBadRequest, codeCredentialRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidDurationCode):
		writeError(w, http.StatusBadRequest, codeInvalidDurationCode, err.Error())
	case errors.Is(err, domain.ErrInvalidBonusAdjustment):
		writeError(w, http.StatusBadRequest, codeInvalidBonus, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
