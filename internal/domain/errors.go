package domain

import "errors"

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderAlreadyFinalized  = errors.New("order already finalized")
	ErrNoAvailableStock       = errors.New("no available stock")
	ErrAllocationTimeout      = errors.New("allocation timed out")
	ErrInvalidDurationCode    = errors.New("invalid duration code")
	ErrInvalidBonusAdjustment = errors.New("invalid bonus adjustment")
	ErrCannotDeleteSoldUnit   = errors.New("cannot delete sold unit")
	ErrUnitNotFound           = errors.New("inventory unit not found")
	ErrUnitNotAvailable       = errors.New("inventory unit not available")
	ErrSaleNotFound           = errors.New("sale record not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrInvalidID              = errors.New("invalid id")
	ErrInvalidPrice           = errors.New("invalid price")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrBuyerRequired          = errors.New("buyer required")
	ErrCredentialRequired     = errors.New("credential login and secret required")
	ErrInvalidStatusFilter    = errors.New("invalid status filter")
)
