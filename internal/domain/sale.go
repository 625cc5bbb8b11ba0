package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceWebsite is the acquisition channel stamped on sales produced by
// order fulfillment. Manual sales carry whatever channel label the admin
// entered.
const SourceWebsite = "website"

// SaleRecord is the durable history entry of one completed delivery. Tier
// and credential fields are copied at allocation time so the record stands
// on its own even if the inventory unit is deleted later.
type SaleRecord struct {
	ID string
	// OrderID is nil for manual sales recorded without a website order.
	OrderID        *string
	Buyer          string
	Source         string
	ProductID      string
	AccountType    string
	Duration       string
	PurchaseDate   time.Time
	BonusDays      int
	BaseExpiry     time.Time
	AdjustedExpiry time.Time
	Credential     Credential
	Price          decimal.Decimal
	CreatedAt      time.Time
}
