package domain

import "time"

type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "available"
	UnitStatusReserved  UnitStatus = "reserved"
	UnitStatusSold      UnitStatus = "sold"
	UnitStatusArchived  UnitStatus = "archived"
)

// Credential is the deliverable payload of an inventory unit. Profile and
// PIN are optional sub-account selectors; empty string means unset.
type Credential struct {
	Login   string
	Secret  string
	Profile string
	PIN     string
}

// InventoryUnit is one sellable credential instance for a
// (product, account type, duration) tier. A unit goes available -> sold
// exactly once; archived units are never allocated.
type InventoryUnit struct {
	ID          string
	ProductID   string
	AccountType string
	Duration    string
	Credential  Credential
	Status      UnitStatus
	// PremiumUntil caps the delivered expiry at the upstream account's own
	// end date, independent of when the unit is sold.
	PremiumUntil *time.Time
	// ArchiveAfterDays marks how long an unsold unit stays listable before a
	// housekeeping sweep may archive it. Nil disables auto-archival.
	ArchiveAfterDays *int
	CreatedAt        time.Time
}
