package domain

import "time"

// Product is catalog display metadata. Read-only here; catalog editing
// happens outside this core.
type Product struct {
	ID        string
	Name      string
	Category  string
	CreatedAt time.Time
}
