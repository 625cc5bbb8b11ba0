// Package expiry computes access-expiry dates from duration codes.
//
// A duration code is an integer magnitude followed by a unit letter, "d"
// for calendar days or "m" for calendar months, optionally followed by a
// whitespace-separated qualifier token ("12m w"). The qualifier labels a
// tier variant downstream and never affects the date math.
//
// Month arithmetic clamps to the end of the target month: 2024-01-31 plus
// "1m" is 2024-02-29, not a normalized March date.
package expiry

import (
	"strconv"
	"strings"
	"time"

	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
)

type Unit string

const (
	UnitDays   Unit = "d"
	UnitMonths Unit = "m"
)

// Duration is a parsed duration code.
type Duration struct {
	Magnitude int
	Unit      Unit
	Qualifier string
}

// Parse parses a duration code. Malformed codes return
// domain.ErrInvalidDurationCode; there is no silent default.
func Parse(code string) (Duration, error) {
	fields := strings.Fields(code)
	if len(fields) == 0 || len(fields) > 2 {
		return Duration{}, domain.ErrInvalidDurationCode
	}

	base := fields[0]
	if len(base) < 2 {
		return Duration{}, domain.ErrInvalidDurationCode
	}

	var unit Unit
	switch base[len(base)-1] {
	case 'd':
		unit = UnitDays
	case 'm':
		unit = UnitMonths
	default:
		return Duration{}, domain.ErrInvalidDurationCode
	}

	magnitude, err := strconv.Atoi(base[:len(base)-1])
	if err != nil || magnitude <= 0 {
		return Duration{}, domain.ErrInvalidDurationCode
	}

	d := Duration{Magnitude: magnitude, Unit: unit}
	if len(fields) == 2 {
		d.Qualifier = fields[1]
	}
	return d, nil
}

// Compute returns the base and bonus-adjusted expiry for a purchase date
// and duration code. bonusDays may be negative to correct over-grants, but
// the adjusted expiry may never precede the purchase date.
func Compute(purchaseDate time.Time, code string, bonusDays int) (base, adjusted time.Time, err error) {
	d, err := Parse(code)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	switch d.Unit {
	case UnitDays:
		base = purchaseDate.AddDate(0, 0, d.Magnitude)
	case UnitMonths:
		base = addMonthsClamped(purchaseDate, d.Magnitude)
	}

	adjusted = base.AddDate(0, 0, bonusDays)
	if adjusted.Before(purchaseDate) {
		return time.Time{}, time.Time{}, domain.ErrInvalidBonusAdjustment
	}
	return base, adjusted, nil
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	// First of the target month, then clamp the day-of-month.
	first := time.Date(year, month+time.Month(months), 1, hour, min, sec, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
