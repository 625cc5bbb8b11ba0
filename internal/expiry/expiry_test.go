package expiry

import (
	"testing"
	"time"

	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want Duration
	}{
		{"7d", Duration{Magnitude: 7, Unit: UnitDays}},
		{"1m", Duration{Magnitude: 1, Unit: UnitMonths}},
		{"12m w", Duration{Magnitude: 12, Unit: UnitMonths, Qualifier: "w"}},
		{"  3m  w ", Duration{Magnitude: 3, Unit: UnitMonths, Qualifier: "w"}},
		{"30d", Duration{Magnitude: 30, Unit: UnitDays}},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := Parse(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsMalformedCodes(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "m", "1", "1w", "0m", "-1d", "1.5m", "one m", "1m w x", "d7"} {
		t.Run("code "+code, func(t *testing.T) {
			_, err := Parse(code)
			assert.ErrorIs(t, err, domain.ErrInvalidDurationCode)
		})
	}
}

func TestComputeDays(t *testing.T) {
	t.Parallel()

	base, adjusted, err := Compute(date(2024, time.March, 1), "7d", 5)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 8), base)
	assert.Equal(t, date(2024, time.March, 13), adjusted)
}

func TestComputeMonthEndClamps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		purchase time.Time
		code     string
		want     time.Time
	}{
		{"jan 31 to leap feb", date(2024, time.January, 31), "1m", date(2024, time.February, 29)},
		{"jan 31 to plain feb", date(2023, time.January, 31), "1m", date(2023, time.February, 28)},
		{"mar 31 to apr 30", date(2024, time.March, 31), "1m", date(2024, time.April, 30)},
		{"mid month keeps day", date(2024, time.January, 15), "1m", date(2024, time.February, 15)},
		{"year rollover", date(2024, time.November, 15), "3m", date(2025, time.February, 15)},
		{"qualifier ignored in math", date(2024, time.January, 1), "12m w", date(2025, time.January, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, adjusted, err := Compute(tt.purchase, tt.code, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, base)
			assert.Equal(t, base, adjusted)
		})
	}
}

func TestComputeNegativeBonus(t *testing.T) {
	t.Parallel()

	base, adjusted, err := Compute(date(2024, time.March, 1), "7d", -3)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 8), base)
	assert.Equal(t, date(2024, time.March, 5), adjusted)

	// A correction may not push the expiry before the purchase itself.
	_, _, err = Compute(date(2024, time.March, 1), "7d", -8)
	assert.ErrorIs(t, err, domain.ErrInvalidBonusAdjustment)
}

func TestComputeInvalidCode(t *testing.T) {
	t.Parallel()

	_, _, err := Compute(date(2024, time.March, 1), "forever", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidDurationCode)
}
