package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLicense(t *testing.T) {
	r := License(dec("1250.50"), 4, dec("20"))

	assert.True(t, r.Cost.Equal(dec("5002.00")), "cost %s", r.Cost)
	assert.True(t, r.MarginAmount.Equal(dec("1000.40")), "margin %s", r.MarginAmount)
	assert.True(t, r.Price.Equal(dec("6002.40")), "price %s", r.Price)
}

func TestResourceDays(t *testing.T) {
	totalDays, r := ResourceDays(3, 15, dec("800"), dec("12.5"))

	assert.Equal(t, 45, totalDays)
	assert.True(t, r.Cost.Equal(dec("36000")), "cost %s", r.Cost)
	assert.True(t, r.MarginAmount.Equal(dec("4500")), "margin %s", r.MarginAmount)
	assert.True(t, r.Price.Equal(dec("40500")), "price %s", r.Price)
}

func TestInfrastructure(t *testing.T) {
	r := Infrastructure(2, dec("499.99"), 12, dec("10"))

	assert.True(t, r.Cost.Equal(dec("11999.76")), "cost %s", r.Cost)
	assert.True(t, r.MarginAmount.Equal(dec("1199.98")), "margin %s", r.MarginAmount)
	assert.True(t, r.Price.Equal(dec("13199.74")), "price %s", r.Price)
}

func TestDirect(t *testing.T) {
	r := Direct(dec("1000"), dec("0"))

	assert.True(t, r.Cost.Equal(dec("1000")))
	assert.True(t, r.MarginAmount.IsZero())
	assert.True(t, r.Price.Equal(dec("1000")))
}

// The fractional margin percentage must not be rounded before the final
// two-decimal value.
func TestNoEarlyRounding(t *testing.T) {
	r := License(dec("0.01"), 1, dec("33.33"))

	// 0.01 * 0.3333 = 0.003333 -> rounds to 0.00 only at the end.
	assert.True(t, r.MarginAmount.IsZero(), "margin %s", r.MarginAmount)
	assert.True(t, r.Price.Equal(dec("0.01")), "price %s", r.Price)
}

func TestPriceEqualsCostPlusMargin(t *testing.T) {
	cases := []struct {
		rate string
		qty  int
		pct  string
	}{
		{"999.99", 7, "18.25"},
		{"1.05", 3, "33.33"},
		{"250000", 1, "7.5"},
	}
	for _, tc := range cases {
		r := License(dec(tc.rate), tc.qty, dec(tc.pct))
		assert.True(t, r.Price.Equal(r.Cost.Add(r.MarginAmount)),
			"rate=%s qty=%d pct=%s", tc.rate, tc.qty, tc.pct)
	}
}
