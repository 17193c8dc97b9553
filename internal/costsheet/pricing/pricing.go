// Package pricing derives cost, margin and price for every line-item
// variant. All arithmetic is decimal; nothing is rounded before the final
// two-decimal persisted values.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Result carries the server-computed pricing fields. Caller-supplied values
// for these fields are always discarded and recomputed.
type Result struct {
	Cost         decimal.Decimal
	MarginAmount decimal.Decimal
	Price        decimal.Decimal
}

// License: cost = rate × qty.
func License(rate decimal.Decimal, qty int, marginPct decimal.Decimal) Result {
	return finish(rate.Mul(decimal.NewFromInt(int64(qty))), marginPct)
}

// ResourceDays is shared by implementation and support items:
// totalDays = numResources × numDays; cost = totalDays × ratePerDay.
func ResourceDays(numResources, numDays int, ratePerDay, marginPct decimal.Decimal) (totalDays int, r Result) {
	totalDays = numResources * numDays
	return totalDays, finish(ratePerDay.Mul(decimal.NewFromInt(int64(totalDays))), marginPct)
}

// Infrastructure: cost = qty × ratePerMonth × months.
func Infrastructure(qty int, ratePerMonth decimal.Decimal, months int, marginPct decimal.Decimal) Result {
	cost := decimal.NewFromInt(int64(qty)).
		Mul(ratePerMonth).
		Mul(decimal.NewFromInt(int64(months)))
	return finish(cost, marginPct)
}

// Direct takes cost as entered, for items with no quantity basis.
func Direct(cost, marginPct decimal.Decimal) Result {
	return finish(cost, marginPct)
}

// finish applies the common tail: margin = cost × pct/100, price = cost +
// margin. Dividing by 100 is a pure exponent shift and never loses digits;
// margin is rounded to two decimals only at the end, and price is the sum of
// the persisted cost and margin so the stored triple stays consistent.
func finish(cost, marginPct decimal.Decimal) Result {
	cost = cost.Round(2)
	margin := cost.Mul(marginPct).Div(hundred).Round(2)
	return Result{
		Cost:         cost,
		MarginAmount: margin,
		Price:        cost.Add(margin),
	}
}
