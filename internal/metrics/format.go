package metrics

import (
	"math"

	"github.com/shopspring/decimal"
)

// NotAvailable marks a figure that cannot be computed from the snapshot.
const NotAvailable = "N/A"

var hundred = decimal.NewFromInt(100)

// percentOf returns num/den*100 rounded half-up to one decimal. den must be positive.
func percentOf(num, den int64) decimal.Decimal {
	return decimal.NewFromInt(num).Mul(hundred).DivRound(decimal.NewFromInt(den), 1)
}

// formatPercent renders num/den as a one-decimal percentage, or zero when den is not positive.
func formatPercent(num, den int64, zero string) string {
	if den <= 0 {
		return zero
	}
	return percentOf(num, den).StringFixed(1)
}

var tenth = decimal.New(1, -1)

// shares renders each count as a one-decimal percentage of total. Values are rounded half-up,
// then any surplus above 100.0 is taken back a tenth at a time from the buckets rounded up the
// most, later buckets first on ties. The result never sums above 100.0.
func shares(counts []int64, total int64, zero string) []string {
	out := make([]string, len(counts))
	if total <= 0 {
		for i := range out {
			out[i] = zero
		}
		return out
	}

	rounded := make([]decimal.Decimal, len(counts))
	errs := make([]decimal.Decimal, len(counts))
	sum := decimal.Zero
	for i, c := range counts {
		rounded[i] = percentOf(c, total)
		errs[i] = rounded[i].Sub(decimal.NewFromInt(c).Mul(hundred).Div(decimal.NewFromInt(total)))
		sum = sum.Add(rounded[i])
	}
	for sum.GreaterThan(hundred) {
		pick := -1
		for i := range errs {
			if errs[i].IsPositive() && (pick < 0 || errs[i].GreaterThanOrEqual(errs[pick])) {
				pick = i
			}
		}
		if pick < 0 {
			break
		}
		rounded[pick] = rounded[pick].Sub(tenth)
		errs[pick] = errs[pick].Sub(tenth)
		sum = sum.Sub(tenth)
	}

	for i := range rounded {
		out[i] = rounded[i].StringFixed(1)
	}
	return out
}

func oneDecimal(v float64) string {
	return decimal.NewFromFloat(v).Round(1).StringFixed(1)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
