package billing

import "github.com/shopspring/decimal"

// Model columns are decimal(10,2) floats; all arithmetic goes through
// shopspring/decimal so repeated additions cannot drift.

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func addMoney(a, b float64) float64 {
	return round2(decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)))
}

func subMoney(a, b float64) float64 {
	return round2(decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)))
}

// lineTotal is quantity x unit price, rounded to cents.
func lineTotal(quantity, unitPrice float64) float64 {
	return round2(decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(unitPrice)))
}

func roundHours(h float64) float64 {
	f, _ := decimal.NewFromFloat(h).Round(3).Float64()
	return f
}
