package workflow

import "github.com/shopspring/decimal"

// SplitShared umumiy summani vaznlarga mutanosib bo'ladi. Barcha vaznlar 0
// bo'lsa teng bo'linadi. Yaxlitlash qoldig'i oxirgi ulushga qo'shiladi,
// shuning uchun ulushlar yig'indisi aynan total.
func SplitShared(total decimal.Decimal, weights []decimal.Decimal, places int32) []decimal.Decimal {
	n := len(weights)
	if n == 0 {
		return nil
	}
	ws := make([]decimal.Decimal, n)
	sum := decimal.Zero
	for i, w := range weights {
		if w.IsNegative() {
			w = decimal.Zero
		}
		ws[i] = w
		sum = sum.Add(w)
	}
	if sum.IsZero() {
		for i := range ws {
			ws[i] = decimal.NewFromInt(1)
		}
		sum = decimal.NewFromInt(int64(n))
	}

	shares := make([]decimal.Decimal, n)
	allocated := decimal.Zero
	for i := 0; i < n-1; i++ {
		shares[i] = total.Mul(ws[i]).Div(sum).Round(places)
		allocated = allocated.Add(shares[i])
	}
	shares[n-1] = total.Sub(allocated)
	return shares
}
