package workflow

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/schema"
)

// Remaining = max(0, approved - lifted)
func Remaining(approved, lifted decimal.Decimal) decimal.Decimal {
	rem := approved.Sub(lifted)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// Ledger bitta indent bo'yicha lift lar yig'indisi
type Ledger struct {
	IndentID string
	Lifted   decimal.Decimal
	Count    int
	maxNo    int
}

// NextNumber keyingi lift raqami (eng kattasi + 1)
func (l Ledger) NextNumber() string {
	n := l.maxNo
	if l.Count > n {
		n = l.Count
	}
	return strconv.Itoa(n + 1)
}

// LiftLedger LIFT qatorlarini indent bo'yicha yig'adi
func LiftLedger(lifts []entity.LiftRecord) map[string]Ledger {
	out := make(map[string]Ledger)
	for i := range lifts {
		lr := lifts[i]
		id := strings.TrimSpace(lr.IndentID)
		if id == "" {
			continue
		}
		led := out[id]
		led.IndentID = id
		led.Lifted = led.Lifted.Add(lr.LiftingQty)
		led.Count++
		if n, err := strconv.Atoi(strings.TrimSpace(lr.LiftNumber)); err == nil && n > led.maxNo {
			led.maxNo = n
		}
		out[id] = led
	}
	return out
}

// CheckLiftEligible remaining = 0 bo'lsa yaroqsiz; qty (0, remaining] oralig'ida bo'lishi kerak.
func CheckLiftEligible(key string, remaining, qty decimal.Decimal) error {
	if !remaining.IsPositive() {
		return &IneligibleError{Key: key, Remaining: decimal.Zero, Reason: "remaining quantity is 0"}
	}
	if !qty.IsPositive() {
		return &FieldError{Field: schema.LiftingQty, Reason: "must be greater than 0"}
	}
	if qty.GreaterThan(remaining) {
		return &FieldError{Field: schema.LiftingQty, Reason: "exceeds remaining quantity " + remaining.String()}
	}
	return nil
}
