package workflow

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/po-workflow/internal/domain/constants"
)

// MissingMarker "qiymat yo'q" belgisi
const MissingMarker = constants.MissingMarker

// CellString katak qiymatini matnga aylantiradi (trim qilinmaydi).
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// Present katak bo'sh emas va "-" emas
func Present(v any) bool {
	s := strings.TrimSpace(CellString(v))
	return s != "" && s != MissingMarker
}

// CellDecimal katakni sonli qiymatga aylantiradi. "1,250.50" ham qabul qilinadi.
func CellDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return x, true
	case float64:
		return decimal.NewFromFloat(x), true
	case float32:
		return decimal.NewFromFloat32(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	}
	s := strings.TrimSpace(CellString(v))
	if s == "" || s == MissingMarker {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// DecimalOrZero parse bo'lmasa 0
func DecimalOrZero(v any) decimal.Decimal {
	d, _ := CellDecimal(v)
	return d
}

// CellBool "yes/true/y/1/ha" -> true
func CellBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	switch strings.ToLower(strings.TrimSpace(CellString(v))) {
	case "yes", "y", "true", "1", "ha":
		return true
	}
	return false
}

// FormatQty miqdorni ortiqcha nolsiz yozadi
func FormatQty(d decimal.Decimal) string {
	return d.String()
}

// FormatMoney pul qiymati MoneyPlaces xonagacha
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(constants.MoneyPlaces)
}
