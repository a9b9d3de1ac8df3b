package workflow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/schema"
)

// GroupingKey bulk operatsiyada bir xil bo'lishi shart bo'lgan maydonlar
type GroupingKey struct {
	Vendor   string
	PONumber string
}

func (k GroupingKey) String() string {
	return fmt.Sprintf("vendor=%q po=%q", k.Vendor, k.PONumber)
}

// Normalized trim + kichik harf + ichki bo'shliqlarni bittaga
func (k GroupingKey) Normalized() GroupingKey {
	return GroupingKey{Vendor: foldSpace(k.Vendor), PONumber: foldSpace(k.PONumber)}
}

func foldSpace(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// VendorID n-chi vendor identifikatori: vendor1, vendor2, vendor3
func VendorID(n int) string {
	return "vendor" + strconv.Itoa(n)
}

// VendorIndex "vendor2" -> 2; boshqa qiymat uchun 0
func VendorIndex(id string) int {
	s := strings.ToLower(strings.TrimSpace(id))
	if !strings.HasPrefix(s, "vendor") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(s, "vendor")))
	if err != nil || n < 1 || n > schema.MaxVendors {
		return 0
	}
	return n
}

// GroupingKeyOf qatordan kalitni oladi. INDENT da vendor selected_vendor
// orqali tegishli taklif nomiga aylantiriladi, LIFT da vendor_name o'qiladi.
// Qiymatlar trim qilinmaydi.
func GroupingKeyOf(r schema.Row, l schema.Layout) GroupingKey {
	k := GroupingKey{PONumber: CellString(r.Value(l, schema.PONumber))}
	if l.Has(schema.SelectedVendor) {
		sel := CellString(r.Value(l, schema.SelectedVendor))
		if n := VendorIndex(sel); n > 0 {
			k.Vendor = CellString(r.Value(l, schema.VendorField(n, schema.QuoteName)))
		} else {
			k.Vendor = sel
		}
		return k
	}
	k.Vendor = CellString(r.Value(l, schema.VendorName))
	return k
}

// IndentGroupingKey typed indent uchun
func IndentGroupingKey(r entity.IndentRow) GroupingKey {
	k := GroupingKey{PONumber: r.PO.Number}
	if q, ok := r.SelectedQuote(); ok {
		k.Vendor = q.Name
	}
	return k
}

// LiftGroupingKey typed lift uchun
func LiftGroupingKey(r entity.LiftRecord) GroupingKey {
	return GroupingKey{Vendor: r.VendorName, PONumber: r.PONumber}
}

// Reconcile tanlovdagi barcha kalitlar birinchisiga teng bo'lishi kerak.
// Bitta farq butun batchni bekor qiladi.
func Reconcile(keys []GroupingKey, normalize bool) error {
	if len(keys) <= 1 {
		return nil
	}
	first := keys[0]
	if normalize {
		first = first.Normalized()
	}
	for i := 1; i < len(keys); i++ {
		k := keys[i]
		if normalize {
			k = k.Normalized()
		}
		if k != first {
			return &MismatchError{Expected: keys[0], Actual: keys[i], Position: i}
		}
	}
	return nil
}
