package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StageDates bir bosqichning rejalashtirilgan va haqiqiy sanalari
type StageDates struct {
	Planned *time.Time `json:"planned,omitempty"`
	Actual  *time.Time `json:"actual,omitempty"`
}

// IndentStageCount INDENT sheetidagi planned/actual juftliklari soni
const IndentStageCount = 6

// IndentRow bitta xarid talabi (indent) qatori
type IndentRow struct {
	IndentID string     `json:"indent_id"`
	RowIndex int        `json:"row_index"` // store ichidagi 1-based pozitsiya
	Created  *time.Time `json:"created,omitempty"`

	FirmName       string          `json:"firm_name"`
	IndenterName   string          `json:"indenter_name"`
	Department     string          `json:"department"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	UOM            string          `json:"uom"`
	Specifications string          `json:"specifications"`

	// Stages[0] = planned_1/actual_1 ... Stages[5] = planned_6/actual_6
	Stages [IndentStageCount]StageDates `json:"stages"`

	ApprovalStatus string          `json:"approval_status"`
	ApprovedQty    decimal.Decimal `json:"approved_qty"`

	Quotes           []VendorQuote   `json:"quotes,omitempty"`
	SelectedVendorID string          `json:"selected_vendor_id,omitempty"` // vendor1|vendor2|vendor3
	FinalRate        decimal.Decimal `json:"final_rate"`

	PO PurchaseOrder `json:"po"`

	FollowUpStatus   string     `json:"follow_up_status,omitempty"`
	ExpectedDispatch *time.Time `json:"expected_dispatch,omitempty"`

	LiftedQty    decimal.Decimal `json:"lifted_qty"`
	LiftCount    int             `json:"lift_count"`
	RemainingQty decimal.Decimal `json:"remaining_qty"`
	HasRemaining bool            `json:"has_remaining"` // remaining_qty ustuni to'ldirilganmi
}

// VendorQuote taklif qilingan narx (3 tagacha)
type VendorQuote struct {
	ID           string          `json:"id"` // vendor1, vendor2, vendor3
	Name         string          `json:"name"`
	Rate         decimal.Decimal `json:"rate"`
	Terms        string          `json:"terms"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
	WarrantyType string          `json:"warranty_type"`
	Attachment   string          `json:"attachment"`
}

// PurchaseOrder PO bosqichida to'ldiriladigan maydonlar
type PurchaseOrder struct {
	Number       string          `json:"number"`
	BasicValue   decimal.Decimal `json:"basic_value"`
	TotalWithTax decimal.Decimal `json:"total_with_tax"`
	HSNCode      string          `json:"hsn_code"`
	GSTPercent   string          `json:"gst_percent"`
	CopyURL      string          `json:"copy_url"`
}

// SelectedQuote tanlangan vendor taklifini qaytaradi
func (r IndentRow) SelectedQuote() (VendorQuote, bool) {
	if r.SelectedVendorID == "" {
		return VendorQuote{}, false
	}
	for _, q := range r.Quotes {
		if q.ID == r.SelectedVendorID {
			return q, true
		}
	}
	return VendorQuote{}, false
}

// EffectiveApprovedQty tasdiqlangan miqdor, bo'lmasa talab qilingan miqdor
func (r IndentRow) EffectiveApprovedQty() decimal.Decimal {
	if r.ApprovedQty.IsPositive() {
		return r.ApprovedQty
	}
	return r.Quantity
}
