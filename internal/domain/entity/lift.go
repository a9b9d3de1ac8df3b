package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LiftRecord bitta dispatch (lift) hodisasi. Bitta indent bir necha marta
// lift qilinishi mumkin, shuning uchun identifikator indent + lift raqami.
type LiftRecord struct {
	Key        string     `json:"key"`
	IndentID   string     `json:"indent_id"`
	LiftNumber string     `json:"lift_number"`
	RowIndex   int        `json:"row_index"`
	Created    *time.Time `json:"created,omitempty"`

	VendorName    string          `json:"vendor_name"`
	PONumber      string          `json:"po_number"`
	ProductName   string          `json:"product_name"`
	LiftingQty    decimal.Decimal `json:"lifting_qty"`
	Transporter   string          `json:"transporter"`
	VehicleNumber string          `json:"vehicle_number"`
	DriverMobile  string          `json:"driver_mobile"`
	Freight       decimal.Decimal `json:"freight"`
	Advance       decimal.Decimal `json:"advance"`
	DispatchDate  *time.Time      `json:"dispatch_date,omitempty"`
	BiltyNumber   string          `json:"bilty_number"`
	BiltyCopy     string          `json:"bilty_copy"`

	Receipt Receipt `json:"receipt"`
	Payment Payment `json:"payment"`
}

// Receipt qabul qilish maydonlari
type Receipt struct {
	StageDates
	ReceivedQty   decimal.Decimal `json:"received_qty"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceCopy   string          `json:"invoice_copy"`
	QCRequired    bool            `json:"qc_required"`
}

// Payment to'lov bo'linmalari
type Payment struct {
	StageDates
	Mode        string          `json:"mode"`
	FreightPaid decimal.Decimal `json:"freight_paid"`
	AdvancePaid decimal.Decimal `json:"advance_paid"`
}
