package entity

import "github.com/shopspring/decimal"

// Attachment yuklanadigan fayl
type Attachment struct {
	FileName string `json:"file_name" validate:"required"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-" validate:"required"`
	FolderID string `json:"folder_id,omitempty"`
}

// StageSubmission bitta bosqich uchun (bir yoki bir necha qatorga) forma.
// Values barcha tanlangan qatorlarga, PerRow faqat bitta qatorga qo'llanadi.
type StageSubmission struct {
	StageID    string                       `json:"stage_id" validate:"required"`
	Keys       []string                     `json:"keys" validate:"required,min=1,dive,required"`
	Values     map[string]string            `json:"values"`
	PerRow     map[string]map[string]string `json:"per_row,omitempty"`
	Attachment *Attachment                  `json:"-"`
	Actor      string                       `json:"actor"`
}

// LiftRequest bitta qisman dispatch
type LiftRequest struct {
	IndentID      string          `json:"indent_id" validate:"required"`
	Qty           decimal.Decimal `json:"qty"`
	Transporter   string          `json:"transporter"`
	VehicleNumber string          `json:"vehicle_number"`
	DriverMobile  string          `json:"driver_mobile"`
	Freight       decimal.Decimal `json:"freight"`
	Advance       decimal.Decimal `json:"advance"`
	DispatchDate  string          `json:"dispatch_date"` // bo'sh bo'lsa hozirgi vaqt
	BiltyNumber   string          `json:"bilty_number"`
	Bilty         *Attachment     `json:"-"`
	Remarks       string          `json:"remarks"`
	Actor         string          `json:"actor"`
}
