package workflow

import (
	"strings"
	"time"

	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/schema"
)

// Normalize header qatorlarini va identifikatori bo'sh qatorlarni tashlab
// yuboradi. Row.Index = massivdagi pozitsiya + 1 (store dagi qator raqami).
func Normalize(raw [][]any, l schema.Layout) []schema.Row {
	if len(raw) <= l.HeaderRows {
		return nil
	}
	rows := make([]schema.Row, 0, len(raw)-l.HeaderRows)
	for i := l.HeaderRows; i < len(raw); i++ {
		r := schema.Row{Index: i + 1, Cells: raw[i]}
		if strings.TrimSpace(CellString(r.Value(l, l.Identity))) == "" {
			continue
		}
		rows = append(rows, r)
	}
	return rows
}

// FindRow composite key bo'yicha qatorni topadi
func FindRow(rows []schema.Row, l schema.Layout, key string) (schema.Row, bool) {
	for _, r := range rows {
		if RowKey(r, l) == key {
			return r, true
		}
	}
	return schema.Row{}, false
}

var indentStageFields = [entity.IndentStageCount][2]schema.Field{
	{schema.Planned1, schema.Actual1},
	{schema.Planned2, schema.Actual2},
	{schema.Planned3, schema.Actual3},
	{schema.Planned4, schema.Actual4},
	{schema.Planned5, schema.Actual5},
	{schema.Planned6, schema.Actual6},
}

func str(r schema.Row, l schema.Layout, f schema.Field) string {
	return strings.TrimSpace(CellString(r.Value(l, f)))
}

func datePtr(p DateParser, v any) *time.Time {
	t, ok := p.TryParse(v)
	if !ok {
		return nil
	}
	return &t
}

// ToIndent INDENT qatorini typed struct ga o'giradi
func ToIndent(r schema.Row, l schema.Layout, p DateParser) entity.IndentRow {
	out := entity.IndentRow{
		IndentID:       str(r, l, schema.IndentID),
		RowIndex:       r.Index,
		Created:        datePtr(p, r.Value(l, schema.Timestamp)),
		FirmName:       str(r, l, schema.FirmName),
		IndenterName:   str(r, l, schema.IndenterName),
		Department:     str(r, l, schema.Department),
		ProductName:    str(r, l, schema.ProductName),
		Quantity:       DecimalOrZero(r.Value(l, schema.Quantity)),
		UOM:            str(r, l, schema.UOM),
		Specifications: str(r, l, schema.Specifications),

		ApprovalStatus: str(r, l, schema.ApprovalStatus),
		ApprovedQty:    DecimalOrZero(r.Value(l, schema.ApprovedQty)),

		SelectedVendorID: strings.ToLower(str(r, l, schema.SelectedVendor)),
		FinalRate:        DecimalOrZero(r.Value(l, schema.FinalRate)),

		PO: entity.PurchaseOrder{
			Number:       str(r, l, schema.PONumber),
			BasicValue:   DecimalOrZero(r.Value(l, schema.BasicValue)),
			TotalWithTax: DecimalOrZero(r.Value(l, schema.TotalWithTax)),
			HSNCode:      str(r, l, schema.HSNCode),
			GSTPercent:   str(r, l, schema.GSTPercent),
			CopyURL:      str(r, l, schema.POCopy),
		},

		FollowUpStatus:   str(r, l, schema.FollowUpStatus),
		ExpectedDispatch: datePtr(p, r.Value(l, schema.ExpectedDispatchDate)),

		LiftedQty: DecimalOrZero(r.Value(l, schema.LiftedQty)),
	}
	for i, pair := range indentStageFields {
		out.Stages[i] = entity.StageDates{
			Planned: datePtr(p, r.Value(l, pair[0])),
			Actual:  datePtr(p, r.Value(l, pair[1])),
		}
	}
	if n, ok := CellDecimal(r.Value(l, schema.LiftCount)); ok {
		out.LiftCount = int(n.IntPart())
	}
	if rem, ok := CellDecimal(r.Value(l, schema.RemainingQty)); ok {
		out.RemainingQty = rem
		out.HasRemaining = true
	} else {
		out.RemainingQty = Remaining(out.EffectiveApprovedQty(), out.LiftedQty)
	}
	for n := 1; n <= schema.MaxVendors; n++ {
		name := str(r, l, schema.VendorField(n, schema.QuoteName))
		if name == "" {
			continue
		}
		out.Quotes = append(out.Quotes, entity.VendorQuote{
			ID:           VendorID(n),
			Name:         name,
			Rate:         DecimalOrZero(r.Value(l, schema.VendorField(n, schema.QuoteRate))),
			Terms:        str(r, l, schema.VendorField(n, schema.QuoteTerms)),
			DeliveryDate: datePtr(p, r.Value(l, schema.VendorField(n, schema.QuoteDeliveryDate))),
			WarrantyType: str(r, l, schema.VendorField(n, schema.QuoteWarrantyType)),
			Attachment:   str(r, l, schema.VendorField(n, schema.QuoteAttachment)),
		})
	}
	return out
}

// ToLift LIFT qatorini typed struct ga o'giradi
func ToLift(r schema.Row, l schema.Layout, p DateParser) entity.LiftRecord {
	indentID := str(r, l, schema.IndentID)
	liftNo := str(r, l, schema.LiftNumber)
	return entity.LiftRecord{
		Key:           CompositeKey(indentID, liftNo, r.Index),
		IndentID:      indentID,
		LiftNumber:    liftNo,
		RowIndex:      r.Index,
		Created:       datePtr(p, r.Value(l, schema.Timestamp)),
		VendorName:    str(r, l, schema.VendorName),
		PONumber:      str(r, l, schema.PONumber),
		ProductName:   str(r, l, schema.ProductName),
		LiftingQty:    DecimalOrZero(r.Value(l, schema.LiftingQty)),
		Transporter:   str(r, l, schema.TransporterName),
		VehicleNumber: str(r, l, schema.VehicleNumber),
		DriverMobile:  str(r, l, schema.DriverMobile),
		Freight:       DecimalOrZero(r.Value(l, schema.FreightAmount)),
		Advance:       DecimalOrZero(r.Value(l, schema.AdvanceAmount)),
		DispatchDate:  datePtr(p, r.Value(l, schema.DispatchDate)),
		BiltyNumber:   str(r, l, schema.BiltyNumber),
		BiltyCopy:     str(r, l, schema.BiltyCopy),
		Receipt: entity.Receipt{
			StageDates: entity.StageDates{
				Planned: datePtr(p, r.Value(l, schema.PlannedReceipt)),
				Actual:  datePtr(p, r.Value(l, schema.ActualReceipt)),
			},
			ReceivedQty:   DecimalOrZero(r.Value(l, schema.ReceivedQty)),
			InvoiceNumber: str(r, l, schema.InvoiceNumber),
			InvoiceCopy:   str(r, l, schema.InvoiceCopy),
			QCRequired:    CellBool(r.Value(l, schema.QCRequired)),
		},
		Payment: entity.Payment{
			StageDates: entity.StageDates{
				Planned: datePtr(p, r.Value(l, schema.PlannedPayment)),
				Actual:  datePtr(p, r.Value(l, schema.ActualPayment)),
			},
			Mode:        str(r, l, schema.PaymentMode),
			FreightPaid: DecimalOrZero(r.Value(l, schema.FreightPaid)),
			AdvancePaid: DecimalOrZero(r.Value(l, schema.AdvancePaid)),
		},
	}
}
