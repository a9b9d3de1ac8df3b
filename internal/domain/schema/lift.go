package schema

import "github.com/yourusername/po-workflow/internal/domain/constants"

// LIFT sheet ustunlari (Timestamp, IndentID, ProductName, PONumber INDENT bilan umumiy)
const (
	LiftNumber      Field = "lift_number"
	VendorName      Field = "vendor_name"
	LiftingQty      Field = "lifting_qty"
	TransporterName Field = "transporter_name"
	VehicleNumber   Field = "vehicle_number"
	DriverMobile    Field = "driver_mobile"
	FreightAmount   Field = "freight_amount"
	AdvanceAmount   Field = "advance_amount"
	DispatchDate    Field = "dispatch_date"
	BiltyNumber     Field = "bilty_number"
	BiltyCopy       Field = "bilty_copy"
	LiftRemarks     Field = "lift_remarks"

	PlannedReceipt Field = "planned_receipt"
	ActualReceipt  Field = "actual_receipt"
	DelayReceipt   Field = "delay_receipt"
	ReceivedQty    Field = "received_qty"
	InvoiceNumber  Field = "invoice_number"
	InvoiceCopy    Field = "invoice_copy"
	QCRequired     Field = "qc_required"
	ReceiptRemarks Field = "receipt_remarks"

	PlannedPayment Field = "planned_payment"
	ActualPayment  Field = "actual_payment"
	PaymentMode    Field = "payment_mode"
	FreightPaid    Field = "freight_paid"
	AdvancePaid    Field = "advance_paid"
	PaymentRemarks Field = "payment_remarks"
)

// LiftLayout LIFT v1
func LiftLayout() Layout {
	return Layout{
		Sheet:      constants.LiftSheet,
		Version:    1,
		HeaderRows: 1,
		Identity:   IndentID,
		Width:      30,
		Fields: map[Field]int{
			Timestamp:       0,
			LiftNumber:      1,
			IndentID:        2,
			VendorName:      3,
			PONumber:        4,
			ProductName:     5,
			LiftingQty:      6,
			TransporterName: 7,
			VehicleNumber:   8,
			DriverMobile:    9,
			FreightAmount:   10,
			AdvanceAmount:   11,
			DispatchDate:    12,
			BiltyNumber:     13,
			BiltyCopy:       14,
			LiftRemarks:     15,

			PlannedReceipt: 16,
			ActualReceipt:  17,
			DelayReceipt:   18,
			ReceivedQty:    19,
			InvoiceNumber:  20,
			InvoiceCopy:    21,
			QCRequired:     22,
			ReceiptRemarks: 23,

			PlannedPayment: 24,
			ActualPayment:  25,
			PaymentMode:    26,
			FreightPaid:    27,
			AdvancePaid:    28,
			PaymentRemarks: 29,
		},
	}
}
