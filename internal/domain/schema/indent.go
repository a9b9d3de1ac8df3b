package schema

import (
	"fmt"

	"github.com/yourusername/po-workflow/internal/domain/constants"
)

// INDENT sheet ustunlari
const (
	Timestamp        Field = "timestamp"
	IndentID         Field = "indent_id"
	FirmName         Field = "firm_name"
	IndenterName     Field = "indenter_name"
	Department       Field = "department"
	ProductName      Field = "product_name"
	Quantity         Field = "quantity"
	UOM              Field = "uom"
	Specifications   Field = "specifications"
	IndentRemarks    Field = "indent_remarks"
	IndentAttachment Field = "indent_attachment"

	Planned1        Field = "planned_1"
	Actual1         Field = "actual_1"
	Delay1          Field = "delay_1"
	ApprovalStatus  Field = "approval_status"
	ApprovedQty     Field = "approved_qty"
	ApprovalRemarks Field = "approval_remarks"

	Planned2 Field = "planned_2"
	Actual2  Field = "actual_2"
	Delay2   Field = "delay_2"

	Planned3           Field = "planned_3"
	Actual3            Field = "actual_3"
	Delay3             Field = "delay_3"
	SelectedVendor     Field = "selected_vendor"
	FinalRate          Field = "final_rate"
	NegotiationRemarks Field = "negotiation_remarks"

	Planned4     Field = "planned_4"
	Actual4      Field = "actual_4"
	Delay4       Field = "delay_4"
	PONumber     Field = "po_number"
	BasicValue   Field = "basic_value"
	TotalWithTax Field = "total_with_tax"
	HSNCode      Field = "hsn_code"
	GSTPercent   Field = "gst_percent"
	POCopy       Field = "po_copy"

	Planned5             Field = "planned_5"
	Actual5              Field = "actual_5"
	Delay5               Field = "delay_5"
	FollowUpStatus       Field = "follow_up_status"
	ExpectedDispatchDate Field = "expected_dispatch_date"
	FollowUpRemarks      Field = "follow_up_remarks"

	Planned6          Field = "planned_6"
	Actual6           Field = "actual_6"
	Delay6            Field = "delay_6"
	LiftedQty         Field = "lifted_qty"
	LiftCount         Field = "lift_count"
	LastLiftNumber    Field = "last_lift_number"
	LastTransporter   Field = "last_transporter"
	LastVehicleNumber Field = "last_vehicle_number"
	RemainingQty      Field = "remaining_qty"
)

// Vendor taklifi qismlari, har bir blokda shu tartibda
const (
	QuoteName         = "name"
	QuoteRate         = "rate"
	QuoteTerms        = "terms"
	QuoteDeliveryDate = "delivery_date"
	QuoteWarrantyType = "warranty_type"
	QuoteAttachment   = "attachment"
)

var QuoteParts = []string{QuoteName, QuoteRate, QuoteTerms, QuoteDeliveryDate, QuoteWarrantyType, QuoteAttachment}

// MaxVendors INDENT dagi taklif bloklari soni
const MaxVendors = 3

// VendorField n-vendor (1 dan) taklif ustuni nomi
func VendorField(n int, part string) Field {
	return Field(fmt.Sprintf("vendor_%d_%s", n, part))
}

const (
	indentHeaderRows = 6
	indentWidth      = 69
	firstQuoteOffset = 20
)

// IndentLayout INDENT v1
func IndentLayout() Layout {
	fields := map[Field]int{
		Timestamp:        0,
		IndentID:         1,
		FirmName:         2,
		IndenterName:     3,
		Department:       4,
		ProductName:      5,
		Quantity:         6,
		UOM:              7,
		Specifications:   8,
		IndentRemarks:    9,
		IndentAttachment: 10,

		Planned1:        11,
		Actual1:         12,
		Delay1:          13,
		ApprovalStatus:  14,
		ApprovedQty:     15,
		ApprovalRemarks: 16,

		Planned2: 17,
		Actual2:  18,
		Delay2:   19,

		Planned3:           38,
		Actual3:            39,
		Delay3:             40,
		SelectedVendor:     41,
		FinalRate:          42,
		NegotiationRemarks: 43,

		Planned4:     44,
		Actual4:      45,
		Delay4:       46,
		PONumber:     47,
		BasicValue:   48,
		TotalWithTax: 49,
		HSNCode:      50,
		GSTPercent:   51,
		POCopy:       52,

		Planned5:             53,
		Actual5:              54,
		Delay5:               55,
		FollowUpStatus:       56,
		ExpectedDispatchDate: 57,
		FollowUpRemarks:      58,

		Planned6:          60,
		Actual6:           61,
		Delay6:            62,
		LiftedQty:         63,
		LiftCount:         64,
		LastLiftNumber:    65,
		LastTransporter:   66,
		LastVehicleNumber: 67,
		RemainingQty:      68,
	}
	for n := 1; n <= MaxVendors; n++ {
		base := firstQuoteOffset + (n-1)*len(QuoteParts)
		for i, part := range QuoteParts {
			fields[VendorField(n, part)] = base + i
		}
	}
	return Layout{
		Sheet:      constants.IndentSheet,
		Version:    1,
		HeaderRows: indentHeaderRows,
		Identity:   IndentID,
		Width:      indentWidth,
		Fields:     fields,
	}
}
