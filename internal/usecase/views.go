package usecase

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/workflow"
)

// StageItem ro'yxatdagi bitta qator
type StageItem struct {
	Key        string          `json:"key"`
	RowIndex   int             `json:"row_index"`
	IndentID   string          `json:"indent_id"`
	LiftNumber string          `json:"lift_number,omitempty"`
	Product    string          `json:"product"`
	Vendor     string          `json:"vendor"`
	PONumber   string          `json:"po_number"`
	Qty        decimal.Decimal `json:"qty"`
	Remaining  decimal.Decimal `json:"remaining"`
	Planned    *time.Time      `json:"planned,omitempty"`
	Actual     *time.Time      `json:"actual,omitempty"`
	Status     workflow.Status `json:"status"`
}

// StageView bosqich bo'yicha pending/completed ro'yxatlar
type StageView struct {
	Stage     workflow.StageDefinition `json:"stage"`
	Pending   []StageItem              `json:"pending"`
	Completed []StageItem              `json:"completed"`
}

// StageState bitta bosqich holati
type StageState struct {
	StageID string          `json:"stage_id"`
	Name    string          `json:"name"`
	Status  workflow.Status `json:"status"`
}

// LiftState lift va uning LIFT sheetdagi bosqichlari
type LiftState struct {
	Lift   entity.LiftRecord `json:"lift"`
	Stages []StageState      `json:"stages"`
}

// IndentReport indent tarixi: ustunlardan qayta tiklanadi
type IndentReport struct {
	Indent    entity.IndentRow `json:"indent"`
	Stages    []StageState     `json:"stages"`
	Lifts     []LiftState      `json:"lifts"`
	Lifted    decimal.Decimal  `json:"lifted"`
	Remaining decimal.Decimal  `json:"remaining"`
}

// Current birinchi yakunlanmagan bosqich (hammasi tugagan bo'lsa "")
func (r IndentReport) Current() string {
	for _, s := range r.Stages {
		if s.Status != workflow.StatusCompleted {
			return s.StageID
		}
	}
	return ""
}
