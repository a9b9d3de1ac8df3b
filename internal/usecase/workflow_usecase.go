package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yourusername/po-workflow/internal/domain/constants"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/repository"
	"github.com/yourusername/po-workflow/internal/domain/schema"
	"github.com/yourusername/po-workflow/internal/workflow"
	"go.uber.org/zap"
)

// WorkflowUseCase purchase-order pipeline bilan bog'liq business logic
type WorkflowUseCase interface {
	Stages() []workflow.StageDefinition
	ListStage(ctx context.Context, stageID string) (StageView, error)
	IndentStatus(ctx context.Context, indentID string) (IndentReport, error)
	SubmitStage(ctx context.Context, sub entity.StageSubmission) (entity.BatchResult, error)
	RecordLift(ctx context.Context, req entity.LiftRequest) (entity.BatchResult, error)
	PendingCounts(ctx context.Context) (map[string]int, error)
	RecentJournal(ctx context.Context, limit int) ([]entity.JournalEntry, error)
}

// Notifier batch natijasini yetkazadi (masalan Telegram guruhiga)
type Notifier interface {
	NotifyBatch(ctx context.Context, result entity.BatchResult)
}

// Options use case sozlamalari
type Options struct {
	PatchMode         workflow.PatchMode
	NormalizeGrouping bool
	Dates             workflow.DateParser
	DriveFolderID     string
	Logger            *zap.Logger
	Notifier          Notifier
	Journal           repository.JournalRepository
}

type workflowUseCase struct {
	store   repository.SheetRepository
	defs    workflow.Definitions
	layouts schema.Registry
	opts    Options
	log     *zap.Logger

	// SubmitStage va RecordLift o'qish-tekshirish-yozish qismi bitta mutex ostida
	writeMu sync.Mutex
}

// NewWorkflowUseCase yangi WorkflowUseCase yaratish
func NewWorkflowUseCase(
	store repository.SheetRepository,
	defs workflow.Definitions,
	layouts schema.Registry,
	opts Options,
) WorkflowUseCase {
	if opts.PatchMode == "" {
		opts.PatchMode = workflow.PatchMerge
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &workflowUseCase{
		store:   store,
		defs:    defs,
		layouts: layouts,
		opts:    opts,
		log:     log.Named("workflow"),
	}
}

func (u *workflowUseCase) Stages() []workflow.StageDefinition {
	out := make([]workflow.StageDefinition, len(u.defs.Stages))
	copy(out, u.defs.Stages)
	return out
}

func (u *workflowUseCase) stage(id string) (workflow.StageDefinition, schema.Layout, error) {
	st, ok := u.defs.Get(id)
	if !ok {
		return workflow.StageDefinition{}, schema.Layout{}, workflow.Invalid("unknown stage %q", id)
	}
	l, ok := u.layouts.Get(st.Sheet)
	if !ok {
		return workflow.StageDefinition{}, schema.Layout{}, fmt.Errorf("no layout for sheet %s", st.Sheet)
	}
	return st, l, nil
}

// fetch sheetni o'qib normalizatsiya qiladi
func (u *workflowUseCase) fetch(ctx context.Context, l schema.Layout) ([]schema.Row, int, error) {
	raw, err := u.store.GetAll(ctx, l.Sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", l.Sheet, err)
	}
	return workflow.Normalize(raw, l), len(raw), nil
}

// ListStage qatorlarni pending/completed ga ajratadi
func (u *workflowUseCase) ListStage(ctx context.Context, stageID string) (StageView, error) {
	st, l, err := u.stage(stageID)
	if err != nil {
		return StageView{}, err
	}
	rows, _, err := u.fetch(ctx, l)
	if err != nil {
		return StageView{}, err
	}
	up := u.defs.Upstream(st)
	pending, completed := workflow.Partition(rows, l, st, up)
	view := StageView{Stage: st}
	for _, r := range pending {
		view.Pending = append(view.Pending, u.item(r, l, st, workflow.StatusPending))
	}
	for _, r := range completed {
		view.Completed = append(view.Completed, u.item(r, l, st, workflow.StatusCompleted))
	}
	return view, nil
}

func (u *workflowUseCase) item(r schema.Row, l schema.Layout, st workflow.StageDefinition, status workflow.Status) StageItem {
	key := workflow.GroupingKeyOf(r, l)
	it := StageItem{
		Key:      workflow.RowKey(r, l),
		RowIndex: r.Index,
		IndentID: strings.TrimSpace(workflow.CellString(r.Value(l, schema.IndentID))),
		Product:  strings.TrimSpace(workflow.CellString(r.Value(l, schema.ProductName))),
		Vendor:   strings.TrimSpace(key.Vendor),
		PONumber: strings.TrimSpace(key.PONumber),
		Status:   status,
	}
	if l.Has(schema.LiftNumber) {
		it.LiftNumber = strings.TrimSpace(workflow.CellString(r.Value(l, schema.LiftNumber)))
		it.Qty = workflow.DecimalOrZero(r.Value(l, schema.LiftingQty))
	} else {
		in := workflow.ToIndent(r, l, u.opts.Dates)
		it.Qty = in.EffectiveApprovedQty()
		it.Remaining = in.RemainingQty
	}
	if st.Remaining != "" {
		if rem, ok := workflow.CellDecimal(r.Value(l, st.Remaining)); ok {
			it.Remaining = rem
		}
	}
	if t, ok := u.opts.Dates.TryParse(r.Value(l, st.Planned)); ok {
		it.Planned = &t
	}
	if t, ok := u.opts.Dates.TryParse(r.Value(l, st.Actual)); ok {
		it.Actual = &t
	}
	return it
}

// IndentStatus indentning har bir bosqichdagi holati, lift lar va qoldiq
func (u *workflowUseCase) IndentStatus(ctx context.Context, indentID string) (IndentReport, error) {
	indentID = strings.TrimSpace(indentID)
	if indentID == "" {
		return IndentReport{}, workflow.Invalid("indent id is required")
	}
	il, ok := u.layouts.Get(constants.IndentSheet)
	if !ok {
		return IndentReport{}, fmt.Errorf("no layout for sheet %s", constants.IndentSheet)
	}
	rows, _, err := u.fetch(ctx, il)
	if err != nil {
		return IndentReport{}, err
	}
	row, ok := workflow.FindRow(rows, il, indentID)
	if !ok {
		return IndentReport{}, workflow.Invalid("indent %s not found", indentID)
	}
	report := IndentReport{Indent: workflow.ToIndent(row, il, u.opts.Dates)}
	for _, st := range u.defs.Stages {
		if st.Sheet != il.Sheet {
			continue
		}
		report.Stages = append(report.Stages, StageState{
			StageID: st.ID,
			Name:    st.Name,
			Status:  workflow.Classify(row, il, st, u.defs.Upstream(st)),
		})
	}

	ll, ok := u.layouts.Get(constants.LiftSheet)
	if ok {
		liftRows, _, err := u.fetch(ctx, ll)
		if err != nil {
			return IndentReport{}, err
		}
		var lifts []entity.LiftRecord
		for _, lr := range liftRows {
			rec := workflow.ToLift(lr, ll, u.opts.Dates)
			if rec.IndentID != indentID {
				continue
			}
			lifts = append(lifts, rec)
			state := LiftState{Lift: rec}
			for _, st := range u.defs.Stages {
				if st.Sheet != ll.Sheet {
					continue
				}
				state.Stages = append(state.Stages, StageState{
					StageID: st.ID,
					Name:    st.Name,
					Status:  workflow.Classify(lr, ll, st, u.defs.Upstream(st)),
				})
			}
			report.Lifts = append(report.Lifts, state)
		}
		report.Lifted = workflow.LiftLedger(lifts)[indentID].Lifted
	}
	report.Remaining = workflow.Remaining(report.Indent.EffectiveApprovedQty(), report.Lifted)
	return report, nil
}

// PendingCounts har bir bosqichdagi pending qatorlar soni (har sheet bir marta o'qiladi)
func (u *workflowUseCase) PendingCounts(ctx context.Context) (map[string]int, error) {
	cache := make(map[string][]schema.Row)
	counts := make(map[string]int, len(u.defs.Stages))
	for _, st := range u.defs.Stages {
		l, ok := u.layouts.Get(st.Sheet)
		if !ok {
			continue
		}
		rows, seen := cache[st.Sheet]
		if !seen {
			var err error
			rows, _, err = u.fetch(ctx, l)
			if err != nil {
				return nil, err
			}
			cache[st.Sheet] = rows
		}
		pending, _ := workflow.Partition(rows, l, st, u.defs.Upstream(st))
		counts[st.ID] = len(pending)
	}
	return counts, nil
}

// RecentJournal oxirgi yozuvlar
func (u *workflowUseCase) RecentJournal(ctx context.Context, limit int) ([]entity.JournalEntry, error) {
	if u.opts.Journal == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = constants.DefaultJournalLimit
	}
	return u.opts.Journal.ListRecent(ctx, limit)
}
