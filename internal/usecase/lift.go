package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/yourusername/po-workflow/internal/domain/constants"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/schema"
	"github.com/yourusername/po-workflow/internal/workflow"
	"go.uber.org/zap"
)

func (u *workflowUseCase) liftStage() (workflow.StageDefinition, bool) {
	for _, st := range u.defs.Stages {
		if st.Kind == workflow.KindLift {
			return st, true
		}
	}
	return workflow.StageDefinition{}, false
}

// RecordLift bitta qisman dispatch ni yozadi: avval LIFT sheetga yangi qator,
// keyin ota INDENT qatoriga qoldiq snapshot. Ikkinchi yozuv birinchisiga bog'liq.
func (u *workflowUseCase) RecordLift(ctx context.Context, req entity.LiftRequest) (entity.BatchResult, error) {
	if err := validateRequest(req); err != nil {
		return entity.BatchResult{}, err
	}
	u.writeMu.Lock()
	defer u.writeMu.Unlock()
	st, ok := u.liftStage()
	if !ok {
		return entity.BatchResult{}, workflow.Invalid("no lift stage configured")
	}
	il, ok := u.layouts.Get(st.Sheet)
	if !ok {
		return entity.BatchResult{}, workflow.Invalid("no layout for sheet %s", st.Sheet)
	}
	ll, ok := u.layouts.Get(constants.LiftSheet)
	if !ok {
		return entity.BatchResult{}, workflow.Invalid("no layout for sheet %s", constants.LiftSheet)
	}

	indentID := strings.TrimSpace(req.IndentID)
	rows, _, err := u.fetch(ctx, il)
	if err != nil {
		return entity.BatchResult{}, err
	}
	row, ok := workflow.FindRow(rows, il, indentID)
	if !ok {
		return entity.BatchResult{}, workflow.Invalid("indent %s not found", indentID)
	}
	if status := workflow.Classify(row, il, st, u.defs.Upstream(st)); status == workflow.StatusNotReady {
		return entity.BatchResult{}, &workflow.IneligibleError{Key: indentID, Reason: "not released for " + st.ID}
	}
	indent := workflow.ToIndent(row, il, u.opts.Dates)

	// jami lift miqdori LIFT sheetdan yig'iladi
	liftRows, liftRaw, err := u.fetch(ctx, ll)
	if err != nil {
		return entity.BatchResult{}, err
	}
	lifts := make([]entity.LiftRecord, 0, len(liftRows))
	for _, lr := range liftRows {
		lifts = append(lifts, workflow.ToLift(lr, ll, u.opts.Dates))
	}
	ledger := workflow.LiftLedger(lifts)[indentID]
	approved := indent.EffectiveApprovedQty()
	remaining := workflow.Remaining(approved, ledger.Lifted)
	if err := workflow.CheckLiftEligible(indentID, remaining, req.Qty); err != nil {
		return entity.BatchResult{}, err
	}

	now := u.opts.Dates.Clock()
	dispatched := now
	if strings.TrimSpace(req.DispatchDate) != "" {
		t, ok := u.opts.Dates.TryParse(req.DispatchDate)
		if !ok {
			return entity.BatchResult{}, &workflow.FieldError{Field: schema.DispatchDate, Reason: "unrecognised date " + strconv.Quote(req.DispatchDate)}
		}
		dispatched = t
	}
	if req.Freight.IsNegative() {
		return entity.BatchResult{}, &workflow.FieldError{Field: schema.FreightAmount, Reason: "must not be negative"}
	}
	if req.Advance.IsNegative() {
		return entity.BatchResult{}, &workflow.FieldError{Field: schema.AdvanceAmount, Reason: "must not be negative"}
	}

	res := newBatch(st.ID, now)
	stamp := u.opts.Dates.Format(now)
	bilty := u.upload(ctx, &res, req.Bilty)

	vendor := ""
	if q, ok := indent.SelectedQuote(); ok {
		vendor = q.Name
	}
	liftNo := ledger.NextNumber()
	liftKey := workflow.CompositeKey(indentID, liftNo, liftRaw+1)
	insert := workflow.Patch{
		Sheet:    ll.Sheet,
		RowIndex: liftRaw + 1,
		Key:      liftKey,
		Values: map[schema.Field]string{
			schema.Timestamp:       stamp,
			schema.LiftNumber:      liftNo,
			schema.IndentID:        indentID,
			schema.VendorName:      vendor,
			schema.PONumber:        indent.PO.Number,
			schema.ProductName:     indent.ProductName,
			schema.LiftingQty:      workflow.FormatQty(req.Qty),
			schema.TransporterName: strings.TrimSpace(req.Transporter),
			schema.VehicleNumber:   strings.TrimSpace(req.VehicleNumber),
			schema.DriverMobile:    strings.TrimSpace(req.DriverMobile),
			schema.FreightAmount:   workflow.FormatMoney(req.Freight),
			schema.AdvanceAmount:   workflow.FormatMoney(req.Advance),
			schema.DispatchDate:    u.opts.Dates.Format(dispatched),
			schema.BiltyNumber:     strings.TrimSpace(req.BiltyNumber),
			schema.BiltyCopy:       bilty,
			schema.LiftRemarks:     strings.TrimSpace(req.Remarks),
			schema.PlannedReceipt:  stamp,
		},
	}

	u.log.Info("recording lift",
		zap.String("indent", indentID),
		zap.String("lift", liftNo),
		zap.String("qty", req.Qty.String()),
		zap.String("remaining_before", remaining.String()),
		zap.String("actor", req.Actor),
	)

	// 1) LIFT qatori
	ins := entity.RowOutcome{Key: liftKey, Sheet: ll.Sheet, RowIndex: insert.RowIndex, Action: entity.ActionInsert}
	if err := u.store.Insert(ctx, ll.Sheet, workflow.BuildSparseRow(ll, insert)); err != nil {
		ins.Err = &workflow.WriteError{Sheet: ll.Sheet, Key: liftKey, Err: err}
		u.log.Warn("lift insert failed", zap.String("key", liftKey), zap.Error(err))
	}
	res.Add(ins)
	if !ins.OK() {
		// ota qator yangilanmaydi: qoldiq faqat yozilgan lift dan keyin hisoblanadi
		u.finish(ctx, &res, req.Actor)
		return res, nil
	}

	// 2) ota INDENT qatori
	lifted := ledger.Lifted.Add(req.Qty)
	after := workflow.Remaining(approved, lifted)
	delay := 0
	if planned, ok := u.opts.Dates.TryParse(row.Value(il, st.Planned)); ok {
		delay = u.opts.Dates.DelayDays(planned, now)
	}
	values := map[schema.Field]string{
		st.Actual:                stamp,
		schema.LiftedQty:         workflow.FormatQty(lifted),
		schema.LiftCount:         strconv.Itoa(ledger.Count + 1),
		schema.LastLiftNumber:    liftNo,
		schema.LastTransporter:   strings.TrimSpace(req.Transporter),
		schema.LastVehicleNumber: strings.TrimSpace(req.VehicleNumber),
	}
	if st.Delay != "" {
		values[st.Delay] = strconv.Itoa(delay)
	}
	if st.Remaining != "" {
		values[st.Remaining] = workflow.FormatQty(after)
	}
	parent := workflow.Patch{Sheet: il.Sheet, RowIndex: row.Index, Key: indentID, Values: values}
	if err := parent.Validate(il, st.Writable()); err != nil {
		res.Add(entity.RowOutcome{Key: indentID, Sheet: il.Sheet, RowIndex: row.Index, Action: entity.ActionUpdate,
			Err: &workflow.WriteError{Sheet: il.Sheet, RowIndex: row.Index, Key: indentID, Err: err}})
	} else {
		res.Add(u.applyPatch(ctx, il, parent))
	}
	if after.IsZero() {
		u.log.Info("indent fully lifted", zap.String("indent", indentID))
	}
	u.finish(ctx, &res, req.Actor)
	return res, nil
}
