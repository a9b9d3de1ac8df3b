package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/po-workflow/internal/domain/constants"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/schema"
	"github.com/yourusername/po-workflow/internal/workflow"
	"go.uber.org/zap"
)

// SubmitStage tanlangan qatorlar uchun bosqichni yakunlaydi.
// Validatsiya xatolari hech qanday yozuvdan oldin qaytadi; qator yozish
// xatolari natijada "N of M" sifatida ko'rsatiladi.
func (u *workflowUseCase) SubmitStage(ctx context.Context, sub entity.StageSubmission) (entity.BatchResult, error) {
	if err := validateRequest(sub); err != nil {
		return entity.BatchResult{}, err
	}
	u.writeMu.Lock()
	defer u.writeMu.Unlock()
	st, l, err := u.stage(sub.StageID)
	if err != nil {
		return entity.BatchResult{}, err
	}
	if st.Kind == workflow.KindLift {
		return entity.BatchResult{}, workflow.Invalid("stage %s records lifts, use RecordLift", st.ID)
	}
	if sub.Attachment != nil && st.Attachment == "" {
		return entity.BatchResult{}, workflow.Invalid("stage %s does not take an attachment", st.ID)
	}
	if len(sub.Keys) > constants.MaxListItems {
		return entity.BatchResult{}, workflow.Invalid("too many rows selected (%d > %d)", len(sub.Keys), constants.MaxListItems)
	}

	rows, _, err := u.fetch(ctx, l)
	if err != nil {
		return entity.BatchResult{}, err
	}
	up := u.defs.Upstream(st)

	// tanlov: har bir kalit mavjud va pending bo'lishi kerak
	selected := make([]schema.Row, 0, len(sub.Keys))
	seen := make(map[string]bool, len(sub.Keys))
	for _, key := range sub.Keys {
		key = strings.TrimSpace(key)
		if seen[key] {
			return entity.BatchResult{}, workflow.Invalid("row %s selected twice", key)
		}
		seen[key] = true
		row, ok := workflow.FindRow(rows, l, key)
		if !ok {
			return entity.BatchResult{}, workflow.Invalid("unknown row %s in %s", key, l.Sheet)
		}
		if status := workflow.Classify(row, l, st, up); status != workflow.StatusPending {
			return entity.BatchResult{}, &workflow.IneligibleError{Key: key, Reason: "stage " + st.ID + " is " + string(status)}
		}
		selected = append(selected, row)
	}
	for key := range sub.PerRow {
		if !seen[strings.TrimSpace(key)] {
			return entity.BatchResult{}, workflow.Invalid("per-row values for unselected row %s", key)
		}
	}

	shared, err := ownedValues(st, sub.Values)
	if err != nil {
		return entity.BatchResult{}, err
	}
	perRow := make(map[string]map[schema.Field]string, len(sub.PerRow))
	for key, vals := range sub.PerRow {
		v, err := ownedValues(st, vals)
		if err != nil {
			return entity.BatchResult{}, err
		}
		perRow[strings.TrimSpace(key)] = v
	}
	for _, row := range selected {
		if err := validateValues(st, mergeValues(shared, perRow[workflow.RowKey(row, l)])); err != nil {
			return entity.BatchResult{}, err
		}
	}

	if st.Grouping {
		keys := make([]workflow.GroupingKey, len(selected))
		for i, row := range selected {
			keys[i] = workflow.GroupingKeyOf(row, l)
		}
		if err := workflow.Reconcile(keys, u.opts.NormalizeGrouping); err != nil {
			return entity.BatchResult{}, err
		}
	}

	var shares map[string]string
	if st.Split != nil {
		if total, ok := workflow.CellDecimal(shared[st.Split.Field]); ok {
			weights := make([]decimal.Decimal, len(selected))
			for i, row := range selected {
				weights[i] = workflow.DecimalOrZero(row.Value(l, st.Split.Weight))
			}
			parts := workflow.SplitShared(total, weights, constants.MoneyPlaces)
			shares = make(map[string]string, len(selected))
			for i, row := range selected {
				shares[workflow.RowKey(row, l)] = workflow.FormatMoney(parts[i])
			}
		}
	}

	now := u.opts.Dates.Clock()
	res := newBatch(st.ID, now)
	stamp := u.opts.Dates.Format(now)

	// bitta upload, URL barcha qatorlarda qayta ishlatiladi
	link := u.upload(ctx, &res, sub.Attachment)

	patches := make([]workflow.Patch, 0, len(selected))
	for _, row := range selected {
		key := workflow.RowKey(row, l)
		values := make(map[schema.Field]string, len(shared)+4)
		for f, v := range shared {
			values[f] = v
		}
		if share, ok := shares[key]; ok {
			values[st.Split.Field] = share
		}
		for f, v := range perRow[key] {
			values[f] = v
		}
		if sub.Attachment != nil {
			values[st.Attachment] = link
		}
		values[st.Actual] = stamp
		if st.Delay != "" {
			delay := 0
			if planned, ok := u.opts.Dates.TryParse(row.Value(l, st.Planned)); ok {
				delay = u.opts.Dates.DelayDays(planned, now)
			}
			values[st.Delay] = strconv.Itoa(delay)
		}
		if st.Release != "" {
			values[st.Release] = stamp
		}
		p := workflow.Patch{Sheet: l.Sheet, RowIndex: row.Index, Key: key, Values: values}
		if err := p.Validate(l, st.Writable()); err != nil {
			return entity.BatchResult{}, err
		}
		patches = append(patches, p)
	}

	u.log.Info("submitting stage",
		zap.String("stage", st.ID),
		zap.Int("rows", len(patches)),
		zap.String("mode", string(u.opts.PatchMode)),
		zap.String("actor", sub.Actor),
	)
	// ketma-ket: bir xil store ga parallel yozuv yo'q
	for _, p := range patches {
		res.Add(u.applyPatch(ctx, l, p))
	}
	u.finish(ctx, &res, sub.Actor)
	return res, nil
}

// ownedValues forma qiymatlarini bosqichga tegishli maydonlarga aylantiradi
func ownedValues(st workflow.StageDefinition, in map[string]string) (map[schema.Field]string, error) {
	out := make(map[schema.Field]string, len(in))
	for name, v := range in {
		f := schema.Field(strings.ToLower(strings.TrimSpace(name)))
		if !st.OwnsField(f) {
			return nil, &workflow.FieldError{Field: f, Reason: "not owned by stage " + st.ID}
		}
		out[f] = strings.TrimSpace(v)
	}
	return out, nil
}

func mergeValues(base, over map[schema.Field]string) map[schema.Field]string {
	out := make(map[schema.Field]string, len(base)+len(over))
	for f, v := range base {
		out[f] = v
	}
	for f, v := range over {
		out[f] = v
	}
	return out
}
