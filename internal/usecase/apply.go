package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/schema"
	"github.com/yourusername/po-workflow/internal/workflow"
	"go.uber.org/zap"
)

func newBatch(stageID string, now time.Time) entity.BatchResult {
	return entity.BatchResult{
		BatchID:   uuid.NewString(),
		StageID:   stageID,
		StartedAt: now,
	}
}

// applyPatch bitta qatorni yozadi. Merge rejimida yozishdan oldin sheet qayta
// o'qiladi va patch eng so'nggi qator ustiga qo'yiladi.
func (u *workflowUseCase) applyPatch(ctx context.Context, l schema.Layout, p workflow.Patch) entity.RowOutcome {
	out := entity.RowOutcome{Key: p.Key, Sheet: p.Sheet, RowIndex: p.RowIndex, Action: entity.ActionUpdate}
	fail := func(err error) entity.RowOutcome {
		out.Err = &workflow.WriteError{Sheet: p.Sheet, RowIndex: out.RowIndex, Key: p.Key, Err: err}
		u.log.Warn("row write failed", zap.String("sheet", p.Sheet), zap.Int("row", out.RowIndex), zap.String("key", p.Key), zap.Error(err))
		return out
	}

	var current []any
	if u.opts.PatchMode == workflow.PatchMerge {
		rows, _, err := u.fetch(ctx, l)
		if err != nil {
			return fail(err)
		}
		latest, ok := workflow.FindRow(rows, l, p.Key)
		if !ok {
			return fail(fmt.Errorf("row %s no longer present", p.Key))
		}
		if latest.Index != p.RowIndex {
			u.log.Info("row moved since fetch", zap.String("key", p.Key), zap.Int("from", p.RowIndex), zap.Int("to", latest.Index))
			p.RowIndex = latest.Index
			out.RowIndex = latest.Index
		}
		current = latest.Cells
	}

	row := u.opts.PatchMode.Build(l, current, p)
	if err := u.store.Update(ctx, p.Sheet, p.RowIndex, row); err != nil {
		return fail(err)
	}
	u.log.Debug("row written", zap.String("sheet", p.Sheet), zap.Int("row", p.RowIndex), zap.String("key", p.Key))
	return out
}

// upload biriktirmani bir marta yuklaydi; xato bo'lsa ogohlantirish va bo'sh URL
func (u *workflowUseCase) upload(ctx context.Context, res *entity.BatchResult, file *entity.Attachment) string {
	if file == nil {
		return ""
	}
	f := *file
	if f.FolderID == "" {
		f.FolderID = u.opts.DriveFolderID
	}
	link, err := u.store.UploadFile(ctx, f)
	if err != nil {
		res.Warn("upload %s failed: %v", f.FileName, err)
		u.log.Warn("attachment upload failed", zap.String("file", f.FileName), zap.Error(err))
		return ""
	}
	return link
}

// finish jurnalga yozadi va notifierni chaqiradi
func (u *workflowUseCase) finish(ctx context.Context, res *entity.BatchResult, actor string) {
	res.FinishedAt = u.opts.Dates.Clock()
	if u.opts.Journal != nil && len(res.Outcomes) > 0 {
		entries := make([]entity.JournalEntry, 0, len(res.Outcomes))
		for _, o := range res.Outcomes {
			e := entity.JournalEntry{
				BatchID:   res.BatchID,
				StageID:   res.StageID,
				Sheet:     o.Sheet,
				Key:       o.Key,
				RowIndex:  o.RowIndex,
				Action:    o.Action,
				Success:   o.OK(),
				Actor:     actor,
				CreatedAt: res.FinishedAt,
			}
			if o.Err != nil {
				e.Error = o.Err.Error()
			}
			entries = append(entries, e)
		}
		if err := u.opts.Journal.Record(ctx, entries); err != nil {
			u.log.Warn("journal record failed", zap.String("batch", res.BatchID), zap.Error(err))
		}
	}
	u.log.Info("batch finished",
		zap.String("batch", res.BatchID),
		zap.String("stage", res.StageID),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("total", res.Total),
		zap.Int("warnings", len(res.Warnings)),
	)
	if u.opts.Notifier != nil {
		u.opts.Notifier.NotifyBatch(ctx, *res)
	}
}
