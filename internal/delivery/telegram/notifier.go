package telegram

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"go.uber.org/zap"
)

const digestTimeout = 2 * time.Minute

// NotifyBatch batch natijasini notify guruhiga yuboradi
func (h *BotHandler) NotifyBatch(_ context.Context, res entity.BatchResult) {
	if h.notifyChatID == 0 {
		return
	}
	h.sendToThread(h.notifyChatID, h.notifyThreadID, formatBatch(res))
}

// StartDigest cron jadvali bo'yicha pending hisobotni yuboradi. ctx tugaganda to'xtaydi.
func (h *BotHandler) StartDigest(ctx context.Context, spec string, loc *time.Location) error {
	if h.notifyChatID == 0 {
		h.log.Info("digest disabled: NOTIFY_CHAT_ID not set")
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() { h.sendDigest(ctx) }); err != nil {
		return err
	}
	c.Start()
	h.log.Info("digest scheduled", zap.String("cron", spec), zap.String("tz", loc.String()))

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}

// sendDigest har bir bosqichdagi pending soni
func (h *BotHandler) sendDigest(parent context.Context) {
	if h.workflow == nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, digestTimeout)
	defer cancel()
	counts, err := h.workflow.PendingCounts(ctx)
	if err != nil {
		h.log.Warn("digest failed", zap.Error(err))
		return
	}
	h.sendToThread(h.notifyChatID, h.notifyThreadID, formatDigest(h.workflow.Stages(), counts))
}
