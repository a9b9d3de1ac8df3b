package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Start botni ishga tushirish
func (h *BotHandler) Start(ctx context.Context) error {
	h.workerPool.start(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			h.workerPool.shutdown()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				h.workerPool.shutdown()
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			// bot o'chiq paytda yig'ilgan eski komandalar bajarilmaydi
			if update.Message.Time().Before(h.botStartedAt.Add(-staleUpdateWindow)) {
				h.log.Info("stale update skipped", zap.Int64("chat", update.Message.Chat.ID), zap.Int("message", update.Message.MessageID))
				continue
			}
			h.workerPool.submit(&messageRequest{
				ctx:     ctx,
				chatID:  update.Message.Chat.ID,
				userID:  update.Message.From.ID,
				message: update.Message,
			})
		}
	}
}

// handleMessage xabarni qayta ishlash. Fayl bilan kelgan komanda caption da bo'ladi.
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.Chat == nil {
		return
	}
	text := message.Text
	if strings.TrimSpace(text) == "" {
		text = message.Caption
	}
	if extractCommand(text) == "" {
		if message.Chat.IsPrivate() {
			h.sendMessage(message.Chat.ID, "Komanda kutilmoqda. /help yordam uchun.")
		}
		return
	}
	h.handleCommand(ctx, message, text)
}
