package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/workflow"
	"go.uber.org/zap"
)

const staleUpdateWindow = 2 * time.Minute

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message, text string) {
	chatID := message.Chat.ID
	cmd := extractCommand(text)
	if h.workflow == nil {
		h.sendMessage(chatID, "Workflow hali ulanmagan.")
		return
	}
	args, err := commandArgs(text)
	if err != nil {
		h.sendMessage(chatID, "Xato: "+err.Error())
		return
	}

	switch cmd {
	case "start", "help":
		h.sendMessage(chatID, helpMessage())
	case "stages":
		h.sendMessage(chatID, formatStages(h.workflow.Stages()))
	case "pending":
		h.handleListCommand(ctx, chatID, args, true)
	case "done":
		h.handleListCommand(ctx, chatID, args, false)
	case "status":
		h.handleStatusCommand(ctx, chatID, args)
	case "lift":
		if !h.canWrite(chatID, message.From.ID) {
			h.sendMessage(chatID, "⛔ Bu komanda faqat adminlar uchun.")
			return
		}
		h.handleLiftCommand(ctx, message, args)
	case "complete":
		if !h.canWrite(chatID, message.From.ID) {
			h.sendMessage(chatID, "⛔ Bu komanda faqat adminlar uchun.")
			return
		}
		h.handleCompleteCommand(ctx, message, args)
	case "journal":
		h.handleJournalCommand(ctx, chatID, args)
	default:
		h.sendMessage(chatID, "Noma'lum komanda. /help yordam uchun.")
	}
}

func helpMessage() string {
	return `Purchase-order workflow bot

/stages - bosqichlar ro'yxati
/pending <stage> - bajarilishi kerak bo'lgan qatorlar
/done <stage> - yakunlangan qatorlar
/status <indent> - indent holati, liftlar va qoldiq
/lift <indent> <qty> [transporter] [vehicle] freight=... advance=... date=... bilty=... driver=...
/complete <stage> <key,key,...> field=value ... (KEY.field=value faqat bitta qatorga)
/journal [n] - oxirgi yozuvlar

Fayl (PO, invoice, bilty) komanda bilan birga caption sifatida yuboriladi.`
}

func (h *BotHandler) handleListCommand(ctx context.Context, chatID int64, args []string, pending bool) {
	if len(args) == 0 {
		h.sendMessage(chatID, "Bosqich nomini kiriting. /stages ro'yxatni ko'rsatadi.")
		return
	}
	view, err := h.workflow.ListStage(ctx, args[0])
	if err != nil {
		h.replyError(chatID, "list", err)
		return
	}
	h.sendMessage(chatID, formatStageView(view, pending, h.dates))
}

func (h *BotHandler) handleStatusCommand(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "Foydalanish: /status <indent>")
		return
	}
	report, err := h.workflow.IndentStatus(ctx, args[0])
	if err != nil {
		h.replyError(chatID, "status", err)
		return
	}
	h.sendMessage(chatID, formatReport(report))
}

func (h *BotHandler) handleLiftCommand(ctx context.Context, message *tgbotapi.Message, args []string) {
	chatID := message.Chat.ID
	req, err := parseLiftArgs(args)
	if err != nil {
		h.sendMessage(chatID, "Xato: "+err.Error())
		return
	}
	req.Actor = actorName(message.From)
	if req.Bilty, err = h.fetchAttachment(ctx, message); err != nil {
		h.sendMessage(chatID, "Faylni yuklab bo'lmadi: "+err.Error())
		return
	}
	res, err := h.workflow.RecordLift(ctx, req)
	if err != nil {
		h.replyError(chatID, "lift", err)
		return
	}
	h.replyBatch(chatID, res)
}

func (h *BotHandler) handleCompleteCommand(ctx context.Context, message *tgbotapi.Message, args []string) {
	chatID := message.Chat.ID
	parsed, err := parseCompleteArgs(args)
	if err != nil {
		h.sendMessage(chatID, "Xato: "+err.Error())
		return
	}
	sub := entity.StageSubmission{
		StageID: parsed.StageID,
		Keys:    parsed.Keys,
		Values:  parsed.Values,
		PerRow:  parsed.PerRow,
		Actor:   actorName(message.From),
	}
	if sub.Attachment, err = h.fetchAttachment(ctx, message); err != nil {
		h.sendMessage(chatID, "Faylni yuklab bo'lmadi: "+err.Error())
		return
	}
	res, err := h.workflow.SubmitStage(ctx, sub)
	if err != nil {
		h.replyError(chatID, "complete", err)
		return
	}
	h.replyBatch(chatID, res)
}

func (h *BotHandler) handleJournalCommand(ctx context.Context, chatID int64, args []string) {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			h.sendMessage(chatID, "Foydalanish: /journal [n]")
			return
		}
		limit = n
	}
	entries, err := h.workflow.RecentJournal(ctx, limit)
	if err != nil {
		h.replyError(chatID, "journal", err)
		return
	}
	h.sendMessage(chatID, formatJournal(entries, h.dates))
}

// replyBatch natija notify chatga ham boradi, shuning uchun o'sha chatda takrorlanmaydi
func (h *BotHandler) replyBatch(chatID int64, res entity.BatchResult) {
	if chatID == h.notifyChatID {
		return
	}
	h.sendMessage(chatID, formatBatch(res))
}

// replyError xatoni foydalanuvchiga tushunarli qilib qaytaradi
func (h *BotHandler) replyError(chatID int64, op string, err error) {
	h.sendMessage(chatID, userError(err))
	if errors.Is(err, workflow.ErrValidation) || errors.Is(err, workflow.ErrIneligible) {
		h.log.Info("command rejected", zap.String("op", op), zap.Int64("chat", chatID), zap.Error(err))
		return
	}
	h.log.Error("command failed", zap.String("op", op), zap.Int64("chat", chatID), zap.Error(err))
}

func userError(err error) string {
	var mismatch *workflow.MismatchError
	switch {
	case errors.As(err, &mismatch):
		return fmt.Sprintf("❌ Tanlangan qatorlar bitta vendor/PO ga tegishli emas.\nKutilgan: %s\nTopilgan: %s", mismatch.Expected, mismatch.Actual)
	case errors.Is(err, workflow.ErrValidation):
		return "❌ " + err.Error()
	case errors.Is(err, workflow.ErrIneligible):
		return "⛔ " + err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "⏱️ Sheet javob bermadi. Iltimos, qayta urinib ko'ring."
	}
	return "Kechirasiz, sheet bilan ishlashda xatolik yuz berdi. Iltimos, qayta urinib ko'ring."
}

func actorName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return "@" + u.UserName
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return "id:" + strconv.FormatInt(u.ID, 10)
}
