package telegram

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/po-workflow/internal/usecase"
	"github.com/yourusername/po-workflow/internal/workflow"
	"go.uber.org/zap"
)

// botAPI tgbotapi.BotAPI ning handler ishlatadigan qismi
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Options bot sozlamalari
type Options struct {
	NotifyChatID   int64
	NotifyThreadID int
	AdminChatIDs   []int64
	Dates          workflow.DateParser
	Logger         *zap.Logger
	Workers        int
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot            botAPI
	workflow       usecase.WorkflowUseCase
	notifyChatID   int64
	notifyThreadID int
	admins         map[int64]bool
	dates          workflow.DateParser
	log            *zap.Logger
	httpClient     *http.Client
	workerPool     *workerPool

	// Bot start timestamp (eski update larni tashlash uchun)
	botStartedAt time.Time
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(token string, opts Options) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return newHandler(bot, opts), nil
}

func newHandler(bot botAPI, opts Options) *BotHandler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	admins := make(map[int64]bool, len(opts.AdminChatIDs))
	for _, id := range opts.AdminChatIDs {
		admins[id] = true
	}
	h := &BotHandler{
		bot:            bot,
		notifyChatID:   opts.NotifyChatID,
		notifyThreadID: opts.NotifyThreadID,
		admins:         admins,
		dates:          opts.Dates,
		log:            log.Named("telegram"),
		httpClient:     &http.Client{Timeout: attachmentTimeout},
		botStartedAt:   time.Now(),
	}
	h.workerPool = newWorkerPool(h, opts.Workers)
	return h
}

// SetWorkflow use case ni ulaydi. Use case o'zi handler ni Notifier sifatida
// oladi, shuning uchun ikkalasi alohida bog'lanadi.
func (h *BotHandler) SetWorkflow(uc usecase.WorkflowUseCase) {
	h.workflow = uc
}

// canWrite lift/complete komandalariga ruxsat: ro'yxat bo'sh bo'lsa hamma
func (h *BotHandler) canWrite(chatID, userID int64) bool {
	if len(h.admins) == 0 {
		return true
	}
	return h.admins[chatID] || h.admins[userID]
}
