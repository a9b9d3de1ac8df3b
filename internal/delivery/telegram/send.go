package telegram

import (
	"encoding/json"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const telegramMessageLimit = 4096

// threadIDForChat notify guruhi uchun topic ID
func (h *BotHandler) threadIDForChat(chatID int64) int {
	if chatID != 0 && chatID == h.notifyChatID {
		return h.notifyThreadID
	}
	return 0
}

// sendText forum topic bo'lsa sendMessage ni params bilan chaqiradi
func (h *BotHandler) sendText(chatID int64, text string, threadOverride int) (*tgbotapi.Message, error) {
	if h.bot == nil {
		return nil, fmt.Errorf("telegram bot is nil")
	}

	threadID := threadOverride
	if threadID == 0 {
		threadID = h.threadIDForChat(chatID)
	}

	if threadID > 0 {
		params := make(tgbotapi.Params)
		params.AddNonZero64("chat_id", chatID)
		params.AddNonZero("message_thread_id", threadID)
		params.AddNonEmpty("text", text)
		resp, err := h.bot.MakeRequest("sendMessage", params)
		if err != nil {
			return nil, err
		}
		var msg tgbotapi.Message
		if err := json.Unmarshal(resp.Result, &msg); err != nil {
			return nil, err
		}
		return &msg, nil
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	sent, err := h.bot.Send(msg)
	if err != nil {
		return nil, err
	}
	return &sent, nil
}

// sendMessage oddiy xabar yuborish (uzun matn bo'laklarga bo'linadi)
func (h *BotHandler) sendMessage(chatID int64, text string) {
	h.sendToThread(chatID, 0, text)
}

func (h *BotHandler) sendToThread(chatID int64, threadID int, text string) {
	if h.bot == nil {
		h.log.Warn("sendMessage skipped (bot is nil)", zap.Int64("chat", chatID), zap.String("text", truncateForLog(text, 120)))
		return
	}
	if strings.TrimSpace(text) == "" {
		h.log.Warn("empty message skipped", zap.Int64("chat", chatID))
		return
	}
	for _, chunk := range splitIntoChunks(text, telegramMessageLimit) {
		if _, err := h.sendText(chatID, chunk, threadID); err != nil {
			h.log.Warn("xabar yuborishda xatolik", zap.Int64("chat", chatID), zap.Error(err))
			return
		}
	}
}

// splitIntoChunks matnni Telegram limitiga mos bo'laklarga bo'ladi.
// Iloji bo'lsa qator oxiridan bo'linadi.
func splitIntoChunks(s string, limit int) []string {
	if limit <= 0 || len(s) <= limit {
		return []string{s}
	}
	var chunks []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(s, "\n") {
		if current.Len()+len(line) > limit && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		for len(line) > limit {
			cut := limit
			// UTF-8 rune o'rtasidan kesmaslik
			for cut > 0 && !isRuneStart(line[cut]) {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func truncateForLog(s string, max int) string {
	if len(s) <= max {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(s[:max]) + "…"
}
