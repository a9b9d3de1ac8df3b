package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/po-workflow/internal/domain/constants"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"go.uber.org/zap"
)

// fetchAttachment komanda bilan kelgan hujjat yoki rasmni yuklab oladi.
// Fayl bo'lmasa nil qaytadi.
func (h *BotHandler) fetchAttachment(ctx context.Context, message *tgbotapi.Message) (*entity.Attachment, error) {
	var fileID, name, mime string
	var size int
	switch {
	case message.Document != nil:
		fileID = message.Document.FileID
		name = message.Document.FileName
		mime = message.Document.MimeType
		size = message.Document.FileSize
	case len(message.Photo) > 0:
		// eng katta o'lcham oxirida
		photo := message.Photo[len(message.Photo)-1]
		fileID = photo.FileID
		name = fmt.Sprintf("photo_%s.jpg", photo.FileUniqueID)
		mime = "image/jpeg"
		size = photo.FileSize
	default:
		return nil, nil
	}
	if size > constants.MaxAttachmentSize {
		return nil, fmt.Errorf("fayl juda katta (%d > %d bayt)", size, constants.MaxAttachmentSize)
	}
	if name == "" {
		name = "attachment_" + fileID
	}

	url, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download status=%d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxAttachmentSize+1))
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if len(data) > constants.MaxAttachmentSize {
		return nil, fmt.Errorf("fayl juda katta")
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	h.log.Info("attachment received", zap.String("file", path.Base(name)), zap.Int("bytes", len(data)))
	return &entity.Attachment{FileName: path.Base(name), MimeType: mime, Data: data}, nil
}
