package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vision-measure/internal/domain/entity"
	"vision-measure/internal/domain/port"
)

const msgSummary = `📊 Сравнение каталогов завершено

🏷 Run: %s
🖼 Пар изображений: %d

PSNR:  %.2f дБ
SSIM:  %.3f
LPIPS: %.3f

⏱ Время: %.1f с`

// Notifier отправляет итоги прогона в Telegram-чат
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier создаёт уведомитель для чата chatID
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Notifier{api: api, chatID: chatID}, nil
}

// NewNotifierWithEndpoint создаёт уведомитель для нестандартного Bot API сервера
func NewNotifierWithEndpoint(token, endpoint string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, err
	}
	return &Notifier{api: api, chatID: chatID}, nil
}

// NotifySummary отправляет сводку по прогону
func (n *Notifier) NotifySummary(ctx context.Context, runID string, summary entity.RunSummary) error {
	_ = ctx
	msg := tgbotapi.NewMessage(n.chatID, FormatSummary(runID, summary))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	return nil
}

// FormatSummary готовит текст сообщения со сводкой
func FormatSummary(runID string, summary entity.RunSummary) string {
	return fmt.Sprintf(msgSummary,
		runID, summary.Pairs, summary.PSNR, summary.SSIM, summary.LPIPS, summary.Elapsed.Seconds())
}

// Проверка реализации интерфейса
var _ port.Notifier = (*Notifier)(nil)
