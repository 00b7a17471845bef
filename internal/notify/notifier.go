package notify

import (
	"fmt"

	"github.com/13magician/kol-gold/internal/modules/config"
	"github.com/13magician/kol-gold/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram — пассивный нотифайер для операторских событий (исполнение,
// отказ площадки, расчёт сделки, безубыток). Nil-safe: без токена или
// chat_id все вызовы — no-op, движок от телеграма не зависит.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(cfg *config.Config) *Telegram {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		logger.Info("ℹ️ телеграм не сконфигурирован, уведомления выключены")
		return nil
	}
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Warn("⚠️ телеграм недоступен (%v), уведомления выключены", err)
		return nil
	}
	return &Telegram{bot: b, chatID: cfg.Telegram.ChatID}
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		logger.Warn("⚠️ телеграм: %v", err)
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }
