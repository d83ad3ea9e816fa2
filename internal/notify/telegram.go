package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rescale/mcnotify/internal/logging"
)

// telegramSender is the part of *tgbotapi.BotAPI the sink uses.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSink forwards notifications to one Telegram chat.
type TelegramSink struct {
	bot    telegramSender
	chatID int64
	logger *logging.Logger
}

// NewTelegramSink connects to the Bot API. It returns nil, nil when token or
// chatID is unset, so callers can skip the sink without a special case.
func NewTelegramSink(token string, chatID int64, logger *logging.Logger) (*TelegramSink, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	logger.Info().Str("bot", bot.Self.UserName).Int64("chat_id", chatID).Msg("Telegram notifications enabled")
	return &TelegramSink{bot: bot, chatID: chatID, logger: logger}, nil
}

// Dispatch sends the summary and body as one message.
func (t *TelegramSink) Dispatch(ctx context.Context, req Request) error {
	if t == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := req.Summary
	if req.Body != "" {
		text += "\n" + req.Body
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return &DispatchError{Sink: "telegram", Err: err}
	}
	t.logger.Debug().Str("summary", req.Summary).Msg("Telegram notification sent")
	return nil
}
