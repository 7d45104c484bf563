package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Service provides the chat transport operations used by the notification
// dispatcher and the callback orchestrator
type Service interface {
	// SendMessage sends a MarkdownV2 message to the configured chat and
	// returns the message ID. markup is optional.
	SendMessage(ctx context.Context, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error)

	// AnswerCallback shows a toast (or alert) to the user who pressed a button
	AnswerCallback(ctx context.Context, callbackQueryID, text string, showAlert bool) error

	// EditMessage replaces the text of an already-sent message
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
}
