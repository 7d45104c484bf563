package telegram

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/goerr/v2"
)

// client implements Service interface. The Bot API library does not take a
// context, so call deadlines come from the HTTP client timeout.
type client struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	endpoint   string
	httpClient tgbotapi.HTTPClient
}

// Option is a functional option for client configuration
type Option func(*client)

// WithEndpoint overrides the Bot API endpoint (used by tests)
func WithEndpoint(endpoint string) Option {
	return func(c *client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets the underlying HTTP client (used by tests)
func WithHTTPClient(hc tgbotapi.HTTPClient) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a new Telegram service bound to one destination chat
func New(token string, chatID int64, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Telegram bot token is required")
	}
	if chatID == 0 {
		return nil, goerr.New("Telegram chat ID is required")
	}

	c := &client{
		chatID:     chatID,
		endpoint:   tgbotapi.APIEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, c.endpoint, c.httpClient)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Telegram bot client")
	}
	c.bot = bot

	return c, nil
}

// SendMessage sends a MarkdownV2 message to the configured chat
func (c *client) SendMessage(ctx context.Context, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if markup != nil {
		msg.ReplyMarkup = *markup
	}

	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to send Telegram message", goerr.V("chat_id", c.chatID))
	}

	return sent.MessageID, nil
}

// AnswerCallback answers a callback query to show a confirmation to the user
func (c *client) AnswerCallback(ctx context.Context, callbackQueryID, text string, showAlert bool) error {
	callback := tgbotapi.CallbackConfig{
		CallbackQueryID: callbackQueryID,
		Text:            text,
		ShowAlert:       showAlert,
	}

	if _, err := c.bot.Request(callback); err != nil {
		return goerr.Wrap(err, "failed to answer callback query", goerr.V("callback_query_id", callbackQueryID))
	}

	return nil
}

// EditMessage replaces the text of an already-sent message. The replacement is
// plain text so outcome summaries need no escaping.
func (c *client) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)

	if _, err := c.bot.Request(edit); err != nil {
		return goerr.Wrap(err, "failed to edit Telegram message",
			goerr.V("chat_id", chatID), goerr.V("message_id", messageID))
	}

	return nil
}
