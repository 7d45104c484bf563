package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/service/telegram"
	"github.com/urfave/cli/v3"
)

// Telegram holds CLI flags for the Telegram bot configuration
type Telegram struct {
	botToken      string
	chatID        int64
	webhookSecret string
}

// Flags returns CLI flags for Telegram configuration
func (x *Telegram) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "telegram-bot-token",
			Usage:       "Telegram Bot API token",
			Category:    "Telegram",
			Sources:     cli.EnvVars("AIAKOS_TELEGRAM_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.Int64Flag{
			Name:        "telegram-chat-id",
			Usage:       "Telegram chat ID that receives review notifications",
			Category:    "Telegram",
			Sources:     cli.EnvVars("AIAKOS_TELEGRAM_CHAT_ID"),
			Destination: &x.chatID,
		},
		&cli.StringFlag{
			Name:        "telegram-webhook-secret",
			Usage:       "Secret token registered with the Telegram webhook (empty disables verification)",
			Category:    "Telegram",
			Sources:     cli.EnvVars("AIAKOS_TELEGRAM_WEBHOOK_SECRET"),
			Destination: &x.webhookSecret,
		},
	}
}

func (x Telegram) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.Int64("chat-id", x.chatID),
		slog.Int("webhook-secret.len", len(x.webhookSecret)),
	)
}

// WebhookSecret returns the webhook secret token
func (x *Telegram) WebhookSecret() string {
	return x.webhookSecret
}

// Configure validates the flags and builds the Telegram service. Construction
// performs a getMe call, so a bad token fails here rather than on the first
// notification.
func (x *Telegram) Configure() (telegram.Service, error) {
	if x.botToken == "" {
		return nil, goerr.New("telegram-bot-token is required")
	}
	if x.chatID == 0 {
		return nil, goerr.New("telegram-chat-id is required")
	}

	svc, err := telegram.New(x.botToken, x.chatID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize telegram service")
	}
	return svc, nil
}
