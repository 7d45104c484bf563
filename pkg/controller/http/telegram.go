package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/utils/errutil"
	"github.com/secmon-lab/aiakos/pkg/utils/logging"
)

// CallbackUseCase executes a validated button press
type CallbackUseCase interface {
	HandleCallback(ctx context.Context, payload *model.CallbackPayload) error
}

// TelegramWebhookHandler handles Telegram bot webhook updates. Every reachable
// path answers 200: a non-200 would make Telegram redeliver the update, and a
// redelivered button press would replay the remote GitLab action.
type TelegramWebhookHandler struct {
	callbackUC CallbackUseCase
}

// NewTelegramWebhookHandler creates a new Telegram webhook handler
func NewTelegramWebhookHandler(callbackUC CallbackUseCase) *TelegramWebhookHandler {
	return &TelegramWebhookHandler{
		callbackUC: callbackUC,
	}
}

// ServeHTTP handles one webhook delivery
func (h *TelegramWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.From(ctx)

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		// Not a well-formed update. Acknowledge anyway: retrying cannot
		// make the body parse.
		logger.Warn("failed to decode webhook update", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	cq := update.CallbackQuery
	if cq == nil {
		// Message updates, edits and other update kinds are not handled
		w.WriteHeader(http.StatusOK)
		return
	}

	data, err := model.ParseCallbackData(cq.Data)
	if err != nil {
		logger.Warn("dropping callback with invalid data",
			"error", err, "callback_query_id", cq.ID)
		w.WriteHeader(http.StatusOK)
		return
	}

	payload := &model.CallbackPayload{
		Action:   data.Action,
		ReviewID: data.ReviewID,
		MRURL:    data.MRURL,
		QueryID:  cq.ID,
	}
	if cq.Message != nil {
		payload.MessageID = cq.Message.MessageID
		if cq.Message.Chat != nil {
			payload.ChatID = cq.Message.Chat.ID
		}
	}
	if cq.From != nil {
		payload.UserID = strconv.FormatInt(cq.From.ID, 10)
	}

	if err := h.callbackUC.HandleCallback(ctx, payload); err != nil {
		errutil.Handle(ctx, err, "callback handling failed")
	}

	w.WriteHeader(http.StatusOK)
}
