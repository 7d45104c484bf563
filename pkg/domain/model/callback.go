package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
)

// CallbackData is the JSON document carried in an inline keyboard button.
// Telegram echoes it back verbatim in the callback query, so the encoded form
// must stay within the 64-byte callback_data limit minus the UUID overhead.
type CallbackData struct {
	Action   types.ReviewAction `json:"action"`
	ReviewID types.ReviewID     `json:"review_id"`
	MRURL    string             `json:"mr_url"`
}

// Encode serializes the callback data for use as button callback_data
func (d *CallbackData) Encode() (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode callback data")
	}
	return string(raw), nil
}

// ParseCallbackData parses and validates the callback_data of a button press.
// Broken JSON, an unknown action, or a missing review ID all fail the parse;
// the caller drops such presses without side effects.
func ParseCallbackData(raw string) (*CallbackData, error) {
	var data CallbackData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, goerr.Wrap(err, "failed to parse callback data", goerr.V("data", raw))
	}
	if !data.Action.IsValid() {
		return nil, goerr.New("unknown callback action", goerr.V("action", data.Action))
	}
	if data.ReviewID == "" {
		return nil, goerr.New("callback data has no review ID", goerr.V("data", raw))
	}
	return &data, nil
}

// CallbackPayload carries one validated button press through the orchestrator.
// It is transient: built from a webhook update, consumed once, never stored.
type CallbackPayload struct {
	Action   types.ReviewAction
	ReviewID types.ReviewID
	MRURL    string

	// Transport metadata used for acknowledgment and message updates
	QueryID   string
	ChatID    int64
	MessageID int
	UserID    string
}
