package model

import (
	"time"

	"github.com/secmon-lab/aiakos/pkg/domain/types"
)

// TelegramAction is the audit record of one executed button press. Records are
// insert-only: a retried or repeated press appends a new record rather than
// updating an existing one.
type TelegramAction struct {
	ID       types.ActionID     `json:"id"`
	ReviewID types.ReviewID     `json:"review_id"`
	MRURL    string             `json:"mr_url"`
	Action   types.ReviewAction `json:"action"`
	// UserID is the Telegram user who pressed the button, when known
	UserID       string             `json:"user_id,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	Status       types.ActionStatus `json:"status"`
	ErrorMessage string             `json:"error_message,omitempty"`
}
