package model

import (
	"time"

	"github.com/secmon-lab/aiakos/pkg/domain/types"
)

// UserSettings holds notification and credential preferences. The server keeps
// a single settings document; TelegramEnabled gates notification dispatch on
// review ingestion.
type UserSettings struct {
	ID     types.SettingsID `json:"id"`
	UserID string           `json:"user_id,omitempty"`

	// GitLabToken stored here serves the settings API surface only. The
	// orchestrator acts solely on the credential attached to the review.
	GitLabToken string `json:"gitlab_token,omitempty" masq:"secret"`

	TelegramEnabled   bool `json:"telegram_enabled"`
	EmailEnabled      bool `json:"email_enabled"`
	AutoReviewEnabled bool `json:"auto_review_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultUserSettings returns the settings used before any document is stored
func DefaultUserSettings() *UserSettings {
	return &UserSettings{
		TelegramEnabled:   true,
		EmailEnabled:      false,
		AutoReviewEnabled: true,
	}
}
