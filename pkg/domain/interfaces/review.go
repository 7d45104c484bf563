package interfaces

import (
	"context"

	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
)

// ReviewRepository defines the interface for Review data access
type ReviewRepository interface {
	// Create stores a new review. Missing IDs and timestamps are filled in.
	Create(ctx context.Context, review *model.Review) (*model.Review, error)

	// Get retrieves a review by ID. Misses wrap the backend's ErrNotFound.
	Get(ctx context.Context, id types.ReviewID) (*model.Review, error)

	// List retrieves recent reviews, newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*model.Review, error)
}

// TelegramActionRepository defines the interface for action audit records.
// Records are insert-only; there is no update operation on purpose.
type TelegramActionRepository interface {
	// Create appends a new audit record. Missing IDs and timestamps are filled in.
	Create(ctx context.Context, action *model.TelegramAction) (*model.TelegramAction, error)

	// GetByReview retrieves all audit records for a review, newest first
	GetByReview(ctx context.Context, reviewID types.ReviewID) ([]*model.TelegramAction, error)

	// List retrieves recent audit records, newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*model.TelegramAction, error)
}

// SettingsRepository defines the interface for the settings document
type SettingsRepository interface {
	// Get retrieves the settings document. Wraps the backend's ErrNotFound
	// when none has been stored yet.
	Get(ctx context.Context) (*model.UserSettings, error)

	// Put stores the settings document (upsert), bumping UpdatedAt
	Put(ctx context.Context, settings *model.UserSettings) (*model.UserSettings, error)
}
