package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/interfaces"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
	"github.com/secmon-lab/aiakos/pkg/utils/errutil"
)

// ReviewUseCase ingests completed reviews and serves review queries
type ReviewUseCase struct {
	repo   interfaces.Repository
	notify *NotifyUseCase
}

func NewReviewUseCase(repo interfaces.Repository, notify *NotifyUseCase) *ReviewUseCase {
	return &ReviewUseCase{
		repo:   repo,
		notify: notify,
	}
}

// IngestReview validates and stores a completed review, then dispatches the
// chat notification unless settings disable it. The notified flag reports
// whether the notification went out; a dispatch failure does not fail the
// ingestion, the review is already durable at that point.
func (uc *ReviewUseCase) IngestReview(ctx context.Context, review *model.Review) (*model.Review, bool, error) {
	if err := review.Validate(); err != nil {
		return nil, false, goerr.Wrap(err, "invalid review", goerr.V(MRURLKey, review.MRURL))
	}

	stored, err := uc.repo.Review().Create(ctx, review)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to store review", goerr.V(MRURLKey, review.MRURL))
	}

	if !uc.telegramEnabled(ctx) {
		return stored, false, nil
	}

	if err := uc.notify.SendReviewNotification(ctx, stored); err != nil {
		errutil.Handle(ctx, err, "failed to send review notification")
		return stored, false, nil
	}

	return stored, true, nil
}

// telegramEnabled reads the notification gate from settings. Absent settings
// default to enabled.
func (uc *ReviewUseCase) telegramEnabled(ctx context.Context) bool {
	settings, err := uc.repo.Settings().Get(ctx)
	if err != nil {
		return model.DefaultUserSettings().TelegramEnabled
	}
	return settings.TelegramEnabled
}

// GetReview retrieves a single review by ID
func (uc *ReviewUseCase) GetReview(ctx context.Context, id types.ReviewID) (*model.Review, error) {
	review, err := uc.repo.Review().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrReviewNotFound, "review not found", goerr.V(ReviewIDKey, id))
	}
	return review, nil
}

// ListReviews retrieves recent reviews, newest first
func (uc *ReviewUseCase) ListReviews(ctx context.Context, limit int) ([]*model.Review, error) {
	reviews, err := uc.repo.Review().List(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list reviews")
	}
	return reviews, nil
}

// ListActions retrieves the audit trail for a review, newest first
func (uc *ReviewUseCase) ListActions(ctx context.Context, reviewID types.ReviewID) ([]*model.TelegramAction, error) {
	if _, err := uc.repo.Review().Get(ctx, reviewID); err != nil {
		return nil, goerr.Wrap(ErrReviewNotFound, "review not found", goerr.V(ReviewIDKey, reviewID))
	}

	actions, err := uc.repo.TelegramAction().GetByReview(ctx, reviewID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list review actions", goerr.V(ReviewIDKey, reviewID))
	}
	return actions, nil
}
