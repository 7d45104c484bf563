package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/service/telegram"
)

// NotifyUseCase sends review notifications through the chat transport
type NotifyUseCase struct {
	telegram telegram.Service
}

func NewNotifyUseCase(telegramSvc telegram.Service) *NotifyUseCase {
	return &NotifyUseCase{
		telegram: telegramSvc,
	}
}

// SendReviewNotification formats the review and sends the segments in order.
// Only the final segment carries the action buttons: a button must not appear
// before the full context is delivered. The first send failure aborts the
// remaining segments and fails the notification as a whole.
func (uc *NotifyUseCase) SendReviewNotification(ctx context.Context, review *model.Review) error {
	if uc.telegram == nil {
		return goerr.New("Telegram service is not configured")
	}

	keyboard, err := telegram.ReviewKeyboard(review.ID, review.MRURL)
	if err != nil {
		return goerr.Wrap(err, "failed to build review keyboard", goerr.V(ReviewIDKey, review.ID))
	}

	segments := telegram.FormatReview(review)

	for i, segment := range segments {
		var markup = keyboard
		if i < len(segments)-1 {
			markup = nil
		}

		if _, err := uc.telegram.SendMessage(ctx, segment, markup); err != nil {
			return goerr.Wrap(err, "failed to send review notification segment",
				goerr.V(ReviewIDKey, review.ID),
				goerr.V("segment", i),
				goerr.V("segments", len(segments)))
		}
	}

	return nil
}
