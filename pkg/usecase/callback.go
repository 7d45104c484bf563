package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/interfaces"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
	"github.com/secmon-lab/aiakos/pkg/service/gitlab"
	"github.com/secmon-lab/aiakos/pkg/service/telegram"
	"github.com/secmon-lab/aiakos/pkg/utils/errutil"
)

// answerTextLimit bounds acknowledgment text; Telegram rejects alerts over
// 200 characters.
const answerTextLimit = 200

// CallbackUseCase executes the action behind a pressed notification button:
// resolve the review, run the remote action sequence, acknowledge the press
// and append an audit record. Every user-facing failure is converted into an
// acknowledgment and a nil return so the webhook can always answer 200 —
// a non-200 would make Telegram redeliver the press and replay side effects.
//
// No lock serializes concurrent presses for the same review. Two near-
// simultaneous presses can both reach GitLab; approving an already-approved
// MR or merging an already-merged one is idempotent on the GitLab side, and
// each press leaves its own audit record.
type CallbackUseCase struct {
	repo     interfaces.Repository
	gitlab   gitlab.Service
	telegram telegram.Service
}

func NewCallbackUseCase(repo interfaces.Repository, gitlabSvc gitlab.Service, telegramSvc telegram.Service) *CallbackUseCase {
	return &CallbackUseCase{
		repo:     repo,
		gitlab:   gitlabSvc,
		telegram: telegramSvc,
	}
}

// HandleCallback processes one validated button press
func (uc *CallbackUseCase) HandleCallback(ctx context.Context, payload *model.CallbackPayload) error {
	review, err := uc.repo.Review().Get(ctx, payload.ReviewID)
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(ErrReviewNotFound, "callback references unknown review",
			goerr.V(ReviewIDKey, payload.ReviewID), goerr.V("cause", err.Error())),
			"failed to resolve review for callback")
		uc.answer(ctx, payload, "Review not found")
		return nil
	}

	if !review.HasCredential() {
		errutil.Handle(ctx, goerr.Wrap(ErrCredentialMissing, "review has no GitLab token",
			goerr.V(ReviewIDKey, payload.ReviewID)),
			"cannot execute review action")
		uc.answer(ctx, payload, "GitLab credential not configured for this review")
		return nil
	}

	switch payload.Action {
	case types.ReviewActionApprove:
		uc.handleApprove(ctx, payload, review)
	case types.ReviewActionDecline:
		uc.handleDecline(ctx, payload, review)
	}

	return nil
}

func (uc *CallbackUseCase) handleApprove(ctx context.Context, payload *model.CallbackPayload, review *model.Review) {
	if err := uc.gitlab.Approve(ctx, payload.MRURL, review.GitLabToken); err != nil {
		uc.answer(ctx, payload, "Failed to approve: "+truncate(err.Error(), answerTextLimit-20))
		uc.audit(ctx, payload, types.ActionStatusFailed, err.Error())
		return
	}

	if err := uc.gitlab.Merge(ctx, payload.MRURL, review.GitLabToken); err != nil {
		// Partial success: the approval went through but the MR is not
		// merged. Reported distinctly, never folded into plain failure.
		uc.answer(ctx, payload, "Approved, but merge failed: "+truncate(err.Error(), answerTextLimit-30))
		uc.audit(ctx, payload, types.ActionStatusFailed, "merge failed after approval: "+err.Error())
		uc.updateMessage(ctx, payload, review, "⚠️ Approved, but merge failed")
		return
	}

	uc.answer(ctx, payload, "Merge request approved and merged ✅")
	uc.audit(ctx, payload, types.ActionStatusSuccess, "")
	uc.updateMessage(ctx, payload, review, "✅ Approved and merged")
}

func (uc *CallbackUseCase) handleDecline(ctx context.Context, payload *model.CallbackPayload, review *model.Review) {
	if err := uc.gitlab.Close(ctx, payload.MRURL, review.GitLabToken); err != nil {
		uc.answer(ctx, payload, "Failed to decline: "+truncate(err.Error(), answerTextLimit-20))
		uc.audit(ctx, payload, types.ActionStatusFailed, err.Error())
		return
	}

	uc.answer(ctx, payload, "Merge request declined successfully ❌")
	uc.audit(ctx, payload, types.ActionStatusSuccess, "")
	uc.updateMessage(ctx, payload, review, "❌ Declined")
}

// answer acknowledges the button press. Best-effort: the primary action has
// already completed or failed independently of this confirmation.
func (uc *CallbackUseCase) answer(ctx context.Context, payload *model.CallbackPayload, text string) {
	if err := uc.telegram.AnswerCallback(ctx, payload.QueryID, text, true); err != nil {
		errutil.Handle(ctx, err, "failed to answer callback query")
	}
}

// audit appends the action record. Best-effort: the remote side effect is
// authoritative and irreversible, a persistence failure here is logged and
// never changes the reported outcome.
func (uc *CallbackUseCase) audit(ctx context.Context, payload *model.CallbackPayload, status types.ActionStatus, errMsg string) {
	record := &model.TelegramAction{
		ReviewID:     payload.ReviewID,
		MRURL:        payload.MRURL,
		Action:       payload.Action,
		UserID:       payload.UserID,
		Status:       status,
		ErrorMessage: errMsg,
	}

	if _, err := uc.repo.TelegramAction().Create(ctx, record); err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to write action audit record",
			goerr.V(ReviewIDKey, payload.ReviewID),
			goerr.V(ActionKey, payload.Action),
			goerr.V("status", status)),
			"audit record write failed")
	}
}

// updateMessage rewrites the origin chat message with a compact outcome so the
// buttons stop inviting another press. Best-effort.
func (uc *CallbackUseCase) updateMessage(ctx context.Context, payload *model.CallbackPayload, review *model.Review, outcome string) {
	if payload.ChatID == 0 || payload.MessageID == 0 {
		return
	}

	text := fmt.Sprintf("%s: %s\n%s", outcome, review.MRTitle, review.MRURL)
	if err := uc.telegram.EditMessage(ctx, payload.ChatID, payload.MessageID, text); err != nil {
		errutil.Handle(ctx, err, "failed to update origin message")
	}
}

// truncate shortens s to at most limit runes, ellipsis included
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
