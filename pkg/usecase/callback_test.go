package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/aiakos/pkg/domain/interfaces"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
	"github.com/secmon-lab/aiakos/pkg/repository/memory"
	"github.com/secmon-lab/aiakos/pkg/usecase"
	"golang.org/x/sync/errgroup"
)

// fakeGitLab records remote action calls and returns configured errors
type fakeGitLab struct {
	mu         sync.Mutex
	approveErr error
	mergeErr   error
	closeErr   error
	approves   int
	merges     int
	closes     int
}

func (f *fakeGitLab) Approve(ctx context.Context, mrURL, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approves++
	return f.approveErr
}

func (f *fakeGitLab) Merge(ctx context.Context, mrURL, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.merges++
	return f.mergeErr
}

func (f *fakeGitLab) Close(ctx context.Context, mrURL, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return f.closeErr
}

type sentMessage struct {
	text      string
	hasMarkup bool
}

// fakeTelegram records transport calls
type fakeTelegram struct {
	mu      sync.Mutex
	sendErr error
	sent    []sentMessage
	answers []string
	edits   []string
}

func (f *fakeTelegram) SendMessage(ctx context.Context, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.sent = append(f.sent, sentMessage{text: text, hasMarkup: markup != nil})
	return len(f.sent), nil
}

func (f *fakeTelegram) AnswerCallback(ctx context.Context, callbackQueryID, text string, showAlert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeTelegram) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeTelegram) lastAnswer() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.answers) == 0 {
		return ""
	}
	return f.answers[len(f.answers)-1]
}

func storedReview(t *testing.T, repo interfaces.Repository, token string) *model.Review {
	t.Helper()

	review, err := repo.Review().Create(t.Context(), &model.Review{
		MRURL:       "https://gitlab.com/g/p/-/merge_requests/7",
		MRTitle:     "Add feature",
		Author:      "dev.user",
		Status:      types.ReviewStatusPassed,
		GitLabToken: token,
	})
	gt.NoError(t, err).Required()
	return review
}

func payloadFor(review *model.Review, action types.ReviewAction) *model.CallbackPayload {
	return &model.CallbackPayload{
		Action:    action,
		ReviewID:  review.ID,
		MRURL:     review.MRURL,
		QueryID:   "cbq-1",
		ChatID:    100,
		MessageID: 42,
		UserID:    "user-1",
	}
}

func TestHandleCallbackApproveAndMerge(t *testing.T) {
	repo := memory.New()
	gl := &fakeGitLab{}
	tg := &fakeTelegram{}
	uc := usecase.NewCallbackUseCase(repo, gl, tg)

	review := storedReview(t, repo, "glpat-test")

	err := uc.HandleCallback(t.Context(), payloadFor(review, types.ReviewActionApprove))
	gt.NoError(t, err).Required()

	gt.Value(t, gl.approves).Equal(1)
	gt.Value(t, gl.merges).Equal(1)
	gt.String(t, tg.lastAnswer()).Contains("approved and merged")

	actions, err := repo.TelegramAction().GetByReview(t.Context(), review.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(1)
	gt.Value(t, actions[0].Action).Equal(types.ReviewActionApprove)
	gt.Value(t, actions[0].Status).Equal(types.ActionStatusSuccess)
	gt.Value(t, actions[0].UserID).Equal("user-1")

	// Origin message rewritten with the outcome
	gt.Array(t, tg.edits).Length(1)
	gt.String(t, tg.edits[0]).Contains("Approved and merged")
}

func TestHandleCallbackApprovedButMergeFailed(t *testing.T) {
	repo := memory.New()
	gl := &fakeGitLab{mergeErr: errors.New("405 Method Not Allowed: cannot merge")}
	tg := &fakeTelegram{}
	uc := usecase.NewCallbackUseCase(repo, gl, tg)

	review := storedReview(t, repo, "glpat-test")

	err := uc.HandleCallback(t.Context(), payloadFor(review, types.ReviewActionApprove))
	gt.NoError(t, err).Required()

	// Partial success is reported distinctly: approval happened, merge did not
	gt.String(t, tg.lastAnswer()).Contains("Approved")
	gt.String(t, tg.lastAnswer()).Contains("merge failed")

	actions, err := repo.TelegramAction().GetByReview(t.Context(), review.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(1)
	gt.Value(t, actions[0].Action).Equal(types.ReviewActionApprove)
	gt.Value(t, actions[0].Status).Equal(types.ActionStatusFailed)
	gt.String(t, actions[0].ErrorMessage).Contains("cannot merge")
}

func TestHandleCallbackApproveFailed(t *testing.T) {
	repo := memory.New()
	gl := &fakeGitLab{approveErr: errors.New("401 Unauthorized")}
	tg := &fakeTelegram{}
	uc := usecase.NewCallbackUseCase(repo, gl, tg)

	review := storedReview(t, repo, "glpat-test")

	err := uc.HandleCallback(t.Context(), payloadFor(review, types.ReviewActionApprove))
	gt.NoError(t, err).Required()

	// Merge is never attempted when approval fails
	gt.Value(t, gl.merges).Equal(0)
	gt.String(t, tg.lastAnswer()).Contains("Failed to approve")

	actions, err := repo.TelegramAction().GetByReview(t.Context(), review.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(1)
	gt.Value(t, actions[0].Status).Equal(types.ActionStatusFailed)
}

func TestHandleCallbackDecline(t *testing.T) {
	repo := memory.New()
	gl := &fakeGitLab{}
	tg := &fakeTelegram{}
	uc := usecase.NewCallbackUseCase(repo, gl, tg)

	review := storedReview(t, repo, "glpat-test")

	err := uc.HandleCallback(t.Context(), payloadFor(review, types.ReviewActionDecline))
	gt.NoError(t, err).Required()

	gt.Value(t, gl.closes).Equal(1)
	gt.Value(t, gl.approves).Equal(0)
	gt.String(t, tg.lastAnswer()).Contains("declined")

	actions, err := repo.TelegramAction().GetByReview(t.Context(), review.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(1)
	gt.Value(t, actions[0].Action).Equal(types.ReviewActionDecline)
	gt.Value(t, actions[0].Status).Equal(types.ActionStatusSuccess)
}

func TestHandleCallbackReviewNotFound(t *testing.T) {
	repo := memory.New()
	gl := &fakeGitLab{}
	tg := &fakeTelegram{}
	uc := usecase.NewCallbackUseCase(repo, gl, tg)

	err := uc.HandleCallback(t.Context(), &model.CallbackPayload{
		Action:   types.ReviewActionApprove,
		ReviewID: types.ReviewID("missing"),
		MRURL:    "https://gitlab.com/g/p/-/merge_requests/7",
		QueryID:  "cbq-1",
	})
	gt.NoError(t, err).Required()

	gt.Value(t, tg.lastAnswer()).Equal("Review not found")
	gt.Value(t, gl.approves).Equal(0)

	// Invalid callbacks never leave an audit record
	actions, err := repo.TelegramAction().List(t.Context(), 0)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(0)
}

func TestHandleCallbackCredentialMissing(t *testing.T) {
	repo := memory.New()
	gl := &fakeGitLab{}
	tg := &fakeTelegram{}
	uc := usecase.NewCallbackUseCase(repo, gl, tg)

	review := storedReview(t, repo, "")

	err := uc.HandleCallback(t.Context(), payloadFor(review, types.ReviewActionApprove))
	gt.NoError(t, err).Required()

	gt.String(t, tg.lastAnswer()).Contains("credential not configured")
	gt.Value(t, gl.approves).Equal(0)

	actions, err := repo.TelegramAction().List(t.Context(), 0)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(0)
}

func TestHandleCallbackAnswersFitTelegramAlertLimit(t *testing.T) {
	// GitLab failures carry status plus response body, so the raw error text
	// routinely exceeds the 200-character cap Telegram puts on alert answers
	longErr := errors.New("405 Method Not Allowed: " +
		strings.Repeat("merge blocked by project policy, resolve the pipeline requirement first. ", 5))

	cases := map[string]struct {
		gl     *fakeGitLab
		action types.ReviewAction
	}{
		"approve fails": {
			gl:     &fakeGitLab{approveErr: longErr},
			action: types.ReviewActionApprove,
		},
		"merge fails after approval": {
			gl:     &fakeGitLab{mergeErr: longErr},
			action: types.ReviewActionApprove,
		},
		"decline fails": {
			gl:     &fakeGitLab{closeErr: longErr},
			action: types.ReviewActionDecline,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repo := memory.New()
			tg := &fakeTelegram{}
			uc := usecase.NewCallbackUseCase(repo, tc.gl, tg)

			review := storedReview(t, repo, "glpat-test")

			err := uc.HandleCallback(t.Context(), payloadFor(review, tc.action))
			gt.NoError(t, err).Required()

			gt.Bool(t, len(tg.answers) > 0).True()
			for _, answer := range tg.answers {
				gt.Bool(t, utf8.RuneCountInString(answer) <= 200).True()
			}
		})
	}
}

// failingActionRepo wraps a repository so audit writes always fail
type failingActionRepo struct {
	interfaces.Repository
}

func (f *failingActionRepo) TelegramAction() interfaces.TelegramActionRepository {
	return &failingActionWriter{}
}

type failingActionWriter struct{}

func (f *failingActionWriter) Create(ctx context.Context, action *model.TelegramAction) (*model.TelegramAction, error) {
	return nil, errors.New("persistence unavailable")
}

func (f *failingActionWriter) GetByReview(ctx context.Context, reviewID types.ReviewID) ([]*model.TelegramAction, error) {
	return nil, nil
}

func (f *failingActionWriter) List(ctx context.Context, limit int) ([]*model.TelegramAction, error) {
	return nil, nil
}

func TestHandleCallbackAuditWriteFailureDoesNotChangeOutcome(t *testing.T) {
	base := memory.New()
	repo := &failingActionRepo{Repository: base}
	gl := &fakeGitLab{}
	tg := &fakeTelegram{}
	uc := usecase.NewCallbackUseCase(repo, gl, tg)

	review := storedReview(t, base, "glpat-test")

	err := uc.HandleCallback(t.Context(), payloadFor(review, types.ReviewActionApprove))
	gt.NoError(t, err).Required()

	// The remote action is authoritative; the press is still acknowledged
	// as a success even though the audit write failed.
	gt.String(t, tg.lastAnswer()).Contains("approved and merged")
}

func TestHandleCallbackConcurrentPresses(t *testing.T) {
	repo := memory.New()
	gl := &fakeGitLab{}
	tg := &fakeTelegram{}
	uc := usecase.NewCallbackUseCase(repo, gl, tg)

	review := storedReview(t, repo, "glpat-test")

	var eg errgroup.Group
	for i := 0; i < 2; i++ {
		eg.Go(func() error {
			return uc.HandleCallback(t.Context(), payloadFor(review, types.ReviewActionApprove))
		})
	}
	gt.NoError(t, eg.Wait()).Required()

	// No lock serializes presses: both run and each leaves its own record
	gt.Value(t, gl.approves).Equal(2)
	gt.Value(t, gl.merges).Equal(2)

	actions, err := repo.TelegramAction().GetByReview(t.Context(), review.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(2)
}
