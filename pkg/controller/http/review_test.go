package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/gt"
	controller "github.com/secmon-lab/aiakos/pkg/controller/http"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
	"github.com/secmon-lab/aiakos/pkg/repository/memory"
	"github.com/secmon-lab/aiakos/pkg/usecase"
)

// stubTelegram satisfies the telegram transport without network I/O
type stubTelegram struct {
	mu   sync.Mutex
	sent []string
}

func (s *stubTelegram) SendMessage(ctx context.Context, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, text)
	return len(s.sent), nil
}

func (s *stubTelegram) AnswerCallback(ctx context.Context, callbackQueryID, text string, showAlert bool) error {
	return nil
}

func (s *stubTelegram) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	return nil
}

// noopGitLab satisfies the gitlab service for routes that never reach it
type noopGitLab struct{}

func (noopGitLab) Approve(ctx context.Context, mrURL, token string) error { return nil }
func (noopGitLab) Merge(ctx context.Context, mrURL, token string) error   { return nil }
func (noopGitLab) Close(ctx context.Context, mrURL, token string) error   { return nil }

func newTestServer(t *testing.T, opts ...controller.Options) *controller.Server {
	t.Helper()

	ucs := usecase.New(memory.New(), noopGitLab{}, &stubTelegram{})
	return controller.New(ucs.Review, ucs.Settings, opts...)
}

func ingestBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"review_data": map[string]any{
			"mr_url":   "https://gitlab.com/g/p/-/merge_requests/7",
			"mr_title": "Add feature",
			"author":   "dev.user",
			"status":   "passed",
		},
	})
	gt.NoError(t, err).Required()
	return body
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains(`"status":"ok"`)
}

func TestIngestReviewEndpoint(t *testing.T) {
	repo := memory.New()
	tg := &stubTelegram{}
	ucs := usecase.New(repo, noopGitLab{}, tg)
	srv := controller.New(ucs.Review, ucs.Settings)

	rec := doJSON(t, srv, http.MethodPost, "/api/reviews", ingestBody(t))
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	var resp struct {
		Review   *model.Review `json:"review"`
		Notified bool          `json:"notified"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()

	gt.Value(t, resp.Review.ID).NotEqual(types.ReviewID(""))
	gt.Bool(t, resp.Notified).True()
	gt.Array(t, tg.sent).Length(1)

	// The stored review is retrievable through the API
	rec = doJSON(t, srv, http.MethodGet, "/api/reviews/"+string(resp.Review.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var got model.Review
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got)).Required()
	gt.Value(t, got.MRTitle).Equal("Add feature")
}

func TestIngestReviewRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t)

	t.Run("malformed body", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/reviews", []byte("{{{"))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("missing review_data", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/reviews", []byte(`{}`))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("invalid review", func(t *testing.T) {
		body := []byte(`{"review_data": {"mr_url": "https://gitlab.com/g/p/-/merge_requests/7", "status": "passed"}}`)
		rec := doJSON(t, srv, http.MethodPost, "/api/reviews", body)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		gt.String(t, rec.Body.String()).Contains("mr_title")
	})
}

func TestListReviewsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/reviews", ingestBody(t))
		gt.Value(t, rec.Code).Equal(http.StatusCreated)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/reviews?limit=2", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Reviews []*model.Review `json:"reviews"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Array(t, resp.Reviews).Length(2)

	t.Run("invalid limit rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/reviews?limit=abc", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("empty store returns empty array", func(t *testing.T) {
		empty := newTestServer(t)
		rec := doJSON(t, empty, http.MethodGet, "/api/reviews", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, strings.TrimSpace(rec.Body.String())).Contains(`"reviews":[]`)
	})
}

func TestGetReviewNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/reviews/missing", nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestListActionsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/reviews", ingestBody(t))
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	var resp struct {
		Review *model.Review `json:"review"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()

	rec = doJSON(t, srv, http.MethodGet, "/api/reviews/"+string(resp.Review.ID)+"/actions", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains(`"actions":[]`)

	t.Run("missing review", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/reviews/missing/actions", nil)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestSettingsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var defaults model.UserSettings
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &defaults)).Required()
	gt.Bool(t, defaults.TelegramEnabled).True()

	rec = doJSON(t, srv, http.MethodPut, "/api/settings", []byte(`{"telegram_enabled": false, "auto_review_enabled": true}`))
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var got model.UserSettings
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got)).Required()
	gt.Bool(t, got.TelegramEnabled).False()
	gt.Bool(t, got.AutoReviewEnabled).True()
}
