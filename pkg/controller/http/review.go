package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
	"github.com/secmon-lab/aiakos/pkg/usecase"
	"github.com/secmon-lab/aiakos/pkg/utils/errutil"
	"github.com/secmon-lab/aiakos/pkg/utils/safe"
)

// ReviewUseCase ingests completed reviews and serves review queries
type ReviewUseCase interface {
	IngestReview(ctx context.Context, review *model.Review) (*model.Review, bool, error)
	GetReview(ctx context.Context, id types.ReviewID) (*model.Review, error)
	ListReviews(ctx context.Context, limit int) ([]*model.Review, error)
	ListActions(ctx context.Context, reviewID types.ReviewID) ([]*model.TelegramAction, error)
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// ingestReviewHandler accepts a completed review, stores it and dispatches the
// chat notification
func ingestReviewHandler(uc ReviewUseCase) http.HandlerFunc {
	type request struct {
		ReviewData *model.Review `json:"review_data"`
	}
	type response struct {
		Review   *model.Review `json:"review"`
		Notified bool          `json:"notified"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode review request"), http.StatusBadRequest)
			return
		}
		if req.ReviewData == nil {
			errutil.HandleHTTP(ctx, w, goerr.New("review_data is required"), http.StatusBadRequest)
			return
		}

		stored, notified, err := uc.IngestReview(ctx, req.ReviewData)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to ingest review"), http.StatusBadRequest)
			return
		}

		respondJSON(w, r, http.StatusCreated, response{Review: stored, Notified: notified})
	}
}

func listReviewsHandler(uc ReviewUseCase) http.HandlerFunc {
	type response struct {
		Reviews []*model.Review `json:"reviews"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				errutil.HandleHTTP(ctx, w, goerr.New("invalid limit", goerr.V("limit", raw)), http.StatusBadRequest)
				return
			}
			limit = n
		}

		reviews, err := uc.ListReviews(ctx, limit)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to list reviews"), http.StatusInternalServerError)
			return
		}
		if reviews == nil {
			reviews = []*model.Review{}
		}

		respondJSON(w, r, http.StatusOK, response{Reviews: reviews})
	}
}

func getReviewHandler(uc ReviewUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := types.ReviewID(chi.URLParam(r, "id"))

		review, err := uc.GetReview(ctx, id)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, usecase.ErrReviewNotFound) {
				status = http.StatusNotFound
			}
			errutil.HandleHTTP(ctx, w, err, status)
			return
		}

		respondJSON(w, r, http.StatusOK, review)
	}
}

func listActionsHandler(uc ReviewUseCase) http.HandlerFunc {
	type response struct {
		Actions []*model.TelegramAction `json:"actions"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := types.ReviewID(chi.URLParam(r, "id"))

		actions, err := uc.ListActions(ctx, id)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, usecase.ErrReviewNotFound) {
				status = http.StatusNotFound
			}
			errutil.HandleHTTP(ctx, w, err, status)
			return
		}
		if actions == nil {
			actions = []*model.TelegramAction{}
		}

		respondJSON(w, r, http.StatusOK, response{Actions: actions})
	}
}
