package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
)

type reviewRepository struct {
	mu      sync.RWMutex
	reviews map[types.ReviewID]*model.Review
}

func newReviewRepository() *reviewRepository {
	return &reviewRepository{
		reviews: make(map[types.ReviewID]*model.Review),
	}
}

// copyReview creates a deep copy of a review
func copyReview(r *model.Review) *model.Review {
	issues := make([]model.Issue, len(r.Issues))
	copy(issues, r.Issues)

	copied := *r
	copied.Issues = issues
	return &copied
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyReview(review)
	if created.ID == "" {
		created.ID = types.NewReviewID()
	}
	if created.ReviewedAt.IsZero() {
		created.ReviewedAt = time.Now().UTC()
	}
	for i := range created.Issues {
		if created.Issues[i].ID == "" {
			created.Issues[i].ID = types.NewIssueID()
		}
	}

	r.reviews[created.ID] = created
	return copyReview(created), nil
}

func (r *reviewRepository) Get(ctx context.Context, id types.ReviewID) (*model.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, exists := r.reviews[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "review not found", goerr.V("id", id))
	}

	return copyReview(review), nil
}

func (r *reviewRepository) List(ctx context.Context, limit int) ([]*model.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reviews := make([]*model.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		reviews = append(reviews, copyReview(review))
	}

	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].ReviewedAt.After(reviews[j].ReviewedAt)
	})

	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}

	return reviews, nil
}
