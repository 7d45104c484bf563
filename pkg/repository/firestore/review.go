package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type reviewRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newReviewRepository(client *firestore.Client) *reviewRepository {
	return &reviewRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *reviewRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_reviews"
	}
	return "reviews"
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	created := *review
	if created.ID == "" {
		created.ID = types.NewReviewID()
	}
	if created.ReviewedAt.IsZero() {
		created.ReviewedAt = time.Now().UTC()
	}
	issues := make([]model.Issue, len(review.Issues))
	copy(issues, review.Issues)
	for i := range issues {
		if issues[i].ID == "" {
			issues[i].ID = types.NewIssueID()
		}
	}
	created.Issues = issues

	_, err := r.client.Collection(r.collection()).Doc(created.ID.String()).Set(ctx, &created)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create review", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *reviewRepository) Get(ctx context.Context, id types.ReviewID) (*model.Review, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "review not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get review", goerr.V("id", id))
	}

	var review model.Review
	if err := docSnap.DataTo(&review); err != nil {
		return nil, goerr.Wrap(err, "failed to decode review", goerr.V("id", id))
	}

	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context, limit int) ([]*model.Review, error) {
	query := r.client.Collection(r.collection()).OrderBy("ReviewedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	reviews := make([]*model.Review, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate reviews")
		}

		var review model.Review
		if err := docSnap.DataTo(&review); err != nil {
			return nil, goerr.Wrap(err, "failed to decode review", goerr.V("doc_id", docSnap.Ref.ID))
		}

		reviews = append(reviews, &review)
	}

	return reviews, nil
}
