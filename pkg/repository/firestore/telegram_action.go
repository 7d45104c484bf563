package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type telegramActionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTelegramActionRepository(client *firestore.Client) *telegramActionRepository {
	return &telegramActionRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *telegramActionRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_telegram_actions"
	}
	return "telegram_actions"
}

// Create appends a new audit record. Insert-only: records are written once
// with a fresh document ID and never updated.
func (r *telegramActionRepository) Create(ctx context.Context, action *model.TelegramAction) (*model.TelegramAction, error) {
	created := *action
	if created.ID == "" {
		created.ID = types.NewActionID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	_, err := r.client.Collection(r.collection()).Doc(created.ID.String()).Create(ctx, &created)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create telegram action",
			goerr.V("id", created.ID), goerr.V("review_id", created.ReviewID))
	}

	return &created, nil
}

func (r *telegramActionRepository) GetByReview(ctx context.Context, reviewID types.ReviewID) ([]*model.TelegramAction, error) {
	iter := r.client.Collection(r.collection()).
		Where("ReviewID", "==", reviewID.String()).
		OrderBy("CreatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	return r.collect(iter, reviewID)
}

func (r *telegramActionRepository) List(ctx context.Context, limit int) ([]*model.TelegramAction, error) {
	query := r.client.Collection(r.collection()).OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	return r.collect(iter, "")
}

func (r *telegramActionRepository) collect(iter *firestore.DocumentIterator, reviewID types.ReviewID) ([]*model.TelegramAction, error) {
	actions := make([]*model.TelegramAction, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate telegram actions", goerr.V("review_id", reviewID))
		}

		var action model.TelegramAction
		if err := docSnap.DataTo(&action); err != nil {
			return nil, goerr.Wrap(err, "failed to decode telegram action", goerr.V("doc_id", docSnap.Ref.ID))
		}

		actions = append(actions, &action)
	}

	return actions, nil
}
