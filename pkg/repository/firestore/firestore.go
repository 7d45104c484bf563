package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/interfaces"
)

// Firestore is the production repository backend
type Firestore struct {
	client   *firestore.Client
	review   *reviewRepository
	action   *telegramActionRepository
	settings *settingsRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, for sharing a database
// between environments
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.review.collectionPrefix = prefix
		f.action.collectionPrefix = prefix
		f.settings.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:   client,
		review:   newReviewRepository(client),
		action:   newTelegramActionRepository(client),
		settings: newSettingsRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Review() interfaces.ReviewRepository {
	return f.review
}

func (f *Firestore) TelegramAction() interfaces.TelegramActionRepository {
	return f.action
}

func (f *Firestore) Settings() interfaces.SettingsRepository {
	return f.settings
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
