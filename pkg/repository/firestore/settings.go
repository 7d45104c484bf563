package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// settingsDocID is the fixed document ID of the single settings document
const settingsDocID = "default"

type settingsRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSettingsRepository(client *firestore.Client) *settingsRepository {
	return &settingsRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *settingsRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_settings"
	}
	return "settings"
}

func (r *settingsRepository) Get(ctx context.Context) (*model.UserSettings, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(settingsDocID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "settings not found")
		}
		return nil, goerr.Wrap(err, "failed to get settings")
	}

	var settings model.UserSettings
	if err := docSnap.DataTo(&settings); err != nil {
		return nil, goerr.Wrap(err, "failed to decode settings")
	}

	return &settings, nil
}

func (r *settingsRepository) Put(ctx context.Context, settings *model.UserSettings) (*model.UserSettings, error) {
	now := time.Now().UTC()
	stored := *settings
	if stored.ID == "" {
		stored.ID = types.NewSettingsID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	_, err := r.client.Collection(r.collection()).Doc(settingsDocID).Set(ctx, &stored)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store settings")
	}

	return &stored, nil
}
