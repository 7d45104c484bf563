package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
)

type settingsRepository struct {
	mu       sync.RWMutex
	settings *model.UserSettings
}

func newSettingsRepository() *settingsRepository {
	return &settingsRepository{}
}

func copySettings(s *model.UserSettings) *model.UserSettings {
	copied := *s
	return &copied
}

func (r *settingsRepository) Get(ctx context.Context) (*model.UserSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return nil, goerr.Wrap(ErrNotFound, "settings not found")
	}

	return copySettings(r.settings), nil
}

func (r *settingsRepository) Put(ctx context.Context, settings *model.UserSettings) (*model.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copySettings(settings)
	if stored.ID == "" {
		stored.ID = types.NewSettingsID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.settings = stored
	return copySettings(stored), nil
}
