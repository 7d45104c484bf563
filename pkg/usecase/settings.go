package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/interfaces"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
)

// SettingsUseCase reads and writes the settings document
type SettingsUseCase struct {
	repo interfaces.Repository
}

func NewSettingsUseCase(repo interfaces.Repository) *SettingsUseCase {
	return &SettingsUseCase{
		repo: repo,
	}
}

// GetSettings returns the stored settings, or the defaults when none exist yet
func (uc *SettingsUseCase) GetSettings(ctx context.Context) (*model.UserSettings, error) {
	settings, err := uc.repo.Settings().Get(ctx)
	if err != nil {
		return model.DefaultUserSettings(), nil
	}
	return settings, nil
}

// PutSettings stores the settings document
func (uc *SettingsUseCase) PutSettings(ctx context.Context, settings *model.UserSettings) (*model.UserSettings, error) {
	stored, err := uc.repo.Settings().Put(ctx, settings)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store settings")
	}
	return stored, nil
}
