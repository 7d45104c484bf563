package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/aiakos/pkg/domain/interfaces"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
)

func runSettingsRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Get before Put fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Settings().Get(ctx)
		gt.Error(t, err)
	})

	t.Run("Put then Get round-trips", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		stored, err := repo.Settings().Put(ctx, &model.UserSettings{
			GitLabToken:       "glpat-settings",
			TelegramEnabled:   true,
			AutoReviewEnabled: false,
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, stored.UpdatedAt.IsZero()).False()

		got, err := repo.Settings().Get(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, got.GitLabToken).Equal("glpat-settings")
		gt.Bool(t, got.TelegramEnabled).True()
		gt.Bool(t, got.AutoReviewEnabled).False()
	})

	t.Run("Put overwrites and bumps UpdatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Settings().Put(ctx, &model.UserSettings{TelegramEnabled: true})
		gt.NoError(t, err).Required()

		second, err := repo.Settings().Put(ctx, &model.UserSettings{
			ID:              first.ID,
			CreatedAt:       first.CreatedAt,
			TelegramEnabled: false,
		})
		gt.NoError(t, err).Required()

		got, err := repo.Settings().Get(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, got.TelegramEnabled).False()
		gt.Value(t, got.ID).Equal(first.ID)
		gt.Bool(t, second.UpdatedAt.Before(first.UpdatedAt)).False()
	})
}

func TestMemorySettingsRepository(t *testing.T) {
	runSettingsRepositoryTest(t, newMemoryRepo)
}

func TestFirestoreSettingsRepository(t *testing.T) {
	runSettingsRepositoryTest(t, newFirestoreRepo)
}
