package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/aiakos/pkg/domain/interfaces"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
)

func runTelegramActionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create fills ID and timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.TelegramAction().Create(ctx, &model.TelegramAction{
			ReviewID: types.ReviewID("r1"),
			MRURL:    "https://gitlab.com/g/p/-/merge_requests/1",
			Action:   types.ReviewActionApprove,
			Status:   types.ActionStatusSuccess,
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(types.ActionID(""))
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("repeated presses append records", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		reviewID := types.ReviewID("r2")
		for i := 0; i < 2; i++ {
			_, err := repo.TelegramAction().Create(ctx, &model.TelegramAction{
				ReviewID:  reviewID,
				MRURL:     "https://gitlab.com/g/p/-/merge_requests/2",
				Action:    types.ReviewActionApprove,
				Status:    types.ActionStatusSuccess,
				CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
			})
			gt.NoError(t, err).Required()
		}

		actions, err := repo.TelegramAction().GetByReview(ctx, reviewID)
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(2)
	})

	t.Run("GetByReview filters by review and orders newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Add(-time.Hour)
		for i, reviewID := range []types.ReviewID{"r3", "r3", "other"} {
			_, err := repo.TelegramAction().Create(ctx, &model.TelegramAction{
				ReviewID:     reviewID,
				MRURL:        "https://gitlab.com/g/p/-/merge_requests/3",
				Action:       types.ReviewActionDecline,
				Status:       types.ActionStatusFailed,
				ErrorMessage: "remote call failed " + string(rune('A'+i)),
				CreatedAt:    base.Add(time.Duration(i) * time.Minute),
			})
			gt.NoError(t, err).Required()
		}

		actions, err := repo.TelegramAction().GetByReview(ctx, types.ReviewID("r3"))
		gt.NoError(t, err).Required()

		gt.Array(t, actions).Length(2)
		gt.String(t, actions[0].ErrorMessage).Contains("B")
		gt.String(t, actions[1].ErrorMessage).Contains("A")
	})

	t.Run("List honors limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := repo.TelegramAction().Create(ctx, &model.TelegramAction{
				ReviewID: types.ReviewID("r4"),
				MRURL:    "https://gitlab.com/g/p/-/merge_requests/4",
				Action:   types.ReviewActionApprove,
				Status:   types.ActionStatusSuccess,
			})
			gt.NoError(t, err).Required()
		}

		actions, err := repo.TelegramAction().List(ctx, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(2)
	})
}

func TestMemoryTelegramActionRepository(t *testing.T) {
	runTelegramActionRepositoryTest(t, newMemoryRepo)
}

func TestFirestoreTelegramActionRepository(t *testing.T) {
	runTelegramActionRepositoryTest(t, newFirestoreRepo)
}
