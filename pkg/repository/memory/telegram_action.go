package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
)

type telegramActionRepository struct {
	mu      sync.RWMutex
	actions map[types.ActionID]*model.TelegramAction
}

func newTelegramActionRepository() *telegramActionRepository {
	return &telegramActionRepository{
		actions: make(map[types.ActionID]*model.TelegramAction),
	}
}

func copyTelegramAction(a *model.TelegramAction) *model.TelegramAction {
	copied := *a
	return &copied
}

func (r *telegramActionRepository) Create(ctx context.Context, action *model.TelegramAction) (*model.TelegramAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyTelegramAction(action)
	if created.ID == "" {
		created.ID = types.NewActionID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.actions[created.ID] = created
	return copyTelegramAction(created), nil
}

func (r *telegramActionRepository) GetByReview(ctx context.Context, reviewID types.ReviewID) ([]*model.TelegramAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]*model.TelegramAction, 0)
	for _, action := range r.actions {
		if action.ReviewID == reviewID {
			actions = append(actions, copyTelegramAction(action))
		}
	}

	sort.Slice(actions, func(i, j int) bool {
		return actions[i].CreatedAt.After(actions[j].CreatedAt)
	})

	return actions, nil
}

func (r *telegramActionRepository) List(ctx context.Context, limit int) ([]*model.TelegramAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]*model.TelegramAction, 0, len(r.actions))
	for _, action := range r.actions {
		actions = append(actions, copyTelegramAction(action))
	}

	sort.Slice(actions, func(i, j int) bool {
		return actions[i].CreatedAt.After(actions[j].CreatedAt)
	})

	if limit > 0 && len(actions) > limit {
		actions = actions[:limit]
	}

	return actions, nil
}
