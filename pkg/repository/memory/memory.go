package memory

import (
	"github.com/secmon-lab/aiakos/pkg/domain/interfaces"
)

// Repository is an alias for Memory
type Repository = Memory

// Memory is the in-memory repository backend, used by tests and development
type Memory struct {
	review   *reviewRepository
	action   *telegramActionRepository
	settings *settingsRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		review:   newReviewRepository(),
		action:   newTelegramActionRepository(),
		settings: newSettingsRepository(),
	}
}

func (m *Memory) Review() interfaces.ReviewRepository {
	return m.review
}

func (m *Memory) TelegramAction() interfaces.TelegramActionRepository {
	return m.action
}

func (m *Memory) Settings() interfaces.SettingsRepository {
	return m.settings
}

func (m *Memory) Close() error {
	return nil
}
