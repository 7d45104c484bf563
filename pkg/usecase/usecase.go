package usecase

import (
	"github.com/secmon-lab/aiakos/pkg/domain/interfaces"
	"github.com/secmon-lab/aiakos/pkg/service/gitlab"
	"github.com/secmon-lab/aiakos/pkg/service/telegram"
)

type UseCases struct {
	repo interfaces.Repository

	Review   *ReviewUseCase
	Callback *CallbackUseCase
	Notify   *NotifyUseCase
	Settings *SettingsUseCase
}

type Option func(*UseCases)

func New(repo interfaces.Repository, gitlabSvc gitlab.Service, telegramSvc telegram.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Notify = NewNotifyUseCase(telegramSvc)
	uc.Callback = NewCallbackUseCase(repo, gitlabSvc, telegramSvc)
	uc.Review = NewReviewUseCase(repo, uc.Notify)
	uc.Settings = NewSettingsUseCase(repo)

	return uc
}
