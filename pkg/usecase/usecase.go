package usecase

import (
	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
)

type UseCases struct {
	repo     interfaces.Repository
	enqueuer interfaces.StageEnqueuer

	Issue        *IssueUseCase
	Notification *NotificationUseCase
	Auth         AuthUseCaseInterface
}

type Option func(*UseCases)

// WithEnqueuer wires the pipeline dispatcher. Without it, issue creation
// still succeeds but reports the pipeline as failed.
func WithEnqueuer(enqueuer interfaces.StageEnqueuer) Option {
	return func(uc *UseCases) {
		uc.enqueuer = enqueuer
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Issue = NewIssueUseCase(repo, uc.enqueuer)
	uc.Notification = NewNotificationUseCase(repo)

	return uc
}
