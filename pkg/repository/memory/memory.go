package memory

import (
	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/repository"
)

// ErrNotFound is the shared not-found sentinel re-exported for this backend
var ErrNotFound = repository.ErrNotFound

// Memory is an in-memory repository for development and testing
type Memory struct {
	issue        *issueRepository
	category     *categoryRepository
	user         *userRepository
	agentAction  *agentActionRepository
	notification *notificationRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		issue:        newIssueRepository(),
		category:     newCategoryRepository(),
		user:         newUserRepository(),
		agentAction:  newAgentActionRepository(),
		notification: newNotificationRepository(),
	}
}

func (m *Memory) Issue() interfaces.IssueRepository {
	return m.issue
}

func (m *Memory) Category() interfaces.CategoryRepository {
	return m.category
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) AgentAction() interfaces.AgentActionRepository {
	return m.agentAction
}

func (m *Memory) Notification() interfaces.NotificationRepository {
	return m.notification
}

func (m *Memory) Close() error {
	return nil
}
