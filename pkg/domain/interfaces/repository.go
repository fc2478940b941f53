package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Issue() IssueRepository
	Category() CategoryRepository
	User() UserRepository
	AgentAction() AgentActionRepository
	Notification() NotificationRepository

	Close() error
}
