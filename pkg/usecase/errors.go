package usecase

import "errors"

// Sentinel errors for the use case layer
var (
	// Not found errors
	ErrIssueNotFound        = errors.New("issue not found")
	ErrWorkerNotFound       = errors.New("worker not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Validation errors
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrWorkerRequired      = errors.New("worker id is required")
	ErrInvalidStatus       = errors.New("invalid issue status")
	ErrWorkerNotAssignable = errors.New("user cannot be assigned issues")

	// Access control errors
	ErrPermissionDenied = errors.New("permission denied")
)
