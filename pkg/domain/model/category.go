package model

import (
	"time"

	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// Category is an issue category. Categorization looks categories up by exact
// name match; there is no fuzzy matching.
type Category struct {
	ID              types.CategoryID
	Name            string
	Description     string
	DefaultAssignee string // Optional hint for future auto assignment
	CreatedAt       time.Time
}
