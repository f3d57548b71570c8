// Package store provides the keyword entry storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/qa-keywords/internal/model"
)

var (
	// ErrValidation marks input rejected before any write.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence marks a storage failure; the transaction was rolled back.
	ErrPersistence = errors.New("persistence failed")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("store closed")
)

// ValueInput is one reply value handed to Add.
type ValueInput struct {
	Type    model.ValueType `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=TEXT IMAGE_URL FILE_URL MARKDOWN"`
	Content string          `json:"content" yaml:"content" validate:"required"`
	Order   *int            `json:"order,omitempty" yaml:"order,omitempty"`
}

// AddParams holds parameters for storing an entry.
type AddParams struct {
	Scope     string          `validate:"required"`
	Keyword   string          `validate:"required"`
	Values    []ValueInput    `validate:"required,min=1,dive"`
	MatchType model.MatchType `validate:"omitempty,oneof=EXACT FUZZY REGEX"`
	Status    model.Status    `validate:"omitempty,oneof=ACTIVE INACTIVE ARCHIVED"`
	Priority  int
}

// UpdateParams holds the entry fields to change for a scope/keyword pair.
// Nil fields are left untouched.
type UpdateParams struct {
	Scope    string
	Keyword  string
	Status   *model.Status
	Priority *int
}

// DeleteOutcome reports what Delete did.
type DeleteOutcome string

const (
	Deleted  DeleteOutcome = "deleted"
	NotFound DeleteOutcome = "not_found"
	Failed   DeleteOutcome = "failed"
)

// DeleteResult is the outcome of Delete with the number of entries removed.
type DeleteResult struct {
	Outcome  DeleteOutcome `json:"outcome"`
	Affected int64         `json:"affected"`
}

// Store defines the keyword entry storage interface.
type Store interface {
	// Add stores an entry with its values atomically and returns the entry ID.
	Add(ctx context.Context, p AddParams) (string, error)

	// Get returns the resolved values for a keyword, empty when nothing is active.
	Get(ctx context.Context, scope, keyword string) ([]model.ResolvedValue, error)

	// ListScope returns every active keyword of a scope with its resolved values.
	ListScope(ctx context.Context, scope string) (model.ScopeIndex, error)

	// Update changes status and/or priority of every entry for the keyword.
	Update(ctx context.Context, p UpdateParams) (int64, error)

	// Delete removes every entry for the keyword along with its values.
	Delete(ctx context.Context, scope, keyword string) (DeleteResult, error)

	// ListScopes returns all scopes holding active keywords.
	ListScopes(ctx context.Context) ([]ScopeSummary, error)

	// Close closes the store.
	Close() error
}
