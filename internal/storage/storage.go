package storage

import (
	"context"
	"errors"
)

var (
	ErrDuplicateEventID   = errors.New("event with same ID exists")
	ErrNotFoundEvent      = errors.New("event not found")
	ErrNotFoundCategory   = errors.New("category not found")
	ErrIncorrectEventTime = errors.New("incorrect event time")
	ErrEmptyPatch         = errors.New("nothing to update")
)

// Storage is the external data store. Events are listed by start time
// ascending, categories by name, comments newest first.
type Storage interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error

	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	AddEvent(ctx context.Context, e *Event) error
	UpdateEvent(ctx context.Context, id string, patch EventPatch) error
	RemoveEvent(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]Category, error)
	AddCategory(ctx context.Context, c *Category) error

	AddComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, eventID string) ([]Comment, error)
}
