package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lomoval/strikeboard/internal/listing"
	"github.com/lomoval/strikeboard/internal/storage"
	log "github.com/sirupsen/logrus"
)

// Sharer performs the external share action for an event.
type Sharer interface {
	Share(ctx context.Context, e storage.Event) error
}

type Option func(*App)

// WithRequiredCategory makes a category mandatory on create.
func WithRequiredCategory(required bool) Option {
	return func(a *App) { a.requireCategory = required }
}

func WithSharer(s Sharer) Option {
	return func(a *App) { a.sharer = s }
}

func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// App runs user actions against the store and keeps the displayed state:
// the last event and category lists that were loaded.
type App struct {
	storage         storage.Storage
	validate        *validator.Validate
	sharer          Sharer
	now             func() time.Time
	requireCategory bool
	deletes         *confirmations

	mu         sync.RWMutex
	events     []storage.Event
	categories []storage.Category
}

func New(storage storage.Storage, opts ...Option) *App {
	a := &App{
		storage:  storage,
		validate: newValidator(),
		now:      time.Now,
		deletes:  newConfirmations(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Refresh reloads events and categories. Concurrent refreshes are not
// ordered: whichever resolves last is displayed. A failed category load
// keeps the previous categories.
func (a *App) Refresh(ctx context.Context) error {
	events, err := a.storage.ListEvents(ctx)
	if err != nil {
		return a.storeError("loading events", err)
	}
	categories, err := a.storage.ListCategories(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to load categories, keeping previous ones")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = events
	if err == nil {
		a.categories = categories
	}
	return nil
}

// View assembles the displayed events for the given filters and sort key.
// Statuses are computed at call time.
func (a *App) View(opts listing.Options) []listing.Item {
	a.mu.RLock()
	events, categories := a.events, a.categories
	a.mu.RUnlock()
	return listing.Assemble(events, categories, opts, a.now())
}

func (a *App) Categories() []storage.Category {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]storage.Category(nil), a.categories...)
}

// Event loads a single event from the store.
func (a *App) Event(ctx context.Context, id string) (listing.Item, error) {
	e, err := a.storage.GetEvent(ctx, id)
	if err != nil {
		return listing.Item{}, a.storeError("loading event", err)
	}
	item := listing.Item{Event: e, Status: listing.Classify(e.StartTime, e.EndTime, a.now())}
	for _, c := range a.Categories() {
		if c.ID == e.CategoryID {
			item.CategoryName = c.Name
			break
		}
	}
	return item, nil
}

func (a *App) Create(ctx context.Context, in EventInput) (storage.Event, error) {
	in = in.trimmed()
	if err := a.validateStruct(in); err != nil {
		return storage.Event{}, err
	}
	if a.requireCategory && in.CategoryID == "" {
		return storage.Event{}, fieldError("categoryId", "required")
	}

	e := storage.Event{
		Title:       in.Title,
		Location:    in.Location,
		Description: in.Description,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		CategoryID:  in.CategoryID,
	}
	if err := a.storage.AddEvent(ctx, &e); err != nil {
		return storage.Event{}, a.storeError("creating event", err)
	}
	a.refreshAfter(ctx, "create")
	return e, nil
}

// Update rewrites the editable fields of an event. An empty category keeps
// the current one.
func (a *App) Update(ctx context.Context, id string, in EventInput) error {
	in = in.trimmed()
	if err := a.validateStruct(in); err != nil {
		return err
	}

	patch := storage.EventPatch{
		Title:       &in.Title,
		Location:    &in.Location,
		Description: &in.Description,
		StartTime:   &in.StartTime,
		EndTime:     &in.EndTime,
	}
	if in.CategoryID != "" {
		patch.CategoryID = &in.CategoryID
	}
	if err := a.storage.UpdateEvent(ctx, id, patch); err != nil {
		return a.storeError("updating event", err)
	}
	a.refreshAfter(ctx, "update")
	return nil
}

// RequestDelete is the first step of a delete; the returned token must be
// passed to ConfirmDelete. A new request for the same event replaces the
// pending token.
func (a *App) RequestDelete(ctx context.Context, id string) (string, error) {
	if _, err := a.storage.GetEvent(ctx, id); err != nil {
		return "", a.storeError("deleting event", err)
	}
	return a.deletes.request(id), nil
}

func (a *App) CancelDelete(token string) {
	a.deletes.cancel(token)
}

// ConfirmDelete consumes the token issued for id and deletes the event. The
// token is consumed even if the store fails.
func (a *App) ConfirmDelete(ctx context.Context, id, token string) error {
	if !a.deletes.take(token, id) {
		return ErrUnknownConfirmation
	}
	if err := a.storage.RemoveEvent(ctx, id); err != nil {
		return a.storeError("deleting event", err)
	}
	a.refreshAfter(ctx, "delete")
	return nil
}

// IncrementParticipants writes the read count plus one. Concurrent
// increments from other clients may be lost: the last write wins.
func (a *App) IncrementParticipants(ctx context.Context, id string) error {
	e, err := a.storage.GetEvent(ctx, id)
	if err != nil {
		return a.storeError("joining event", err)
	}
	count := e.ParticipantsCount + 1
	if err := a.storage.UpdateEvent(ctx, id, storage.EventPatch{ParticipantsCount: &count}); err != nil {
		return a.storeError("joining event", err)
	}
	a.refreshAfter(ctx, "participate")
	return nil
}

func (a *App) ToggleFavorite(ctx context.Context, id string) error {
	e, err := a.storage.GetEvent(ctx, id)
	if err != nil {
		return a.storeError("updating favorite", err)
	}
	favorite := !e.Favorite
	if err := a.storage.UpdateEvent(ctx, id, storage.EventPatch{Favorite: &favorite}); err != nil {
		return a.storeError("updating favorite", err)
	}
	a.refreshAfter(ctx, "favorite")
	return nil
}

// Share runs the external share action and counts the share once it succeeded.
func (a *App) Share(ctx context.Context, id string) error {
	if a.sharer == nil {
		return ErrSharingDisabled
	}
	e, err := a.storage.GetEvent(ctx, id)
	if err != nil {
		return a.storeError("sharing event", err)
	}
	if err := a.sharer.Share(ctx, e); err != nil {
		return a.storeError("sharing event", err)
	}

	count := e.SharedCount + 1
	if err := a.storage.UpdateEvent(ctx, id, storage.EventPatch{SharedCount: &count}); err != nil {
		return a.storeError("sharing event", err)
	}
	a.refreshAfter(ctx, "share")
	return nil
}

// AddComment appends a comment and returns the reloaded comments of the event.
func (a *App) AddComment(ctx context.Context, eventID, authorID, text string) ([]storage.Comment, error) {
	in := commentInput{Text: strings.TrimSpace(text)}
	if err := a.validateStruct(in); err != nil {
		return nil, err
	}

	c := storage.Comment{EventID: eventID, AuthorID: authorID, Text: in.Text}
	if err := a.storage.AddComment(ctx, &c); err != nil {
		return nil, a.storeError("adding comment", err)
	}
	return a.Comments(ctx, eventID)
}

func (a *App) Comments(ctx context.Context, eventID string) ([]storage.Comment, error) {
	comments, err := a.storage.ListComments(ctx, eventID)
	if err != nil {
		return nil, a.storeError("loading comments", err)
	}
	return comments, nil
}

func (a *App) refreshAfter(ctx context.Context, action string) {
	if err := a.Refresh(ctx); err != nil {
		log.WithError(err).WithField("action", action).Warn("failed to refresh events after update")
	}
}

func (a *App) storeError(action string, err error) error {
	log.WithError(err).WithField("action", action).Error("store request failed")
	return &ActionError{Action: action, Err: err}
}
