package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/refdeck/refdeck/internal/domain"
)

// Recorder is the single write the emitter needs from the store.
type Recorder interface {
	PutNotification(ctx context.Context, notification *domain.Notification) error
}

// Emitter builds typed notification records from fixed per-kind
// templates and persists each with one write. It never reads existing
// notifications and never deduplicates.
type Emitter struct {
	store Recorder
	newID func() string
	now   func() time.Time
}

// NewEmitter creates a notification emitter over the given store
func NewEmitter(store Recorder) *Emitter {
	return &Emitter{
		store: store,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// WithClock overrides the timestamp source. Test hook.
func (e *Emitter) WithClock(now func() time.Time) *Emitter {
	e.now = now
	return e
}

func (e *Emitter) emit(ctx context.Context, kind domain.NotificationType, title, message string, meta *domain.NotificationMeta) error {
	notification := &domain.Notification{
		ID:        e.newID(),
		Type:      kind,
		Title:     title,
		Message:   message,
		Timestamp: e.now().UTC().Format(time.RFC3339),
		Read:      false,
		Dismissed: false,
		Metadata:  meta,
	}
	if err := e.store.PutNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to record %s notification: %w", kind, err)
	}
	return nil
}

func (e *Emitter) CategoryCreated(ctx context.Context, categoryTitle, categoryID string) error {
	return e.emit(ctx, domain.NotificationCategoryCreated,
		"New Category Created",
		fmt.Sprintf("Category %q has been created", categoryTitle),
		&domain.NotificationMeta{CategoryID: categoryID, CategoryTitle: categoryTitle})
}

func (e *Emitter) CategoryUpdated(ctx context.Context, categoryTitle, categoryID string) error {
	return e.emit(ctx, domain.NotificationCategoryUpdated,
		"Category Updated",
		fmt.Sprintf("Category %q has been updated", categoryTitle),
		&domain.NotificationMeta{CategoryID: categoryID, CategoryTitle: categoryTitle})
}

func (e *Emitter) CategoryDeleted(ctx context.Context, categoryTitle string) error {
	return e.emit(ctx, domain.NotificationCategoryDeleted,
		"Category Deleted",
		fmt.Sprintf("Category %q has been deleted", categoryTitle),
		&domain.NotificationMeta{CategoryTitle: categoryTitle})
}

func (e *Emitter) LinkCreated(ctx context.Context, linkTitle, categoryTitle, categoryID, linkID string) error {
	return e.emit(ctx, domain.NotificationLinkCreated,
		"New Link Added",
		fmt.Sprintf("Link %q has been added to %s", linkTitle, categoryTitle),
		&domain.NotificationMeta{CategoryID: categoryID, CategoryTitle: categoryTitle, LinkID: linkID, LinkTitle: linkTitle})
}

func (e *Emitter) LinkUpdated(ctx context.Context, linkTitle, categoryTitle, categoryID, linkID string) error {
	return e.emit(ctx, domain.NotificationLinkUpdated,
		"Link Updated",
		fmt.Sprintf("Link %q in %s has been updated", linkTitle, categoryTitle),
		&domain.NotificationMeta{CategoryID: categoryID, CategoryTitle: categoryTitle, LinkID: linkID, LinkTitle: linkTitle})
}

func (e *Emitter) LinkDeleted(ctx context.Context, linkTitle, categoryTitle string) error {
	return e.emit(ctx, domain.NotificationLinkDeleted,
		"Link Deleted",
		fmt.Sprintf("Link %q has been removed from %s", linkTitle, categoryTitle),
		&domain.NotificationMeta{CategoryTitle: categoryTitle, LinkTitle: linkTitle})
}

func (e *Emitter) NoteCreated(ctx context.Context, linkTitle, categoryTitle, categoryID, linkID string) error {
	return e.emit(ctx, domain.NotificationNoteCreated,
		"New Note Added",
		fmt.Sprintf("A note has been added to %q in %s", linkTitle, categoryTitle),
		&domain.NotificationMeta{CategoryID: categoryID, CategoryTitle: categoryTitle, LinkID: linkID, LinkTitle: linkTitle})
}

func (e *Emitter) NoteUpdated(ctx context.Context, linkTitle, categoryTitle, categoryID, linkID string) error {
	return e.emit(ctx, domain.NotificationNoteUpdated,
		"Note Updated",
		fmt.Sprintf("The note for %q in %s has been updated", linkTitle, categoryTitle),
		&domain.NotificationMeta{CategoryID: categoryID, CategoryTitle: categoryTitle, LinkID: linkID, LinkTitle: linkTitle})
}

// System records an operational event not tied to a single entity,
// e.g. a completed catalog import.
func (e *Emitter) System(ctx context.Context, title, message string) error {
	return e.emit(ctx, domain.NotificationSystem, title, message, nil)
}
