package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/refdeck/refdeck/internal/domain"
)

type recordedWrite struct {
	notifications []*domain.Notification
	fail          bool
}

func (r *recordedWrite) PutNotification(_ context.Context, n *domain.Notification) error {
	if r.fail {
		return errors.New("store down")
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func TestEmitterTemplates(t *testing.T) {
	tests := []struct {
		name        string
		emit        func(e *Emitter) error
		wantType    domain.NotificationType
		wantTitle   string
		wantMessage string
	}{
		{
			name:        "category created",
			emit:        func(e *Emitter) error { return e.CategoryCreated(context.Background(), "Datasets", "cat-1") },
			wantType:    domain.NotificationCategoryCreated,
			wantTitle:   "New Category Created",
			wantMessage: `Category "Datasets" has been created`,
		},
		{
			name:        "category updated",
			emit:        func(e *Emitter) error { return e.CategoryUpdated(context.Background(), "Datasets", "cat-1") },
			wantType:    domain.NotificationCategoryUpdated,
			wantTitle:   "Category Updated",
			wantMessage: `Category "Datasets" has been updated`,
		},
		{
			name:        "category deleted",
			emit:        func(e *Emitter) error { return e.CategoryDeleted(context.Background(), "Datasets") },
			wantType:    domain.NotificationCategoryDeleted,
			wantTitle:   "Category Deleted",
			wantMessage: `Category "Datasets" has been deleted`,
		},
		{
			name: "link created",
			emit: func(e *Emitter) error {
				return e.LinkCreated(context.Background(), "ERA5", "Datasets", "cat-1", "era5")
			},
			wantType:    domain.NotificationLinkCreated,
			wantTitle:   "New Link Added",
			wantMessage: `Link "ERA5" has been added to Datasets`,
		},
		{
			name: "link updated",
			emit: func(e *Emitter) error {
				return e.LinkUpdated(context.Background(), "ERA5", "Datasets", "cat-1", "era5")
			},
			wantType:    domain.NotificationLinkUpdated,
			wantTitle:   "Link Updated",
			wantMessage: `Link "ERA5" in Datasets has been updated`,
		},
		{
			name:        "link deleted",
			emit:        func(e *Emitter) error { return e.LinkDeleted(context.Background(), "ERA5", "Datasets") },
			wantType:    domain.NotificationLinkDeleted,
			wantTitle:   "Link Deleted",
			wantMessage: `Link "ERA5" has been removed from Datasets`,
		},
		{
			name: "note created",
			emit: func(e *Emitter) error {
				return e.NoteCreated(context.Background(), "ERA5", "Datasets", "cat-1", "era5")
			},
			wantType:    domain.NotificationNoteCreated,
			wantTitle:   "New Note Added",
			wantMessage: `A note has been added to "ERA5" in Datasets`,
		},
		{
			name: "note updated",
			emit: func(e *Emitter) error {
				return e.NoteUpdated(context.Background(), "ERA5", "Datasets", "cat-1", "era5")
			},
			wantType:    domain.NotificationNoteUpdated,
			wantTitle:   "Note Updated",
			wantMessage: `The note for "ERA5" in Datasets has been updated`,
		},
		{
			name:        "system",
			emit:        func(e *Emitter) error { return e.System(context.Background(), "Import Complete", "42 links imported") },
			wantType:    domain.NotificationSystem,
			wantTitle:   "Import Complete",
			wantMessage: "42 links imported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &recordedWrite{}
			emitter := NewEmitter(store)

			if err := tt.emit(emitter); err != nil {
				t.Fatalf("emit failed: %v", err)
			}
			if len(store.notifications) != 1 {
				t.Fatalf("wrote %d notifications, want 1", len(store.notifications))
			}

			n := store.notifications[0]
			if n.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", n.Type, tt.wantType)
			}
			if n.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", n.Title, tt.wantTitle)
			}
			if n.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", n.Message, tt.wantMessage)
			}
			if n.Read || n.Dismissed {
				t.Errorf("fresh notification read=%v dismissed=%v, want false/false", n.Read, n.Dismissed)
			}
			if n.ID == "" {
				t.Error("notification has no ID")
			}
		})
	}
}

func TestEmitterTimestamp(t *testing.T) {
	store := &recordedWrite{}
	at := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	emitter := NewEmitter(store).WithClock(func() time.Time { return at })

	if err := emitter.CategoryCreated(context.Background(), "Datasets", "cat-1"); err != nil {
		t.Fatalf("CategoryCreated failed: %v", err)
	}
	if got := store.notifications[0].Timestamp; got != "2025-03-01T10:30:00Z" {
		t.Errorf("Timestamp = %q", got)
	}
}

func TestEmitterMetadata(t *testing.T) {
	store := &recordedWrite{}
	emitter := NewEmitter(store)

	if err := emitter.LinkCreated(context.Background(), "ERA5", "Datasets", "cat-1", "era5"); err != nil {
		t.Fatalf("LinkCreated failed: %v", err)
	}

	meta := store.notifications[0].Metadata
	if meta == nil {
		t.Fatal("metadata missing")
	}
	if meta.CategoryID != "cat-1" || meta.CategoryTitle != "Datasets" || meta.LinkID != "era5" || meta.LinkTitle != "ERA5" {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestEmitterPropagatesWriteFailure(t *testing.T) {
	store := &recordedWrite{fail: true}
	emitter := NewEmitter(store)

	if err := emitter.CategoryCreated(context.Background(), "Datasets", "cat-1"); err == nil {
		t.Error("want error from failed write")
	}
}
