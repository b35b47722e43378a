package redis

import (
	"context"
	"testing"
	"time"

	"github.com/refdeck/refdeck/internal/domain"
)

func waitForSnapshot[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		panic("unreachable")
	}
}

func TestSubscribeCategoriesDeliversSnapshots(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.PutCategory(ctx, &domain.Category{ID: "tools", Title: "Tools"}); err != nil {
		t.Fatalf("PutCategory failed: %v", err)
	}

	snaps := make(chan []*domain.Category, 8)
	cancel, err := store.SubscribeCategories(ctx, func(categories []*domain.Category, err error) {
		if err != nil {
			t.Errorf("unexpected stream error: %v", err)
			return
		}
		snaps <- categories
	})
	if err != nil {
		t.Fatalf("SubscribeCategories failed: %v", err)
	}
	defer cancel()

	initial := waitForSnapshot(t, snaps)
	if len(initial) != 1 || initial[0].ID != "tools" {
		t.Fatalf("initial snapshot = %+v, want the pre-existing category", initial)
	}

	if err := store.PutCategory(ctx, &domain.Category{ID: "datasets", Title: "Datasets"}); err != nil {
		t.Fatalf("PutCategory failed: %v", err)
	}

	// Keep draining until the commit shows up; the write may race an
	// in-flight snapshot.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-snaps:
			if len(snap) == 2 {
				return
			}
		case <-deadline:
			t.Fatal("never observed the second category in a snapshot")
		}
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	snaps := make(chan []*domain.Link, 8)
	cancel, err := store.SubscribeAllLinks(ctx, func(links []*domain.Link, err error) {
		if err != nil {
			return
		}
		snaps <- links
	})
	if err != nil {
		t.Fatalf("SubscribeAllLinks failed: %v", err)
	}

	waitForSnapshot(t, snaps) // initial empty snapshot
	cancel()
	cancel() // second call must be a no-op

	link := &domain.Link{ID: "qgis", CategoryID: "tools", Title: "QGIS", URL: "https://qgis.org", Type: domain.LinkTypeTool}
	if err := store.PutLink(ctx, link); err != nil {
		t.Fatalf("PutLink failed: %v", err)
	}

	select {
	case snap := <-snaps:
		t.Errorf("snapshot delivered after cancel: %+v", snap)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscribeNotifications(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	snaps := make(chan []*domain.Notification, 8)
	cancel, err := store.SubscribeNotifications(ctx, func(notifications []*domain.Notification, err error) {
		if err != nil {
			return
		}
		snaps <- notifications
	})
	if err != nil {
		t.Fatalf("SubscribeNotifications failed: %v", err)
	}
	defer cancel()

	waitForSnapshot(t, snaps)

	n := &domain.Notification{ID: "n1", Type: domain.NotificationLinkCreated, Title: "New Link Added", Message: "m", Timestamp: "2025-03-01T10:00:00Z"}
	if err := store.PutNotification(ctx, n); err != nil {
		t.Fatalf("PutNotification failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-snaps:
			if len(snap) == 1 && snap[0].ID == "n1" {
				return
			}
		case <-deadline:
			t.Fatal("never observed the notification in a snapshot")
		}
	}
}
