package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/refdeck/refdeck/internal/domain"
	"github.com/refdeck/refdeck/internal/logger"
	redisstore "github.com/refdeck/refdeck/internal/store/redis"
)

// FeedSource is the slice of the document store the feed consumes.
type FeedSource interface {
	SubscribeNotifications(ctx context.Context, fn redisstore.NotificationsHandler) (func(), error)
	SetNotificationRead(ctx context.Context, id string) error
	SetNotificationDismissed(ctx context.Context, id string) error
	MarkNotificationsRead(ctx context.Context, ids []string) error
}

// FeedState is the live notification view: visible records newest
// first, dismissed ones filtered out, and the unread count over what
// remains. Err, once set, is terminal.
type FeedState struct {
	Notifications []domain.Notification
	UnreadCount   int
	Err           error
}

// Feed maintains the live notification view and exposes the read/
// dismiss transitions. Per record the states are unread -> read (via
// MarkAsRead) and either -> dismissed (via Dismiss, terminal).
//
// One Feed per owning scope; Start acquires the subscription and Close
// releases it exactly once.
type Feed struct {
	source FeedSource
	logger logger.Logger

	mu    sync.Mutex
	state FeedState

	updates chan FeedState
	cancel  func()
	once    sync.Once
}

// NewFeed creates a notification feed over the given source
func NewFeed(source FeedSource, log logger.Logger) *Feed {
	return &Feed{
		source:  source,
		logger:  log,
		updates: make(chan FeedState, 1),
	}
}

// Start acquires the notification subscription
func (f *Feed) Start(ctx context.Context) error {
	cancel, err := f.source.SubscribeNotifications(ctx, f.onSnapshot)
	if err != nil {
		return fmt.Errorf("failed to subscribe to notifications: %w", err)
	}
	f.cancel = cancel
	return nil
}

// Close releases the subscription. Safe to call more than once.
func (f *Feed) Close() {
	f.once.Do(func() {
		if f.cancel != nil {
			f.cancel()
		}
	})
}

// Updates returns the live view channel, latest-wins
func (f *Feed) Updates() <-chan FeedState {
	return f.updates
}

// Current returns the most recent feed state
func (f *Feed) Current() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// MarkAsRead flips one notification to read
func (f *Feed) MarkAsRead(ctx context.Context, id string) error {
	return f.source.SetNotificationRead(ctx, id)
}

// MarkAllAsRead flips every currently-visible unread notification to
// read in one all-or-nothing batch.
func (f *Feed) MarkAllAsRead(ctx context.Context) error {
	f.mu.Lock()
	ids := make([]string, 0, len(f.state.Notifications))
	for _, n := range f.state.Notifications {
		if !n.Read {
			ids = append(ids, n.ID)
		}
	}
	f.mu.Unlock()

	return f.source.MarkNotificationsRead(ctx, ids)
}

// Dismiss soft-deletes one notification: the record stays in the store,
// the feed stops showing it.
func (f *Feed) Dismiss(ctx context.Context, id string) error {
	return f.source.SetNotificationDismissed(ctx, id)
}

func (f *Feed) onSnapshot(notifications []*domain.Notification, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Err != nil {
		return
	}
	if err != nil {
		f.logger.Error("notification stream failed", logger.Error(err))
		f.state.Err = err
		f.push()
		return
	}

	visible := make([]domain.Notification, 0, len(notifications))
	unread := 0
	for _, n := range notifications {
		if n.Dismissed {
			continue
		}
		visible = append(visible, *n)
		if !n.Read {
			unread++
		}
	}

	f.state = FeedState{Notifications: visible, UnreadCount: unread}
	f.push()
}

// push publishes the current state, dropping the stale value if the
// reader has not caught up. Caller holds the lock.
func (f *Feed) push() {
	select {
	case f.updates <- f.state:
	default:
		select {
		case <-f.updates:
		default:
		}
		f.updates <- f.state
	}
}
