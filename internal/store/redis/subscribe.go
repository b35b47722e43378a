package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/refdeck/refdeck/internal/domain"
	"github.com/refdeck/refdeck/internal/utils"
)

// Snapshot handlers receive a full snapshot per delivery. A non-nil
// error is terminal: the stream stops and no further snapshots arrive.
type (
	CategoriesHandler    func(categories []*domain.Category, err error)
	LinksHandler         func(links []*domain.Link, err error)
	NotificationsHandler func(notifications []*domain.Notification, err error)
)

// SubscribeCategories delivers an initial snapshot of the category
// collection, then a fresh snapshot after every commit to it. The
// returned cancel func must be called exactly once when the owning
// scope ends; a leaked subscription keeps delivering into it.
func (s *Store) SubscribeCategories(ctx context.Context, fn CategoriesHandler) (func(), error) {
	return s.watch(ctx, ChannelCategories,
		func(ctx context.Context) error {
			categories, err := s.ListCategories(ctx)
			if err != nil {
				return err
			}
			fn(categories, nil)
			return nil
		},
		func(err error) { fn(nil, err) },
	)
}

// SubscribeAllLinks delivers snapshots spanning every category's link
// collection at once. One subscription covers all parents, so category
// churn never requires subscription churn.
func (s *Store) SubscribeAllLinks(ctx context.Context, fn LinksHandler) (func(), error) {
	return s.watch(ctx, ChannelLinks,
		func(ctx context.Context) error {
			links, err := s.ListAllLinks(ctx)
			if err != nil {
				return err
			}
			fn(links, nil)
			return nil
		},
		func(err error) { fn(nil, err) },
	)
}

// SubscribeNotifications delivers full notification snapshots, newest
// first, after every commit to the notification collection.
func (s *Store) SubscribeNotifications(ctx context.Context, fn NotificationsHandler) (func(), error) {
	return s.watch(ctx, ChannelNotifications,
		func(ctx context.Context) error {
			notifications, err := s.ListNotifications(ctx)
			if err != nil {
				return err
			}
			fn(notifications, nil)
			return nil
		},
		func(err error) { fn(nil, err) },
	)
}

// watch subscribes to a collection's event channel and re-delivers a
// snapshot per ping. The pub/sub registration is confirmed before the
// initial snapshot is read, so a commit landing between the two still
// produces a ping and a follow-up snapshot.
func (s *Store) watch(ctx context.Context, channel string, deliver func(context.Context) error, fail func(error)) (func(), error) {
	sub := s.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		utils.Close(sub)
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() { utils.Close(sub) })
	}

	pings := sub.Channel()
	go func() {
		if err := deliver(ctx); err != nil {
			fail(err)
			cancel()
			return
		}
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case _, ok := <-pings:
				if !ok {
					return
				}
				if err := deliver(ctx); err != nil {
					fail(err)
					cancel()
					return
				}
			}
		}
	}()

	return cancel, nil
}
