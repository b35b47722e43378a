package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/refdeck/refdeck/internal/domain"
)

// PutNotification appends a notification record. The feed orders records
// by event timestamp, so membership is a sorted set scored with it.
func (s *Store) PutNotification(ctx context.Context, notification *domain.Notification) error {
	if notification.ID == "" {
		return fmt.Errorf("notification has no ID")
	}

	doc := *notification
	doc.UpdatedAt = s.now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = doc.UpdatedAt
	}

	data, err := json.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	score := float64(doc.UpdatedAt.UnixMilli())
	if ts, err := time.Parse(time.RFC3339, doc.Timestamp); err == nil {
		score = float64(ts.UnixMilli())
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, NotificationKey(notification.ID), data, 0)
	pipe.ZAdd(ctx, KeyNotificationsByTime, redis.Z{Score: score, Member: notification.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	s.publish(ctx, ChannelNotifications, notification.ID)
	return nil
}

// GetNotification retrieves a notification document by ID
func (s *Store) GetNotification(ctx context.Context, id string) (*domain.Notification, error) {
	data, err := s.client.Get(ctx, NotificationKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	var notification domain.Notification
	if err := json.Unmarshal(data, &notification); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	notification.ID = id

	return &notification, nil
}

// ListNotifications retrieves every notification, newest first.
// Dismissed records are included; filtering them is the feed's job.
func (s *Store) ListNotifications(ctx context.Context) ([]*domain.Notification, error) {
	ids, err := s.client.ZRevRange(ctx, KeyNotificationsByTime, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification IDs: %w", err)
	}

	notifications := make([]*domain.Notification, 0, len(ids))
	for _, id := range ids {
		notification, err := s.GetNotification(ctx, id)
		if err != nil {
			continue
		}
		notifications = append(notifications, notification)
	}

	return notifications, nil
}

// SetNotificationRead flips the read flag on one record
func (s *Store) SetNotificationRead(ctx context.Context, id string) error {
	return s.patchNotification(ctx, id, func(n *domain.Notification) {
		n.Read = true
	})
}

// SetNotificationDismissed soft-deletes one record. The document stays
// in the store; the live feed filters it out.
func (s *Store) SetNotificationDismissed(ctx context.Context, id string) error {
	return s.patchNotification(ctx, id, func(n *domain.Notification) {
		n.Dismissed = true
	})
}

// MarkNotificationsRead flips the read flag on every given record in a
// single transactional batch. All writes commit together or not at all.
func (s *Store) MarkNotificationsRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	now := s.now()
	pipe := s.client.TxPipeline()
	for _, id := range ids {
		notification, err := s.GetNotification(ctx, id)
		if err != nil {
			return err
		}
		notification.Read = true
		notification.UpdatedAt = now

		data, err := json.Marshal(notification)
		if err != nil {
			return fmt.Errorf("failed to marshal notification: %w", err)
		}
		pipe.Set(ctx, NotificationKey(id), data, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	s.publish(ctx, ChannelNotifications, "batch")
	return nil
}

func (s *Store) patchNotification(ctx context.Context, id string, apply func(*domain.Notification)) error {
	notification, err := s.GetNotification(ctx, id)
	if err != nil {
		return err
	}

	apply(notification)
	notification.UpdatedAt = s.now()

	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := s.client.Set(ctx, NotificationKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to patch notification: %w", err)
	}

	s.publish(ctx, ChannelNotifications, id)
	return nil
}
