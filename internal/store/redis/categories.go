package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/refdeck/refdeck/internal/domain"
)

// PutCategory writes a full category document. UpdatedAt is stamped on
// every write; CreatedAt is stamped on the first write and preserved
// on all later ones.
func (s *Store) PutCategory(ctx context.Context, category *domain.Category) error {
	if category.ID == "" {
		return fmt.Errorf("category has no ID")
	}

	doc := *category
	doc.Links = nil
	doc.UpdatedAt = s.now()

	existing, err := s.GetCategory(ctx, category.ID)
	switch {
	case err == nil:
		doc.CreatedAt = existing.CreatedAt
	case errors.Is(err, ErrNotFound):
		doc.CreatedAt = doc.UpdatedAt
	default:
		return err
	}

	data, err := json.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal category: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, CategoryKey(category.ID), data, 0)
	pipe.SAdd(ctx, KeyAllCategories, category.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}

	s.publish(ctx, ChannelCategories, category.ID)
	return nil
}

// PatchCategory applies a partial update to an existing category.
func (s *Store) PatchCategory(ctx context.Context, id string, patch domain.CategoryPatch) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	if patch.Title != nil {
		category.Title = *patch.Title
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}
	if patch.Icon != nil {
		category.Icon = *patch.Icon
	}
	category.UpdatedAt = s.now()

	data, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("failed to marshal category: %w", err)
	}

	if err := s.client.Set(ctx, CategoryKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to patch category: %w", err)
	}

	s.publish(ctx, ChannelCategories, id)
	return nil
}

// RemoveCategory deletes the category document and its membership.
// Link documents under the category are left in place; the merged tree
// simply stops showing them (no cascade).
func (s *Store) RemoveCategory(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, CategoryKey(id))
	pipe.SRem(ctx, KeyAllCategories, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.publish(ctx, ChannelCategories, id)
	return nil
}

// GetCategory retrieves a category document by ID
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	data, err := s.client.Get(ctx, CategoryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	var category domain.Category
	if err := json.Unmarshal(data, &category); err != nil {
		return nil, fmt.Errorf("failed to unmarshal category: %w", err)
	}
	category.ID = id

	return &category, nil
}

// ListCategories retrieves all category documents (links not populated)
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	ids, err := s.client.SMembers(ctx, KeyAllCategories).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get category IDs: %w", err)
	}

	categories := make([]*domain.Category, 0, len(ids))
	for _, id := range ids {
		category, err := s.GetCategory(ctx, id)
		if err != nil {
			// Skip documents that couldn't be retrieved
			continue
		}
		categories = append(categories, category)
	}

	return categories, nil
}

// publish signals a collection commit. Subscribers re-read snapshots, so
// the payload only matters for debugging.
func (s *Store) publish(ctx context.Context, channel, id string) {
	_ = s.client.Publish(ctx, channel, id).Err()
}
