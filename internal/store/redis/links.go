package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/refdeck/refdeck/internal/domain"
)

// PutLink writes a full link document under its category. Timestamps
// follow the same rule as PutCategory.
func (s *Store) PutLink(ctx context.Context, link *domain.Link) error {
	if link.ID == "" || link.CategoryID == "" {
		return fmt.Errorf("link has no ID or category")
	}

	doc := *link
	doc.UpdatedAt = s.now()

	existing, err := s.GetLink(ctx, link.CategoryID, link.ID)
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
		return fmt.Errorf("failed to marshal link: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, LinkKey(link.CategoryID, link.ID), data, 0)
	pipe.SAdd(ctx, KeyAllLinks, LinkMember(link.CategoryID, link.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}

	s.publish(ctx, ChannelLinks, link.ID)
	return nil
}

// PatchLink applies a partial update to an existing link. The link keeps
// the ID it was created with; only document fields change.
func (s *Store) PatchLink(ctx context.Context, categoryID, linkID string, patch domain.LinkPatch) error {
	link, err := s.GetLink(ctx, categoryID, linkID)
	if err != nil {
		return err
	}

	if patch.Title != nil {
		link.Title = *patch.Title
	}
	if patch.URL != nil {
		link.URL = *patch.URL
	}
	if patch.Type != nil {
		link.Type = *patch.Type
	}
	if patch.Notes != nil {
		// Notes are replaced wholesale, never merged
		notes := *patch.Notes
		link.Notes = &notes
	}
	link.UpdatedAt = s.now()

	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}

	if err := s.client.Set(ctx, LinkKey(categoryID, linkID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to patch link: %w", err)
	}

	s.publish(ctx, ChannelLinks, linkID)
	return nil
}

// RemoveLink deletes a link document and its membership
func (s *Store) RemoveLink(ctx context.Context, categoryID, linkID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, LinkKey(categoryID, linkID))
	pipe.SRem(ctx, KeyAllLinks, LinkMember(categoryID, linkID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	s.publish(ctx, ChannelLinks, linkID)
	return nil
}

// GetLink retrieves a link document by its category and ID
func (s *Store) GetLink(ctx context.Context, categoryID, linkID string) (*domain.Link, error) {
	data, err := s.client.Get(ctx, LinkKey(categoryID, linkID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("link %s/%s: %w", categoryID, linkID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	var link domain.Link
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal link: %w", err)
	}
	link.ID = linkID
	link.CategoryID = categoryID

	return &link, nil
}

// ListLinks retrieves the links owned by one category
func (s *Store) ListLinks(ctx context.Context, categoryID string) ([]*domain.Link, error) {
	all, err := s.ListAllLinks(ctx)
	if err != nil {
		return nil, err
	}

	links := make([]*domain.Link, 0)
	for _, link := range all {
		if link.CategoryID == categoryID {
			links = append(links, link)
		}
	}
	return links, nil
}

// ListAllLinks retrieves every link across all categories. Each link's
// CategoryID is rehydrated from its set membership, not from the
// document body.
func (s *Store) ListAllLinks(ctx context.Context) ([]*domain.Link, error) {
	members, err := s.client.SMembers(ctx, KeyAllLinks).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get link members: %w", err)
	}

	links := make([]*domain.Link, 0, len(members))
	for _, member := range members {
		categoryID, linkID, err := SplitLinkMember(member)
		if err != nil {
			continue
		}
		link, err := s.GetLink(ctx, categoryID, linkID)
		if err != nil {
			// Skip documents that couldn't be retrieved
			continue
		}
		links = append(links, link)
	}

	return links, nil
}
