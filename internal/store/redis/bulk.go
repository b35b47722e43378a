package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/refdeck/refdeck/internal/domain"
)

// maxBatchOps caps the number of commands per import pipeline.
const maxBatchOps = 500

// SaveCatalog bulk-writes categories and links in pipelined batches.
// Meant for seeding an empty store: both timestamps are stamped fresh,
// and a single ping per touched collection is published at the end
// instead of one per document.
func (s *Store) SaveCatalog(ctx context.Context, categories []*domain.Category, links []*domain.Link) error {
	now := s.now()
	pipe := s.client.TxPipeline()
	ops := 0

	flush := func() error {
		if ops == 0 {
			return nil
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to save catalog batch: %w", err)
		}
		pipe = s.client.TxPipeline()
		ops = 0
		return nil
	}

	for _, category := range categories {
		doc := *category
		doc.Links = nil
		doc.CreatedAt = now
		doc.UpdatedAt = now

		data, err := json.Marshal(&doc)
		if err != nil {
			return fmt.Errorf("failed to marshal category %s: %w", category.ID, err)
		}
		pipe.Set(ctx, CategoryKey(category.ID), data, 0)
		pipe.SAdd(ctx, KeyAllCategories, category.ID)
		ops += 2

		if ops >= maxBatchOps {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	for _, link := range links {
		doc := *link
		doc.CreatedAt = now
		doc.UpdatedAt = now

		data, err := json.Marshal(&doc)
		if err != nil {
			return fmt.Errorf("failed to marshal link %s: %w", link.ID, err)
		}
		pipe.Set(ctx, LinkKey(link.CategoryID, link.ID), data, 0)
		pipe.SAdd(ctx, KeyAllLinks, LinkMember(link.CategoryID, link.ID))
		ops += 2

		if ops >= maxBatchOps {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	if len(categories) > 0 {
		s.publish(ctx, ChannelCategories, "import")
	}
	if len(links) > 0 {
		s.publish(ctx, ChannelLinks, "import")
	}
	return nil
}
