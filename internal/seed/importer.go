package seed

import (
	"context"
	"fmt"

	"github.com/refdeck/refdeck/internal/domain"
	"github.com/refdeck/refdeck/internal/logger"
)

// Store is the slice of the document store the importer writes through.
type Store interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	SaveCatalog(ctx context.Context, categories []*domain.Category, links []*domain.Link) error
}

// Announcer records the completed import in the notification feed.
type Announcer interface {
	System(ctx context.Context, title, message string) error
}

// Importer seeds an empty store from a catalog file. A store that
// already holds categories is left untouched.
type Importer struct {
	filePath  string
	store     Store
	announcer Announcer
	logger    logger.Logger
}

// NewImporter creates a seed importer
func NewImporter(filePath string, store Store, announcer Announcer, log logger.Logger) *Importer {
	return &Importer{
		filePath:  filePath,
		store:     store,
		announcer: announcer,
		logger:    log,
	}
}

// Run performs the import if the store is empty
func (i *Importer) Run(ctx context.Context) error {
	existing, err := i.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing catalog: %w", err)
	}
	if len(existing) > 0 {
		i.logger.Info("store already holds a catalog, skipping seed import",
			logger.Int("categories", len(existing)))
		return nil
	}

	file, err := NewLoader(i.filePath).Load()
	if err != nil {
		return err
	}

	categories, links := NewMapper().Map(file)
	if err := i.store.SaveCatalog(ctx, categories, links); err != nil {
		return err
	}

	i.logger.Info("seed catalog imported",
		logger.Int("categories", len(categories)),
		logger.Int("links", len(links)))

	// Best-effort, same as any other secondary notification write.
	if err := i.announcer.System(ctx, "Catalog Imported",
		fmt.Sprintf("%d categories and %d links imported from seed file", len(categories), len(links))); err != nil {
		i.logger.Warn("notification write failed after seed import", logger.Error(err))
	}
	return nil
}
