package seed

import (
	"time"

	"github.com/refdeck/refdeck/internal/domain"
)

// Mapper converts seed file entries to domain documents
type Mapper struct {
	now func() time.Time
}

// NewMapper creates a new seed mapper
func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// Map converts the seed file into category and link documents. Link
// identifiers come from the entry when given, otherwise from the
// title's slug; entries whose title slugs to nothing are skipped.
// Every link gets a notes block, empty content meaning "no notes".
func (m *Mapper) Map(file File) ([]*domain.Category, []*domain.Link) {
	stamp := m.now().UTC().Format(time.RFC3339)

	categories := make([]*domain.Category, 0, len(file.Categories))
	links := make([]*domain.Link, 0)

	for _, entry := range file.Categories {
		categories = append(categories, &domain.Category{
			ID:          entry.ID,
			Title:       entry.Title,
			Description: entry.Description,
			Icon:        entry.Icon,
		})

		for _, linkEntry := range entry.Links {
			id := linkEntry.ID
			if id == "" {
				id = domain.Slugify(linkEntry.Title)
			}
			if id == "" {
				continue
			}

			links = append(links, &domain.Link{
				ID:         id,
				CategoryID: entry.ID,
				Title:      linkEntry.Title,
				URL:        linkEntry.URL,
				Type:       domain.LinkType(linkEntry.Type),
				Notes: &domain.Notes{
					Content:     linkEntry.Notes,
					LastUpdated: stamp,
				},
			})
		}
	}

	return categories, links
}
