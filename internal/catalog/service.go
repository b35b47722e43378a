package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/refdeck/refdeck/internal/domain"
	"github.com/refdeck/refdeck/internal/logger"
)

// unknownCategory is the fallback title when the owning category can't
// be read while building a link notification.
const unknownCategory = "Unknown Category"

// Store is the mutation surface the service needs from the document store.
type Store interface {
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	PutCategory(ctx context.Context, category *domain.Category) error
	PatchCategory(ctx context.Context, id string, patch domain.CategoryPatch) error
	RemoveCategory(ctx context.Context, id string) error
	PutLink(ctx context.Context, link *domain.Link) error
	PatchLink(ctx context.Context, categoryID, linkID string, patch domain.LinkPatch) error
	RemoveLink(ctx context.Context, categoryID, linkID string) error
}

// Notifier records lifecycle events after successful mutations.
type Notifier interface {
	CategoryCreated(ctx context.Context, categoryTitle, categoryID string) error
	CategoryUpdated(ctx context.Context, categoryTitle, categoryID string) error
	CategoryDeleted(ctx context.Context, categoryTitle string) error
	LinkCreated(ctx context.Context, linkTitle, categoryTitle, categoryID, linkID string) error
	LinkUpdated(ctx context.Context, linkTitle, categoryTitle, categoryID, linkID string) error
	LinkDeleted(ctx context.Context, linkTitle, categoryTitle string) error
	NoteUpdated(ctx context.Context, linkTitle, categoryTitle, categoryID, linkID string) error
}

// Service is the mutation service for categories and links.
//
// Every operation performs exactly one primary write, then emits a
// matching notification best-effort: a failed notification write is
// logged and never flips the reported result, and a failed primary
// write is never masked by a notification outcome. Operations return
// booleans and do not panic across this boundary.
type Service struct {
	store    Store
	notifier Notifier
	logger   logger.Logger
	newID    func() string
	now      func() time.Time
}

// NewService creates the mutation service
func NewService(store Store, notifier Notifier, log logger.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   log,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// AddCategory creates a category with an empty link set. The generated
// ID is written back onto the argument.
func (s *Service) AddCategory(ctx context.Context, category *domain.Category) bool {
	if strings.TrimSpace(category.Title) == "" {
		s.logger.Warn("refusing to add category without title")
		return false
	}

	category.ID = s.newID()
	category.Links = nil

	if err := s.store.PutCategory(ctx, category); err != nil {
		s.logger.Error("failed to add category", logger.Error(err))
		return false
	}

	if err := s.notifier.CategoryCreated(ctx, category.Title, category.ID); err != nil {
		s.logger.Warn("notification write failed after category create", logger.Error(err))
	}
	return true
}

// UpdateCategory applies a partial update. A notification is emitted
// only when the payload carries a title, mirroring the write path the
// catalog UI has always used.
func (s *Service) UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) bool {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		s.logger.Warn("refusing to blank category title", logger.String("category", id))
		return false
	}

	if err := s.store.PatchCategory(ctx, id, patch); err != nil {
		s.logger.Error("failed to update category", logger.String("category", id), logger.Error(err))
		return false
	}

	if patch.Title != nil {
		if err := s.notifier.CategoryUpdated(ctx, *patch.Title, id); err != nil {
			s.logger.Warn("notification write failed after category update", logger.Error(err))
		}
	}
	return true
}

// DeleteCategory removes the category document. Its links are not
// cascade-deleted; they simply fall out of the merged tree.
func (s *Service) DeleteCategory(ctx context.Context, id, title string) bool {
	if err := s.store.RemoveCategory(ctx, id); err != nil {
		s.logger.Error("failed to delete category", logger.String("category", id), logger.Error(err))
		return false
	}

	if err := s.notifier.CategoryDeleted(ctx, title); err != nil {
		s.logger.Warn("notification write failed after category delete", logger.Error(err))
	}
	return true
}

// AddLink creates a link under a category. When the caller supplies no
// identifier one is derived from the title; either way the identifier
// is permanent from here on.
func (s *Service) AddLink(ctx context.Context, categoryID string, link *domain.Link) bool {
	if categoryID == "" || strings.TrimSpace(link.Title) == "" {
		s.logger.Warn("refusing to add link without category or title")
		return false
	}

	if link.ID == "" {
		link.ID = domain.Slugify(link.Title)
	}
	if link.ID == "" {
		s.logger.Warn("link title yields an empty identifier", logger.String("title", link.Title))
		return false
	}
	link.CategoryID = categoryID
	if link.URL == "" {
		link.URL = domain.NoTargetURL
	}
	s.stampNotes(link.Notes)

	if err := s.store.PutLink(ctx, link); err != nil {
		s.logger.Error("failed to add link", logger.String("link", link.ID), logger.Error(err))
		return false
	}

	categoryTitle := s.categoryTitle(ctx, categoryID)
	if err := s.notifier.LinkCreated(ctx, link.Title, categoryTitle, categoryID, link.ID); err != nil {
		s.logger.Warn("notification write failed after link create", logger.Error(err))
	}
	return true
}

// UpdateLink applies a partial update to a link. The identifier used to
// locate the document never changes, whatever the patch holds.
//
// A payload carrying non-empty note content is reported as a note
// update rather than a link update, even when the notes themselves were
// not what changed. Longstanding behavior, kept as-is.
func (s *Service) UpdateLink(ctx context.Context, categoryID, linkID string, patch domain.LinkPatch) bool {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		s.logger.Warn("refusing to blank link title", logger.String("link", linkID))
		return false
	}
	s.stampNotes(patch.Notes)

	if err := s.store.PatchLink(ctx, categoryID, linkID, patch); err != nil {
		s.logger.Error("failed to update link", logger.String("link", linkID), logger.Error(err))
		return false
	}

	if patch.Title != nil {
		categoryTitle := s.categoryTitle(ctx, categoryID)
		if patch.Notes != nil && patch.Notes.Content != "" {
			if err := s.notifier.NoteUpdated(ctx, *patch.Title, categoryTitle, categoryID, linkID); err != nil {
				s.logger.Warn("notification write failed after note update", logger.Error(err))
			}
		} else {
			if err := s.notifier.LinkUpdated(ctx, *patch.Title, categoryTitle, categoryID, linkID); err != nil {
				s.logger.Warn("notification write failed after link update", logger.Error(err))
			}
		}
	}
	return true
}

// DeleteLink removes a link. The owning category's title is read before
// the delete so the notification can still name it.
func (s *Service) DeleteLink(ctx context.Context, categoryID, linkID, title string) bool {
	categoryTitle := s.categoryTitle(ctx, categoryID)

	if err := s.store.RemoveLink(ctx, categoryID, linkID); err != nil {
		s.logger.Error("failed to delete link", logger.String("link", linkID), logger.Error(err))
		return false
	}

	if err := s.notifier.LinkDeleted(ctx, title, categoryTitle); err != nil {
		s.logger.Warn("notification write failed after link delete", logger.Error(err))
	}
	return true
}

// categoryTitle resolves the owning category's title best-effort.
func (s *Service) categoryTitle(ctx context.Context, categoryID string) string {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return unknownCategory
	}
	return category.Title
}

// stampNotes fills in the note timestamp when the caller left it empty.
// Notes are overwritten wholesale on every save.
func (s *Service) stampNotes(notes *domain.Notes) {
	if notes != nil && notes.LastUpdated == "" {
		notes.LastUpdated = s.now().UTC().Format(time.RFC3339)
	}
}
