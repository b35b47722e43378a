package domain

import "time"

// LinkType classifies the resource a link points to.
type LinkType string

const (
	LinkTypeIEEE          LinkType = "ieee"
	LinkTypeArxiv         LinkType = "arxiv"
	LinkTypeMDPI          LinkType = "mdpi"
	LinkTypeTool          LinkType = "tool"
	LinkTypeDatabase      LinkType = "database"
	LinkTypeDataset       LinkType = "dataset"
	LinkTypeSpecification LinkType = "specification"
	LinkTypeArticle       LinkType = "article"
)

// Valid reports whether t is one of the known link types.
func (t LinkType) Valid() bool {
	switch t {
	case LinkTypeIEEE, LinkTypeArxiv, LinkTypeMDPI, LinkTypeTool,
		LinkTypeDatabase, LinkTypeDataset, LinkTypeSpecification, LinkTypeArticle:
		return true
	}
	return false
}

// NoTargetURL is the sentinel URL meaning "no external target".
const NoTargetURL = "#"

// Notes is a free-text annotation embedded in a link.
// Overwritten wholesale on every save; there is no history.
type Notes struct {
	Content     string `json:"content"`
	LastUpdated string `json:"lastUpdated"`
}

// Link is a single addressable resource record owned by exactly one category.
type Link struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is derived from the title via Slugify unless supplied at
	// creation. Once assigned it never changes; updates locate the
	// document by the original ID.
	ID string `json:"-"`

	// CategoryID is the owning category. The relation is stored as
	// membership in that category's child collection, so this field
	// lives in the document key rather than the body.
	CategoryID string `json:"-"`

	// ─────────────────────────────
	// Content (mutable in place)
	// ─────────────────────────────

	// Title is required.
	Title string `json:"title"`

	// URL is the external target, or NoTargetURL.
	URL string `json:"url"`

	// Type is one of the LinkType constants.
	Type LinkType `json:"type"`

	// Notes is optional; nil means no annotation.
	Notes *Notes `json:"notes,omitempty"`

	// ─────────────────────────────
	// Metadata (store-assigned)
	// ─────────────────────────────

	// CreatedAt is stamped on first write and never overwritten.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is stamped on every write.
	UpdatedAt time.Time `json:"updatedAt"`
}

// LinkPatch is a partial link update. Nil fields are left untouched.
// Notes, when set, replaces the whole notes block.
type LinkPatch struct {
	Title *string
	URL   *string
	Type  *LinkType
	Notes *Notes
}
