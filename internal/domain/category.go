package domain

import "time"

// Category is a topical grouping that owns a set of links.
//
// Categories and links are persisted as two separate collections;
// the Links field is only populated on the merged tree produced by
// the catalog assembler, never stored inside the category document.
type Category struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned once at creation and never regenerated.
	// Carried in the document key, not in the document body.
	ID string `json:"-"`

	// ─────────────────────────────
	// Content (mutable in place)
	// ─────────────────────────────

	// Title is required and not unique across categories.
	Title string `json:"title"`

	// Description is free text, may be empty.
	Description string `json:"description"`

	// Icon is a key into an external icon registry.
	Icon string `json:"icon"`

	// ─────────────────────────────
	// Derived
	// ─────────────────────────────

	// Links owned by this category. Populated by the assembler from
	// the cross-parent link snapshot; empty is a valid state.
	Links []Link `json:"-"`

	// ─────────────────────────────
	// Metadata (store-assigned)
	// ─────────────────────────────

	// CreatedAt is stamped on first write and never overwritten.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is stamped on every write.
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryPatch is a partial category update. Nil fields are left untouched.
type CategoryPatch struct {
	Title       *string
	Description *string
	Icon        *string
}
