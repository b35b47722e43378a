package domain

import "time"

// NotificationType identifies the lifecycle event a notification records.
type NotificationType string

const (
	NotificationCategoryCreated NotificationType = "category_created"
	NotificationCategoryUpdated NotificationType = "category_updated"
	NotificationCategoryDeleted NotificationType = "category_deleted"
	NotificationLinkCreated     NotificationType = "link_created"
	NotificationLinkUpdated     NotificationType = "link_updated"
	NotificationLinkDeleted     NotificationType = "link_deleted"
	NotificationNoteCreated     NotificationType = "note_created"
	NotificationNoteUpdated     NotificationType = "note_updated"
	NotificationSystem          NotificationType = "system"
)

// NotificationMeta carries best-effort context about the entities involved.
type NotificationMeta struct {
	CategoryID    string `json:"categoryId,omitempty"`
	CategoryTitle string `json:"categoryTitle,omitempty"`
	LinkID        string `json:"linkId,omitempty"`
	LinkTitle     string `json:"linkTitle,omitempty"`
}

// Notification is a durable record of a past mutation event.
//
// Records are immutable except for the Read and Dismissed flags.
// Dismissed acts as a soft delete: the record stays in the store
// forever and the live feed filters it out.
type Notification struct {
	// ID is carried in the document key, not in the body.
	ID string `json:"-"`

	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`

	// Timestamp is the event time in RFC 3339, used for feed ordering.
	Timestamp string `json:"timestamp"`

	Read      bool `json:"read"`
	Dismissed bool `json:"dismissed"`

	Metadata *NotificationMeta `json:"metadata,omitempty"`

	// CreatedAt is stamped on first write and never overwritten.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is stamped on every write.
	UpdatedAt time.Time `json:"updatedAt"`
}
