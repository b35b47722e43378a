package handlers

import (
	"time"

	"github.com/refdeck/refdeck/internal/domain"
)

// Wire shapes. Domain documents keep their identifiers in the store
// key, so the API layer re-attaches them explicitly.

type apiNotes struct {
	Content     string `json:"content"`
	LastUpdated string `json:"lastUpdated"`
}

type apiLink struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	Notes     *apiNotes `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type apiCategory struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Links       []apiLink `json:"links"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type apiNotification struct {
	ID        string                   `json:"id"`
	Type      string                   `json:"type"`
	Title     string                   `json:"title"`
	Message   string                   `json:"message"`
	Timestamp string                   `json:"timestamp"`
	Read      bool                     `json:"read"`
	Metadata  *domain.NotificationMeta `json:"metadata,omitempty"`
}

func toAPILink(link domain.Link) apiLink {
	out := apiLink{
		ID:        link.ID,
		Title:     link.Title,
		URL:       link.URL,
		Type:      string(link.Type),
		CreatedAt: link.CreatedAt,
		UpdatedAt: link.UpdatedAt,
	}
	if link.Notes != nil {
		out.Notes = &apiNotes{Content: link.Notes.Content, LastUpdated: link.Notes.LastUpdated}
	}
	return out
}

func toAPICategory(category domain.Category) apiCategory {
	links := make([]apiLink, 0, len(category.Links))
	for _, link := range category.Links {
		links = append(links, toAPILink(link))
	}
	return apiCategory{
		ID:          category.ID,
		Title:       category.Title,
		Description: category.Description,
		Icon:        category.Icon,
		Links:       links,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

func toAPINotification(n domain.Notification) apiNotification {
	return apiNotification{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Timestamp: n.Timestamp,
		Read:      n.Read,
		Metadata:  n.Metadata,
	}
}
