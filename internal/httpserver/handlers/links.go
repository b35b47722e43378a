package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/refdeck/refdeck/internal/domain"
	"github.com/refdeck/refdeck/internal/httpserver/deps"
)

type linkRequest struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	URL   string    `json:"url"`
	Type  string    `json:"type"`
	Notes *apiNotes `json:"notes"`
}

func AddLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req linkRequest
		if !decodeBody(w, r, d, &req) {
			return
		}
		if !domain.LinkType(req.Type).Valid() {
			writeJSON(w, http.StatusBadRequest, okResponse{OK: false})
			return
		}

		link := &domain.Link{
			ID:    req.ID,
			Title: req.Title,
			URL:   req.URL,
			Type:  domain.LinkType(req.Type),
		}
		if req.Notes != nil {
			link.Notes = &domain.Notes{Content: req.Notes.Content, LastUpdated: req.Notes.LastUpdated}
		}

		ok := d.Mutations.AddLink(r.Context(), chi.URLParam(r, "categoryID"), link)
		writeOutcome(w, ok, http.StatusCreated)
	}
}

type linkPatchRequest struct {
	Title *string   `json:"title"`
	URL   *string   `json:"url"`
	Type  *string   `json:"type"`
	Notes *apiNotes `json:"notes"`
}

func UpdateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req linkPatchRequest
		if !decodeBody(w, r, d, &req) {
			return
		}

		patch := domain.LinkPatch{Title: req.Title, URL: req.URL}
		if req.Type != nil {
			linkType := domain.LinkType(*req.Type)
			if !linkType.Valid() {
				writeJSON(w, http.StatusBadRequest, okResponse{OK: false})
				return
			}
			patch.Type = &linkType
		}
		if req.Notes != nil {
			patch.Notes = &domain.Notes{Content: req.Notes.Content, LastUpdated: req.Notes.LastUpdated}
		}

		ok := d.Mutations.UpdateLink(r.Context(),
			chi.URLParam(r, "categoryID"), chi.URLParam(r, "linkID"), patch)
		writeOutcome(w, ok, http.StatusOK)
	}
}

// DeleteLink removes a link. Like DeleteCategory, the title rides along
// for the notification message.
func DeleteLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok := d.Mutations.DeleteLink(r.Context(),
			chi.URLParam(r, "categoryID"),
			chi.URLParam(r, "linkID"),
			r.URL.Query().Get("title"))
		writeOutcome(w, ok, http.StatusOK)
	}
}
