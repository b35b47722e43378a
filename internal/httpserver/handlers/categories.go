package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/refdeck/refdeck/internal/domain"
	"github.com/refdeck/refdeck/internal/httpserver/deps"
)

type treeResponse struct {
	Categories []apiCategory `json:"categories"`
	Loading    bool          `json:"loading"`
	Error      string        `json:"error,omitempty"`
}

// ListCategories serves the live merged tree.
func ListCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := d.Assembler.Current()

		resp := treeResponse{
			Categories: make([]apiCategory, 0, len(state.Categories)),
			Loading:    state.Loading,
		}
		for _, category := range state.Categories {
			resp.Categories = append(resp.Categories, toAPICategory(category))
		}

		status := http.StatusOK
		if state.Err != nil {
			resp.Error = state.Err.Error()
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

type categoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func AddCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if !decodeBody(w, r, d, &req) {
			return
		}

		category := &domain.Category{
			Title:       req.Title,
			Description: req.Description,
			Icon:        req.Icon,
		}
		ok := d.Mutations.AddCategory(r.Context(), category)
		writeOutcome(w, ok, http.StatusCreated)
	}
}

type categoryPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

func UpdateCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryPatchRequest
		if !decodeBody(w, r, d, &req) {
			return
		}

		patch := domain.CategoryPatch{
			Title:       req.Title,
			Description: req.Description,
			Icon:        req.Icon,
		}
		ok := d.Mutations.UpdateCategory(r.Context(), chi.URLParam(r, "categoryID"), patch)
		writeOutcome(w, ok, http.StatusOK)
	}
}

// DeleteCategory removes a category. The title travels as a query
// parameter so the deletion notification can still name the category.
func DeleteCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok := d.Mutations.DeleteCategory(r.Context(),
			chi.URLParam(r, "categoryID"),
			r.URL.Query().Get("title"))
		writeOutcome(w, ok, http.StatusOK)
	}
}
