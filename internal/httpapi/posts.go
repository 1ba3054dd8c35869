package httpapi

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/internal/service"
	"socialMediaAPI/models"
	"socialMediaAPI/repository"
)

// CreatePost stores a post owned by the caller.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	p, err := h.svc.CreatePost(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListPosts returns the caller's posts with vote counts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r.URL.Query())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	list, err := h.svc.ListPosts(r.Context(), actor(r), params)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func listParams(q url.Values) (service.ListParams, error) {
	p := service.ListParams{Limit: repository.DefaultPageSize, Search: q.Get("search")}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, apperr.Invalid("offset", "must be an integer")
		}
		p.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, apperr.Invalid("limit", "must be an integer")
		}
		p.Limit = n
	}
	if v := q.Get("published"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, apperr.Invalid("published", "must be a boolean")
		}
		p.Published = &b
	}
	return p, nil
}

// GetPost returns one of the caller's posts.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPost(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdatePost applies a partial update. PUT and PATCH behave the same.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var upd models.PostUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	p, err := h.svc.UpdatePost(r.Context(), actor(r), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePost removes one of the caller's posts.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePost(r.Context(), actor(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
