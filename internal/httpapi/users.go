package httpapi

import (
	"net/http"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/internal/service"
)

// Register creates an account from a JSON body.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	u, err := h.svc.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Token exchanges form-encoded username and password for a bearer token.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, r, h.log, apperr.Invalid("body", "malformed form"))
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if username == "" || password == "" {
		writeError(w, r, h.log, apperr.Invalid("body", "username and password are required"))
		return
	}
	tok, err := h.svc.Login(r.Context(), username, password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, tok)
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, actor(r))
}

// DeleteMe removes the authenticated user with their posts and votes.
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAccount(r.Context(), actor(r)); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
