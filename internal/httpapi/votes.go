package httpapi

import (
	"net/http"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/internal/ledger"
)

type voteRequest struct {
	PostID string `json:"post_id"`
	Dir    *int   `json:"dir"`
}

// Vote adds (dir=1) or removes (dir=0) the caller's vote on a post.
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if req.Dir == nil {
		writeError(w, r, h.log, apperr.Invalid("dir", "is required"))
		return
	}
	out, err := h.svc.Vote(r.Context(), actor(r), req.PostID, ledger.Direction(*req.Dir))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": out.Message()})
}
