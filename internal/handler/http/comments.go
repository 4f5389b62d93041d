package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-list-feed/internal/app"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/utils"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/go-chi/chi/v5"
)

// selectComments returns the flat comment rows of a list, oldest first.
func (h *Handler) selectComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.services.CommentService.SelectComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "select comments")
		return
	}

	_, _ = utils.WriteJSON(w, comments, http.StatusOK)
}

func (h *Handler) postComment(w http.ResponseWriter, r *http.Request) {
	var comment models.NewComment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.postComment").Msg("Invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	comment.ListID = chi.URLParam(r, "id")

	created, err := h.services.CommentService.PostComment(r.Context(), userID(r), comment)
	if err != nil {
		writeServiceError(w, r, err, "post comment")
		return
	}

	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.services.CommentService.DeleteComment(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, "delete comment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
