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

// selectLists serves a page of the feed. Query parameters follow
// models.TableQuery: category=eq.movie&order=created_at.desc&limit=10&offset=0.
func (h *Handler) selectLists(w http.ResponseWriter, r *http.Request) {
	query, err := models.ParseTableQuery(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err, "select lists")
		return
	}

	lists, err := h.services.ListService.SelectLists(r.Context(), userID(r), query)
	if err != nil {
		writeServiceError(w, r, err, "select lists")
		return
	}

	_, _ = utils.WriteJSON(w, lists, http.StatusOK)
}

func (h *Handler) createList(w http.ResponseWriter, r *http.Request) {
	var list models.NewList
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.createList").Msg("Invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	created, err := h.services.ListService.CreateList(r.Context(), userID(r), list)
	if err != nil {
		writeServiceError(w, r, err, "create list")
		return
	}

	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

// like and unlike answer with the list row after the change so the client
// can settle its optimistic counter.
func (h *Handler) like(w http.ResponseWriter, r *http.Request) {
	list, err := h.services.ListService.Like(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "like")
		return
	}

	_, _ = utils.WriteJSON(w, list, http.StatusOK)
}

func (h *Handler) unlike(w http.ResponseWriter, r *http.Request) {
	list, err := h.services.ListService.Unlike(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "unlike")
		return
	}

	_, _ = utils.WriteJSON(w, list, http.StatusOK)
}

// userID returns the id stored by the auth middleware.
func userID(r *http.Request) int64 {
	id, _ := utils.GetUserIDFromContext(r.Context())
	return id
}
