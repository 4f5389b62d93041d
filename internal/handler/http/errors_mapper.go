package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-list-feed/internal/app"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/internal/utils"
	"github.com/MKhiriev/go-list-feed/models"
)

type errorResponse struct {
	status  int
	message string
}

var errorStatusMap = map[error]errorResponse{
	service.ErrInvalidDataProvided:     {http.StatusBadRequest, app.MsgInvalidDataProvided},
	service.ErrEmptyComment:            {http.StatusBadRequest, app.MsgEmptyComment},
	models.ErrInvalidQuery:             {http.StatusBadRequest, app.MsgInvalidQuery},
	service.ErrWrongPassword:           {http.StatusUnauthorized, app.MsgInvalidLoginPassword},
	service.ErrTokenIsExpiredOrInvalid: {http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	service.ErrForbidden:               {http.StatusForbidden, app.MsgAccessDenied},
	service.ErrTokenCreationFailed:     {http.StatusInternalServerError, app.MsgLoginFailed},

	store.ErrLoginAlreadyExists:    {http.StatusConflict, app.MsgLoginAlreadyExists},
	store.ErrListNotFound:          {http.StatusNotFound, app.MsgListNotFound},
	store.ErrCommentNotFound:       {http.StatusNotFound, app.MsgCommentNotFound},
	store.ErrParentCommentNotFound: {http.StatusNotFound, app.MsgParentCommentNotFound},
	store.ErrNotificationNotFound:  {http.StatusNotFound, app.MsgNotificationNotFound},
}

func responseFromError(err error) errorResponse {
	for target, resp := range errorStatusMap {
		if errors.Is(err, target) {
			return resp
		}
	}
	return errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}
}

func statusFromError(err error) int {
	return responseFromError(err).status
}

// writeServiceError logs err and writes the mapped error response.
// Server errors are logged at error level, client errors at warn.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	resp := responseFromError(err)

	log := logger.FromRequest(r)
	event := log.Warn()
	if resp.status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("op", op).Int("status", resp.status).Msg("request failed")

	utils.WriteError(w, resp.message, resp.status)
}
