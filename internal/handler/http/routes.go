package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))
	if h.cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.cfg.RequestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Get("/api/version", h.getServerVersion)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/lists", func(r chi.Router) {
			r.Get("/", h.selectLists)
			r.Post("/", h.createList)
			r.Post("/{id}/like", h.like)
			r.Delete("/{id}/like", h.unlike)
			r.Get("/{id}/comments", h.selectComments)
			r.Post("/{id}/comments", h.postComment)
		})

		r.Delete("/api/comments/{id}", h.deleteComment)

		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/", h.selectNotifications)
			r.Delete("/", h.deleteAllNotifications)
			r.Patch("/read", h.markAllNotificationsRead)
			r.Patch("/{id}/read", h.markNotificationRead)
			r.Delete("/{id}", h.deleteNotification)
		})
	})

	return router
}
