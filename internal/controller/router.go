package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharetube/syncroom/pkg/metrics"
)

func (c controller) Mux() http.Handler {
	r := chi.NewRouter()
	r.Use(c.requestIdMw, c.requestLoggingMw)

	r.Get("/healthz", c.healthz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/rooms", func(r chi.Router) {
		r.Get("/", c.listRooms)
		r.Get("/{room-id}", c.getRoom)
	})

	r.Get("/ws/rooms/{room-id}", c.joinRoom)

	return r
}
