package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c controller) healthz(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c controller) listRooms(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, map[string]any{
		"rooms": c.registry.IDs(),
	})
}

// getRoom never creates a room, so polling cannot keep rooms alive.
func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "room-id")

	room, ok := c.registry.Lookup(roomID)
	if !ok {
		c.writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}

	c.writeJSON(w, http.StatusOK, room.State())
}
