package domain

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/sharetube/syncroom/pkg/metrics"
)

// Registry maps room ids to rooms. It is the only place rooms are created
// and removed, so each id has at most one live Room.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	limits Limits
	logger *slog.Logger
}

func NewRegistry(limits Limits, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		rooms:  make(map[string]*Room),
		limits: limits,
		logger: logger,
	}
}

// Get returns the room for roomID, creating it if needed.
func (r *Registry) Get(roomID string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = NewRoom(roomID, r.limits, r.logger)
		r.rooms[roomID] = room
		metrics.Rooms.Inc()
		r.logger.Debug("room created", "room_id", roomID)
	}

	return room
}

// Lookup returns the room for roomID without creating it.
func (r *Registry) Lookup(roomID string) (*Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	return room, ok
}

// Join puts member into the live room for roomID. If the instance it got
// was closed in the meantime it retries against a fresh one.
func (r *Registry) Join(roomID string, member Member) (*Room, error) {
	for {
		room := r.Get(roomID)
		err := room.Join(member)
		if errors.Is(err, ErrRoomClosed) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return room, nil
	}
}

// Close removes the room for roomID if it has no members and reports whether
// it did. Closing an unknown or occupied room is a no-op.
func (r *Registry) Close(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return false
	}

	if !room.closeIfEmpty() {
		return false
	}

	delete(r.rooms, roomID)
	metrics.Rooms.Dec()
	r.logger.Debug("room closed", "room_id", roomID)

	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.rooms)
}

// IDs returns the registered room ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
