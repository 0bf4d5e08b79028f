package domain

import (
	"log/slog"
	"sync"
)

type Limits struct {
	// Members caps distinct members per room. Zero means unlimited.
	Members int
	// Playlist caps queued videos per room. Zero means unlimited.
	Playlist int
}

// State is a point-in-time view of a room sent to joining members.
type State struct {
	RoomID  string   `json:"room_id"`
	Members []string `json:"members"`
	Videos  []Video  `json:"videos"`
	Player  Player   `json:"player"`
}

type Room struct {
	id     string
	logger *slog.Logger

	mu           sync.RWMutex
	members      members
	membersLimit int
	playlist     *playlist
	player       Player
	closed       bool
}

func NewRoom(id string, limits Limits, logger *slog.Logger) *Room {
	if logger == nil {
		logger = slog.Default()
	}

	return &Room{
		id:           id,
		logger:       logger.With("room_id", id),
		members:      make(members),
		membersLimit: limits.Members,
		playlist:     newPlaylist(limits.Playlist),
	}
}

func (r *Room) ID() string {
	return r.id
}

// Join adds member to the room. Joining twice is a no-op.
func (r *Room) Join(member Member) error {
	if isNilMember(member) {
		return ErrNilMember
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}

	if r.members.has(member) {
		return nil
	}

	if r.membersLimit > 0 && len(r.members) >= r.membersLimit {
		return ErrMembersLimitReached
	}

	r.members.add(member)
	return nil
}

func (r *Room) Leave(member Member) {
	if isNilMember(member) {
		return
	}

	r.mu.Lock()
	r.members.remove(member)
	r.mu.Unlock()
}

func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members)
}

func (r *Room) Members() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.members.list()
}

func (r *Room) Usernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.usernames()
}

func (r *Room) usernames() []string {
	names := make([]string, 0, len(r.members))
	for member := range r.members {
		names = append(names, member.Username())
	}

	return names
}

// closeIfEmpty marks the room closed when it has no members. Called by the
// registry with its own lock held.
func (r *Room) closeIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) > 0 {
		return false
	}

	r.closed = true
	return true
}

func (r *Room) AddVideo(video Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.playlist.add(video)
}

func (r *Room) RemoveVideo(videoID string) (Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.playlist.remove(videoID)
}

// Videos returns the queue in insertion order. The slice is a copy.
func (r *Room) Videos() []Video {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.playlist.list()
}

func (r *Room) SetCurrentVideoID(videoID string) {
	r.mu.Lock()
	r.player.CurrentVideoID = some(videoID)
	r.mu.Unlock()
}

func (r *Room) CurrentVideoID() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.player.VideoID()
}

func (r *Room) SetCurrentVideoTime(seconds float64) {
	r.mu.Lock()
	r.player.CurrentVideoTime = some(seconds)
	r.mu.Unlock()
}

func (r *Room) CurrentVideoTime() (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.player.VideoTime()
}

func (r *Room) SetCurrentVideoState(state PlayerState) {
	r.mu.Lock()
	r.player.CurrentVideoState = some(state)
	r.mu.Unlock()
}

func (r *Room) CurrentVideoState() (PlayerState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.player.VideoState()
}

// UpdatePlayer applies only the defined fields of update and returns the
// resulting cursor. A defined field with a nil value clears it.
func (r *Room) UpdatePlayer(update Player) Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	merge(&r.player.CurrentVideoID, update.CurrentVideoID)
	merge(&r.player.CurrentVideoTime, update.CurrentVideoTime)
	merge(&r.player.CurrentVideoState, update.CurrentVideoState)

	return r.player
}

func (r *Room) ResetPlayer() {
	r.mu.Lock()
	r.player = Player{}
	r.mu.Unlock()
}

func (r *Room) Player() Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.player
}

func (r *Room) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return State{
		RoomID:  r.id,
		Members: r.usernames(),
		Videos:  r.playlist.list(),
		Player:  r.player,
	}
}
