package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomJoinLeave(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)
	alice := newFakeMember("alice")
	bob := newFakeMember("bob")

	require.NoError(t, room.Join(alice))
	before := room.Members()

	require.NoError(t, room.Join(bob))
	require.NoError(t, room.Join(bob), "joining twice must be a no-op")
	assert.Equal(t, 2, room.Len())
	assert.ElementsMatch(t, []string{"alice", "bob"}, room.Usernames())

	room.Leave(bob)
	assert.ElementsMatch(t, before, room.Members())

	room.Leave(bob)
	room.Leave(nil)
	assert.Equal(t, 1, room.Len())
}

func TestRoomJoinRejectsNil(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)

	assert.ErrorIs(t, room.Join(nil), ErrNilMember)

	var typedNil *fakeMember
	assert.ErrorIs(t, room.Join(typedNil), ErrNilMember)
	assert.Equal(t, 0, room.Len())
}

func TestRoomMembersLimit(t *testing.T) {
	room := NewRoom("r1", Limits{Members: 2}, nil)
	alice := newFakeMember("alice")

	require.NoError(t, room.Join(alice))
	require.NoError(t, room.Join(newFakeMember("bob")))
	assert.ErrorIs(t, room.Join(newFakeMember("carol")), ErrMembersLimitReached)
	assert.NoError(t, room.Join(alice), "existing member rejoining is not limited")
}

func TestRoomVideos(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)

	require.NoError(t, room.AddVideo(Video{VideoID: "v1", Title: "first"}))
	require.NoError(t, room.AddVideo(Video{VideoID: "v2"}))
	assert.ErrorIs(t, room.AddVideo(Video{VideoID: "v1", Title: "again"}), ErrVideoAlreadyQueued)
	assert.ErrorIs(t, room.AddVideo(Video{}), ErrInvalidVideo)

	videos := room.Videos()
	require.Len(t, videos, 2)
	assert.Equal(t, "v1", videos[0].VideoID)
	assert.Equal(t, "first", videos[0].Title)
	assert.Equal(t, "v2", videos[1].VideoID)

	removed, err := room.RemoveVideo("v1")
	require.NoError(t, err)
	assert.Equal(t, "first", removed.Title)
	for _, video := range room.Videos() {
		assert.NotEqual(t, "v1", video.VideoID)
	}

	_, err = room.RemoveVideo("v1")
	assert.ErrorIs(t, err, ErrVideoNotFound)

	require.NoError(t, room.AddVideo(Video{VideoID: "v1"}), "removed id can be queued again")
	assert.Len(t, room.Videos(), 2)
}

func TestRoomVideosCopy(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)
	require.NoError(t, room.AddVideo(Video{VideoID: "v1"}))

	videos := room.Videos()
	videos[0].VideoID = "mutated"

	assert.Equal(t, "v1", room.Videos()[0].VideoID)
	assert.NotNil(t, NewRoom("empty", Limits{}, nil).Videos())
}

func TestRoomPlaylistLimit(t *testing.T) {
	room := NewRoom("r1", Limits{Playlist: 1}, nil)

	require.NoError(t, room.AddVideo(Video{VideoID: "v1"}))
	assert.ErrorIs(t, room.AddVideo(Video{VideoID: "v2"}), ErrPlaylistLimitReached)
}

func TestRoomPlayerStartsUnset(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)

	_, ok := room.CurrentVideoID()
	assert.False(t, ok)
	_, ok = room.CurrentVideoTime()
	assert.False(t, ok)
	_, ok = room.CurrentVideoState()
	assert.False(t, ok)
}

func TestRoomPlayerZeroValuesArePresent(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)

	room.SetCurrentVideoID("")
	room.SetCurrentVideoTime(0)
	room.SetCurrentVideoState(PlayerStateEnded)

	id, ok := room.CurrentVideoID()
	assert.True(t, ok)
	assert.Equal(t, "", id)

	seconds, ok := room.CurrentVideoTime()
	assert.True(t, ok)
	assert.Equal(t, 0.0, seconds)

	state, ok := room.CurrentVideoState()
	assert.True(t, ok)
	assert.Equal(t, PlayerStateEnded, state)
}

func TestRoomPlayerOverwrite(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)

	room.SetCurrentVideoTime(93.5)
	room.SetCurrentVideoState(PlayerStatePlaying)
	room.SetCurrentVideoTime(0)
	room.SetCurrentVideoState(PlayerStatePaused)

	seconds, _ := room.CurrentVideoTime()
	assert.Equal(t, 0.0, seconds)
	state, _ := room.CurrentVideoState()
	assert.Equal(t, PlayerStatePaused, state)

	room.ResetPlayer()
	assert.Equal(t, Player{}, room.Player())
}

func TestRoomUpdatePlayerKeepsUndefinedFields(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)
	room.SetCurrentVideoID("v1")
	room.SetCurrentVideoTime(10)

	player := room.UpdatePlayer(Player{CurrentVideoState: some(PlayerStatePaused)})
	id, _ := player.VideoID()
	assert.Equal(t, "v1", id)
	seconds, _ := player.VideoTime()
	assert.Equal(t, 10.0, seconds)
	state, _ := player.VideoState()
	assert.Equal(t, PlayerStatePaused, state)
	assert.Equal(t, player, room.Player())
}

func TestRoomUpdatePlayerNullClearsField(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)
	room.SetCurrentVideoID("v1")
	room.SetCurrentVideoTime(10)

	var update Player
	update.CurrentVideoTime.Defined = true

	player := room.UpdatePlayer(update)
	_, ok := player.VideoTime()
	assert.False(t, ok)
	id, ok := room.CurrentVideoID()
	assert.True(t, ok)
	assert.Equal(t, "v1", id)
}

func TestRoomUpdatePlayerCopiesValues(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)

	seconds := 5.0
	var update Player
	update.CurrentVideoTime.Defined = true
	update.CurrentVideoTime.Value = &seconds
	room.UpdatePlayer(update)
	seconds = 99

	got, ok := room.CurrentVideoTime()
	assert.True(t, ok)
	assert.Equal(t, 5.0, got)
}

func TestRoomRemovingCurrentVideoKeepsCursor(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)
	require.NoError(t, room.AddVideo(Video{VideoID: "v1"}))
	room.SetCurrentVideoID("v1")

	_, err := room.RemoveVideo("v1")
	require.NoError(t, err)

	id, ok := room.CurrentVideoID()
	assert.True(t, ok)
	assert.Equal(t, "v1", id)
}

func TestRoomState(t *testing.T) {
	room := NewRoom("r1", Limits{}, nil)
	require.NoError(t, room.Join(newFakeMember("alice")))
	require.NoError(t, room.AddVideo(Video{VideoID: "v1"}))
	room.SetCurrentVideoID("v1")

	state := room.State()
	assert.Equal(t, "r1", state.RoomID)
	assert.Equal(t, []string{"alice"}, state.Members)
	assert.Equal(t, []Video{{VideoID: "v1"}}, state.Videos)
	id, _ := state.Player.VideoID()
	assert.Equal(t, "v1", id)
	_, ok := state.Player.VideoTime()
	assert.False(t, ok)
}
