package domain

import (
	"encoding/json"

	o "github.com/skewb1k/optional"
)

// PlayerState follows the YouTube IFrame player state codes.
type PlayerState int

const (
	PlayerStateUnstarted PlayerState = -1
	PlayerStateEnded     PlayerState = 0
	PlayerStatePlaying   PlayerState = 1
	PlayerStatePaused    PlayerState = 2
	PlayerStateBuffering PlayerState = 3
	PlayerStateCued      PlayerState = 5
)

func (s PlayerState) Valid() bool {
	switch s {
	case PlayerStateUnstarted, PlayerStateEnded, PlayerStatePlaying,
		PlayerStatePaused, PlayerStateBuffering, PlayerStateCued:
		return true
	}

	return false
}

// Player is the room-wide playback cursor. Each field is set independently.
// A field is present only when it is defined with a value; defined with a nil
// value (JSON null) clears it.
type Player struct {
	CurrentVideoID    o.Field[string]
	CurrentVideoTime  o.Field[float64]
	CurrentVideoState o.Field[PlayerState]
}

func (p Player) VideoID() (string, bool) {
	return value(p.CurrentVideoID)
}

func (p Player) VideoTime() (float64, bool) {
	return value(p.CurrentVideoTime)
}

func (p Player) VideoState() (PlayerState, bool) {
	return value(p.CurrentVideoState)
}

type playerJSON struct {
	CurrentVideoID    *string      `json:"current_video_id"`
	CurrentVideoTime  *float64     `json:"current_video_time"`
	CurrentVideoState *PlayerState `json:"current_video_state"`
}

// MarshalJSON writes absent fields as null.
func (p Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(playerJSON{
		CurrentVideoID:    present(p.CurrentVideoID),
		CurrentVideoTime:  present(p.CurrentVideoTime),
		CurrentVideoState: present(p.CurrentVideoState),
	})
}

func (p *Player) UnmarshalJSON(data []byte) error {
	var v playerJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*p = Player{
		CurrentVideoID:    fromPtr(v.CurrentVideoID),
		CurrentVideoTime:  fromPtr(v.CurrentVideoTime),
		CurrentVideoState: fromPtr(v.CurrentVideoState),
	}
	return nil
}

func some[T any](v T) o.Field[T] {
	return o.Field[T]{Defined: true, Value: &v}
}

func fromPtr[T any](v *T) o.Field[T] {
	if v == nil {
		return o.Field[T]{}
	}

	return some(*v)
}

func value[T any](f o.Field[T]) (T, bool) {
	if !f.Defined || f.Value == nil {
		var zero T
		return zero, false
	}

	return *f.Value, true
}

func present[T any](f o.Field[T]) *T {
	if v, ok := value(f); ok {
		return &v
	}

	return nil
}

// merge applies src to dst when src is defined. The value is copied so the
// cursor never shares memory with the caller.
func merge[T any](dst *o.Field[T], src o.Field[T]) {
	if !src.Defined {
		return
	}

	*dst = fromPtr(src.Value)
}
