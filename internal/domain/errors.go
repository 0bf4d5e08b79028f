package domain

import "errors"

var (
	ErrNilMember           = errors.New("member is nil")
	ErrRoomClosed          = errors.New("room is closed")
	ErrMembersLimitReached = errors.New("members limit reached")

	ErrInvalidVideo         = errors.New("video id is empty")
	ErrVideoAlreadyQueued   = errors.New("video already queued")
	ErrVideoNotFound        = errors.New("video not found")
	ErrPlaylistLimitReached = errors.New("playlist limit reached")

	ErrNilMessage = errors.New("message is nil")
)
