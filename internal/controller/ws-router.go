package controller

import (
	"context"
	"encoding/json"

	"github.com/sharetube/syncroom/pkg/metrics"
	"github.com/sharetube/syncroom/pkg/wsrouter"
)

const (
	// inbound
	typeAlive        = "ALIVE"
	typeGetState     = "GET_STATE"
	typeAddVideo     = "ADD_VIDEO"
	typeRemoveVideo  = "REMOVE_VIDEO"
	typeUpdatePlayer = "UPDATE_PLAYER"
	typeResetPlayer  = "RESET_PLAYER"
	typeChat         = "CHAT"

	// outbound
	typeRoomState     = "ROOM_STATE"
	typeMemberJoined  = "MEMBER_JOINED"
	typeMemberLeft    = "MEMBER_LEFT"
	typeVideoAdded    = "VIDEO_ADDED"
	typeVideoRemoved  = "VIDEO_REMOVED"
	typePlayerUpdated = "PLAYER_UPDATED"
	typeError         = "ERROR"
)

func (c controller) getWSRouter(opts ...wsrouter.Option) *wsrouter.WSRouter {
	mux := wsrouter.New(opts...)
	handle := func(messageType string, handler wsrouter.HandlerFunc) {
		mux.Handle(messageType, countInbound(messageType, handler))
	}

	handle(typeAlive, wsrouter.Typed(c.validate, c.handleAlive))
	handle(typeGetState, wsrouter.Typed(c.validate, c.handleGetState))

	// video
	handle(typeAddVideo, wsrouter.Typed(c.validate, c.handleAddVideo))
	handle(typeRemoveVideo, wsrouter.Typed(c.validate, c.handleRemoveVideo))

	// player
	handle(typeUpdatePlayer, wsrouter.Typed(c.validate, c.handleUpdatePlayer))
	handle(typeResetPlayer, wsrouter.Typed(c.validate, c.handleResetPlayer))

	// chat
	handle(typeChat, wsrouter.Typed(c.validate, c.handleChat))

	return mux
}

func countInbound(messageType string, next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
	counter := metrics.InboundMessages.WithLabelValues(messageType)
	return func(ctx context.Context, payload json.RawMessage) error {
		counter.Inc()
		return next(ctx, payload)
	}
}
