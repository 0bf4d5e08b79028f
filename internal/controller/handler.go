package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharetube/syncroom/internal/domain"
	"github.com/sharetube/syncroom/pkg/ctxlogger"
	"github.com/sharetube/syncroom/pkg/wsconn"
)

type joinRoomQuery struct {
	RoomID   string `json:"room_id" validate:"required,max=64,printascii"`
	Username string `json:"username" validate:"required,max=32"`
}

func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	query := joinRoomQuery{
		RoomID:   chi.URLParam(r, "room-id"),
		Username: r.URL.Query().Get("username"),
	}
	if errs, ok := c.validate.Validate(query); !ok {
		c.logger.DebugContext(r.Context(), "invalid join request", "errors", errs)
		c.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	conn := wsconn.New(ws, query.Username, c.cfg.SendBufferSize)

	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("room_id", query.RoomID))
	ctx = ctxlogger.AppendCtx(ctx, slog.String("username", query.Username))
	ctx = ctxlogger.AppendCtx(ctx, slog.String("conn_id", conn.ID()))
	ctx = context.WithValue(ctx, connCtxKey, conn)

	pumpDone := make(chan struct{})
	go func(ctx context.Context) {
		defer close(pumpDone)
		if err := conn.WritePump(ctx); err != nil {
			c.logger.DebugContext(ctx, "write pump stopped", "error", err)
		}
	}(ctx)
	defer func() {
		conn.Close()
		<-pumpDone
	}()

	if err := c.connRepo.Add(conn); err != nil {
		c.logger.WarnContext(ctx, "failed to track connection", "error", err)
		return
	}
	defer c.connRepo.Remove(conn.ID())

	room, err := c.registry.Join(query.RoomID, conn)
	if err != nil {
		c.logger.InfoContext(ctx, "failed to join room", "error", err)
		c.handleError(ctx, err)
		return
	}
	defer c.leave(ctx, room, conn)
	ctx = context.WithValue(ctx, roomCtxKey, room)

	c.logger.InfoContext(ctx, "member joined")

	if _, err := room.BroadcastSelf(ctx, &domain.Message{
		Type:     typeRoomState,
		Username: conn.Username(),
		Payload:  room.State(),
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to send room state", "error", err)
		return
	}

	if _, err := room.BroadcastExclusive(ctx, &domain.Message{
		Type:     typeMemberJoined,
		Username: conn.Username(),
		Payload: map[string]any{
			"joined_member": conn.Username(),
			"members":       room.Usernames(),
		},
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to broadcast member joined", "error", err)
	}

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "connection closed", "error", err)
	}
}

// leave removes conn from room, drops the room if it became empty and tells
// the remaining members otherwise.
func (c controller) leave(ctx context.Context, room *domain.Room, conn *wsconn.Conn) {
	room.Leave(conn)

	if c.registry.Close(room.ID()) {
		c.logger.InfoContext(ctx, "member left, room closed")
		return
	}

	c.logger.InfoContext(ctx, "member left")
	if _, err := room.Broadcast(ctx, &domain.Message{
		Type:     typeMemberLeft,
		Username: conn.Username(),
		Payload: map[string]any{
			"left_member": conn.Username(),
			"members":     room.Usernames(),
		},
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to broadcast member left", "error", err)
	}
}
