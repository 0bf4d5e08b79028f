package controller

import (
	"context"

	"github.com/sharetube/syncroom/internal/domain"
	"github.com/sharetube/syncroom/pkg/wsconn"
)

type contextKey int

const (
	roomCtxKey contextKey = iota
	connCtxKey
)

func (c controller) getRoomFromCtx(ctx context.Context) *domain.Room {
	room, ok := ctx.Value(roomCtxKey).(*domain.Room)
	if !ok {
		return nil
	}

	return room
}

func (c controller) getConnFromCtx(ctx context.Context) *wsconn.Conn {
	conn, ok := ctx.Value(connCtxKey).(*wsconn.Conn)
	if !ok {
		return nil
	}

	return conn
}
