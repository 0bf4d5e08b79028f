package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sharetube/syncroom/internal/domain"
	"github.com/sharetube/syncroom/pkg/validator"
	"github.com/sharetube/syncroom/pkg/wsconn"
	"github.com/sharetube/syncroom/pkg/wsrouter"
)

func (c controller) getSession(ctx context.Context) (*domain.Room, *wsconn.Conn, error) {
	room := c.getRoomFromCtx(ctx)
	conn := c.getConnFromCtx(ctx)
	if room == nil || conn == nil {
		return nil, nil, ErrNotInRoom
	}

	return room, conn, nil
}

// writeToConn sends msg to a single connection, bypassing room routing.
func (c controller) writeToConn(ctx context.Context, conn *wsconn.Conn, msg *domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := conn.Send(data); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// handleError reports a failed message back to its sender only.
func (c controller) handleError(ctx context.Context, err error) {
	conn := c.getConnFromCtx(ctx)
	if conn == nil {
		c.logger.WarnContext(ctx, "error without connection", "error", err)
		return
	}

	c.logger.InfoContext(ctx, "failed to handle message", "error", err)

	payload := map[string]any{
		"message": err.Error(),
	}
	if messageType := wsrouter.GetMessageTypeFromCtx(ctx); messageType != "" {
		payload["request_type"] = messageType
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		payload["errors"] = []validator.ValidationError(verrs)
	}

	if err := c.writeToConn(ctx, conn, &domain.Message{
		Type:     typeError,
		Username: conn.Username(),
		Payload:  payload,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to write error", "error", err)
	}
}

func (c controller) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Warn("failed to write response", "error", err)
	}
}
