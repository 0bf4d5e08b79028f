package controller

import (
	"context"
	"fmt"

	o "github.com/skewb1k/optional"

	"github.com/sharetube/syncroom/internal/domain"
)

type EmptyInput struct{}

func (c controller) handleAlive(ctx context.Context, input EmptyInput) error {
	return nil
}

func (c controller) handleGetState(ctx context.Context, input EmptyInput) error {
	room, conn, err := c.getSession(ctx)
	if err != nil {
		return err
	}

	return c.writeToConn(ctx, conn, &domain.Message{
		Type:     typeRoomState,
		Username: conn.Username(),
		Payload:  room.State(),
	})
}

type AddVideoInput struct {
	VideoID      string         `json:"video_id" validate:"required,max=64,printascii"`
	Title        string         `json:"title" validate:"max=256"`
	AuthorName   string         `json:"author_name" validate:"max=256"`
	ThumbnailURL string         `json:"thumbnail_url" validate:"omitempty,url,max=2048"`
	Meta         map[string]any `json:"meta"`
}

func (c controller) handleAddVideo(ctx context.Context, input AddVideoInput) error {
	room, conn, err := c.getSession(ctx)
	if err != nil {
		return err
	}

	video := domain.Video{
		VideoID:      input.VideoID,
		Title:        input.Title,
		AuthorName:   input.AuthorName,
		ThumbnailURL: input.ThumbnailURL,
		AddedBy:      conn.Username(),
		Meta:         input.Meta,
	}
	c.fillVideoData(ctx, &video)

	if err := room.AddVideo(video); err != nil {
		return fmt.Errorf("failed to add video: %w", err)
	}

	if _, err := room.Broadcast(ctx, &domain.Message{
		Type:     typeVideoAdded,
		Username: conn.Username(),
		Payload: map[string]any{
			"added_video": video,
			"videos":      room.Videos(),
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast video added: %w", err)
	}

	return nil
}

// fillVideoData completes missing title fields from YouTube. Lookup failures
// are logged and the video is queued as sent.
func (c controller) fillVideoData(ctx context.Context, video *domain.Video) {
	if c.videoData == nil || video.Title != "" {
		return
	}

	data, err := c.videoData.Get(ctx, video.VideoID)
	if err != nil {
		c.logger.InfoContext(ctx, "failed to get video data", "video_id", video.VideoID, "error", err)
		return
	}

	video.Title = data.Title
	if video.AuthorName == "" {
		video.AuthorName = data.AuthorName
	}
	if video.ThumbnailURL == "" {
		video.ThumbnailURL = data.ThumbnailUrl
	}
}

type RemoveVideoInput struct {
	VideoID string `json:"video_id" validate:"required,max=64"`
}

func (c controller) handleRemoveVideo(ctx context.Context, input RemoveVideoInput) error {
	room, conn, err := c.getSession(ctx)
	if err != nil {
		return err
	}

	if _, err := room.RemoveVideo(input.VideoID); err != nil {
		return fmt.Errorf("failed to remove video: %w", err)
	}

	if _, err := room.Broadcast(ctx, &domain.Message{
		Type:     typeVideoRemoved,
		Username: conn.Username(),
		Payload: map[string]any{
			"removed_video_id": input.VideoID,
			"videos":           room.Videos(),
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast video removed: %w", err)
	}

	return nil
}

// UpdatePlayerInput carries only the fields the sender changed. Present
// zero values (time 0, state ended) are applied and null clears a field.
type UpdatePlayerInput struct {
	VideoID     o.Field[string]             `json:"video_id"`
	CurrentTime o.Field[float64]            `json:"current_time"`
	State       o.Field[domain.PlayerState] `json:"state"`
}

func (in UpdatePlayerInput) validate() error {
	if !in.VideoID.Defined && !in.CurrentTime.Defined && !in.State.Defined {
		return fmt.Errorf("%w: nothing to update", ErrValidationError)
	}
	if in.CurrentTime.Value != nil && *in.CurrentTime.Value < 0 {
		return fmt.Errorf("%w: current_time must not be negative", ErrValidationError)
	}
	if in.State.Value != nil && !in.State.Value.Valid() {
		return fmt.Errorf("%w: unknown state %d", ErrValidationError, *in.State.Value)
	}

	return nil
}

func (c controller) handleUpdatePlayer(ctx context.Context, input UpdatePlayerInput) error {
	room, conn, err := c.getSession(ctx)
	if err != nil {
		return err
	}

	if err := input.validate(); err != nil {
		return err
	}

	player := room.UpdatePlayer(domain.Player{
		CurrentVideoID:    input.VideoID,
		CurrentVideoTime:  input.CurrentTime,
		CurrentVideoState: input.State,
	})

	if _, err := room.BroadcastExclusive(ctx, &domain.Message{
		Type:     typePlayerUpdated,
		Username: conn.Username(),
		Payload: map[string]any{
			"player": player,
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast player updated: %w", err)
	}

	return nil
}

func (c controller) handleResetPlayer(ctx context.Context, input EmptyInput) error {
	room, conn, err := c.getSession(ctx)
	if err != nil {
		return err
	}

	room.ResetPlayer()

	if _, err := room.Broadcast(ctx, &domain.Message{
		Type:     typePlayerUpdated,
		Username: conn.Username(),
		Payload: map[string]any{
			"player": room.Player(),
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast player updated: %w", err)
	}

	return nil
}

type ChatInput struct {
	Text string `json:"text" validate:"required,max=1000"`
}

func (c controller) handleChat(ctx context.Context, input ChatInput) error {
	room, conn, err := c.getSession(ctx)
	if err != nil {
		return err
	}

	if _, err := room.Broadcast(ctx, &domain.Message{
		Type:     typeChat,
		Username: conn.Username(),
		Payload: map[string]any{
			"text": input.Text,
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast chat: %w", err)
	}

	return nil
}
