package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharetube/syncroom/pkg/validator"
)

// scriptedConn replays raw frames, then reports io.EOF.
type scriptedConn struct {
	frames []string
}

func (c *scriptedConn) ReadMessage() (int, []byte, error) {
	if len(c.frames) == 0 {
		return 0, nil, io.EOF
	}

	frame := c.frames[0]
	c.frames = c.frames[1:]
	return 1, []byte(frame), nil
}

type addVideoInput struct {
	VideoID string `json:"video_id" validate:"required"`
}

func TestServeConnRoutesMessages(t *testing.T) {
	var got []string
	var errs []error
	router := New(WithErrorHandler(func(ctx context.Context, err error) {
		errs = append(errs, err)
	}))
	router.Handle("ADD_VIDEO", Typed(validator.NewValidator(), func(ctx context.Context, input addVideoInput) error {
		assert.Equal(t, "ADD_VIDEO", GetMessageTypeFromCtx(ctx))
		got = append(got, input.VideoID)
		return nil
	}))
	router.Handle("ALIVE", func(ctx context.Context, payload json.RawMessage) error {
		return nil
	})

	conn := &scriptedConn{frames: []string{
		`{"type":"ADD_VIDEO","payload":{"video_id":"v1"}}`,
		`{"type":"ALIVE"}`,
		`{"type":"ADD_VIDEO","payload":{"video_id":"v2"}}`,
	}}

	err := router.ServeConn(context.Background(), conn)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"v1", "v2"}, got)
	assert.Empty(t, errs)
}

func TestServeConnReportsBadMessages(t *testing.T) {
	var errs []error
	router := New(WithErrorHandler(func(ctx context.Context, err error) {
		errs = append(errs, err)
	}))
	handlerErr := errors.New("boom")
	router.Handle("ADD_VIDEO", Typed(validator.NewValidator(), func(ctx context.Context, input addVideoInput) error {
		return handlerErr
	}))

	conn := &scriptedConn{frames: []string{
		`{"type":"NOPE"}`,
		`{"type":"ADD_VIDEO","payload":{}}`,
		`{"type":"ADD_VIDEO","payload":{"video_id":1}}`,
		`{"type":"ADD_VIDEO","payload":{"video_id":"v1"}}`,
		`{not json`,
		`{"type":"ADD_VIDEO"`,
		``,
		`[1,2]`,
	}}

	err := router.ServeConn(context.Background(), conn)
	assert.ErrorIs(t, err, io.EOF)
	require.Len(t, errs, 8)
	assert.ErrorIs(t, errs[0], ErrUnknownType)

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, errs[1], &verrs)

	assert.ErrorIs(t, errs[2], ErrInvalidMessage)
	assert.ErrorIs(t, errs[3], handlerErr)
	for _, err := range errs[4:] {
		assert.ErrorIs(t, err, ErrInvalidMessage)
	}
}

func TestServeConnRateLimit(t *testing.T) {
	handled := 0
	limited := 0
	router := New(
		WithRateLimit(0.001, 2),
		WithErrorHandler(func(ctx context.Context, err error) {
			if errors.Is(err, ErrRateLimited) {
				limited++
			}
		}),
	)
	router.Handle("ALIVE", func(ctx context.Context, payload json.RawMessage) error {
		handled++
		return nil
	})

	conn := &scriptedConn{}
	for i := 0; i < 5; i++ {
		conn.frames = append(conn.frames, `{"type":"ALIVE"}`)
	}

	_ = router.ServeConn(context.Background(), conn)
	assert.Equal(t, 2, handled)
	assert.Equal(t, 3, limited)
}

func TestServeConnStopsOnContext(t *testing.T) {
	router := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := router.ServeConn(ctx, &scriptedConn{frames: []string{`{"type":"ALIVE"}`}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTypedEmptyPayload(t *testing.T) {
	called := false
	handler := Typed(validator.NewValidator(), func(ctx context.Context, input struct{}) error {
		called = true
		return nil
	})

	require.NoError(t, handler(context.Background(), nil))
	assert.True(t, called)
}
