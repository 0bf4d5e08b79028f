package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/sharetube/syncroom/pkg/ctxlogger"
	"github.com/sharetube/syncroom/pkg/validator"
)

var (
	ErrUnknownType    = errors.New("unknown message type")
	ErrRateLimited    = errors.New("too many messages")
	ErrInvalidMessage = errors.New("invalid message")
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Reader is the read side of a connection. ReadMessage returns one whole
// frame; its errors are transport errors and end ServeConn.
type Reader interface {
	ReadMessage() (messageType int, data []byte, err error)
}

type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// ErrorHandlerFunc is called for every message that could not be handled.
// The connection keeps being served afterwards.
type ErrorHandlerFunc func(ctx context.Context, err error)

type WSRouter struct {
	routes  map[string]HandlerFunc
	onError ErrorHandlerFunc
	limit   rate.Limit
	burst   int
}

type Option func(*WSRouter)

// WithRateLimit limits every served connection to limit messages per second
// with bursts of burst. A zero limit disables limiting.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(r *WSRouter) {
		r.limit = limit
		r.burst = burst
	}
}

func WithErrorHandler(fn ErrorHandlerFunc) Option {
	return func(r *WSRouter) {
		r.onError = fn
	}
}

func New(opts ...Option) *WSRouter {
	r := &WSRouter{
		routes:  make(map[string]HandlerFunc),
		onError: func(context.Context, error) {},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// ServeConn reads messages until the connection fails or ctx is done and
// routes each one to its handler. Only read errors end the loop; frames that
// do not decode are reported to the error handler.
func (r *WSRouter) ServeConn(ctx context.Context, conn Reader) error {
	var limiter *rate.Limiter
	if r.limit > 0 {
		limiter = rate.NewLimiter(r.limit, r.burst)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			r.onError(ctx, fmt.Errorf("%w: %w", ErrInvalidMessage, err))
			continue
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		msgCtx = ctxlogger.AppendCtx(msgCtx, slog.String("message_type", msg.Type))

		if limiter != nil && !limiter.Allow() {
			r.onError(msgCtx, ErrRateLimited)
			continue
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			r.onError(msgCtx, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type))
			continue
		}

		if err := handler(msgCtx, msg.Payload); err != nil {
			r.onError(msgCtx, err)
		}
	}
}

// Typed adapts fn to a HandlerFunc that decodes the payload into T and
// validates it with v when T is a struct. A missing payload decodes to the
// zero T.
func Typed[T any](v *validator.Validator, fn func(ctx context.Context, input T) error) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) error {
		var input T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
			}
		}

		if v != nil && isStruct(input) {
			if err := v.Check(input); err != nil {
				return err
			}
		}

		return fn(ctx, input)
	}
}
