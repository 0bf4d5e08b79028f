package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/sharetube/syncroom/internal/domain"
	"github.com/sharetube/syncroom/internal/repository/connection/inmemory"
	"github.com/sharetube/syncroom/pkg/validator"
	"github.com/sharetube/syncroom/pkg/wsrouter"
	"github.com/sharetube/syncroom/pkg/ytvideodata"
)

type iRegistry interface {
	Join(roomID string, member domain.Member) (*domain.Room, error)
	Lookup(roomID string) (*domain.Room, bool)
	Close(roomID string) bool
	IDs() []string
}

type iConnRepo interface {
	Add(conn inmemory.Conn) error
	Remove(connID string) error
}

type iVideoData interface {
	Get(ctx context.Context, videoID string) (*ytvideodata.VideoData, error)
}

type Config struct {
	SendBufferSize int
	// MessageRate is inbound messages per second per connection, 0 disables.
	MessageRate  float64
	MessageBurst int
}

type controller struct {
	registry  iRegistry
	connRepo  iConnRepo
	videoData iVideoData
	upgrader  websocket.Upgrader
	validate  *validator.Validator
	wsmux     *wsrouter.WSRouter
	logger    *slog.Logger
	cfg       Config
}

// NewController wires the HTTP and websocket handlers. videoData may be nil,
// in which case queued videos keep only what clients send.
func NewController(registry iRegistry, connRepo iConnRepo, videoData iVideoData, cfg Config, logger *slog.Logger) *controller {
	c := &controller{
		registry:  registry,
		connRepo:  connRepo,
		videoData: videoData,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
		cfg:      cfg,
	}

	c.wsmux = c.getWSRouter(
		wsrouter.WithRateLimit(rate.Limit(cfg.MessageRate), cfg.MessageBurst),
		wsrouter.WithErrorHandler(c.handleError),
	)

	return c
}
