package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sharetube/syncroom/internal/controller"
	"github.com/sharetube/syncroom/internal/domain"
	"github.com/sharetube/syncroom/internal/repository/connection/inmemory"
	"github.com/sharetube/syncroom/pkg/ctxlogger"
	"github.com/sharetube/syncroom/pkg/ytvideodata"
)

type AppConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	LogLevel        string        `json:"log_level"`
	MembersLimit    int           `json:"members_limit"`
	PlaylistLimit   int           `json:"playlist_limit"`
	SendBuffer      int           `json:"send_buffer"`
	MessageRate     float64       `json:"message_rate"`
	MessageBurst    int           `json:"message_burst"`
	FetchVideoData  bool          `json:"fetch_video_data"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535")
	}
	if cfg.MembersLimit < 0 {
		return fmt.Errorf("members limit must not be negative")
	}
	if cfg.PlaylistLimit < 0 {
		return fmt.Errorf("playlist limit must not be negative")
	}
	if cfg.SendBuffer < 1 {
		return fmt.Errorf("send buffer must be greater than 0")
	}
	if cfg.MessageRate < 0 {
		return fmt.Errorf("message rate must not be negative")
	}
	if cfg.MessageRate > 0 && cfg.MessageBurst < 1 {
		return fmt.Errorf("message burst must be greater than 0 when rate limiting is on")
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLogLevel(level string) (slog.Level, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return logLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return logLevel, nil
}

func newLogger(level slog.Level) *slog.Logger {
	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		}),
	}

	return slog.New(h)
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel, _ := parseLogLevel(cfg.LogLevel)
	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	registry := domain.NewRegistry(domain.Limits{
		Members:  cfg.MembersLimit,
		Playlist: cfg.PlaylistLimit,
	}, logger)
	connectionRepo := inmemory.NewRepo(logger)

	var videoData *ytvideodata.Client
	if cfg.FetchVideoData {
		videoData = ytvideodata.New()
	}

	controller := controller.NewController(registry, connectionRepo, videoDataOrNil(videoData), controller.Config{
		SendBufferSize: cfg.SendBuffer,
		MessageRate:    cfg.MessageRate,
		MessageBurst:   cfg.MessageBurst,
	}, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.Mux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		select {
		case <-sig:
		case <-ctx.Done():
		}

		shutdownCtx, c := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		// hijacked websocket connections are not tracked by http.Server
		closed := connectionRepo.CloseAll(websocket.CloseGoingAway, "server shutting down")
		logger.InfoContext(shutdownCtx, "closing connections", "count", closed)

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-serverCtx.Done()

	return nil
}

// videoDataOrNil keeps a nil client from turning into a non-nil interface.
func videoDataOrNil(c *ytvideodata.Client) interface {
	Get(context.Context, string) (*ytvideodata.VideoData, error)
} {
	if c == nil {
		return nil
	}

	return c
}
