package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/syncroom/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	membersLimit = configVar[int]{
		envKey:       "SERVER_MEMBERS_LIMIT",
		flagKey:      "members-limit",
		defaultValue: 0,
	}
	playlistLimit = configVar[int]{
		envKey:       "SERVER_PLAYLIST_LIMIT",
		flagKey:      "playlist-limit",
		defaultValue: 25,
	}
	sendBuffer = configVar[int]{
		envKey:       "SERVER_SEND_BUFFER",
		flagKey:      "send-buffer",
		defaultValue: 256,
	}
	messageRate = configVar[float64]{
		envKey:       "SERVER_MESSAGE_RATE",
		flagKey:      "message-rate",
		defaultValue: 20,
	}
	messageBurst = configVar[int]{
		envKey:       "SERVER_MESSAGE_BURST",
		flagKey:      "message-burst",
		defaultValue: 40,
	}
	fetchVideoData = configVar[bool]{
		envKey:       "SERVER_FETCH_VIDEO_DATA",
		flagKey:      "fetch-video-data",
		defaultValue: false,
	}
	shutdownTimeout = configVar[time.Duration]{
		envKey:       "SERVER_SHUTDOWN_TIMEOUT",
		flagKey:      "shutdown-timeout",
		defaultValue: 30 * time.Second,
	}
)

func bind[T any](v configVar[T]) {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(membersLimit.flagKey, membersLimit.defaultValue, "Maximum number of members in a room, 0 for no limit")
	pflag.Int(playlistLimit.flagKey, playlistLimit.defaultValue, "Maximum number of queued videos in a room, 0 for no limit")
	pflag.Int(sendBuffer.flagKey, sendBuffer.defaultValue, "Outgoing messages buffered per connection")
	pflag.Float64(messageRate.flagKey, messageRate.defaultValue, "Inbound messages per second per connection, 0 to disable")
	pflag.Int(messageBurst.flagKey, messageBurst.defaultValue, "Inbound message burst per connection")
	pflag.Bool(fetchVideoData.flagKey, fetchVideoData.defaultValue, "Fill missing video titles from YouTube")
	pflag.Duration(shutdownTimeout.flagKey, shutdownTimeout.defaultValue, "Graceful shutdown timeout")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	bind(port)
	bind(host)
	bind(logLevel)
	bind(membersLimit)
	bind(playlistLimit)
	bind(sendBuffer)
	bind(messageRate)
	bind(messageBurst)
	bind(fetchVideoData)
	bind(shutdownTimeout)

	config := &app.AppConfig{
		Host:            viper.GetString(host.flagKey),
		Port:            viper.GetInt(port.flagKey),
		LogLevel:        viper.GetString(logLevel.flagKey),
		MembersLimit:    viper.GetInt(membersLimit.flagKey),
		PlaylistLimit:   viper.GetInt(playlistLimit.flagKey),
		SendBuffer:      viper.GetInt(sendBuffer.flagKey),
		MessageRate:     viper.GetFloat64(messageRate.flagKey),
		MessageBurst:    viper.GetInt(messageBurst.flagKey),
		FetchVideoData:  viper.GetBool(fetchVideoData.flagKey),
		ShutdownTimeout: viper.GetDuration(shutdownTimeout.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	if err := app.Run(ctx, appConfig); err != nil {
		log.Fatal(err)
	}
}
