package ytvideodata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoNotEmbeddable = errors.New("video is not embeddable")
)

const (
	defaultOEmbedURL = "https://www.youtube.com/oembed"
	defaultWatchURL  = "https://www.youtube.com/watch"
	defaultPageURL   = "https://youtu.be/"
	thumbnailURLFmt  = "https://i.ytimg.com/vi/%s/hqdefault.jpg"
)

type VideoData struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailUrl string `json:"thumbnail_url"`
}

type Client struct {
	httpClient *http.Client
	oembedURL  string
	watchURL   string
	pageURL    string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithBaseURLs overrides the YouTube endpoints, for tests and proxies.
func WithBaseURLs(oembedURL, watchURL, pageURL string) Option {
	return func(client *Client) {
		client.oembedURL = oembedURL
		client.watchURL = watchURL
		client.pageURL = pageURL
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		oembedURL:  defaultOEmbedURL,
		watchURL:   defaultWatchURL,
		pageURL:    defaultPageURL,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get looks the video up through oEmbed and falls back to scraping the video
// page when embedding is disabled.
func (c *Client) Get(ctx context.Context, videoID string) (*VideoData, error) {
	videoData, err := c.getVideoWithEmbed(ctx, videoID)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return nil, fmt.Errorf("failed to get video data with embed: %w", err)
		}

		videoData, err = c.getFromPage(ctx, videoID)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from page: %w", err)
		}
	}

	return videoData, nil
}
