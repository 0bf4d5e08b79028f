package ytvideodata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(
		WithHTTPClient(srv.Client()),
		WithBaseURLs(srv.URL+"/oembed", "https://www.youtube.com/watch", srv.URL+"/page/"),
	)
}

func TestGetFromOEmbed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://www.youtube.com/watch?v=abc", r.URL.Query().Get("url"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Song","author_name":"Band","thumbnail_url":"https://img/abc.jpg"}`))
	})
	client := newTestClient(t, mux)

	data, err := client.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, &VideoData{Title: "Song", AuthorName: "Band", ThumbnailUrl: "https://img/abc.jpg"}, data)
}

func TestGetFallsBackToPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/page/abc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Hidden Song</title></head>
<body><span><link itemprop="name" content="Hidden Band"></span></body></html>`))
	})
	client := newTestClient(t, mux)

	data, err := client.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Hidden Song", data.Title)
	assert.Equal(t, "Hidden Band", data.AuthorName)
	assert.Equal(t, "https://i.ytimg.com/vi/abc/hqdefault.jpg", data.ThumbnailUrl)
}

func TestGetNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	client := newTestClient(t, mux)

	_, err := client.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}
