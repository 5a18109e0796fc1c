package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cinehub-io/web-ui/services/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchVideoID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/youtube/v3/search", r.URL.Path)
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "secret", q.Get("key"))
		assert.Equal(t, "Inception (2010) full movie", q.Get("q"))
		_, _ = w.Write([]byte(`{"items":[{"id":{"kind":"youtube#video","videoId":"YoHD9XEInc0"}}]}`))
	}))
	defer srv.Close()

	api := NewWithURL(srv.URL, "secret", &http.Client{})
	id, err := api.SearchVideoID(context.Background(), "Inception (2010) full movie")
	require.NoError(t, err)
	assert.Equal(t, "YoHD9XEInc0", id)
}

func TestSearchVideoID_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	id, err := NewWithURL(srv.URL, "secret", &http.Client{}).SearchVideoID(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestSearchVideoID_QuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewWithURL(srv.URL, "secret", &http.Client{}).SearchVideoID(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, upstream.KindStatus, upstream.KindOf(err))
}
