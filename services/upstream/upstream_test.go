package upstream

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantKind   Kind
	}{
		{name: "ok", statusCode: http.StatusOK, body: `{"value":"x"}`, wantKind: KindUnknown},
		{name: "not found", statusCode: http.StatusNotFound, body: `nope`, wantKind: KindNotFound},
		{name: "server error", statusCode: http.StatusInternalServerError, body: `boom`, wantKind: KindStatus},
		{name: "unauthorized", statusCode: http.StatusUnauthorized, body: `denied`, wantKind: KindStatus},
		{name: "malformed", statusCode: http.StatusOK, body: `{"value":`, wantKind: KindMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
			require.NoError(t, err)

			var out struct {
				Value string `json:"value"`
			}
			err = DoJSON(srv.Client(), req, "test", &out)
			if tt.wantKind == KindUnknown {
				require.NoError(t, err)
				assert.Equal(t, "x", out.Value)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestDo_StatusBodyKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad media type"))
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err := Do(srv.Client(), req, "test")

	var ue *Error
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusBadRequest, ue.StatusCode)
	assert.Equal(t, "bad media type", ue.Body)
	assert.Contains(t, ue.Error(), "status 400")
}

func TestDo_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()

	req, _ := http.NewRequest(http.MethodGet, u, nil)
	_, err := Do(http.DefaultClient, req, "test")
	assert.Equal(t, KindUnreachable, KindOf(err))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := errors.Wrap(&Error{Service: "tmdb", Kind: KindNotFound}, "get details")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}
