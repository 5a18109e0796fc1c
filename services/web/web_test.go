package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Configure(r, "test-secret")
	return r
}

func TestRequestID(t *testing.T) {
	r := newTestEngine()
	var got string
	r.GET("/", func(c *gin.Context) {
		got = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, got)
	assert.Equal(t, got, w.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "given")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given", got)
}

func TestCSRF(t *testing.T) {
	r := newTestEngine()
	r.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, NewContext(c).CSRF)
	})
	r.POST("/form", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/form", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Body.String()
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodPost, "/form", nil)
	req.Header.Set("X-CSRF-Token", token)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFlashRoundTrip(t *testing.T) {
	r := newTestEngine()
	var ctx *Context
	r.GET("/page", func(c *gin.Context) {
		ctx = NewContext(c)
		c.Status(http.StatusOK)
	})
	r.GET("/fail", func(c *gin.Context) {
		RedirectWithError(c, errors.New("boom"))
	})
	r.GET("/ok", func(c *gin.Context) {
		RedirectWithSuccessAndMessage(c, "saved")
	})

	for _, tt := range []struct {
		path    string
		success []string
		errs    []string
	}{
		{"/ok", []string{"saved"}, nil},
		{"/fail", nil, []string{"boom"}},
	} {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Referer", "http://localhost/page?x=1")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/page?x=1", w.Header().Get("Location"))

			req = httptest.NewRequest(http.MethodGet, "/page", nil)
			for _, c := range w.Result().Cookies() {
				req.AddCookie(c)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.success, ctx.Success)
			assert.Equal(t, tt.errs, ctx.Errors)
			assert.NotEmpty(t, ctx.CSRF)
		})
	}
}

func TestReturnURL(t *testing.T) {
	tests := []struct {
		name    string
		form    string
		referer string
		want    string
	}{
		{"form wins", "/title/tmdb/1", "http://x/other", "/title/tmdb/1"},
		{"referer", "", "http://localhost:8080/title/jellyfin/abc", "/title/jellyfin/abc"},
		{"external form ignored", "//evil.com/x", "", "/"},
		{"backslash form ignored", `/\evil.com`, "", "/"},
		{"backslash referer ignored", "", `http://localhost/\evil.com`, "/"},
		{"nothing", "", "", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			body := url.Values{}
			if tt.form != "" {
				body.Set("return_url", tt.form)
			}
			req := httptest.NewRequest(http.MethodPost, "/rate", strings.NewReader(body.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			c.Request = req
			assert.Equal(t, tt.want, ReturnURL(c, "/"))
		})
	}
}

func TestHelper(t *testing.T) {
	h := &Helper{}
	assert.Equal(t, "2h 28m", h.Runtime(148))
	assert.Equal(t, "45m", h.Runtime(45))
	assert.Equal(t, "", h.Runtime(0))
	assert.Equal(t, "2h 28m", h.RuntimeTicks(148*ticksPerMinute))
	assert.Equal(t, "https://cinehub.example", (&Helper{domain: "https://cinehub.example"}).Domain())
	assert.Equal(t, "8.4", h.Score(8.37))
}
