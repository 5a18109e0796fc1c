package device

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/cinehub-io/web-ui/services/jellyfin"
	"github.com/cinehub-io/web-ui/services/upstream"
	"github.com/cinehub-io/web-ui/services/web"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	csrf "github.com/utrack/gin-csrf"
)

type playerMock struct {
	res   *jellyfin.PlayResult
	err   error
	calls int
}

func (m *playerMock) Play(ctx context.Context, sid, iid string) (*jellyfin.PlayResult, error) {
	m.calls++
	return m.res, m.err
}

func newTestRouter(p *playerMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	web.Configure(r, "secret")
	RegisterHandler(r, p)
	r.GET("/token", func(c *gin.Context) {
		c.String(http.StatusOK, csrf.GetToken(c))
	})
	showFlashes := func(c *gin.Context) {
		ctx := web.NewContext(c)
		c.JSON(http.StatusOK, gin.H{"success": ctx.Success, "errors": ctx.Errors})
	}
	r.GET("/", showFlashes)
	r.GET("/title/jellyfin/:id", showFlashes)
	return r
}

func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

type flashes struct {
	Success []string `json:"success"`
	Errors  []string `json:"errors"`
}

// send posts the form with a valid csrf token and follows the redirect.
func send(t *testing.T, p *playerMock, form url.Values) (*httptest.ResponseRecorder, *flashes) {
	t.Helper()
	r := newTestRouter(p)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/token", nil))
	require.Equal(t, http.StatusOK, w.Code)
	form.Set("_csrf", w.Body.String())
	cookies := w.Result().Cookies()

	req := httptest.NewRequest(http.MethodPost, "/send-to-device", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	r.ServeHTTP(res, withCookies(req, cookies))
	if res.Code != http.StatusSeeOther {
		return res, nil
	}
	if next := res.Result().Cookies(); len(next) > 0 {
		cookies = next
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withCookies(httptest.NewRequest(http.MethodGet, res.Header().Get("Location"), nil), cookies))
	require.Equal(t, http.StatusOK, w.Code)
	var f flashes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &f))
	return res, &f
}

func TestSend(t *testing.T) {
	tests := []struct {
		name    string
		player  *playerMock
		form    url.Values
		target  string
		calls   int
		success string
		err     string
	}{
		{
			name:    "accepted",
			player:  &playerMock{res: &jellyfin.PlayResult{StatusCode: 204}},
			form:    url.Values{"item_id": {"mv1"}, "session_id": {"s1"}},
			target:  "/title/jellyfin/mv1",
			calls:   1,
			success: "Playback started (204)",
		},
		{
			name:   "rejected",
			player: &playerMock{res: &jellyfin.PlayResult{StatusCode: 400, Response: "nope"}},
			form:   url.Values{"item_id": {"mv1"}, "session_id": {"s1"}},
			target: "/title/jellyfin/mv1",
			calls:  1,
			err:    "device rejected playback: nope",
		},
		{
			name:   "rejected without body",
			player: &playerMock{res: &jellyfin.PlayResult{StatusCode: 404}},
			form:   url.Values{"item_id": {"mv1"}, "session_id": {"s1"}},
			target: "/title/jellyfin/mv1",
			calls:  1,
			err:    "device rejected playback: 404 Not Found",
		},
		{
			name:   "unreachable",
			player: &playerMock{err: &upstream.Error{Service: "jellyfin", Kind: upstream.KindUnreachable}},
			form:   url.Values{"item_id": {"mv1"}, "session_id": {"s1"}},
			target: "/title/jellyfin/mv1",
			calls:  1,
			err:    "failed to send to device: failed to send play command: jellyfin: unreachable",
		},
		{
			name:   "missing session",
			player: &playerMock{},
			form:   url.Values{"item_id": {"mv1"}},
			target: "/title/jellyfin/mv1",
			calls:  0,
			err:    "failed to send to device: session id and item id are required",
		},
		{
			name:   "missing item",
			player: &playerMock{},
			form:   url.Values{"session_id": {"s1"}},
			target: "/",
			calls:  0,
			err:    "failed to send to device: session id and item id are required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, f := send(t, tt.player, tt.form)
			require.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.target, w.Header().Get("Location"))
			assert.Equal(t, tt.calls, tt.player.calls)
			require.NotNil(t, f)
			if tt.success != "" {
				assert.Equal(t, []string{tt.success}, f.Success)
				assert.Empty(t, f.Errors)
			} else {
				assert.Empty(t, f.Success)
				assert.Equal(t, []string{tt.err}, f.Errors)
			}
		})
	}
}

func TestSend_RequiresCSRFToken(t *testing.T) {
	p := &playerMock{res: &jellyfin.PlayResult{StatusCode: 204}}
	r := newTestRouter(p)
	form := url.Values{"item_id": {"mv1"}, "session_id": {"s1"}}
	req := httptest.NewRequest(http.MethodPost, "/send-to-device", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, p.calls)
}
