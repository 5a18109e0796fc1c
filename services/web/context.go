package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	csrf "github.com/utrack/gin-csrf"
)

const (
	flashSuccess = "flash_success"
	flashError   = "flash_error"
)

// Context is passed to every rendered view.
type Context struct {
	Data      any
	Err       error
	CSRF      string
	RequestID string
	Path      string
	Success   []string
	Errors    []string
	c         *gin.Context
}

func NewContext(c *gin.Context) *Context {
	ctx := &Context{
		RequestID: GetRequestID(c),
		Path:      c.Request.URL.Path,
		c:         c,
	}
	if _, ok := c.Get(csrfEnabledKey); ok {
		ctx.CSRF = csrf.GetToken(c)
	}
	ctx.Success, ctx.Errors = popFlashes(c)
	return ctx
}

func (s *Context) WithData(d any) *Context {
	s.Data = d
	return s
}

func (s *Context) WithErr(err error) *Context {
	s.Err = err
	return s
}

func (s *Context) GinContext() *gin.Context {
	return s.c
}

func popFlashes(c *gin.Context) (success []string, errs []string) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return
	}
	session := sessions.Default(c)
	success = toStrings(session.Flashes(flashSuccess))
	errs = toStrings(session.Flashes(flashError))
	if len(success) > 0 || len(errs) > 0 {
		_ = session.Save()
	}
	return
}

func toStrings(in []any) []string {
	var res []string
	for _, v := range in {
		if s, ok := v.(string); ok {
			res = append(res, s)
		}
	}
	return res
}

func addFlash(c *gin.Context, key string, msg string) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return
	}
	session := sessions.Default(c)
	session.AddFlash(msg, key)
	if err := session.Save(); err != nil {
		GetLogger(c).WithError(err).Warn("failed to save flash message")
	}
}

// ReturnURL picks a same-site redirect target: the return_url form value,
// then the referer, then fallback.
func ReturnURL(c *gin.Context, fallback string) string {
	if p := localPath(c.PostForm("return_url"), false); p != "" {
		return p
	}
	if p := localPath(c.Request.Referer(), true); p != "" {
		return p
	}
	return fallback
}

func localPath(raw string, allowHost bool) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (!allowHost && u.Host != "") {
		return ""
	}
	// browsers read "//" and "/\" as protocol-relative
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") || strings.HasPrefix(u.Path, "/\\") {
		return ""
	}
	p := u.Path
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}

func RedirectWithError(c *gin.Context, err error) {
	RedirectTo(c, ReturnURL(c, "/"), err, "")
}

func RedirectWithSuccessAndMessage(c *gin.Context, msg string) {
	RedirectTo(c, ReturnURL(c, "/"), nil, msg)
}

// RedirectTo sends a 303 to target with an error or success flash.
func RedirectTo(c *gin.Context, target string, err error, msg string) {
	if err != nil {
		GetLogger(c).WithError(err).Warn("request failed")
		addFlash(c, flashError, err.Error())
	} else if msg != "" {
		addFlash(c, flashSuccess, msg)
	}
	c.Redirect(http.StatusSeeOther, target)
}
