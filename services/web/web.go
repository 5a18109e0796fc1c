package web

import (
	"fmt"
	"net"
	"net/http"

	"github.com/cinehub-io/web-ui/services/common"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	csrf "github.com/utrack/gin-csrf"
)

const (
	webHostFlag    = "host"
	webPortFlag    = "port"
	sessionName    = "cinehub"
	csrfEnabledKey = "csrf_enabled"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   webHostFlag,
			Usage:  "listening host",
			Value:  "",
			EnvVar: "WEB_HOST",
		},
		cli.IntFlag{
			Name:   webPortFlag,
			Usage:  "http listening port",
			Value:  8080,
			EnvVar: "WEB_PORT",
		},
	)
}

type Web struct {
	host string
	port int
	ln   net.Listener
	r    *gin.Engine
}

// New installs request ids, cookie sessions and csrf protection on r.
func New(c *cli.Context, r *gin.Engine) (*Web, error) {
	secret := c.String(common.SessionSecretFlag)
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	Configure(r, secret)
	return &Web{
		host: c.String(webHostFlag),
		port: c.Int(webPortFlag),
		r:    r,
	}, nil
}

func Configure(r *gin.Engine, secret string) {
	r.Use(RequestID)
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	protect := csrf.Middleware(csrf.Options{
		Secret: secret,
		ErrorFunc: func(c *gin.Context) {
			GetLogger(c).Warn("csrf token mismatch")
			c.String(http.StatusBadRequest, "CSRF token mismatch")
			c.Abort()
		},
		IgnoreMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	})
	r.Use(func(c *gin.Context) {
		c.Set(csrfEnabledKey, true)
		protect(c)
	})
}

func (s *Web) Serve() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "failed to web listen to tcp connection")
	}
	s.ln = ln
	log.Infof("serving web at %v", addr)
	return http.Serve(ln, s.r)
}

func (s *Web) Close() {
	log.Info("closing web")
	defer func() {
		log.Info("web closed")
	}()
	if s.ln != nil {
		_ = s.ln.Close()
	}
}
