package common

import (
	"net/http"
	"time"

	"github.com/urfave/cli"
)

var (
	DomainFlag        = "domain"
	SessionSecretFlag = "secret"
	UserAgentFlag     = "http-user-agent"
	HTTPTimeoutFlag   = "http-timeout"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	f = append(f,
		cli.StringFlag{
			Name:   DomainFlag,
			Usage:  "domain",
			Value:  "http://localhost:8080",
			EnvVar: "DOMAIN",
		},
		cli.StringFlag{
			Name:   SessionSecretFlag,
			Usage:  "session secret",
			Value:  "secret123",
			EnvVar: "SESSION_SECRET",
		},
		cli.StringFlag{
			Name:   UserAgentFlag,
			Usage:  "user agent for upstream http requests",
			Value:  "cinehub/1.0",
			EnvVar: "HTTP_USER_AGENT",
		},
		cli.DurationFlag{
			Name:   HTTPTimeoutFlag,
			Usage:  "hard ceiling for any upstream http request",
			Value:  30 * time.Second,
			EnvVar: "HTTP_TIMEOUT",
		},
	)

	return f
}

// AnyMethods lists methods accepted by JSON endpoints.
var AnyMethods = []string{"GET", "POST", "OPTIONS"}

type userAgentTransport struct {
	ua   string
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get("User-Agent") == "" {
		r = r.Clone(r.Context())
		r.Header.Set("User-Agent", t.ua)
	}
	return t.next.RoundTrip(r)
}

// NewClient builds the http client shared by all upstream services.
// Per-call deadlines are applied by callers through contexts.
func NewClient(c *cli.Context) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport.(*http.Transport).Clone()
	if ua := c.String(UserAgentFlag); ua != "" {
		transport = &userAgentTransport{ua: ua, next: transport}
	}
	return &http.Client{
		Timeout:   c.Duration(HTTPTimeoutFlag),
		Transport: transport,
	}
}
