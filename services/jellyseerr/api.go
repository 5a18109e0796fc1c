package jellyseerr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cinehub-io/web-ui/services/upstream"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	urlFlag            = "jellyseerr-url"
	apiKeyFlag         = "jellyseerr-api-key"
	userIDFlag         = "jellyseerr-user-id"
	requestTimeoutFlag = "jellyseerr-request-timeout"
)

const serviceName = "jellyseerr"

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   urlFlag,
			Usage:  "jellyseerr url",
			Value:  "http://localhost:5055",
			EnvVar: "JELLYSEERR_URL",
		},
		cli.StringFlag{
			Name:   apiKeyFlag,
			Usage:  "jellyseerr api key",
			Value:  "",
			EnvVar: "JELLYSEERR_API_KEY",
		},
		cli.StringFlag{
			Name:   userIDFlag,
			Usage:  "jellyseerr user id to request on behalf of",
			Value:  "",
			EnvVar: "JELLYSEERR_USER_ID",
		},
		cli.DurationFlag{
			Name:   requestTimeoutFlag,
			Usage:  "jellyseerr request timeout",
			Value:  15 * time.Second,
			EnvVar: "JELLYSEERR_REQUEST_TIMEOUT",
		},
	)
}

type Config struct {
	URL            string
	APIKey         string
	UserID         string
	RequestTimeout time.Duration
}

type Api struct {
	url            string
	userID         int
	timeout        time.Duration
	cl             *http.Client
	prepareRequest func(r *http.Request) (*http.Request, error)
}

type requestBody struct {
	MediaType string `json:"mediaType"`
	MediaID   int    `json:"mediaId"`
	UserID    int    `json:"userId,omitempty"`
}

// RequestResult is the outcome of a download request as shown to the user.
type RequestResult struct {
	OK     bool            `json:"ok"`
	Status int             `json:"status,omitempty"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func New(c *cli.Context, cl *http.Client) *Api {
	return NewFromConfig(&Config{
		URL:            c.String(urlFlag),
		APIKey:         c.String(apiKeyFlag),
		UserID:         c.String(userIDFlag),
		RequestTimeout: c.Duration(requestTimeoutFlag),
	}, cl)
}

func NewFromConfig(cfg *Config, cl *http.Client) *Api {
	key := cfg.APIKey
	prepareRequest := func(r *http.Request) (*http.Request, error) {
		r.Header.Set("X-Api-Key", key)
		r.Header.Set("Accept", "application/json")
		return r, nil
	}
	var uid int
	if cfg.UserID != "" {
		id, err := strconv.Atoi(cfg.UserID)
		if err != nil {
			log.WithError(err).WithField("user_id", cfg.UserID).Warn("ignoring non-numeric jellyseerr user id")
		} else {
			uid = id
		}
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	u := strings.TrimSuffix(cfg.URL, "/")
	log.Infof("jellyseerr api endpoint %v", u)
	return &Api{
		url:            u,
		userID:         uid,
		timeout:        timeout,
		cl:             cl,
		prepareRequest: prepareRequest,
	}
}

// Request asks jellyseerr to download a title. Upstream refusals come back
// as a non-OK result, only transport failures are returned as errors.
func (s *Api) Request(ctx context.Context, mediaType string, tmdbID int) (*RequestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	body, err := json.Marshal(&requestBody{
		MediaType: mediaType,
		MediaID:   tmdbID,
		UserID:    s.userID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+"/api/v1/request", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req, err = s.prepareRequest(req)
	if err != nil {
		return nil, errors.Wrap(err, "prepare request")
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.cl.Do(req)
	if err != nil {
		return nil, &upstream.Error{Service: serviceName, Kind: upstream.KindUnreachable, Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &upstream.Error{Service: serviceName, Kind: upstream.KindUnreachable, Err: errors.Wrap(err, "read body")}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestResult{
			OK:     false,
			Status: resp.StatusCode,
			Error:  strings.TrimSpace(string(b)),
		}, nil
	}
	res := &RequestResult{OK: true}
	if len(bytes.TrimSpace(b)) > 0 && json.Valid(b) {
		res.Data = b
	}
	return res, nil
}
