package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cinehub-io/web-ui/services/upstream"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	lanURLFlag         = "jellyfin-lan-url"
	wanURLFlag         = "jellyfin-wan-url"
	apiKeyFlag         = "jellyfin-api-key"
	userIDFlag         = "jellyfin-user-id"
	probeTimeoutFlag   = "jellyfin-probe-timeout"
	requestTimeoutFlag = "jellyfin-request-timeout"
)

const serviceName = "jellyfin"

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   lanURLFlag,
			Usage:  "jellyfin url inside the home network",
			Value:  "http://localhost:8096",
			EnvVar: "JELLYFIN_LAN_URL",
		},
		cli.StringFlag{
			Name:   wanURLFlag,
			Usage:  "jellyfin url used when the lan url is unreachable",
			Value:  "http://localhost:8096",
			EnvVar: "JELLYFIN_WAN_URL",
		},
		cli.StringFlag{
			Name:   apiKeyFlag,
			Usage:  "jellyfin api key",
			Value:  "",
			EnvVar: "JELLYFIN_API_KEY",
		},
		cli.StringFlag{
			Name:   userIDFlag,
			Usage:  "jellyfin user id",
			Value:  "",
			EnvVar: "JELLYFIN_USER_ID",
		},
		cli.DurationFlag{
			Name:   probeTimeoutFlag,
			Usage:  "lan reachability probe timeout",
			Value:  500 * time.Millisecond,
			EnvVar: "JELLYFIN_PROBE_TIMEOUT",
		},
		cli.DurationFlag{
			Name:   requestTimeoutFlag,
			Usage:  "jellyfin request timeout",
			Value:  10 * time.Second,
			EnvVar: "JELLYFIN_REQUEST_TIMEOUT",
		},
	)
}

type Config struct {
	LanURL         string
	WanURL         string
	APIKey         string
	UserID         string
	ProbeTimeout   time.Duration
	RequestTimeout time.Duration
}

type Api struct {
	cfg            Config
	cl             *http.Client
	prepareRequest func(r *http.Request) (*http.Request, error)
}

func New(c *cli.Context, cl *http.Client) *Api {
	return NewFromConfig(&Config{
		LanURL:         c.String(lanURLFlag),
		WanURL:         c.String(wanURLFlag),
		APIKey:         c.String(apiKeyFlag),
		UserID:         c.String(userIDFlag),
		ProbeTimeout:   c.Duration(probeTimeoutFlag),
		RequestTimeout: c.Duration(requestTimeoutFlag),
	}, cl)
}

func NewFromConfig(cfg *Config, cl *http.Client) *Api {
	c := *cfg
	c.LanURL = strings.TrimSuffix(c.LanURL, "/")
	c.WanURL = strings.TrimSuffix(c.WanURL, "/")
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 500 * time.Millisecond
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	key := c.APIKey
	prepareRequest := func(r *http.Request) (*http.Request, error) {
		r.Header.Set("X-Emby-Token", key)
		r.Header.Set("Accept", "application/json")
		return r, nil
	}
	log.Infof("jellyfin api endpoints lan=%v wan=%v", c.LanURL, c.WanURL)
	return &Api{
		cfg:            c,
		cl:             cl,
		prepareRequest: prepareRequest,
	}
}

// BaseURL picks the endpoint for a single call.
func (s *Api) BaseURL(ctx context.Context) string {
	return SelectEndpoint(ctx, s.cl, s.cfg.LanURL, s.cfg.WanURL, s.cfg.ProbeTimeout)
}

func (s *Api) newRequest(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Request, error) {
	u := s.BaseURL(ctx) + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return s.prepareRequest(req)
}

func (s *Api) get(ctx context.Context, path string, q url.Values, v any) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	req, err := s.newRequest(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}
	return upstream.DoJSON(s.cl, req, serviceName, v)
}

func (s *Api) userPath(p string) string {
	return fmt.Sprintf("/Users/%v%v", url.PathEscape(s.cfg.UserID), p)
}

func limitQuery(limit int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("Limit", strconv.Itoa(limit))
	}
	return q
}

// GetLatest returns recently added items.
func (s *Api) GetLatest(ctx context.Context, limit int) ([]Item, error) {
	var items []Item
	if err := s.get(ctx, s.userPath("/Items/Latest"), limitQuery(limit), &items); err != nil {
		return nil, errors.Wrap(err, "failed to get latest items")
	}
	return items, nil
}

// GetResume returns items with playback in progress.
func (s *Api) GetResume(ctx context.Context, limit int) ([]Item, error) {
	var raw json.RawMessage
	if err := s.get(ctx, s.userPath("/Items/Resume"), limitQuery(limit), &raw); err != nil {
		return nil, errors.Wrap(err, "failed to get resume items")
	}
	// older servers answer with a bare list
	if t := bytes.TrimSpace(raw); len(t) > 0 && t[0] == '[' {
		var items []Item
		if err := upstream.Decode(serviceName, t, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var resp ItemsResponse
	if err := upstream.Decode(serviceName, raw, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (s *Api) GetItem(ctx context.Context, itemID string) (*Item, error) {
	var item Item
	if err := s.get(ctx, s.userPath("/Items/"+url.PathEscape(itemID)), nil, &item); err != nil {
		return nil, errors.Wrapf(err, "failed to get item %v", itemID)
	}
	if item.ID == "" {
		return nil, &upstream.Error{Service: serviceName, Kind: upstream.KindNotFound}
	}
	return &item, nil
}

var includeItemTypes = map[string]string{
	"movie": "Movie",
	"tv":    "Series",
}

// IsInLibrary reports whether an item with the given TMDB id exists.
func (s *Api) IsInLibrary(ctx context.Context, tmdbID int, mediaType string) (bool, error) {
	q := url.Values{}
	q.Set("AnyProviderIdEquals", fmt.Sprintf("tmdb.%d", tmdbID))
	q.Set("Recursive", "true")
	q.Set("Limit", "1")
	if t, ok := includeItemTypes[mediaType]; ok {
		q.Set("IncludeItemTypes", t)
	}
	if s.cfg.UserID != "" {
		q.Set("UserId", s.cfg.UserID)
	}
	var resp ItemsResponse
	if err := s.get(ctx, "/Items", q, &resp); err != nil {
		return false, errors.Wrapf(err, "failed to check library for tmdb id %d", tmdbID)
	}
	return resp.TotalRecordCount > 0, nil
}

func (s *Api) ListSessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	if err := s.get(ctx, "/Sessions", nil, &sessions); err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}
	return sessions, nil
}

// Play asks the session to start playing the item right away.
// Any upstream answer is returned as a PlayResult, errors mean the
// server could not be reached.
func (s *Api) Play(ctx context.Context, sessionID, itemID string) (*PlayResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	body, err := json.Marshal(&PlayRequest{
		ItemIDs:     []string{itemID},
		PlayCommand: "PlayNow",
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode play request")
	}
	req, err := s.newRequest(ctx, http.MethodPost, "/Sessions/"+url.PathEscape(sessionID)+"/Playing", nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.cl.Do(req)
	if err != nil {
		return nil, &upstream.Error{Service: serviceName, Kind: upstream.KindUnreachable, Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)
	text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &PlayResult{
		StatusCode: resp.StatusCode,
		Response:   string(text),
	}, nil
}

// StreamURL is a direct stream url for the item on the currently selected endpoint.
func (s *Api) StreamURL(ctx context.Context, itemID string) string {
	return s.streamURL(s.BaseURL(ctx), itemID)
}

// WebURL links to the item in the jellyfin web client.
func (s *Api) WebURL(ctx context.Context, itemID string) string {
	return s.webURL(s.BaseURL(ctx), itemID)
}

// ItemURLs returns the stream and web client urls built on a single endpoint selection.
func (s *Api) ItemURLs(ctx context.Context, itemID string) (stream string, web string) {
	base := s.BaseURL(ctx)
	return s.streamURL(base, itemID), s.webURL(base, itemID)
}

func (s *Api) streamURL(base, itemID string) string {
	q := url.Values{}
	q.Set("static", "true")
	q.Set("api_key", s.cfg.APIKey)
	return fmt.Sprintf("%v/Videos/%v/stream?%v", base, url.PathEscape(itemID), q.Encode())
}

func (s *Api) webURL(base, itemID string) string {
	return fmt.Sprintf("%v/web/index.html#!/details?id=%v", base, url.QueryEscape(itemID))
}

// GetImage fetches the raw image of the given type (e.g. Primary).
func (s *Api) GetImage(ctx context.Context, itemID, imageType string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	req, err := s.newRequest(ctx, http.MethodGet, fmt.Sprintf("/Items/%v/Images/%v", url.PathEscape(itemID), url.PathEscape(imageType)), nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")
	b, err := upstream.Do(s.cl, req, serviceName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %v image of %v", imageType, itemID)
	}
	return b, nil
}
