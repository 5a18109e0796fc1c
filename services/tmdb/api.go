package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cinehub-io/web-ui/services/upstream"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/text/language"
)

const (
	keyFlag            = "tmdb-api-key"
	hostFlag           = "tmdb-api-host"
	portFlag           = "tmdb-api-port"
	secureFlag         = "tmdb-api-secure"
	regionFlag         = "tmdb-region"
	languageFlag       = "tmdb-language"
	imageHostFlag      = "tmdb-image-host"
	requestTimeoutFlag = "tmdb-request-timeout"
)

const (
	serviceName     = "tmdb"
	defaultRegion   = "US"
	defaultLanguage = "en-US"
	// trendingPageSize is what one /trending page holds.
	trendingPageSize = 20
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   hostFlag,
			Usage:  "tmdb api host",
			EnvVar: "TMDB_API_HOST",
			Value:  "api.themoviedb.org",
		},
		cli.IntFlag{
			Name:   portFlag,
			Usage:  "tmdb api port",
			EnvVar: "TMDB_API_PORT",
			Value:  443,
		},
		cli.BoolTFlag{
			Name:   secureFlag,
			Usage:  "tmdb api secure (https)",
			EnvVar: "TMDB_API_SECURE",
		},
		cli.StringFlag{
			Name:   keyFlag,
			Usage:  "tmdb api key",
			Value:  "",
			EnvVar: "TMDB_API_KEY",
		},
		cli.StringFlag{
			Name:   regionFlag,
			Usage:  "tmdb watch provider region",
			Value:  defaultRegion,
			EnvVar: "TMDB_REGION",
		},
		cli.StringFlag{
			Name:   languageFlag,
			Usage:  "tmdb metadata language",
			Value:  defaultLanguage,
			EnvVar: "TMDB_LANGUAGE",
		},
		cli.StringFlag{
			Name:   imageHostFlag,
			Usage:  "tmdb image host",
			Value:  "image.tmdb.org",
			EnvVar: "TMDB_IMAGE_HOST",
		},
		cli.DurationFlag{
			Name:   requestTimeoutFlag,
			Usage:  "tmdb request timeout",
			Value:  10 * time.Second,
			EnvVar: "TMDB_REQUEST_TIMEOUT",
		},
	)
}

type Config struct {
	URL            string
	ImageURL       string
	APIKey         string
	Region         string
	Language       string
	RequestTimeout time.Duration
}

type Api struct {
	url            string
	imageURL       string
	region         string
	timeout        time.Duration
	cl             *http.Client
	prepareRequest func(r *http.Request) (*http.Request, error)
}

func New(c *cli.Context, cl *http.Client) *Api {
	protocol := "http"
	if c.BoolT(secureFlag) {
		protocol = "https"
	}
	return NewFromConfig(&Config{
		URL:            fmt.Sprintf("%v://%v:%v/3", protocol, c.String(hostFlag), c.Int(portFlag)),
		ImageURL:       fmt.Sprintf("https://%v/t/p", c.String(imageHostFlag)),
		APIKey:         c.String(keyFlag),
		Region:         c.String(regionFlag),
		Language:       c.String(languageFlag),
		RequestTimeout: c.Duration(requestTimeoutFlag),
	}, cl)
}

func NewFromConfig(cfg *Config, cl *http.Client) *Api {
	lang := normalizeLanguage(cfg.Language)
	region := normalizeRegion(cfg.Region)
	key := cfg.APIKey
	if key == "" {
		log.Warn("tmdb api key is not set, tmdb rows will stay empty")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	prepareRequest := func(r *http.Request) (*http.Request, error) {
		q := r.URL.Query()
		q.Set("api_key", key)
		if lang != "" {
			q.Set("language", lang)
		}
		r.URL.RawQuery = q.Encode()
		r.Header.Set("Accept", "application/json")
		return r, nil
	}
	log.Infof("tmdb api endpoint %v (language=%v region=%v)", cfg.URL, lang, region)
	return &Api{
		url:            strings.TrimSuffix(cfg.URL, "/"),
		imageURL:       strings.TrimSuffix(cfg.ImageURL, "/"),
		region:         region,
		timeout:        timeout,
		cl:             cl,
		prepareRequest: prepareRequest,
	}
}

func normalizeLanguage(l string) string {
	if l == "" {
		return ""
	}
	tag, err := language.Parse(l)
	if err != nil {
		log.WithError(err).WithField("language", l).Warnf("invalid tmdb language, using %v", defaultLanguage)
		return defaultLanguage
	}
	base, _ := tag.Base()
	if r, conf := tag.Region(); conf == language.Exact {
		return fmt.Sprintf("%v-%v", base, r)
	}
	return base.String()
}

func normalizeRegion(r string) string {
	reg, err := language.ParseRegion(r)
	if err != nil {
		log.WithError(err).WithField("region", r).Warnf("invalid tmdb region, using %v", defaultRegion)
		return defaultRegion
	}
	return reg.String()
}

func (s *Api) Region() string {
	return s.region
}

func (s *Api) get(ctx context.Context, path string, q url.Values, v any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	u := s.url + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req, err = s.prepareRequest(req)
	if err != nil {
		return errors.Wrap(err, "prepare request")
	}
	return upstream.DoJSON(s.cl, req, serviceName, v)
}

// GetTrending returns up to limit titles trending this week.
func (s *Api) GetTrending(ctx context.Context, limit int) ([]Title, error) {
	var res []Title
	for page := 1; len(res) < limit; page++ {
		q := url.Values{}
		q.Set("page", fmt.Sprintf("%d", page))
		var resp listResponse
		if err := s.get(ctx, "/trending/all/week", q, &resp); err != nil {
			if page > 1 {
				log.WithError(err).WithField("page", page).Warn("failed to get next trending page")
				break
			}
			return nil, errors.Wrap(err, "failed to get trending titles")
		}
		res = append(res, resp.Results...)
		if len(resp.Results) < trendingPageSize {
			break
		}
	}
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// GetStreamingHighlights currently mirrors trending titles.
func (s *Api) GetStreamingHighlights(ctx context.Context, limit int) ([]Title, error) {
	return s.GetTrending(ctx, limit)
}

func checkMediaType(mediaType string) error {
	if mediaType != MediaTypeMovie && mediaType != MediaTypeTV {
		return &upstream.Error{Service: serviceName, Kind: upstream.KindNotFound, Err: errors.Errorf("unsupported media type %q", mediaType)}
	}
	return nil
}

func (s *Api) GetDetails(ctx context.Context, mediaType string, id int) (*Title, error) {
	if err := checkMediaType(mediaType); err != nil {
		return nil, err
	}
	var t Title
	if err := s.get(ctx, fmt.Sprintf("/%v/%d", mediaType, id), nil, &t); err != nil {
		return nil, errors.Wrapf(err, "failed to get %v %d", mediaType, id)
	}
	if t.MediaType == "" {
		t.MediaType = mediaType
	}
	return &t, nil
}

// GetWatchProviders returns the offers for the configured region, nil when there are none.
func (s *Api) GetWatchProviders(ctx context.Context, mediaType string, id int) (*WatchProviders, error) {
	if err := checkMediaType(mediaType); err != nil {
		return nil, err
	}
	var resp watchProvidersResponse
	if err := s.get(ctx, fmt.Sprintf("/%v/%d/watch/providers", mediaType, id), nil, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to get watch providers for %v %d", mediaType, id)
	}
	wp, ok := resp.Results[s.region]
	if !ok {
		return nil, nil
	}
	return &wp, nil
}

// ImageURL builds an image url like https://image.tmdb.org/t/p/w342/abc.jpg.
func (s *Api) ImageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return fmt.Sprintf("%v/%v/%v", s.imageURL, size, strings.TrimPrefix(path, "/"))
}

// GetImage downloads an original size image.
func (s *Api) GetImage(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ImageURL(path, "original"), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	b, err := upstream.Do(s.cl, req, serviceName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get image %v", path)
	}
	return b, nil
}
