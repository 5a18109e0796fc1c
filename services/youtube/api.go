package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cinehub-io/web-ui/services/upstream"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	apiKeyFlag  = "youtube-data-api-key"
	apiHostFlag = "youtube-api-host"
)

const (
	serviceName    = "youtube"
	requestTimeout = 10 * time.Second
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   apiKeyFlag,
			Usage:  "youtube data api key, video links fall back to search pages without it",
			Value:  "",
			EnvVar: "YOUTUBE_DATA_API_KEY",
		},
		cli.StringFlag{
			Name:   apiHostFlag,
			Usage:  "youtube data api host",
			Value:  "www.googleapis.com",
			EnvVar: "YOUTUBE_API_HOST",
		},
	)
}

type Api struct {
	url string
	key string
	cl  *http.Client
}

type searchResponse struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// New returns nil when no api key is configured.
func New(c *cli.Context, cl *http.Client) *Api {
	key := c.String(apiKeyFlag)
	if key == "" {
		return nil
	}
	return NewWithURL(fmt.Sprintf("https://%v", c.String(apiHostFlag)), key, cl)
}

func NewWithURL(u string, key string, cl *http.Client) *Api {
	log.Infof("youtube data api endpoint %v", u)
	return &Api{
		url: u,
		key: key,
		cl:  cl,
	}
}

// SearchVideoID returns the id of the top video for the query, "" when nothing matched.
func (s *Api) SearchVideoID(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("maxResults", "5")
	q.Set("type", "video")
	q.Set("q", query)
	q.Set("key", s.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url+"/youtube/v3/search?"+q.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(err, "create request")
	}
	var resp searchResponse
	if err := upstream.DoJSON(s.cl, req, serviceName, &resp); err != nil {
		return "", errors.Wrapf(err, "failed to search videos for %q", query)
	}
	for _, it := range resp.Items {
		if it.ID.VideoID != "" {
			return it.ID.VideoID, nil
		}
	}
	return "", nil
}
