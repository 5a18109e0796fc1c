package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/cinehub-io/web-ui/services/common"
	"github.com/cinehub-io/web-ui/services/jellyseerr"
	"github.com/cinehub-io/web-ui/services/tmdb"
	"github.com/cinehub-io/web-ui/services/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const Path = "/request"

type Requester interface {
	Request(ctx context.Context, mediaType string, tmdbID int) (*jellyseerr.RequestResult, error)
}

type Handler struct {
	rq Requester
}

// RegisterHandler serves the download request endpoint. Cross-origin calls
// are allowed from domain only and still need a csrf token.
func RegisterHandler(r *gin.Engine, rq Requester, domain string) {
	h := &Handler{
		rq: rq,
	}
	gr := r.Group(Path)
	if origin := strings.TrimSuffix(domain, "/"); origin != "" {
		gr.Use(cors.New(cors.Config{
			AllowOrigins:     []string{origin},
			AllowMethods:     common.AnyMethods,
			AllowHeaders:     []string{"Origin", "Content-Type", "X-CSRF-Token"},
			AllowCredentials: true,
		}))
	}
	gr.Match([]string{http.MethodPost, http.MethodOptions}, "", h.request)
}

type Args struct {
	MediaType string `form:"media_type" json:"media_type"`
	TMDBID    int    `form:"tmdb_id" json:"tmdb_id"`
}

func bindArgs(c *gin.Context) (*Args, error) {
	var args Args
	if err := c.ShouldBind(&args); err != nil {
		return nil, errors.Wrap(err, "failed to bind request args")
	}
	if args.MediaType != tmdb.MediaTypeMovie && args.MediaType != tmdb.MediaTypeTV {
		return nil, errors.Errorf("wrong media type %q", args.MediaType)
	}
	if args.TMDBID <= 0 {
		return nil, errors.Errorf("wrong tmdb id %d", args.TMDBID)
	}
	return &args, nil
}

func (s *Handler) request(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}
	l := web.GetLogger(c)
	args, err := bindArgs(c)
	if err != nil {
		l.WithError(err).Warn("bad download request")
		c.JSON(http.StatusBadRequest, &jellyseerr.RequestResult{
			OK:     false,
			Status: http.StatusBadRequest,
			Error:  err.Error(),
		})
		return
	}
	res, err := s.rq.Request(c.Request.Context(), args.MediaType, args.TMDBID)
	if err != nil {
		l.WithError(err).Warn("download request failed")
		c.JSON(http.StatusBadGateway, &jellyseerr.RequestResult{
			OK:    false,
			Error: "request service is unreachable",
		})
		return
	}
	if !res.OK {
		l.WithField("status", res.Status).WithField("error", res.Error).Warn("download request rejected")
		c.JSON(http.StatusBadGateway, res)
		return
	}
	l.WithField("media_type", args.MediaType).WithField("tmdb_id", args.TMDBID).Info("download requested")
	c.JSON(http.StatusOK, res)
}
