package rating

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cinehub-io/web-ui/models"
	"github.com/cinehub-io/web-ui/services/sqlite"
	"github.com/cinehub-io/web-ui/services/web"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type Handler struct {
	db *sqlite.DB
}

func RegisterHandler(r *gin.Engine, db *sqlite.DB) {
	h := &Handler{
		db: db,
	}
	r.POST("/rate", h.rate)
}

type RateArgs struct {
	Source models.RatingSource
	Key    string
	Stars  int
}

func bindRateArgs(c *gin.Context) (*RateArgs, error) {
	source := models.RatingSource(c.PostForm("source"))
	if source != models.RatingSourceJellyfin && source != models.RatingSourceTMDB {
		return nil, errors.Errorf("wrong rating source %q", source)
	}
	key := strings.TrimSpace(c.PostForm("key"))
	if key == "" {
		return nil, errors.New("rating key is required")
	}
	stars, err := strconv.Atoi(strings.TrimSpace(c.PostForm("stars")))
	if err != nil {
		return nil, errors.Errorf("wrong stars value %q", c.PostForm("stars"))
	}
	return &RateArgs{
		Source: source,
		Key:    key,
		Stars:  stars,
	}, nil
}

func (s *Handler) rate(c *gin.Context) {
	args, err := bindRateArgs(c)
	if err != nil {
		web.GetLogger(c).WithError(err).Warn("failed to bind rate args")
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	target := web.ReturnURL(c, "/")
	err = s.save(c.Request.Context(), args)
	if err != nil {
		web.RedirectTo(c, target, err, "")
		return
	}
	web.RedirectTo(c, target, nil, fmt.Sprintf("Rated %d of %d stars", models.ClampStars(args.Stars), models.MaxStars))
}

func (s *Handler) save(ctx context.Context, args *RateArgs) error {
	db := s.db.Get()
	if db == nil {
		return errors.New("ratings are unavailable")
	}
	return models.UpsertRating(ctx, db, string(args.Source), args.Key, args.Stars)
}
