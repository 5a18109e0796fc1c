package title

import (
	"context"
	"strconv"

	"github.com/cinehub-io/web-ui/handlers/common"
	"github.com/cinehub-io/web-ui/models"
	"github.com/cinehub-io/web-ui/services/provider"
	"github.com/cinehub-io/web-ui/services/tmdb"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type TMDBArgs struct {
	ID        int
	MediaType string
}

func bindTMDBArgs(c *gin.Context) (*TMDBArgs, error) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil || id <= 0 {
		return nil, errors.Wrapf(errNotFound, "wrong tmdb id %v", c.Param("item_id"))
	}
	mt := c.DefaultQuery("media_type", tmdb.MediaTypeMovie)
	if mt != tmdb.MediaTypeMovie && mt != tmdb.MediaTypeTV {
		return nil, errors.Wrapf(errNotFound, "wrong media type %v", mt)
	}
	return &TMDBArgs{
		ID:        id,
		MediaType: mt,
	}, nil
}

type TMDBData struct {
	Title          *tmdb.Title
	Card           common.Card
	InLibrary      bool
	Links          []provider.Link
	WatchProviders *tmdb.WatchProviders
	Region         string
	Rated          *Rated
}

func (s *Handler) prepareTMDB(ctx context.Context, l *log.Entry, args *TMDBArgs) (*TMDBData, error) {
	t, err := s.cat.GetDetails(ctx, args.MediaType, args.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get title details")
	}
	mt := t.ResolvedMediaType()
	card := common.CardFromTitle(t)
	card.Poster = common.TMDBPosterURL(t.PosterPath, detailPosterWidth)
	d := &TMDBData{
		Title:  t,
		Card:   card,
		Region: s.cat.Region(),
		Links: s.lr.ResolveAll(ctx, provider.Title{
			Name:      t.DisplayTitle(),
			MediaType: mt,
			TMDBID:    t.ID,
			Year:      t.Year(),
		}),
	}
	key := models.TMDBRatingKey(mt, t.ID)
	d.Rated = s.rated(ctx, l, models.RatingSourceTMDB, key, common.TMDBHref(t.ID, mt))
	if d.InLibrary, err = s.ms.IsInLibrary(ctx, t.ID, mt); err != nil {
		l.WithError(err).Warn("failed to check library")
		d.InLibrary = false
	}
	if d.WatchProviders, err = s.cat.GetWatchProviders(ctx, mt, t.ID); err != nil {
		l.WithError(err).Warn("failed to get watch providers")
		d.WatchProviders = nil
	}
	return d, nil
}
