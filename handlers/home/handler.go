package home

import (
	"context"
	"net/http"

	"github.com/cinehub-io/web-ui/handlers/common"
	"github.com/cinehub-io/web-ui/services/jellyfin"
	"github.com/cinehub-io/web-ui/services/template"
	"github.com/cinehub-io/web-ui/services/tmdb"
	"github.com/cinehub-io/web-ui/services/web"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	libraryRowLimit  = 24
	discoverRowLimit = 12
)

type Library interface {
	GetResume(ctx context.Context, limit int) ([]jellyfin.Item, error)
	GetLatest(ctx context.Context, limit int) ([]jellyfin.Item, error)
}

type Catalog interface {
	GetTrending(ctx context.Context, limit int) ([]tmdb.Title, error)
	GetStreamingHighlights(ctx context.Context, limit int) ([]tmdb.Title, error)
}

type Recommender interface {
	RecommendDownload(ctx context.Context, limit int) ([]tmdb.Title, error)
}

type Data struct {
	Rows []common.Row
}

type Handler struct {
	tb  template.Builder[*web.Context]
	lib Library
	cat Catalog
	rec Recommender
}

func RegisterHandler(r *gin.Engine, tm *template.Manager[*web.Context], lib Library, cat Catalog, rec Recommender) {
	h := &Handler{
		tb:  tm.MustRegisterViews("home").WithLayout("main"),
		lib: lib,
		cat: cat,
		rec: rec,
	}
	r.GET("/", h.index)
}

func (s *Handler) index(c *gin.Context) {
	rows := s.prepareRows(c.Request.Context(), web.GetLogger(c))
	s.tb.Build("home").HTML(http.StatusOK, web.NewContext(c).WithData(&Data{
		Rows: rows,
	}))
}

// prepareRows always returns every row, failed ones are left empty.
func (s *Handler) prepareRows(ctx context.Context, l *log.Entry) []common.Row {
	return []common.Row{
		itemsRow(l, "Continue Watching", func() ([]jellyfin.Item, error) {
			return s.lib.GetResume(ctx, libraryRowLimit)
		}),
		itemsRow(l, "Recently Added", func() ([]jellyfin.Item, error) {
			return s.lib.GetLatest(ctx, libraryRowLimit)
		}),
		titlesRow(l, "Recommended to Download", func() ([]tmdb.Title, error) {
			return s.rec.RecommendDownload(ctx, discoverRowLimit)
		}),
		titlesRow(l, "Trending Now", func() ([]tmdb.Title, error) {
			return s.cat.GetTrending(ctx, discoverRowLimit)
		}),
		titlesRow(l, "Streaming Highlights", func() ([]tmdb.Title, error) {
			return s.cat.GetStreamingHighlights(ctx, discoverRowLimit)
		}),
	}
}

func itemsRow(l *log.Entry, title string, get func() ([]jellyfin.Item, error)) common.Row {
	items, err := get()
	if err != nil {
		l.WithError(err).WithField("row", title).Warn("failed to load row")
		items = nil
	}
	return common.ItemsRow(title, items)
}

func titlesRow(l *log.Entry, title string, get func() ([]tmdb.Title, error)) common.Row {
	titles, err := get()
	if err != nil {
		l.WithError(err).WithField("row", title).Warn("failed to load row")
		titles = nil
	}
	return common.TitlesRow(title, titles)
}
