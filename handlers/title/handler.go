package title

import (
	"context"
	"net/http"

	"github.com/cinehub-io/web-ui/services/jellyfin"
	"github.com/cinehub-io/web-ui/services/provider"
	"github.com/cinehub-io/web-ui/services/sqlite"
	"github.com/cinehub-io/web-ui/services/template"
	"github.com/cinehub-io/web-ui/services/tmdb"
	"github.com/cinehub-io/web-ui/services/web"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	KindJellyfin = "jellyfin"
	KindTMDB     = "tmdb"
)

var errNotFound = errors.New("title not found")

type MediaServer interface {
	GetItem(ctx context.Context, itemID string) (*jellyfin.Item, error)
	IsInLibrary(ctx context.Context, tmdbID int, mediaType string) (bool, error)
	ListSessions(ctx context.Context) ([]jellyfin.Session, error)
	ItemURLs(ctx context.Context, itemID string) (stream string, web string)
}

type Catalog interface {
	GetDetails(ctx context.Context, mediaType string, id int) (*tmdb.Title, error)
	GetWatchProviders(ctx context.Context, mediaType string, id int) (*tmdb.WatchProviders, error)
	Region() string
}

type LinkResolver interface {
	ResolveAll(ctx context.Context, t provider.Title) []provider.Link
}

type Handler struct {
	tb    template.Builder[*web.Context]
	errTb template.Builder[*web.Context]
	ms    MediaServer
	cat   Catalog
	lr    LinkResolver
	db    *sqlite.DB
}

func RegisterHandler(r *gin.Engine, tm *template.Manager[*web.Context], ms MediaServer, cat Catalog, lr LinkResolver, db *sqlite.DB) {
	h := &Handler{
		tb:    tm.MustRegisterViews("title/*").WithLayout("main"),
		errTb: tm.MustRegisterViews("error").WithLayout("main"),
		ms:    ms,
		cat:   cat,
		lr:    lr,
		db:    db,
	}
	r.GET("/title/:kind/:item_id", h.get)
}

func (s *Handler) get(c *gin.Context) {
	var (
		data any
		err  error
	)
	ctx := c.Request.Context()
	l := web.GetLogger(c)
	kind := c.Param("kind")
	switch kind {
	case KindJellyfin:
		data, err = s.prepareJellyfin(ctx, l, c.Param("item_id"))
	case KindTMDB:
		var args *TMDBArgs
		args, err = bindTMDBArgs(c)
		if err == nil {
			data, err = s.prepareTMDB(ctx, l, args)
		}
	default:
		err = errors.Wrapf(errNotFound, "unknown kind %v", kind)
	}
	if err != nil {
		l.WithError(err).WithField("kind", kind).Warn("failed to load title")
		s.errTb.Build("error").HTML(http.StatusNotFound, web.NewContext(c).WithErr(errNotFound))
		return
	}
	s.tb.Build("title/"+kind).HTML(http.StatusOK, web.NewContext(c).WithData(data))
}
