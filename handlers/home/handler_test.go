package home

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cinehub-io/web-ui/handlers/common"
	"github.com/cinehub-io/web-ui/services/jellyfin"
	"github.com/cinehub-io/web-ui/services/template"
	"github.com/cinehub-io/web-ui/services/tmdb"
	"github.com/cinehub-io/web-ui/services/upstream"
	"github.com/cinehub-io/web-ui/services/web"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = &upstream.Error{Service: "test", Kind: upstream.KindUnreachable}

type libraryMock struct {
	resume []jellyfin.Item
	latest []jellyfin.Item
	err    error
}

func (m *libraryMock) GetResume(ctx context.Context, limit int) ([]jellyfin.Item, error) {
	return m.resume, m.err
}

func (m *libraryMock) GetLatest(ctx context.Context, limit int) ([]jellyfin.Item, error) {
	return m.latest, m.err
}

type catalogMock struct {
	titles []tmdb.Title
	err    error
}

func (m *catalogMock) GetTrending(ctx context.Context, limit int) ([]tmdb.Title, error) {
	return m.titles, m.err
}

func (m *catalogMock) GetStreamingHighlights(ctx context.Context, limit int) ([]tmdb.Title, error) {
	return m.titles, m.err
}

type recommenderMock struct {
	titles []tmdb.Title
	err    error
}

func (m *recommenderMock) RecommendDownload(ctx context.Context, limit int) ([]tmdb.Title, error) {
	return m.titles, m.err
}

var rowTitles = []string{
	"Continue Watching",
	"Recently Added",
	"Recommended to Download",
	"Trending Now",
	"Streaming Highlights",
}

func TestPrepareRows_AllUpstreamsFail(t *testing.T) {
	h := &Handler{
		lib: &libraryMock{err: errDown},
		cat: &catalogMock{err: errDown},
		rec: &recommenderMock{err: errDown},
	}
	rows := h.prepareRows(context.Background(), log.NewEntry(log.StandardLogger()))
	require.Len(t, rows, len(rowTitles))
	for i, r := range rows {
		assert.Equal(t, rowTitles[i], r.Title)
		assert.Empty(t, r.Cards)
	}
}

func TestPrepareRows_PartialFailure(t *testing.T) {
	h := &Handler{
		lib: &libraryMock{
			resume: []jellyfin.Item{{ID: "a", Name: "A"}},
			latest: []jellyfin.Item{{ID: "b", Name: "B"}, {ID: "c", Name: "C"}},
		},
		cat: &catalogMock{err: errDown},
		rec: &recommenderMock{titles: []tmdb.Title{{ID: 5, Title: "Five"}}},
	}
	rows := h.prepareRows(context.Background(), log.NewEntry(log.StandardLogger()))
	require.Len(t, rows, 5)
	assert.Len(t, rows[0].Cards, 1)
	assert.Len(t, rows[1].Cards, 2)
	assert.Len(t, rows[2].Cards, 1)
	assert.Empty(t, rows[3].Cards)
	assert.Empty(t, rows[4].Cards)
	assert.Equal(t, "/title/tmdb/5?media_type=movie", rows[2].Cards[0].Href)
}

func TestIndex_Templates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	re := multitemplate.NewRenderer()
	tm := template.NewManager[*web.Context](re).
		WithPath("../../templates").
		WithHelper(&web.Helper{}).
		WithHelper(common.NewStarsHelper())
	r := gin.New()
	r.HTMLRender = re
	web.Configure(r, "secret")
	RegisterHandler(r, tm,
		&libraryMock{latest: []jellyfin.Item{{ID: "ep1", Name: "Pilot", Type: "Episode", SeriesID: "show1", SeriesName: "Lost"}}},
		&catalogMock{err: errDown},
		&recommenderMock{titles: []tmdb.Title{{ID: 5, Title: "Five", ReleaseDate: "2001-01-01", PosterPath: "/five.jpg"}}},
	)
	require.NoError(t, tm.Init())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, title := range rowTitles {
		assert.Contains(t, body, "<h2>"+title+"</h2>")
	}
	// continue watching and both catalog rows are empty
	assert.Equal(t, 3, strings.Count(body, "Nothing here right now."))
	assert.Contains(t, body, `href="/title/jellyfin/ep1"`)
	assert.Contains(t, body, `href="/title/tmdb/5?media_type=movie"`)
	assert.Contains(t, body, `src="/poster/tmdb/five.jpg/342.jpg"`)
	assert.Contains(t, body, `<meta name="csrf-token" content="`)
}
