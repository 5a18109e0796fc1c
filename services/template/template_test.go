package template

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testContext struct {
	c    *gin.Context
	Name string
}

func (s *testContext) GinContext() *gin.Context {
	return s.c
}

type greetHelper struct{}

func (greetHelper) Greet(name string) string {
	return "hello " + name
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestManager_Render(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "layouts", "main.html"), `<main>{{ template "content" . }}</main>`)
	writeFile(t, filepath.Join(dir, "partials", "badge.html"), `{{ define "badge" }}[{{ . }}]{{ end }}`)
	writeFile(t, filepath.Join(dir, "views", "home.html"), `{{ define "content" }}{{ Greet .Name }} {{ template "badge" "new" }}{{ end }}`)

	re := multitemplate.NewRenderer()
	tm := NewManager[*testContext](re).WithPath(dir).WithHelper(greetHelper{})
	var tb Builder[*testContext] = tm.MustRegisterViews("*").WithLayout("main")
	require.NoError(t, tm.Init())

	r := gin.New()
	r.HTMLRender = re
	r.GET("/", func(c *gin.Context) {
		tb.Build("home").HTML(http.StatusOK, &testContext{c: c, Name: "Ann"})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<main>hello Ann [new]</main>", w.Body.String())
}

func TestManager_MustRegisterViewsPanics(t *testing.T) {
	tm := NewManager[*testContext](multitemplate.NewRenderer()).WithPath(t.TempDir())
	assert.Panics(t, func() {
		tm.MustRegisterViews("missing")
	})
}

func TestManager_InitParseError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "layouts", "main.html"), `{{ template "content" . }}`)
	writeFile(t, filepath.Join(dir, "views", "broken.html"), `{{ define "content" }}{{ .Name {{ end }}`)

	tm := NewManager[*testContext](multitemplate.NewRenderer()).WithPath(dir)
	tm.MustRegisterViews("broken").WithLayout("main")
	assert.Error(t, tm.Init())
}
