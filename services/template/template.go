package template

import (
	"html/template"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/yargevad/filepathx"
)

const (
	templatesPathFlag = "templates-path"
	viewsDir          = "views"
	layoutsDir        = "layouts"
	partialsDir       = "partials"
	ext               = ".html"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   templatesPathFlag,
			Usage:  "templates path",
			Value:  "./templates",
			EnvVar: "TEMPLATES_PATH",
		},
	)
}

// Context is what views are rendered with.
type Context interface {
	GinContext() *gin.Context
}

type Builder[T Context] interface {
	Build(name string) *Template[T]
}

type view struct {
	name   string
	layout string
	file   string
}

type Manager[T Context] struct {
	re    multitemplate.Renderer
	path  string
	funcs template.FuncMap
	views map[string]*view
	mux   sync.Mutex
}

func NewManager[T Context](re multitemplate.Renderer) *Manager[T] {
	return &Manager[T]{
		re:    re,
		path:  "./templates",
		funcs: template.FuncMap{},
		views: map[string]*view{},
	}
}

func (s *Manager[T]) WithPath(path string) *Manager[T] {
	s.path = path
	return s
}

func (s *Manager[T]) WithContext(c *cli.Context) *Manager[T] {
	return s.WithPath(c.String(templatesPathFlag))
}

// WithHelper exposes every exported method of h as a template function.
func (s *Manager[T]) WithHelper(h any) *Manager[T] {
	v := reflect.ValueOf(h)
	t := v.Type()
	for i := 0; i < t.NumMethod(); i++ {
		name := t.Method(i).Name
		if _, ok := s.funcs[name]; ok {
			log.Warnf("template function %v redefined by %T", name, h)
		}
		s.funcs[name] = v.Method(i).Interface()
	}
	return s
}

type ViewsBuilder[T Context] struct {
	m     *Manager[T]
	names []string
	files map[string]string
}

// MustRegisterViews selects views matching pattern, relative to the views dir
// and without extension. Panics when nothing matches.
func (s *Manager[T]) MustRegisterViews(pattern string) *ViewsBuilder[T] {
	dir := filepath.Join(s.path, viewsDir)
	files, err := filepath.Glob(filepath.Join(dir, pattern+ext))
	if err != nil {
		panic(errors.Wrapf(err, "bad views pattern %v", pattern))
	}
	if len(files) == 0 {
		panic(errors.Errorf("no views found for pattern %v in %v", pattern, dir))
	}
	vb := &ViewsBuilder[T]{
		m:     s,
		files: map[string]string{},
	}
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		if err != nil {
			panic(err)
		}
		name := filepath.ToSlash(strings.TrimSuffix(rel, ext))
		vb.names = append(vb.names, name)
		vb.files[name] = f
	}
	return vb
}

func (s *ViewsBuilder[T]) WithLayout(layout string) *BuilderWithLayout[T] {
	s.m.mux.Lock()
	defer s.m.mux.Unlock()
	for _, n := range s.names {
		s.m.views[n] = &view{
			name:   n,
			layout: layout,
			file:   s.files[n],
		}
	}
	return &BuilderWithLayout[T]{
		m:      s.m,
		layout: layout,
	}
}

type BuilderWithLayout[T Context] struct {
	m      *Manager[T]
	layout string
}

func (s *BuilderWithLayout[T]) Build(name string) *Template[T] {
	return &Template[T]{
		name: name,
	}
}

type Template[T Context] struct {
	name string
}

func (s *Template[T]) HTML(code int, ctx T) {
	ctx.GinContext().HTML(code, s.name, ctx)
}

// Init parses every registered view together with its layout and partials.
func (s *Manager[T]) Init() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	// partials may be nested in subdirectories
	partials, err := filepathx.Glob(filepath.Join(s.path, partialsDir, "**", "*"+ext))
	if err != nil {
		return errors.Wrap(err, "failed to list partials")
	}
	for _, v := range s.views {
		files := []string{filepath.Join(s.path, layoutsDir, v.layout+ext)}
		files = append(files, partials...)
		files = append(files, v.file)
		if err := s.parse(v.name, files); err != nil {
			return errors.Wrapf(err, "failed to parse view %v", v.name)
		}
		log.WithField("view", v.name).WithField("layout", v.layout).Debug("view registered")
	}
	return nil
}

func (s *Manager[T]) parse(name string, files []string) (err error) {
	// multitemplate panics on parse errors
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%v", r)
		}
	}()
	s.re.AddFromFilesFuncs(name, s.funcs, files...)
	return nil
}
