package main

import (
	"github.com/cinehub-io/web-ui/handlers/device"
	"github.com/cinehub-io/web-ui/handlers/home"
	"github.com/cinehub-io/web-ui/handlers/poster"
	"github.com/cinehub-io/web-ui/handlers/rating"
	"github.com/cinehub-io/web-ui/handlers/request"
	sta "github.com/cinehub-io/web-ui/handlers/static"
	"github.com/cinehub-io/web-ui/handlers/title"
	"github.com/cinehub-io/web-ui/services/common"
	"github.com/cinehub-io/web-ui/services/sqlite"
	"github.com/cinehub-io/web-ui/services/template"
	w "github.com/cinehub-io/web-ui/services/web"

	hc "github.com/cinehub-io/web-ui/handlers/common"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"
)

func makeServeCMD() cli.Command {
	serveCMD := cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serves web server",
		Action:  serve,
	}
	configureServe(&serveCMD)
	return serveCMD
}

func configureServe(c *cli.Command) {
	c.Flags = sqlite.RegisterFlags(c.Flags)
	c.Flags = cs.RegisterProbeFlags(c.Flags)
	c.Flags = cs.RegisterPprofFlags(c.Flags)
	c.Flags = w.RegisterFlags(c.Flags)
	c.Flags = common.RegisterFlags(c.Flags)
	c.Flags = template.RegisterFlags(c.Flags)
	c.Flags = sta.RegisterFlags(c.Flags)
	c.Flags = configureUpstreams(c.Flags)
}

func serve(c *cli.Context) error {
	// Setting HTTP Client
	cl := common.NewClient(c)

	// Setting DB
	db := sqlite.New(c)
	defer db.Close()

	// Setting Migrations
	err := migrateDB(db, "up")
	if err != nil {
		return err
	}

	// Setting Upstreams
	us := makeUpstreams(c, cl)

	// Setting template renderer
	re := multitemplate.NewRenderer()

	// Setting TemplateManager
	tm := template.NewManager[*w.Context](re).
		WithContext(c).
		WithHelper(w.NewHelper(c)).
		WithHelper(hc.NewStarsHelper())

	var servers []cs.Servable
	// Setting Probe
	probe := cs.NewProbe(c)
	if probe != nil {
		servers = append(servers, probe)
		defer probe.Close()
	}

	// Setting Pprof
	pprof := cs.NewPprof(c)
	if pprof != nil {
		servers = append(servers, pprof)
		defer pprof.Close()
	}

	// Setting Gin
	r := gin.Default()
	r.RedirectTrailingSlash = false
	r.HTMLRender = re

	// Setting Web
	web, err := w.New(c, r)
	if err != nil {
		return err
	}
	servers = append(servers, web)
	defer web.Close()

	// Setting Static
	err = sta.RegisterHandler(c, r)
	if err != nil {
		return err
	}

	// Setting HomeHandler
	home.RegisterHandler(r, tm, us.jellyfin, us.tmdb, us.recommender)

	// Setting TitleHandler
	title.RegisterHandler(r, tm, us.jellyfin, us.tmdb, us.resolver, db)

	// Setting RatingHandler
	rating.RegisterHandler(r, db)

	// Setting RequestHandler
	request.RegisterHandler(r, us.jellyseerr, c.String(common.DomainFlag))

	// Setting DeviceHandler
	device.RegisterHandler(r, us.jellyfin)

	// Setting PosterHandler
	poster.RegisterHandler(r, us.jellyfin, us.tmdb)

	// Render templates
	err = tm.Init()
	if err != nil {
		return err
	}

	// Setting Serve
	serve := cs.NewServe(servers...)

	// And SERVE!
	err = serve.Serve()
	if err != nil {
		log.WithError(err).Error("got server error")
	}
	return err
}
