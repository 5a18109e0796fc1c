package main

import (
	"net/http"

	"github.com/cinehub-io/web-ui/services/jellyfin"
	"github.com/cinehub-io/web-ui/services/jellyseerr"
	"github.com/cinehub-io/web-ui/services/provider"
	"github.com/cinehub-io/web-ui/services/recommend"
	"github.com/cinehub-io/web-ui/services/tmdb"
	"github.com/cinehub-io/web-ui/services/youtube"
	"github.com/urfave/cli"
)

func configureUpstreams(f []cli.Flag) []cli.Flag {
	f = jellyfin.RegisterFlags(f)
	f = tmdb.RegisterFlags(f)
	f = jellyseerr.RegisterFlags(f)
	f = youtube.RegisterFlags(f)
	return f
}

type upstreams struct {
	jellyfin    *jellyfin.Api
	tmdb        *tmdb.Api
	jellyseerr  *jellyseerr.Api
	resolver    *provider.Resolver
	recommender *recommend.Recommender
}

func makeUpstreams(c *cli.Context, cl *http.Client) *upstreams {
	// Setting Jellyfin API
	jf := jellyfin.New(c, cl)

	// Setting TMDB API
	tm := tmdb.New(c, cl)

	// Setting Jellyseerr API
	js := jellyseerr.New(c, cl)

	// Setting Provider Resolver, video search is optional
	var vs provider.VideoSearcher
	if yt := youtube.New(c, cl); yt != nil {
		vs = yt
	}
	pr := provider.New(vs)

	// Setting Recommender
	rec := recommend.New(tm, jf)

	return &upstreams{
		jellyfin:    jf,
		tmdb:        tm,
		jellyseerr:  js,
		resolver:    pr,
		recommender: rec,
	}
}
