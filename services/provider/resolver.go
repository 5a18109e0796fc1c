package provider

import (
	"context"
	"fmt"
	"net/url"

	log "github.com/sirupsen/logrus"
)

type Provider string

const (
	Netflix   Provider = "netflix"
	Max       Provider = "max"
	Discovery Provider = "discovery"
	YouTube   Provider = "youtube"
	YouTubeTV Provider = "youtube_tv"
	Default   Provider = "default"
)

// All lists named providers in display order.
var All = []Provider{Netflix, Max, Discovery, YouTube, YouTubeTV}

var displayNames = map[Provider]string{
	Netflix:   "Netflix",
	Max:       "Max",
	Discovery: "discovery+",
	YouTube:   "YouTube",
	YouTubeTV: "YouTube TV",
	Default:   "Web search",
}

var searchURLs = map[Provider]string{
	Netflix:   "https://www.netflix.com/search?q=",
	Max:       "https://play.max.com/search?q=",
	Discovery: "https://discoveryplus.com/search?q=",
	YouTubeTV: "https://tv.youtube.com/search?q=",
	Default:   "https://www.google.com/search?q=",
}

const (
	youtubeWatchURL  = "https://www.youtube.com/watch?v="
	youtubeSearchURL = "https://www.youtube.com/results?search_query="
)

func (p Provider) DisplayName() string {
	if n, ok := displayNames[p]; ok {
		return n
	}
	return displayNames[Default]
}

// Title is the minimal description a link is built from.
type Title struct {
	Name      string
	MediaType string
	TMDBID    int
	Year      int
}

// Query is "Name" or "Name (Year)".
func (t Title) Query() string {
	if t.Year > 0 {
		return fmt.Sprintf("%v (%d)", t.Name, t.Year)
	}
	return t.Name
}

type Link struct {
	Provider Provider
	Name     string
	URL      string
}

// VideoSearcher finds the top video for a free-text query.
type VideoSearcher interface {
	SearchVideoID(ctx context.Context, query string) (string, error)
}

type Resolver struct {
	vs VideoSearcher
}

// New accepts a nil searcher, youtube links then point to search results.
func New(vs VideoSearcher) *Resolver {
	return &Resolver{vs: vs}
}

// Resolve never fails, unknown providers get a web search link.
func (s *Resolver) Resolve(ctx context.Context, t Title, p Provider) string {
	q := t.Query()
	if p == YouTube {
		return s.resolveYouTube(ctx, q+" full movie")
	}
	u, ok := searchURLs[p]
	if !ok {
		u = searchURLs[Default]
	}
	return u + url.QueryEscape(q)
}

func (s *Resolver) resolveYouTube(ctx context.Context, q string) string {
	if s.vs != nil {
		id, err := s.vs.SearchVideoID(ctx, q)
		if err != nil {
			log.WithError(err).WithField("query", q).Warn("failed to search youtube video")
		} else if id != "" {
			return youtubeWatchURL + url.QueryEscape(id)
		}
	}
	return youtubeSearchURL + url.QueryEscape(q)
}

func (s *Resolver) ResolveAll(ctx context.Context, t Title) []Link {
	links := make([]Link, 0, len(All))
	for _, p := range All {
		links = append(links, Link{
			Provider: p,
			Name:     p.DisplayName(),
			URL:      s.Resolve(ctx, t, p),
		})
	}
	return links
}
