package tmdb

import (
	"strconv"
	"strings"
)

const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Title is a movie or tv show as returned by list and detail endpoints.
type Title struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type,omitempty"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	Runtime      int     `json:"runtime,omitempty"`
	Tagline      string  `json:"tagline,omitempty"`
	Genres       []Genre `json:"genres,omitempty"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (t *Title) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Name
}

// ResolvedMediaType trusts an explicit media_type, otherwise guesses
// "tv" for records carrying a name and "movie" for the rest.
func (t *Title) ResolvedMediaType() string {
	if t.MediaType != "" {
		return t.MediaType
	}
	if t.Name != "" {
		return MediaTypeTV
	}
	return MediaTypeMovie
}

// Year is the release (or first air) year, 0 when unknown.
func (t *Title) Year() int {
	d := t.ReleaseDate
	if d == "" {
		d = t.FirstAirDate
	}
	if d == "" {
		return 0
	}
	y, err := strconv.Atoi(strings.SplitN(d, "-", 2)[0])
	if err != nil {
		return 0
	}
	return y
}

type listResponse struct {
	Page    int     `json:"page"`
	Results []Title `json:"results"`
}

type Provider struct {
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// WatchProviders are the offers for a single region.
type WatchProviders struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate"`
	Rent     []Provider `json:"rent"`
	Buy      []Provider `json:"buy"`
	Free     []Provider `json:"free"`
	Ads      []Provider `json:"ads"`
}

func (w *WatchProviders) Empty() bool {
	return w == nil || len(w.Flatrate)+len(w.Rent)+len(w.Buy)+len(w.Free)+len(w.Ads) == 0
}

type watchProvidersResponse struct {
	ID      int                       `json:"id"`
	Results map[string]WatchProviders `json:"results"`
}
