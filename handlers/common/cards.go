package common

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cinehub-io/web-ui/services/jellyfin"
	"github.com/cinehub-io/web-ui/services/tmdb"
)

type RowKind string

const (
	RowKindLibrary  RowKind = "library"
	RowKindDiscover RowKind = "discover"
)

// PosterWidth is the card poster width in pixels.
const PosterWidth = 342

// Card is a single poster tile.
type Card struct {
	Title    string
	Subtitle string
	Year     int
	Poster   string
	Href     string
}

type Row struct {
	Title string
	Kind  RowKind
	Cards []Card
}

func JellyfinPosterURL(itemID string, width int) string {
	return fmt.Sprintf("/poster/jellyfin/%v/%d.jpg", url.PathEscape(itemID), width)
}

// TMDBPosterURL maps a poster path like /abc.jpg to the local poster proxy.
func TMDBPosterURL(path string, width int) string {
	p := strings.TrimPrefix(path, "/")
	if p == "" {
		return ""
	}
	return fmt.Sprintf("/poster/tmdb/%v/%d.jpg", url.PathEscape(p), width)
}

func JellyfinHref(itemID string) string {
	return "/title/jellyfin/" + url.PathEscape(itemID)
}

func TMDBHref(id int, mediaType string) string {
	return fmt.Sprintf("/title/tmdb/%d?media_type=%v", id, url.QueryEscape(mediaType))
}

func CardFromItem(it *jellyfin.Item) Card {
	c := Card{
		Title:  it.Name,
		Year:   it.ProductionYear,
		Poster: JellyfinPosterURL(it.PosterItemID(), PosterWidth),
		Href:   JellyfinHref(it.ID),
	}
	if it.Type == "Episode" {
		c.Title = it.SeriesName
		c.Subtitle = fmt.Sprintf("S%02dE%02d · %v", it.ParentIndex, it.Index, it.Name)
	}
	return c
}

func CardFromTitle(t *tmdb.Title) Card {
	sub := "Movie"
	if t.ResolvedMediaType() == tmdb.MediaTypeTV {
		sub = "Series"
	}
	return Card{
		Title:    t.DisplayTitle(),
		Subtitle: sub,
		Year:     t.Year(),
		Poster:   TMDBPosterURL(t.PosterPath, PosterWidth),
		Href:     TMDBHref(t.ID, t.ResolvedMediaType()),
	}
}

func ItemsRow(title string, items []jellyfin.Item) Row {
	cards := make([]Card, 0, len(items))
	for i := range items {
		cards = append(cards, CardFromItem(&items[i]))
	}
	return Row{Title: title, Kind: RowKindLibrary, Cards: cards}
}

func TitlesRow(title string, titles []tmdb.Title) Row {
	cards := make([]Card, 0, len(titles))
	for i := range titles {
		if titles[i].ID == 0 {
			continue
		}
		cards = append(cards, CardFromTitle(&titles[i]))
	}
	return Row{Title: title, Kind: RowKindDiscover, Cards: cards}
}
