package title

import (
	"context"

	"github.com/cinehub-io/web-ui/handlers/common"
	"github.com/cinehub-io/web-ui/models"
	"github.com/cinehub-io/web-ui/services/jellyfin"
	"github.com/cinehub-io/web-ui/services/playback"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const detailPosterWidth = 500

type Rated struct {
	Source    models.RatingSource
	Key       string
	Rating    *models.Rating
	ReturnURL string
}

// Stars is the current rating, nil when unrated.
func (s *Rated) Stars() *int {
	if s.Rating == nil {
		return nil
	}
	return &s.Rating.Stars
}

type JellyfinData struct {
	Item      *jellyfin.Item
	Card      common.Card
	StreamURL string
	WebURL    string
	Devices   []playback.Device
	Rated     *Rated
}

func (s *Handler) prepareJellyfin(ctx context.Context, l *log.Entry, itemID string) (*JellyfinData, error) {
	if itemID == "" {
		return nil, errNotFound
	}
	item, err := s.ms.GetItem(ctx, itemID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get library item")
	}
	card := common.CardFromItem(item)
	card.Poster = common.JellyfinPosterURL(item.PosterItemID(), detailPosterWidth)
	streamURL, webURL := s.ms.ItemURLs(ctx, item.ID)
	d := &JellyfinData{
		Item:      item,
		Card:      card,
		StreamURL: streamURL,
		WebURL:    webURL,
		Rated:     s.rated(ctx, l, models.RatingSourceJellyfin, item.ID, common.JellyfinHref(item.ID)),
	}
	devices, err := playback.ListDevices(ctx, s.ms)
	if err != nil {
		l.WithError(err).Warn("failed to list devices")
	} else {
		d.Devices = playback.Controllable(devices)
	}
	return d, nil
}

func (s *Handler) rated(ctx context.Context, l *log.Entry, source models.RatingSource, key string, returnURL string) *Rated {
	r := &Rated{
		Source:    source,
		Key:       key,
		ReturnURL: returnURL,
	}
	if s.db == nil {
		return r
	}
	db := s.db.Get()
	if db == nil {
		l.Warn("ratings unavailable, no db")
		return r
	}
	rating, err := models.GetRating(ctx, db, string(source), key)
	if err != nil {
		l.WithError(err).Warn("failed to get rating")
		return r
	}
	r.Rating = rating
	return r
}
