package common

import (
	"github.com/cinehub-io/web-ui/models"
)

type Star struct {
	Value    int
	Selected bool
}

type StarsHelper struct{}

func NewStarsHelper() *StarsHelper {
	return &StarsHelper{}
}

// MakeStars returns the 1..5 star scale with stars up to current selected.
func (s *StarsHelper) MakeStars(current *int) (stars []Star) {
	cur := 0
	if current != nil {
		cur = models.ClampStars(*current)
	}
	for i := models.MinStars; i <= models.MaxStars; i++ {
		stars = append(stars, Star{
			Value:    i,
			Selected: i <= cur,
		})
	}
	return stars
}
