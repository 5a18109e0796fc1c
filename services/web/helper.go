package web

import (
	"fmt"
	"time"

	"github.com/cinehub-io/web-ui/services/common"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"
)

// ticksPerMinute is the jellyfin runtime unit (100ns ticks).
const ticksPerMinute = int64(time.Minute / 100)

type Helper struct {
	domain string
}

func NewHelper(c *cli.Context) *Helper {
	return &Helper{
		domain: c.String(common.DomainFlag),
	}
}

func (s *Helper) Domain() string {
	return s.domain
}

func (s *Helper) TimeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// Runtime formats minutes as "2h 28m".
func (s *Helper) Runtime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func (s *Helper) RuntimeTicks(ticks int64) string {
	return s.Runtime(int(ticks / ticksPerMinute))
}

func (s *Helper) Score(v float64) string {
	if v <= 0 {
		return ""
	}
	return humanize.FtoaWithDigits(v, 1)
}
