package device

import (
	"fmt"
	"strings"

	"github.com/cinehub-io/web-ui/handlers/common"
	"github.com/cinehub-io/web-ui/services/playback"
	"github.com/cinehub-io/web-ui/services/web"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type Handler struct {
	p playback.Player
}

func RegisterHandler(r *gin.Engine, p playback.Player) {
	h := &Handler{
		p: p,
	}
	r.POST("/send-to-device", h.send)
}

type SendArgs struct {
	ItemID    string
	SessionID string
}

func bindSendArgs(c *gin.Context) *SendArgs {
	return &SendArgs{
		ItemID:    strings.TrimSpace(c.PostForm("item_id")),
		SessionID: strings.TrimSpace(c.PostForm("session_id")),
	}
}

func (s *Handler) send(c *gin.Context) {
	args := bindSendArgs(c)
	target := "/"
	if args.ItemID != "" {
		target = common.JellyfinHref(args.ItemID)
	}
	l := web.GetLogger(c).
		WithField("item_id", args.ItemID).
		WithField("session_id", args.SessionID)
	o, err := playback.Send(c.Request.Context(), s.p, args.SessionID, args.ItemID)
	if err != nil {
		web.RedirectTo(c, target, errors.Wrap(err, "failed to send to device"), "")
		return
	}
	if !o.OK {
		l.WithField("status", o.StatusCode).WithField("message", o.Message).Warn("device rejected play command")
		web.RedirectTo(c, target, errors.Errorf("device rejected playback: %v", o.Message), "")
		return
	}
	l.Info("play command sent")
	web.RedirectTo(c, target, nil, fmt.Sprintf("Playback started (%d)", o.StatusCode))
}
