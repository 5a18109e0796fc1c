package playback

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cinehub-io/web-ui/services/jellyfin"
	"github.com/pkg/errors"
)

const unknownDevice = "Unknown"

type Device struct {
	SessionID    string
	Name         string
	Client       string
	User         string
	Controllable bool
}

type SessionLister interface {
	ListSessions(ctx context.Context) ([]jellyfin.Session, error)
}

type Player interface {
	Play(ctx context.Context, sessionID, itemID string) (*jellyfin.PlayResult, error)
}

// Outcome describes what the media server answered to a play command.
type Outcome struct {
	OK         bool
	StatusCode int
	Message    string
}

func ListDevices(ctx context.Context, sl SessionLister) ([]Device, error) {
	sessions, err := sl.ListSessions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}
	devices := make([]Device, 0, len(sessions))
	for _, s := range sessions {
		devices = append(devices, deviceFromSession(s))
	}
	return devices, nil
}

func deviceFromSession(s jellyfin.Session) Device {
	name := s.DeviceName
	if name == "" {
		name = s.DeviceID
	}
	if name == "" {
		name = unknownDevice
	}
	client := s.Client
	if client == "" {
		client = s.DeviceType
	}
	return Device{
		SessionID:    s.ID,
		Name:         name,
		Client:       client,
		User:         s.UserName,
		Controllable: s.SupportsRemoteControl,
	}
}

// Controllable filters devices that accept remote play commands.
func Controllable(devices []Device) []Device {
	res := []Device{}
	for _, d := range devices {
		if d.Controllable {
			res = append(res, d)
		}
	}
	return res
}

// Send issues a single play command. Errors mean the server was not reached.
func Send(ctx context.Context, p Player, sessionID, itemID string) (*Outcome, error) {
	if sessionID == "" || itemID == "" {
		return nil, errors.New("session id and item id are required")
	}
	res, err := p.Play(ctx, sessionID, itemID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send play command")
	}
	o := &Outcome{
		OK:         res.OK(),
		StatusCode: res.StatusCode,
		Message:    res.Response,
	}
	if o.Message == "" {
		o.Message = fmt.Sprintf("%d %v", res.StatusCode, http.StatusText(res.StatusCode))
	}
	return o, nil
}
