package jellyfin

import (
	"context"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// SelectEndpoint prefers lan when it answers within timeout, else wan.
// Any HTTP response counts as reachable. Nothing is remembered between calls.
func SelectEndpoint(ctx context.Context, cl *http.Client, lan, wan string, timeout time.Duration) string {
	if lan == wan || wan == "" {
		return lan
	}
	if lan == "" {
		return wan
	}
	if reachable(ctx, cl, lan, timeout) {
		return lan
	}
	return wan
}

func reachable(ctx context.Context, cl *http.Client, u string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return false
	}
	resp, err := cl.Do(req)
	if err != nil {
		log.WithError(err).WithField("url", u).Debug("jellyfin lan endpoint unreachable")
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return true
}
