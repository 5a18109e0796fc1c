package upstream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindUnreachable covers transport errors and timeouts.
	KindUnreachable
	// KindStatus is any non-2xx answer except 404.
	KindStatus
	// KindMalformed means the body could not be decoded.
	KindMalformed
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindStatus:
		return "error status"
	case KindMalformed:
		return "malformed response"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

const maxErrorBody = 4096

// Error describes a failed call to an upstream service.
type Error struct {
	Service    string
	Kind       Kind
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%v: %v", e.Service, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%v (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%v: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// Do executes the request and returns the full body of a 2xx response.
func Do(cl *http.Client, req *http.Request, service string) ([]byte, error) {
	resp, err := cl.Do(req)
	if err != nil {
		return nil, &Error{Service: service, Kind: KindUnreachable, Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		kind := KindStatus
		if resp.StatusCode == http.StatusNotFound {
			kind = KindNotFound
		}
		return nil, &Error{Service: service, Kind: kind, StatusCode: resp.StatusCode, Body: string(b)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Service: service, Kind: KindUnreachable, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "read response")}
	}
	return data, nil
}

func Decode(service string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Service: service, Kind: KindMalformed, Err: errors.Wrap(err, "decode response")}
	}
	return nil
}

// DoJSON is Do followed by Decode.
func DoJSON(cl *http.Client, req *http.Request, service string, v any) error {
	data, err := Do(cl, req, service)
	if err != nil {
		return err
	}
	return Decode(service, data, v)
}
