package liststore

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failure classes the store client reports.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindServer
	KindClient
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ErrNotConfigured is wrapped by errors returned when the bin id or access key is missing.
var ErrNotConfigured = errors.New("list store credentials are not configured")

// Error describes a failed store operation.
type Error struct {
	Op     string
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("liststore %s: %s error (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("liststore %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure class of err. Errors that did not come from the
// store client are KindUnknown.
func KindOf(err error) Kind {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Kind
	}
	return KindUnknown
}

func kindForStatus(status int) Kind {
	switch {
	case status >= http.StatusInternalServerError:
		return KindServer
	case status >= http.StatusBadRequest:
		return KindClient
	default:
		return KindUnknown
	}
}
