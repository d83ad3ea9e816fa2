package status

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/rescale/mcnotify/internal/models"
)

var (
	// ErrConnection covers DNS, dial, socket and deadline failures.
	ErrConnection = errors.New("connection error")

	// ErrProtocol covers malformed or unexpected status responses.
	ErrProtocol = errors.New("protocol error")
)

// QueryError is returned by Client.Query. Kind is ErrConnection or ErrProtocol.
type QueryError struct {
	Kind   error
	Target models.ServerTarget
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v: %v", e.Target, e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is matches the error kind, so errors.Is(err, ErrConnection) works.
func (e *QueryError) Is(target error) bool {
	return target == e.Kind
}

// classify decides whether a ping failure happened on the network or in the
// response. go-mc does not wrap every dial error, so the message is checked
// when no typed error is found.
func classify(err error) error {
	var opErr *net.OpError
	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &opErr),
		errors.As(err, &dnsErr),
		errors.As(err, &netErr):
		return ErrConnection
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"i/o timeout",
		"dial",
		"eof",
		"broken pipe",
		"network is unreachable",
	} {
		if strings.Contains(msg, s) {
			return ErrConnection
		}
	}
	return ErrProtocol
}
