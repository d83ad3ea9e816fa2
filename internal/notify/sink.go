package notify

import (
	"context"
	"errors"
	"fmt"
)

// ErrDispatch marks a notification the rendering subsystem refused.
var ErrDispatch = errors.New("notification dispatch failed")

// Sink renders notification requests.
type Sink interface {
	Dispatch(ctx context.Context, req Request) error
}

// DispatchError records which sink failed.
type DispatchError struct {
	Sink string
	Err  error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s notification failed: %v", e.Sink, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDispatch) true for every DispatchError.
func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatch
}

// MultiSink fans a request out to every sink. All sinks are attempted; the
// errors of those that failed are joined.
type MultiSink []Sink

func (m MultiSink) Dispatch(ctx context.Context, req Request) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Dispatch(ctx, req); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard is a Sink that drops every request.
type Discard struct{}

func (Discard) Dispatch(context.Context, Request) error { return nil }
