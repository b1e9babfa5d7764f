// Package sketch implements the two board sketches, a blinking LED and an
// analog reporter, against the interfaces in hal.
package sketch

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrSampleSkipped marks a tick whose analog read failed; nothing was written.
	ErrSampleSkipped = errors.New("sample skipped")
	// ErrMirrorFailed marks a tick whose serial write succeeded but a mirror did not.
	ErrMirrorFailed = errors.New("mirror failed")
)

type Ticker interface {
	Tick() error
}

// IsTransient reports whether the loop may continue after err.
func IsTransient(err error) bool {
	return errors.Is(err, ErrSampleSkipped) || errors.Is(err, ErrMirrorFailed)
}

// Loop ticks until ctx is done or a tick fails fatally. Cancellation is only
// observed between ticks.
func Loop(ctx context.Context, t Ticker, onTransient func(error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := t.Tick()
		if err == nil {
			continue
		}
		if !IsTransient(err) {
			return err
		}
		if onTransient != nil {
			onTransient(err)
		}
	}
}
