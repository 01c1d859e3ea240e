package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/the-web-girl/My-Library-App/model"
)

// Debouncer enforces a quiet period between rapid calls. Each Wait
// invalidates any earlier Wait still sleeping, so only the most recent
// caller proceeds.
type Debouncer struct {
	quiet time.Duration
	seq   atomic.Uint64
}

func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet}
}

// Wait blocks for the quiet period and reports whether the caller is
// still the latest one. A superseded caller gets ErrSuperseded and
// must discard its work.
func (d *Debouncer) Wait(ctx context.Context) error {
	mine := d.seq.Add(1)
	if d.quiet <= 0 {
		return nil
	}

	timer := time.NewTimer(d.quiet)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if mine != d.seq.Load() {
		return errors.Wrap(model.ErrSuperseded, "newer call arrived during quiet period")
	}
	return nil
}
