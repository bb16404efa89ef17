package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned when a remote backend cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// transientError marks a failure that may succeed when tried again.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err}
}

// IsTransient reports whether err was marked with [Transient].
func IsTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

// Backoff retries an operation with exponentially growing pauses.
type Backoff struct {
	Attempts int           // total tries, at least 1
	Base     time.Duration // pause after the first failure
	Max      time.Duration // upper bound on a single pause; 0 means none
}

// DefaultBackoff is used when connecting to remote backends.
var DefaultBackoff = Backoff{Attempts: 3, Base: 100 * time.Millisecond, Max: 2 * time.Second}

// Do calls fn until it succeeds, returns an error not marked [Transient],
// the attempts run out or ctx ends. The pause doubles after each failure.
func (b Backoff) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Base

	var err error
	for i := 1; ; i++ {
		if err = fn(ctx); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		if b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
}
