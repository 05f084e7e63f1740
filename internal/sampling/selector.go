package sampling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spboyer/quorum/internal/evaluators"
)

var (
	// ErrNoBackends is returned for a method configured without backends.
	ErrNoBackends = errors.New("method has no backends")

	// ErrAllBackendsFailed is returned when no backend of a method could be started.
	ErrAllBackendsFailed = errors.New("all backends failed to start")
)

// Selector rotates through a method's backends round-robin by iteration.
type Selector struct {
	backends []evaluators.Evaluator
}

// NewSelector builds a selector over backends, in the order given.
func NewSelector(backends []evaluators.Evaluator) (*Selector, error) {
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}
	return &Selector{backends: backends}, nil
}

// Pick returns the backend for an iteration: backends[iteration % n].
func (s *Selector) Pick(iteration int) evaluators.Evaluator {
	n := len(s.backends)
	return s.backends[((iteration%n)+n)%n]
}

// Len returns the number of backends in rotation.
func (s *Selector) Len() int {
	return len(s.backends)
}

// Names returns the names of the backends in rotation.
func (s *Selector) Names() []string {
	names := make([]string, len(s.backends))
	for i, b := range s.backends {
		names[i] = b.Name()
	}
	return names
}

// Prepare starts every backend of a method that needs starting and returns a
// selector over the ones that came up. A backend that fails to start is
// dropped from the rotation and its slot goes to the next one.
func Prepare(ctx context.Context, method string, backends []evaluators.Evaluator) (*Selector, error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("method '%s': %w", method, ErrNoBackends)
	}

	var (
		started []evaluators.Evaluator
		errs    []error
	)

	for _, b := range backends {
		starter, ok := b.(evaluators.Starter)
		if !ok {
			started = append(started, b)
			continue
		}

		if err := starter.Start(ctx); err != nil {
			slog.WarnContext(ctx, "Backend failed to start, removing it from rotation",
				"method", method, "backend", b.Name(), "error", err)
			errs = append(errs, fmt.Errorf("backend '%s': %w", b.Name(), err))
			continue
		}

		started = append(started, b)
	}

	if len(started) == 0 {
		return nil, fmt.Errorf("method '%s': %w: %w", method, ErrAllBackendsFailed, errors.Join(errs...))
	}

	return &Selector{backends: started}, nil
}

// Stop stops every backend that holds resources.
func (s *Selector) Stop() error {
	var errs []error

	for _, b := range s.backends {
		if stopper, ok := b.(evaluators.Stopper); ok {
			if err := stopper.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("backend '%s': %w", b.Name(), err))
			}
		}
	}

	return errors.Join(errs...)
}
