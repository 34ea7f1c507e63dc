// Package flow implements the login flows: requesting a magic link, redeeming
// it, and verifying an SSO redirect token. Each redemption instance handles
// exactly one page load (one callback URL).
package flow

import (
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"

	"github.com/marcjazz/nullslot/internal/domain"
)

var tracer = otel.Tracer("github.com/marcjazz/nullslot/internal/flow")

// State is the position of a redemption in its state machine.
type State int

const (
	StateIdle State = iota
	StateRedeeming
	StateVerifying
	StateAuthenticated
	StateFailed
	// StateInvalidLink: the magic-link callback carried no token.
	StateInvalidLink
	// StateNoToken: the SSO redirect carried no token.
	StateNoToken
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRedeeming:
		return "redeeming"
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	case StateInvalidLink:
		return "invalid_link"
	case StateNoToken:
		return "no_token"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen in this page load.
func (s State) Terminal() bool {
	switch s {
	case StateAuthenticated, StateFailed, StateInvalidLink, StateNoToken:
		return true
	}
	return false
}

// Outcome is what a caller renders after triggering a redemption.
type Outcome struct {
	State    State
	Identity *domain.Identity
	// Err is the server's rejection or the missing-precondition error.
	Err error
	// Redirect is where to navigate next: the protected area on success, the
	// login entry point on failure. Empty while in flight.
	Redirect string
}

// latch is the consumed-flag of a one-shot operation together with the
// outcome it produced.
type latch struct {
	consumed atomic.Bool

	mu      sync.Mutex
	outcome Outcome
	done    chan struct{}
	closed  bool
}

func newLatch(initial Outcome) *latch {
	l := &latch{outcome: initial, done: make(chan struct{})}
	if initial.State.Terminal() {
		l.consumed.Store(true)
		l.closed = true
		close(l.done)
	}
	return l
}

// acquire sets the consumed-flag. Only the first caller gets true.
func (l *latch) acquire() bool {
	return l.consumed.CompareAndSwap(false, true)
}

func (l *latch) set(o Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcome = o
}

func (l *latch) finish(o Outcome) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcome = o
	if !l.closed {
		l.closed = true
		close(l.done)
	}
	return o
}

func (l *latch) current() Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outcome
}
