package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/marcjazz/nullslot/internal/domain"
	"github.com/marcjazz/nullslot/internal/route"
)

// RequestState is the position of the link request form.
type RequestState int

const (
	RequestInput RequestState = iota
	RequestSending
	RequestSent
)

func (s RequestState) String() string {
	switch s {
	case RequestInput:
		return "input"
	case RequestSending:
		return "sending"
	case RequestSent:
		return "sent"
	default:
		return "unknown"
	}
}

var (
	// ErrRequestInFlight is returned while a previous submission is pending.
	ErrRequestInFlight = errors.New("a magic link request is already in progress")
	// ErrInvalidEmail is returned for input that is not an email address.
	ErrInvalidEmail = errors.New("enter a valid email address")
)

// LinkRequester drives the "send me a link" form. A failed request leaves it
// in RequestInput so the user can submit again; success is terminal.
type LinkRequester struct {
	sender   domain.LinkSender
	validate *validator.Validate
	logger   *slog.Logger

	mu    sync.Mutex
	state RequestState
	email string
	err   error
}

// NewLinkRequester creates a requester in RequestInput.
func NewLinkRequester(sender domain.LinkSender, logger *slog.Logger) *LinkRequester {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkRequester{
		sender:   sender,
		validate: validator.New(),
		logger:   logger,
	}
}

// Request submits email. Server errors are returned and kept in Err unchanged.
func (r *LinkRequester) Request(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	r.mu.Lock()
	switch r.state {
	case RequestSent:
		r.mu.Unlock()
		return nil
	case RequestSending:
		r.mu.Unlock()
		return ErrRequestInFlight
	}
	if err := r.validate.Var(email, "required,email"); err != nil {
		r.err = ErrInvalidEmail
		r.mu.Unlock()
		return ErrInvalidEmail
	}
	r.state = RequestSending
	r.email = email
	r.err = nil
	r.mu.Unlock()

	ctx, span := tracer.Start(ctx, "magiclink.request")
	defer span.End()

	err := r.sender.RequestMagicLink(ctx, email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.state = RequestInput
		r.err = err
		r.logger.WarnContext(ctx, "magic link request rejected", "error", err)
		return err
	}
	r.state = RequestSent
	r.logger.InfoContext(ctx, "magic link requested")
	return nil
}

// State returns the form state.
func (r *LinkRequester) State() RequestState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the error of the last submission, if any.
func (r *LinkRequester) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Message is the text to show for the current state.
func (r *LinkRequester) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case RequestSent:
		return fmt.Sprintf("A magic link has been sent to %s. Please click the link to log in.", r.email)
	case RequestSending:
		return "Sending..."
	default:
		if r.err != nil {
			return "Error: " + r.err.Error()
		}
		return ""
	}
}

// MagicLinkRedemption redeems the one-time token of one callback URL.
type MagicLinkRedemption struct {
	redeemer domain.LinkRedeemer
	sink     domain.SessionSink
	logger   *slog.Logger
	token    string
	latch    *latch
}

// NewMagicLinkRedemption reads the one-time token from callback. Without a
// token the redemption starts, and stays, in StateInvalidLink.
func NewMagicLinkRedemption(redeemer domain.LinkRedeemer, sink domain.SessionSink, callback *url.URL, logger *slog.Logger) *MagicLinkRedemption {
	if logger == nil {
		logger = slog.Default()
	}
	token := tokenParam(callback)

	initial := Outcome{State: StateIdle}
	if token == "" {
		initial = Outcome{State: StateInvalidLink, Err: domain.ErrInvalidLink, Redirect: route.Login}
	}

	return &MagicLinkRedemption{
		redeemer: redeemer,
		sink:     sink,
		logger:   logger,
		token:    token,
		latch:    newLatch(initial),
	}
}

// Trigger redeems the token on the first call. Later calls, concurrent or
// not, dispatch nothing and return the current outcome.
func (m *MagicLinkRedemption) Trigger(ctx context.Context) Outcome {
	if !m.latch.acquire() {
		return m.latch.current()
	}
	m.latch.set(Outcome{State: StateRedeeming})

	ctx, span := tracer.Start(ctx, "magiclink.redeem")
	defer span.End()

	login, err := m.redeemer.RedeemMagicLink(ctx, m.token)
	if err == nil {
		err = m.sink.Login(ctx, &login.Identity, login.Token)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logger.WarnContext(ctx, "magic link redemption failed", "error", err)
		return m.latch.finish(Outcome{State: StateFailed, Err: err, Redirect: route.Login})
	}

	identity := login.Identity
	span.SetAttributes(attribute.String("user.id", identity.ID))
	m.logger.InfoContext(ctx, "magic link redeemed", "user_id", identity.ID)
	return m.latch.finish(Outcome{State: StateAuthenticated, Identity: &identity, Redirect: route.Dashboard})
}

// Outcome returns the current outcome without triggering.
func (m *MagicLinkRedemption) Outcome() Outcome {
	return m.latch.current()
}

// Done is closed once the redemption reaches a terminal state.
func (m *MagicLinkRedemption) Done() <-chan struct{} {
	return m.latch.done
}

func tokenParam(u *url.URL) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("token"))
}
