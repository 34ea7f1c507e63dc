// Package session holds the in-memory authority over the current identity,
// bearer token and workspace selection, mirrored to a TokenStore.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/marcjazz/nullslot/internal/domain"
)

// Listener is called with the new snapshot after every change.
type Listener func(domain.Session)

// State is the single source of truth for the session. Construct one per
// process and pass it to every consumer.
type State struct {
	store  domain.TokenStore
	logger *slog.Logger

	mu      sync.RWMutex
	current domain.Session

	// writeMu serializes mutations so store writes and memory updates of one
	// call are never interleaved with another call.
	writeMu sync.Mutex

	lmu       sync.Mutex
	nextID    int
	listeners map[int]Listener
}

// New creates an empty State backed by store. Call Load to restore a
// persisted session.
func New(store domain.TokenStore, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		store:     store,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns a copy of the current session.
func (s *State) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Token returns the current bearer token, or "".
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// WorkspaceID returns the selected workspace id, or "".
func (s *State) WorkspaceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.WorkspaceID
}

// Subscribe registers fn for change notifications. Listeners run
// synchronously before the mutating call returns and must not call back into
// Login, Logout, SwitchWorkspace or Load. The returned function removes the
// registration.
func (s *State) Subscribe(fn Listener) (cancel func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()

	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

// Load restores the persisted session. A stored identity that cannot be
// decoded, or a token or identity stored without the other, is treated as
// corrupt: the token and user slots are cleared and the session stays logged
// out. A stored workspace id is restored either way.
func (s *State) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	token, hasToken, err := s.store.Get(ctx, domain.SlotToken)
	if err != nil {
		return fmt.Errorf("loading token: %w", err)
	}
	rawUser, hasUser, err := s.store.Get(ctx, domain.SlotUser)
	if err != nil {
		return fmt.Errorf("loading identity: %w", err)
	}
	workspaceID, _, err := s.store.Get(ctx, domain.SlotWorkspaceID)
	if err != nil {
		return fmt.Errorf("loading workspace: %w", err)
	}

	var next domain.Session
	switch {
	case hasToken && token != "" && hasUser:
		identity, decodeErr := decodeIdentity(rawUser)
		if decodeErr != nil {
			s.logger.WarnContext(ctx, "discarding corrupt stored identity", "error", decodeErr)
			s.clearPair(ctx)
		} else {
			next.Identity = identity
			next.Token = token
		}
	case hasToken || hasUser:
		s.logger.WarnContext(ctx, "discarding incomplete stored session",
			"has_token", hasToken && token != "", "has_identity", hasUser)
		s.clearPair(ctx)
	}
	next.WorkspaceID = workspaceID

	s.replace(next)
	s.logger.DebugContext(ctx, "session loaded",
		"authenticated", next.Authenticated(),
		"workspace_selected", next.WorkspaceID != "")
	return nil
}

// Login stores identity and token together, replacing any previous pair.
// The workspace selection is left untouched.
func (s *State) Login(ctx context.Context, identity *domain.Identity, token string) error {
	if token == "" {
		return domain.ErrEmptyToken
	}
	if identity == nil {
		return domain.ErrMissingIdentity
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Set(ctx, domain.SlotToken, token); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	if err := s.store.Set(ctx, domain.SlotUser, string(raw)); err != nil {
		if rbErr := s.store.Clear(ctx, domain.SlotToken); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return fmt.Errorf("persisting identity: %w", err)
	}

	next := s.Snapshot()
	id := *identity
	next.Identity = &id
	next.Token = token
	s.replace(next)

	s.logger.InfoContext(ctx, "logged in", "user_id", identity.ID, "role", identity.Role)
	return nil
}

// Logout clears identity, token and workspace from memory and from the store.
// Memory is cleared even when the store fails; the store error is returned.
func (s *State) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	storeErr := s.store.Clear(ctx, domain.AllSlots...)
	s.replace(domain.Session{})

	if storeErr != nil {
		return fmt.Errorf("clearing stored session: %w", storeErr)
	}
	s.logger.InfoContext(ctx, "logged out")
	return nil
}

// SwitchWorkspace selects id, or removes the selection when id is "".
func (s *State) SwitchWorkspace(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var err error
	if id == "" {
		err = s.store.Clear(ctx, domain.SlotWorkspaceID)
	} else {
		err = s.store.Set(ctx, domain.SlotWorkspaceID, id)
	}
	if err != nil {
		return fmt.Errorf("persisting workspace: %w", err)
	}

	next := s.Snapshot()
	next.WorkspaceID = id
	s.replace(next)

	s.logger.DebugContext(ctx, "workspace switched", "workspace_id", id)
	return nil
}

// clearPair removes the token and user slots together.
func (s *State) clearPair(ctx context.Context) {
	if err := s.store.Clear(ctx, domain.SlotUser, domain.SlotToken); err != nil {
		s.logger.WarnContext(ctx, "failed to clear corrupt session slots", "error", err)
	}
}

// replace swaps in next and notifies listeners when anything changed.
// Callers hold writeMu, so notifications arrive in mutation order.
func (s *State) replace(next domain.Session) {
	s.mu.Lock()
	prev := s.current
	s.current = next
	s.mu.Unlock()

	if equal(prev, next) {
		return
	}

	s.lmu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(next.Clone())
	}
}

func decodeIdentity(raw string) (*domain.Identity, error) {
	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, err
	}
	if identity.ID == "" {
		return nil, errors.New("stored identity has no id")
	}
	return &identity, nil
}

func equal(a, b domain.Session) bool {
	if a.Token != b.Token || a.WorkspaceID != b.WorkspaceID {
		return false
	}
	if (a.Identity == nil) != (b.Identity == nil) {
		return false
	}
	return a.Identity == nil || *a.Identity == *b.Identity
}
