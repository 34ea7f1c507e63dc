// Package workspace lists, creates and selects the workspaces of the current
// identity.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/marcjazz/nullslot/internal/domain"
	"github.com/marcjazz/nullslot/internal/session"
)

// Policy selects where List reads from.
type Policy int

const (
	// CacheFirst serves a cached list for the current identity when present.
	CacheFirst Policy = iota
	// NetworkOnly always asks the backend and refreshes the cache.
	NetworkOnly
)

// Session is the part of session.State the service needs.
type Session interface {
	Snapshot() domain.Session
	Login(ctx context.Context, identity *domain.Identity, token string) error
	SwitchWorkspace(ctx context.Context, id string) error
	Subscribe(fn session.Listener) (cancel func())
}

// Options tunes the list cache.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

// Service is the workspace context of the current session.
type Service struct {
	gateway domain.WorkspaceGateway
	session Session
	logger  *slog.Logger
	cache   *expirable.LRU[string, []domain.Workspace]

	mu          sync.Mutex
	identityID  string
	unsubscribe func()
}

// NewService creates a Service. Close releases the session subscription.
func NewService(gw domain.WorkspaceGateway, sess Session, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 16
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	s := &Service{
		gateway:    gw,
		session:    sess,
		logger:     logger,
		cache:      expirable.NewLRU[string, []domain.Workspace](opts.CacheSize, nil, opts.CacheTTL),
		identityID: identityID(sess.Snapshot()),
	}
	s.unsubscribe = sess.Subscribe(s.onSessionChange)
	return s
}

// Close stops following session changes.
func (s *Service) Close() {
	s.unsubscribe()
}

// List returns the workspaces of the current identity.
func (s *Service) List(ctx context.Context, policy Policy) ([]domain.Workspace, error) {
	snap := s.session.Snapshot()
	if !snap.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	key := identityID(snap)

	if policy == CacheFirst && key != "" {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.DebugContext(ctx, "workspace list served from cache", "count", len(cached))
			return slices.Clone(cached), nil
		}
	}

	list, err := s.gateway.MyWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}

	// Do not cache a response that belongs to an identity that is no longer
	// current.
	if key != "" && identityID(s.session.Snapshot()) == key {
		s.cache.Add(key, slices.Clone(list))
	}
	return list, nil
}

// Create creates a workspace and returns it with the refreshed list.
func (s *Service) Create(ctx context.Context, name string) (*domain.Workspace, []domain.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, domain.ErrEmptyName
	}
	if !s.session.Snapshot().Authenticated() {
		return nil, nil, domain.ErrNotAuthenticated
	}

	created, err := s.gateway.CreateWorkspace(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	s.logger.InfoContext(ctx, "workspace created", "workspace_id", created.ID)

	list, err := s.List(ctx, NetworkOnly)
	if err != nil {
		return created, nil, err
	}
	return created, list, nil
}

// Select makes id the current workspace after checking that it belongs to
// the current identity.
func (s *Service) Select(ctx context.Context, id string) error {
	if id == "" {
		return s.Clear(ctx)
	}

	list, err := s.List(ctx, CacheFirst)
	if err != nil {
		return err
	}
	if !contains(list, id) {
		// The cache may predate a workspace created elsewhere.
		if list, err = s.List(ctx, NetworkOnly); err != nil {
			return err
		}
		if !contains(list, id) {
			return fmt.Errorf("%w: %s", domain.ErrUnknownWorkspace, id)
		}
	}

	return s.session.SwitchWorkspace(ctx, id)
}

// Clear removes the workspace selection.
func (s *Service) Clear(ctx context.Context) error {
	return s.session.SwitchWorkspace(ctx, "")
}

// Login logs identity in through the session. A selection made under a
// different identity is cleared so its X-Workspace-ID never travels with the
// new token. A selection left over from a logged-out session is kept.
func (s *Service) Login(ctx context.Context, identity *domain.Identity, token string) error {
	before := s.session.Snapshot()
	if err := s.session.Login(ctx, identity, token); err != nil {
		return err
	}

	prev := identityID(before)
	if prev == "" || prev == identity.ID || s.session.Snapshot().WorkspaceID == "" {
		return nil
	}
	s.logger.InfoContext(ctx, "identity changed, clearing workspace selection")
	if err := s.session.SwitchWorkspace(ctx, ""); err != nil {
		return fmt.Errorf("clearing workspace of previous identity: %w", err)
	}
	return nil
}

func (s *Service) onSessionChange(next domain.Session) {
	id := identityID(next)

	s.mu.Lock()
	changed := id != s.identityID
	s.identityID = id
	s.mu.Unlock()

	if changed {
		s.cache.Purge()
		s.logger.Debug("workspace cache purged on identity change")
	}
}

func identityID(s domain.Session) string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.ID
}

func contains(list []domain.Workspace, id string) bool {
	return slices.ContainsFunc(list, func(w domain.Workspace) bool { return w.ID == id })
}
