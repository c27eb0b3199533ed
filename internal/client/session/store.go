// Package session owns the authenticated-user state: token, profile and
// expiry, mirrored into the persistent store so a restart keeps the login.
//
// Single-writer rule: only this package mutates the session keys. The HTTP
// client reads the token through the persistent store and clears it on 401,
// which this store picks up via Invalidate.
package session

import (
	"context"
	"database/sql"
	"sync"

	"github.com/open436/forumctl/internal/client/models"
	"github.com/open436/forumctl/internal/client/storage"
	"github.com/open436/forumctl/internal/dbx"
	"github.com/open436/forumctl/internal/logging"
)

// DefaultTTL is the token lifetime in seconds used when the server does not
// send one (30 days).
const DefaultTTL int64 = 2592000

// AuthClient is the slice of the auth API the session store needs.
type AuthClient interface {
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.UserProfile, error)
}

// Store holds the session in memory and mirrors it into the persistent
// key-value store.
type Store struct {
	mu      sync.RWMutex
	token   string
	profile *models.UserProfile
	expires int64

	db   *sql.DB
	kv   *storage.Store
	auth AuthClient
	log  logging.Logger
}

// New builds a session store and hydrates it from the persistent store, so
// a previous login survives restarts.
func New(db *sql.DB, kv *storage.Store, auth AuthClient, log logging.Logger) *Store {
	s := &Store{db: db, kv: kv, auth: auth, log: log}

	ctx := context.Background()
	kv.Get(ctx, storage.KeyToken, &s.token)
	var profile models.UserProfile
	if kv.Get(ctx, storage.KeyUserInfo, &profile) {
		s.profile = &profile
	}
	kv.Get(ctx, storage.KeyExpiresIn, &s.expires)

	return s
}

// Login installs a server-confirmed token and profile, then mirrors all
// three session keys into the persistent store atomically. No network call
// happens here; the caller already holds the token.
func (s *Store) Login(ctx context.Context, token string, profile models.UserProfile, expiresIn int64) {
	if expiresIn <= 0 {
		expiresIn = DefaultTTL
	}

	s.mu.Lock()
	s.token = token
	p := profile
	s.profile = &p
	s.expires = expiresIn
	s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		kv := s.kv.Bind(tx)
		kv.Set(ctx, storage.KeyToken, token)
		kv.Set(ctx, storage.KeyUserInfo, profile)
		kv.Set(ctx, storage.KeyExpiresIn, expiresIn)
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "session: failed to persist login", "error", err)
	}
}

// Logout ends the session. With callRemote, the server-side logout endpoint
// is called best-effort first; its failure is logged and ignored. Local
// state, in memory and persisted, is always cleared.
func (s *Store) Logout(ctx context.Context, callRemote bool) {
	s.mu.RLock()
	hasToken := s.token != ""
	s.mu.RUnlock()

	if callRemote && hasToken {
		if err := s.auth.Logout(ctx); err != nil {
			s.log.Warn(ctx, "session: remote logout failed", "error", err)
		}
	}

	s.Invalidate(ctx)
}

// Invalidate clears the session locally without touching the server. Used
// by Logout and by the 401 handler, where the server already dropped us.
func (s *Store) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.profile = nil
	s.expires = 0
	s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		kv := s.kv.Bind(tx)
		kv.Remove(ctx, storage.KeyToken)
		kv.Remove(ctx, storage.KeyUserInfo)
		kv.Remove(ctx, storage.KeyExpiresIn)
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "session: failed to clear persisted session", "error", err)
	}
}

// SetProfile shallow-merges patch into the current profile and persists the
// result. The profile is only replaced wholesale on login.
func (s *Store) SetProfile(ctx context.Context, patch models.UserProfile) {
	s.mu.Lock()
	var merged models.UserProfile
	if s.profile != nil {
		merged = s.profile.Merge(patch)
	} else {
		merged = patch
	}
	s.profile = &merged
	s.mu.Unlock()

	s.kv.Set(ctx, storage.KeyUserInfo, merged)
}

// SetToken replaces the token in memory and in the persistent store.
// Used by token refresh flows.
func (s *Store) SetToken(ctx context.Context, token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.kv.Set(ctx, storage.KeyToken, token)
}

// FetchProfile pulls the current user from the server and merges it into
// the profile. Failures are logged and propagated.
func (s *Store) FetchProfile(ctx context.Context) error {
	profile, err := s.auth.CurrentUser(ctx)
	if err != nil {
		s.log.Error(ctx, "session: failed to fetch profile", "error", err)
		return err
	}

	s.SetProfile(ctx, *profile)
	return nil
}

// Token returns the current token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Profile returns a copy of the profile and whether one is set.
func (s *Store) Profile() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return models.UserProfile{}, false
	}
	return *s.profile, true
}

// ExpiresIn returns the token lifetime in seconds recorded at login.
func (s *Store) ExpiresIn() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expires
}

// IsLoggedIn reports whether a token is present.
func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

// Role returns the profile role, defaulting to "user".
func (s *Store) Role() string {
	p, _ := s.Profile()
	return p.RoleOrDefault()
}

// Status returns the profile status, defaulting to "active".
func (s *Store) Status() string {
	p, _ := s.Profile()
	return p.StatusOrDefault()
}

// IsAdmin reports whether the session belongs to an administrator.
func (s *Store) IsAdmin() bool {
	return s.Role() == models.RoleAdmin
}
