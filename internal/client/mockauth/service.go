// Package mockauth is an in-memory stand-in for the auth service, used in
// offline mode. It issues real signed JWTs and checks bcrypt hashes so the
// client-side flows behave as they would against the live service, down to
// the business codes returned on failure.
package mockauth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/open436/forumctl/internal/client/api"
	"github.com/open436/forumctl/internal/client/models"
	"github.com/open436/forumctl/internal/client/storage"
	"github.com/open436/forumctl/internal/logging"
)

// TokenTTL matches the auth-service default of 30 days, in seconds.
const TokenTTL int64 = 2592000

// signingKey is fixed: tokens from offline mode are worthless anywhere else.
var signingKey = []byte("forumctl-offline-mode")

type account struct {
	profile      models.UserProfile
	passwordHash []byte
}

// Service implements the auth backend in memory. Tokens are tracked by jti
// so logout and password changes can revoke them.
type Service struct {
	mu       sync.Mutex
	accounts map[string]*account
	// live maps jti -> username for tokens that have not been revoked.
	live map[string]string

	kv  *storage.Store
	log logging.Logger
	now func() time.Time
}

// NewService seeds the default admin account (admin / admin123). The
// persistent store is where the current token is read from, mirroring how
// the HTTP client picks it up for real requests.
func NewService(kv *storage.Store, log logging.Logger) *Service {
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	return &Service{
		accounts: map[string]*account{
			"admin": {
				profile: models.UserProfile{
					ID:       1,
					Username: "admin",
					Role:     models.RoleAdmin,
					Status:   models.StatusActive,
				},
				passwordHash: hash,
			},
		},
		live: make(map[string]string),
		kv:   kv,
		log:  log,
		now:  time.Now,
	}
}

type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

func (s *Service) issueToken(username string) (string, error) {
	now := s.now()
	jti := uuid.NewString()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(TokenTTL) * time.Second)),
		},
		Username: username,
	})

	signed, err := tok.SignedString(signingKey)
	if err != nil {
		return "", err
	}
	s.live[jti] = username
	return signed, nil
}

// parse validates the signature and expiry and returns the claims. Revoked
// and unknown tokens fail with the same invalid-session code the live
// service uses.
func (s *Service) parse(token string) (*claims, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, api.NewError(40101002, "", 401)
		}
		return nil, api.NewError(40101003, "", 401)
	}
	if _, ok := s.live[c.ID]; !ok {
		return nil, api.NewError(40101003, "", 401)
	}
	return &c, nil
}

// storedToken reads the current token the way the HTTP client would.
func (s *Service) storedToken(ctx context.Context) string {
	var token string
	s.kv.Get(ctx, storage.KeyToken, &token)
	return token
}

// Login checks the form bounds locally, then the bcrypt hash, and issues a
// fresh token on success.
func (s *Service) Login(ctx context.Context, username, password string) (*api.LoginResult, error) {
	if err := models.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok {
		return nil, api.NewError(40101001, "", 401)
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return nil, api.NewError(40101001, "", 401)
	}
	if acc.profile.Status == models.StatusDisabled {
		return nil, api.NewError(40301001, "", 403)
	}

	token, err := s.issueToken(username)
	if err != nil {
		s.log.Error(ctx, "mockauth: failed to sign token", "error", err)
		return nil, api.NewError(50000000, "", 500)
	}

	return &api.LoginResult{Token: token, User: acc.profile, ExpiresIn: TokenTTL}, nil
}

// Logout revokes the stored token. Absent or already-revoked tokens are not
// an error; the live service behaves the same way.
func (s *Service) Logout(ctx context.Context) error {
	token := s.storedToken(ctx)
	if token == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := s.parse(token); err == nil {
		delete(s.live, c.ID)
	}
	return nil
}

// Verify checks an explicit token and returns the profile it belongs to.
func (s *Service) Verify(ctx context.Context, token string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	acc, ok := s.accounts[c.Username]
	if !ok {
		return nil, api.NewError(40101003, "", 401)
	}
	profile := acc.profile
	return &profile, nil
}

// CurrentUser resolves the stored token to its profile.
func (s *Service) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	token := s.storedToken(ctx)
	if token == "" {
		return nil, api.NewError(40101003, "", 401)
	}
	return s.Verify(ctx, token)
}

// ChangePassword validates the form, checks the old password and rehashes.
// All outstanding tokens for the account are revoked except the current one,
// so other sessions have to sign in again.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error {
	if err := models.ValidatePasswordChange(oldPassword, newPassword, confirm); err != nil {
		return err
	}

	token := s.storedToken(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.parse(token)
	if err != nil {
		return err
	}
	acc := s.accounts[c.Username]
	if acc == nil {
		return api.NewError(40101003, "", 401)
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(oldPassword)); err != nil {
		return api.NewError(40101004, "", 401)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error(ctx, "mockauth: failed to hash password", "error", err)
		return api.NewError(50000000, "", 500)
	}
	acc.passwordHash = hash

	for jti, username := range s.live {
		if username == c.Username && jti != c.ID {
			delete(s.live, jti)
		}
	}
	return nil
}
