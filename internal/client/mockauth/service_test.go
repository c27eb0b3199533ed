package mockauth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/open436/forumctl/internal/client/api"
	"github.com/open436/forumctl/internal/client/models"
	"github.com/open436/forumctl/internal/client/storage"
	"github.com/open436/forumctl/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setup(t *testing.T) (*Service, *storage.Store, *sql.DB) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	kv := storage.New(db, storage.Namespace, logging.NewTextLogger("error"))
	return NewService(kv, logging.NewTextLogger("error")), kv, db
}

func TestLogin_Succeeds(t *testing.T) {
	s, _, _ := setup(t)

	res, err := s.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "admin", res.User.Username)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.Equal(t, TokenTTL, res.ExpiresIn)

	profile, err := s.Verify(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", profile.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _, _ := setup(t)

	_, err := s.Login(context.Background(), "admin", "wrong-pass")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Contains(t, err.Error(), "incorrect username or password")
}

func TestLogin_UnknownUserMatchesWrongPassword(t *testing.T) {
	s, _, _ := setup(t)

	_, userErr := s.Login(context.Background(), "nobody", "whatever1")
	_, passErr := s.Login(context.Background(), "admin", "whatever1")
	require.Error(t, userErr)
	require.Error(t, passErr)
	assert.Equal(t, userErr.Error(), passErr.Error(), "no account enumeration")
}

func TestLogin_RejectsInvalidFormLocally(t *testing.T) {
	s, _, _ := setup(t)

	_, err := s.Login(context.Background(), "", "admin123")
	assert.ErrorIs(t, err, models.ErrUsernameRequired)

	_, err = s.Login(context.Background(), "admin", "short")
	assert.ErrorIs(t, err, models.ErrPasswordLength)
}

func TestVerify_GarbageToken(t *testing.T) {
	s, _, _ := setup(t)

	_, err := s.Verify(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestVerify_ExpiredToken(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()

	res, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	s.now = func() time.Time {
		return time.Now().Add(time.Duration(TokenTTL+60) * time.Second)
	}
	_, err = s.Verify(ctx, res.Token)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 40101002, apiErr.Code, "expiry is reported distinctly from garbage tokens")
}

func TestCurrentUser_ReadsStoredToken(t *testing.T) {
	s, kv, _ := setup(t)
	ctx := context.Background()

	res, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	kv.Set(ctx, storage.KeyToken, res.Token)

	profile, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", profile.Username)
}

func TestCurrentUser_NoStoredToken(t *testing.T) {
	s, _, _ := setup(t)

	_, err := s.CurrentUser(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestLogout_RevokesToken(t *testing.T) {
	s, kv, _ := setup(t)
	ctx := context.Background()

	res, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	kv.Set(ctx, storage.KeyToken, res.Token)

	require.NoError(t, s.Logout(ctx))
	_, err = s.Verify(ctx, res.Token)
	assert.ErrorIs(t, err, api.ErrUnauthorized, "revoked token no longer verifies")

	// Logging out again is harmless.
	require.NoError(t, s.Logout(ctx))
}

func TestChangePassword_Flow(t *testing.T) {
	s, kv, _ := setup(t)
	ctx := context.Background()

	res, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	kv.Set(ctx, storage.KeyToken, res.Token)

	err = s.ChangePassword(ctx, "not-the-old-one", "newpass99", "newpass99")
	require.Error(t, err)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 40101004, apiErr.Code)

	require.NoError(t, s.ChangePassword(ctx, "admin123", "newpass99", "newpass99"))

	_, err = s.Login(ctx, "admin", "admin123")
	assert.Error(t, err, "old password no longer works")
	_, err = s.Login(ctx, "admin", "newpass99")
	assert.NoError(t, err)
}

func TestChangePassword_RevokesOtherSessions(t *testing.T) {
	s, kv, _ := setup(t)
	ctx := context.Background()

	other, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	current, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	kv.Set(ctx, storage.KeyToken, current.Token)

	require.NoError(t, s.ChangePassword(ctx, "admin123", "newpass99", "newpass99"))

	_, err = s.Verify(ctx, other.Token)
	assert.Error(t, err, "other sessions must sign in again")
	_, err = s.Verify(ctx, current.Token)
	assert.NoError(t, err, "the session that changed the password stays valid")
}

func TestChangePassword_FormValidation(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()

	err := s.ChangePassword(ctx, "admin123", "newpass99", "different")
	assert.ErrorIs(t, err, models.ErrPasswordMismatch)

	err = s.ChangePassword(ctx, "admin123", "admin123", "admin123")
	assert.ErrorIs(t, err, models.ErrPasswordSame)
}
