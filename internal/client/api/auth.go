package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/open436/forumctl/internal/client/models"
)

// AuthAPI wraps the auth-service endpoints (/api/auth/*).
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	Token     string             `json:"token"`
	User      models.UserProfile `json:"user"`
	ExpiresIn int64              `json:"expiresIn"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type verifyResult struct {
	Valid bool               `json:"valid"`
	User  models.UserProfile `json:"user"`
}

// Login authenticates with the auth service. Credential bounds are checked
// locally first so obviously invalid forms never hit the network.
func (a *AuthAPI) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if err := models.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	var res LoginResult
	if err := a.c.Post(ctx, "/api/auth/login", loginRequest{Username: username, Password: password}, &res); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &res, nil
}

// Logout invalidates the current token server-side. Callers treat failures
// as best-effort; the session store clears local state regardless.
func (a *AuthAPI) Logout(ctx context.Context) error {
	if err := a.c.Post(ctx, "/api/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Verify checks a token and returns the profile it belongs to.
func (a *AuthAPI) Verify(ctx context.Context, token string) (*models.UserProfile, error) {
	q := url.Values{}
	q.Set("token", token)

	var res verifyResult
	if err := a.c.Get(ctx, "/api/auth/verify", q, &res); err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if !res.Valid {
		return nil, NewError(40101003, "", 0)
	}
	return &res.User, nil
}

// CurrentUser fetches the profile of the authenticated user. The service
// historically returned either {user: {...}} or the bare profile; both are
// accepted.
func (a *AuthAPI) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	var raw json.RawMessage
	if err := a.c.Get(ctx, "/api/auth/current", nil, &raw); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	var wrapped struct {
		User *models.UserProfile `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}

	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode current user: %w", err)
	}
	return &profile, nil
}

// ChangePassword updates the caller's password after local form validation.
func (a *AuthAPI) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error {
	if err := models.ValidatePasswordChange(oldPassword, newPassword, confirm); err != nil {
		return err
	}

	req := changePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword, ConfirmPassword: confirm}
	if err := a.c.Put(ctx, "/api/auth/password", req, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
