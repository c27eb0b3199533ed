package models

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Validation errors are raised client-side before any request is issued.
var (
	ErrUsernameRequired = errors.New("username must not be empty")
	ErrUsernameLength   = errors.New("username must be 3-20 characters")
	ErrPasswordRequired = errors.New("password must not be empty")
	ErrPasswordLength   = errors.New("password must be 6-32 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordSame     = errors.New("new password must differ from the old one")
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// ValidateCredentials checks the login form bounds (username 3-20 chars,
// password 6-32 chars) without touching the network.
func ValidateCredentials(username, password string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if n := utf8.RuneCountInString(username); n < 3 || n > 20 {
		return ErrUsernameLength
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if n := len(password); n < 6 || n > 32 {
		return ErrPasswordLength
	}
	return nil
}

// ValidatePasswordChange checks the change-password form: new password
// bounds, confirmation match, and new != old.
func ValidatePasswordChange(oldPassword, newPassword, confirm string) error {
	if oldPassword == "" {
		return ErrPasswordRequired
	}
	if n := len(newPassword); n < 6 || n > 32 {
		return ErrPasswordLength
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if newPassword == oldPassword {
		return ErrPasswordSame
	}
	return nil
}

// Validate checks a section payload before it is sent. forCreate demands a
// slug; updates leave it empty because the server ignores it anyway.
func (in SectionInput) Validate(forCreate bool) error {
	if forCreate {
		if !slugPattern.MatchString(in.Slug) {
			return errors.New("slug must be 3-20 lowercase letters, digits or underscores")
		}
	}
	if n := utf8.RuneCountInString(in.Name); n < 2 || n > 50 {
		return errors.New("name must be 2-50 characters")
	}
	if utf8.RuneCountInString(in.Description) > 500 {
		return errors.New("description must be at most 500 characters")
	}
	if in.Color != "" && !colorPattern.MatchString(in.Color) {
		return errors.New("color must be a hex value like #1976D2")
	}
	if in.SortOrder != 0 && (in.SortOrder < 1 || in.SortOrder > 999) {
		return fmt.Errorf("sort order %d is out of range 1-999", in.SortOrder)
	}
	return nil
}
