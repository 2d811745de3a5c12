package user

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidRole     = errors.New("invalid role")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

const (
	maxEmailLen    = 254
	minPasswordLen = 8
	maxPasswordLen = 72
)

// Email is normalised to lower case. Display-name forms such as
// "Juan <juan@example.com>" are rejected.
type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || len(s) > maxEmailLen {
		return Email{}, ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndexByte(s, '@'):], ".") {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string { return e.value }

type Password struct {
	value string
}

func NewPassword(s string) (Password, error) {
	switch {
	case len(s) < minPasswordLen:
		return Password{}, ErrPasswordTooWeak
	case len(s) > maxPasswordLen:
		return Password{}, ErrPasswordTooLong
	}
	return Password{value: s}, nil
}

func (p Password) Value() string { return p.value }

// Credentials is a login attempt that passed format checks.
type Credentials struct {
	Email    Email
	Password Password
}

func NewCredentials(email, password string) (Credentials, error) {
	e, err := NewEmail(email)
	if err != nil {
		return Credentials{}, err
	}
	p, err := NewPassword(password)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Email: e, Password: p}, nil
}
