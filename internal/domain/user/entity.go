package user

import (
	"errors"

	"poorito-booking/internal/pkg/password"

	"github.com/google/uuid"
)

var (
	ErrAccountInactive  = errors.New("account is inactive")
	ErrPasswordMismatch = errors.New("password does not match")
)

// Account is what the login flow knows about a user. Accounts are created and
// managed outside this service, so it is only ever rebuilt from storage.
type Account struct {
	id           uuid.UUID
	email        Email
	role         Role
	passwordHash string
	active       bool
}

func ReconstructAccount(id uuid.UUID, email string, role string, passwordHash string, active bool) (*Account, error) {
	e, err := NewEmail(email)
	if err != nil {
		return nil, err
	}
	r, err := NewRole(role)
	if err != nil {
		return nil, err
	}
	return &Account{id: id, email: e, role: r, passwordHash: passwordHash, active: active}, nil
}

func (a *Account) ID() uuid.UUID { return a.id }
func (a *Account) Email() Email  { return a.email }
func (a *Account) Role() Role    { return a.role }

// Authenticate checks the password before the active flag so a disabled
// account is only revealed to someone who knows its password.
func (a *Account) Authenticate(p Password) error {
	if err := password.ComparePassword(a.passwordHash, p.Value()); err != nil {
		return ErrPasswordMismatch
	}
	return a.CheckActive()
}

func (a *Account) CheckActive() error {
	if !a.active {
		return ErrAccountInactive
	}
	return nil
}
