package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed    = errors.New("password hashing failed")
	ErrComparisonFailed = errors.New("password comparison failed")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrTooLong          = errors.New("password longer than 72 bytes")
)

// bcrypt ignores everything past 72 bytes; longer inputs are rejected
// rather than silently truncated.
const maxBytes = 72

const DefaultCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	return HashWithCost(password, DefaultCost)
}

func HashWithCost(password string, cost int) (string, error) {
	switch {
	case password == "":
		return "", ErrInvalidPassword
	case len(password) > maxBytes:
		return "", ErrTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Join(ErrHashingFailed, err)
	}
	return string(hashed), nil
}

// ComparePassword returns ErrComparisonFailed on a mismatch and
// ErrInvalidPassword when either side is empty.
func ComparePassword(hashedPassword, password string) error {
	if hashedPassword == "" || password == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrComparisonFailed
	default:
		return err
	}
}

// NeedsRehash reports whether a stored hash was produced with a different cost.
func NeedsRehash(hashedPassword string, cost int) bool {
	c, err := bcrypt.Cost([]byte(hashedPassword))
	return err != nil || c != cost
}
