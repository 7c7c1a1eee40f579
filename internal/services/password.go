package services

import (
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// bcrypt rejects longer inputs
	maxPasswordBytes = 72
)

var specialChar = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher is the default PasswordHasher
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost, bcrypt.DefaultCost
// when cost is zero or out of range
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidatePassword enforces the password policy: at least six characters with
// an upper-case letter, a digit and a special character
func ValidatePassword(password string) error {
	const op = "auth.ValidatePassword"

	if len([]rune(password)) < minPasswordLength {
		return validationError(op, "password must be at least %d characters long", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return validationError(op, "password must be at most %d bytes long", maxPasswordBytes)
	}
	var upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return validationError(op, "password must contain at least one uppercase letter")
	}
	if !digit {
		return validationError(op, "password must contain at least one number")
	}
	if !specialChar.MatchString(password) {
		return validationError(op, "password must contain at least one special character")
	}
	return nil
}
