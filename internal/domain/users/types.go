package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"sentinel/internal/domain/errs"
)

// Role is the access role carried by a user and referenced by access
// rules. The roles table holds one reference row per value.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Field length bounds enforced when a caller asks for validation.
const (
	NameMinLength     = 4
	NameMaxLength     = 50
	UsernameMinLength = 4
	UsernameMaxLength = 16
	PasswordMinLength = 4
	PasswordMaxLength = 50
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Password  password  `json:"-"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// password keeps the bcrypt digest out of JSON and out of reach of
// callers; only Set/Compare touch it.
type password struct {
	hash []byte
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.hash = hash
	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

func ValidateName(name string) error {
	if len(name) < NameMinLength {
		return errs.Validation("name", "too short")
	}
	if len(name) > NameMaxLength {
		return errs.Validation("name", "too long")
	}
	return nil
}

func ValidateUsername(username string) error {
	if len(username) < UsernameMinLength {
		return errs.Validation("username", "too short")
	}
	if len(username) > UsernameMaxLength {
		return errs.Validation("username", "too long")
	}
	return nil
}

func ValidatePassword(pw string) error {
	if len(pw) < PasswordMinLength {
		return errs.Validation("password", "too short")
	}
	if len(pw) > PasswordMaxLength {
		return errs.Validation("password", "too long")
	}
	return nil
}
