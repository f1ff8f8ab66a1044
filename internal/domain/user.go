package domain

import (
	"errors"
	"net/mail"
	"slices"
	"time"

	"github.com/google/uuid"
)

const DefaultJobs = "Jobless"

var (
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidEmail = errors.New("email is invalid")
	ErrNegativeAge  = errors.New("age must be a positive number")
)

// User is the persisted account document. Tokens holds every live session
// token; a token outside this set is revoked no matter what its signature
// says.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`
	Jobs         string    `json:"jobs"`
	Avatar       []byte    `json:"-"`
	Tokens       []string  `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate re-checks the persistable invariants. Services call it before
// every write so a bad mutation never reaches the store.
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrEmptyName
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}
	if u.Age < 0 {
		return ErrNegativeAge
	}
	return nil
}

func (u *User) HasToken(token string) bool {
	return slices.Contains(u.Tokens, token)
}

func (u *User) AddToken(token string) {
	u.Tokens = append(u.Tokens, token)
}

// RemoveToken drops exactly the given token; other sessions stay live.
func (u *User) RemoveToken(token string) {
	u.Tokens = slices.DeleteFunc(u.Tokens, func(t string) bool {
		return t == token
	})
}

func (u *User) ClearTokens() {
	u.Tokens = nil
}
