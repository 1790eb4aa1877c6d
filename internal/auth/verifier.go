package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultUsername and DefaultPassword are the built-in demo credentials.
const (
	DefaultUsername = "demo"
	DefaultPassword = "pass123"
)

// Verifier decides whether a submitted credential pair matches.
type Verifier interface {
	Verify(username, password string) bool
}

// StaticVerifier matches a single literal username/password pair.
type StaticVerifier struct {
	Username string
	Password string
}

// NewStaticVerifier returns a verifier for the pair, falling back to the demo
// credentials for empty values.
func NewStaticVerifier(username, password string) StaticVerifier {
	if username == "" {
		username = DefaultUsername
	}
	if password == "" {
		password = DefaultPassword
	}
	return StaticVerifier{Username: username, Password: password}
}

func (v StaticVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.Password)) == 1
	return userOK && passOK
}

// BcryptVerifier matches a username and a bcrypt password hash.
type BcryptVerifier struct {
	username string
	hash     []byte
}

func NewBcryptVerifier(username, hash string) (*BcryptVerifier, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	if username == "" {
		username = DefaultUsername
	}
	return &BcryptVerifier{username: username, hash: []byte(hash)}, nil
}

func (v *BcryptVerifier) Verify(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil
}

// NewVerifier picks the bcrypt verifier when a hash is configured and the
// static pair otherwise.
func NewVerifier(username, password, hash string) (Verifier, error) {
	if hash != "" {
		return NewBcryptVerifier(username, hash)
	}
	return NewStaticVerifier(username, password), nil
}
