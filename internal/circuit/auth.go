package circuit

// auth.go is the session gate for the demo UI.
//
// There is exactly one hardcoded operator credential and no user storage.
// This is a placeholder login, NOT a security mechanism: it exists so the
// UI has a gate to render, and so the session plumbing (tokens, TTL,
// logout) is in place for when a real identity provider arrives. The
// password is still bcrypt-hashed and the username compared in constant
// time, so the shape of the check is the one a real implementation keeps.

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any login failure. The message is
// deliberately generic: callers never learn whether the username or the
// password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidSession is returned when a session token is unknown or expired.
var ErrInvalidSession = errors.New("invalid or expired session")

// The single demo credential. Replace the gate, not the constants, when
// real authentication lands.
const (
	demoUsername = "admin"
	demoPassword = "telco123"
	demoRole     = "engineer"
)

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Gate authenticates the demo credential and tracks live sessions.
type Gate struct {
	passwordHash []byte
	ttl          time.Duration

	mu       sync.Mutex
	sessions map[string]Session
}

// NewGate creates a session gate. ttl bounds how long an issued session
// stays valid; expired sessions are dropped lazily on access.
func NewGate(ttl time.Duration) *Gate {
	// Hashing at construction keeps the plaintext out of the comparison
	// path even though the credential itself is hardcoded.
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		// Only reachable with an invalid cost constant.
		panic("circuit: bcrypt hash of demo credential failed: " + err.Error())
	}
	return &Gate{
		passwordHash: hash,
		ttl:          ttl,
		sessions:     make(map[string]Session),
	}
}

// Login checks the credential pair and issues a session on success.
// Both the username and password checks run on every call so the timing
// does not reveal which half failed.
func (g *Gate) Login(username, password string) (Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(demoUsername)) == 1
	passErr := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return Session{}, ErrInvalidCredentials
	}

	sess := Session{
		Token:     uuid.NewString(),
		Username:  demoUsername,
		Role:      demoRole,
		ExpiresAt: time.Now().Add(g.ttl),
	}

	g.mu.Lock()
	g.sessions[sess.Token] = sess
	g.mu.Unlock()

	return sess, nil
}

// Verify resolves a session token. Expired sessions are removed and
// reported as invalid.
func (g *Gate) Verify(token string) (Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sess, ok := g.sessions[token]
	if !ok {
		return Session{}, ErrInvalidSession
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(g.sessions, token)
		return Session{}, ErrInvalidSession
	}
	return sess, nil
}

// Logout invalidates a session token. Unknown tokens are a no-op.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	delete(g.sessions, token)
	g.mu.Unlock()
}

// ActiveSessions returns the number of unexpired sessions.
func (g *Gate) ActiveSessions() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	n := 0
	for token, sess := range g.sessions {
		if now.After(sess.ExpiresAt) {
			delete(g.sessions, token)
			continue
		}
		n++
	}
	return n
}
