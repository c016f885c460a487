// Package auth maps login credentials to a session role. The credential
// table is compiled in and compared in plaintext; this gate is a UI
// convenience for a single building's manager and auditor, not a security
// boundary.
package auth

import (
	"errors"
	"sync"
)

// Role is the authorization level granted after a credential match.
type Role string

const (
	// RoleAdmin has full read/write access to the ledger.
	RoleAdmin Role = "admin"
	// RoleViewer is read-only; every mutating capability is suppressed.
	RoleViewer Role = "viewer"
)

// ErrInvalidCredentials is returned on a failed login. It is surfaced on
// the login form and immediately retryable; there is no lockout or
// attempt counting.
var ErrInvalidCredentials = errors.New("invalid credentials")

type credential struct {
	username string
	password string
	role     Role
}

var credentials = []credential{
	{username: "yonetici", password: "6161", role: RoleAdmin},
	{username: "denetci", password: "1234", role: RoleViewer},
}

// Gate is a two-state machine: unauthenticated until the first successful
// credential match, then authenticated with that role for the rest of the
// session. There is no logout transition.
type Gate struct {
	mu            sync.Mutex
	role          Role
	authenticated bool
}

func NewGate() *Gate {
	return &Gate{}
}

// Authenticate checks the pair against the credential table. On a match
// the gate transitions to authenticated and returns the role; on a miss
// it stays in its current state and returns ErrInvalidCredentials.
func (g *Gate) Authenticate(username, password string) (Role, error) {
	for _, c := range credentials {
		if c.username == username && c.password == password {
			g.mu.Lock()
			g.role = c.role
			g.authenticated = true
			g.mu.Unlock()
			return c.role, nil
		}
	}
	return "", ErrInvalidCredentials
}

// Role returns the active role and whether the gate is authenticated.
func (g *Gate) Role() (Role, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.role, g.authenticated
}

// Capabilities is the set of mutations the active role may perform. The
// presentation layer asks once per render and picks the matching control
// set rather than hiding individual elements after the fact.
type Capabilities struct {
	CanAdd    bool
	CanEdit   bool
	CanDelete bool
	CanClear  bool
}

// Capabilities returns the capability set for the current state. Viewers
// and unauthenticated gates get the empty set.
func (g *Gate) Capabilities() Capabilities {
	role, ok := g.Role()
	if !ok || role != RoleAdmin {
		return Capabilities{}
	}
	return Capabilities{CanAdd: true, CanEdit: true, CanDelete: true, CanClear: true}
}
