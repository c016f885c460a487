package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"aidat/internal/auth"
)

const sessionCookie = "aidat_session"

// session pairs a browser with its own access gate. The gate has no
// logout transition; a session simply ages out after the idle window.
type session struct {
	gate     *auth.Gate
	lastSeen time.Time
}

type sessionManager struct {
	mu           sync.Mutex
	sessions     map[string]*session
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

const sessionIdleWindow = 12 * time.Hour

func newSessionManager() *sessionManager {
	sm := &sessionManager{
		sessions:    make(map[string]*session),
		stopCleanup: make(chan struct{}),
	}
	go sm.startCleanup()
	return sm
}

// startCleanup runs periodic cleanup to drop idle sessions
func (sm *sessionManager) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.cleanupStaleSessions()
		case <-sm.stopCleanup:
			return
		}
	}
}

func (sm *sessionManager) cleanupStaleSessions() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	cutoff := time.Now().Add(-sessionIdleWindow)
	for token, sess := range sm.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(sm.sessions, token)
		}
	}
}

func (sm *sessionManager) stop() {
	sm.shutdownOnce.Do(func() {
		close(sm.stopCleanup)
	})
}

// get returns the live session for the request's cookie, if any.
func (sm *sessionManager) get(r *http.Request) (*session, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sess, ok := sm.sessions[c.Value]
	if !ok {
		return nil, false
	}
	sess.lastSeen = time.Now()
	return sess, true
}

// create starts a fresh session and sets its cookie on the response.
func (sm *sessionManager) create(w http.ResponseWriter) *session {
	token := newSessionToken()
	sess := &session{gate: auth.NewGate(), lastSeen: time.Now()}

	sm.mu.Lock()
	sm.sessions[token] = sess
	sm.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func newSessionToken() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("sess_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}
