// Package session holds the signed-in storefront user.
package session

import (
	"sync"

	"autoparts-store/internal/domain"
)

// Session is safe for concurrent use. The zero value is signed out.
type Session struct {
	mu    sync.RWMutex
	user  *domain.User
	token string
}

func New() *Session {
	return &Session{}
}

// Login replaces the current user and bearer token
func (s *Session) Login(user domain.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.token = token
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
}

// Current returns the signed-in user, if any
func (s *Session) Current() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}

// Token is the bearer token issued at login, empty when signed out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
