// Package session holds the signed-in user. One Session is created per
// process and handed to every controller; nothing else reads the store.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/model/role"
)

var ErrNotLoggedIn = errors.New("not logged in")

type Session struct {
	mu        sync.RWMutex
	store     Store
	user      *model.User
	token     string
	listeners []func()
}

// Open restores the persisted session, if any.
func Open(store Store) (*Session, error) {
	st, err := store.Load()
	if err != nil {
		return nil, err
	}
	s := &Session{store: store}
	if st.User != nil && st.Token != "" {
		u := *st.User
		s.user = &u
		s.token = st.Token
	}
	return s, nil
}

// Login replaces the current user and persists it.
func (s *Session) Login(user model.User, token string) error {
	if token == "" {
		return fmt.Errorf("login: empty token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(State{User: &user, Token: token}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.user = &user
	s.token = token
	return nil
}

// Logout clears the persisted state and notifies invalidation listeners.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	listeners := append([]func(){}, s.listeners...)
	err := s.store.Clear()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return err
}

// OnInvalidate registers fn to run after every logout.
func (s *Session) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// User returns a copy of the signed-in user.
func (s *Session) User() (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, ErrNotLoggedIn
	}
	return *s.user, nil
}

// Token implements the API transport's TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) Role() role.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

func (s *Session) IsAdmin() bool {
	return s.Role() == role.Admin
}

// Expired reads the token's exp claim without verifying the signature; the
// server remains the authority. Tokens without exp never expire here.
func (s *Session) Expired(now time.Time) bool {
	token := s.Token()
	if token == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
