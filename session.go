package friendzone

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

// Session provides access to the visitor's session data.
// Session data persists across page views for the same browser.
type Session struct {
	ctx     context.Context
	manager *scs.SessionManager
}

func (a *App) session(ctx context.Context) *Session {
	return &Session{ctx: ctx, manager: a.sessionManager}
}

// GetInt retrieves an int value from the session.
func (s *Session) GetInt(key string) int {
	if s.manager == nil || s.ctx == nil {
		return 0
	}
	return s.manager.GetInt(s.ctx, key)
}

// Set stores a value in the session.
func (s *Session) Set(key string, val any) {
	if s.manager == nil || s.ctx == nil {
		return
	}
	s.manager.Put(s.ctx, key, val)
}

// Exists returns true if the key exists in the session.
func (s *Session) Exists(key string) bool {
	if s.manager == nil || s.ctx == nil {
		return false
	}
	return s.manager.Exists(s.ctx, key)
}

// ID returns the session token (cookie value). It is empty until the session
// has been committed once.
func (s *Session) ID() string {
	if s.manager == nil || s.ctx == nil {
		return ""
	}
	return s.manager.Token(s.ctx)
}
