package memory

import (
	"context"
	"sync"
	"time"

	domainauth "dapur/internal/domain/auth"
	domainuser "dapur/internal/domain/user"
)

// SessionStore keeps bearer sessions in memory. Expired sessions are dropped
// lazily on read.
type SessionStore struct {
	mu       sync.RWMutex
	byToken  map[domainauth.Token]*domainauth.Session
	userKeys map[domainuser.ID]map[domainauth.Token]struct{}
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		byToken:  make(map[domainauth.Token]*domainauth.Session),
		userKeys: make(map[domainuser.ID]map[domainauth.Token]struct{}),
	}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil {
		return domainauth.ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copySession := *session
	s.byToken[session.Token] = &copySession
	tokens, ok := s.userKeys[session.UserID]
	if !ok {
		tokens = make(map[domainauth.Token]struct{})
		s.userKeys[session.UserID] = tokens
	}
	tokens[session.Token] = struct{}{}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.byToken[token]
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		s.deleteLocked(token)
		return nil, domainauth.ErrSessionNotFound
	}
	copySession := *session
	return &copySession, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(token)
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token := range s.userKeys[userID] {
		delete(s.byToken, token)
	}
	delete(s.userKeys, userID)
	return nil
}

func (s *SessionStore) deleteLocked(token domainauth.Token) {
	session, ok := s.byToken[token]
	if !ok {
		return
	}
	delete(s.byToken, token)
	if tokens, ok := s.userKeys[session.UserID]; ok {
		delete(tokens, token)
		if len(tokens) == 0 {
			delete(s.userKeys, session.UserID)
		}
	}
}
