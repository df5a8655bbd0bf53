package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "dapur/internal/domain/auth"
	domainuser "dapur/internal/domain/user"
)

// SessionStore keeps bearer sessions in Redis so restarts do not log every
// client out. Token keys expire with the session; a per-user set tracks
// tokens for DeleteByUser.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(addr, password string) *SessionStore {
	return &SessionStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *SessionStore) Close() error {
	return s.rdb.Close()
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil {
		return domainauth.ErrTokenRequired
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domainauth.ErrTTLInvalid
	}
	data, err := json.Marshal(newSessionRecord(session))
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, tokenKey(session.Token), data, ttl)
	pipe.SAdd(ctx, userKey(session.UserID), string(session.Token))
	pipe.Expire(ctx, userKey(session.UserID), ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	data, err := s.rdb.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	session := record.toSession()
	if session.Expired(time.Now()) {
		_ = s.Delete(ctx, token)
		return nil, domainauth.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	data, err := s.rdb.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	var record sessionRecord
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, tokenKey(token))
	if err := json.Unmarshal(data, &record); err == nil {
		pipe.SRem(ctx, userKey(domainuser.ID(record.UserID)), string(token))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	tokens, err := s.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, tokenKey(domainauth.Token(token)))
	}
	pipe.Del(ctx, userKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}

func tokenKey(token domainauth.Token) string {
	return "session:" + string(token)
}

func userKey(id domainuser.ID) string {
	return "user_sessions:" + string(id)
}

type sessionRecord struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newSessionRecord(s *domainauth.Session) sessionRecord {
	return sessionRecord{
		Token:     string(s.Token),
		UserID:    string(s.UserID),
		Role:      string(s.Role),
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func (r sessionRecord) toSession() *domainauth.Session {
	return &domainauth.Session{
		Token:     domainauth.Token(r.Token),
		UserID:    domainuser.ID(r.UserID),
		Role:      domainuser.Role(r.Role),
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
}
