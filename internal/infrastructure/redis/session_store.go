package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
)

var _ repository.SessionStore = (*SessionStore)(nil)

const keyPrefix = "session:"

// SessionStore guarda las sesiones en Redis como JSON; el TTL de la clave es la expiración.
type SessionStore struct {
	rdb *goredis.Client
}

// NewSessionStore conecta con Redis a partir de una URL (redis://...) y verifica con PING.
func NewSessionStore(ctx context.Context, redisURL string) (*SessionStore, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := goredis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &SessionStore{rdb: rdb}, nil
}

// NewSessionStoreWithClient usa un cliente ya construido.
func NewSessionStoreWithClient(rdb *goredis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Save escribe (o reescribe) la sesión con la expiración indicada.
func (s *SessionStore) Save(ctx context.Context, session *entity.Session, ttl time.Duration) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get devuelve la sesión o (nil, nil) si no existe o ya expiró.
func (s *SessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	session, err := decodeSession(data)
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, nil
	}
	return session, nil
}

// Delete borra la sesión. Borrar una clave inexistente no es error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close libera la conexión.
func (s *SessionStore) Close() error {
	return s.rdb.Close()
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func encodeSession(session *entity.Session) ([]byte, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (*entity.Session, error) {
	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}
