package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
)

var _ repository.SessionStore = (*SessionStore)(nil)

// SessionStore guarda sesiones en memoria del proceso. Se usa cuando no hay REDIS_URL
// (desarrollo, una sola instancia) y en tests.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]entry
	now      func() time.Time
}

type entry struct {
	session  entity.Session
	deadline time.Time
}

// NewSessionStore crea un almacén vacío.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]entry), now: time.Now}
}

// Save guarda una copia de la sesión; ttl marca cuándo deja de ser válida.
// De paso purga las vencidas, así las sesiones abandonadas sin logout no se acumulan.
func (s *SessionStore) Save(_ context.Context, session *entity.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	s.sessions[session.ID] = entry{session: *session, deadline: now.Add(ttl)}
	return nil
}

// sweepLocked elimina las sesiones vencidas que nadie volvió a leer. Llamar con el lock tomado.
func (s *SessionStore) sweepLocked(now time.Time) {
	for id, e := range s.sessions {
		if !now.Before(e.deadline) || e.session.Expired(now) {
			delete(s.sessions, id)
		}
	}
}

// Get devuelve (nil, nil) si la sesión no existe o expiró; las expiradas se purgan al leerlas.
func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	now := s.now()
	if !now.Before(e.deadline) || e.session.Expired(now) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, nil
	}
	out := e.session
	return &out, nil
}

// Delete borra la sesión si existe.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len número de sesiones guardadas (incluidas las expiradas aún no purgadas).
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
