package session

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type entry struct {
	session   domain.BookingSession
	expiresAt time.Time
}

// Store хранилище сессий мастера бронирования в памяти процесса.
// Сессии не переживают рестарт: брошенная сессия не держит внешних ресурсов.
// Каждое обращение продлевает TTL.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*entry
	now      func() time.Time
}

// NewStore создает хранилище с заданным временем жизни сессии
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Create сохраняет новую сессию
func (s *Store) Create(_ context.Context, session domain.BookingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[session.ID]; ok && s.now().Before(e.expiresAt) {
		return ErrSessionExists
	}

	s.sessions[session.ID] = &entry{
		session:   session.Clone(),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Get возвращает копию сессии
func (s *Store) Get(_ context.Context, id string) (domain.BookingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(id)
	if err != nil {
		return domain.BookingSession{}, err
	}
	e.expiresAt = s.now().Add(s.ttl)
	return e.session.Clone(), nil
}

// Update атомарно применяет fn к сессии и сохраняет результат.
// Если fn вернула ошибку, сессия не меняется, ошибка возвращается как есть.
func (s *Store) Update(
	_ context.Context,
	id string,
	fn func(domain.BookingSession) (domain.BookingSession, error),
) (domain.BookingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(id)
	if err != nil {
		return domain.BookingSession{}, err
	}

	next, err := fn(e.session.Clone())
	if err != nil {
		return domain.BookingSession{}, err
	}

	next.ID = id
	e.session = next.Clone()
	e.expiresAt = s.now().Add(s.ttl)
	return next, nil
}

// Sweep удаляет истекшие сессии и возвращает их количество
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len число живых и еще не вычищенных сессий
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) lookup(id string) (*entry, error) {
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	return e, nil
}
