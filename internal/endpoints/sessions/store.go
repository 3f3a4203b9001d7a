package sessions

import (
	"github.com/VinothKuppanna/pigeon-maps/internal/cache"
	"github.com/VinothKuppanna/pigeon-maps/pkg/domain"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrSessionNotFound = errors.New("session not found")

// CoordinatorFactory builds the coordinator behind a new session.
type CoordinatorFactory func() *domain.SearchCoordinator

// Store keeps live sessions in the session cache. Reading a session extends
// its lifetime; an expired or deleted session has its coordinator closed.
type Store struct {
	sessions *cache.SessionCache
	create   CoordinatorFactory
	logger   log.Logger
}

func NewStore(sessions *cache.SessionCache, create CoordinatorFactory, logger log.Logger) *Store {
	s := &Store{sessions: sessions, create: create, logger: log.With(logger, "component", "sessions")}
	sessions.OnEvicted(s.evicted)
	return s
}

func (s *Store) evicted(id string, value interface{}) {
	if coordinator, ok := value.(*domain.SearchCoordinator); ok {
		coordinator.Close()
	}
	_ = level.Info(s.logger).Log("msg", "session closed", "session_id", id)
}

func (s *Store) Create() (string, *domain.SearchCoordinator) {
	id := uuid.New().String()
	coordinator := s.create()
	s.sessions.SetDefault(id, coordinator)
	_ = level.Info(s.logger).Log("msg", "session created", "session_id", id)
	return id, coordinator
}

func (s *Store) Get(id string) (*domain.SearchCoordinator, error) {
	value, ok := s.sessions.Get(id)
	if !ok {
		return nil, errors.Wrap(ErrSessionNotFound, id)
	}
	coordinator := value.(*domain.SearchCoordinator)
	if coordinator.Closed() {
		return nil, errors.Wrap(ErrSessionNotFound, id)
	}
	s.sessions.SetDefault(id, coordinator)
	return coordinator, nil
}

func (s *Store) Delete(id string) error {
	if _, ok := s.sessions.Get(id); !ok {
		return errors.Wrap(ErrSessionNotFound, id)
	}
	s.sessions.Delete(id)
	return nil
}

func (s *Store) Count() int {
	return s.sessions.ItemCount()
}

// Close ends every session.
func (s *Store) Close() {
	for id := range s.sessions.Items() {
		s.sessions.Delete(id)
	}
}
