package memory

import (
	"time"

	"fiberops-assistant-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps sessions for ttl after their last save and purges expired ones
// every ttl/6.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := cache.New(ttl, ttl/6)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID.String(), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(id uuid.UUID) (*store.Session, bool) {
	if x, found := r.cache.Get(id.String()); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(id uuid.UUID) bool {
	_, found := r.cache.Get(id.String())
	r.cache.Delete(id.String())
	return found
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
