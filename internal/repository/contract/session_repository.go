package contract

import (
	"fiberops-assistant-be/pkg/store"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Save(session *store.Session)
	Get(id uuid.UUID) (*store.Session, bool)
	Delete(id uuid.UUID) bool
}
