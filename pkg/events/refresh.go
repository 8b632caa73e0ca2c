package events

import "time"

const (
	TypeProjectsRefreshed    = "projects.refreshed"
	TypeProjectsRefreshError = "projects.refresh_failed"
)

// RefreshPayload is the wire form of one refresh outcome, shared by the in-process bus, NATS,
// and websocket clients.
type RefreshPayload struct {
	Type            string    `json:"type"`
	State           string    `json:"state"`
	Version         uint64    `json:"version"`
	ProjectCount    int       `json:"project_count"`
	TicketCount     int       `json:"ticket_count"`
	LocateAvailable bool      `json:"locate_available"`
	Stale           bool      `json:"stale"`
	Error           string    `json:"error,omitempty"`
	RefreshedAt     time.Time `json:"refreshed_at,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
	DurationMs      int64     `json:"duration_ms"`
}

// Failed reports whether this payload describes a failed attempt.
func (p RefreshPayload) Failed() bool {
	return p.Type == TypeProjectsRefreshError
}

// Event wraps the payload for publishers that take an Event.
func (p RefreshPayload) Event() Event {
	data := map[string]interface{}{
		"state":            p.State,
		"version":          p.Version,
		"project_count":    p.ProjectCount,
		"ticket_count":     p.TicketCount,
		"locate_available": p.LocateAvailable,
		"stale":            p.Stale,
		"duration_ms":      p.DurationMs,
	}
	if p.Error != "" {
		data["error"] = p.Error
	}
	if !p.RefreshedAt.IsZero() {
		data["refreshed_at"] = p.RefreshedAt
	}
	return BaseEvent{Type: p.Type, Data: data, OccurredAt: p.OccurredAt}
}
