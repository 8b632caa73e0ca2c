package projectdata

import (
	"sort"
	"strings"
	"time"

	"fiberops-assistant-be/pkg/locate"
	"fiberops-assistant-be/pkg/project"
)

// Snapshot is one complete refresh result. It is never mutated after publication.
type Snapshot struct {
	Version         uint64           `json:"version"`
	RefreshedAt     time.Time        `json:"refreshed_at"`
	Projects        []project.Record `json:"projects"`
	Tickets         locate.Index     `json:"tickets"`
	LocateAvailable bool             `json:"locate_available"`
	Warnings        []string         `json:"warnings,omitempty"`
}

type SupervisorSummary struct {
	Supervisor           string  `json:"supervisor"`
	ProjectCount         int     `json:"project_count"`
	FootageRemainingSum  float64 `json:"footage_remaining_sum"`
	AverageCompletionPct int     `json:"average_completion_pct"`
}

// FindReferencedIn returns the first project, in collection order, whose identifier appears in
// text case-insensitively.
func (s *Snapshot) FindReferencedIn(text string) (project.Record, bool) {
	lower := strings.ToLower(text)
	for _, rec := range s.Projects {
		if rec.ID == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(rec.ID)) {
			return rec, true
		}
	}
	return project.Record{}, false
}

// ByID returns every record with exactly this identifier; duplicates across sheets are kept.
func (s *Snapshot) ByID(id string) []project.Record {
	var out []project.Record
	for _, rec := range s.Projects {
		if rec.ID == id {
			out = append(out, rec)
		}
	}
	return out
}

// SummarizeBySupervisor groups projects by supervisor, sorted by supervisor name.
func (s *Snapshot) SummarizeBySupervisor() []SupervisorSummary {
	type acc struct {
		count     int
		remaining float64
		pctSum    int
	}
	groups := make(map[string]*acc)
	for _, rec := range s.Projects {
		g, ok := groups[rec.Supervisor]
		if !ok {
			g = &acc{}
			groups[rec.Supervisor] = g
		}
		g.count++
		g.remaining += rec.FootageRemaining
		g.pctSum += rec.CompletionPercent
	}

	out := make([]SupervisorSummary, 0, len(groups))
	for name, g := range groups {
		out = append(out, SupervisorSummary{
			Supervisor:           name,
			ProjectCount:         g.count,
			FootageRemainingSum:  g.remaining,
			AverageCompletionPct: g.pctSum / g.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Supervisor < out[j].Supervisor })
	return out
}

// TicketCount is the number of locate tickets attached to projects.
func (s *Snapshot) TicketCount() int {
	n := 0
	for _, rec := range s.Projects {
		n += len(rec.LocateTickets)
	}
	return n
}
