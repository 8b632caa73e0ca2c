package projectdata

import (
	"fmt"

	"fiberops-assistant-be/pkg/project"
)

// FindProjectReferencedIn returns the first project whose identifier appears in text. It reads
// the current snapshot only and never triggers a fetch.
func (s *Store) FindProjectReferencedIn(text string) (*project.Record, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrDataUnavailable
	}
	rec, ok := snap.FindReferencedIn(text)
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *Store) SummarizeBySupervisor() ([]SupervisorSummary, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrDataUnavailable
	}
	return snap.SummarizeBySupervisor(), nil
}

func (s *Store) Projects() ([]project.Record, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrDataUnavailable
	}
	out := make([]project.Record, len(snap.Projects))
	copy(out, snap.Projects)
	return out, nil
}

// ProjectByID returns the first record with this exact identifier.
func (s *Store) ProjectByID(id string) (*project.Record, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrDataUnavailable
	}
	recs := snap.ByID(id)
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &recs[0], nil
}
