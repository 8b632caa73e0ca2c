package projectdata

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/pkg/locate"
	"fiberops-assistant-be/pkg/project"
	"fiberops-assistant-be/pkg/sheets"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const logModule = "ProjectData"

type State string

const (
	StateOnline  State = "online"
	StateOffline State = "offline"
)

// Status is what downstream consumers branch on before using project facts.
type Status struct {
	State        State     `json:"state"`
	Version      uint64    `json:"version"`
	RefreshedAt  time.Time `json:"refreshed_at,omitempty"`
	ProjectCount int       `json:"project_count"`
	// Stale is set when the latest refresh failed and an older snapshot is still served.
	Stale bool   `json:"stale"`
	Error string `json:"error,omitempty"`
}

func (s Status) Online() bool {
	return s.State == StateOnline
}

// Outcome describes one refresh attempt.
type Outcome struct {
	Snapshot *Snapshot
	Err      error
	Status   Status
	Duration time.Duration
}

// SourceFetcher downloads both workbooks. *sheets.Fetcher implements it.
type SourceFetcher interface {
	FetchBoth(ctx context.Context, projectURL, locateURL string) sheets.FetchResult
}

type Sources struct {
	ProjectURL    string
	LocateURL     string
	ProjectFormat sheets.Format
	LocateFormat  sheets.Format
}

// Store owns the current snapshot. Refresh is the only writer; readers always see a complete
// snapshot.
type Store struct {
	fetcher    SourceFetcher
	sources    Sources
	indexer    *locate.Indexer
	aggregator *project.Aggregator
	logger     logger.ILogger
	tracer     trace.Tracer
	now        func() time.Time

	current atomic.Pointer[Snapshot]
	version atomic.Uint64
	flight  singleflight.Group

	mu          sync.RWMutex
	lastErr     error
	lastAttempt time.Time
	listeners   []func(Outcome)
}

func NewStore(
	fetcher SourceFetcher,
	sources Sources,
	indexer *locate.Indexer,
	aggregator *project.Aggregator,
	log logger.ILogger,
) *Store {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Store{
		fetcher:    fetcher,
		sources:    sources,
		indexer:    indexer,
		aggregator: aggregator,
		logger:     log,
		tracer:     otel.Tracer("fiberops-assistant-be/projectdata"),
		now:        time.Now,
	}
}

// OnRefresh registers fn to be called after every refresh attempt. Listeners run synchronously
// on the refreshing goroutine and must not block.
func (s *Store) OnRefresh(fn func(Outcome)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Current returns the latest snapshot or nil if none has been published.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Load publishes snap as the current snapshot, e.g. a warm start from a mirror or a test
// fixture. Its version is reassigned to keep versions increasing.
func (s *Store) Load(snap *Snapshot) {
	if snap == nil {
		return
	}
	cp := *snap
	cp.Version = s.version.Add(1)
	s.current.Store(&cp)
}

func (s *Store) Status() Status {
	s.mu.RLock()
	lastErr := s.lastErr
	s.mu.RUnlock()

	snap := s.current.Load()
	if snap == nil {
		msg := "project data has not been loaded yet"
		if lastErr != nil {
			msg = lastErr.Error()
		}
		return Status{State: StateOffline, Error: msg}
	}

	st := Status{
		State:        StateOnline,
		Version:      snap.Version,
		RefreshedAt:  snap.RefreshedAt,
		ProjectCount: len(snap.Projects),
	}
	if lastErr != nil {
		st.Stale = true
		st.Error = lastErr.Error()
	}
	return st
}

// Refresh rebuilds the snapshot. Concurrent calls share one in-flight refresh. On failure the
// previous snapshot stays published.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	v, err, shared := s.flight.Do("refresh", func() (interface{}, error) {
		return s.refresh(ctx)
	})
	if shared {
		s.logger.Debug(logModule, "Joined in-flight refresh", nil)
	}
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (s *Store) refresh(ctx context.Context) (*Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "projectdata.refresh")
	defer span.End()
	start := s.now()

	snap, err := s.build(ctx, span)
	duration := s.now().Sub(start)

	s.mu.Lock()
	s.lastAttempt = start
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(logModule, "Refresh failed, keeping previous snapshot", map[string]interface{}{
			"error":       err,
			"duration_ms": duration.Milliseconds(),
		})
		s.notify(Outcome{Err: err, Status: s.Status(), Duration: duration})
		return nil, err
	}

	s.current.Store(snap)
	span.SetAttributes(
		attribute.Int64("snapshot.version", int64(snap.Version)),
		attribute.Int("snapshot.projects", len(snap.Projects)),
	)
	s.logger.Info(logModule, "Snapshot published", map[string]interface{}{
		"version":          snap.Version,
		"projects":         len(snap.Projects),
		"tickets":          snap.TicketCount(),
		"locate_available": snap.LocateAvailable,
		"duration_ms":      duration.Milliseconds(),
	})
	s.notify(Outcome{Snapshot: snap, Status: s.Status(), Duration: duration})
	return snap, nil
}

func (s *Store) build(ctx context.Context, span trace.Span) (*Snapshot, error) {
	res := s.fetcher.FetchBoth(ctx, s.sources.ProjectURL, s.sources.LocateURL)
	span.AddEvent("fetched", trace.WithAttributes(
		attribute.Bool("project.ok", res.Project.OK()),
		attribute.Bool("locate.ok", res.Locate.OK()),
	))

	if !res.Project.OK() {
		return nil, fmt.Errorf("fetch project workbook: %w", res.Project.Err)
	}
	projectWB, err := sheets.Parse(res.Project.Data, s.sources.ProjectFormat)
	if err != nil {
		return nil, fmt.Errorf("parse project workbook: %w", err)
	}

	var warnings []string
	index := locate.Index{}
	locateOK := false
	if !res.Locate.OK() {
		warnings = append(warnings, res.Locate.Err.Error())
		s.logger.Warn(logModule, "Locate workbook unavailable, continuing without tickets", map[string]interface{}{
			"error": res.Locate.Err.Error(),
		})
	} else if locateWB, err := sheets.Parse(res.Locate.Data, s.sources.LocateFormat); err != nil {
		warnings = append(warnings, err.Error())
		s.logger.Warn(logModule, "Locate workbook unreadable, continuing without tickets", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		index = s.indexer.Build(locateWB)
		locateOK = true
	}

	records, err := s.aggregator.Build(projectWB, index)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Version:         s.version.Add(1),
		RefreshedAt:     s.now(),
		Projects:        records,
		Tickets:         index,
		LocateAvailable: locateOK,
		Warnings:        warnings,
	}, nil
}

func (s *Store) notify(o Outcome) {
	s.mu.RLock()
	listeners := make([]func(Outcome), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(o)
	}
}

// Run refreshes immediately and then every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Warn(logModule, "Initial refresh failed", map[string]interface{}{"error": err.Error()})
	}
	s.Loop(ctx, interval)
}

// Loop refreshes every interval until ctx is done. A tick that arrives while a refresh is still
// running joins it instead of starting another.
func (s *Store) Loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info(logModule, "Refresh loop stopped", nil)
			return
		case <-ticker.C:
			go func() {
				if _, err := s.Refresh(ctx); err != nil {
					s.logger.Warn(logModule, "Scheduled refresh failed", map[string]interface{}{"error": err.Error()})
				}
			}()
		}
	}
}
