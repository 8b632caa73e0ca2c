package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fiberops-assistant-be/internal/dto"
	"fiberops-assistant-be/pkg/projectdata"
)

type IProjectService interface {
	GetAll(ctx context.Context) (*dto.GetAllProjectsResponse, error)
	Show(ctx context.Context, id string) (*dto.ProjectResponse, error)
	Lookup(ctx context.Context, query string) (*dto.LookupProjectResponse, error)
	SupervisorSummary(ctx context.Context) (*dto.SupervisorSummaryResponse, error)
	Status(ctx context.Context) *dto.DataStatusResponse
	Refresh(ctx context.Context) (*dto.RefreshResponse, error)
}

type projectService struct {
	store *projectdata.Store
}

func NewProjectService(store *projectdata.Store) IProjectService {
	return &projectService{store: store}
}

func (s *projectService) GetAll(ctx context.Context) (*dto.GetAllProjectsResponse, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, projectdata.ErrDataUnavailable
	}

	result := make([]*dto.ProjectResponse, 0, len(snap.Projects))
	for _, rec := range snap.Projects {
		result = append(result, dto.NewProjectResponse(rec))
	}
	return &dto.GetAllProjectsResponse{
		Projects: result,
		Total:    len(result),
		Version:  snap.Version,
	}, nil
}

func (s *projectService) Show(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	rec, err := s.store.ProjectByID(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	return dto.NewProjectResponse(*rec), nil
}

func (s *projectService) Lookup(ctx context.Context, query string) (*dto.LookupProjectResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	rec, err := s.store.FindProjectReferencedIn(query)
	if err != nil {
		return nil, err
	}
	return &dto.LookupProjectResponse{
		Query:   query,
		Project: dto.NewProjectResponse(*rec),
	}, nil
}

func (s *projectService) SupervisorSummary(ctx context.Context) (*dto.SupervisorSummaryResponse, error) {
	summaries, err := s.store.SummarizeBySupervisor()
	if err != nil {
		return nil, err
	}
	return &dto.SupervisorSummaryResponse{Summaries: summaries}, nil
}

func (s *projectService) Status(ctx context.Context) *dto.DataStatusResponse {
	return dto.NewDataStatusResponse(s.store.Status(), s.store.Current())
}

func (s *projectService) Refresh(ctx context.Context) (*dto.RefreshResponse, error) {
	start := time.Now()
	snap, err := s.store.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	return &dto.RefreshResponse{
		Status:     dto.NewDataStatusResponse(s.store.Status(), snap),
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}
