package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fiberops-assistant-be/internal/dto"
	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/internal/repository/contract"
	"fiberops-assistant-be/pkg/llm"
	"fiberops-assistant-be/pkg/project"
	"fiberops-assistant-be/pkg/projectdata"
	"fiberops-assistant-be/pkg/prompt"
	"fiberops-assistant-be/pkg/store"

	"github.com/google/uuid"
)

const assistantModule = "Assistant"

type IAssistantService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

type assistantService struct {
	store         *projectdata.Store
	llmProvider   llm.LLMProvider
	sessionRepo   contract.SessionRepository
	composer      *prompt.Composer
	knowledgeBase string
	sessionTTL    time.Duration
	logger        logger.ILogger
}

func NewAssistantService(
	store *projectdata.Store,
	llmProvider llm.LLMProvider,
	sessionRepo contract.SessionRepository,
	knowledgeBase string,
	sessionTTL time.Duration,
	log logger.ILogger,
) IAssistantService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &assistantService{
		store:         store,
		llmProvider:   llmProvider,
		sessionRepo:   sessionRepo,
		composer:      prompt.NewComposer(),
		knowledgeBase: knowledgeBase,
		sessionTTL:    sessionTTL,
		logger:        log,
	}
}

func (s *assistantService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session := store.NewSession()
	s.sessionRepo.Save(session)
	return &dto.CreateSessionResponse{SessionId: session.ID, ExpiresAt: session.CreatedAt.Add(s.sessionTTL)}, nil
}

func (s *assistantService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionId, err := uuid.Parse(req.SessionId)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	session, ok := s.sessionRepo.Get(sessionId)
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.Lock()
	defer session.Unlock()

	status := s.store.Status()
	pc := prompt.Context{
		KnowledgeBase: s.knowledgeBase,
		Status:        status,
		History:       session.History,
		Question:      req.Message,
	}
	if status.Online() {
		pc.Focus = s.resolveFocus(req.Message, session.LastProjectID)
		if prompt.WantsRollup(req.Message) {
			pc.Summaries, _ = s.store.SummarizeBySupervisor()
		}
	}

	reply, err := s.llmProvider.Chat(ctx, s.composer.Compose(pc))
	if err != nil {
		s.logger.Error(assistantModule, "LLM call failed", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrAssistantUnavailable, err)
	}

	session.Append(req.Message, reply, 2*s.composer.MaxHistory)
	var projectRes *dto.ProjectResponse
	if pc.Focus != nil {
		session.LastProjectID = pc.Focus.ID
		projectRes = dto.NewProjectResponse(*pc.Focus)
	}
	s.sessionRepo.Save(session)

	s.logger.Info(assistantModule, "Chat answered", map[string]interface{}{
		"session_id":  sessionId.String(),
		"data_state":  string(status.State),
		"focus":       session.LastProjectID,
		"history_len": len(session.History),
	})

	return &dto.ChatResponse{
		SessionId:  sessionId,
		Reply:      reply,
		Project:    projectRes,
		DataStatus: dto.NewDataStatusResponse(status, s.store.Current()),
	}, nil
}

// resolveFocus prefers a project named in the message and falls back to the one the session last
// discussed.
func (s *assistantService) resolveFocus(message, lastID string) *project.Record {
	rec, err := s.store.FindProjectReferencedIn(message)
	if err == nil {
		return rec
	}
	if errors.Is(err, projectdata.ErrNotFound) && lastID != "" {
		if rec, err := s.store.ProjectByID(lastID); err == nil {
			return rec
		}
	}
	return nil
}

func (s *assistantService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if !s.sessionRepo.Delete(id) {
		return ErrSessionNotFound
	}
	return nil
}
