package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fiberops-assistant-be/internal/controller"
	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/internal/pkg/serverutils"
	"fiberops-assistant-be/internal/repository/memory"
	"fiberops-assistant-be/internal/service"
	"fiberops-assistant-be/internal/testutil"
	"fiberops-assistant-be/pkg/llm"
	"fiberops-assistant-be/pkg/locate"
	"fiberops-assistant-be/pkg/project"
	"fiberops-assistant-be/pkg/projectdata"
	"fiberops-assistant-be/pkg/sheets"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct{ reply string }

func (s stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if s.reply == "" {
		return "", errors.New("model offline")
	}
	return s.reply, nil
}

func (s stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, nil)
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newApp(store *projectdata.Store, model llm.LLMProvider, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(controller.ErrorStatuses()...))
	api := app.Group("/api")

	projectService := service.NewProjectService(store)
	assistantService := service.NewAssistantService(store, model, memory.NewSessionRepository(time.Minute), "", time.Minute, nil)
	controller.NewProjectController(projectService).RegisterRoutes(api)
	controller.NewDataController(projectService, guard).RegisterRoutes(api)
	controller.NewAssistantController(assistantService).RegisterRoutes(api)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func storeWithRoster(t *testing.T) *projectdata.Store {
	srv := testutil.NewSheetServer(t)
	srv.Set("/p.xlsx", testutil.BuildXLSX(t, testutil.SheetData{
		Name:   "Active Projects",
		Header: []string{"NTP Number", "Assigned Supervisor", "Footage UG", "Footage Remaining"},
		Rows: [][]string{
			{"FB-1001", "Dana", "1,000", "250"},
			{"FB-1002", "", "500", ""},
		},
	}))
	srv.Fail("/l.xlsx", http.StatusNotFound)

	log := logger.NewNopLogger()
	store := projectdata.NewStore(
		sheets.NewFetcher(5*time.Second),
		projectdata.Sources{ProjectURL: srv.URL("/p.xlsx"), LocateURL: srv.URL("/l.xlsx")},
		locate.NewIndexer(locate.DefaultRules(), log),
		project.NewAggregator(project.DefaultRules(), log),
		log,
	)
	_, err := store.Refresh(context.Background())
	require.NoError(t, err)
	return store
}

func TestProjectRoutes_Offline(t *testing.T) {
	store := projectdata.NewStore(nil, projectdata.Sources{}, nil, nil, nil)
	app := newApp(store, stubLLM{reply: "x"}, serverutils.NewJwtMiddleware(""))

	for _, path := range []string{"/api/projects", "/api/projects/FB-1001", "/api/projects/lookup?q=FB-1001", "/api/projects/summary/supervisors"} {
		code, env := do(t, app, "GET", path, "")
		assert.Equal(t, fiber.StatusServiceUnavailable, code, path)
		assert.False(t, env.Success)
		assert.Contains(t, env.Message, "unavailable")
	}

	code, env := do(t, app, "GET", "/api/data/status", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"state":"offline"`)
}

func TestProjectRoutes_Online(t *testing.T) {
	app := newApp(storeWithRoster(t), stubLLM{reply: "x"}, serverutils.NewJwtMiddleware(""))

	code, env := do(t, app, "GET", "/api/projects", "")
	require.Equal(t, fiber.StatusOK, code)
	var all struct {
		Total    int `json:"total"`
		Projects []struct {
			Id                string `json:"id"`
			Supervisor        string `json:"supervisor"`
			CompletionPercent int    `json:"completion_percent"`
		} `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Equal(t, 2, all.Total)
	assert.Equal(t, 75, all.Projects[0].CompletionPercent)
	assert.Equal(t, project.DefaultSupervisor, all.Projects[1].Supervisor)

	code, _ = do(t, app, "GET", "/api/projects/FB-1002", "")
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = do(t, app, "GET", "/api/projects/FB-9999", "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, env = do(t, app, "GET", "/api/projects/lookup?q=what%27s%20left%20on%20fb-1002", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"FB-1002"`)

	code, _ = do(t, app, "GET", "/api/projects/lookup", "")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, env = do(t, app, "GET", "/api/projects/summary/supervisors", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"Dana"`)

	code, env = do(t, app, "GET", "/api/data/status", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"locate_available":false`)
	assert.Contains(t, string(env.Data), `"project_count":2`)
}

func TestDataRefresh_Guarded(t *testing.T) {
	app := newApp(storeWithRoster(t), stubLLM{reply: "x"}, serverutils.NewJwtMiddleware("secret"))

	code, _ := do(t, app, "POST", "/api/data/refresh", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestDataRefresh_Runs(t *testing.T) {
	app := newApp(storeWithRoster(t), stubLLM{reply: "x"}, serverutils.NewJwtMiddleware(""))

	code, env := do(t, app, "POST", "/api/data/refresh", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"version":2`)
}

func TestAssistantRoutes(t *testing.T) {
	app := newApp(storeWithRoster(t), stubLLM{reply: "FB-1001 is 75% complete."}, serverutils.NewJwtMiddleware(""))

	code, env := do(t, app, "POST", "/api/assistant/sessions", "")
	require.Equal(t, fiber.StatusCreated, code)
	var sess struct {
		SessionId string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sess))

	code, env = do(t, app, "POST", "/api/assistant/chat", `{"session_id":"`+sess.SessionId+`","message":"how is FB-1001?"}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"reply":"FB-1001 is 75% complete."`)
	assert.Contains(t, string(env.Data), `"id":"FB-1001"`)

	code, env = do(t, app, "POST", "/api/assistant/chat", `{"message":"hi"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, string(env.Data), "SessionId")

	code, _ = do(t, app, "POST", "/api/assistant/chat", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = do(t, app, "DELETE", "/api/assistant/sessions/"+sess.SessionId, "")
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = do(t, app, "POST", "/api/assistant/chat", `{"session_id":"`+sess.SessionId+`","message":"still there?"}`)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = do(t, app, "DELETE", "/api/assistant/sessions/nope", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestAssistantRoutes_ModelDown(t *testing.T) {
	app := newApp(storeWithRoster(t), stubLLM{}, serverutils.NewJwtMiddleware(""))

	_, env := do(t, app, "POST", "/api/assistant/sessions", "")
	var sess struct {
		SessionId string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sess))

	code, _ := do(t, app, "POST", "/api/assistant/chat", `{"session_id":"`+sess.SessionId+`","message":"hi"}`)
	assert.Equal(t, fiber.StatusBadGateway, code)
}
