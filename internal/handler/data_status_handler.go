package handler

import (
	"time"

	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/internal/service"
	internalWS "fiberops-assistant-be/internal/websocket"
	"fiberops-assistant-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type DataStatusHandler struct {
	service service.IProjectService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewDataStatusHandler(service service.IProjectService, hub *internalWS.Hub, log logger.ILogger) *DataStatusHandler {
	return &DataStatusHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

func (h *DataStatusHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/data-status", h.ServeWs)
}

// ServeWs upgrades the request and streams one message per refresh attempt, starting with the
// current status.
func (h *DataStatusHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	initial := internalWS.Encode(h.currentPayload(c))
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("DataStatusHandler", "Starting WebSocket session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		internalWS.ServeWs(h.hub, conn, initial)
		h.logger.Info("DataStatusHandler", "WebSocket session ended", map[string]interface{}{"remote": conn.RemoteAddr().String()})
	})(c)
}

func (h *DataStatusHandler) currentPayload(c *fiber.Ctx) events.RefreshPayload {
	st := h.service.Status(c.UserContext())
	p := events.RefreshPayload{
		Type:            events.TypeProjectsRefreshed,
		State:           st.State,
		Version:         st.Version,
		ProjectCount:    st.ProjectCount,
		TicketCount:     st.TicketCount,
		LocateAvailable: st.LocateAvailable,
		Stale:           st.Stale,
		Error:           st.Error,
		OccurredAt:      time.Now(),
	}
	if st.RefreshedAt != nil {
		p.RefreshedAt = *st.RefreshedAt
	}
	if st.Error != "" {
		p.Type = events.TypeProjectsRefreshError
	}
	return p
}
