package controller

import (
	"fiberops-assistant-be/internal/pkg/serverutils"
	"fiberops-assistant-be/internal/service"
	"fiberops-assistant-be/pkg/projectdata"

	"github.com/gofiber/fiber/v2"
)

// ErrorStatuses maps domain errors to HTTP statuses for serverutils.ErrorHandlerMiddleware.
func ErrorStatuses() []serverutils.ErrorStatus {
	return []serverutils.ErrorStatus{
		{Err: projectdata.ErrDataUnavailable, Code: fiber.StatusServiceUnavailable},
		{Err: projectdata.ErrNotFound, Code: fiber.StatusNotFound},
		{Err: service.ErrSessionNotFound, Code: fiber.StatusNotFound},
		{Err: service.ErrEmptyQuery, Code: fiber.StatusBadRequest},
		{Err: service.ErrRefreshFailed, Code: fiber.StatusBadGateway},
		{Err: service.ErrAssistantUnavailable, Code: fiber.StatusBadGateway},
	}
}
