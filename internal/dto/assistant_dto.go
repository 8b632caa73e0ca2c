package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ChatRequest struct {
	SessionId string `json:"session_id" validate:"required,uuid"`
	Message   string `json:"message" validate:"required,max=4000"`
}

type ChatResponse struct {
	SessionId  uuid.UUID           `json:"session_id"`
	Reply      string              `json:"reply"`
	Project    *ProjectResponse    `json:"project"`
	DataStatus *DataStatusResponse `json:"data_status"`
}
