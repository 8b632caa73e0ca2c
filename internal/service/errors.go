package service

import "errors"

var (
	ErrSessionNotFound      = errors.New("chat session not found or expired")
	ErrEmptyQuery           = errors.New("query must not be empty")
	ErrRefreshFailed        = errors.New("project data refresh failed")
	ErrAssistantUnavailable = errors.New("assistant model unavailable")
)
