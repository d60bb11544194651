package domain

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("access forbidden")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrDuplicateSubmission = errors.New("submission already in progress")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrIncidentNotFound    = errors.New("incident not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrTooManyAttempts     = errors.New("too many login attempts")
	ErrUpstreamUnavailable = errors.New("classification service unavailable")
)
