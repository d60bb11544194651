package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Requests ---

type locationRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Address   string   `json:"address"   validate:"max=500"`
}

type reportIncidentRequest struct {
	AppUserID   *uint           `json:"app_user_id"`
	Category    string          `json:"category"    validate:"required,max=100"`
	Title       string          `json:"title"       validate:"max=255"`
	Description string          `json:"description" validate:"required,max=5000"`
	Severity    string          `json:"severity"    validate:"max=50"`
	Location    locationRequest `json:"location"`
	Site        string          `json:"site"        validate:"max=100"`
	Media       []string        `json:"media"       validate:"max=20,dive,required,max=500"`
	Timestamp   *time.Time      `json:"timestamp"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// --- Responses ---
// Transport-owned so the JSON contract does not follow domain changes.

type reportIncidentResponse struct {
	IncidentID string `json:"incident_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type locationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type incidentResponse struct {
	IncidentID  string           `json:"incident_id"`
	AppUserID   *uint            `json:"app_user_id"`
	Category    string           `json:"category"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description"`
	Severity    *string          `json:"severity"`
	Verified    *string          `json:"verified"`
	Status      string           `json:"status"`
	Location    locationResponse `json:"location"`
	Site        string           `json:"site,omitempty"`
	Media       []string         `json:"media"`
	Timestamp   time.Time        `json:"timestamp"`
	CreatedAt   time.Time        `json:"created_at"`
	ReviewedBy  *uint            `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`
}

type reporterResponse struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

type incidentDetailResponse struct {
	incidentResponse
	Reporter reporterResponse `json:"reporter"`
}

type incidentListResponse struct {
	Incidents []incidentResponse `json:"incidents"`
	Count     int                `json:"count"`
}

type updateStatusResponse struct {
	IncidentID string `json:"incident_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type reviewResponse struct {
	FromStatus       string    `json:"from_status"`
	ToStatus         string    `json:"to_status"`
	ReviewerID       uint      `json:"reviewer_id"`
	ReviewerUsername string    `json:"reviewer_username"`
	DecidedAt        time.Time `json:"decided_at"`
}

type reviewHistoryResponse struct {
	IncidentID string           `json:"incident_id"`
	Reviews    []reviewResponse `json:"reviews"`
}

type statsResponse struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}
