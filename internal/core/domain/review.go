package domain

import "time"

// ReviewRecord is one entry of the append-only audit trail of status decisions.
type ReviewRecord struct {
	IncidentID       string         `json:"incident_id"`
	FromStatus       IncidentStatus `json:"from_status"`
	ToStatus         IncidentStatus `json:"to_status"`
	ReviewerID       uint           `json:"reviewer_id"`
	ReviewerUsername string         `json:"reviewer_username"`
	DecidedAt        time.Time      `json:"decided_at"`
}
