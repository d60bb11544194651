package domain

import "time"

// IncidentStatus represents the review state of an incident.
type IncidentStatus string

const (
	StatusPending  IncidentStatus = "pending"
	StatusAccepted IncidentStatus = "accepted"
	StatusRejected IncidentStatus = "rejected"

	// Extended review vocabulary. Recognised, forward-only.
	StatusUnderReview   IncidentStatus = "under_review"
	StatusInvestigating IncidentStatus = "investigating"
	StatusResolved      IncidentStatus = "resolved"
	StatusClosed        IncidentStatus = "closed"
)

// AnonymousReporter is shown in place of a reporter name for anonymous incidents.
const AnonymousReporter = "Anonymous"

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[IncidentStatus][]IncidentStatus{
	StatusPending:       {StatusUnderReview, StatusInvestigating, StatusAccepted, StatusRejected},
	StatusUnderReview:   {StatusInvestigating, StatusAccepted, StatusRejected},
	StatusInvestigating: {StatusResolved, StatusRejected},
	StatusResolved:      {StatusClosed},
}

var knownStatuses = map[IncidentStatus]struct{}{
	StatusPending:       {},
	StatusAccepted:      {},
	StatusRejected:      {},
	StatusUnderReview:   {},
	StatusInvestigating: {},
	StatusResolved:      {},
	StatusClosed:        {},
}

// ParseIncidentStatus returns the status named by s, or false if s is not part
// of the vocabulary. Only the exact lower-case names match.
func ParseIncidentStatus(s string) (IncidentStatus, bool) {
	st := IncidentStatus(s)
	_, ok := knownStatuses[st]
	return st, ok
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s IncidentStatus) CanTransitionTo(next IncidentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Predecessors returns every status from which s can be reached directly.
func (s IncidentStatus) Predecessors() []IncidentStatus {
	var out []IncidentStatus
	for from, targets := range validTransitions {
		for _, t := range targets {
			if t == s {
				out = append(out, from)
			}
		}
	}
	return out
}

// Location is where the incident happened.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// Incident is the core aggregate root.
type Incident struct {
	IncidentID  string         `json:"incident_id"`
	AppUserID   *uint          `json:"app_user_id"`
	Category    string         `json:"category"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description"`
	Severity    string         `json:"severity,omitempty"`
	Verified    string         `json:"verified,omitempty"`
	Status      IncidentStatus `json:"status"`
	Location    Location       `json:"location"`
	Site        string         `json:"site,omitempty"`
	Media       []string       `json:"media,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	CreatedAt   time.Time      `json:"created_at"`
	ReviewedBy  *uint          `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty"`
}

// IsAnonymous reports whether the incident has no linked reporter profile.
func (i *Incident) IsAnonymous() bool {
	return i.AppUserID == nil
}

// Reporter is the public view of the profile that submitted an incident.
type Reporter struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// IncidentDetail is an incident joined with its reporter.
type IncidentDetail struct {
	Incident
	Reporter Reporter `json:"reporter"`
}

// Classification is what the classification collaborator returns.
// Empty fields mean the collaborator had no opinion.
type Classification struct {
	Category string
	Severity string
	Verified string
	Title    string
}

// IsEmpty reports whether the classification carries no fields.
func (c Classification) IsEmpty() bool {
	return c.Category == "" && c.Severity == "" && c.Verified == "" && c.Title == ""
}

// MergeClassification returns the fields of c that may be written onto i.
// Classifier output only fills fields the reporter left empty.
func (i *Incident) MergeClassification(c Classification) Classification {
	var e Classification
	if i.Category == "" {
		e.Category = c.Category
	}
	if i.Severity == "" {
		e.Severity = c.Severity
	}
	if i.Verified == "" {
		e.Verified = c.Verified
	}
	if i.Title == "" {
		e.Title = c.Title
	}
	return e
}
