package handler

import (
	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
)

func toReportInput(r reportIncidentRequest, idempotencyKey string) ports.ReportIncidentInput {
	in := ports.ReportIncidentInput{
		AppUserID:      r.AppUserID,
		Category:       r.Category,
		Title:          r.Title,
		Description:    r.Description,
		Severity:       r.Severity,
		Location:       domain.Location{Address: r.Location.Address},
		Site:           r.Site,
		Media:          r.Media,
		Timestamp:      r.Timestamp,
		IdempotencyKey: idempotencyKey,
	}
	if r.Location.Latitude != nil {
		in.Location.Latitude = *r.Location.Latitude
	}
	if r.Location.Longitude != nil {
		in.Location.Longitude = *r.Location.Longitude
	}
	return in
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toIncidentResponse(i *domain.Incident) incidentResponse {
	media := i.Media
	if media == nil {
		media = []string{}
	}
	return incidentResponse{
		IncidentID:  i.IncidentID,
		AppUserID:   i.AppUserID,
		Category:    i.Category,
		Title:       i.Title,
		Description: i.Description,
		Severity:    optional(i.Severity),
		Verified:    optional(i.Verified),
		Status:      string(i.Status),
		Location: locationResponse{
			Latitude:  i.Location.Latitude,
			Longitude: i.Location.Longitude,
			Address:   i.Location.Address,
		},
		Site:       i.Site,
		Media:      media,
		Timestamp:  i.Timestamp.UTC(),
		CreatedAt:  i.CreatedAt.UTC(),
		ReviewedBy: i.ReviewedBy,
		ReviewedAt: i.ReviewedAt,
	}
}

func toIncidentListResponse(incidents []*domain.Incident) incidentListResponse {
	out := make([]incidentResponse, 0, len(incidents))
	for _, i := range incidents {
		out = append(out, toIncidentResponse(i))
	}
	return incidentListResponse{Incidents: out, Count: len(out)}
}

func toIncidentDetailResponse(d *domain.IncidentDetail) incidentDetailResponse {
	return incidentDetailResponse{
		incidentResponse: toIncidentResponse(&d.Incident),
		Reporter:         reporterResponse{Name: d.Reporter.Name, Contact: d.Reporter.Contact},
	}
}

func toReviewHistoryResponse(incidentID string, records []domain.ReviewRecord) reviewHistoryResponse {
	out := make([]reviewResponse, 0, len(records))
	for _, r := range records {
		out = append(out, reviewResponse{
			FromStatus:       string(r.FromStatus),
			ToStatus:         string(r.ToStatus),
			ReviewerID:       r.ReviewerID,
			ReviewerUsername: r.ReviewerUsername,
			DecidedAt:        r.DecidedAt.UTC(),
		})
	}
	return reviewHistoryResponse{IncidentID: incidentID, Reviews: out}
}

func toStatsResponse(counts map[domain.IncidentStatus]int64) statsResponse {
	resp := statsResponse{Counts: make(map[string]int64, len(counts))}
	for st, n := range counts {
		resp.Counts[string(st)] = n
		resp.Total += n
	}
	return resp
}
