package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
)

// HeaderIdempotencyKey lets a mobile client retry a submission safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// IncidentHandler serves incident submission for the mobile app and the
// review endpoints of the dashboard.
type IncidentHandler struct {
	service ports.IncidentService
}

func NewIncidentHandler(service ports.IncidentService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

// Report handles POST /api/app/incidents.
//
// @Summary      Report an incident
// @Description  app_user_id may be null for an anonymous report. Classification runs in the background.
// @Tags         app
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                 false  "Key that makes retries of the same submission safe"
// @Param        body             body      reportIncidentRequest  true   "Incident"
// @Success      201              {object}  reportIncidentResponse
// @Success      200              {object}  reportIncidentResponse  "Replayed idempotent submission"
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /api/app/incidents [post]
func (h *IncidentHandler) Report(c echo.Context) error {
	var req reportIncidentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	result, err := h.service.ReportIncident(c.Request().Context(), toReportInput(req, key))
	if err != nil {
		return err
	}

	code, msg := http.StatusCreated, "incident reported"
	if result.AlreadyExisted {
		code, msg = http.StatusOK, "incident already reported"
	}
	return c.JSON(code, reportIncidentResponse{
		IncidentID: result.IncidentID,
		Status:     string(result.Status),
		Message:    msg,
	})
}

// List handles GET /api/dashboard/incidents.
//
// @Summary      List incidents
// @Description  Newest first. status defaults to pending; status=all lists every status.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "pending, accepted, rejected, under_review, investigating, resolved, closed or all"
// @Param        severity  query     string  false  "Severity filter"
// @Param        category  query     string  false  "Category filter"
// @Param        site      query     string  false  "Site filter"
// @Success      200       {object}  incidentListResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /api/dashboard/incidents [get]
func (h *IncidentHandler) List(c echo.Context) error {
	incidents, err := h.service.ListIncidents(c.Request().Context(), ports.ListIncidentsInput{
		Status:   c.QueryParam("status"),
		Severity: c.QueryParam("severity"),
		Category: c.QueryParam("category"),
		Site:     c.QueryParam("site"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIncidentListResponse(incidents))
}

// Get handles GET /api/dashboard/incident/:id.
//
// @Summary      Get incident detail
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Incident id"
// @Success      200  {object}  incidentDetailResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/dashboard/incident/{id} [get]
func (h *IncidentHandler) Get(c echo.Context) error {
	detail, err := h.service.GetIncidentDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIncidentDetailResponse(detail))
}

// UpdateStatus handles POST /api/dashboard/incident/:id/status.
//
// @Summary      Decide on an incident
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Incident id"
// @Param        body  body      updateStatusRequest  true  "Target status"
// @Success      200   {object}  updateStatusResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/dashboard/incident/{id}/status [post]
func (h *IncidentHandler) UpdateStatus(c echo.Context) error {
	user, err := ctxDashboardUser(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id := c.Param("id")
	status := req.Status
	if _, err := h.service.UpdateStatus(c.Request().Context(), id, status, user); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateStatusResponse{
		IncidentID: id,
		Status:     status,
		Message:    fmt.Sprintf("incident marked as %s", status),
	})
}

// History handles GET /api/dashboard/incident/:id/history.
//
// @Summary      Review history of an incident
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Incident id"
// @Success      200  {object}  reviewHistoryResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/dashboard/incident/{id}/history [get]
func (h *IncidentHandler) History(c echo.Context) error {
	id := c.Param("id")
	records, err := h.service.ReviewHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewHistoryResponse(id, records))
}

// Stats handles GET /api/dashboard/incidents/stats.
//
// @Summary      Incident counts per status
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/dashboard/incidents/stats [get]
func (h *IncidentHandler) Stats(c echo.Context) error {
	counts, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	if counts == nil {
		counts = make(map[domain.IncidentStatus]int64, 3)
	}
	for _, st := range []domain.IncidentStatus{domain.StatusPending, domain.StatusAccepted, domain.StatusRejected} {
		if _, ok := counts[st]; !ok {
			counts[st] = 0
		}
	}
	return c.JSON(http.StatusOK, toStatsResponse(counts))
}
