package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
)

// ProfileHandler serves the optional reporter profile of the mobile app.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type createProfileRequest struct {
	NationalID  string `json:"national_id"  validate:"required,len=14,numeric"`
	FullName    string `json:"full_name"    validate:"required,max=255"`
	ContactInfo string `json:"contact_info" validate:"max=255"`
	DeviceID    string `json:"device_id"    validate:"max=255"`
}

type profileResponse struct {
	ID          uint      `json:"id"`
	NationalID  string    `json:"national_id"`
	FullName    string    `json:"full_name"`
	ContactInfo string    `json:"contact_info"`
	DeviceID    *string   `json:"device_id"`
	CreatedAt   time.Time `json:"created_at"`
	IsNew       *bool     `json:"is_new,omitempty"`
}

func toProfileResponse(u *domain.AppUser) profileResponse {
	return profileResponse{
		ID:          u.ID,
		NationalID:  u.NationalID,
		FullName:    u.FullName,
		ContactInfo: u.ContactInfo,
		DeviceID:    u.DeviceID,
		CreatedAt:   u.CreatedAt.UTC(),
	}
}

// CreateOrGet handles POST /api/app/profile.
//
// @Summary      Create or fetch a reporter profile
// @Description  Returns the existing profile when the national id is already known; is_new tells the two cases apart.
// @Tags         app
// @Accept       json
// @Produce      json
// @Param        body  body      createProfileRequest  true  "Profile"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/app/profile [post]
func (h *ProfileHandler) CreateOrGet(c echo.Context) error {
	var req createProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, isNew, err := h.service.CreateOrGetProfile(c.Request().Context(), ports.CreateProfileInput{
		NationalID:  req.NationalID,
		FullName:    req.FullName,
		ContactInfo: req.ContactInfo,
		DeviceID:    req.DeviceID,
	})
	if err != nil {
		return err
	}

	resp := toProfileResponse(profile)
	resp.IsNew = &isNew
	return c.JSON(http.StatusOK, resp)
}

// GetByDevice handles GET /api/app/profile/device/:device_id.
//
// @Summary      Find the profile linked to a device
// @Tags         app
// @Produce      json
// @Param        device_id  path      string  true  "Device id"
// @Success      200        {object}  profileResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/app/profile/device/{device_id} [get]
func (h *ProfileHandler) GetByDevice(c echo.Context) error {
	profile, err := h.service.GetProfileByDeviceID(c.Request().Context(), c.Param("device_id"))
	if err != nil {
		return err
	}
	if profile == nil {
		return domain.ErrProfileNotFound
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}
