package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Get facility hours
// @Description Returns the operating hours that bound every availability slot
// @Tags Facility
// @Produce json
// @Success 200 {object} successResponseBody "Facility hours"
// @Failure 401 {object} errorResponseBody "Not authenticated"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Security ApiKeyAuth
// @Router /facility/hours [get]
func (h *Handler) getFacilityHours(c *gin.Context) {
	facility, err := h.services.Facility.GetFacility(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to get facility", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, facility.Hours)
}

// @Summary List activity types
// @Description Returns the activity types a slot can be tagged with
// @Tags Facility
// @Produce json
// @Success 200 {object} successResponseBody "Activity types"
// @Failure 401 {object} errorResponseBody "Not authenticated"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Security ApiKeyAuth
// @Router /facility/activity-types [get]
func (h *Handler) getActivityTypes(c *gin.Context) {
	facility, err := h.services.Facility.GetFacility(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to get facility", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, facility.ActivityTypes)
}
