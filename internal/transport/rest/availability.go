package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stride/internal/domain"
)

// @Summary Get weekly availability
// @Description Returns the authenticated instructor's weekly schedule shape and editing state
// @Tags Availability
// @Produce json
// @Success 200 {object} successResponseBody "Weekly availability"
// @Failure 401 {object} errorResponseBody "Not authenticated"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Security ApiKeyAuth
// @Router /availability [get]
func (h *Handler) getAvailability(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	week, err := h.services.Availability.GetWeek(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get weekly availability", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, week)
}

// @Summary Save weekly availability
// @Description Validates, checks booking impact and commits the full weekly schedule. A change that affects booked parties requires confirmed=true.
// @Tags Availability
// @Accept json
// @Produce json
// @Param input body domain.SaveAvailabilityDTO true "Full weekly shape"
// @Success 200 {object} successResponseBody "Committed schedule and version"
// @Failure 400 {object} errorResponseBody "Malformed request"
// @Failure 401 {object} errorResponseBody "Not authenticated"
// @Failure 409 {object} confirmationRequiredBody "Confirmation required"
// @Failure 422 {object} validationErrorBody "Slot validation failed"
// @Failure 423 {object} errorResponseBody "Schedule is locked"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Security ApiKeyAuth
// @Router /availability [put]
func (h *Handler) saveAvailability(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var req domain.SaveAvailabilityDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		badRequestResponse(c, "invalid request body")
		return
	}

	result, err := h.services.Availability.Save(c.Request.Context(), userID, domain.ToDays(req.Days), req.Confirmed)
	if err != nil {
		h.respondSaveError(c, err)
		return
	}

	successResponse(c, http.StatusOK, result)
}

// @Summary Preview booking impact
// @Description Validates the proposed weekly shape and reports how many booked parties the change would affect, without saving
// @Tags Availability
// @Accept json
// @Produce json
// @Param input body domain.PreviewImpactDTO true "Proposed weekly shape"
// @Success 200 {object} successResponseBody "Impact estimate and changed ranges"
// @Failure 400 {object} errorResponseBody "Malformed request"
// @Failure 401 {object} errorResponseBody "Not authenticated"
// @Failure 422 {object} validationErrorBody "Slot validation failed"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Security ApiKeyAuth
// @Router /availability/preview [post]
func (h *Handler) previewImpact(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var req domain.PreviewImpactDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}

	impact, ranges, err := h.services.Availability.PreviewImpact(c.Request.Context(), userID, domain.ToDays(req.Days))
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			validationErrorResponse(c, validationErr)
			return
		}
		h.logger.Error("failed to preview impact", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, gin.H{
		"affected_count": impact.AffectedCount,
		"ranges":         ranges,
	})
}

// @Summary Grant an editing window
// @Description Re-opens schedule editing for an instructor until the given deadline
// @Tags Availability
// @Accept json
// @Produce json
// @Param instructorId path int true "Instructor ID"
// @Param input body domain.GrantEditWindowDTO true "Window deadline"
// @Success 200 {object} messageResponseType "Window granted"
// @Failure 400 {object} errorResponseBody "Malformed request"
// @Failure 401 {object} errorResponseBody "Not authenticated"
// @Failure 403 {object} errorResponseBody "Admin role required"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Security ApiKeyAuth
// @Router /availability/{instructorId}/edit-window [post]
func (h *Handler) grantEditWindow(c *gin.Context) {
	instructorID, err := strconv.ParseInt(c.Param("instructorId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "invalid instructor id")
		return
	}

	var req domain.GrantEditWindowDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}

	if err := h.services.Availability.GrantEditWindow(c.Request.Context(), instructorID, req.Until); err != nil {
		h.logger.Error("failed to grant edit window",
			zap.Int64("instructor_id", instructorID),
			zap.Error(err),
		)
		badRequestResponse(c, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "edit window granted")
}

func (h *Handler) respondSaveError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		validationErrorResponse(c, validationErr)
		return
	}

	var confirmErr *domain.ConfirmationRequiredError
	if errors.As(err, &confirmErr) {
		confirmationRequiredResponse(c, confirmErr)
		return
	}

	if errors.Is(err, domain.ErrScheduleLocked) {
		errorResponse(c, http.StatusLocked, domain.ErrScheduleLocked.Error())
		return
	}

	h.logger.Error("failed to save weekly availability", zap.Error(err))
	internalServerErrorResponse(c)
}
