package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stride/internal/domain"
)

type errorResponseBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type messageResponseType struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// validationErrorBody pins the failure to one slot so the editor can mark it.
type validationErrorBody struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	DayKey    string `json:"day_key"`
	DayLabel  string `json:"day_label"`
	SlotIndex int    `json:"slot_index"`
}

// confirmationRequiredBody is the 409 payload of a save that needs an
// explicit confirmed=true re-submit.
type confirmationRequiredBody struct {
	Status        string                `json:"status"`
	Message       string                `json:"message"`
	AffectedCount int                   `json:"affected_count"`
	Ranges        []domain.ChangedRange `json:"ranges"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

func messageResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, messageResponseType{
		Status:  "success",
		Message: message,
	})
}

func validationErrorResponse(c *gin.Context, err *domain.ValidationError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, validationErrorBody{
		Status:    "error",
		Message:   err.Message,
		DayKey:    err.DayKey,
		DayLabel:  err.DayLabel,
		SlotIndex: err.SlotIndex,
	})
}

func confirmationRequiredResponse(c *gin.Context, err *domain.ConfirmationRequiredError) {
	c.AbortWithStatusJSON(http.StatusConflict, confirmationRequiredBody{
		Status:        "confirmation_required",
		Message:       err.Error(),
		AffectedCount: err.AffectedCount,
		Ranges:        err.Ranges,
	})
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "authorization required")
}

func forbiddenResponse(c *gin.Context, message ...string) {
	msg := "access denied"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	errorResponse(c, http.StatusForbidden, msg)
}

func internalServerErrorResponse(c *gin.Context) {
	errorResponse(c, http.StatusInternalServerError, "internal server error")
}
