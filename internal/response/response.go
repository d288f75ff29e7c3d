package response

import (
	"net/http"

	"subtrack/internal/models"

	"github.com/gin-gonic/gin"
)

// Response represents a standard API error/status envelope. Collection and
// summary payloads are written directly; this envelope is used for failures
// and mutation acknowledgements.
type Response struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    interface{}        `json:"data,omitempty"`
	Errors  models.FieldErrors `json:"errors,omitempty"`
}

// Success returns a success response
func Success(data interface{}) Response {
	return Response{
		Success: true,
		Message: "success",
		Data:    data,
	}
}

// Error returns an error response
func Error(statusCode int, message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}

// ValidationError returns a field-keyed validation failure response
func ValidationError(errs models.FieldErrors) Response {
	return Response{
		Success: false,
		Message: "validation failed",
		Errors:  errs,
	}
}

// JSON sends a JSON response
func JSON(c *gin.Context, statusCode int, response Response) {
	c.JSON(statusCode, response)
}

// SuccessJSON sends a success JSON response
func SuccessJSON(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, Success(data))
}

// ErrorJSON sends an error JSON response
func ErrorJSON(c *gin.Context, statusCode int, message string) {
	JSON(c, statusCode, Error(statusCode, message))
}

// ValidationJSON sends a field-keyed validation error response
func ValidationJSON(c *gin.Context, errs models.FieldErrors) {
	JSON(c, http.StatusBadRequest, ValidationError(errs))
}
