package handlers

import (
	"net/http"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/http/middleware"
	"trainbuddy/internal/utils"

	"github.com/gin-gonic/gin"
)

// RespondAPIError sends the standard failure envelope. Typed APIErrors keep
// their code and status; anything else becomes a generic 500.
func RespondAPIError(c *gin.Context, err error) {
	apiErr, ok := domain.AsAPIError(err)
	if !ok {
		apiErr = domain.NewAPIError(domain.CodeInternal, "Something went wrong. Please try again.", http.StatusInternalServerError)
	}
	if apiErr.Err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "http", "error", apiErr.Err.Error())
	}
	c.JSON(apiErr.Status, gin.H{
		"success":   false,
		"errorCode": apiErr.Code,
		"message":   apiErr.Message,
	})
}

// RespondValidation is the shorthand for 400 caller errors.
func RespondValidation(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success":   false,
		"errorCode": code,
		"message":   message,
	})
}

// OK wraps a payload in the success envelope.
func OK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondValidation(c, domain.CodeInvalidInput, "Request body is required.")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondValidation(c, domain.CodeInvalidInput, "Request body is not valid JSON.")
		return false
	}
	return true
}
