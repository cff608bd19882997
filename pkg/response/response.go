package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/studysmarter/studysmarter-api/pkg/errors"
)

// ErrorBody is the error response contract. Validation failures and missing
// resources carry only a message; server-side faults additionally expose the
// underlying error text for diagnostics.
type ErrorBody struct {
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

// JSON sends a success response with the payload as the body.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := ErrorBody{Message: appErr.Message}
	if appErr.Status >= http.StatusInternalServerError && appErr.Err != nil {
		body.Detail = appErr.Err.Error()
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, body)
}
