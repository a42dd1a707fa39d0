// Package problem writes RFC 7807 style error bodies for the HTTP boundary.
package problem

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "user-graph-service/pkg/errors"
)

// Problem is the uniform error body returned by every route.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

// Abort writes a problem body with the given status and stops the handler chain.
func Abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, Problem{
		Type:     "about:blank",
		Title:    title(status),
		Status:   status,
		Detail:   detail,
		Instance: c.Request.URL.Path,
	})
}

// AbortWithError maps err to its status code and writes the problem body.
// Internal errors never expose their message.
func AbortWithError(c *gin.Context, err error) {
	status := StatusOf(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		detail = "an internal error occurred"
	}
	Abort(c, status, detail)
}

// StatusOf returns the HTTP status code for an application error.
func StatusOf(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsAlreadyExists(err):
		return http.StatusBadRequest
	case apperrors.IsNotAllowed(err), apperrors.IsBlocked(err):
		return http.StatusForbidden
	case apperrors.IsUnauthorized(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func title(status int) string {
	switch status {
	case http.StatusUnprocessableEntity:
		return "Validation Error"
	case http.StatusInternalServerError:
		return "Internal Server Error"
	default:
		return "Request Error"
	}
}
