package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"user-graph-service/internal/adapter/gin/problem"
	"user-graph-service/pkg/logger"
)

// SubjectKey is the gin context key holding the verified token subject.
const SubjectKey = "subject"

// TokenVerifier validates a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth requires a valid bearer token. A nil verifier lets every request through.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			problem.Abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		subject, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			problem.Abort(c, http.StatusUnauthorized, "invalid bearer token")
			return
		}

		c.Set(SubjectKey, subject)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), subject))
		c.Next()
	}
}
