package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todo-api/internal/core/auth"
	resp "todo-api/internal/transport/http/response"
)

const KeyUserID = "uid"

// TokenResolver token -> userId
type TokenResolver interface {
	Resolve(token string) (string, error)
}

// AuthJWT 校验 Bearer token，把 userId 写入 request context
func AuthJWT(r TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized, resp.CodeUnauthorized, "Authentication required")
			return
		}
		uid, err := r.Resolve(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			resp.Fail(c, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), uid))
		c.Set(KeyUserID, uid)
		c.Next()
	}
}
