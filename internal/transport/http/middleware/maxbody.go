package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "todo-api/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；超出时 binding 读到 *http.MaxBytesError，由 response.Fail 映射为 413
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, http.StatusRequestEntityTooLarge, resp.CodeTooLarge, "Request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
