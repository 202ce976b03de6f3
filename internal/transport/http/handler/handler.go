package handler

import (
	"github.com/gin-gonic/gin"

	"todo-api/internal/core/auth"
	"todo-api/internal/domain"
)

// currentUser 由 AuthJWT 中间件写入 request context
func currentUser(c *gin.Context) (string, error) {
	uid, ok := auth.UserIDFrom(c.Request.Context())
	if !ok {
		return "", domain.InvalidToken(nil)
	}
	return uid, nil
}
