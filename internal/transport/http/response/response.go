package response

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo-api/internal/domain"
)

// ErrorBody 所有失败响应的统一结构
type ErrorBody struct {
	Timestamp        time.Time           `json:"timestamp"`
	ErrorCode        string              `json:"errorCode"`
	Message          string              `json:"message"`
	ValidationErrors []domain.FieldError `json:"validationErrors,omitempty"`
	Path             string              `json:"path"`
}

func newBody(c *gin.Context, code, msg string) ErrorBody {
	return ErrorBody{
		Timestamp: time.Now().UTC(),
		ErrorCode: code,
		Message:   msg,
		Path:      c.Request.URL.Path,
	}
}

// OK 成功响应直接返回资源本身
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Empty 200 且无 body
func Empty(c *gin.Context) {
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
}

// Abort 中间件用：写错误体并中断后续 handler
func Abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, newBody(c, code, msg))
}

// Fail 把 service 返回的错误映射为状态码 + 错误体，返回对应 kind 便于调用方记录日志
func Fail(c *gin.Context, err error) domain.Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		Abort(c, http.StatusGatewayTimeout, CodeTimeout, "Request timed out")
		return domain.KindInternal
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		Abort(c, http.StatusRequestEntityTooLarge, CodeTooLarge, "Request body too large")
		return domain.KindValidation
	}

	kind := domain.KindOf(err)
	body := newBody(c, string(kind), err.Error())
	var de *domain.Error
	if errors.As(err, &de) {
		body.ValidationErrors = de.Fields
	}
	if kind == domain.KindInternal {
		body.Message = MsgInternal
	}
	c.AbortWithStatusJSON(StatusOf(kind), body)
	return kind
}
