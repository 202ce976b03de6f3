package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-api/internal/domain"
	mdw "todo-api/internal/transport/http/middleware"
	resp "todo-api/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON Binder = "json" // 从 JSON body 绑定
	BindNone Binder = "none" // 不绑定，自己从 c.Param 取
)

// EZ 一个分组 + 记录内部错误用的 logger
type EZ struct {
	g *gin.RouterGroup
	l *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, l: l}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method    string // "GET" | "POST" | "PATCH" | "PUT" | "DELETE"
	Path      string // 例："/lists/:id/notes"
	Binder    Binder
	EmptyBody bool // 成功时只回 200，不写 body
	Handler   func(c *gin.Context, in *I) (O, error)
}

// FieldBindError 入参里单个字段格式不对（如日期），按校验错误返回
type FieldBindError struct {
	Field string
	Msg   string
}

func (e *FieldBindError) Error() string { return e.Field + ": " + e.Msg }

func bindError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return err
	}
	var fe *FieldBindError
	if errors.As(err, &fe) {
		return domain.Validation(domain.FieldError{Field: fe.Field, Message: fe.Msg})
	}
	if errors.Is(err, io.EOF) {
		return &domain.Error{Kind: domain.KindValidation, Msg: "Request body is required", Err: err}
	}
	return &domain.Error{Kind: domain.KindValidation, Msg: "Malformed JSON request", Err: err}
}

// RegisterAction 在当前 EZ 下注册动作接口：绑定 -> 执行 -> 统一错误映射
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		if a.Binder == BindJSON {
			if err := c.ShouldBindJSON(&in); err != nil {
				e.fail(c, bindError(err))
				return
			}
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		if a.EmptyBody {
			resp.Empty(c)
			return
		}
		resp.OK(c, out)
	}

	e.g.Handle(strings.ToUpper(a.Method), a.Path, h)
}

func (e EZ) fail(c *gin.Context, err error) {
	if resp.Fail(c, err) == domain.KindInternal {
		e.l.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
}
