package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-api/internal/service"
	httpez "todo-api/internal/transport/http/ez"
)

// AuthHandler /auth/*（公开）与 /user/me（需登录）
type AuthHandler struct {
	svc *service.AuthService
	log *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, l *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: l}
}

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountPublic(g *gin.RouterGroup) {
	ez := httpez.New(g.Group("/auth"), h.log)

	httpez.RegisterAction(ez, httpez.Action[registerReq, authResp]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *registerReq) (authResp, error) {
			res, err := h.svc.Register(c.Request.Context(), in.Email, in.Password, in.FullName)
			if err != nil {
				return authResp{}, err
			}
			return toAuthResp(res), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[authenticateReq, authResp]{
		Method: http.MethodPost,
		Path:   "/authenticate",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *authenticateReq) (authResp, error) {
			res, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return authResp{}, err
			}
			return toAuthResp(res), nil
		},
	})
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g, h.log)

	httpez.RegisterAction(ez, httpez.Action[struct{}, meResp]{
		Method: http.MethodGet,
		Path:   "/user/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (meResp, error) {
			uid, err := currentUser(c)
			if err != nil {
				return meResp{}, err
			}
			u, err := h.svc.Me(c.Request.Context(), uid)
			if err != nil {
				return meResp{}, err
			}
			return meResp{UserID: u.ID, Email: u.Email, FullName: u.FullName}, nil
		},
	})
}
