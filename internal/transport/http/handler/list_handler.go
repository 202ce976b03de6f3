package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-api/internal/domain"
	"todo-api/internal/service"
	httpez "todo-api/internal/transport/http/ez"
)

type ListHandler struct {
	svc *service.TodoListService
	log *zap.Logger
}

func NewListHandler(svc *service.TodoListService, l *zap.Logger) *ListHandler {
	return &ListHandler{svc: svc, log: l}
}

func (h *ListHandler) Priority() int { return 20 }

func (h *ListHandler) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g.Group("/lists"), h.log)

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.ListWithNotes]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.ListWithNotes, error) {
			uid, err := currentUser(c)
			if err != nil {
				return nil, err
			}
			return h.svc.List(c.Request.Context(), uid)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[titleReq, *domain.TodoList]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *titleReq) (*domain.TodoList, error) {
			uid, err := currentUser(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Create(c.Request.Context(), uid, in.Title)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[titleReq, *domain.TodoList]{
		Method: http.MethodPatch,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *titleReq) (*domain.TodoList, error) {
			uid, err := currentUser(c)
			if err != nil {
				return nil, err
			}
			return h.svc.UpdateTitle(c.Request.Context(), uid, c.Param("id"), in.Title)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, struct{}]{
		Method:    http.MethodDelete,
		Path:      "/:id",
		Binder:    httpez.BindNone,
		EmptyBody: true,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			uid, err := currentUser(c)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.svc.Delete(c.Request.Context(), uid, c.Param("id"))
		},
	})
}
