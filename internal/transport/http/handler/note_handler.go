package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-api/internal/domain"
	"todo-api/internal/service"
	httpez "todo-api/internal/transport/http/ez"
)

// NoteHandler 挂载 /lists/:id/notes 与 /notes/:id
type NoteHandler struct {
	svc *service.NoteService
	log *zap.Logger
}

func NewNoteHandler(svc *service.NoteService, l *zap.Logger) *NoteHandler {
	return &NoteHandler{svc: svc, log: l}
}

func (h *NoteHandler) Priority() int { return 30 }

func (h *NoteHandler) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g, h.log)

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.Note]{
		Method: http.MethodGet,
		Path:   "/lists/:id/notes",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Note, error) {
			uid, err := currentUser(c)
			if err != nil {
				return nil, err
			}
			return h.svc.ListByList(c.Request.Context(), uid, c.Param("id"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[createNoteReq, *domain.Note]{
		Method: http.MethodPost,
		Path:   "/lists/:id/notes",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *createNoteReq) (*domain.Note, error) {
			uid, err := currentUser(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Create(c.Request.Context(), uid, c.Param("id"), in.Content, in.DueDate.Ptr())
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.Note]{
		Method: http.MethodGet,
		Path:   "/notes/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Note, error) {
			uid, err := currentUser(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Get(c.Request.Context(), uid, c.Param("id"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[patchNoteReq, *domain.Note]{
		Method: http.MethodPatch,
		Path:   "/notes/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *patchNoteReq) (*domain.Note, error) {
			uid, err := currentUser(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), uid, c.Param("id"), in.toPatch())
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, struct{}]{
		Method:    http.MethodDelete,
		Path:      "/notes/:id",
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
