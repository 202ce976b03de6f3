package handler

import (
	"encoding/json"
	"strings"
	"time"

	"todo-api/internal/domain"
	"todo-api/internal/service"
	httpez "todo-api/internal/transport/http/ez"
)

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type authenticateReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

func toAuthResp(r *service.AuthResult) authResp {
	return authResp{Token: r.Token, UserID: r.User.ID, Email: r.User.Email, FullName: r.User.FullName}
}

type meResp struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type titleReq struct {
	Title string `json:"title"`
}

type createNoteReq struct {
	Content string   `json:"content"`
	DueDate *DueDate `json:"dueDate"`
}

// patchNoteReq 缺省或 null 的字段保持原值
type patchNoteReq struct {
	Content      *string  `json:"content"`
	Done         *bool    `json:"done"`
	DueDate      *DueDate `json:"dueDate"`
	TargetListID *string  `json:"targetListId"`
}

func (p patchNoteReq) toPatch() domain.NotePatch {
	return domain.NotePatch{
		Content:      p.Content,
		Done:         p.Done,
		DueDate:      p.DueDate.Ptr(),
		TargetListID: p.TargetListID,
	}
}

// DueDate 接受 RFC3339、不带时区的 "2006-01-02T15:04:05"（按 UTC）或纯日期（当天 0 点 UTC）
type DueDate struct{ t *time.Time }

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &httpez.FieldBindError{Field: "dueDate", Msg: "Due date must be a string"}
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			u := parsed.UTC()
			d.t = &u
			return nil
		}
	}
	return &httpez.FieldBindError{Field: "dueDate", Msg: "Due date must be YYYY-MM-DD or an ISO-8601 date-time"}
}

// Ptr nil 接收者也安全
func (d *DueDate) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	return d.t
}
