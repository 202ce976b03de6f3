package response

import (
	"net/http"

	"todo-api/internal/domain"
)

// 中间件层产生的错误码（业务错误码见 domain.Kind）
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeTimeout         = "REQUEST_TIMEOUT"
	CodeTooLarge        = "PAYLOAD_TOO_LARGE"
	CodeServiceBusy     = "SERVICE_UNAVAILABLE"
	CodeNotFound        = "NOT_FOUND"
)

// MsgInternal 内部错误对外统一文案，细节只进日志
const MsgInternal = "An unexpected error occurred"

// kindStatus 集中管理 kind -> HTTP status
var kindStatus = map[domain.Kind]int{
	domain.KindValidation:         http.StatusBadRequest,
	domain.KindInvalidCredentials: http.StatusUnauthorized,
	domain.KindEmailTaken:         http.StatusConflict,
	domain.KindNotFound:           http.StatusNotFound,
	domain.KindInvalidToken:       http.StatusUnauthorized,
	domain.KindInternal:           http.StatusInternalServerError,
}

func StatusOf(k domain.Kind) int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}
