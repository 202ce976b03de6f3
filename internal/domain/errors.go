package domain

import (
	"errors"
	"fmt"
)

// Kind 对外暴露的错误码（errorCode）
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindEmailTaken         Kind = "EMAIL_EXISTS"
	KindNotFound           Kind = "RESOURCE_NOT_FOUND"
	KindInvalidToken       Kind = "INVALID_TOKEN"
	KindInternal           Kind = "INTERNAL_SERVER_ERROR"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 统一业务错误：Kind 决定 HTTP 状态码，Msg 直接返回给调用方
type Error struct {
	Kind   Kind
	Msg    string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches by kind, so errors.Is(err, ErrNotFound) works for any not-found error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrEmailTaken         = &Error{Kind: KindEmailTaken}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken}
	ErrInternal           = &Error{Kind: KindInternal}
)

func NotFound(resource, field string, value any) error {
	return &Error{
		Kind: KindNotFound,
		Msg:  fmt.Sprintf("%s not found with %s : '%v'", resource, field, value),
	}
}

func Validation(fields ...FieldError) error {
	return &Error{Kind: KindValidation, Msg: "Validation failed", Fields: fields}
}

func InvalidCredentials() error {
	return &Error{Kind: KindInvalidCredentials, Msg: "Invalid email or password"}
}

func EmailTaken() error {
	return &Error{Kind: KindEmailTaken, Msg: "Email already exists"}
}

func InvalidToken(err error) error {
	return &Error{Kind: KindInvalidToken, Msg: "Invalid or expired token", Err: err}
}

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf 非 *Error 一律视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
