package domain

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	titleChars   = regexp.MustCompile(`^[\p{L}\p{N}\p{P}\p{Z}]+$`)
	contentChars = regexp.MustCompile(`^[\p{L}\p{N}\p{P}\p{Z}\n\r\t]+$`)
)

// 校验入参（标签即规则，消息见 fieldMessages）
type ListTitle struct {
	Title string `json:"title" validate:"nonblank,max=100,listtitle"`
}

type NoteContent struct {
	Content string `json:"content" validate:"nonblank,max=1000,notecontent"`
}

type Registration struct {
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"fullName" validate:"nonblank,max=128"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var fieldMessages = map[string]string{
	"title.nonblank":      "Title is required",
	"title.max":           "Title must be between 1 and 100 characters",
	"title.listtitle":     "Title contains invalid characters",
	"content.nonblank":    "Content is required",
	"content.max":         "Content must be between 1 and 1000 characters",
	"content.notecontent": "Content contains invalid characters",
	"email.required":      "Email is required",
	"email.email":         "Email must be a valid email address",
	"email.max":           "Email must be at most 191 characters",
	"password.required":   "Password is required",
	"password.min":        "Password must be between 6 and 72 characters",
	"password.max":        "Password must be between 6 and 72 characters",
	"fullName.nonblank":   "Full name is required",
	"fullName.max":        "Full name must be at most 128 characters",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("listtitle", func(fl validator.FieldLevel) bool {
		return titleChars.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notecontent", func(fl validator.FieldLevel) bool {
		return contentChars.MatchString(fl.Field().String())
	})
	return v
}

// Validate 返回 *Error(KindValidation) 或 nil
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return Internal("validation failed", err)
	}
	fields := make([]FieldError, 0, len(ves))
	for _, fe := range ves {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return Validation(fields...)
}
