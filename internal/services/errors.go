package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"devblog/internal/repository"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError: некорректное значение поля запроса (400).
type ValidationError struct {
	Field   string   `json:"field"`
	Message string   `json:"message"`
	Options []string `json:"options,omitempty"`
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if len(e.Options) > 0 {
		msg += " (valid options: " + strings.Join(e.Options, ", ") + ")"
	}
	return msg
}

func invalid(field, msg string, options ...string) error {
	return &ValidationError{Field: field, Message: msg, Options: options}
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// fromRepo переводит ошибки хранилища в ошибки сервиса.
func fromRepo(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound(what)
	case errors.Is(err, repository.ErrDuplicate):
		return conflict("%s already exists", what)
	}
	return err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct проверяет validate-теги и возвращает первую ошибку как ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := jsonPath(fe.Namespace())
	switch fe.Tag() {
	case "required", "required_if":
		return invalid(field, "is required")
	case "oneof":
		return invalid(field, fmt.Sprintf("invalid value %q", fmt.Sprint(fe.Value())), strings.Fields(fe.Param())...)
	case "email":
		return invalid(field, fmt.Sprintf("%q is not a valid email", fmt.Sprint(fe.Value())))
	case "min":
		return invalid(field, "must be at least "+fe.Param()+lenUnit(fe))
	case "max":
		return invalid(field, "must be at most "+fe.Param()+lenUnit(fe))
	}
	return invalid(field, "failed "+fe.Tag()+" check")
}

// jsonPath отрезает имя корневой структуры: CreatePostRequest.author.name -> author.name
func jsonPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func lenUnit(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Map:
		return " items"
	}
	return ""
}
