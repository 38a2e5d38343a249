package handlers

import (
	"errors"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"taskManager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// validateRequest переводит первую ошибку валидатора в бизнес-ошибку с понятным текстом
func validateRequest(request any) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}

	fieldErr := validationErrors[0]
	return service.NewValidationError(fieldErr.Field(), validationMessage(fieldErr))
}

func validationMessage(fieldErr validator.FieldError) string {
	switch {
	case fieldErr.Field() == "title" && fieldErr.Tag() == "required":
		return "Title required"
	case fieldErr.Field() == "priority":
		return "Priority must be one of low, medium, high"
	case fieldErr.Tag() == "max":
		return "Field " + fieldErr.Field() + " is too long"
	default:
		return "Field " + fieldErr.Field() + " is invalid"
	}
}

func parseTaskID(r *http.Request) (int64, error) {
	idParam := chi.URLParam(r, "id")
	if idParam == "" {
		idParam = r.PathValue("id")
	}

	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("id должен быть положительным")
	}
	return id, nil
}
