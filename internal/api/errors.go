package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrUnauthorized = errors.New("unauthorized")

// Error representa una respuesta no-2xx del backend.
type Error struct {
	Method string
	Path   string
	Status int
	Body   ErrorBody
}

func (e *Error) Error() string {
	if d := e.Body.Detail(); d != "" {
		return fmt.Sprintf("api %s %s: status=%d: %s", e.Method, e.Path, e.Status, d)
	}
	return fmt.Sprintf("api %s %s: status=%d", e.Method, e.Path, e.Status)
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// ErrorBody es el cuerpo de error estilo DRF: {"detail": "..."} o {"campo": ["msg", ...]}.
type ErrorBody map[string]json.RawMessage

func decodeErrorBody(raw []byte) ErrorBody {
	var body ErrorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	return body
}

func (b ErrorBody) Has(field string) bool {
	_, ok := b[field]
	return ok
}

func (b ErrorBody) Detail() string {
	msg, _ := b.First("detail")
	return msg
}

// First devuelve el primer mensaje de un campo, aceptando string o lista de strings.
func (b ErrorBody) First(field string) (string, bool) {
	raw, ok := b[field]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
		return "", false
	}
	if err := json.Unmarshal(list[0], &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

type Kind int

const (
	KindGeneric Kind = iota
	KindValidation
	KindAuth
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	default:
		return "generic"
	}
}

// Classify mapea un error de llamada a la taxonomía de errores del cliente.
func Classify(err error) Kind {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return KindGeneric
	}
	switch {
	case apiErr.Status == http.StatusUnauthorized:
		return KindAuth
	case apiErr.Status == http.StatusNotFound:
		return KindNotFound
	case apiErr.Status >= 400 && apiErr.Status < 500:
		return KindValidation
	default:
		return KindGeneric
	}
}

// Message extrae el mensaje más específico del cuerpo de error: detail,
// non_field_errors[0] y luego los campos indicados, en ese orden.
func Message(err error, fallback string, fields ...string) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Body == nil {
		return fallback
	}
	order := append([]string{"detail", "non_field_errors"}, fields...)
	for _, field := range order {
		if msg, ok := apiErr.Body.First(field); ok {
			return msg
		}
	}
	return fallback
}

// FieldMessage es como Message pero sólo mira los campos indicados (formularios de cuenta).
func FieldMessage(err error, fallback string, fields ...string) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Body == nil {
		return fallback
	}
	for _, field := range fields {
		if msg, ok := apiErr.Body.First(field); ok {
			return msg
		}
	}
	return fallback
}

// FieldError devuelve true si el error es un 400 que menciona el campo dado.
func FieldError(err error, field string) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusBadRequest && apiErr.Body.Has(field)
}
