// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: успех, ошибка, ожидание
// готовности состояния, перенаправление и сообщения валидации.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
type Response struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Location string `json:"location,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// Значения поля Status.
const (
	// StatusOK — успешный ответ.
	StatusOK = "OK"
	// StatusError — ответ с ошибкой.
	StatusError = "Error"
	// StatusLoading — состояние ещё разрешается, запрос стоит повторить.
	StatusLoading = "Loading"
	// StatusRedirect — зритель перенаправлен guard'ом.
	StatusRedirect = "Redirect"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// Loading возвращает Response со статусом Loading.
func Loading() Response {
	return Response{Status: StatusLoading}
}

// Redirect возвращает Response со статусом Redirect и целевым адресом.
func Redirect(location string) Response {
	return Response{
		Status:   StatusRedirect,
		Location: location,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение превращается в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email address", err.Field()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
