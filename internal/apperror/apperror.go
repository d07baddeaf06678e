package apperror

import (
	"errors"
	"fmt"
)

// Базовые ошибки приложения. Сервисы и слой БД возвращают их обернутыми
// в AppError, HTTP-слой переводит в статус-коды в одном месте.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// AppError представляет ошибку приложения с сообщением для клиента
type AppError struct {
	Err     error  // базовая ошибка из списка выше
	Message string // сообщение, которое увидит клиент
	Field   string // опционально: поле, вызвавшее ошибку
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed возвращает ошибку валидации входных данных
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized возвращает ошибку отсутствия или недействительности авторизации
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden возвращает ошибку нехватки прав на операцию
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// NotFound возвращает ошибку отсутствия ресурса
func NotFound(resource string, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s не найден: %s", resource, id),
	}
}

// Conflict возвращает ошибку конфликта состояния (дубликат, решенный оффер)
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}
