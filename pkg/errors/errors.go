package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrSessionNotFound    = fmt.Errorf("сессия не найдена или истекла")
	ErrPermissionDenied   = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrSessionNotFoundInContext = fmt.Errorf("сессия не найдена в контексте запроса")

	// Запись в таблицу
	ErrWriteUnconfirmed  = fmt.Errorf("запись отправлена, результат неизвестен")
	ErrDuplicateSubmit   = fmt.Errorf("повторная отправка с тем же ключом идемпотентности")
	ErrSequenceExhausted = fmt.Errorf("не удалось зарезервировать номер")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
	ErrInternal   = fmt.Errorf("внутренняя ошибка сервера")
)

// NetworkError - сбой транспорта или не-2xx ответ при чтении листа.
type NetworkError struct {
	Sheet      string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("лист '%s': сервер вернул статус %d", e.Sheet, e.StatusCode)
	}
	return fmt.Sprintf("лист '%s': ошибка сети: %v", e.Sheet, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError - конверт не найден, JSON не разобран или лист не совпал со схемой.
type ParseError struct {
	Sheet  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("лист '%s': %s: %v", e.Sheet, e.Reason, e.Err)
	}
	return fmt.Sprintf("лист '%s': %s", e.Sheet, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError собирает ошибки полей формы. До сети не доходит.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ошибка валидации: %d поле(й)", len(e.Fields))
}

func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// HttpError - ошибка, готовая к отдаче клиенту.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details any
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details any) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func NewBadRequestError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, ErrBadRequest, nil)
}

// MapToHttp переводит доменную ошибку в HttpError.
func MapToHttp(err error) *HttpError {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return NewHttpError(http.StatusBadRequest, "Проверьте заполнение формы", err, validationErr.Fields)
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return NewHttpError(http.StatusBadGateway, "Таблица недоступна", err, nil)
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return NewHttpError(http.StatusBadGateway, "Не удалось разобрать ответ таблицы", err, nil)
	}

	switch {
	case errors.Is(err, ErrEmptyAuthHeader), errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionNotFoundInContext):
		return NewHttpError(http.StatusUnauthorized, err.Error(), err, nil)
	case errors.Is(err, ErrPermissionDenied):
		return NewHttpError(http.StatusForbidden, err.Error(), err, nil)
	case errors.Is(err, ErrNotFound):
		return NewHttpError(http.StatusNotFound, err.Error(), err, nil)
	case errors.Is(err, ErrBadRequest):
		return NewHttpError(http.StatusBadRequest, err.Error(), err, nil)
	case errors.Is(err, ErrDuplicateSubmit), errors.Is(err, ErrSequenceExhausted):
		return NewHttpError(http.StatusConflict, err.Error(), err, nil)
	}

	return NewHttpError(http.StatusInternalServerError, ErrInternal.Error(), err, nil)
}
