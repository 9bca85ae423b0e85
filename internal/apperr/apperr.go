// Package apperr определяет единый тип ошибки с дискриминантом Kind.
// Ошибки конструируются на границе сервисов один раз, обработчики HTTP
// отображают Kind в статус ответа, не разбирая текст ошибки.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind классифицирует ошибку для отображения в HTTP-статус.
type Kind string

const (
	// KindUnauthenticated — запрос без валидного access-токена.
	KindUnauthenticated Kind = "unauthenticated"
	// KindNoActiveSubscription — у владельца нет активной подписки.
	KindNoActiveSubscription Kind = "no_active_subscription"
	// KindNotFound — запрошенная сущность не существует.
	KindNotFound Kind = "not_found"
	// KindProviderFailure — отказ внешнего провайдера (хранилище и т.п.).
	KindProviderFailure Kind = "provider_failure"
	// KindValidation — некорректные входные данные.
	KindValidation Kind = "validation"
	// KindInternal — прочие ошибки сервера.
	KindInternal Kind = "internal"
)

// Error — ошибка прикладного уровня с видом и пользовательским сообщением.
// Msg безопасно отдавать клиенту; завернутая ошибка остается для логов.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New создает ошибку указанного вида с сообщением для клиента.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap заворачивает исходную ошибку, сохраняя её для логов.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf возвращает вид ошибки или KindInternal, если ошибка не *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message возвращает сообщение для клиента. Для неклассифицированных
// ошибок возвращается обобщенный текст, детали провайдера не утекают.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus отображает вид ошибки в статус ответа.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNoActiveSubscription:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindProviderFailure:
		return http.StatusBadGateway
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
