// Package apperr содержит типизированные ошибки предметной области.
// Резолверы возвращают их как есть, а слой GraphQL превращает Kind в extensions.code.
package apperr

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Code значение для extensions.code в ответе GraphQL
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is сравнивает ошибки по виду и сообщению, чтобы errors.Is работал и с копиями
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

var (
	ErrEmailTaken         = Validation("Email taken")
	ErrUserNotFound       = NotFound("User not found")
	ErrUserOrPostNotFound = Validation("Unable to find user and post")
	ErrPostNotFound       = NotFound("Post not found")
	ErrAgeOutOfRange      = Validation("Age out of range")
)

// KindOf возвращает вид ошибки, просматривая всю цепочку обёрток
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
