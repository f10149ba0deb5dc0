package httperr

import "errors"

type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindValidation    Kind = "validation"
	KindConflict      Kind = "conflict"
	KindState         Kind = "state"
	KindAuthorization Kind = "authorization"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

func newBusiness(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return newBusiness(KindNotFound, code, message)
}

func ErrValidation(code, message string) error {
	return newBusiness(KindValidation, code, message)
}

func ErrConflict(code, message string) error {
	return newBusiness(KindConflict, code, message)
}

func ErrState(code, message string) error {
	return newBusiness(KindState, code, message)
}

func ErrForbidden(code, message string) error {
	return newBusiness(KindAuthorization, code, message)
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return BusinessError{}, false
}

func IsBusiness(err error, code string) bool {
	if be, ok := AsBusiness(err); ok {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	if be, ok := AsBusiness(err); ok {
		return be.Kind == kind
	}
	return false
}
