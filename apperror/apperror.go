package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies every failure that leaves an operation boundary
type Kind int

const (
	KindServer Kind = iota
	KindFieldValidation
	KindInvalidAuthorization
	KindNotFound
	KindConflict
	KindDatabase
)

// genericMessage is the only text callers ever see for Database and Server failures
const genericMessage = "Something went wrong, please try again later"

var kindNames = map[Kind]string{
	KindServer:               "SERVER_EXCEPTION",
	KindFieldValidation:      "FIELD_VALIDATION_EXCEPTION",
	KindInvalidAuthorization: "INVALID_AUTHORIZATION_EXCEPTION",
	KindNotFound:             "NOT_FOUND_EXCEPTION",
	KindConflict:             "USER_EXCEPTION",
	KindDatabase:             "DATABASE_EXCEPTION",
}

var kindStatus = map[Kind]int{
	KindServer:               http.StatusInternalServerError,
	KindFieldValidation:      http.StatusUnprocessableEntity,
	KindInvalidAuthorization: http.StatusUnauthorized,
	KindNotFound:             http.StatusNotFound,
	KindConflict:             http.StatusBadRequest,
	KindDatabase:             http.StatusInternalServerError,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindServer]
}

// Error is the normalized failure type returned by every core operation
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns the explicit status if set, otherwise the kind's default
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	return kindStatus[e.Kind]
}

// PublicMessage hides internal details for Database and Server kinds
func (e *Error) PublicMessage() string {
	switch e.Kind {
	case KindDatabase, KindServer:
		return genericMessage
	}
	return e.Message
}

// WithStatus returns a copy carrying an explicit HTTP status
func (e *Error) WithStatus(status int) *Error {
	cp := *e
	cp.Status = status
	return &cp
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func FieldValidation(msg string) *Error { return newError(KindFieldValidation, msg, nil) }

func InvalidAuthorization(msg string) *Error {
	return newError(KindInvalidAuthorization, msg, nil)
}

func NotFound(msg string) *Error { return newError(KindNotFound, msg, nil) }

func Conflict(msg string) *Error { return newError(KindConflict, msg, nil) }

func Database(msg string, err error) *Error { return newError(KindDatabase, msg, err) }

func Server(msg string, err error) *Error { return newError(KindServer, msg, err) }

// From normalizes any error into *Error. Unknown errors become ServerError.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Server("unexpected failure", err)
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
