package domain

import "errors"

type ErrorCode string

const (
	Forbidden           ErrorCode = "FORBIDDEN"
	NotFound            ErrorCode = "NOT_FOUND"
	InternalServerError ErrorCode = "INTERNAL_SERVER_ERROR"
)

// AppError is a business error raised with a fixed message. Everything else
// is a collaborator failure and travels unmodified.
type AppError struct {
	Code    ErrorCode
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Extensions is picked up by the GraphQL executor and rendered under
// errors[].extensions.
func (e *AppError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Code)}
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

var (
	ErrNotAuthorized      = NewAppError(Forbidden, "Not Authorised!")
	ErrTransactionMissing = NewAppError(NotFound, "Transaction is missing")
)

// CodeOf returns the code of an AppError anywhere in err's chain.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return InternalServerError
}
