package apperrors

import (
	"errors"
	"net/http"
)

// Generic errors. These carry no wire code of their own; the API error
// handler maps them onto the generic codes below.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")

	// ErrStoreUnavailable marks store failures caused by the pool's statement timeout.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Generic wire codes.
const (
	CodeOK               = 0
	CodeInternal         = 1
	CodeInvalidParameter = 2
	CodePermissionDenied = 4
)

// CodedError is a domain error with a stable numeric code that clients branch on.
// Message is a localized, human-readable string and is not meant for matching.
type CodedError struct {
	Code    int
	Status  int
	Message string
}

// Error implements error interface
func (e *CodedError) Error() string {
	return e.Message
}

// NewCodedError creates a CodedError
func NewCodedError(code, status int, message string) *CodedError {
	return &CodedError{Code: code, Status: status, Message: message}
}

// Account errors
var (
	ErrNoSuchAccount   = NewCodedError(18, http.StatusNotFound, "无匹配的新生数据")
	ErrAccountMismatch = NewCodedError(19, http.StatusForbidden, "账户不匹配")
	ErrAlreadyBound    = NewCodedError(20, http.StatusConflict, "已绑定")
	ErrUnauthenticated = NewCodedError(21, http.StatusUnauthorized, "未登录")
	ErrSecretRequired  = NewCodedError(22, http.StatusBadRequest, "需要凭据")

	// ErrSecretMismatch is reported to callers as ErrNoSuchAccount so that a
	// wrong secret never confirms that an account exists.
	ErrSecretMismatch = NewCustomError(ErrNoSuchAccount, "secret mismatch")
)

// Approval errors
var (
	ErrNoSuchApprovalRecord = NewCodedError(1001, http.StatusNotFound, "无审核记录或个人信息填写错误")
	ErrIdentityNeeded       = NewCodedError(1003, http.StatusForbidden, "需要先实名认证")
)

// AsCoded extracts the CodedError carried by err, if any.
func AsCoded(err error) (*CodedError, bool) {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded, true
	}
	return nil, false
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
