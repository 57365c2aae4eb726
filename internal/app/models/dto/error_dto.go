package dto

import "time"

// ErrorResponse is the envelope for every failed request. Clients branch on
// Code; Message is a localized string for display.
type ErrorResponse struct {
	Code      int         `json:"code" example:"18"`
	Message   string      `json:"message" example:"无匹配的新生数据"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2020-08-20T12:01:05.123Z"`
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithDetails adds additional details to the error
func (e *ErrorResponse) WithDetails(details interface{}) *ErrorResponse {
	e.Details = details
	return e
}
