package dto

import "time"

// APIResponse is the envelope for every successful response
type APIResponse struct {
	Code      int         `json:"code" example:"0"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2020-08-20T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in the success envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Code:      0,
		Data:      data,
		Timestamp: time.Now(),
	}
}
