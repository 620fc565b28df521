/*
Package response - unified API response handling.

Design rules:
1. HTTP status mapping lives in the API layer only; domain and application
   layers never see status codes
2. Error responses expose a stable error code and a user-facing message,
   never internal details or stacks
3. Every response carries the request ID for log correlation
4. Internal errors always return "internal server error"; the real cause
   goes to the log only
*/
package response

import "github.com/dschaly/developer-store-sales-api-sub000/domain/shared"

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// Response Unified response envelope.
type Response struct {
	Success   bool               `json:"success"`
	Data      interface{}        `json:"data,omitempty"`
	Error     string             `json:"error,omitempty"` // stable error code, not details
	Code      int                `json:"code"`            // HTTP status
	Message   string             `json:"message"`
	Details   []shared.Violation `json:"details,omitempty"` // field-level validation failures
	RequestID string             `json:"request_id,omitempty"`
}

// PaginatedResponse Paginated listing envelope.
type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
	Message    string      `json:"message"`
	Code       int         `json:"code"`
	RequestID  string      `json:"request_id,omitempty"`
}

// Pagination Paging info.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}
