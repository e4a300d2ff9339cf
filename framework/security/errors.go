package security

import "net/http"

// AuthorizationError rejects a request to a secured route.
type AuthorizationError struct {
	Message string
	Err     error
}

func (e *AuthorizationError) Error() string   { return e.Message }
func (e *AuthorizationError) Unwrap() error   { return e.Err }
func (e *AuthorizationError) StatusCode() int { return http.StatusUnauthorized }

// TooManyRequestsError is returned when a client exhausts its request budget.
type TooManyRequestsError struct {
	Client string
}

func (e *TooManyRequestsError) Error() string   { return "too many requests" }
func (e *TooManyRequestsError) StatusCode() int { return http.StatusTooManyRequests }
