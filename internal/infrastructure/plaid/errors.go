package plaid

import "fmt"

// Error is a failed aggregator call. Type, Code and Message come from the
// provider's error body when one could be decoded.
type Error struct {
	StatusCode int    `json:"-"`
	Type       string `json:"error_type"`
	Code       string `json:"error_code"`
	Message    string `json:"error_message"`
	RequestID  string `json:"request_id"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("plaid error (status %d): %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("plaid error (status %d): %s", e.StatusCode, e.Message)
}
