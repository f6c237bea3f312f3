package model

import "fmt"

// ConnectionError indicates the channel transport could not be opened, or an
// established connection failed. Non-fatal: the session stays (or becomes)
// disconnected and the caller may retry.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// HTTPError indicates a history API call returned a non-success status.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("history request %s failed with status %d", e.URL, e.Status)
}

// ValidationError indicates a rejected local operation, such as sending
// empty text or sending with no active conversation. Never emitted to the
// transport.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason
}
