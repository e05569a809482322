// Package session drives login, jurisdiction connect/disconnect, and logout
// against the records portal: a small state machine around the portal's
// "connected jurisdiction" concept.
package session

import "fmt"

// LoginError represents a failed login. It is fatal for the run.
type LoginError struct {
	Message string
	Cause   error
}

func (e *LoginError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("login error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("login error: %s", e.Message)
}

func (e *LoginError) Unwrap() error {
	return e.Cause
}

// ConnectError represents a failure to connect a jurisdiction after the
// bounded retry budget was spent.
type ConnectError struct {
	Jurisdiction string
	Attempts     int
	Cause        error
}

func (e *ConnectError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connect error: %s after %d attempts: %v", e.Jurisdiction, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("connect error: %s after %d attempts", e.Jurisdiction, e.Attempts)
}

func (e *ConnectError) Unwrap() error {
	return e.Cause
}
