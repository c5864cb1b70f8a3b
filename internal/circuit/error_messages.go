// Package circuit provides the business logic for circuit record management.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. When users encounter errors, they can quote the error code
// for faster diagnosis.
//
// Error codes are grouped by category:
//
//	AUTH001 - Invalid credentials: Invalid username or password
//	AUTH002 - Invalid session: Your session is invalid or has expired
//	CIR001  - Not found: No circuit matches that ID
//	CIR002  - Duplicate: A circuit with this ID is already registered
//	CIR003  - Immutable field: The circuit ID cannot be changed after registration
//	CIR004  - Server field: The last-updated timestamp is set automatically
//	CIR005  - Unknown field: The request contains a field circuits do not have
//	VAL001  - Required field: A required field was left blank
//	VAL002  - Bad address: An IP field is not a valid dotted-quad address
//	VAL003  - Octet range: An IP octet is outside 0-255
//	VAL004  - Bad VLAN: The VLAN tag is outside 1-4094
//	VAL005  - Bad bandwidth: The bandwidth is missing a Kbps/Mbps/Gbps unit
//	VAL006  - Too short: A field value is shorter than its minimum length
//	REQ001  - Cancelled: The request was cancelled
//	REQ002  - Timeout: The request timed out
//	RATE001 - Rate limited: Too many requests
//	ERR000  - Unknown error (fallback; check server logs)
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so specific patterns come before general ones.
package circuit

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. First match wins: keep specific patterns before general ones.
var errorPatterns = []errorPattern{
	// Authentication
	{
		pattern: "invalid credentials",
		msg: UserMessage{
			Message: "Invalid username or password",
			Action:  "Check your credentials and try again",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "invalid or expired session",
		msg: UserMessage{
			Message: "Your session is invalid or has expired",
			Action:  "Log in again to continue",
			Code:    "AUTH002",
		},
	},

	// Circuit records
	{
		pattern: "not found",
		msg: UserMessage{
			Message: "No circuit matches that ID",
			Action:  "Check the circuit ID and search again",
			Code:    "CIR001",
		},
	},
	{
		pattern: "already exists",
		msg: UserMessage{
			Message: "A circuit with this ID is already registered",
			Action:  "Look up the existing record or pick a different ID",
			Code:    "CIR002",
		},
	},
	{
		pattern: "cannot be changed",
		msg: UserMessage{
			Message: "The circuit ID cannot be changed after registration",
			Action:  "Register a new circuit if the ID is wrong",
			Code:    "CIR003",
		},
	},
	{
		pattern: "set by the server",
		msg: UserMessage{
			Message: "The last-updated timestamp is set automatically",
			Action:  "Remove the field from your request",
			Code:    "CIR004",
		},
	},
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "The request contains a field circuits do not have",
			Action:  "Remove the unrecognized field and retry",
			Code:    "CIR005",
		},
	},

	// Field validation. More specific rule text before the generic
	// length rule, which also contains "must be".
	{
		pattern: "is required",
		msg: UserMessage{
			Message: "A required field was left blank",
			Action:  "Fill in every field before submitting",
			Code:    "VAL001",
		},
	},
	{
		pattern: "dotted-quad",
		msg: UserMessage{
			Message: "An IP field is not a valid dotted-quad address",
			Action:  "Use four dot-separated numbers, e.g. 192.168.1.10",
			Code:    "VAL002",
		},
	},
	{
		pattern: "octets must be",
		msg: UserMessage{
			Message: "An IP octet is outside the 0-255 range",
			Action:  "Keep every dotted-quad group at 255 or less",
			Code:    "VAL003",
		},
	},
	{
		pattern: "between 1 and 4094",
		msg: UserMessage{
			Message: "The VLAN tag must be between 1 and 4094",
			Action:  "Enter a whole number in the valid VLAN range",
			Code:    "VAL004",
		},
	},
	{
		pattern: "kbps, mbps or gbps",
		msg: UserMessage{
			Message: "The bandwidth needs a unit of Kbps, Mbps or Gbps",
			Action:  "Write the bandwidth like \"100 Mbps\"",
			Code:    "VAL005",
		},
	},
	{
		pattern: "at least",
		msg: UserMessage{
			Message: "A field value is too short",
			Action:  "Check the minimum length shown next to the field",
			Code:    "VAL006",
		},
	},
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "Some fields are invalid",
			Action:  "Fix the highlighted fields and submit again",
			Code:    "VAL000",
		},
	},

	// Request lifecycle
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Please try again in a moment",
			Code:    "REQ002",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Check the server logs for the original technical error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match, or the ERR000 fallback when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error matches a known pattern and can be
// shown to users as-is; ERR000 fallbacks should be logged instead.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error stays available for logging via Unwrap.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps a technical error to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
