// Package errmsg provides consistent error formatting for log and
// user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Panel operations
	OpPanelConfigure Op = "configure panel"
	OpPanelClose     Op = "close panel"

	// Buffer operations
	OpBufferCreate   Op = "create buffer"
	OpBufferSetLines Op = "write buffer lines"
	OpBufferAnnotate Op = "annotate buffer"
	OpBufferRelease  Op = "release buffer"

	// Render operations
	OpStyleDefine   Op = "define highlight"
	OpHistoryShow   Op = "show notification history"
	OpSurfaceCreate Op = "create group surface"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize notifications"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
