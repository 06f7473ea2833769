package cdp

import "fmt"

const (
	CodeNoActiveTab           = "NO_ACTIVE_TAB"
	CodeIncompleteTabInfo     = "INCOMPLETE_TAB_INFO"
	CodeClipboardWriteFailure = "CLIPBOARD_WRITE_FAILURE"
	CodeEvalFailure           = "EVAL_FAILURE"
	CodeEvalTimeout           = "EVAL_TIMEOUT"
	CodeCDPUnavailable        = "CDP_UNAVAILABLE"
)

// CodedError is a typed error used for stable API mapping.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

// NewError builds a CodedError. Shared by the action handler for its
// tab-validation and clipboard failure modes.
func NewError(code, msg string, cause error) error {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}
