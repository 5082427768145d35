package errors

import "errors"

// Stable integer codes exposed across the C boundary. The boolean result
// of a boundary call says only pass/fail; these codes preserve the
// distinctions a host actually needs. Values are part of the ABI contract
// and must never be renumbered.
const (
	CodeNone      = 0
	CodeAuth      = 1
	CodeSession   = 2
	CodeNetwork   = 3
	CodeNotFound  = 4
	CodeTransient = 5
	CodeBackend   = 6
	CodeArgument  = 7
	CodeState     = 8
	CodeUnknown   = 9
)

var typeCodes = map[ErrorType]int{
	ErrorTypeAuth:      CodeAuth,
	ErrorTypeSession:   CodeSession,
	ErrorTypeNetwork:   CodeNetwork,
	ErrorTypeNotFound:  CodeNotFound,
	ErrorTypeTransient: CodeTransient,
	ErrorTypeBackend:   CodeBackend,
	ErrorTypeArgument:  CodeArgument,
	ErrorTypeState:     CodeState,
}

// BoundaryCode maps an internal error to its stable boundary code.
// A nil error maps to CodeNone; errors outside the taxonomy map to
// CodeUnknown rather than leaking through as zero.
func BoundaryCode(err error) int {
	if err == nil {
		return CodeNone
	}
	var typed *Error
	if errors.As(err, &typed) {
		if code, ok := typeCodes[typed.Type]; ok {
			return code
		}
	}
	return CodeUnknown
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown for untyped errors.
func TypeOf(err error) ErrorType {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Type
	}
	return ErrorTypeUnknown
}
