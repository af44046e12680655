package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrorCode classifies an AppError
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeUnsupported
	ErrCodeValidation
	ErrCodeCommandFailed
	ErrCodeNotFound
	ErrCodeNetwork
	ErrCodeParse
	ErrCodeConnection
	ErrCodeTimeout
	ErrCodeBusy
	ErrCodeTransaction
	ErrCodePermission
	ErrCodeDuplicate
	ErrCodeConstraint
	ErrCodeDiskSpace
	ErrCodeCorruption
	ErrCodeSchema
	ErrCodeInternal
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnsupported:   "UNSUPPORTED",
	ErrCodeValidation:    "VALIDATION",
	ErrCodeCommandFailed: "COMMAND_FAILED",
	ErrCodeNotFound:      "NOT_FOUND",
	ErrCodeNetwork:       "NETWORK",
	ErrCodeParse:         "PARSE",
	ErrCodeConnection:    "CONNECTION",
	ErrCodeTimeout:       "TIMEOUT",
	ErrCodeBusy:          "BUSY",
	ErrCodeTransaction:   "TRANSACTION",
	ErrCodePermission:    "PERMISSION",
	ErrCodeDuplicate:     "DUPLICATE",
	ErrCodeConstraint:    "CONSTRAINT",
	ErrCodeDiskSpace:     "DISK_SPACE",
	ErrCodeCorruption:    "CORRUPTION",
	ErrCodeSchema:        "SCHEMA",
	ErrCodeInternal:      "INTERNAL",
}

// String returns the upper-case name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// retryableCodes lists the codes worth another attempt. Disk space and
// corruption need someone to act outside the process, so they stay out.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnection:  true,
	ErrCodeTimeout:     true,
	ErrCodeBusy:        true,
	ErrCodeTransaction: true,
	ErrCodeNetwork:     true,
}

// AppError is the error type returned by launcher commands and the storage layer
type AppError struct {
	Op        string            // operation name
	Err       error             // underlying error
	Code      ErrorCode         // error classification
	Retryable bool              // whether the error is retryable
	Context   map[string]string // additional context information
	Timestamp time.Time         // when the error occurred
}

// Error renders the underlying message followed by a bracketed, key-sorted
// context block, e.g. "exit status 1 [op=SetVolume code=COMMAND_FAILED tool=osascript]".
func (e *AppError) Error() string {
	if e == nil {
		return "app error"
	}

	msg := "app error"
	if e.Err != nil {
		msg = e.Err.Error()
	}

	var parts []string
	if e.Op != "" {
		parts = append(parts, "op="+e.Op)
	}
	if e.Code != ErrCodeUnknown {
		parts = append(parts, "code="+e.Code.String())
	}
	if e.Retryable {
		parts = append(parts, "retryable=true")
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
	}

	if len(parts) == 0 {
		return msg
	}
	return msg + " [" + strings.Join(parts, " ") + "]"
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches another *AppError by code, otherwise defers to the wrapped error
func (e *AppError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*AppError); ok {
		return e.Code == t.Code
	}
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// IsRetryable reports whether the operation may succeed if attempted again
func (e *AppError) IsRetryable() bool {
	return e != nil && e.Retryable
}

// GetCode returns the code name; it satisfies logging.CodedError
func (e *AppError) GetCode() string {
	if e == nil {
		return ErrCodeUnknown.String()
	}
	return e.Code.String()
}

// GetContext returns the error context, never nil
func (e *AppError) GetContext() map[string]string {
	if e == nil || e.Context == nil {
		return map[string]string{}
	}
	return e.Context
}

// GetTimestamp returns when the error was created
func (e *AppError) GetTimestamp() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.Timestamp
}

// Message returns the underlying message without the context block. The UI
// shows this text to the user.
func (e *AppError) Message() string {
	if e == nil || e.Err == nil {
		return "app error"
	}
	return e.Err.Error()
}

// WithContext adds a key to the receiver. Not safe once the error has been
// shared between goroutines.
func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// New creates an AppError
func New(op string, err error, code ErrorCode) *AppError {
	return &AppError{
		Op:        op,
		Err:       err,
		Code:      code,
		Retryable: isRetryableError(code, err),
		Context:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// NewWithContext creates an AppError carrying a copy of ctx
func NewWithContext(op string, err error, code ErrorCode, ctx map[string]string) *AppError {
	appErr := New(op, err, code)
	for k, v := range ctx {
		appErr.Context[k] = v
	}
	return appErr
}

// Newf creates an AppError from a formatted message
func Newf(op string, code ErrorCode, format string, args ...any) *AppError {
	return New(op, fmt.Errorf(format, args...), code)
}

func isRetryableError(code ErrorCode, err error) bool {
	if code != ErrCodeUnknown {
		return retryableCodes[code]
	}
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"temporary", "retry", "busy", "locked", "deadlock"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

// HasCode reports whether err wraps an AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the first AppError in err's chain
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeUnknown
}

// IsRetryable checks if err wraps a retryable AppError
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

func IsUnsupported(err error) bool   { return HasCode(err, ErrCodeUnsupported) }
func IsValidation(err error) bool    { return HasCode(err, ErrCodeValidation) }
func IsCommandFailed(err error) bool { return HasCode(err, ErrCodeCommandFailed) }
func IsNotFound(err error) bool      { return HasCode(err, ErrCodeNotFound) }
func IsNetwork(err error) bool       { return HasCode(err, ErrCodeNetwork) }
func IsTimeout(err error) bool       { return HasCode(err, ErrCodeTimeout) }
func IsConnection(err error) bool    { return HasCode(err, ErrCodeConnection) }
func IsPermission(err error) bool    { return HasCode(err, ErrCodePermission) }
func IsDuplicate(err error) bool     { return HasCode(err, ErrCodeDuplicate) }
func IsSchema(err error) bool        { return HasCode(err, ErrCodeSchema) }
