package errors

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
)

// ClassifyError maps an arbitrary error onto an ErrorCode
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != ErrCodeUnknown {
		return appErr.Code
	}

	if code := classifySQLiteError(err); code != ErrCodeUnknown {
		return code
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, fs.ErrNotExist), errors.Is(err, exec.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrCodePermission
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrCodeTimeout
	case errors.As(err, &exitErr):
		return ErrCodeCommandFailed
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"):
		return ErrCodeDuplicate
	case strings.Contains(msg, "constraint"):
		return ErrCodeConstraint
	case strings.Contains(msg, "database is locked"):
		return ErrCodeBusy
	case strings.Contains(msg, "malformed"):
		return ErrCodeCorruption
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"):
		return ErrCodeSchema
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "access denied"):
		return ErrCodePermission
	case strings.Contains(msg, "no space left"), strings.Contains(msg, "disk full"):
		return ErrCodeDiskSpace
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"),
		strings.Contains(msg, "network unreachable"):
		return ErrCodeNetwork
	case strings.Contains(msg, "timeout"):
		return ErrCodeTimeout
	case strings.Contains(msg, "deadlock"):
		return ErrCodeTransaction
	default:
		return ErrCodeUnknown
	}
}

// Wrap classifies err and wraps it; nil stays nil
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return New(op, err, ClassifyError(err))
}

// WrapWithContext classifies err and wraps it with context; nil stays nil
func WrapWithContext(op string, err error, ctx map[string]string) error {
	if err == nil {
		return nil
	}
	return NewWithContext(op, err, ClassifyError(err), ctx)
}

// HandleValidationError builds a VALIDATION error whose message is reason
func HandleValidationError(op, field, value, reason string) error {
	return NewWithContext(op, errors.New(reason), ErrCodeValidation, map[string]string{
		"field": field,
		"value": value,
	})
}

// HandleConnectionError builds a CONNECTION error for the storage layer
func HandleConnectionError(op, details string) error {
	return NewWithContext(op, errors.New("connection error"), ErrCodeConnection, map[string]string{
		"details": details,
	})
}

// HandleUnsupported builds an UNSUPPORTED error for a missing capability
func HandleUnsupported(op, what string) error {
	return New(op, errors.New(what), ErrCodeUnsupported)
}

// HandleCommandError wraps a failed external command. stderr, when present,
// becomes part of the message.
func HandleCommandError(op, tool string, err error, stderr string) error {
	msg := "failed to run " + tool
	if stderr = strings.TrimSpace(stderr); stderr != "" {
		msg += ": " + stderr
	} else if err != nil {
		msg += ": " + err.Error()
	}
	code := ErrCodeCommandFailed
	if errors.Is(err, exec.ErrNotFound) {
		code = ErrCodeNotFound
	}
	return NewWithContext(op, errors.New(msg), code, map[string]string{"tool": tool})
}
