package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected string
	}{
		{ErrCodeUnsupported, "UNSUPPORTED"},
		{ErrCodeValidation, "VALIDATION"},
		{ErrCodeCommandFailed, "COMMAND_FAILED"},
		{ErrCodeNotFound, "NOT_FOUND"},
		{ErrCodeNetwork, "NETWORK"},
		{ErrCodeBusy, "BUSY"},
		{ErrCodeSchema, "SCHEMA"},
		{ErrCodeUnknown, "UNKNOWN"},
		{ErrorCode(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.code.String(); got != tt.expected {
				t.Errorf("ErrorCode.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "message only",
			err:      &AppError{Err: errors.New("boom")},
			expected: "boom",
		},
		{
			name:     "op and code",
			err:      &AppError{Op: "SetVolume", Err: errors.New("boom"), Code: ErrCodeCommandFailed},
			expected: "boom [op=SetVolume code=COMMAND_FAILED]",
		},
		{
			name: "context is sorted",
			err: &AppError{
				Op:      "LaunchApp",
				Err:     errors.New("boom"),
				Code:    ErrCodeCommandFailed,
				Context: map[string]string{"tool": "open", "app": "Safari"},
			},
			expected: "boom [op=LaunchApp code=COMMAND_FAILED app=Safari tool=open]",
		},
		{
			name:     "retryable flag",
			err:      &AppError{Err: errors.New("locked"), Code: ErrCodeBusy, Retryable: true},
			expected: "locked [code=BUSY retryable=true]",
		},
		{
			name:     "no underlying error",
			err:      &AppError{Op: "x"},
			expected: "app error [op=x]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_NilReceiver(t *testing.T) {
	var e *AppError

	if e.Error() != "app error" {
		t.Errorf("nil Error() = %q", e.Error())
	}
	if e.Unwrap() != nil {
		t.Error("nil Unwrap() should be nil")
	}
	if e.IsRetryable() {
		t.Error("nil IsRetryable() should be false")
	}
	if e.GetCode() != "UNKNOWN" {
		t.Errorf("nil GetCode() = %q", e.GetCode())
	}
	if e.GetContext() == nil {
		t.Error("nil GetContext() should return an empty map")
	}
	if !e.GetTimestamp().IsZero() {
		t.Error("nil GetTimestamp() should be zero")
	}
}

func TestAppError_Is(t *testing.T) {
	notFound1 := &AppError{Code: ErrCodeNotFound}
	notFound2 := &AppError{Code: ErrCodeNotFound}
	validation := &AppError{Code: ErrCodeValidation}

	if !errors.Is(notFound1, notFound2) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(notFound1, validation) {
		t.Error("errors with different codes should not match")
	}

	inner := errors.New("inner")
	wrapped := &AppError{Code: ErrCodeNetwork, Err: inner}
	if !errors.Is(wrapped, inner) {
		t.Error("AppError should match its wrapped error")
	}
	if errors.Is(wrapped, errors.New("inner")) {
		t.Error("AppError should not match a different error with the same text")
	}
}

func TestNew_Retryability(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		err       error
		retryable bool
	}{
		{ErrCodeConnection, nil, true},
		{ErrCodeBusy, nil, true},
		{ErrCodeNetwork, nil, true},
		{ErrCodeValidation, nil, false},
		{ErrCodeDiskSpace, nil, false},
		{ErrCodeCommandFailed, errors.New("resource busy"), false},
		{ErrCodeUnknown, errors.New("temporary failure"), true},
		{ErrCodeUnknown, errors.New("database is locked"), true},
		{ErrCodeUnknown, errors.New("bad input"), false},
		{ErrCodeUnknown, nil, false},
	}

	for _, tt := range tests {
		name := tt.code.String()
		if tt.err != nil {
			name += "/" + tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			if got := New("op", tt.err, tt.code).Retryable; got != tt.retryable {
				t.Errorf("Retryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestNewWithContext_ClonesContext(t *testing.T) {
	ctx := map[string]string{"tool": "pactl"}
	err := NewWithContext("SetVolume", errors.New("boom"), ErrCodeCommandFailed, ctx)

	ctx["tool"] = "changed"
	ctx["extra"] = "value"

	if err.Context["tool"] != "pactl" {
		t.Errorf("context was not cloned, got tool=%q", err.Context["tool"])
	}
	if _, ok := err.Context["extra"]; ok {
		t.Error("context picked up a key added after construction")
	}
}

func TestNewWithContext_NilContext(t *testing.T) {
	err := NewWithContext("op", errors.New("boom"), ErrCodeInternal, nil)
	if err.Context == nil {
		t.Fatal("Context should never be nil")
	}
	err.WithContext("k", "v")
	if err.Context["k"] != "v" {
		t.Error("WithContext did not add the key")
	}
}

func TestMessage(t *testing.T) {
	err := HandleValidationError("SetVolume", "volume", "150", "Volume must be between 0 and 100")

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Message() != "Volume must be between 0 and 100" {
		t.Errorf("Message() = %q", appErr.Message())
	}
	if !strings.Contains(err.Error(), "field=volume") {
		t.Errorf("Error() should include context, got %q", err.Error())
	}
}

func TestClassifiers(t *testing.T) {
	wrapped := func(code ErrorCode) error {
		return errors.Join(errors.New("outer"), New("op", errors.New("x"), code))
	}

	checks := []struct {
		name string
		fn   func(error) bool
		code ErrorCode
	}{
		{"IsUnsupported", IsUnsupported, ErrCodeUnsupported},
		{"IsValidation", IsValidation, ErrCodeValidation},
		{"IsCommandFailed", IsCommandFailed, ErrCodeCommandFailed},
		{"IsNotFound", IsNotFound, ErrCodeNotFound},
		{"IsNetwork", IsNetwork, ErrCodeNetwork},
		{"IsTimeout", IsTimeout, ErrCodeTimeout},
		{"IsConnection", IsConnection, ErrCodeConnection},
		{"IsPermission", IsPermission, ErrCodePermission},
		{"IsDuplicate", IsDuplicate, ErrCodeDuplicate},
		{"IsSchema", IsSchema, ErrCodeSchema},
	}

	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if !c.fn(wrapped(c.code)) {
				t.Errorf("%s should match code %s", c.name, c.code)
			}
			if c.fn(errors.New("plain")) {
				t.Errorf("%s should not match a plain error", c.name)
			}
			if c.fn(nil) {
				t.Errorf("%s should not match nil", c.name)
			}
		})
	}

	if CodeOf(wrapped(ErrCodeParse)) != ErrCodeParse {
		t.Error("CodeOf should find the wrapped code")
	}
	if CodeOf(errors.New("plain")) != ErrCodeUnknown {
		t.Error("CodeOf on a plain error should be UNKNOWN")
	}
}
