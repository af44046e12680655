package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "qlaunch/internal/infrastructure/errors"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expression string
		want       float64
	}{
		{"1 + 2", 3},
		{"2 * (3 + 4)", 14},
		{"7 / 2", 3.5},
		{"10 % 4", 2},
		{"2 ^ 10", 1024},
		{"2 ** 3", 8},
		{"-5 + 2", -3},
		{"sqrt(16)", 4},
		{"sqrt(2) * sqrt(2)", 2},
		{"ln(e)", 1},
		{"log(1000)", 3},
		{"exp(0)", 1},
		{"sin(0) + cos(0)", 1},
		{"tan(pi / 4)", 1},
		{"pi", math.Pi},
		{"  42  ", 42},
		{"1.5 * 4", 6},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			got, err := Evaluate(tt.expression)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		check      func(error) bool
	}{
		{"empty", "   ", apperrors.IsValidation},
		{"syntax", "2 +* 3", func(err error) bool { return apperrors.HasCode(err, apperrors.ErrCodeParse) }},
		{"unknown name", "foo + 1", func(err error) bool { return apperrors.HasCode(err, apperrors.ErrCodeParse) }},
		{"not a number", "1 < 2", apperrors.IsValidation},
		{"string", `"abc"`, apperrors.IsValidation},
		{"infinite", "1 / 0", apperrors.IsValidation},
		{"nan", "sqrt(-1)", apperrors.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.expression)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error class: %v", err)
		})
	}
}
