// Package calc evaluates arithmetic typed into the launcher.
package calc

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"

	apperrors "qlaunch/internal/infrastructure/errors"
)

const op = "CalculateExpression"

var constants = map[string]any{
	"pi": math.Pi,
	"e":  math.E,
}

func unary(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
		}
		x, ok := toFloat(params[0])
		if !ok {
			return nil, fmt.Errorf("%s expects a number, got %T", name, params[0])
		}
		return fn(x), nil
	})
}

var functions = []expr.Option{
	unary("sqrt", math.Sqrt),
	unary("sin", math.Sin),
	unary("cos", math.Cos),
	unary("tan", math.Tan),
	unary("ln", math.Log),
	unary("log", math.Log10),
	unary("exp", math.Exp),
}

// Evaluate computes expression and returns a finite number. Supports
// + - * / % ^ **, parentheses, sqrt sin cos tan ln log exp, the expr
// builtins such as floor ceil round abs, and the constants pi and e.
func Evaluate(expression string) (float64, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return 0, apperrors.HandleValidationError(op, "expression", expression, "expression is empty")
	}

	opts := append([]expr.Option{expr.Env(constants)}, functions...)
	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return 0, apperrors.NewWithContext(op, fmt.Errorf("invalid expression: %w", err), apperrors.ErrCodeParse,
			map[string]string{"expression": expression})
	}

	out, err := expr.Run(program, constants)
	if err != nil {
		return 0, apperrors.NewWithContext(op, fmt.Errorf("evaluation failed: %w", err), apperrors.ErrCodeValidation,
			map[string]string{"expression": expression})
	}

	result, ok := toFloat(out)
	if !ok {
		return 0, apperrors.HandleValidationError(op, "expression", expression,
			fmt.Sprintf("expression did not produce a number (got %T)", out))
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, apperrors.HandleValidationError(op, "expression", expression, "result is not a finite number")
	}
	return result, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
