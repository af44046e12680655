package platform

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/infrastructure/logging"
	"qlaunch/internal/types"
)

// Runner executes an external command and returns its stdout
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Run executes name with args. A non-zero exit becomes a COMMAND_FAILED
// error carrying stderr; a missing binary becomes NOT_FOUND.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), apperrors.HandleCommandError("run", name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// base holds what every implementation shares
type base struct {
	runner Runner
	logger logging.Logger
}

// run executes a tool on behalf of op and tags failures with op
func (b base) run(ctx context.Context, op, tool string, args ...string) ([]byte, error) {
	start := time.Now()
	out, err := b.runner.Run(ctx, tool, args...)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			err = apperrors.NewWithContext(op, appErr.Err, appErr.Code, appErr.Context)
		} else {
			err = apperrors.HandleCommandError(op, tool, err, "")
		}
		logging.LogError(b.logger, err, op, map[string]interface{}{"tool": tool})
		return out, err
	}
	logging.LogOperation(b.logger, op, time.Since(start), map[string]interface{}{"tool": tool})
	return out, nil
}

func (b base) exec(ctx context.Context, op, tool string, args ...string) error {
	_, err := b.run(ctx, op, tool, args...)
	return err
}

func checkLevel(op, field string, level int) error {
	if level < 0 || level > 100 {
		reason := "Volume must be between 0 and 100"
		if field == "brightness" {
			reason = "Brightness must be between 0 and 100"
		}
		return apperrors.HandleValidationError(op, field, strconv.Itoa(level), reason)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func launched(name string) string {
	return "Launched " + name
}

// scanAppDirs lists entries of dirs with the given extension. Unreadable
// directories are skipped and duplicate paths are dropped.
func scanAppDirs(dirs []string, ext string) []types.AppInfo {
	var apps []types.AppInfo
	seen := make(map[string]bool)

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !strings.EqualFold(filepath.Ext(name), ext) {
				continue
			}
			path := filepath.Join(dir, name)
			if seen[path] {
				continue
			}
			seen[path] = true
			apps = append(apps, types.AppInfo{
				Name: strings.TrimSuffix(name, filepath.Ext(name)),
				Path: path,
			})
		}
	}
	return apps
}
