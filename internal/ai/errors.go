package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is matched by every *ConfigError.
	ErrNotConfigured = errors.New("ai backend is not configured")
	// ErrBackend is matched by every *BackendError.
	ErrBackend = errors.New("ai backend failed")
)

// Stage names the step of an AI request that failed.
type Stage string

const (
	StagePrompt   Stage = "prompt"
	StageGenerate Stage = "generate"
	StageTimeout  Stage = "timeout"
	StageExtract  Stage = "extract"
	StageValidate Stage = "validate"
)

// ConfigError reports missing or placeholder credentials.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotConfigured, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrNotConfigured
}

// BackendError reports a failed or unusable model response.
type BackendError struct {
	Stage Stage
	Err   error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s at %s stage", ErrBackend, e.Stage)
	}
	return fmt.Sprintf("%s at %s stage: %v", ErrBackend, e.Stage, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

// StageOf returns the failing stage of err, or "" when err is not a *BackendError.
func StageOf(err error) Stage {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Stage
	}
	return ""
}
