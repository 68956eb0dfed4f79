package tts

import "fmt"

// The error taxonomy mirrors the failure domains of the engine: external
// synthesis invocation, audio playback, backend configuration, and
// unsupported operations. Callers match with errors.As.

// ProcessError reports that an external synthesis invocation failed
// (spawning a local binary, calling a cloud API, or an empty result).
type ProcessError struct {
	Msg string
	Err error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tts process: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("tts process: %s", e.Msg)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// AudioError reports a playback failure: no output device, a decode or sink
// construction failure, or an empty/exhausted sample buffer.
type AudioError struct {
	Msg string
	Err error
}

func (e *AudioError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio playback: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("audio playback: %s", e.Msg)
}

func (e *AudioError) Unwrap() error { return e.Err }

// ConfigError reports that a backend is not usable as configured, such as
// missing credentials, binaries, or voice models.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider not configured: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("provider not configured: %s", e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NotSupportedError reports an operation the selected backend cannot
// perform.
type NotSupportedError struct {
	Op string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("operation not supported: %s", e.Op)
}
