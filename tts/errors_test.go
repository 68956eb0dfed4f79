package tts

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("exit status 1")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"process", &ProcessError{Msg: "piper failed"}, "tts process: piper failed"},
		{"process wrapped", &ProcessError{Msg: "piper failed", Err: cause}, "tts process: piper failed: exit status 1"},
		{"audio", &AudioError{Msg: "no audio data to play"}, "audio playback: no audio data to play"},
		{"config", &ConfigError{Msg: "missing voice model"}, "provider not configured: missing voice model"},
		{"not supported", &NotSupportedError{Op: "seek"}, "operation not supported: seek"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("synthesis: %w", &ProcessError{Msg: "polly call", Err: cause})

	var procErr *ProcessError
	if !errors.As(wrapped, &procErr) {
		t.Fatal("errors.As failed to find ProcessError")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is failed to find wrapped cause")
	}

	var audioErr *AudioError
	if errors.As(wrapped, &audioErr) {
		t.Error("errors.As matched AudioError for a ProcessError chain")
	}
}

func TestConfigErrorWrapsCause(t *testing.T) {
	cause := errors.New("no such file")
	err := &ConfigError{Msg: "piper binary missing", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("ConfigError did not unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "no such file") {
		t.Errorf("ConfigError message %q missing cause", err.Error())
	}
}
