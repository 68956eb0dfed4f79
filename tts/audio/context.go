package audio

import (
	"os"

	"github.com/charmbracelet/log"
)

// Output owns the platform audio device and builds sinks from framed audio
// data. It is an explicitly passed-down resource rather than a package
// global, so tests can inject a fake device. Implementations must be safe
// for concurrent use.
type Output interface {
	// NewSink decodes the in-memory WAV payload and prepares it for
	// playback. The sink starts paused.
	NewSink(wavData []byte) (Sink, error)

	// Ready reports whether the output device is usable.
	Ready() bool

	// Close releases the output device.
	Close() error
}

// Sink is a live decode/playback handle for one utterance slice. A sink is
// built per speak or seek and discarded when superseded.
type Sink interface {
	Play()
	Pause()
	Close() error
}

// NewOutput returns the production output, falling back to the mock when
// the environment has no usable audio device.
func NewOutput() (Output, error) {
	if mockRequested() {
		log.Info("using mock audio output")
		return NewMockOutput(), nil
	}
	out, err := NewOtoOutput()
	if err != nil {
		log.Warn("audio device unavailable, falling back to mock output", "error", err)
		return NewMockOutput(), nil
	}
	return out, nil
}

// mockRequested detects environments without audio hardware: CI runners and
// explicit opt-out via INSIGHT_MOCK_AUDIO.
func mockRequested() bool {
	if v := os.Getenv("INSIGHT_MOCK_AUDIO"); v != "" && v != "false" {
		return true
	}
	ciVars := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"BUILDKITE",
	}
	for _, name := range ciVars {
		if v := os.Getenv(name); v != "" && v != "false" {
			log.Debug("CI environment detected", "variable", name)
			return true
		}
	}
	return false
}
