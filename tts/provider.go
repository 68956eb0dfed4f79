// Package tts defines the synthesis provider contract, the error taxonomy,
// and environment-driven configuration shared by all backends.
package tts

// Provider is the capability contract every synthesis backend must satisfy.
// It decouples how speech is produced (local subprocess, cloud API) from
// playback control, which lives entirely in the shared audio player.
//
// Speak is synchronous from the caller's perspective regardless of how the
// backend acquires audio. All other methods are safe to call from any
// goroutine, including while Speak's playback is in flight.
type Provider interface {
	// Speak synthesizes text and starts playback, stopping any current
	// playback first. It fails with a *ProcessError when synthesis fails
	// or produces no audio, and with an *AudioError when the resulting
	// audio cannot be played.
	Speak(text string) error

	// Pause pauses the current playback. Pausing when nothing is playing
	// is a successful no-op.
	Pause() error

	// Resume continues paused playback. Resuming when nothing is paused
	// is a successful no-op.
	Resume() error

	// Stop halts playback and resets position. It always succeeds.
	Stop() error

	// IsPlaying reports whether audio is audibly playing.
	IsPlaying() bool

	// IsPaused reports whether playback is paused.
	IsPaused() bool

	// SkipForward seeks ahead by the given number of seconds, clamped to
	// the end of the buffer.
	SkipForward(seconds float64)

	// SkipBackward seeks back by the given number of seconds, clamped to
	// the start of the buffer.
	SkipBackward(seconds float64)

	// Progress returns playback progress in [0, 1]; 0 when no audio is
	// loaded.
	Progress() float64

	// FrequencyBands returns numBands normalized band magnitudes in
	// [0, 1] for visualization, all zero when too little audio has been
	// played to analyze.
	FrequencyBands(numBands int) []float64

	// Name identifies the backend for UI and logging.
	Name() string

	// ValidateConfig is an independent pre-flight check of the backend's
	// dependencies: credentials, binaries, voice models.
	ValidateConfig() error
}
