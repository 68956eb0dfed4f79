// Package audio implements the shared playback engine behind every
// synthesis provider: a seekable, concurrently observed player over a
// normalized sample buffer, a background position tracker, FFT-based
// frequency band analysis for visualization, and PCM/WAV conversion
// helpers.
//
// Providers hand the player a buffer of normalized floats and delegate all
// transport control to it. The output device is abstracted behind the
// Output interface with an oto-backed production implementation and a mock
// for tests and headless machines.
package audio
