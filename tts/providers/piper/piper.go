// Package piper implements the local synthesis provider: it spawns the
// piper binary, feeds it text on stdin, and plays the raw PCM it writes to
// stdout.
package piper

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/insight-reader/speech/tts"
	"github.com/insight-reader/speech/tts/audio"
)

// SampleRate is fixed by piper's voice models.
const SampleRate = 22050

// Provider synthesizes speech with a local piper process and delegates all
// playback control to the shared audio player.
type Provider struct {
	binary  string
	model   string
	timeout time.Duration
	player  *audio.Player
}

// Config controls binary and model discovery. Zero values mean discover.
type Config struct {
	// Binary is an explicit piper executable path.
	Binary string

	// Model is an explicit .onnx voice model path.
	Model string

	// Output overrides the audio output context, for tests.
	Output audio.Output

	// Timeout bounds one synthesis call. Zero disables the bound; a hung
	// piper process then blocks Speak indefinitely.
	Timeout time.Duration
}

// New creates a piper provider, discovering the binary and voice model when
// not configured explicitly.
func New(cfg Config) (*Provider, error) {
	binary := cfg.Binary
	if binary == "" {
		binary = findBinary()
	}
	if binary == "" {
		return nil, &tts.ProcessError{
			Msg: "piper binary not found; install piper from https://github.com/rhasspy/piper",
		}
	}
	if _, err := os.Stat(binary); err != nil {
		return nil, &tts.ProcessError{Msg: fmt.Sprintf("piper binary not found at %s", binary), Err: err}
	}

	model := cfg.Model
	if model == "" {
		model = findModel()
	}
	if model == "" {
		return nil, &tts.ProcessError{
			Msg: "no ONNX voice model found; download one into ~/.local/share/piper-voices/",
		}
	}
	if _, err := os.Stat(model); err != nil {
		return nil, &tts.ProcessError{Msg: fmt.Sprintf("voice model not found at %s", model), Err: err}
	}

	out := cfg.Output
	if out == nil {
		var err error
		if out, err = audio.NewOutput(); err != nil {
			return nil, &tts.AudioError{Msg: "opening audio output", Err: err}
		}
	}
	player, err := audio.NewPlayer(out, SampleRate)
	if err != nil {
		return nil, err
	}

	log.Debug("piper provider initialized", "binary", binary, "model", model)
	return &Provider{
		binary:  binary,
		model:   model,
		timeout: cfg.Timeout,
		player:  player,
	}, nil
}

// findBinary locates the piper executable on PATH and in common install
// locations, including the insight-reader virtualenv layout.
func findBinary() string {
	if path, err := exec.LookPath("piper"); err == nil {
		return path
	}
	home, _ := os.UserHomeDir()
	candidates := []string{
		"/usr/local/bin/piper",
		"/usr/bin/piper",
		"/opt/piper/piper",
		filepath.Join(home, ".local", "bin", "piper"),
		filepath.Join(home, ".local", "share", "insight-reader", "venv", "bin", "piper"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findModel walks the standard voice directories for the first .onnx model.
func findModel() string {
	home, _ := os.UserHomeDir()
	dirs := []string{
		filepath.Join(home, ".local", "share", "piper-voices"),
		filepath.Join(home, ".local", "share", "insight-reader", "models"),
		"/usr/share/piper-voices",
		"/usr/local/share/piper-voices",
	}
	for _, dir := range dirs {
		var found string
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && strings.HasSuffix(path, ".onnx") {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// Speak synthesizes text with the piper process and starts playback. The
// call blocks for the duration of synthesis.
func (p *Provider) Speak(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &tts.ProcessError{Msg: "cannot synthesize empty text"}
	}

	_ = p.player.Stop()

	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.binary, "--model", p.model, "--output-raw")
	// Stdin must be wired before the process starts; attaching it later
	// races with piper reading it.
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("running piper", "chars", len(text), "model", p.model)
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return &tts.ProcessError{Msg: fmt.Sprintf("piper timed out after %v", p.timeout), Err: err}
		}
		msg := "piper failed"
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg = fmt.Sprintf("piper failed: %s", s)
		}
		return &tts.ProcessError{Msg: msg, Err: err}
	}

	pcm := stdout.Bytes()
	if len(pcm) == 0 {
		msg := "no audio data generated by piper"
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg = fmt.Sprintf("no audio data generated by piper: %s", s)
		}
		return &tts.ProcessError{Msg: msg}
	}

	samples := audio.PCMToFloat(pcm)
	log.Info("piper audio generated",
		"bytes", len(pcm),
		"seconds", fmt.Sprintf("%.1f", float64(len(samples))/SampleRate))
	return p.player.PlayAudio(samples)
}

func (p *Provider) Pause() error  { return p.player.Pause() }
func (p *Provider) Resume() error { return p.player.Resume() }
func (p *Provider) Stop() error   { return p.player.Stop() }

func (p *Provider) IsPlaying() bool { return p.player.IsPlaying() }
func (p *Provider) IsPaused() bool  { return p.player.IsPaused() }

func (p *Provider) SkipForward(seconds float64)  { p.player.SkipForward(seconds) }
func (p *Provider) SkipBackward(seconds float64) { p.player.SkipBackward(seconds) }

func (p *Provider) Progress() float64 { return p.player.Progress() }

func (p *Provider) FrequencyBands(numBands int) []float64 {
	return p.player.FrequencyBands(numBands)
}

// Name identifies the backend.
func (p *Provider) Name() string { return "Piper" }

// ValidateConfig re-checks that the binary and voice model still exist.
func (p *Provider) ValidateConfig() error {
	if _, err := os.Stat(p.binary); err != nil {
		return &tts.ConfigError{Msg: fmt.Sprintf("piper binary missing at %s", p.binary), Err: err}
	}
	if _, err := os.Stat(p.model); err != nil {
		return &tts.ConfigError{Msg: fmt.Sprintf("voice model missing at %s", p.model), Err: err}
	}
	return nil
}
