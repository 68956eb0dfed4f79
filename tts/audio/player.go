package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/insight-reader/speech/tts"
)

// DefaultTickInterval is the tracker cadence, matching the UI refresh rate.
const DefaultTickInterval = 75 * time.Millisecond

// Player turns a normalized sample buffer into audible output and exposes
// transport controls plus non-blocking progress and visualization reads.
//
// The playback record is guarded by one mutex shared with the position
// tracker. Critical sections exclude I/O and FFT work: sink construction
// happens on copies and the analysis window is copied out before the FFT
// runs, so polling Progress and FrequencyBands never stalls playback.
type Player struct {
	sampleRate int
	tick       time.Duration
	out        Output

	mu   sync.Mutex
	st   playbackState
	sink Sink

	// liveTrackers counts tracker goroutines that have not yet observed
	// their retirement. Inspected by tests.
	liveTrackers atomic.Int32
}

// Option configures a Player.
type Option func(*Player)

// WithTickInterval overrides the tracker cadence. Tests use short intervals
// to keep timing-sensitive scenarios fast.
func WithTickInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.tick = d
		}
	}
}

// NewPlayer creates a player bound to an output context. The sample rate is
// fixed for the lifetime of the player.
func NewPlayer(out Output, sampleRate int, opts ...Option) (*Player, error) {
	if out == nil || !out.Ready() {
		return nil, &tts.AudioError{Msg: "no audio output available"}
	}
	if sampleRate <= 0 {
		return nil, &tts.AudioError{Msg: fmt.Sprintf("invalid sample rate %d", sampleRate)}
	}
	p := &Player{
		out:        out,
		sampleRate: sampleRate,
		tick:       DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// SampleRate returns the fixed sample rate of this player.
func (p *Player) SampleRate() int { return p.sampleRate }

// PlayAudio replaces the sample buffer with a new utterance and starts
// playback from the beginning. Samples must be normalized to [-1, 1].
func (p *Player) PlayAudio(samples []float64) error {
	if len(samples) == 0 {
		return &tts.AudioError{Msg: "no audio data to play"}
	}

	p.mu.Lock()
	p.retireLocked()
	p.st.samples = samples
	p.st.position = 0
	p.st.state = Stopped
	p.st.window = nil
	p.mu.Unlock()

	log.Debug("starting playback", "samples", len(samples), "sampleRate", p.sampleRate)
	return p.startPlayback()
}

// Pause suspends audible playback. Pausing anything but active playback is
// a successful no-op.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !canTransition(p.st.state, Paused) {
		return nil
	}
	if p.sink != nil {
		p.sink.Pause()
	}
	p.st.state = Paused
	log.Debug("playback paused", "position", p.st.position)
	return nil
}

// Resume continues paused playback. Resuming anything but paused playback
// is a successful no-op.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.st.state != Paused {
		return nil
	}
	if p.sink != nil {
		p.sink.Play()
	}
	p.st.state = Playing
	log.Debug("playback resumed", "position", p.st.position)
	return nil
}

// Stop tears down the output sink and clears the buffer, position, and
// analysis window. It always succeeds.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retireLocked()
	p.st.samples = nil
	p.st.position = 0
	p.st.state = Stopped
	p.st.window = nil
	return nil
}

// IsPlaying reports whether audio is audibly playing.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.state == Playing
}

// IsPaused reports whether playback is paused.
func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.state == Paused
}

// SkipForward seeks ahead by the given number of seconds, clamped to the
// end of the buffer.
func (p *Player) SkipForward(seconds float64) {
	delta := int(seconds * float64(p.sampleRate))
	p.mu.Lock()
	target := p.st.position + delta
	p.mu.Unlock()
	if err := p.seekTo(target); err != nil {
		log.Debug("skip forward failed", "seconds", seconds, "error", err)
	}
}

// SkipBackward seeks back by the given number of seconds, clamped to the
// start of the buffer.
func (p *Player) SkipBackward(seconds float64) {
	delta := int(seconds * float64(p.sampleRate))
	p.mu.Lock()
	target := p.st.position - delta
	p.mu.Unlock()
	if err := p.seekTo(target); err != nil {
		log.Debug("skip backward failed", "seconds", seconds, "error", err)
	}
}

// Progress returns playback progress in [0, 1]; 0 when no audio is loaded.
// Safe to poll from any goroutine during playback.
func (p *Player) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.st.samples) == 0 {
		return 0
	}
	progress := float64(p.st.position) / float64(len(p.st.samples))
	return math.Min(math.Max(progress, 0), 1)
}

// FrequencyBands returns numBands normalized band magnitudes in [0, 1] for
// the most recent analysis window. The window is copied out under the lock
// and analyzed after releasing it.
func (p *Player) FrequencyBands(numBands int) []float64 {
	p.mu.Lock()
	var win []float64
	if len(p.st.window) >= minWindowSamples {
		win = append([]float64(nil), p.st.window...)
	}
	p.mu.Unlock()

	if win == nil {
		if numBands < 0 {
			numBands = 0
		}
		return make([]float64, numBands)
	}
	return Bands(win, numBands)
}

// retireLocked closes the current sink and bumps the generation so any live
// tracker exits on its next tick. Callers must hold p.mu.
func (p *Player) retireLocked() {
	p.st.gen++
	if p.sink != nil {
		_ = p.sink.Close()
		p.sink = nil
	}
}

// startPlayback builds an output sink from the current position and spawns
// a fresh tracker. Callers must not hold p.mu: quantization and WAV framing
// run on an immutable slice outside the critical section.
func (p *Player) startPlayback() error {
	p.mu.Lock()
	if len(p.st.samples) == 0 {
		p.mu.Unlock()
		return &tts.AudioError{Msg: "no audio data to play"}
	}
	pos := p.st.position
	if pos > len(p.st.samples) {
		pos = len(p.st.samples)
	}
	if pos >= len(p.st.samples) {
		p.mu.Unlock()
		return &tts.AudioError{Msg: "playback position at end of buffer"}
	}
	slice := p.st.samples[pos:]
	genBefore := p.st.gen
	p.mu.Unlock()

	quantized := make([]int16, len(slice))
	for i, s := range slice {
		quantized[i] = floatToInt16(s)
	}
	wavData := EncodeWAV16(quantized, p.sampleRate)

	sink, err := p.out.NewSink(wavData)
	if err != nil {
		p.mu.Lock()
		p.st.state = Stopped
		p.mu.Unlock()
		return &tts.AudioError{Msg: "building output sink", Err: err}
	}

	p.mu.Lock()
	if p.st.gen != genBefore {
		// A concurrent stop or speak superseded this playback.
		p.mu.Unlock()
		_ = sink.Close()
		return nil
	}
	p.retireLocked()
	p.sink = sink
	p.st.state = Playing
	gen := p.st.gen
	p.mu.Unlock()

	sink.Play()
	go p.track(gen, pos)
	return nil
}

// seekTo writes the clamped position and, when audio was audibly playing,
// rebuilds the sink there and restarts tracking. Retiring the old tracker
// by generation makes the handoff deterministic; at most one tracker ever
// advances this player.
//
// A failed sink rebuild leaves the position already mutated. That is the
// documented contract; there is no rollback.
func (p *Player) seekTo(position int) error {
	p.mu.Lock()
	wasAudible := p.st.state == Playing
	p.retireLocked()
	if position < 0 {
		position = 0
	}
	if position > len(p.st.samples) {
		position = len(p.st.samples)
	}
	p.st.position = position
	p.st.state = Stopped
	p.mu.Unlock()

	if !wasAudible {
		return nil
	}
	return p.startPlayback()
}
