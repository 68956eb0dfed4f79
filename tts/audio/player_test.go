package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/insight-reader/speech/tts"
)

const testRate = 22050

func newTestPlayer(t *testing.T, opts ...Option) (*Player, *MockOutput) {
	t.Helper()
	out := NewMockOutput()
	p, err := NewPlayer(out, testRate, opts...)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	return p, out
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestNewPlayerRejectsBadInputs(t *testing.T) {
	var audioErr *tts.AudioError

	if _, err := NewPlayer(nil, testRate); !errors.As(err, &audioErr) {
		t.Errorf("nil output: got %v, want AudioError", err)
	}

	closed := NewMockOutput()
	_ = closed.Close()
	if _, err := NewPlayer(closed, testRate); !errors.As(err, &audioErr) {
		t.Errorf("closed output: got %v, want AudioError", err)
	}

	out := NewMockOutput()
	if _, err := NewPlayer(out, 0); !errors.As(err, &audioErr) {
		t.Errorf("zero sample rate: got %v, want AudioError", err)
	}
}

func TestPlayAudioEmptyBuffer(t *testing.T) {
	p, _ := newTestPlayer(t)
	var audioErr *tts.AudioError
	if err := p.PlayAudio(nil); !errors.As(err, &audioErr) {
		t.Errorf("got %v, want AudioError", err)
	}
	if p.IsPlaying() {
		t.Error("player should not be playing after failed PlayAudio")
	}
}

func TestPlayAudioStartsSink(t *testing.T) {
	p, out := newTestPlayer(t, WithTickInterval(time.Hour))
	samples := make([]float64, testRate)

	if err := p.PlayAudio(samples); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}
	if !p.IsPlaying() {
		t.Error("player should be playing")
	}
	if p.IsPaused() {
		t.Error("player should not be paused")
	}
	if out.SinksCreated != 1 {
		t.Errorf("SinksCreated = %d, want 1", out.SinksCreated)
	}
	sink := out.LastSink()
	if sink.Plays() != 1 {
		t.Errorf("Plays = %d, want 1", sink.Plays())
	}
	// One second of mono 16-bit audio.
	if sink.DataSize != len(samples)*2 {
		t.Errorf("DataSize = %d, want %d", sink.DataSize, len(samples)*2)
	}
}

func TestPlayAudioReplacesCurrentUtterance(t *testing.T) {
	p, out := newTestPlayer(t, WithTickInterval(time.Hour))

	if err := p.PlayAudio(make([]float64, testRate)); err != nil {
		t.Fatalf("first PlayAudio: %v", err)
	}
	first := out.LastSink()
	if err := p.PlayAudio(make([]float64, testRate/2)); err != nil {
		t.Fatalf("second PlayAudio: %v", err)
	}

	if !first.Closed {
		t.Error("first sink should be closed when superseded")
	}
	if out.SinksCreated != 2 {
		t.Errorf("SinksCreated = %d, want 2", out.SinksCreated)
	}
	if got := p.Progress(); got != 0 {
		t.Errorf("Progress = %v, want 0 at start of new utterance", got)
	}
}

func TestStopClearsEverything(t *testing.T) {
	p, out := newTestPlayer(t, WithTickInterval(time.Hour))
	if err := p.PlayAudio(make([]float64, testRate)); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if p.IsPlaying() || p.IsPaused() {
		t.Error("player should be stopped")
	}
	if got := p.Progress(); got != 0 {
		t.Errorf("Progress = %v, want 0 after stop", got)
	}
	if !out.LastSink().Closed {
		t.Error("sink should be closed after stop")
	}
	for i, b := range p.FrequencyBands(8) {
		if b != 0 {
			t.Errorf("band %d = %v, want 0 after stop", i, b)
		}
	}

	// Stopping a stopped player is fine.
	if err := p.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestPauseResume(t *testing.T) {
	p, out := newTestPlayer(t, WithTickInterval(time.Hour))
	if err := p.PlayAudio(make([]float64, testRate)); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}
	sink := out.LastSink()

	if err := p.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if !p.IsPaused() || p.IsPlaying() {
		t.Error("player should be paused")
	}
	if sink.Pauses() != 1 {
		t.Errorf("Pauses = %d, want 1", sink.Pauses())
	}

	// Pausing while paused is a no-op.
	if err := p.Pause(); err != nil {
		t.Fatalf("second Pause: %v", err)
	}
	if sink.Pauses() != 1 {
		t.Errorf("Pauses = %d after no-op pause, want 1", sink.Pauses())
	}

	if err := p.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if !p.IsPlaying() || p.IsPaused() {
		t.Error("player should be playing after resume")
	}
	if sink.Plays() != 2 {
		t.Errorf("Plays = %d, want 2", sink.Plays())
	}

	// Resuming while playing is a no-op.
	if err := p.Resume(); err != nil {
		t.Fatalf("second Resume: %v", err)
	}
	if sink.Plays() != 2 {
		t.Errorf("Plays = %d after no-op resume, want 2", sink.Plays())
	}
}

func TestPauseResumeWhenStopped(t *testing.T) {
	p, _ := newTestPlayer(t)
	if err := p.Pause(); err != nil {
		t.Errorf("Pause on stopped player: %v", err)
	}
	if err := p.Resume(); err != nil {
		t.Errorf("Resume on stopped player: %v", err)
	}
	if p.IsPlaying() || p.IsPaused() {
		t.Error("stopped player changed state on pause/resume")
	}
}

func TestPauseFreezesProgress(t *testing.T) {
	p, _ := newTestPlayer(t, WithTickInterval(10*time.Millisecond))
	if err := p.PlayAudio(make([]float64, 10*testRate)); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}
	waitFor(t, time.Second, func() bool { return p.Progress() > 0 }, "tracker never advanced")

	if err := p.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	frozen := p.Progress()
	time.Sleep(50 * time.Millisecond)
	if got := p.Progress(); got != frozen {
		t.Errorf("Progress advanced while paused: %v -> %v", frozen, got)
	}

	if err := p.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	waitFor(t, time.Second, func() bool { return p.Progress() > frozen }, "tracker did not advance after resume")
}

func TestSkipForwardSeeks(t *testing.T) {
	p, out := newTestPlayer(t, WithTickInterval(time.Hour))
	total := 10 * testRate
	if err := p.PlayAudio(make([]float64, total)); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}

	p.SkipForward(2)

	want := float64(2*testRate) / float64(total)
	if got := p.Progress(); got != want {
		t.Errorf("Progress = %v, want %v", got, want)
	}
	if !p.IsPlaying() {
		t.Error("player should still be playing after seek")
	}
	if out.SinksCreated != 2 {
		t.Errorf("SinksCreated = %d, want 2", out.SinksCreated)
	}
	// The new sink carries the remainder of the buffer.
	if got, want := out.LastSink().DataSize, (total-2*testRate)*2; got != want {
		t.Errorf("DataSize = %d, want %d", got, want)
	}
}

func TestSkipBackwardClampsToStart(t *testing.T) {
	p, _ := newTestPlayer(t, WithTickInterval(time.Hour))
	if err := p.PlayAudio(make([]float64, testRate)); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}

	p.SkipBackward(60)

	if got := p.Progress(); got != 0 {
		t.Errorf("Progress = %v, want 0 after clamped backward skip", got)
	}
	if !p.IsPlaying() {
		t.Error("player should still be playing after clamped skip")
	}
}

func TestSkipForwardPastEndStops(t *testing.T) {
	p, _ := newTestPlayer(t, WithTickInterval(time.Hour))
	if err := p.PlayAudio(make([]float64, testRate)); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}

	p.SkipForward(60)

	if p.IsPlaying() || p.IsPaused() {
		t.Error("seeking past the end should stop playback")
	}
	if got := p.Progress(); got != 1 {
		t.Errorf("Progress = %v, want 1 at end of buffer", got)
	}
}

func TestSkipWhilePausedStops(t *testing.T) {
	p, _ := newTestPlayer(t, WithTickInterval(time.Hour))
	if err := p.PlayAudio(make([]float64, 10*testRate)); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}
	if err := p.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	p.SkipForward(2)

	// Seeking moves the position but only restarts audible playback.
	if p.IsPlaying() || p.IsPaused() {
		t.Error("seek while paused should leave the player stopped")
	}
	want := float64(2*testRate) / float64(10*testRate)
	if got := p.Progress(); got != want {
		t.Errorf("Progress = %v, want %v", got, want)
	}
}

func TestSkipWhileStoppedMovesPosition(t *testing.T) {
	p, out := newTestPlayer(t, WithTickInterval(time.Hour))
	if err := p.PlayAudio(make([]float64, 10*testRate)); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	created := out.SinksCreated

	p.SkipForward(2)

	if p.IsPlaying() {
		t.Error("seek on a stopped player should not start playback")
	}
	if out.SinksCreated != created {
		t.Error("seek on a stopped player should not build a sink")
	}
}

func TestFailedSinkLeavesPositionMutated(t *testing.T) {
	p, out := newTestPlayer(t, WithTickInterval(time.Hour))
	total := 10 * testRate
	if err := p.PlayAudio(make([]float64, total)); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}

	out.FailNext = true
	p.SkipForward(2)

	if p.IsPlaying() || p.IsPaused() {
		t.Error("failed seek should leave the player stopped")
	}
	// The position write is not rolled back.
	want := float64(2*testRate) / float64(total)
	if got := p.Progress(); got != want {
		t.Errorf("Progress = %v, want %v", got, want)
	}
}

func TestPlayAudioSinkFailure(t *testing.T) {
	p, out := newTestPlayer(t)
	out.FailNext = true

	var audioErr *tts.AudioError
	if err := p.PlayAudio(make([]float64, testRate)); !errors.As(err, &audioErr) {
		t.Errorf("got %v, want AudioError", err)
	}
	if p.IsPlaying() {
		t.Error("player should be stopped after sink failure")
	}
}

func TestPlaybackRunsToCompletion(t *testing.T) {
	p, _ := newTestPlayer(t, WithTickInterval(5*time.Millisecond))
	// Half a second of audio at a 5ms tick finishes quickly.
	if err := p.PlayAudio(make([]float64, testRate/2)); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return !p.IsPlaying() }, "playback never finished")
	if got := p.Progress(); got != 1 {
		t.Errorf("Progress = %v, want 1 after exhaustion", got)
	}
	waitFor(t, time.Second, func() bool { return p.liveTrackers.Load() == 0 }, "tracker did not exit after exhaustion")
}

func TestRapidSeeksKeepOneTracker(t *testing.T) {
	p, _ := newTestPlayer(t, WithTickInterval(10*time.Millisecond))
	if err := p.PlayAudio(make([]float64, 30*testRate)); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}

	for i := 0; i < 10; i++ {
		p.SkipForward(0.5)
		p.SkipBackward(0.25)
	}

	// Retired trackers notice their stale generation within one tick.
	waitFor(t, time.Second, func() bool { return p.liveTrackers.Load() == 1 }, "expected exactly one live tracker")
	if !p.IsPlaying() {
		t.Error("player should still be playing after rapid seeks")
	}

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	waitFor(t, time.Second, func() bool { return p.liveTrackers.Load() == 0 }, "tracker survived stop")
}

func TestFrequencyBandsDuringPlayback(t *testing.T) {
	p, _ := newTestPlayer(t, WithTickInterval(20*time.Millisecond))
	samples := sine(10*testRate, 440, testRate)
	if err := p.PlayAudio(samples); err != nil {
		t.Fatalf("PlayAudio: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		bands := p.FrequencyBands(16)
		for _, b := range bands {
			if b > 0 {
				return true
			}
		}
		return false
	}, "no band energy observed during tone playback")

	bands := p.FrequencyBands(16)
	if len(bands) != 16 {
		t.Fatalf("got %d bands, want 16", len(bands))
	}
	for i, b := range bands {
		if b < 0 || b > 1 {
			t.Errorf("band %d = %v outside [0, 1]", i, b)
		}
	}
}

func TestFrequencyBandsBeforePlayback(t *testing.T) {
	p, _ := newTestPlayer(t)
	bands := p.FrequencyBands(8)
	if len(bands) != 8 {
		t.Fatalf("got %d bands, want 8", len(bands))
	}
	for i, b := range bands {
		if b != 0 {
			t.Errorf("band %d = %v, want 0 before playback", i, b)
		}
	}
}

func TestProgressWithoutAudio(t *testing.T) {
	p, _ := newTestPlayer(t)
	if got := p.Progress(); got != 0 {
		t.Errorf("Progress = %v, want 0 with no audio loaded", got)
	}
}
