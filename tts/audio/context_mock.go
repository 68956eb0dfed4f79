package audio

import (
	"errors"
	"sync"
)

// MockOutput implements Output without touching audio hardware. It backs
// the player tests and machines without an audio device.
type MockOutput struct {
	mu    sync.Mutex
	ready bool
	sinks []*MockSink

	// FailNext makes the next NewSink call fail, for error-path tests.
	FailNext bool

	SinksCreated int
	SinksClosed  int
}

// NewMockOutput creates a ready mock output.
func NewMockOutput() *MockOutput {
	return &MockOutput{ready: true}
}

// NewSink records the request and returns an inert sink. The payload must
// at least hold a WAV header.
func (o *MockOutput) NewSink(wavData []byte) (Sink, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.ready {
		return nil, errors.New("mock output closed")
	}
	if o.FailNext {
		o.FailNext = false
		return nil, errors.New("mock sink failure")
	}
	if len(wavData) < 44 {
		return nil, errors.New("short wav payload")
	}
	sink := &MockSink{out: o, DataSize: len(wavData) - 44}
	o.sinks = append(o.sinks, sink)
	o.SinksCreated++
	return sink, nil
}

// Ready reports whether the mock has not been closed.
func (o *MockOutput) Ready() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ready
}

// Close marks the mock unusable and closes its sinks.
func (o *MockOutput) Close() error {
	o.mu.Lock()
	sinks := o.sinks
	o.ready = false
	o.mu.Unlock()
	for _, s := range sinks {
		_ = s.Close()
	}
	return nil
}

// LastSink returns the most recently created sink, or nil.
func (o *MockOutput) LastSink() *MockSink {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sinks) == 0 {
		return nil
	}
	return o.sinks[len(o.sinks)-1]
}

// MockSink records transport calls for assertions.
type MockSink struct {
	out *MockOutput
	mu  sync.Mutex

	DataSize   int
	PlayCount  int
	PauseCount int
	Closed     bool
}

func (s *MockSink) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Closed {
		s.PlayCount++
	}
}

func (s *MockSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Closed {
		s.PauseCount++
	}
}

func (s *MockSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Closed {
		return nil
	}
	s.Closed = true
	s.out.mu.Lock()
	s.out.SinksClosed++
	s.out.mu.Unlock()
	return nil
}

// Plays returns the recorded Play call count.
func (s *MockSink) Plays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PlayCount
}

// Pauses returns the recorded Pause call count.
func (s *MockSink) Pauses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PauseCount
}
