package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
	gowav "github.com/go-audio/wav"
)

// outputRate is the canonical device rate. Sinks carrying other rates are
// resampled during construction. oto permits a single context per process,
// so the device is opened once at a fixed rate and shared by every player.
const outputRate = 44100

var (
	otoCtx     *oto.Context
	otoCtxErr  error
	otoCtxOnce sync.Once
)

// OtoOutput plays audio through the platform device via oto.
type OtoOutput struct{}

// NewOtoOutput opens the process-wide oto context, or reuses it if a
// previous player already opened it.
func NewOtoOutput() (*OtoOutput, error) {
	otoCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   outputRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoCtxErr = err
			return
		}
		<-ready
		otoCtx = ctx
		log.Debug("audio output initialized", "sampleRate", outputRate)
	})
	if otoCtxErr != nil {
		return nil, fmt.Errorf("opening audio output: %w", otoCtxErr)
	}
	return &OtoOutput{}, nil
}

// Ready reports whether the device context exists.
func (o *OtoOutput) Ready() bool { return otoCtx != nil }

// Close is a no-op: the oto context is process-wide and cannot be reopened.
func (o *OtoOutput) Close() error { return nil }

// NewSink decodes the WAV payload, resamples it to the device rate when
// needed, and wraps an oto player around the PCM bytes.
func (o *OtoOutput) NewSink(wavData []byte) (Sink, error) {
	if otoCtx == nil {
		return nil, errors.New("audio output not initialized")
	}

	dec := gowav.NewDecoder(bytes.NewReader(wavData))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding wav payload: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, errors.New("empty wav payload")
	}

	data := buf.Data
	if rate := buf.Format.SampleRate; rate != outputRate {
		data = resampleLinear(data, rate, outputRate)
	}

	raw := make([]byte, len(data)*2)
	for i, s := range data {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(int16(s)))
	}

	return &otoSink{player: otoCtx.NewPlayer(bytes.NewReader(raw))}, nil
}

// resampleLinear resamples mono PCM samples between rates with linear
// interpolation.
func resampleLinear(in []int, from, to int) []int {
	if from == to || len(in) == 0 || from <= 0 {
		return in
	}
	ratio := float64(to) / float64(from)
	out := make([]int, int(float64(len(in))*ratio))
	for i := range out {
		pos := float64(i) / ratio
		idx := int(pos)
		if idx >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = int(float64(in[idx])*(1-frac) + float64(in[idx+1])*frac)
	}
	return out
}

type otoSink struct {
	player *oto.Player
	mu     sync.Mutex
	closed bool
}

func (s *otoSink) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.player.Play()
	}
}

func (s *otoSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.player.Pause()
	}
}

func (s *otoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.player.Pause()
	return s.player.Close()
}
