// Package providers constructs the configured synthesis provider.
package providers

import (
	"fmt"
	"strings"

	"github.com/insight-reader/speech/tts"
	"github.com/insight-reader/speech/tts/audio"
	"github.com/insight-reader/speech/tts/providers/piper"
	"github.com/insight-reader/speech/tts/providers/polly"
)

// New builds the provider named by cfg.Engine. With cfg.MockAudio set the
// provider plays into a mock output instead of the sound device.
func New(cfg tts.Config) (tts.Provider, error) {
	var out audio.Output
	if cfg.MockAudio {
		out = audio.NewMockOutput()
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case "piper", "":
		return piper.New(piper.Config{
			Binary:  cfg.PiperBinary,
			Model:   cfg.PiperModel,
			Output:  out,
			Timeout: cfg.SynthTimeout,
		})
	case "polly":
		return polly.New(polly.Config{
			Voice:   cfg.PollyVoice,
			Region:  cfg.AWSRegion,
			Output:  out,
			Timeout: cfg.SynthTimeout,
		})
	default:
		return nil, &tts.ConfigError{Msg: fmt.Sprintf("unknown TTS engine %q", cfg.Engine)}
	}
}
