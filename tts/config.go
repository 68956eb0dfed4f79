package tts

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config selects and tunes a synthesis backend. All fields come from the
// environment; the CLI loads a .env file first so local setups can keep
// their settings next to the voice models.
type Config struct {
	// Engine selects the backend: "piper" or "polly".
	Engine string `env:"INSIGHT_TTS_ENGINE" envDefault:"piper"`

	// PiperBinary and PiperModel override piper discovery.
	PiperBinary string `env:"INSIGHT_PIPER_BINARY"`
	PiperModel  string `env:"INSIGHT_PIPER_MODEL"`

	// PollyVoice is "VoiceId" or "VoiceId:Engine", e.g. "Joanna:Neural".
	PollyVoice string `env:"INSIGHT_POLLY_VOICE" envDefault:"Matthew:Neural"`
	AWSRegion  string `env:"AWS_REGION"`

	// MockAudio forces the fake output sink, for machines without an
	// audio device.
	MockAudio bool `env:"INSIGHT_MOCK_AUDIO"`

	// SynthTimeout bounds a single synthesis call. Zero means no
	// timeout; a hung backend then blocks Speak indefinitely.
	SynthTimeout time.Duration `env:"INSIGHT_SYNTH_TIMEOUT"`

	// SkipSeconds is the transport skip step.
	SkipSeconds float64 `env:"INSIGHT_SKIP_SECONDS" envDefault:"5"`

	// Bands is the number of visualization frequency bands.
	Bands int `env:"INSIGHT_BANDS" envDefault:"16"`

	Debug bool `env:"INSIGHT_DEBUG"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, &ConfigError{Msg: "parsing environment", Err: err}
	}
	return cfg, nil
}
