// Package polly implements the cloud synthesis provider on AWS Polly.
package polly

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/charmbracelet/log"

	"github.com/insight-reader/speech/tts"
	"github.com/insight-reader/speech/tts/audio"
)

// SampleRate is the PCM rate Polly emits for pcm output format.
const SampleRate = 16000

// DefaultVoice is used when no voice key is configured.
const DefaultVoice = "Matthew:Neural"

// Provider synthesizes speech through the Polly API and plays the result
// with the shared audio player.
type Provider struct {
	client  *polly.Client
	awsCfg  aws.Config
	voice   types.VoiceId
	engine  types.Engine
	timeout time.Duration
	player  *audio.Player
}

// Config controls voice selection and AWS wiring.
type Config struct {
	// Voice is a "VoiceId:Engine" key, e.g. "Joanna:Neural". The engine
	// part is optional and defaults to Neural.
	Voice string

	// Region overrides the AWS region from the environment.
	Region string

	// Output overrides the audio output context, for tests.
	Output audio.Output

	// Timeout bounds one synthesis call. Zero disables the bound.
	Timeout time.Duration
}

// New creates a Polly provider using the default AWS credential chain.
func New(cfg Config) (*Provider, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, &tts.ConfigError{Msg: "loading AWS configuration", Err: err}
	}

	key := cfg.Voice
	if key == "" {
		key = DefaultVoice
	}
	voice, engine, err := parseVoiceKey(key)
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == nil {
		if out, err = audio.NewOutput(); err != nil {
			return nil, &tts.AudioError{Msg: "opening audio output", Err: err}
		}
	}
	player, err := audio.NewPlayer(out, SampleRate)
	if err != nil {
		return nil, err
	}

	log.Debug("polly provider initialized", "voice", voice, "engine", engine, "region", awsCfg.Region)
	return &Provider{
		client:  polly.NewFromConfig(awsCfg),
		awsCfg:  awsCfg,
		voice:   voice,
		engine:  engine,
		timeout: cfg.Timeout,
		player:  player,
	}, nil
}

// parseVoiceKey splits a "VoiceId:Engine" key. A bare voice id gets the
// neural engine.
func parseVoiceKey(key string) (types.VoiceId, types.Engine, error) {
	name, engineName, hasEngine := strings.Cut(key, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", &tts.ConfigError{Msg: fmt.Sprintf("invalid voice key %q", key)}
	}
	if !hasEngine {
		return types.VoiceId(name), types.EngineNeural, nil
	}
	switch strings.ToLower(strings.TrimSpace(engineName)) {
	case "standard":
		return types.VoiceId(name), types.EngineStandard, nil
	case "neural", "":
		return types.VoiceId(name), types.EngineNeural, nil
	case "generative":
		return types.VoiceId(name), types.EngineGenerative, nil
	case "long-form", "longform":
		return types.VoiceId(name), types.EngineLongForm, nil
	default:
		return "", "", &tts.ConfigError{Msg: fmt.Sprintf("unknown polly engine %q in voice key %q", engineName, key)}
	}
}

// Speak synthesizes text through the Polly API and starts playback. The
// call blocks for the duration of the API round trip.
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

	log.Debug("calling polly", "chars", len(text), "voice", p.voice)
	resp, err := p.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		OutputFormat: types.OutputFormatPcm,
		VoiceId:      p.voice,
		Engine:       p.engine,
		SampleRate:   aws.String("16000"),
	})
	if err != nil {
		return &tts.ProcessError{Msg: "polly synthesis failed", Err: err}
	}
	defer resp.AudioStream.Close()

	pcm, err := io.ReadAll(resp.AudioStream)
	if err != nil {
		return &tts.ProcessError{Msg: "reading polly audio stream", Err: err}
	}
	if len(pcm) == 0 {
		return &tts.ProcessError{Msg: "no audio data returned by polly"}
	}

	samples := audio.PCMToFloat(pcm)
	log.Info("polly audio generated",
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
func (p *Provider) Name() string { return "AWS Polly" }

// ValidateConfig verifies that AWS credentials can be resolved.
func (p *Provider) ValidateConfig() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := p.awsCfg.Credentials.Retrieve(ctx); err != nil {
		return &tts.ConfigError{Msg: "AWS credentials not available", Err: err}
	}
	return nil
}
