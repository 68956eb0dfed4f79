// Command speech reads text aloud through the configured TTS backend and
// renders a live spectrum meter while it plays.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/insight-reader/speech/tts"
	"github.com/insight-reader/speech/tts/providers"
)

var (
	engineFlag   string
	validateFlag bool
	quietFlag    bool
)

var (
	meterStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"})
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"})
)

var rootCmd = &cobra.Command{
	Use:   "speech [text]",
	Short: "Read text aloud",
	Long:  "Speech synthesizes text with a local or cloud TTS backend and plays it.\nText comes from the arguments, or from stdin when no arguments are given.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runSpeech,
}

func init() {
	rootCmd.Flags().StringVarP(&engineFlag, "engine", "e", "", "TTS engine (piper, polly)")
	rootCmd.Flags().BoolVar(&validateFlag, "validate", false, "check backend configuration and exit")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "no spectrum meter")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSpeech(cmd *cobra.Command, args []string) error {
	// Local settings often live next to the voice models; a missing .env
	// is not an error.
	_ = godotenv.Load()

	cfg, err := tts.LoadConfig()
	if err != nil {
		return err
	}
	if engineFlag != "" {
		cfg.Engine = engineFlag
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	provider, err := providers.New(cfg)
	if err != nil {
		return err
	}

	if validateFlag {
		if err := provider.ValidateConfig(); err != nil {
			return err
		}
		fmt.Printf("%s configuration OK\n", provider.Name())
		return nil
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return fmt.Errorf("no text to speak")
	}

	log.Info("speaking", "engine", provider.Name(), "chars", len(text))
	if err := provider.Speak(text); err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	skipFwd, skipBack := skipSignals()

	ticker := time.NewTicker(75 * time.Millisecond)
	defer ticker.Stop()
loop:
	for provider.IsPlaying() || provider.IsPaused() {
		select {
		case <-interrupt:
			_ = provider.Stop()
			break loop
		case <-skipFwd:
			provider.SkipForward(cfg.SkipSeconds)
		case <-skipBack:
			provider.SkipBackward(cfg.SkipSeconds)
		case <-ticker.C:
			if !quietFlag {
				line := renderMeter(provider.FrequencyBands(cfg.Bands), provider.Progress())
				fmt.Printf("\r%s", line)
			}
		}
	}
	if !quietFlag {
		fmt.Printf("\r%s\r", strings.Repeat(" ", cfg.Bands+8))
	}
	return nil
}

// renderMeter draws one spectrum line: a bar rune per band plus the
// playback percentage.
func renderMeter(bands []float64, progress float64) string {
	const levels = " ▁▂▃▄▅▆▇█"
	runes := []rune(levels)
	var b strings.Builder
	for _, v := range bands {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		idx := int(v * float64(len(runes)-1))
		b.WriteRune(runes[idx])
	}
	pct := labelStyle.Render(fmt.Sprintf(" %3.0f%%", progress*100))
	return meterStyle.Render(b.String()) + pct
}
