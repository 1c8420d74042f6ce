// Package config resolves settings from defaults, the environment, an
// optional .env file and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"
)

const (
	ModeREPL   = "repl"
	ModeDaemon = "daemon"
	ModeBus    = "bus"

	TaggerNone   = "none"
	TaggerOpenAI = "openai"
)

var (
	modes     = []string{ModeREPL, ModeDaemon, ModeBus}
	taggers   = []string{TaggerNone, TaggerOpenAI}
	logLevels = []string{"debug", "info", "warn", "error"}
)

type Config struct {
	Mode        string `env:"SHOPVOX_MODE" envDefault:"repl"`
	LogLevel    string `env:"SHOPVOX_LOG_LEVEL" envDefault:"info"`
	Locale      string `env:"SHOPVOX_LOCALE" envDefault:"en-US"`
	HistoryPath string `env:"SHOPVOX_HISTORY" envDefault:"history.json"`
	Proxy       string `env:"SHOPVOX_PROXY"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	STTModel     string `env:"SHOPVOX_STT_MODEL" envDefault:"whisper-1"`
	Tagger       string `env:"SHOPVOX_TAGGER" envDefault:"none"`
	TaggerModel  string `env:"SHOPVOX_TAGGER_MODEL" envDefault:"gpt-5-nano"`

	BusURL string `env:"SHOPVOX_BUS_URL" envDefault:"ws://localhost:8092/ws"`
	Socket string `env:"SHOPVOX_SOCKET" envDefault:"/tmp/shopvox.sock"`

	BeepPath string `env:"SHOPVOX_BEEP"` // empty disables the listening beep
	Speak    bool   `env:"SHOPVOX_SPEAK"`
	Voice    string `env:"SHOPVOX_VOICE" envDefault:"en"`

	// flag only
	EnvFile   string
	AudioFile string
}

// Load parses args (without the program name) and resolves the config.
func Load(args []string) (*Config, error) {
	flags := cli.NewFlagSet("shopvox", cli.ContinueOnError)
	envFile := flags.StringP("env", "e", ".env", "Env file path")
	mode := flags.StringP("mode", "m", ModeREPL, "Run mode: repl, daemon or bus")
	logLevel := flags.StringP("log", "l", "info", "Log level")
	proxyAddr := flags.StringP("proxy", "p", "", "Socks Proxy Address")
	history := flags.String("history", "history.json", "Purchase history file")
	socket := flags.String("socket", "/tmp/shopvox.sock", "Control socket path")
	url := flags.StringP("url", "u", "ws://localhost:8092/ws", "Url of hub")
	audioFile := flags.StringP("audio", "a", "", "Transcribe and run a single audio file")
	tagger := flags.String("tagger", TaggerNone, "Noun tagger: none or openai")
	speak := flags.Bool("speak", false, "Speak replies")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.EnvFile = *envFile
	cfg.AudioFile = *audioFile

	overrides := map[string]func(){
		"mode":    func() { cfg.Mode = *mode },
		"log":     func() { cfg.LogLevel = *logLevel },
		"proxy":   func() { cfg.Proxy = *proxyAddr },
		"history": func() { cfg.HistoryPath = *history },
		"socket":  func() { cfg.Socket = *socket },
		"url":     func() { cfg.BusURL = *url },
		"tagger":  func() { cfg.Tagger = *tagger },
		"speak":   func() { cfg.Speak = *speak },
	}
	for name, apply := range overrides {
		if flags.Changed(name) {
			apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NeedsOpenAI reports whether the configured run calls the OpenAI API on
// every interaction.
func (c *Config) NeedsOpenAI() bool {
	return c.AudioFile != "" || c.Mode == ModeDaemon || c.Tagger == TaggerOpenAI
}

func (c *Config) Validate() error {
	if !slices.Contains(modes, c.Mode) {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if !slices.Contains(taggers, c.Tagger) {
		return fmt.Errorf("unknown tagger %q", c.Tagger)
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.HistoryPath == "" {
		return errors.New("history path is required")
	}
	if c.NeedsOpenAI() && c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required for speech input and the openai tagger")
	}
	return nil
}
