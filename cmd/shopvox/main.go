package main

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	cli "github.com/spf13/pflag"

	"shopvox/internal/config"
	"shopvox/internal/history"
	"shopvox/internal/nlu"
	"shopvox/internal/pipeline"
	"shopvox/internal/proxy"
	"shopvox/internal/shop"
	"shopvox/internal/tts"
	"shopvox/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, cli.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "shopvox:", err)
		os.Exit(2)
	}

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[cfg.LogLevel],
	})))

	log.Info("Booting up", "mode", cfg.Mode, "history", cfg.HistoryPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	httpClient, err := proxy.NewClient(cfg.Proxy)
	if err != nil {
		return fmt.Errorf("proxy: %w", err)
	}

	var (
		tagger      nlu.Tagger = nlu.NoopTagger{}
		transcriber stt.Transcriber
	)
	if cfg.OpenAIAPIKey != "" {
		client := openai.NewClient(
			option.WithAPIKey(cfg.OpenAIAPIKey),
			option.WithHTTPClient(httpClient),
			option.WithMaxRetries(0),
		)
		transcriber = stt.NewOpenAITranscriber(client, stt.OpenAIOptions{
			Model:  cfg.STTModel,
			Locale: cfg.Locale,
		})
		if cfg.Tagger == config.TaggerOpenAI {
			tagger = nlu.NewOpenAITagger(client, cfg.TaggerModel)
		}
		log.Debug("Loaded OpenAI client", "stt", cfg.STTModel, "tagger", cfg.Tagger)
	} else {
		log.Warn("OPENAI_API_KEY not set, speech input disabled")
	}

	assistant := shop.NewAssistant(nlu.NewParser(tagger), history.NewFileStore(cfg.HistoryPath))
	pipe, err := pipeline.New(ctx, assistant, transcriber)
	if err != nil {
		return err
	}

	say := func(string) {}
	if cfg.Speak {
		speaker := tts.NewSpeaker(cfg.Voice)
		say = func(text string) {
			if err := speaker.Speak(text); err != nil {
				log.Error("Failed to voice out", "err", err)
			}
		}
	}

	log.Info("Boot up - successful")

	if cfg.AudioFile != "" {
		return runAudioFile(ctx, pipe, cfg.AudioFile, os.Stdout, say)
	}

	switch cfg.Mode {
	case config.ModeDaemon:
		return runDaemon(ctx, cfg, pipe, say)
	case config.ModeBus:
		return runBus(ctx, cfg, pipe)
	default:
		return runREPL(ctx, pipe, os.Stdin, os.Stdout, say)
	}
}
