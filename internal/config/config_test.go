package config

import (
	"os"
	"path/filepath"
	"testing"
)

var envKeys = []string{
	"SHOPVOX_MODE", "SHOPVOX_LOG_LEVEL", "SHOPVOX_LOCALE", "SHOPVOX_HISTORY",
	"SHOPVOX_PROXY", "OPENAI_API_KEY", "SHOPVOX_STT_MODEL", "SHOPVOX_TAGGER",
	"SHOPVOX_TAGGER_MODEL", "SHOPVOX_BUS_URL", "SHOPVOX_SOCKET", "SHOPVOX_BEEP",
	"SHOPVOX_SPEAK", "SHOPVOX_VOICE",
}

// clearEnv blanks every key for the test and unsets it so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func noEnvFile(t *testing.T) []string {
	return []string{"--env", filepath.Join(t.TempDir(), "missing.env")}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(noEnvFile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != ModeREPL {
		t.Errorf("mode = %q, want %q", cfg.Mode, ModeREPL)
	}
	if cfg.Locale != "en-US" {
		t.Errorf("locale = %q, want en-US", cfg.Locale)
	}
	if cfg.HistoryPath != "history.json" {
		t.Errorf("history = %q, want history.json", cfg.HistoryPath)
	}
	if cfg.STTModel != "whisper-1" {
		t.Errorf("stt model = %q, want whisper-1", cfg.STTModel)
	}
	if cfg.Tagger != TaggerNone {
		t.Errorf("tagger = %q, want %q", cfg.Tagger, TaggerNone)
	}
	if cfg.Speak {
		t.Error("speak should default to false")
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHOPVOX_MODE", "bus")
	t.Setenv("SHOPVOX_HISTORY", "/var/lib/shopvox/history.json")
	t.Setenv("SHOPVOX_SPEAK", "true")
	t.Setenv("SHOPVOX_BUS_URL", "ws://hub:9000/ws")

	cfg, err := Load(noEnvFile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != ModeBus {
		t.Errorf("mode = %q, want bus", cfg.Mode)
	}
	if cfg.HistoryPath != "/var/lib/shopvox/history.json" {
		t.Errorf("history = %q", cfg.HistoryPath)
	}
	if !cfg.Speak {
		t.Error("speak = false, want true")
	}
	if cfg.BusURL != "ws://hub:9000/ws" {
		t.Errorf("bus url = %q", cfg.BusURL)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHOPVOX_HISTORY", "env.json")
	t.Setenv("SHOPVOX_LOG_LEVEL", "warn")

	args := append(noEnvFile(t), "--history", "flag.json")
	cfg, err := Load(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HistoryPath != "flag.json" {
		t.Errorf("history = %q, want flag.json", cfg.HistoryPath)
	}
	// unchanged flags keep the env value
	if cfg.LogLevel != "warn" {
		t.Errorf("log level = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("OPENAI_API_KEY=sk-file\nSHOPVOX_TAGGER=openai\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{"--env", path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-file" {
		t.Errorf("api key = %q, want sk-file", cfg.OpenAIAPIKey)
	}
	if cfg.Tagger != TaggerOpenAI {
		t.Errorf("tagger = %q, want openai", cfg.Tagger)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "unknown mode", args: []string{"--mode", "gui"}},
		{name: "unknown tagger", env: map[string]string{"SHOPVOX_TAGGER": "spacy"}},
		{name: "unknown log level", args: []string{"--log", "loud"}},
		{name: "daemon without key", args: []string{"--mode", "daemon"}},
		{name: "audio file without key", args: []string{"--audio", "cmd.wav"}},
		{name: "openai tagger without key", args: []string{"--tagger", "openai"}},
		{name: "bad flag", args: []string{"--nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(append(noEnvFile(t), tt.args...)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNeedsOpenAI(t *testing.T) {
	tests := []struct {
		cfg  Config
		want bool
	}{
		{Config{Mode: ModeREPL, Tagger: TaggerNone}, false},
		{Config{Mode: ModeBus, Tagger: TaggerNone}, false},
		{Config{Mode: ModeDaemon, Tagger: TaggerNone}, true},
		{Config{Mode: ModeREPL, Tagger: TaggerOpenAI}, true},
		{Config{Mode: ModeREPL, Tagger: TaggerNone, AudioFile: "a.wav"}, true},
	}
	for _, tt := range tests {
		if got := tt.cfg.NeedsOpenAI(); got != tt.want {
			t.Errorf("%+v: NeedsOpenAI = %v, want %v", tt.cfg, got, tt.want)
		}
	}
}
