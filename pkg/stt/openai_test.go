package stt

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"shopvox/pkg/audioconv"
)

type fakeAPI struct {
	*httptest.Server
	calls    atomic.Int32
	language atomic.Value
}

func newFakeAPI(t *testing.T, text string, status int) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		f.language.Store(r.FormValue("language"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"text": text})
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) transcriber() *OpenAITranscriber {
	client := openai.NewClient(
		option.WithAPIKey("test"),
		option.WithBaseURL(f.URL+"/"),
		option.WithMaxRetries(0),
	)
	return NewOpenAITranscriber(client, OpenAIOptions{Locale: "en-US"})
}

func tone(t *testing.T, amp float64) []byte {
	t.Helper()
	pcm := make([]float32, audioconv.SampleRate/2)
	for i := range pcm {
		pcm[i] = float32(amp * math.Sin(2*math.Pi*440*float64(i)/audioconv.SampleRate))
	}
	data, err := audioconv.EncodeWAV(pcm, audioconv.SampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	return data
}

func reasonOf(t *testing.T, err error) Reason {
	t.Helper()
	var rerr *RecognitionError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RecognitionError, got %T (%v)", err, err)
	}
	return rerr.Reason
}

func TestTranscribe_Success(t *testing.T) {
	api := newFakeAPI(t, " add milk \n", http.StatusOK)

	text, err := api.transcriber().Transcribe(context.Background(), tone(t, 0.5))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "add milk" {
		t.Fatalf("text = %q, want %q", text, "add milk")
	}
	if lang, _ := api.language.Load().(string); lang != "en" {
		t.Fatalf("language = %q, want en", lang)
	}
}

func TestTranscribe_Failures(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		status    int
		audio     func(t *testing.T) []byte
		want      Reason
		wantCalls int32
	}{
		{
			name:   "silence",
			status: http.StatusOK,
			audio:  func(t *testing.T) []byte { return tone(t, 0) },
			want:   ReasonSilence,
		},
		{
			name:   "unsupported",
			status: http.StatusOK,
			audio:  func(t *testing.T) []byte { return []byte("definitely not audio") },
			want:   ReasonUnsupported,
		},
		{
			name:      "service failure",
			status:    http.StatusInternalServerError,
			audio:     func(t *testing.T) []byte { return tone(t, 0.5) },
			want:      ReasonService,
			wantCalls: 1,
		},
		{
			name:      "empty transcript",
			text:      "   ",
			status:    http.StatusOK,
			audio:     func(t *testing.T) []byte { return tone(t, 0.5) },
			want:      ReasonEmpty,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, tt.text, tt.status)

			text, err := api.transcriber().Transcribe(context.Background(), tt.audio(t))
			if text != "" {
				t.Fatalf("text = %q, want empty", text)
			}
			if got := reasonOf(t, err); got != tt.want {
				t.Fatalf("reason = %q, want %q", got, tt.want)
			}
			if got := api.calls.Load(); got != tt.wantCalls {
				t.Fatalf("api calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	tests := map[string]string{
		"en-US": "en",
		"de_DE": "de",
		"FR":    "fr",
		"":      "en",
	}
	for in, want := range tests {
		if got := Language(in); got != want {
			t.Errorf("Language(%q) = %q, want %q", in, got, want)
		}
	}
}
