package stt

import (
	"bytes"
	"context"
	log "log/slog"
	"strings"

	openai "github.com/openai/openai-go/v3"

	"shopvox/pkg/audioconv"
)

// SilenceRMS is the level below which a recording counts as silence.
const SilenceRMS = 0.005

type OpenAIOptions struct {
	Model      string  // default whisper-1
	Locale     string  // BCP 47, e.g. "en-US"
	SilenceRMS float64 // 0 uses SilenceRMS
}

// OpenAITranscriber uploads audio to the OpenAI transcription endpoint.
// The client should be built with retries disabled.
type OpenAITranscriber struct {
	client   openai.Client
	model    string
	language string
	silence  float64
}

var _ Transcriber = (*OpenAITranscriber)(nil)

func NewOpenAITranscriber(client openai.Client, opt OpenAIOptions) *OpenAITranscriber {
	t := &OpenAITranscriber{
		client:   client,
		model:    opt.Model,
		language: Language(opt.Locale),
		silence:  opt.SilenceRMS,
	}
	if t.model == "" {
		t.model = string(openai.AudioModelWhisper1)
	}
	if t.silence <= 0 {
		t.silence = SilenceRMS
	}
	return t
}

// Language maps a locale such as "en-US" to the ISO-639-1 code the API takes.
func Language(locale string) string {
	lang, _, _ := strings.Cut(strings.TrimSpace(locale), "-")
	lang, _, _ = strings.Cut(lang, "_")
	if lang == "" {
		return "en"
	}
	return strings.ToLower(lang)
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	pcm, err := audioconv.DecodePCM16k(audio, audioconv.Options{})
	if err != nil {
		return "", &RecognitionError{Reason: ReasonUnsupported, Err: err}
	}

	rms := audioconv.RMS(pcm)
	if rms < t.silence {
		log.Debug("Recording is silent", "rms", rms, "threshold", t.silence)
		return "", &RecognitionError{Reason: ReasonSilence}
	}

	upload := audio
	if audioconv.Sniff(audio) != audioconv.FormatWAV {
		upload, err = audioconv.EncodeWAV(pcm, audioconv.SampleRate)
		if err != nil {
			return "", &RecognitionError{Reason: ReasonUnsupported, Err: err}
		}
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     openai.File(bytes.NewReader(upload), "audio.wav", "audio/wav"),
		Model:    openai.AudioModel(t.model),
		Language: openai.String(t.language),
	})
	if err != nil {
		return "", &RecognitionError{Reason: ReasonService, Err: err}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", &RecognitionError{Reason: ReasonEmpty}
	}

	log.Debug("Transcribed", "text", text, "language", t.language)
	return text, nil
}
