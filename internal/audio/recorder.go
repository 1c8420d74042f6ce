// Package audio captures a spoken command from the default microphone.
package audio

import (
	"context"
	"errors"
	"time"

	"github.com/gordonklaus/portaudio"

	"shopvox/pkg/audioconv"
)

const (
	sampleRate = audioconv.SampleRate
	frameSize  = 320 // 20ms
)

var ErrNoSpeech = errors.New("no speech recorded")

type Options struct {
	SilenceRMS  float64       // frame level that counts as speech
	SilenceHold time.Duration // trailing silence that ends the command
	MaxLength   time.Duration
}

var DefaultOptions = Options{
	SilenceRMS:  0.015,
	SilenceHold: 600 * time.Millisecond,
	MaxLength:   10 * time.Second,
}

type Recorder struct {
	opt Options
}

func NewRecorder(opt Options) *Recorder {
	if opt.SilenceRMS <= 0 {
		opt.SilenceRMS = DefaultOptions.SilenceRMS
	}
	if opt.SilenceHold <= 0 {
		opt.SilenceHold = DefaultOptions.SilenceHold
	}
	if opt.MaxLength <= 0 {
		opt.MaxLength = DefaultOptions.MaxLength
	}
	return &Recorder{opt: opt}
}

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// RecordAuto records from the first loud frame until SilenceHold of quiet,
// MaxLength, or ctx is done.
func (r *Recorder) RecordAuto(ctx context.Context) ([]float32, error) {
	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	return segment(ctx, stream, buf, r.opt)
}

// RecordWAV is RecordAuto encoded as a 16 kHz mono WAV file.
func (r *Recorder) RecordWAV(ctx context.Context) ([]byte, error) {
	pcm, err := r.RecordAuto(ctx)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, ErrNoSpeech
	}
	return audioconv.EncodeWAV(pcm, sampleRate)
}

// frameReader fills the shared frame buffer on each Read.
type frameReader interface {
	Read() error
}

func segment(ctx context.Context, src frameReader, buf []float32, opt Options) ([]float32, error) {
	frameDur := time.Second * time.Duration(len(buf)) / sampleRate
	maxFrames := int(opt.MaxLength / frameDur)
	holdFrames := int(opt.SilenceHold / frameDur)

	out := make([]float32, 0, sampleRate*3)
	var (
		speaking      bool
		silenceFrames int
	)

	for range maxFrames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := src.Read(); err != nil {
			return nil, err
		}

		if audioconv.RMS(buf) > opt.SilenceRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
			continue
		}
		if speaking {
			silenceFrames++
			if silenceFrames >= holdFrames {
				break
			}
			out = append(out, buf...)
		}
	}

	return out, nil
}
