// Package notify plays the short cue that tells the user the microphone is open.
package notify

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

type Beeper struct {
	path string

	once    sync.Once
	initErr error
	rate    beep.SampleRate
}

// NewBeeper plays the mp3 at path. An empty path gives a silent Beeper.
func NewBeeper(path string) *Beeper {
	return &Beeper{path: path}
}

func (b *Beeper) Enabled() bool { return b.path != "" }

// Beep blocks until the cue has finished playing.
func (b *Beeper) Beep() error {
	if !b.Enabled() {
		return nil
	}

	f, err := os.Open(b.path)
	if err != nil {
		return fmt.Errorf("open beep: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode beep: %w", err)
	}
	defer streamer.Close()

	b.once.Do(func() {
		b.rate = format.SampleRate
		b.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
	if b.initErr != nil {
		return fmt.Errorf("init speaker: %w", b.initErr)
	}

	var s beep.Streamer = streamer
	if format.SampleRate != b.rate {
		s = beep.Resample(4, format.SampleRate, b.rate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}
