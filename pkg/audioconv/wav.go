package audioconv

import (
	"errors"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV writes mono float32 samples as a 16-bit PCM WAV file.
func EncodeWAV(pcm []float32, sampleRate int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, errors.New("no samples")
	}

	ints := make([]int, len(pcm))
	for i, v := range pcm {
		ints[i] = int(math.Round(clamp(float64(v), -1, 1) * 32767))
	}

	w := &memFile{}
	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           ints,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// RMS is the root-mean-square level of pcm; 0 for no samples.
func RMS(pcm []float32) float64 {
	if len(pcm) == 0 {
		return 0
	}
	var s float64
	for _, x := range pcm {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s / float64(len(pcm)))
}

// memFile is the in-memory io.WriteSeeker the wav encoder needs to patch
// its header on Close.
type memFile struct {
	buf []byte
	pos int
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	n := copy(m.buf[m.pos:], p)
	m.pos += n
	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(m.pos) + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("memfile: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("memfile: negative position")
	}
	m.pos = int(abs)
	return abs, nil
}
