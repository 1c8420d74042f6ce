// Package stt turns recorded speech into text.
package stt

import (
	"context"
	"fmt"
)

type Reason string

const (
	ReasonSilence     Reason = "silence"
	ReasonUnsupported Reason = "unsupported audio"
	ReasonService     Reason = "service failure"
	ReasonEmpty       Reason = "empty transcript"
)

// RecognitionError is returned for every failed transcription. Callers
// must not parse anything after one.
type RecognitionError struct {
	Reason Reason
	Err    error
}

func (e *RecognitionError) Error() string {
	if e.Err == nil {
		return "recognition failed: " + string(e.Reason)
	}
	return fmt.Sprintf("recognition failed: %s: %v", e.Reason, e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
