package narration

import (
	"context"
	"errors"
)

var errSpeechDisabled = errors.New("speech synthesis is disabled")

// noneTTS always fails so every segment falls back to silence.
type noneTTS struct{}

func (noneTTS) Speak(context.Context, string, string) error {
	return errSpeechDisabled
}
