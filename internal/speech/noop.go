package speech

import "context"

// NoopSynthesizer has no voices and speaks nothing.
type NoopSynthesizer struct{}

func (NoopSynthesizer) Voices(context.Context) ([]Voice, error) { return nil, nil }
func (NoopSynthesizer) Speak(context.Context, Utterance) error  { return nil }
func (NoopSynthesizer) Cancel()                                 {}

// NoopRecognizer always reports that recognition is unavailable.
type NoopRecognizer struct{}

func (NoopRecognizer) StartOnce(context.Context, string) (string, error) {
	return "", ErrRecognitionUnavailable
}
func (NoopRecognizer) Stop() {}
