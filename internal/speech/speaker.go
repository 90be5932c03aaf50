package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Utterance settings used for every reply.
const (
	DefaultRate   = 0.9
	DefaultPitch  = 1.0
	DefaultVolume = 1.0
)

type Utterance struct {
	Text   string
	Lang   string
	Voice  *Voice
	Rate   float64
	Pitch  float64
	Volume float64
}

// TextToSpeech is a platform synthesizer.
type TextToSpeech interface {
	Voices(ctx context.Context) ([]Voice, error)
	Speak(ctx context.Context, u Utterance) error
	Cancel()
}

// Speaker reads replies aloud, one at a time.
type Speaker struct {
	tts    TextToSpeech
	logger zerolog.Logger
}

func NewSpeaker(tts TextToSpeech, logger zerolog.Logger) *Speaker {
	return &Speaker{tts: tts, logger: logger.With().Str("component", "speaker").Logger()}
}

// Speak cancels anything still playing, then speaks text with the best voice
// for the language code.
func (s *Speaker) Speak(ctx context.Context, text, code string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	s.tts.Cancel()

	u := Utterance{
		Text:   text,
		Lang:   LocaleFor(code),
		Rate:   DefaultRate,
		Pitch:  DefaultPitch,
		Volume: DefaultVolume,
	}

	voices, err := s.tts.Voices(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Could not list voices; using platform default")
	} else if v, ok := ChooseVoiceForLanguage(voices, code); ok {
		u.Voice = &v
		s.logger.Debug().Str("voice", v.Name).Str("lang", code).Msg("Selected voice")
	}

	if err := s.tts.Speak(ctx, u); err != nil {
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}

func (s *Speaker) StopSpeaking() {
	s.tts.Cancel()
}
