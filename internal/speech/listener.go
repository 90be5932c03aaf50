package speech

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrAlreadyListening       = errors.New("speech: already listening")
	ErrRecognitionUnavailable = errors.New("speech: recognition not available")
)

// SpeechInput is a platform recognizer. StartOnce blocks until the first
// final transcript, an error, or ctx is cancelled.
type SpeechInput interface {
	StartOnce(ctx context.Context, locale string) (string, error)
	Stop()
}

// Listener allows one recognition session at a time. There is no timeout of
// its own; the platform's silence detection ends a session.
type Listener struct {
	in SpeechInput

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewListener(in SpeechInput) *Listener {
	return &Listener{in: in}
}

// StartListening returns the first transcript. Recognition errors are
// returned to the caller, who owns any "listening" UI state.
func (l *Listener) StartListening(ctx context.Context, code string) (string, error) {
	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return "", ErrAlreadyListening
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.cancel = nil
		l.mu.Unlock()
		cancel()
	}()

	text, err := l.in.StartOnce(ctx, LocaleFor(code))
	if err != nil {
		return "", fmt.Errorf("speech recognition: %w", err)
	}
	return text, nil
}

// StopListening ends the active session, if any.
func (l *Listener) StopListening() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel == nil {
		return
	}
	l.in.Stop()
	l.cancel()
}

func (l *Listener) Listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}
