package speech

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// espeakBaseWPM is espeak-ng's default speaking rate; Utterance.Rate scales it.
const espeakBaseWPM = 175

// ESpeakSynthesizer speaks through the espeak-ng command line tool, for
// terminals and kiosks without a browser.
type ESpeakSynthesizer struct {
	Binary string

	mu  sync.Mutex
	cmd *exec.Cmd
}

func NewESpeakSynthesizer(binary string) *ESpeakSynthesizer {
	if binary == "" {
		binary = "espeak-ng"
	}
	return &ESpeakSynthesizer{Binary: binary}
}

// Available reports whether the binary is on PATH.
func (e *ESpeakSynthesizer) Available() bool {
	_, err := exec.LookPath(e.Binary)
	return err == nil
}

func (e *ESpeakSynthesizer) Voices(ctx context.Context) ([]Voice, error) {
	out, err := exec.CommandContext(ctx, e.Binary, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("listing espeak voices: %w", err)
	}
	return parseESpeakVoices(out), nil
}

// parseESpeakVoices reads the "--voices" table:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  hi              --/M      Hindi              inc/hi
func parseESpeakVoices(out []byte) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, Voice{Name: fields[3], Lang: fields[1]})
	}
	return voices
}

func (e *ESpeakSynthesizer) Speak(ctx context.Context, u Utterance) error {
	args := []string{"-s", strconv.Itoa(int(u.Rate * espeakBaseWPM))}
	if u.Voice != nil {
		args = append(args, "-v", u.Voice.Lang)
	} else if u.Lang != "" {
		args = append(args, "-v", baseOf(u.Lang))
	}
	args = append(args, "-a", strconv.Itoa(int(u.Volume*100)), "--", u.Text)

	cmd := exec.CommandContext(ctx, e.Binary, args...)
	e.mu.Lock()
	e.cmd = cmd
	e.mu.Unlock()

	err := cmd.Run()

	e.mu.Lock()
	if e.cmd == cmd {
		e.cmd = nil
	}
	e.mu.Unlock()
	return err
}

// Cancel kills speech in progress.
func (e *ESpeakSynthesizer) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd != nil && e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
	}
	e.cmd = nil
}
