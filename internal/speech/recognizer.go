package speech

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ErrNoTranscript means the recognizer finished without hearing anything.
var ErrNoTranscript = errors.New("speech: nothing was recognized")

// localePlaceholder in an argument is replaced with the session locale.
const localePlaceholder = "{locale}"

// CommandRecognizer runs an external speech-to-text command and takes the
// first non-empty line it prints as the final transcript, e.g.
//
//	vosk-transcribe --lang {locale}
type CommandRecognizer struct {
	Binary string
	Args   []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewCommandRecognizer splits a command line on whitespace.
func NewCommandRecognizer(commandLine string) (*CommandRecognizer, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no recognizer command configured", ErrRecognitionUnavailable)
	}
	return &CommandRecognizer{Binary: fields[0], Args: fields[1:]}, nil
}

func (c *CommandRecognizer) Available() bool {
	_, err := exec.LookPath(c.Binary)
	return err == nil
}

func (c *CommandRecognizer) StartOnce(ctx context.Context, locale string) (string, error) {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = strings.ReplaceAll(a, localePlaceholder, locale)
	}

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.WaitDelay = time.Second
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}
	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %v", ErrRecognitionUnavailable, err)
		}
		return "", fmt.Errorf("starting recognizer %s: %w", c.Binary, err)
	}
	c.mu.Lock()
	c.cmd = cmd
	c.mu.Unlock()

	var text string
	sc := bufio.NewScanner(stdout)
	for sc.Scan() {
		if t := strings.TrimSpace(sc.Text()); t != "" {
			text = t
			break
		}
	}
	if text != "" {
		// One transcript per session.
		_ = cmd.Process.Kill()
	}
	waitErr := cmd.Wait()

	c.mu.Lock()
	if c.cmd == cmd {
		c.cmd = nil
	}
	c.mu.Unlock()

	switch {
	case text != "":
		return text, nil
	case ctx.Err() != nil:
		return "", ctx.Err()
	case waitErr != nil:
		return "", fmt.Errorf("recognizer %s: %w", c.Binary, waitErr)
	}
	return "", ErrNoTranscript
}

// Stop kills a running recognizer.
func (c *CommandRecognizer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	c.cmd = nil
}
