package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/rshade/taskdeck/internal/tui"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt (typed "y" or "Y")
	Accepted bool
	// Cancelled is true if reading the answer failed
	Cancelled bool
}

// Confirm asks a yes/no question. It returns Accepted=false without asking
// in non-interactive (non-TTY) environments.
//
// The prompt defaults to "No" when the user presses Enter without input.
// "y" and "yes" in any case accept; anything else declines.
func Confirm(writer io.Writer, reader io.Reader, question string) PromptResult {
	if !tui.IsTTY() {
		return PromptResult{Accepted: false}
	}

	fmt.Fprintf(writer, "? %s [y/N] ", question)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}

// ErrNoPassword is returned when no password could be read.
var ErrNoPassword = errors.New("no password given")

// readPassword reads a password from the first line of reader when
// fromStdin is set, otherwise from the terminal without echo.
func readPassword(writer io.Writer, reader io.Reader, fromStdin bool, label string) (string, error) {
	if fromStdin {
		scanner := bufio.NewScanner(reader)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("reading password: %w", err)
			}
			return "", ErrNoPassword
		}
		pw := strings.TrimRight(scanner.Text(), "\r")
		if pw == "" {
			return "", ErrNoPassword
		}
		return pw, nil
	}

	if !tui.IsInputTTY() {
		return "", fmt.Errorf("%w: %w (use --password-stdin)", ErrUsage, ErrNoPassword)
	}
	fmt.Fprintf(writer, "%s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(writer)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if len(raw) == 0 {
		return "", ErrNoPassword
	}
	return string(raw), nil
}

// readLine prompts for one line on a terminal.
func readLine(writer io.Writer, reader io.Reader, label string) (string, error) {
	if !tui.IsInputTTY() {
		return "", fmt.Errorf("%w: %s is required", ErrUsage, strings.ToLower(label))
	}
	fmt.Fprintf(writer, "%s: ", label)
	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		return "", fmt.Errorf("%w: %s is required", ErrUsage, strings.ToLower(label))
	}
	return strings.TrimSpace(scanner.Text()), nil
}
