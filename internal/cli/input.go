package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ask prints a prompt to w and reads a single line from r. The trailing
// newline is trimmed. If EOF occurs after some input was read, the partial
// line is returned.
//
//	Prompt text
//	> _
func ask(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question. Anything other than y or yes is no.
func confirm(r *bufio.Reader, w io.Writer, prompt string) (bool, error) {
	answer, err := ask(r, w, prompt+" [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
