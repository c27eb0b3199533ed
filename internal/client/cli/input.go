package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line from reader,
// trimming whitespace. If EOF occurs after some input was read, the partial
// line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetOptionalText is GetSimpleText with a default: an empty answer returns
// fallback. Used by the edit form so Enter keeps the current value.
func GetOptionalText(reader *bufio.Reader, prompt, fallback string, w io.Writer) (string, error) {
	text, err := GetSimpleText(reader, fmt.Sprintf("%s [%s]", prompt, fallback), w)
	if err != nil {
		return "", err
	}
	if text == "" {
		return fallback, nil
	}
	return text, nil
}

// GetPassword prints a prompt to w and reads a password from the terminal
// without echo. A newline is printed after the read to keep the UI tidy.
func GetPassword(prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
