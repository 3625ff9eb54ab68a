// Package prompt reads operator answers from the terminal.
package prompt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/agentstation/catalogadmin/pkg/errors"
)

// Confirm asks a yes/no question and reports whether the answer was yes.
// Anything other than "y" or "yes" counts as no, including EOF.
func Confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N] ", question)

	response, err := readLine(r)
	if err != nil && response == "" {
		fmt.Fprintln(w)
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// Line asks for a single line of input and returns it trimmed.
func Line(r io.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)

	response, err := readLine(r)
	if err != nil && response == "" {
		return "", errors.WrapIO("read", label, err)
	}
	return strings.TrimSpace(response), nil
}

// Password reads a secret without echo when in is a terminal, and falls
// back to a plain line read otherwise.
func Password(in io.Reader, w io.Writer, label string) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return Line(in, w, label)
	}

	fmt.Fprintf(w, "%s: ", label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", errors.WrapIO("read", label, err)
	}
	return string(secret), nil
}

// readLine reads up to and excluding the next newline. It reads one byte
// at a time so that consecutive prompts can share r without losing input
// to a buffer.
func readLine(r io.Reader) (string, error) {
	var b strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return strings.TrimSuffix(b.String(), "\r"), nil
			}
			b.WriteByte(buf[0])
		}
		if err != nil {
			return b.String(), err
		}
	}
}
