package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// console reads one answer per line and writes prompts and results.
type console struct {
	in  *bufio.Scanner
	out io.Writer
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{in: bufio.NewScanner(in), out: out}
}

// ask prints label and returns the trimmed answer.
// ok is false once the input is exhausted.
func (c *console) ask(label string) (answer string, ok bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// confirm asks a yes/no question. Anything but s/si/y/yes is no.
func (c *console) confirm(label string) (bool, bool) {
	answer, ok := c.ask(label + " (s/n): ")
	if !ok {
		return false, false
	}
	switch strings.ToLower(answer) {
	case "s", "si", "sí", "y", "yes":
		return true, true
	}
	return false, true
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) println(args ...any) {
	fmt.Fprintln(c.out, args...)
}
