package config

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// TerminalIO is where output is written and prompts are read from.
type TerminalIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var DefaultTermIO = TerminalIO{
	Stdin:  os.Stdin,
	Stdout: os.Stdout,
	Stderr: os.Stderr,
}

// StdinIsTerminal reports whether Stdin is an interactive terminal.
func (t TerminalIO) StdinIsTerminal() bool {
	f, ok := t.Stdin.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
