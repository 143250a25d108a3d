// Package prompt asks for the story, task and time spent that a commit
// didn't mention.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jeffrom/agilog/config"
	"github.com/jeffrom/agilog/effort"
	"github.com/jeffrom/agilog/model"
)

// Console prompts on a terminal. An empty answer, or end of input,
// declines.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

var _ effort.MissingDataResolver = (*Console)(nil)

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// New returns a Console if stdin is a terminal and interactive is set, and
// a resolver that always declines otherwise.
func New(term config.TerminalIO, interactive bool) effort.MissingDataResolver {
	if !interactive || !term.StdinIsTerminal() {
		return effort.Decline{}
	}
	return NewConsole(term.Stdin, term.Stdout)
}

func (c *Console) ResolveStoryAndTask(cmt *model.Commit) (int, string, bool) {
	c.describe(cmt, "is missing a story or task")

	storyID, ok := c.askInt("Story id")
	if !ok {
		return 0, "", false
	}
	code, ok := c.ask("Task code")
	if !ok {
		return 0, "", false
	}
	return storyID, code, true
}

func (c *Console) ResolveMinutes(cmt *model.Commit) (int, bool) {
	c.describe(cmt, "doesn't say how long it took")
	return c.askInt("Minutes spent")
}

func (c *Console) describe(cmt *model.Commit, problem string) {
	fmt.Fprintf(c.out, "\nCommit %s %s:\n  %s\n", cmt.ShortID(), problem, cmt.Description)
}

func (c *Console) askInt(label string) (int, bool) {
	for {
		s, ok := c.ask(label)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err == nil && n > 0 {
			return n, true
		}
		fmt.Fprintf(c.out, "%q is not a positive number\n", s)
	}
}

func (c *Console) ask(label string) (string, bool) {
	fmt.Fprintf(c.out, "%s (blank to skip): ", label)
	line, err := c.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" || (err != nil && err != io.EOF) {
		return "", false
	}
	return line, true
}
