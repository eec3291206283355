// Package console is the designer's line-oriented shell.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"spaceship-designer/internal/agent"
	"spaceship-designer/internal/commands"
	"spaceship-designer/internal/logger"
)

const prompt = "> "

// Console reads lines and routes them. Lines starting with "cmd " are parsed as
// subcommand + flags and executed via the command registry. Lines holding a JSON
// object (optionally fenced) go to the agent. "quit" or "exit" ends the session;
// anything else is kept in the history as a note.
type Console struct {
	hist  *logger.History
	reg   *commands.Registry
	agent *agent.Agent
	out   io.Writer
}

// New returns a console writing replies to out. agent may be nil to disable scripts.
func New(hist *logger.History, reg *commands.Registry, a *agent.Agent, out io.Writer) *Console {
	return &Console{hist: hist, reg: reg, agent: a, out: out}
}

// History returns the session history.
func (c *Console) History() *logger.History {
	return c.hist
}

// Run reads lines from in until EOF, "quit" or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader, interactive bool) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		if interactive {
			fmt.Fprint(c.out, prompt)
		}
		if !sc.Scan() {
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !c.Handle(ctx, sc.Text()) {
			return nil
		}
	}
}

// Handle processes one line and reports whether the session should continue.
func (c *Console) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	c.hist.Log(line)

	switch {
	case line == "quit" || line == "exit":
		return false
	case line == "help":
		c.reg.Usage(c.out)
	case line == "cmd" || strings.HasPrefix(line, commands.Prefix):
		args, _ := commands.Parse(line + " ")
		if err := c.reg.Execute(args); err != nil {
			c.reply("error: " + err.Error())
		}
	case c.agent != nil && (strings.HasPrefix(line, "{") || strings.HasPrefix(line, "```")):
		summary, err := c.agent.Run(ctx, line)
		if err != nil {
			c.reply("error: " + err.Error())
		} else {
			c.reply(summary)
		}
	default:
		c.reply(`noted. Commands start with "cmd " (try "help").`)
	}
	return true
}

func (c *Console) reply(msg string) {
	c.hist.Log(msg)
	fmt.Fprintln(c.out, msg)
}
