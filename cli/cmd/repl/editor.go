package repl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/weft/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It opens the user's $EDITOR on
// a scratch file seeded with the current input and keeps what was saved as
// a code block to run.
type editCommand struct {
	ctx    context.Context
	seed   string
	logger log.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// src is the saved block, empty when the user cleared the file.
	src string
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run implements [tea.ExecCommand].
func (c *editCommand) Run() error {
	f, err := os.CreateTemp("", "weft-block-*.expr")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	_, err = f.WriteString(c.seed)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(c.ctx, editor, path)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.stdin, c.stdout, c.stderr

	if err := cmd.Run(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c.src = strings.TrimRight(string(data), "\n")

	c.logger.TraceContext(c.ctx, "repl edit",
		slog.String("editor", editor),
		slog.Int("length", len(c.src)),
	)

	return nil
}
