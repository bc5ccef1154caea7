//go:build !windows
// +build !windows

package ttyl

import (
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"
)

func (t *Terminal) startPTY() (io.WriteCloser, io.Reader, io.Closer, *os.Process, error) {
	shell := t.shell
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "bash"
	}

	env := os.Environ()
	env = append(env, "TERM=xterm-256color")
	c := exec.Command(shell, t.args...)
	c.Dir = t.startingDir()
	c.Env = env

	// Start the command with a pty of the emulator's fixed size.
	f, err := pty.StartWithSize(c, &pty.Winsize{
		Rows: uint16(t.emu.Rows()), Cols: uint16(t.emu.Cols()),
	})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return f, f, f, c.Process, nil
}
