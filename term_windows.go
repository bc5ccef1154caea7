//go:build windows
// +build windows

package ttyl

import (
	"io"
	"os"
	"syscall"

	"github.com/ActiveState/termtest/conpty"
)

const defaultWindowsShell = "C:\\WINDOWS\\System32\\WindowsPowerShell\\v1.0\\powershell.exe"

func (t *Terminal) startPTY() (io.WriteCloser, io.Reader, io.Closer, *os.Process, error) {
	cpty, err := conpty.New(int16(t.emu.Cols()), int16(t.emu.Rows()))
	if err != nil {
		return nil, nil, nil, nil, err
	}

	shell := t.shell
	if shell == "" {
		shell = defaultWindowsShell
	}
	env := append(os.Environ(), "TERM=xterm-256color")
	pid, _, err := cpty.Spawn(shell, append([]string{shell}, t.args...), &syscall.ProcAttr{
		Dir: t.startingDir(),
		Env: env,
	})
	if err != nil {
		_ = cpty.Close()
		return nil, nil, nil, nil, err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		_ = cpty.Close()
		return nil, nil, nil, nil, err
	}
	return cpty.InPipe(), cpty.OutPipe(), cpty, process, nil
}
