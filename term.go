package ttyl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/google/uuid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const bufLen = 32768 // 32KB buffer for output, to align with modern L1 cache

// Config is the window level state that listeners are told about.
type Config struct {
	Title         string
	Directory     string
	Rows, Columns uint
}

// Terminal drives an Emulator from a shell process or any other byte stream.
type Terminal struct {
	id    uuid.UUID
	emu   *Emulator
	log   *log.Logger
	debug bool

	config       Config
	listenerLock sync.Mutex
	listeners    []chan Config
	onUpdate     func(Delta)

	shell    string
	args     []string
	startDir string
	encoding encoding.Encoding

	inLock sync.Mutex
	in     io.WriteCloser
	out    io.Reader
	pty    io.Closer
	proc   *os.Process
	closed bool

	exitCode               int
	readWriterConfigurator ReadWriterConfigurator
}

// New sets up a terminal with a blank screen. Nothing is started until RunLocalShell or
// RunWithConnection is called.
func New(opts ...Option) (*Terminal, error) {
	s := newSettings(opts)
	enc, err := lookupEncoding(s.encoding)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	s.logger = log.New(s.logger.Writer(), s.logger.Prefix()+"["+id.String()[:8]+"] ", s.logger.Flags())
	emu, err := newEmulator(s)
	if err != nil {
		return nil, err
	}

	return &Terminal{
		id:       id,
		emu:      emu,
		log:      s.logger,
		debug:    s.debug,
		config:   Config{Rows: uint(s.rows), Columns: uint(s.cols)},
		shell:    s.shell,
		args:     s.args,
		startDir: s.startDir,
		encoding: enc,
		exitCode: -1,
	}, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// ID returns the unique identifier of this session.
func (t *Terminal) ID() uuid.UUID {
	return t.id
}

// Emulator returns the emulator that holds the screen state.
func (t *Terminal) Emulator() *Emulator {
	return t.emu
}

// Snapshot is a shortcut for t.Emulator().Snapshot().
func (t *Terminal) Snapshot() Snapshot {
	return t.emu.Snapshot()
}

// Config returns the current title, directory and size.
func (t *Terminal) Config() Config {
	t.listenerLock.Lock()
	defer t.listenerLock.Unlock()

	return t.config
}

// AddListener registers a channel that receives the Config whenever the title or directory changes.
// Sends never block, so a listener that is not ready misses that update.
func (t *Terminal) AddListener(listener chan Config) {
	t.listenerLock.Lock()
	defer t.listenerLock.Unlock()

	t.listeners = append(t.listeners, listener)
}

// RemoveListener stops updates to a channel added with AddListener.
func (t *Terminal) RemoveListener(listener chan Config) {
	t.listenerLock.Lock()
	defer t.listenerLock.Unlock()

	for i, l := range t.listeners {
		if l == listener {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

// OnUpdate sets a callback run after each chunk of output has been applied.
// It is called from the reading goroutine and must be set before the terminal is run.
func (t *Terminal) OnUpdate(f func(Delta)) {
	t.onUpdate = f
}

// SetReadWriter sets a configurator that can wrap the streams once they are connected.
func (t *Terminal) SetReadWriter(mw ReadWriterConfigurator) {
	t.readWriterConfigurator = mw
}

// ReadWriterConfigurator wraps the output reader and input writer of a connection,
// for example to record a session.
type ReadWriterConfigurator interface {
	SetupReadWriter(r io.Reader, w io.WriteCloser) (io.Reader, io.WriteCloser)
}

// ReadWriterConfiguratorFunc adapts a function to ReadWriterConfigurator.
type ReadWriterConfiguratorFunc func(r io.Reader, w io.WriteCloser) (io.Reader, io.WriteCloser)

// SetupReadWriter calls m.
func (m ReadWriterConfiguratorFunc) SetupReadWriter(r io.Reader, w io.WriteCloser) (io.Reader, io.WriteCloser) {
	return m(r, w)
}

func (t *Terminal) onConfigure() {
	t.listenerLock.Lock()
	defer t.listenerLock.Unlock()

	for _, l := range t.listeners {
		select {
		case l <- t.config:
		default:
			// channel blocked, might be closed
		}
	}
}

// RunLocalShell starts the shell on a pty and processes its output until it exits or ctx is done.
func (t *Terminal) RunLocalShell(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	in, out, pty, proc, err := t.startPTY()
	if err != nil {
		return fmt.Errorf("start pty: %w", err)
	}
	if err := t.connect(in, out); err != nil {
		_ = proc.Kill()
		_ = pty.Close()
		return err
	}
	t.pty, t.proc = pty, proc

	done := make(chan error, 1)
	go func() {
		done <- t.run()
	}()

	select {
	case err = <-done:
		if err != nil {
			_ = proc.Kill()
		}
	case <-ctx.Done():
		_ = proc.Kill()
		_ = t.close()
		err = <-done
	}

	t.wait()
	if cerr := t.close(); err == nil && cerr != nil && !isClosed(cerr) {
		err = cerr
	}
	return err
}

// RunWithConnection processes output read from out, writing responses and input to in.
// It returns when out reaches EOF or is closed.
func (t *Terminal) RunWithConnection(in io.WriteCloser, out io.Reader) error {
	if err := t.connect(in, out); err != nil {
		return err
	}

	err := t.run()
	if cerr := t.close(); err == nil && cerr != nil && !isClosed(cerr) {
		err = cerr
	}
	return err
}

func (t *Terminal) connect(in io.WriteCloser, out io.Reader) error {
	t.inLock.Lock()
	defer t.inLock.Unlock()

	if t.closed {
		return ErrSessionClosed
	}
	if t.in != nil {
		return errors.New("terminal is already running")
	}
	if t.readWriterConfigurator != nil {
		out, in = t.readWriterConfigurator.SetupReadWriter(out, in)
	}
	t.in, t.out = in, out
	return nil
}

func (t *Terminal) close() error {
	t.inLock.Lock()
	defer t.inLock.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	var err error
	if t.in != nil && t.in != t.pty {
		err = t.in.Close()
	}
	if t.pty != nil {
		if perr := t.pty.Close(); err == nil {
			err = perr
		}
	}
	return err
}

func (t *Terminal) wait() {
	if t.proc == nil {
		return
	}
	state, err := t.proc.Wait()
	if err != nil {
		if t.debug {
			t.log.Println("Wait for shell:", err)
		}
		return
	}

	t.inLock.Lock()
	t.exitCode = state.ExitCode()
	t.inLock.Unlock()
}

// ExitCode returns the exit code of the shell.
// It is -1 before the shell has exited, when the shell was killed by a signal,
// or when the terminal was run with a connection.
func (t *Terminal) ExitCode() int {
	t.inLock.Lock()
	defer t.inLock.Unlock()

	return t.exitCode
}

// Exit requests that the shell exits by sending EOT.
// If there are embedded shells it will exit the child one only.
func (t *Terminal) Exit() {
	_, _ = t.Write([]byte{0x4})
}

// Write sends input bytes to the shell.
func (t *Terminal) Write(b []byte) (int, error) {
	t.inLock.Lock()
	defer t.inLock.Unlock()

	if t.closed {
		return 0, ErrSessionClosed
	}
	if t.in == nil {
		return 0, ErrNotConnected
	}
	return t.in.Write(b)
}

// Paste sends text as typed input, wrapped in bracketed paste markers if the shell asked for them.
func (t *Terminal) Paste(text string) error {
	if t.emu.Mode(ModeBracketedPaste) {
		text = bracketedPasteStart + strings.ReplaceAll(text, bracketedPasteEnd, "") + bracketedPasteEnd
	}
	_, err := t.Write([]byte(text))
	return err
}

func (t *Terminal) run() error {
	out := transform.NewReader(t.out, t.encoding.NewDecoder())
	buf := make([]byte, bufLen)
	for {
		num, err := out.Read(buf)
		if num > 0 {
			t.handleDelta(t.emu.Apply(string(buf[:num])))
		}
		if err == nil {
			continue
		}

		t.handleDelta(t.emu.Flush())
		if isClosed(err) {
			return nil
		}
		fyne.LogError("pty read error", err)
		return err
	}
}

func (t *Terminal) handleDelta(d Delta) {
	if len(d.Responses) > 0 {
		if _, err := t.Write(d.Responses); err != nil && t.debug {
			t.log.Println("Failed to send response:", err)
		}
	}

	if d.TitleChanged || d.DirectoryChanged {
		t.listenerLock.Lock()
		t.config.Title = t.emu.Title()
		t.config.Directory = t.emu.Directory()
		t.listenerLock.Unlock()
		t.onConfigure()
	}

	if t.onUpdate != nil {
		t.onUpdate(d)
	}
}

// isClosed reports whether a read error just means the other end went away.
func isClosed(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		// linux reports EIO once the shell has exited
		return strings.Contains(pathErr.Err.Error(), "input/output error")
	}
	return false
}

func (t *Terminal) startingDir() string {
	if t.startDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			return home
		}
	}

	return t.startDir
}
