package ttyl

import "log"

const (
	defaultRows = 24
	defaultCols = 80
)

type settings struct {
	rows, cols int
	palette    Palette
	scrollback int
	debug      bool

	shell    string
	args     []string
	startDir string
	encoding string
	logger   *log.Logger
}

func newSettings(opts []Option) *settings {
	s := &settings{rows: defaultRows, cols: defaultCols}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Option configures an Emulator or a Terminal.
type Option func(*settings)

// WithSize sets the fixed number of rows and columns, the default is 24x80.
func WithSize(rows, cols int) Option {
	return func(s *settings) {
		s.rows, s.cols = rows, cols
	}
}

// WithPalette overrides the RGB values of named colors.
func WithPalette(p Palette) Option {
	return func(s *settings) {
		s.palette = p.Copy()
	}
}

// WithScrollbackLimit caps how many evicted rows are kept, 0 (the default) keeps all of them.
func WithScrollbackLimit(rows int) Option {
	return func(s *settings) {
		s.scrollback = rows
	}
}

// WithDebug turns on logging of unknown or incomplete sequences.
func WithDebug(debug bool) Option {
	return func(s *settings) {
		s.debug = debug
	}
}

// WithLogger sends debug output to l instead of the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithShell sets the program started by RunLocalShell, the default is $SHELL.
func WithShell(path string, args ...string) Option {
	return func(s *settings) {
		s.shell = path
		s.args = args
	}
}

// WithStartDir sets the working directory of the shell, the default is the home directory.
func WithStartDir(dir string) Option {
	return func(s *settings) {
		s.startDir = dir
	}
}

// WithEncoding sets the encoding of bytes coming from the shell, using WHATWG names
// such as "utf-8" or "iso-8859-1". The default is UTF-8.
func WithEncoding(name string) Option {
	return func(s *settings) {
		s.encoding = name
	}
}
