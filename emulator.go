package ttyl

import (
	"log"
	"sync"
)

// Mode names that are not plain numeric parameters.
const (
	// ModeBracketedPaste is set while the shell wants pasted text wrapped in markers.
	ModeBracketedPaste = "2004"
	// ModeApplicationKeypad is set by ESC = and cleared by ESC >.
	ModeApplicationKeypad = "DECKPAM"
)

const (
	bracketedPasteStart = "\x1b[200~"
	bracketedPasteEnd   = "\x1b[201~"
	maxTitleStackDepth  = 10
)

// Delta describes what a call to Apply changed.
type Delta struct {
	// Responses holds bytes the terminal must send back to the shell, such as cursor reports.
	Responses []byte
	// Scrolled counts the rows moved into scrollback.
	Scrolled int

	ScrollbackCleared bool
	TitleChanged      bool
	DirectoryChanged  bool
	ModesChanged      bool
	Bell              bool
	// Incomplete is set when the chunk ended inside an escape sequence.
	Incomplete bool
}

// Emulator interprets terminal output and keeps the resulting screen.
// All methods are safe for concurrent use; Apply holds the lock for a whole chunk
// so readers never see a partly applied chunk.
type Emulator struct {
	mu sync.Mutex

	screen *ScreenBuffer
	state  parseState

	fg, bg             Color
	modes              map[string]bool
	title              string
	titleStack         []string
	directory          string
	palette            Palette
	g0Charset          charSet
	g1Charset          charSet
	useG1CharSet       bool
	savedRow, savedCol int

	oscHandlers map[int]func(string)
	dcsHandlers map[string]func(string)
	callbacks   []func()

	debug bool
	log   *log.Logger
	delta Delta
}

// NewEmulator creates an emulator with a blank screen.
func NewEmulator(opts ...Option) (*Emulator, error) {
	return newEmulator(newSettings(opts))
}

func newEmulator(s *settings) (*Emulator, error) {
	screen, err := NewScreenBuffer(s.rows, s.cols)
	if err != nil {
		return nil, err
	}
	screen.SetScrollbackLimit(s.scrollback)

	return &Emulator{
		screen:      screen,
		fg:          DefaultForeground,
		bg:          DefaultBackground,
		modes:       make(map[string]bool),
		palette:     s.palette,
		oscHandlers: make(map[int]func(string)),
		dcsHandlers: make(map[string]func(string)),
		debug:       s.debug,
		log:         s.logger,
	}, nil
}

// Apply interprets one chunk of decoded shell output.
// Sequences cut off at the end of the chunk are resumed by the next call.
func (e *Emulator) Apply(chunk string) Delta {
	e.mu.Lock()
	d, calls := e.apply(chunk)
	e.mu.Unlock()

	for _, call := range calls {
		call()
	}
	return d
}

func (e *Emulator) apply(chunk string) (Delta, []func()) {
	e.delta = Delta{}
	for _, r := range chunk {
		e.handleRune(r)
	}
	if e.state.stage != stateGround {
		e.delta.Incomplete = true
		if e.debug {
			e.log.Printf("Incomplete chunk: %q", e.state.pending())
		}
	}
	calls := e.callbacks
	e.callbacks = nil
	return e.finishDelta(), calls
}

// Flush discards any partly received sequence, used when the stream has ended.
func (e *Emulator) Flush() Delta {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.delta = Delta{}
	if e.state.stage != stateGround {
		if e.debug {
			e.log.Printf("Discarding unfinished sequence: %q", e.state.pending())
		}
		e.state.reset()
	}
	return e.finishDelta()
}

func (e *Emulator) finishDelta() Delta {
	e.delta.Scrolled = e.screen.takeEvictions()
	d := e.delta
	e.delta = Delta{}
	return d
}

func (e *Emulator) respond(b []byte) {
	e.delta.Responses = append(e.delta.Responses, b...)
}

func (e *Emulator) setMode(name string, on bool) {
	e.modes[name] = on
	e.delta.ModesChanged = true
}

func (e *Emulator) setTitle(title string) {
	e.title = title
	e.delta.TitleChanged = true
}

// RegisterOSCHandler overrides the handling of an OSC command number.
// The handler receives the text after the first ';'. Handlers are called once the chunk
// containing the sequence has been applied and the emulator is unlocked, so they may use
// any other Emulator method.
func (e *Emulator) RegisterOSCHandler(command int, handler func(data string)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.oscHandlers[command] = handler
}

// RegisterDCSHandler receives device control strings that start with prefix.
// The handler is passed the remainder of the string, after the chunk has been applied,
// as for RegisterOSCHandler.
func (e *Emulator) RegisterDCSHandler(prefix string, handler func(data string)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dcsHandlers[prefix] = handler
}

// Rows returns the number of visible rows.
func (e *Emulator) Rows() int {
	return e.screen.Rows()
}

// Cols returns the number of columns.
func (e *Emulator) Cols() int {
	return e.screen.Cols()
}

// Cursor returns the zero based cursor position.
func (e *Emulator) Cursor() (row, col int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.screen.Cursor()
}

// Title returns the current window title.
func (e *Emulator) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.title
}

// Directory returns the working directory last reported by the shell with OSC 7.
func (e *Emulator) Directory() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.directory
}

// Mode reports the state of a terminal mode such as "?25" or ModeBracketedPaste.
func (e *Emulator) Mode(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.modes[name]
}

// Colors returns the foreground and background applied to new characters.
func (e *Emulator) Colors() (fg, bg Color) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.fg, e.bg
}

// Palette returns the named color overrides.
func (e *Emulator) Palette() Palette {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.palette.Copy()
}

// SetPalette replaces the named color overrides.
func (e *Emulator) SetPalette(p Palette) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.palette = p.Copy()
}

// Resolve converts a color using this emulator's palette.
func (e *Emulator) Resolve(c Color) RGB {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Resolve(c, e.palette)
}

// reset puts the emulator back into its initial state, as ESC c does. Scrollback is kept.
func (e *Emulator) reset() {
	e.fg, e.bg = DefaultForeground, DefaultBackground
	e.modes = make(map[string]bool)
	e.delta.ModesChanged = true
	e.titleStack = nil
	e.g0Charset, e.g1Charset = charSetANSII, charSetANSII
	e.useG1CharSet = false
	e.savedRow, e.savedCol = 0, 0
	e.screen.Reset()
}
