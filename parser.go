package ttyl

import "strings"

const (
	asciiBell      = 7
	asciiBackspace = 8
	asciiEscape    = 27
	asciiDelete    = 0x7f
	shiftOut       = 0x0e
	shiftIn        = 0x0f

	// maxSequenceLen bounds the text collected for one CSI, OSC or DCS sequence.
	maxSequenceLen = 64 * 1024
)

type parseStage int

const (
	stateGround parseStage = iota
	stateEscape
	stateCSI
	stateOSC
	stateOSCEscape
	stateDCS
	stateDCSEscape
	stateCharset
)

// parseState is the scanner position, carried over from one chunk to the next.
type parseState struct {
	stage parseStage
	code  strings.Builder // CSI parameters and final byte, or OSC text
	dcs   strings.Builder
	slot  rune // '(' or ')' while waiting for a charset designator
}

func (s *parseState) reset() {
	s.stage = stateGround
	s.code.Reset()
	s.dcs.Reset()
	s.slot = 0
}

// pending returns the unfinished sequence, for logging.
func (s *parseState) pending() string {
	switch s.stage {
	case stateEscape:
		return "\x1b"
	case stateCSI:
		return "\x1b[" + s.code.String()
	case stateOSC, stateOSCEscape:
		return "\x1b]" + s.code.String()
	case stateDCS, stateDCSEscape:
		return "\x1bP" + s.dcs.String()
	case stateCharset:
		return "\x1b" + string(s.slot)
	}
	return ""
}

var specialChars = map[rune]func(e *Emulator){
	asciiBell:      handleOutputBell,
	asciiBackspace: handleOutputBackspace,
	'\n':           handleOutputLineFeed,
	'\v':           handleOutputLineFeed,
	'\f':           handleOutputLineFeed,
	'\r':           handleOutputCarriageReturn,
	'\t':           handleOutputTab,
	shiftOut:       handleShiftOut,
	shiftIn:        handleShiftIn,
}

func (e *Emulator) handleRune(r rune) {
	switch e.state.stage {
	case stateGround:
		e.parseGround(r)
	case stateEscape:
		if r < ' ' && r != asciiEscape {
			// C0 controls run without ending the escape
			if out, ok := specialChars[r]; ok {
				out(e)
			}
			return
		}
		e.state.stage = stateGround
		e.parseEscState(r)
	case stateCSI:
		e.parseCSI(r)
	case stateOSC:
		e.parseOSC(r)
	case stateOSCEscape:
		e.state.stage = stateGround
		code := e.state.code.String()
		e.state.code.Reset()
		e.handleOSC(code)
		if r != '\\' {
			// ESC ended the OSC, r starts a new sequence
			e.state.stage = stateEscape
			e.handleRune(r)
		}
	case stateDCS:
		if r == asciiEscape {
			e.state.stage = stateDCSEscape
			return
		}
		e.state.dcs.WriteRune(r)
		e.abandonLong(&e.state.dcs)
	case stateDCSEscape:
		if r == '\\' {
			e.state.stage = stateGround
			content := e.state.dcs.String()
			e.state.dcs.Reset()
			e.handleDCS(content)
			return
		}
		// not a terminator, keep the ESC as content
		e.state.dcs.WriteRune(asciiEscape)
		if e.abandonLong(&e.state.dcs) || r == asciiEscape {
			return
		}
		e.state.dcs.WriteRune(r)
		e.state.stage = stateDCS
		e.abandonLong(&e.state.dcs)
	case stateCharset:
		e.state.stage = stateGround
		e.handleCharsetDesignation(e.state.slot, r)
		e.state.slot = 0
	}
}

func (e *Emulator) parseGround(r rune) {
	if r == asciiEscape {
		e.state.stage = stateEscape
		return
	}
	if out, ok := specialChars[r]; ok {
		out(e)
		return
	}
	if r < ' ' || r == asciiDelete {
		return
	}
	e.screen.WriteChar(e.translateChar(r), e.fg, e.bg)
}

// parseEscState handles the character after ESC.
func (e *Emulator) parseEscState(r rune) {
	switch r {
	case '[':
		e.state.code.Reset()
		e.state.stage = stateCSI
	case ']':
		e.state.code.Reset()
		e.state.stage = stateOSC
	case 'P':
		e.state.dcs.Reset()
		e.state.stage = stateDCS
	case '\\':
		// stray string terminator
	case '(', ')':
		e.state.slot = r
		e.state.stage = stateCharset
	case '=':
		e.setMode(ModeApplicationKeypad, true)
	case '>':
		e.setMode(ModeApplicationKeypad, false)
	case '7':
		e.savedRow, e.savedCol = e.screen.Cursor()
	case '8':
		e.screen.MoveTo(e.savedRow, e.savedCol)
	case 'D':
		e.screen.Index()
	case 'E':
		e.screen.Newline()
	case 'M':
		if !e.screen.MoveUp(1) && e.debug {
			e.log.Println("Reverse index at top of screen ignored")
		}
	case 'c':
		e.reset()
	case asciiEscape:
		e.state.stage = stateEscape
	default:
		if e.debug {
			e.log.Printf("Unrecognised escape: %q", "\x1b"+string(r))
		}
	}
}

func (e *Emulator) parseCSI(r rune) {
	switch {
	case r == asciiEscape:
		if e.debug {
			e.log.Printf("Abandoned CSI: %q", e.state.code.String())
		}
		e.state.code.Reset()
		e.state.stage = stateEscape
	case r == 0 || r == asciiDelete:
	case r < ' ':
		// C0 controls are acted on in the middle of a sequence
		if out, ok := specialChars[r]; ok {
			out(e)
		}
	case r >= '@' && r <= '~':
		e.state.code.WriteRune(r)
		code := e.state.code.String()
		e.state.code.Reset()
		e.state.stage = stateGround
		e.handleEscape(code)
	default:
		e.state.code.WriteRune(r)
		e.abandonLong(&e.state.code)
	}
}

func (e *Emulator) parseOSC(r rune) {
	switch r {
	case asciiBell:
		e.state.stage = stateGround
		code := e.state.code.String()
		e.state.code.Reset()
		e.handleOSC(code)
	case asciiEscape:
		e.state.stage = stateOSCEscape
	case 0:
	default:
		e.state.code.WriteRune(r)
		e.abandonLong(&e.state.code)
	}
}

// abandonLong drops the current sequence once b has grown to maxSequenceLen,
// the rest of it is then read as ordinary output.
func (e *Emulator) abandonLong(b *strings.Builder) bool {
	if b.Len() < maxSequenceLen {
		return false
	}
	if e.debug {
		e.log.Printf("Abandoned sequence longer than %d bytes: %q...", maxSequenceLen, e.state.pending()[:16])
	}
	e.state.reset()
	return true
}

func handleOutputBell(e *Emulator) {
	e.delta.Bell = true
}

func handleOutputBackspace(e *Emulator) {
	e.screen.Backspace()
}

func handleOutputCarriageReturn(e *Emulator) {
	e.screen.CarriageReturn()
}

func handleOutputLineFeed(e *Emulator) {
	e.screen.Newline()
}

func handleOutputTab(e *Emulator) {
	e.screen.Tab()
}

func handleShiftOut(e *Emulator) {
	e.useG1CharSet = true
}

func handleShiftIn(e *Emulator) {
	e.useG1CharSet = false
}
