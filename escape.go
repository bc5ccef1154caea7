package ttyl

import (
	"fmt"
	"strconv"
	"strings"
)

var escapes = map[rune]func(*Emulator, string){
	'A': escapeMoveCursorUp,
	'B': escapeMoveCursorDown,
	'C': escapeMoveCursorRight,
	'D': escapeMoveCursorLeft,
	'E': escapeCursorNextLine,
	'F': escapeCursorPrevLine,
	'G': escapeMoveCursorCol,
	'H': escapeMoveCursor,
	'f': escapeMoveCursor,
	'd': escapeMoveCursorRow,
	'h': escapeModeOn,
	'l': escapeModeOff,
	'm': escapeColorMode,
	'n': escapeDeviceStatusReport,
	'J': escapeEraseInScreen,
	'K': escapeEraseInLine,
	's': escapeSaveCursor,
	'u': escapeRestoreCursor,
	't': escapeWindowManipulation,
	'c': escapeDeviceAttribute,
}

// handleEscape runs a complete CSI sequence, code holds everything after "ESC [".
func (e *Emulator) handleEscape(code string) {
	if code == "" {
		return
	}

	final := code[len(code)-1]
	if esc, ok := escapes[rune(final)]; ok {
		esc(e, code[:len(code)-1])
	} else if e.debug {
		e.log.Println("Unrecognised Escape:", code)
	}
}

// count parses a movement parameter, where missing or zero means one.
func count(msg string) int {
	n, _ := strconv.Atoi(msg)
	if n <= 0 {
		return 1
	}
	return n
}

// relative moves that would leave the screen are ignored rather than clamped
func escapeMoveCursorUp(e *Emulator, msg string) {
	e.screen.MoveUp(count(msg))
}

func escapeMoveCursorDown(e *Emulator, msg string) {
	e.screen.MoveDown(count(msg))
}

func escapeMoveCursorRight(e *Emulator, msg string) {
	e.screen.MoveForward(count(msg))
}

func escapeMoveCursorLeft(e *Emulator, msg string) {
	e.screen.MoveBack(count(msg))
}

// CSI E: Cursor Next Line
func escapeCursorNextLine(e *Emulator, msg string) {
	if e.screen.MoveDown(count(msg)) {
		e.screen.CarriageReturn()
	}
}

// CSI F: Cursor Previous Line
func escapeCursorPrevLine(e *Emulator, msg string) {
	if e.screen.MoveUp(count(msg)) {
		e.screen.CarriageReturn()
	}
}

func escapeMoveCursor(e *Emulator, msg string) {
	row, col := 1, 1
	parts := strings.Split(msg, ";")
	if parts[0] != "" {
		row, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 && parts[1] != "" {
		col, _ = strconv.Atoi(parts[1])
	}
	e.screen.MoveTo(row-1, col-1)
}

func escapeMoveCursorCol(e *Emulator, msg string) {
	row, _ := e.screen.Cursor()
	e.screen.MoveTo(row, count(msg)-1)
}

func escapeMoveCursorRow(e *Emulator, msg string) {
	_, col := e.screen.Cursor()
	e.screen.MoveTo(count(msg)-1, col)
}

func escapeEraseInScreen(e *Emulator, msg string) {
	mode, err := strconv.Atoi(msg)
	if msg != "" && err != nil {
		if e.debug {
			e.log.Println("Invalid erase in display", msg)
		}
		return
	}
	if mode == 3 {
		e.delta.ScrollbackCleared = true
	}
	e.screen.EraseInDisplay(mode)
}

func escapeEraseInLine(e *Emulator, msg string) {
	mode, err := strconv.Atoi(msg)
	if msg != "" && err != nil {
		if e.debug {
			e.log.Println("Invalid erase in line", msg)
		}
		return
	}
	e.screen.EraseInLine(mode)
}

func escapeModeOn(e *Emulator, msg string) {
	escapeMode(e, msg, true)
}

func escapeModeOff(e *Emulator, msg string) {
	escapeMode(e, msg, false)
}

// escapeMode records SM/RM and DECSET/DECRST, private modes keep their '?' prefix.
func escapeMode(e *Emulator, msg string, enable bool) {
	prefix := ""
	if strings.HasPrefix(msg, "?") {
		prefix = "?"
		msg = msg[1:]
	}
	if msg == "" {
		if e.debug {
			e.log.Println("Empty mode sequence", prefix)
		}
		return
	}

	for _, mode := range strings.Split(msg, ";") {
		name := prefix + mode
		if mode == ModeBracketedPaste {
			name = ModeBracketedPaste
		}
		e.setMode(name, enable)
	}
}

// escapeDeviceStatusReport handles CSI 5n (status) and CSI 6n (cursor position).
func escapeDeviceStatusReport(e *Emulator, msg string) {
	switch msg {
	case "5":
		e.respond([]byte{asciiEscape, '[', '0', 'n'})
	case "6":
		row, col := e.screen.Cursor()
		e.respond([]byte(fmt.Sprintf("%c[%d;%dR", asciiEscape, row+1, col+1)))
	default:
		if e.debug {
			e.log.Println("Unhandled DSR", msg)
		}
	}
}

func escapeDeviceAttribute(e *Emulator, msg string) {
	if strings.HasPrefix(msg, ">") {
		// DA2: report as a VT100 class terminal, version 115
		e.respond([]byte{asciiEscape, '[', '>', '0', ';', '1', '1', '5', ';', '0', 'c'})
		return
	}
	if msg != "" && msg != "0" {
		if e.debug {
			e.log.Println("Unhandled device attribute request", msg)
		}
		return
	}
	e.respond([]byte{asciiEscape, '[', '?', '6', 'c'})
}

func escapeSaveCursor(e *Emulator, _ string) {
	e.savedRow, e.savedCol = e.screen.Cursor()
}

func escapeRestoreCursor(e *Emulator, msg string) {
	if msg != "" {
		if e.debug {
			e.log.Println("Corrupt restore cursor escape", msg+"u")
		}
		return
	}
	e.screen.MoveTo(e.savedRow, e.savedCol)
}

// escapeWindowManipulation handles the xterm CSI ... t family.
func escapeWindowManipulation(e *Emulator, msg string) {
	parts := strings.Split(msg, ";")
	command, err := strconv.Atoi(parts[0])
	if err != nil {
		if e.debug {
			e.log.Println("Invalid window manipulation command:", msg)
		}
		return
	}

	switch command {
	case 18:
		// report the text area size in characters
		e.respond([]byte(fmt.Sprintf("%c[8;%d;%dt", asciiEscape, e.screen.Rows(), e.screen.Cols())))
	case 20, 21:
		// icon and title reports are not answered, they can be used to inject input
	case 22:
		if len(e.titleStack) >= maxTitleStackDepth {
			e.titleStack = e.titleStack[1:]
		}
		e.titleStack = append(e.titleStack, e.title)
	case 23:
		if n := len(e.titleStack); n > 0 {
			e.setTitle(e.titleStack[n-1])
			e.titleStack = e.titleStack[:n-1]
		}
	default:
		if e.debug {
			e.log.Println("Unimplemented terminal config seq:", msg)
		}
	}
}
