package ttyl

import "strings"

const tmuxPassthrough = "tmux;"

// handleDCS dispatches a completed device control string to the handler registered for the
// longest matching prefix.
func (e *Emulator) handleDCS(code string) {
	var prefix string
	var handler func(string)
	for p, h := range e.dcsHandlers {
		if strings.HasPrefix(code, p) && (handler == nil || len(p) > len(prefix)) {
			prefix, handler = p, h
		}
	}
	if handler != nil {
		data := code[len(prefix):]
		e.callbacks = append(e.callbacks, func() {
			handler(data)
		})
		return
	}

	if strings.HasPrefix(code, tmuxPassthrough) {
		// tmux doubles the ESC bytes of the wrapped sequence
		inner := strings.ReplaceAll(code[len(tmuxPassthrough):], "\x1b\x1b", "\x1b")
		for _, r := range inner {
			e.handleRune(r)
		}
		return
	}

	if e.debug {
		e.log.Printf("Unhandled DCS: %q", code)
	}
}
