package ttyl

import (
	"strconv"
	"strings"
)

func escapeColorMode(e *Emulator, msg string) {
	e.handleColorEscape(msg)
}

// handleColorEscape applies an SGR parameter list.
// The extended forms 38;5;N, 48;5;N, 38;2;R;G;B and 48;2;R;G;B consume their arguments
// before any single parameter is looked at, so "38;5;1" is never read as 38, 5 and 1.
func (e *Emulator) handleColorEscape(message string) {
	if message == "" {
		e.fg, e.bg = DefaultForeground, DefaultBackground
		return
	}
	if message[0] == '>' || message[0] == '?' {
		if e.debug {
			e.log.Println("Strange colour mode", message)
		}
		return
	}

	modes := strings.Split(message, ";")
	for i := 0; i < len(modes); i++ {
		mode := modes[i]
		if (mode == "38" || mode == "48") && i+1 < len(modes) {
			switch modes[i+1] {
			case "5":
				if i+2 < len(modes) {
					e.handleColorModeMap(mode, modes[i+2])
				}
				i += 2
			case "2":
				if i+4 < len(modes) {
					e.handleColorModeRGB(mode, modes[i+2], modes[i+3], modes[i+4])
				} else if e.debug {
					e.log.Println("Truncated RGB colour", message)
				}
				i += 4
			default:
				if e.debug {
					e.log.Println("Unknown extended colour", message)
				}
				i++
			}
			continue
		}
		e.handleColorMode(mode)
	}
}

func (e *Emulator) handleColorMode(modeStr string) {
	if modeStr == "" {
		modeStr = "0"
	}
	mode, err := strconv.Atoi(modeStr)
	if err != nil {
		if e.debug {
			e.log.Println("Ignoring non-numeric graphics mode", modeStr)
		}
		return
	}

	switch {
	case mode == 0:
		e.fg, e.bg = DefaultForeground, DefaultBackground
	case mode >= 30 && mode <= 37:
		e.fg = Named(ColorCode(mode - 30))
	case mode == 39:
		e.fg = DefaultForeground
	case mode >= 40 && mode <= 47:
		e.bg = Named(ColorCode(mode - 40))
	case mode == 49:
		e.bg = DefaultBackground
	case mode >= 90 && mode <= 97:
		e.fg = Named(ColorCode(mode - 82))
	case mode >= 100 && mode <= 107:
		e.bg = Named(ColorCode(mode - 92))
	default:
		if e.debug {
			e.log.Println("Unsupported graphics mode", mode)
		}
	}
}

func (e *Emulator) handleColorModeMap(mode, ids string) {
	id, err := strconv.Atoi(ids)
	if err != nil || id < 0 || id > 255 {
		if e.debug {
			e.log.Println("Invalid colour map ID", ids)
		}
		return
	}

	c := Decode256(uint8(id))
	if mode == "38" {
		e.fg = c
	} else {
		e.bg = c
	}
}

func (e *Emulator) handleColorModeRGB(mode, rs, gs, bs string) {
	r, _ := strconv.Atoi(rs)
	g, _ := strconv.Atoi(gs)
	b, _ := strconv.Atoi(bs)

	c := RGBColor(clampChannel(r), clampChannel(g), clampChannel(b))
	if mode == "38" {
		e.fg = c
	} else {
		e.bg = c
	}
}

func clampChannel(v int) uint8 {
	return uint8(clamp(v, 0, 255))
}
