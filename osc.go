package ttyl

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2/storage"
)

func (e *Emulator) handleOSC(code string) {
	if len(code) == 0 {
		return
	}

	parts := strings.SplitN(code, ";", 2)
	if len(parts) < 2 {
		if e.debug {
			e.log.Println("Invalid OSC format:", code)
		}
		return
	}

	commandNum, err := strconv.Atoi(parts[0])
	if err != nil {
		if e.debug {
			e.log.Println("Invalid OSC command number:", parts[0])
		}
		return
	}
	data := parts[1]

	if handler, ok := e.oscHandlers[commandNum]; ok {
		e.callbacks = append(e.callbacks, func() {
			handler(data)
		})
		return
	}

	switch commandNum {
	case 0, 2:
		e.setTitle(data)
	case 1:
		if e.debug {
			e.log.Printf("Icon name: %q", data)
		}
	case 7:
		e.setDirectory(data)
	case 133:
		e.handleOSC133(data)
	case 1337:
		e.handleITermProprietary(data)
	default:
		if e.debug {
			e.log.Println("Unrecognised OSC:", code)
		}
	}
}

// setDirectory records the working directory announced by the shell, usually as file://host/path.
func (e *Emulator) setDirectory(uri string) {
	dir := ""
	if u, err := storage.ParseURI(uri); err == nil && strings.HasPrefix(u.Path(), "/") {
		dir = u.Path()
	} else {
		dir = pathFromFileURI(uri)
	}

	if dir == e.directory {
		return
	}
	e.directory = dir
	e.delta.DirectoryChanged = true
}

// pathFromFileURI drops the scheme and host of a file URI that Fyne could not parse.
func pathFromFileURI(uri string) string {
	rest, ok := strings.CutPrefix(uri, "file://")
	if !ok {
		return uri
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[i:]
	}
	return "/"
}

// handleOSC133 consumes the final-term shell integration marks, they don't change the screen.
func (e *Emulator) handleOSC133(data string) {
	if !e.debug {
		return
	}
	mark, _, _ := strings.Cut(data, ";")
	switch mark {
	case "A":
		e.log.Println("Shell integration: Prompt start")
	case "B":
		e.log.Println("Shell integration: Prompt end")
	case "C":
		e.log.Println("Shell integration: Command output start")
	case "D":
		e.log.Println("Shell integration: Command output end", data)
	default:
		e.log.Println("OSC 133 sequence not implemented:", data)
	}
}

// handleITermProprietary parses the key=value list of OSC 1337. Nothing acts on it yet.
func (e *Emulator) handleITermProprietary(data string) {
	pairs := parseITermPairs(data)
	if e.debug {
		e.log.Println("iTerm2 sequence:", pairs)
	}
}

func parseITermPairs(data string) map[string]string {
	pairs := make(map[string]string)
	for _, item := range strings.Split(data, ";") {
		key, val, _ := strings.Cut(item, "=")
		if key == "" {
			continue
		}
		pairs[key] = val
	}
	return pairs
}
