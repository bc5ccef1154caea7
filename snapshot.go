package ttyl

import "strings"

// Snapshot is a consistent copy of the emulator state, taken between chunks.
type Snapshot struct {
	Rows, Cols int
	Cursor     Position

	// Active holds the visible rows, top first, with IDs 0..Rows-1.
	Active []Row
	// Scrollback holds evicted rows, oldest first, with strictly increasing IDs.
	Scrollback []Row

	Title     string
	Directory string
	Modes     map[string]bool
	Palette   Palette
}

// Snapshot copies the current screen and state.
func (e *Emulator) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	row, col := e.screen.Cursor()
	modes := make(map[string]bool, len(e.modes))
	for k, v := range e.modes {
		modes[k] = v
	}

	return Snapshot{
		Rows:       e.screen.Rows(),
		Cols:       e.screen.Cols(),
		Cursor:     Position{Row: row, Col: col},
		Active:     e.screen.ActiveRows(),
		Scrollback: e.screen.Scrollback(),
		Title:      e.title,
		Directory:  e.directory,
		Modes:      modes,
		Palette:    e.palette.Copy(),
	}
}

// Text returns the visible rows joined with '\n', trailing spaces removed.
func (s Snapshot) Text() string {
	return joinRows(s.Active)
}

// History returns the scrollback followed by the visible rows as text.
func (s Snapshot) History() string {
	if len(s.Scrollback) == 0 {
		return s.Text()
	}
	return joinRows(s.Scrollback) + "\n" + s.Text()
}

// Resolve converts a color using the snapshot palette.
func (s Snapshot) Resolve(c Color) RGB {
	return Resolve(c, s.Palette)
}

func joinRows(rows []Row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.TrimRight(r.String(), " ")
	}
	return strings.Join(lines, "\n")
}
