// Package widget draws ttyl screen snapshots with Fyne.
package widget

import (
	"image/color"
	"io"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/fyne-io/ttyl"
)

// TermGrid is a monospaced grid of characters showing the screen of a ttyl emulator,
// with a block cursor. Typed keys are written to the input writer.
type TermGrid struct {
	widget.BaseWidget
	fyne.ShortcutHandler

	content *widget.TextGrid
	cursor  *canvas.Rectangle
	input   io.Writer

	cursorPos ttyl.Position
	focused   bool
	bell      bool
}

// NewTermGrid creates an empty grid that sends keyboard input to input, which may be nil.
func NewTermGrid(input io.Writer) *TermGrid {
	content := widget.NewTextGrid()
	content.Scroll = container.ScrollNone

	t := &TermGrid{
		content: content,
		cursor:  canvas.NewRectangle(theme.Color(theme.ColorNamePrimary)),
		input:   input,
	}
	t.cursor.Hidden = true
	t.ExtendBaseWidget(t)
	return t
}

// Update replaces the grid contents with a snapshot. It must be called on the Fyne goroutine.
func (t *TermGrid) Update(s ttyl.Snapshot, d ttyl.Delta) {
	t.content.Rows = gridRows(s)
	t.cursorPos = s.Cursor
	t.bell = d.Bell
	t.Refresh()
}

// Text returns the visible characters, one line per row.
func (t *TermGrid) Text() string {
	return t.content.Text()
}

func gridRows(s ttyl.Snapshot) []widget.TextGridRow {
	rows := make([]widget.TextGridRow, len(s.Active))
	styles := make(map[ttyl.Color]color.Color)
	resolve := func(c ttyl.Color) color.Color {
		if rgb, ok := styles[c]; ok {
			return rgb
		}
		rgb := s.Resolve(c)
		styles[c] = rgb
		return rgb
	}

	for i, r := range s.Active {
		cells := make([]widget.TextGridCell, len(r.Cells))
		for j, c := range r.Cells {
			cells[j] = widget.TextGridCell{
				Rune:  c.Rune,
				Style: &widget.CustomTextGridStyle{FGColor: resolve(c.FG), BGColor: resolve(c.BG)},
			}
		}
		rows[i] = widget.TextGridRow{Cells: cells}
	}
	return rows
}

// FocusGained shows the cursor.
func (t *TermGrid) FocusGained() {
	t.focused = true
	t.Refresh()
}

// FocusLost hides the cursor.
func (t *TermGrid) FocusLost() {
	t.focused = false
	t.Refresh()
}

// TypedRune sends a printable character.
func (t *TermGrid) TypedRune(r rune) {
	t.write([]byte(string(r)))
}

// TypedKey sends the control sequence for a key.
func (t *TermGrid) TypedKey(e *fyne.KeyEvent) {
	if seq, ok := keySequences[e.Name]; ok {
		t.write(seq)
	}
}

// AcceptsTab stops Fyne using tab to move focus away.
func (t *TermGrid) AcceptsTab() bool {
	return true
}

func (t *TermGrid) write(b []byte) {
	if t.input == nil {
		return
	}
	if _, err := t.input.Write(b); err != nil {
		fyne.LogError("Failed to send key", err)
	}
}

var keySequences = map[fyne.KeyName][]byte{
	fyne.KeyReturn:    {'\r'},
	fyne.KeyEnter:     {'\r'},
	fyne.KeyBackspace: {0x7f},
	fyne.KeyTab:       {'\t'},
	fyne.KeyEscape:    {0x1b},
	fyne.KeyUp:        []byte("\x1b[A"),
	fyne.KeyDown:      []byte("\x1b[B"),
	fyne.KeyRight:     []byte("\x1b[C"),
	fyne.KeyLeft:      []byte("\x1b[D"),
	fyne.KeyHome:      []byte("\x1b[H"),
	fyne.KeyEnd:       []byte("\x1b[F"),
	fyne.KeyDelete:    []byte("\x1b[3~"),
	fyne.KeyPageUp:    []byte("\x1b[5~"),
	fyne.KeyPageDown:  []byte("\x1b[6~"),
}

// CreateRenderer is a private method to Fyne which links this widget to its renderer
func (t *TermGrid) CreateRenderer() fyne.WidgetRenderer {
	return &render{grid: t}
}

type render struct {
	grid *TermGrid
}

func (r *render) Layout(s fyne.Size) {
	r.grid.content.Resize(s)
	r.moveCursor()
}

func (r *render) MinSize() fyne.Size {
	return r.grid.content.MinSize()
}

func (r *render) Refresh() {
	r.moveCursor()
	r.refreshCursor()

	r.grid.content.Refresh()
}

func (r *render) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.grid.content, r.grid.cursor}
}

func (r *render) Destroy() {
}

func (r *render) moveCursor() {
	cell := cellSize(r.grid.Theme())
	pos := r.grid.cursorPos
	r.grid.cursor.Move(fyne.NewPos(cell.Width*float32(pos.Col), cell.Height*float32(pos.Row)))
	r.grid.cursor.Resize(cell)
}

func (r *render) refreshCursor() {
	th := r.grid.Theme()
	v := fyne.CurrentApp().Settings().ThemeVariant()
	r.grid.cursor.Hidden = !r.grid.focused
	if r.grid.bell {
		r.grid.cursor.FillColor = th.Color(theme.ColorNameError, v)
	} else {
		r.grid.cursor.FillColor = th.Color(theme.ColorNamePrimary, v)
	}
	r.grid.cursor.Refresh()
}

func cellSize(th fyne.Theme) fyne.Size {
	size := fyne.MeasureText("M", th.Size(theme.SizeNameText), fyne.TextStyle{Monospace: true})
	return fyne.NewSize(float32(math.Round(float64(size.Width))), float32(math.Round(float64(size.Height))))
}
