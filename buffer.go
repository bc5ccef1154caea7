package ttyl

import (
	"fmt"
	"strings"
)

const tabWidth = 8

// Cell is a single character position on the screen.
type Cell struct {
	Rune   rune
	FG, BG Color
}

var blankCell = Cell{Rune: ' ', FG: DefaultForeground, BG: DefaultBackground}

// Row is one line of cells.
// Active rows are identified by their position, scrollback rows keep the ID they were given when evicted.
type Row struct {
	ID    int
	Cells []Cell
}

// String returns the characters of the row, including trailing blanks.
func (r Row) String() string {
	var b strings.Builder
	for _, c := range r.Cells {
		b.WriteRune(c.Rune)
	}
	return b.String()
}

// ScreenBuffer is a fixed size grid of cells with an append only scrollback history.
//
// The visible rows live in an arena of slots; order maps a screen position to its slot so
// that scrolling only rotates indexes.
type ScreenBuffer struct {
	rows, cols int

	slots [][]Cell
	order []int

	scrollback  []Row
	scrollLimit int
	nextID      int
	evicted     int

	// col may equal cols after the last column was written, the wrap happens on the next character
	row, col int
}

// NewScreenBuffer creates a blank screen of the given size.
func NewScreenBuffer(rows, cols int) (*ScreenBuffer, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}

	b := &ScreenBuffer{
		rows:   rows,
		cols:   cols,
		slots:  make([][]Cell, rows),
		order:  make([]int, rows),
		nextID: rows,
	}
	for i := range b.slots {
		b.slots[i] = make([]Cell, cols)
		blankCells(b.slots[i])
		b.order[i] = i
	}
	return b, nil
}

// Rows returns the number of visible rows.
func (b *ScreenBuffer) Rows() int {
	return b.rows
}

// Cols returns the number of columns.
func (b *ScreenBuffer) Cols() int {
	return b.cols
}

// Cursor returns the cursor position, always within the grid.
func (b *ScreenBuffer) Cursor() (row, col int) {
	return b.row, b.cursorCol()
}

func (b *ScreenBuffer) cursorCol() int {
	if b.col > b.cols-1 {
		return b.cols - 1
	}
	return b.col
}

// SetScrollbackLimit caps the number of rows kept in scrollback, 0 keeps everything.
func (b *ScreenBuffer) SetScrollbackLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	b.scrollLimit = limit
	b.trimScrollback()
}

// Cell returns the cell at the given screen position.
func (b *ScreenBuffer) Cell(row, col int) Cell {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return blankCell
	}
	return b.line(row)[col]
}

// Row returns a copy of the visible row at the given position.
func (b *ScreenBuffer) Row(row int) Row {
	cells := make([]Cell, b.cols)
	copy(cells, b.line(row))
	return Row{ID: row, Cells: cells}
}

// ActiveRows returns copies of all visible rows, top first.
func (b *ScreenBuffer) ActiveRows() []Row {
	rows := make([]Row, b.rows)
	for i := range rows {
		rows[i] = b.Row(i)
	}
	return rows
}

// Scrollback returns the evicted rows, oldest first.
// Scrollback rows are never modified so their cells are shared.
func (b *ScreenBuffer) Scrollback() []Row {
	rows := make([]Row, len(b.scrollback))
	copy(rows, b.scrollback)
	return rows
}

// NextScrollbackID returns the ID that the next evicted row will receive.
func (b *ScreenBuffer) NextScrollbackID() int {
	return b.nextID
}

func (b *ScreenBuffer) line(row int) []Cell {
	return b.slots[b.order[row]]
}

// WriteChar places r at the cursor and advances it, wrapping onto the next line first if the
// previous character filled the last column.
func (b *ScreenBuffer) WriteChar(r rune, fg, bg Color) {
	if b.col > b.cols-1 {
		b.col = 0
		b.advanceRow()
	}

	b.line(b.row)[b.col] = Cell{Rune: r, FG: fg, BG: bg}
	b.col++
}

// Newline moves to the first column of the next line, scrolling at the bottom.
func (b *ScreenBuffer) Newline() {
	b.col = 0
	b.advanceRow()
}

// Index moves down one line keeping the column, scrolling at the bottom.
func (b *ScreenBuffer) Index() {
	b.col = b.cursorCol()
	b.advanceRow()
}

// CarriageReturn moves to the first column.
func (b *ScreenBuffer) CarriageReturn() {
	b.col = 0
}

// Backspace moves one column left, or to the end of the previous line from column 0.
// At the top left corner it does nothing.
func (b *ScreenBuffer) Backspace() {
	col := b.cursorCol()
	if col > 0 {
		b.col = col - 1
		return
	}
	if b.row == 0 {
		return
	}
	b.row--
	b.col = b.cols - 1
}

// Tab moves to the next multiple of 8 columns, stopping at the last column.
func (b *ScreenBuffer) Tab() {
	col := b.cursorCol()
	end := col - col%tabWidth + tabWidth
	if end > b.cols-1 {
		end = b.cols - 1
	}
	b.col = end
}

func (b *ScreenBuffer) advanceRow() {
	if b.row+1 > b.rows-1 {
		b.scrollOneLine()
		return
	}
	b.row++
}

// scrollOneLine moves the top row into scrollback and opens a blank row at the bottom.
func (b *ScreenBuffer) scrollOneLine() {
	top := b.order[0]
	evicted := make([]Cell, b.cols)
	copy(evicted, b.slots[top])
	b.scrollback = append(b.scrollback, Row{ID: b.nextID, Cells: evicted})
	b.nextID++
	b.evicted++
	b.trimScrollback()

	copy(b.order, b.order[1:])
	b.order[b.rows-1] = top
	blankCells(b.slots[top])
	b.row = b.rows - 1
}

func (b *ScreenBuffer) trimScrollback() {
	if b.scrollLimit == 0 || len(b.scrollback) <= b.scrollLimit {
		return
	}
	b.scrollback = b.scrollback[len(b.scrollback)-b.scrollLimit:]
	if cap(b.scrollback) > 2*b.scrollLimit {
		// release the rows dropped from the head
		kept := make([]Row, len(b.scrollback), b.scrollLimit+b.scrollLimit/2+1)
		copy(kept, b.scrollback)
		b.scrollback = kept
	}
}

// takeEvictions returns how many rows were scrolled off since the last call.
func (b *ScreenBuffer) takeEvictions() int {
	n := b.evicted
	b.evicted = 0
	return n
}

// MoveUp moves the cursor n rows up, if that stays on screen.
func (b *ScreenBuffer) MoveUp(n int) bool {
	if b.row-n < 0 {
		return false
	}
	b.row -= n
	return true
}

// MoveDown moves the cursor n rows down, if that stays on screen.
func (b *ScreenBuffer) MoveDown(n int) bool {
	if n > b.rows-1-b.row {
		return false
	}
	b.row += n
	return true
}

// MoveForward moves the cursor n columns right, if that stays on screen.
func (b *ScreenBuffer) MoveForward(n int) bool {
	col := b.cursorCol()
	if n > b.cols-1-col {
		return false
	}
	b.col = col + n
	return true
}

// MoveBack moves the cursor n columns left, if that stays on screen.
func (b *ScreenBuffer) MoveBack(n int) bool {
	col := b.cursorCol()
	if col-n < 0 {
		return false
	}
	b.col = col - n
	return true
}

// MoveTo places the cursor at a zero based position, clamped to the grid.
func (b *ScreenBuffer) MoveTo(row, col int) {
	b.row = clamp(row, 0, b.rows-1)
	b.col = clamp(col, 0, b.cols-1)
}

// EraseInDisplay blanks part of the screen:
// 0 from the cursor to the end, 1 from the start to the cursor, 2 everything,
// 3 everything plus the scrollback.
func (b *ScreenBuffer) EraseInDisplay(mode int) {
	row, col := b.Cursor()
	switch mode {
	case 0:
		clearChars(b.line(row)[col:])
		for i := row + 1; i < b.rows; i++ {
			clearChars(b.line(i))
		}
	case 1:
		clearChars(b.line(row)[:col+1])
		for i := 0; i < row; i++ {
			clearChars(b.line(i))
		}
	case 3:
		b.ClearScrollback()
		fallthrough
	case 2:
		for i := 0; i < b.rows; i++ {
			clearChars(b.line(i))
		}
		b.row, b.col = 0, 0
	}
}

// EraseInLine blanks part of the cursor row:
// 0 from the cursor to the end, 1 from the start to the cursor, 2 the whole row.
func (b *ScreenBuffer) EraseInLine(mode int) {
	row, col := b.Cursor()
	line := b.line(row)
	switch mode {
	case 0:
		clearChars(line[col:])
	case 1:
		clearChars(line[:col+1])
	case 2:
		clearChars(line)
	}
}

// ClearScrollback drops all evicted rows and restarts their numbering.
func (b *ScreenBuffer) ClearScrollback() {
	b.scrollback = nil
	b.nextID = b.rows
}

// Reset blanks every cell, including colors, and homes the cursor. Scrollback is kept.
func (b *ScreenBuffer) Reset() {
	for _, s := range b.slots {
		blankCells(s)
	}
	b.row, b.col = 0, 0
}

// clearChars blanks characters but leaves their colors alone.
func clearChars(cells []Cell) {
	for i := range cells {
		cells[i].Rune = ' '
	}
}

func blankCells(cells []Cell) {
	for i := range cells {
		cells[i] = blankCell
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
