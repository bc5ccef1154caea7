package ttyl

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuffer(t *testing.T, rows, cols int) *ScreenBuffer {
	b, err := NewScreenBuffer(rows, cols)
	require.NoError(t, err)
	return b
}

func writeString(b *ScreenBuffer, s string) {
	for _, r := range s {
		b.WriteChar(r, DefaultForeground, DefaultBackground)
	}
}

func TestNewScreenBuffer_InvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 80}, {24, 0}, {-1, 10}} {
		_, err := NewScreenBuffer(size[0], size[1])
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestScreenBuffer_Blank(t *testing.T) {
	b := newTestBuffer(t, 3, 4)
	for i, row := range b.ActiveRows() {
		assert.Equal(t, i, row.ID)
		assert.Equal(t, "    ", row.String())
		for _, c := range row.Cells {
			assert.Equal(t, DefaultForeground, c.FG)
			assert.Equal(t, DefaultBackground, c.BG)
		}
	}
	assert.Empty(t, b.Scrollback())
	assert.Equal(t, 3, b.NextScrollbackID())
}

func TestScreenBuffer_NewlineLayout(t *testing.T) {
	b := newTestBuffer(t, 24, 80)
	writeString(b, "A")
	b.CarriageReturn()
	b.Newline()
	writeString(b, "B")

	assert.Equal(t, "A"+strings.Repeat(" ", 79), b.Row(0).String())
	assert.Equal(t, "B"+strings.Repeat(" ", 79), b.Row(1).String())
	row, col := b.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)
}

func TestScreenBuffer_DeferredWrap(t *testing.T) {
	b := newTestBuffer(t, 2, 3)
	writeString(b, "abc")

	row, col := b.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 2, col)

	writeString(b, "d")
	assert.Equal(t, "abc", b.Row(0).String())
	assert.Equal(t, "d  ", b.Row(1).String())
	row, col = b.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)
}

func TestScreenBuffer_ScrollOnLastRow(t *testing.T) {
	b := newTestBuffer(t, 3, 4)
	b.MoveTo(2, 0)
	writeString(b, "wxyz")
	assert.Equal(t, 0, b.takeEvictions())

	writeString(b, "!")
	assert.Equal(t, 1, b.takeEvictions())

	back := b.Scrollback()
	require.Len(t, back, 1)
	for _, row := range b.ActiveRows() {
		assert.Greater(t, back[0].ID, row.ID)
	}
	assert.Equal(t, "wxyz", b.Row(1).String())
	assert.Equal(t, "!   ", b.Row(2).String())

	b.Newline()
	back = b.Scrollback()
	require.Len(t, back, 2)
	assert.Greater(t, back[1].ID, back[0].ID)
	assert.Equal(t, "wxyz", b.Row(0).String())
}

func TestScreenBuffer_ScrollbackKeepsEvictedRows(t *testing.T) {
	b := newTestBuffer(t, 2, 5)
	for _, line := range []string{"one", "two", "three", "four"} {
		writeString(b, line)
		b.Newline()
	}

	back := b.Scrollback()
	require.Len(t, back, 3)
	assert.Equal(t, "one  ", back[0].String())
	assert.Equal(t, "two  ", back[1].String())
	assert.Equal(t, "three", back[2].String())
	assert.Equal(t, []int{2, 3, 4}, []int{back[0].ID, back[1].ID, back[2].ID})
	assert.Equal(t, "four ", b.Row(0).String())
	assert.Equal(t, "     ", b.Row(1).String())
}

func TestScreenBuffer_ScrollbackLimit(t *testing.T) {
	b := newTestBuffer(t, 1, 2)
	b.SetScrollbackLimit(2)
	for i := 0; i < 5; i++ {
		writeString(b, "x")
		b.Newline()
	}

	back := b.Scrollback()
	require.Len(t, back, 2)
	assert.Equal(t, 4, back[0].ID)
	assert.Equal(t, 5, back[1].ID)
	assert.Equal(t, 6, b.NextScrollbackID())
}

func TestScreenBuffer_ScrollbackLimitManyEvictions(t *testing.T) {
	b := newTestBuffer(t, 2, 3)
	b.SetScrollbackLimit(50)
	for i := 0; i < 1000; i++ {
		writeString(b, fmt.Sprintf("%03d", i))
		b.Newline()
		assert.LessOrEqual(t, cap(b.scrollback), 100)
	}

	back := b.Scrollback()
	require.Len(t, back, 50)
	for i, r := range back {
		assert.Equal(t, 951+i, r.ID)
		assert.Equal(t, fmt.Sprintf("%03d", 949+i), r.String())
	}
	assert.Equal(t, 1001, b.NextScrollbackID())
}

func TestScreenBuffer_ScrollbackIsACopy(t *testing.T) {
	b := newTestBuffer(t, 1, 2)
	writeString(b, "ab")
	b.Newline()

	row := b.Row(0)
	row.Cells[0].Rune = 'z'
	assert.Equal(t, "  ", b.Row(0).String())

	back := b.Scrollback()
	back[0] = Row{}
	assert.Equal(t, "ab", b.Scrollback()[0].String())
}

func TestScreenBuffer_RelativeMoves(t *testing.T) {
	b := newTestBuffer(t, 24, 80)
	b.MoveTo(0, 5)
	assert.True(t, b.MoveForward(3))
	_, col := b.Cursor()
	assert.Equal(t, 8, col)

	b.MoveTo(0, 79)
	assert.False(t, b.MoveForward(3))
	_, col = b.Cursor()
	assert.Equal(t, 79, col)

	b.MoveTo(0, 1)
	assert.False(t, b.MoveBack(2))
	assert.True(t, b.MoveBack(1))
	assert.False(t, b.MoveUp(1))
	assert.True(t, b.MoveDown(23))
	assert.False(t, b.MoveDown(1))
	row, col := b.Cursor()
	assert.Equal(t, 23, row)
	assert.Equal(t, 0, col)
}

func TestScreenBuffer_MoveToClamps(t *testing.T) {
	b := newTestBuffer(t, 24, 80)
	b.MoveTo(100, 200)
	row, col := b.Cursor()
	assert.Equal(t, 23, row)
	assert.Equal(t, 79, col)

	b.MoveTo(-3, -1)
	row, col = b.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)
}

func TestScreenBuffer_Backspace(t *testing.T) {
	b := newTestBuffer(t, 2, 5)
	b.Backspace()
	row, col := b.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)

	b.MoveTo(1, 0)
	b.Backspace()
	row, col = b.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 4, col)

	writeString(b, "x")
	b.Backspace()
	row, col = b.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 3, col)
}

func TestScreenBuffer_Tab(t *testing.T) {
	b := newTestBuffer(t, 1, 20)
	b.Tab()
	_, col := b.Cursor()
	assert.Equal(t, 8, col)

	b.MoveTo(0, 9)
	b.Tab()
	_, col = b.Cursor()
	assert.Equal(t, 16, col)

	b.Tab()
	_, col = b.Cursor()
	assert.Equal(t, 19, col)
}

func TestScreenBuffer_Index(t *testing.T) {
	b := newTestBuffer(t, 2, 5)
	b.MoveTo(1, 3)
	b.Index()

	row, col := b.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 3, col)
	assert.Len(t, b.Scrollback(), 1)
}

func TestScreenBuffer_EraseInDisplay(t *testing.T) {
	fill := func(b *ScreenBuffer) {
		b.MoveTo(0, 0)
		writeString(b, "abcdefghi")
	}

	tests := map[string]struct {
		mode     int
		expected []string
		row, col int
	}{
		"to end":   {mode: 0, expected: []string{"abc", "d  ", "   "}, row: 1, col: 1},
		"to start": {mode: 1, expected: []string{"   ", "  f", "ghi"}, row: 1, col: 1},
		"all":      {mode: 2, expected: []string{"   ", "   ", "   "}, row: 0, col: 0},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			b := newTestBuffer(t, 3, 3)
			fill(b)
			b.MoveTo(1, 1)
			b.EraseInDisplay(tt.mode)

			for i, line := range tt.expected {
				assert.Equal(t, line, b.Row(i).String())
			}
			row, col := b.Cursor()
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestScreenBuffer_EraseInDisplayScrollback(t *testing.T) {
	b := newTestBuffer(t, 2, 3)
	writeString(b, "abcdefghi")
	require.Len(t, b.Scrollback(), 1)

	b.EraseInDisplay(2)
	assert.Len(t, b.Scrollback(), 1)

	b.EraseInDisplay(3)
	assert.Empty(t, b.Scrollback())
	assert.Equal(t, 2, b.NextScrollbackID())
	assert.Equal(t, "   ", b.Row(0).String())
	row, col := b.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)
}

func TestScreenBuffer_EraseInLine(t *testing.T) {
	tests := map[int]string{
		0: "He   ",
		1: "   lo",
		2: "     ",
	}
	for mode, expected := range tests {
		b := newTestBuffer(t, 1, 5)
		writeString(b, "Hello")
		b.MoveTo(0, 2)
		b.EraseInLine(mode)
		assert.Equal(t, expected, b.Row(0).String(), "mode %d", mode)
	}
}

func TestScreenBuffer_EraseKeepsColors(t *testing.T) {
	b := newTestBuffer(t, 1, 3)
	b.WriteChar('x', Named(Red), Named(Blue))
	b.EraseInLine(2)

	c := b.Cell(0, 0)
	assert.Equal(t, ' ', c.Rune)
	assert.Equal(t, Named(Red), c.FG)
	assert.Equal(t, Named(Blue), c.BG)

	b.Reset()
	assert.Equal(t, blankCell, b.Cell(0, 0))
}

func TestScreenBuffer_CellOutOfRange(t *testing.T) {
	b := newTestBuffer(t, 1, 1)
	assert.Equal(t, blankCell, b.Cell(5, 5))
	assert.Equal(t, blankCell, b.Cell(-1, 0))
}
