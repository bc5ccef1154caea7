package ttyl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDCS_TmuxPassthrough(t *testing.T) {
	emu := newTestEmulator(t, 1, 10)
	emu.Apply("\x1bPtmux;\x1b\x1b[31m\x1b\\X")

	cell := emu.Snapshot().Active[0].Cells[0]
	assert.Equal(t, 'X', cell.Rune)
	assert.Equal(t, Named(Red), cell.FG)
}

func TestDCS_Handler(t *testing.T) {
	emu := newTestEmulator(t, 1, 10)
	var short, long string
	emu.RegisterDCSHandler("+q", func(data string) {
		short = data
	})
	emu.RegisterDCSHandler("+q54", func(data string) {
		long = data
	})

	emu.Apply("\x1bP+q544e\x1b\\\x1bP+q6b\x1b\\")
	assert.Equal(t, "4e", long)
	assert.Equal(t, "6b", short)
	assert.Equal(t, "", emu.Snapshot().Text())
}

func TestDCS_HandlerCanSnapshot(t *testing.T) {
	emu := newTestEmulator(t, 1, 10)
	var text string
	emu.RegisterDCSHandler("+q", func(string) {
		text = emu.Snapshot().Text()
	})

	emu.Apply("hi\x1bP+q6b\x1b\\")
	assert.Equal(t, "hi", text)
}

func TestDCS_Unhandled(t *testing.T) {
	emu := newTestEmulator(t, 1, 10)
	d := emu.Apply("\x1bP1$r\x1b\\ok")

	assert.False(t, d.Incomplete)
	assert.Equal(t, "ok", emu.Snapshot().Text())
}

func TestDCS_KeepsEscapesInContent(t *testing.T) {
	emu := newTestEmulator(t, 1, 10)
	var got string
	emu.RegisterDCSHandler("x", func(data string) {
		got = data
	})

	emu.Apply("\x1bPxa\x1bb\x1b\\")
	assert.Equal(t, "a\x1bb", got)
}

func TestCharsets(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"ascii":             {input: "\x1b(Bqx", want: "qx"},
		"dec graphics":      {input: "\x1b(0lqk", want: "┌─┐"},
		"back to ascii":     {input: "\x1b(0q\x1b(Bq", want: "─q"},
		"uk":                {input: "\x1b(A#1", want: "£1"},
		"g1 with shift out": {input: "\x1b)0q\x0eq\x0fq", want: "q─q"},
		"unknown ignored":   {input: "\x1b(0\x1b(Zq", want: "─"},
		"split designation": {input: "\x1b(", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			emu := newTestEmulator(t, 1, 10)
			emu.Apply(tt.input)
			assert.Equal(t, tt.want, emu.Snapshot().Text())
		})
	}
}

func TestCharsets_SplitDesignation(t *testing.T) {
	emu := newTestEmulator(t, 1, 10)
	d := emu.Apply("\x1b(")
	assert.True(t, d.Incomplete)

	emu.Apply("0x")
	assert.Equal(t, "│", emu.Snapshot().Text())
}
