package ttyl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSGR(t *testing.T) {
	tests := map[string]struct {
		input  string
		fg, bg Color
	}{
		"256 foreground":      {input: "\x1b[38;5;196m", fg: Cube(196), bg: DefaultBackground},
		"256 background gray": {input: "\x1b[48;5;232m", fg: DefaultForeground, bg: Grayscale(232)},
		"256 named":           {input: "\x1b[38;5;9m", fg: Named(BrightRed), bg: DefaultBackground},
		"rgb foreground":      {input: "\x1b[38;2;10;20;30m", fg: RGBColor(10, 20, 30), bg: DefaultBackground},
		"rgb background":      {input: "\x1b[48;2;1;2;3m", fg: DefaultForeground, bg: RGBColor(1, 2, 3)},
		"rgb clamped":         {input: "\x1b[38;2;300;-1;128m", fg: RGBColor(255, 0, 128), bg: DefaultBackground},
		"extended then named": {input: "\x1b[38;5;1;44m", fg: Named(Red), bg: Named(Blue)},
		"both extended":       {input: "\x1b[38;5;100;48;2;4;5;6m", fg: Cube(100), bg: RGBColor(4, 5, 6)},
		"invalid index":       {input: "\x1b[31m\x1b[38;5;300m", fg: Named(Red), bg: DefaultBackground},
		"truncated rgb":       {input: "\x1b[32m\x1b[38;2;1;2m", fg: Named(Green), bg: DefaultBackground},
		"defaults":            {input: "\x1b[31;42m\x1b[39;49m", fg: DefaultForeground, bg: DefaultBackground},
		"reset":               {input: "\x1b[31;42m\x1b[0m", fg: DefaultForeground, bg: DefaultBackground},
		"empty resets":        {input: "\x1b[31;42m\x1b[m", fg: DefaultForeground, bg: DefaultBackground},
		"empty param resets":  {input: "\x1b[31;42m\x1b[;33m", fg: Named(Yellow), bg: DefaultBackground},
		"bright":              {input: "\x1b[94;101m", fg: Named(BrightBlue), bg: Named(BrightRed)},
		"attributes ignored":  {input: "\x1b[1;4;35m", fg: Named(Magenta), bg: DefaultBackground},
		"private ignored":     {input: "\x1b[31m\x1b[>4;2m", fg: Named(Red), bg: DefaultBackground},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			emu := newTestEmulator(t, 1, 10)
			emu.Apply(tt.input)

			fg, bg := emu.Colors()
			assert.Equal(t, tt.fg, fg)
			assert.Equal(t, tt.bg, bg)
		})
	}
}

func TestSGR_AppliesToCells(t *testing.T) {
	emu := newTestEmulator(t, 1, 10)
	emu.Apply("a\x1b[38;2;1;2;3;44mb\x1b[0mc")

	cells := emu.Snapshot().Active[0].Cells
	assert.Equal(t, Cell{Rune: 'a', FG: DefaultForeground, BG: DefaultBackground}, cells[0])
	assert.Equal(t, Cell{Rune: 'b', FG: RGBColor(1, 2, 3), BG: Named(Blue)}, cells[1])
	assert.Equal(t, Cell{Rune: 'c', FG: DefaultForeground, BG: DefaultBackground}, cells[2])
}
