package ttyl

type charSet int

const (
	charSetANSII charSet = iota
	charSetDECSpecialGraphics
	charSetUK
)

var charSetMap = map[charSet]func(rune) rune{
	charSetANSII: func(r rune) rune {
		return r
	},
	charSetDECSpecialGraphics: func(r rune) rune {
		if m, ok := decSpecialGraphics[r]; ok {
			return m
		}
		return r
	},
	charSetUK: func(r rune) rune {
		if r == '#' {
			return '£'
		}
		return r
	},
}

// decSpecialGraphics is the line drawing set selected by ESC ( 0
// https://en.wikipedia.org/wiki/DEC_Special_Graphics
var decSpecialGraphics = map[rune]rune{
	'`': '◆',
	'a': '▒',
	'b': '␉',
	'c': '␌',
	'd': '␍',
	'e': '␊',
	'f': '°',
	'g': '±',
	'h': '␤',
	'i': '␋',
	'j': '┘',
	'k': '┐',
	'l': '┌',
	'm': '└',
	'n': '┼',
	'o': '⎺',
	'p': '⎻',
	'q': '─',
	'r': '─',
	's': '⎽',
	't': '├',
	'u': '┤',
	'v': '┴',
	'w': '┬',
	'x': '│',
	'y': '≤',
	'z': '≥',
	'{': 'π',
	'|': '≠',
	'}': '£',
	'~': '·',
}

// handleCharsetDesignation applies ESC ( x or ESC ) x, slot is '(' for G0 and ')' for G1.
func (e *Emulator) handleCharsetDesignation(slot, r rune) {
	var set charSet
	switch r {
	case 'A':
		set = charSetUK
	case 'B':
		set = charSetANSII
	case '0':
		set = charSetDECSpecialGraphics
	default:
		if e.debug {
			e.log.Printf("Unhandled charset designation: %q", string(slot)+string(r))
		}
		return
	}

	if slot == ')' {
		e.g1Charset = set
	} else {
		e.g0Charset = set
	}
}

func (e *Emulator) translateChar(r rune) rune {
	if e.useG1CharSet {
		return charSetMap[e.g1Charset](r)
	}
	return charSetMap[e.g0Charset](r)
}
