package ttyl

import "fmt"

// Position is a zero based cell location on the screen.
type Position struct {
	Row, Col int
}

func (p Position) String() string {
	return fmt.Sprintf("row: %d, col: %d", p.Row, p.Col)
}

