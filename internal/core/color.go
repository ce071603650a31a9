package core

import "strconv"

// Color represents a foreground color for a screen cell.
// Values map onto the ANSI 256-color palette.
type Color uint8

// Colors used by the automaton views. ColorDefault leaves the terminal's
// foreground untouched.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightGreen
	ColorBrightCyan
	ColorBrightWhite
	ColorGray
)

// ansi holds the 256-color code for each Color.
var ansi = [...]int{
	ColorDefault:     -1,
	ColorRed:         1,
	ColorGreen:       2,
	ColorYellow:      3,
	ColorBlue:        4,
	ColorMagenta:     5,
	ColorCyan:        6,
	ColorWhite:       7,
	ColorBrightGreen: 10,
	ColorBrightCyan:  14,
	ColorBrightWhite: 15,
	ColorGray:        245,
}

// Code returns the ANSI 256-color code as a string, or "" for ColorDefault
// and unknown colors.
func (c Color) Code() string {
	if int(c) >= len(ansi) || ansi[c] < 0 {
		return ""
	}
	return strconv.Itoa(ansi[c])
}
