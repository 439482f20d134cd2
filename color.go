package ansiterm

// Color is one of the eight colors the core ANSI terminal model supports.
// This is a closed enumeration, not an RGB/256-color space: the library
// assumes an xterm-class ANSI terminal and nothing more: no
// terminal-capability database, no truecolor.
type Color uint8

const (
	Black Color = iota
	White
	Red
	Green
	Blue
	Cyan
	Yellow
	Magenta
)

// ansiColorBase values, grounded on original_source/linux/xterm.c: black
// uses the standard ANSI base (30 foreground / 40 background) so it reads
// as a true black rather than the "grey" xterm renders for 90/100 with
// index 0; every other color uses the aixterm-bright base (90/100), which
// is why black needs its own case below.
const (
	ansiForeBase      = 90
	ansiForeBlackBase = 30
	ansiBackBase      = 100
	ansiBackBlackBase = 40
)

// colorNumber maps a Color to the 0..7 index the ANSI base is added to,
// grounded on original_source/ansiterm.c's colnum(): the enumeration order
// (black, white, red, green, blue, cyan, yellow, magenta) does not match the
// wire order, which goes black, red, green, yellow, blue, magenta, cyan,
// white.
func colorNumber(c Color) int {
	switch c {
	case Black:
		return 0
	case Red:
		return 1
	case Green:
		return 2
	case Yellow:
		return 3
	case Blue:
		return 4
	case Magenta:
		return 5
	case Cyan:
		return 6
	case White:
		return 7
	default:
		return 7
	}
}

// foreCode returns the ANSI SGR parameter for c as a foreground color.
func foreCode(c Color) int {
	if c == Black {
		return ansiForeBlackBase + colorNumber(c)
	}
	return ansiForeBase + colorNumber(c)
}

// backCode returns the ANSI SGR parameter for c as a background color.
func backCode(c Color) int {
	if c == Black {
		return ansiBackBlackBase + colorNumber(c)
	}
	return ansiBackBase + colorNumber(c)
}

// String returns a human-readable color name, mainly for test failure output.
func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Cyan:
		return "cyan"
	case Yellow:
		return "yellow"
	case Magenta:
		return "magenta"
	default:
		return "unknown"
	}
}
