package ansiterm

// Frame glyphs, grounded verbatim on the legacy window manager's frmchrs[]
// table (portable/managerc.c): a closed table of ASCII approximations, no
// Unicode assumed.
const (
	glyphHorzLine   = '-'
	glyphVertLine   = '|'
	glyphSysUnderln = '='
	glyphTopLeft    = '+'
	glyphTopRight   = '+'
	glyphBotLeft    = '+'
	glyphBotRight   = '+'
	glyphMinBtn     = '_'
	glyphMaxBtn     = '^'
	glyphCanBtn     = 'X'
)

var frameCell = Cell{Ch: ' ', FG: Black, BG: White, Width: 1}

func frameGlyph(r rune) Cell {
	c := frameCell
	c.Ch = r
	return c
}

// drawFrame renders w's border, and if present, a right-aligned system bar
// (minimize/maximize/cancel glyphs) with the centered title and an
// underbar separating it from the client area — grounded on drwfrm()'s
// exact column math (system-bar buttons start at extent-width minus 6).
func drawFrame(dst *Buffer, w *Window) {
	ox, oy := w.originX, w.originY
	ew, eh := w.extentW, w.extentH

	dst.Set(ox, oy, frameGlyph(glyphTopLeft))
	dst.Set(ox+ew-1, oy, frameGlyph(glyphTopRight))
	for x := 1; x < ew-1; x++ {
		dst.Set(ox+x, oy, frameGlyph(glyphHorzLine))
	}

	dst.Set(ox, oy+eh-1, frameGlyph(glyphBotLeft))
	dst.Set(ox+ew-1, oy+eh-1, frameGlyph(glyphBotRight))
	for x := 1; x < ew-1; x++ {
		dst.Set(ox+x, oy+eh-1, frameGlyph(glyphHorzLine))
	}

	for y := 1; y < eh-1; y++ {
		dst.Set(ox, oy+y, frameGlyph(glyphVertLine))
		dst.Set(ox+ew-1, oy+y, frameGlyph(glyphVertLine))
	}

	if !w.sysbar {
		return
	}

	barY := 1
	btnStart := ew - 6
	dst.Set(ox+btnStart, oy+barY, frameGlyph(glyphMinBtn))
	dst.Set(ox+btnStart+2, oy+barY, frameGlyph(glyphMaxBtn))
	dst.Set(ox+btnStart+4, oy+barY, frameGlyph(glyphCanBtn))

	if w.title != "" {
		avail := btnStart - 1
		title := w.title
		if len(title) > avail {
			title = title[:avail]
		}
		startX := avail/2 - len(title)/2
		for i, r := range title {
			if startX+i < 0 || startX+i >= avail {
				continue
			}
			dst.Set(ox+startX+i, oy+barY, frameGlyph(r))
		}
	}

	underY := barY + 1
	for x := 1; x < ew-1; x++ {
		dst.Set(ox+x, oy+underY, frameGlyph(glyphSysUnderln))
	}
}
