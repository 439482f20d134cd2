package ansiterm

import "github.com/mattn/go-runewidth"

// Buffer is a 2D grid of cells: the back buffer of one Page. For every
// cell that has been written, the back buffer is the single source of
// truth for what the terminal is currently showing.
type Buffer struct {
	cells  []Cell
	width  int
	height int

	dirtyRows []bool
	allDirty  bool
}

// NewBuffer creates a width x height buffer filled with blankCell.
func NewBuffer(width, height int) *Buffer {
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = blankCell
	}
	return &Buffer{
		cells:     cells,
		width:     width,
		height:    height,
		dirtyRows: make([]bool, height),
		allDirty:  true,
	}
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) index(x, y int) int { return y*b.width + x }

// Get returns the cell at (x,y), or blankCell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if !b.InBounds(x, y) {
		return blankCell
	}
	return b.cells[b.index(x, y)]
}

// Set writes a cell at (x,y), computing its display width and blanking the
// trailing placeholder column for double-width runes. Out-of-bounds writes
// are no-ops, matching the screen engine's "writes outside the client area
// are no-ops" invariant.
func (b *Buffer) Set(x, y int, c Cell) {
	if !b.InBounds(x, y) {
		return
	}
	w := runewidth.RuneWidth(c.Ch)
	if w <= 0 {
		w = 1
	}
	c.Width = uint8(w)
	b.cells[b.index(x, y)] = c
	b.markDirty(y)
	if w == 2 && x+1 < b.width {
		b.cells[b.index(x+1, y)] = Cell{Ch: 0, FG: c.FG, BG: c.BG, Attr: c.Attr, Width: 0}
	}
}

func (b *Buffer) markDirty(y int) {
	if y >= 0 && y < len(b.dirtyRows) {
		b.dirtyRows[y] = true
	}
}

// RowDirty reports whether row y changed since the last ClearDirtyFlags.
func (b *Buffer) RowDirty(y int) bool {
	if b.allDirty {
		return true
	}
	if y < 0 || y >= len(b.dirtyRows) {
		return false
	}
	return b.dirtyRows[y]
}

// ClearDirtyFlags resets per-row dirty tracking after a flush.
func (b *Buffer) ClearDirtyFlags() {
	b.allDirty = false
	for i := range b.dirtyRows {
		b.dirtyRows[i] = false
	}
}

// MarkAllDirty forces every row to be considered dirty on the next flush;
// used after a page select or full repaint.
func (b *Buffer) MarkAllDirty() { b.allDirty = true }

// Clear resets every cell to blankCell.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = blankCell
	}
	b.allDirty = true
}

// ClearLine clears a single row to blankCell.
func (b *Buffer) ClearLine(y int) {
	if y < 0 || y >= b.height {
		return
	}
	base := y * b.width
	for x := 0; x < b.width; x++ {
		b.cells[base+x] = blankCell
	}
	b.markDirty(y)
}

// FillCell fills the rectangle (x,y,w,h) with c, clipped to the buffer.
// Used by scroll() to fill cells scrolled into view.
func (b *Buffer) FillCell(x, y, w, h int, c Cell) {
	for dy := 0; dy < h; dy++ {
		row := y + dy
		if row < 0 || row >= b.height {
			continue
		}
		for dx := 0; dx < w; dx++ {
			col := x + dx
			if col < 0 || col >= b.width {
				continue
			}
			b.cells[b.index(col, row)] = c
		}
		b.markDirty(row)
	}
}

// Resize grows or shrinks the buffer, preserving the overlap of old and new
// dimensions at the origin. Used on SIGWINCH.
func (b *Buffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}
	newCells := make([]Cell, width*height)
	for i := range newCells {
		newCells[i] = blankCell
	}
	minW, minH := min(width, b.width), min(height, b.height)
	for y := 0; y < minH; y++ {
		for x := 0; x < minW; x++ {
			newCells[y*width+x] = b.cells[y*b.width+x]
		}
	}
	b.cells = newCells
	b.width = width
	b.height = height
	b.dirtyRows = make([]bool, height)
	b.allDirty = true
}

// Blit copies a w x h rectangle from src at (srcX,srcY) to this buffer at
// (dstX,dstY), clipping both ends. Used by scroll()'s slow path and by the
// window manager composing a window's buffer onto the root page.
func (b *Buffer) Blit(src *Buffer, srcX, srcY, dstX, dstY, width, height int) {
	if srcX < 0 {
		width += srcX
		dstX -= srcX
		srcX = 0
	}
	if srcY < 0 {
		height += srcY
		dstY -= srcY
		srcY = 0
	}
	if srcX+width > src.width {
		width = src.width - srcX
	}
	if srcY+height > src.height {
		height = src.height - srcY
	}
	if dstX < 0 {
		width += dstX
		srcX -= dstX
		dstX = 0
	}
	if dstY < 0 {
		height += dstY
		srcY -= dstY
		dstY = 0
	}
	if dstX+width > b.width {
		width = b.width - dstX
	}
	if dstY+height > b.height {
		height = b.height - dstY
	}
	if width <= 0 || height <= 0 {
		return
	}
	for y := 0; y < height; y++ {
		srcStart := (srcY + y) * src.width
		dstStart := (dstY + y) * b.width
		copy(b.cells[dstStart+dstX:dstStart+dstX+width], src.cells[srcStart+srcX:srcStart+srcX+width])
		b.markDirty(dstY + y)
	}
}

// Snapshot returns an independent copy of the buffer's cells, used by
// scroll()'s slow path to diff the post-scroll buffer against its
// pre-scroll contents.
func (b *Buffer) Snapshot() *Buffer {
	cp := &Buffer{
		cells:  make([]Cell, len(b.cells)),
		width:  b.width,
		height: b.height,
	}
	copy(cp.cells, b.cells)
	return cp
}
