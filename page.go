package ansiterm

// MaxPages is the number of addressable screen pages.
const MaxPages = 10

// MaxDimension is the ceiling on a page's width or height.
const MaxDimension = 250

// Page is one logical screen page: a back buffer plus the write cursor and
// write state that place_char/position/scroll consult. Page 1 exists at startup; pages 2..10 are allocated lazily on
// first selection.
type Page struct {
	buf *Buffer

	curX, curY int // 1-based
	fg, bg     Color
	attr       Attr

	auto   bool // wrap at the right edge; no scroll past the bottom row
	curvis bool
	tabs   *TabStops
}

func newPage(width, height int) *Page {
	return &Page{
		buf:    NewBuffer(width, height),
		curX:   1,
		curY:   1,
		fg:     Black,
		bg:     White,
		auto:   true,
		curvis: true,
		tabs:   NewTabStops(width),
	}
}

// pageSet owns the up-to-MaxPages Page instances of one Terminal, the
// currently selected update and display page indices, and lazy allocation
// of pages beyond page 1.
type pageSet struct {
	pages   [MaxPages + 1]*Page // 1-based; index 0 unused
	width   int
	height  int
	update  int
	display int
}

func newPageSet(width, height int) *pageSet {
	ps := &pageSet{width: width, height: height, update: 1, display: 1}
	ps.pages[1] = newPage(width, height)
	return ps
}

// Get returns page n, allocating it lazily if this is its first use.
// Returns ErrBadPage if n is outside 1..MaxPages.
func (ps *pageSet) Get(n int) (*Page, error) {
	if n < 1 || n > MaxPages {
		return nil, ErrBadPage
	}
	if ps.pages[n] == nil {
		ps.pages[n] = newPage(ps.width, ps.height)
	}
	return ps.pages[n], nil
}

func (ps *pageSet) Update() *Page  { p, _ := ps.Get(ps.update); return p }
func (ps *pageSet) Display() *Page { p, _ := ps.Get(ps.display); return p }

// Select changes the update and display page indices. The screen engine
// is responsible for noticing a display-page change and triggering the
// full repaint; pageSet itself only tracks indices.
func (ps *pageSet) Select(update, display int) error {
	if update < 1 || update > MaxPages || display < 1 || display > MaxPages {
		return ErrBadPage
	}
	if _, err := ps.Get(update); err != nil {
		return err
	}
	if _, err := ps.Get(display); err != nil {
		return err
	}
	ps.update = update
	ps.display = display
	return nil
}

// Resize propagates a terminal-size change to every allocated page.
func (ps *pageSet) Resize(width, height int) {
	ps.width, ps.height = width, height
	for _, p := range ps.pages {
		if p != nil {
			p.buf.Resize(width, height)
		}
	}
}
