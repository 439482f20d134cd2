package ansiterm

import "sort"

// windowManager implements component E: the window tree, Z-order, focus,
// hit-testing, and composition of each window's back buffer onto the root
// surface. It installs itself in the registry's window_manager slot, which
// Terminal.dispatch reads to route input events to windows. Drawing into a
// window goes through the Terminal's window methods (WriteWindow, SetTitle,
// ...); the screen-engine drawing methods are not re-routed to windows.
type windowManager struct {
	screen *Screen
	reg    *registry

	root      *Window
	byID      map[int]*Window
	nextAnon  int
	nextZ     int
	focused   *Window
}

func newWindowManager(s *Screen, reg *registry) *windowManager {
	root := newWindow(0, nil, s.Width(), s.Height())
	root.pages = s.pages // the root window's surface IS the screen's page set
	root.visible = true
	wm := &windowManager{
		screen:   s,
		reg:      reg,
		root:     root,
		byID:     map[int]*Window{},
		nextAnon: -1,
		nextZ:    1,
	}
	return wm
}

// OpenWindow creates a child of parent (or the root if parent is 0) with
// the given caller-assigned id (0 requests an anonymous negative id), at
// origin (x,y) with the given client size. State starts "open": it
// becomes "visible" on first write.
func (wm *windowManager) OpenWindow(parentID, id, x, y, w, h int) (*Window, error) {
	parent := wm.root
	if parentID != 0 {
		p, ok := wm.byID[parentID]
		if !ok {
			return nil, ErrBadWindow
		}
		parent = p
	}

	if id == 0 {
		id = wm.nextAnon
		wm.nextAnon--
	} else if _, exists := wm.byID[id]; exists {
		return nil, ErrBadWindow
	}

	win := newWindow(id, parent, w, h)
	win.originX, win.originY = x, y
	win.recomputeClientGeometry()
	win.zorder = wm.nextZ
	wm.nextZ++

	parent.children = append(parent.children, win)
	wm.byID[id] = win
	return win, nil
}

// CloseWindow tears a window down: "visible → closed → unallocated".
// Its id is freed for reuse by a later open.
func (wm *windowManager) CloseWindow(id int) error {
	win, ok := wm.byID[id]
	if !ok {
		return ErrBadWindow
	}
	if wm.focused == win {
		wm.focused = nil
	}
	if win.parent != nil {
		siblings := win.parent.children
		for i, c := range siblings {
			if c == win {
				win.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	delete(wm.byID, id)
	wm.compositeAndFlush()
	return nil
}

// Show marks a window visible (the lazy-display transition triggered by
// its first write) and recomposites.
func (wm *windowManager) Show(win *Window) {
	if win.visible {
		return
	}
	win.visible = true
	wm.compositeAndFlush()
}

// Front brings win to the top of Z-order: "a Z-order rank never decreases
// for a living window except when another is brought to front (at which
// point the bringer takes a new maximum, not a swap)".
func (wm *windowManager) Front(win *Window) {
	win.zorder = wm.nextZ
	wm.nextZ++
	wm.compositeAndFlush()
}

// Back sends win to the bottom by giving every other window a fresh,
// higher rank — ranks stay monotonic and unique.
func (wm *windowManager) Back(win *Window) {
	all := wm.allWindows()
	sort.Slice(all, func(i, j int) bool { return all[i].zorder < all[j].zorder })
	for _, other := range all {
		if other == win {
			continue
		}
		other.zorder = wm.nextZ
		wm.nextZ++
	}
	wm.compositeAndFlush()
}

func (wm *windowManager) allWindows() []*Window {
	var out []*Window
	var walk func(*Window)
	walk = func(w *Window) {
		out = append(out, w)
		for _, c := range w.children {
			walk(c)
		}
	}
	walk(wm.root)
	return out
}

// HitTest finds the topmost visible window (by Z-order) whose extent
// contains (x,y) in root-surface coordinates.
func (wm *windowManager) HitTest(x, y int) *Window {
	var best *Window
	for _, w := range wm.allWindows() {
		if w == wm.root || !w.visible {
			continue
		}
		if !w.containsParentPoint(x, y) {
			continue
		}
		if best == nil || w.zorder > best.zorder {
			best = w
		}
	}
	return best
}

// DispatchMouseButton implements the hit-test/focus policy:
// no window under the pointer clears focus; a non-focused window under
// button 1 gains focus with no event delivered; other buttons on a
// non-focused window are dropped; a focused window's button event is
// translated to client coordinates and returned for delivery.
func (wm *windowManager) DispatchMouseButton(x, y, button int) (win *Window, clientX, clientY int, deliver bool) {
	hit := wm.HitTest(x, y)
	if hit == nil {
		wm.focused = nil
		return nil, 0, 0, false
	}
	if wm.focused != hit {
		if button == 1 {
			wm.focused = hit
		}
		return hit, 0, 0, false
	}
	clientX = x - hit.originX - hit.clientOffX + 1
	clientY = y - hit.originY - hit.clientOffY + 1
	return hit, clientX, clientY, true
}

// DispatchKey routes a keyboard event to the currently focused window, or
// drops it if none holds focus.
func (wm *windowManager) DispatchKey() (win *Window, ok bool) {
	if wm.focused == nil {
		return nil, false
	}
	return wm.focused, true
}

// compositeAndFlush rebuilds the root page from every visible window's
// back buffer in Z-order, has the screen engine repaint it, and flushes
// the output. The Terminal's window methods call it after each change they
// make, every WriteWindow included; a focus change alone does not
// recomposite.
func (wm *windowManager) compositeAndFlush() {
	root := wm.root.pages.Update()
	root.buf.Clear()

	ordered := wm.allWindows()
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].zorder < ordered[j].zorder })

	for _, w := range ordered {
		if w == wm.root || !w.visible {
			continue
		}
		wm.compositeWindow(root.buf, w)
	}
	root.buf.MarkAllDirty()
	wm.screen.fullRepaint()
	if err := wm.screen.Flush(); err != nil {
		fatal(err)
	}
}

func (wm *windowManager) compositeWindow(dst *Buffer, w *Window) {
	if w.framed {
		drawFrame(dst, w)
	}
	src, srcX, srcY := w.sourceBuffer()
	dst.Blit(src, srcX, srcY, w.originX+w.clientOffX, w.originY+w.clientOffY, w.clientW, w.clientH)
}
