package ansiterm

// mouseState is the decoder's last-known mouse button/position snapshot,
// diffed against each new mouse record to synthesize assert/deassert/move
// events.
type mouseState struct {
	buttons [3]bool // button 1..3 currently down
	x, y    int
	valid   bool
}

// decoder implements a greedy-longest-match keystroke parser: a small
// buffer, re-scanned against keyTable on every appended byte,
// classified as no-match/partial-match/full-match, with a dedicated
// mouse sub-state for the 3 bytes that follow the mouse-move leader.
type decoder struct {
	buf []byte

	inMouse  bool
	mouseBuf []byte

	mouse mouseState
}

func newDecoder() *decoder {
	return &decoder{buf: make([]byte, 0, 10), mouse: mouseState{}}
}

// Feed appends one input byte and returns zero or more decoded events. Most
// calls return zero events (still accumulating a partial match) or one;
// a mouse record with both a button transition and movement returns two,
// button first.
func (d *decoder) Feed(b byte) []Event {
	if d.inMouse {
		return d.feedMouse(b)
	}

	d.buf = append(d.buf, b)

	fullIdx := -1
	partial := 0
	for i, e := range keyTable {
		if e.Seq == "" {
			continue
		}
		if len(d.buf) > len(e.Seq) {
			continue
		}
		if string(d.buf) != e.Seq[:len(d.buf)] {
			continue
		}
		if len(d.buf) == len(e.Seq) {
			fullIdx = i
		} else {
			partial++
		}
	}

	switch {
	case fullIdx >= 0 && keyTable[fullIdx].Seq == mouseLeader:
		d.buf = d.buf[:0]
		d.inMouse = true
		d.mouseBuf = d.mouseBuf[:0]
		return nil

	case fullIdx >= 0 && partial == 0:
		ev := d.eventFor(fullIdx)
		d.buf = d.buf[:0]
		return []Event{ev}

	case partial > 0:
		if len(d.buf) >= cap(d.buf) {
			// buffer exhausted with no resolution: discard, stillborn.
			d.buf = d.buf[:0]
			return nil
		}
		return nil

	default:
		if len(d.buf) == 1 {
			ev := Event{Kind: EventChar, Char: rune(d.buf[0])}
			d.buf = d.buf[:0]
			return []Event{ev}
		}
		// more than one byte, no match at all: stillborn escape sequence.
		d.buf = d.buf[:0]
		return nil
	}
}

func (d *decoder) eventFor(idx int) Event {
	kind := keyTable[idx].Kind
	if kind == EventFunction {
		return Event{Kind: EventFunction, FunctionKey: idx - funkeyTableStart + 1}
	}
	return Event{Kind: kind}
}

func (d *decoder) feedMouse(b byte) []Event {
	d.mouseBuf = append(d.mouseBuf, b)
	if len(d.mouseBuf) < 3 {
		return nil
	}
	d.inMouse = false

	btnByte := d.mouseBuf[0]
	x := int(d.mouseBuf[1]) - 33 + 1
	y := int(d.mouseBuf[2]) - 33 + 1
	d.mouseBuf = d.mouseBuf[:0]

	code := int(btnByte) & 0x03
	var events []Event

	if code == 3 {
		// release: deassert whichever buttons were down.
		for i := 0; i < 3; i++ {
			if d.mouse.buttons[i] {
				d.mouse.buttons[i] = false
				events = append(events, Event{
					Kind:        EventMouseButtonDeassert,
					MouseID:     1,
					MouseButton: i + 1,
				})
			}
		}
	} else {
		btn := code + 1
		if btn >= 1 && btn <= 3 && !d.mouse.buttons[btn-1] {
			d.mouse.buttons[btn-1] = true
			events = append(events, Event{
				Kind:        EventMouseButtonAssert,
				MouseID:     1,
				MouseButton: btn,
			})
		}
	}

	if !d.mouse.valid || d.mouse.x != x || d.mouse.y != y {
		d.mouse.x, d.mouse.y, d.mouse.valid = x, y, true
		events = append(events, Event{
			Kind:    EventMouseMove,
			MouseID: 1,
			MouseX:  x,
			MouseY:  y,
		})
	}

	return events
}
