package ansiterm

// keyEntry pairs an EventKind with the byte sequence xterm sends for it.
// Empty Seq entries are kinds the decoder never matches literally (they
// are synthesized elsewhere: EventChar from a bare unmatched byte,
// EventMouseButtonAssert/Deassert from mouse sub-state decoding,
// EventTimer/EventResize/etc. from the event-source layer).
type keyEntry struct {
	Kind EventKind
	Seq  string
}

// keyTable is the keystroke table: event-kind to byte
// sequence, grounded verbatim on the legacy core's linux/terminal.c
// keytab[], including its choice of CUA-style bindings (ctrl-home for
// "home of document", ctrl-c for terminate, etc). Function keys F1-F9
// plus a reassigned F12 (standing in for a "10th" function key, since
// xterm reserves F10) are appended at the end, matching the source's own
// comment about why F10 is skipped.
var keyTable = []keyEntry{
	{EventChar, ""},
	{EventUp, "\x1b[A"},
	{EventDown, "\x1b[B"},
	{EventLeft, "\x1b[D"},
	{EventRight, "\x1b[C"},
	{EventLeftWord, "\x1b[1;5D"},
	{EventRightWord, "\x1b[1;5C"},
	{EventHome, "\x1b[1;5H"},
	{EventHomeScreen, "\x08"},
	{EventHomeLine, "\x1b[H"},
	{EventEnd, "\x1b[1;5F"},
	{EventEndScreen, "\x05"},
	{EventEndLine, "\x1b[F"},
	{EventScrollLeft, "\x1b[5;5~"},
	{EventScrollRight, "\x1b[6;5~"},
	{EventScrollUp, "\x1b[1;5B"},
	{EventScrollDown, "\x1b[1;5A"},
	{EventPageDown, "\x1b[6~"},
	{EventPageUp, "\x1b[5~"},
	{EventTab, "\x09"},
	{EventEnter, "\x0d"},
	{EventInsert, "\x16"},
	{EventInsertLine, ""},
	{EventInsertToggle, "\x1b[2~"},
	{EventDelete, "\x1b[3;2~"},
	{EventDeleteLine, "\x1b[3;5~"},
	{EventDeleteCharForward, "\x1b[3~"},
	{EventDeleteCharBack, "\x7f"},
	{EventCopy, "\x1bc"},
	{EventCopyLine, ""},
	{EventCancel, "\x1b\x1b"},
	{EventStop, "\x13"},
	{EventContinue, "\x11"},
	{EventPrint, "\x10"},
	{EventPrintBlock, ""},
	{EventPrintScreen, ""},
	{EventFunction, ""},
	{EventMenu, ""},
	{EventMouseButtonAssert, ""},
	{EventMouseButtonDeassert, ""},
	{EventMouseMove, "\x1b[M"}, // leader only: 3 more bytes read in mouse sub-state
	{EventTimer, ""},
	{EventJoystickButtonAssert, ""},
	{EventJoystickButtonDeassert, ""},
	{EventJoystickMove, ""},
	{EventResize, ""},
	{EventTerminate, "\x03"},
	{EventFrame, ""},

	{EventFunction, "\x1bOP"},       // F1
	{EventFunction, "\x1bOQ"},       // F2
	{EventFunction, "\x1bOR"},       // F3
	{EventFunction, "\x1bOS"},       // F4
	{EventFunction, "\x1b[15~"},     // F5
	{EventFunction, "\x1b[17~"},     // F6
	{EventFunction, "\x1b[18~"},     // F7
	{EventFunction, "\x1b[19~"},     // F8
	{EventFunction, "\x1b[20~"},     // F9
	{EventFunction, "\x1b[24~"},     // F12, standing in for a 10th function key
}

// mouseLeader is the fixed 3-byte sequence that switches the decoder into
// mouse sub-state.
const mouseLeader = "\x1b[M"

// funkeyCount is the number of function-key entries in the table,
// returned by the public API's funkey-count query.
const funkeyCount = 10

// funkeyTableStart is the index of the first function-key entry; the
// function-key number an EventFunction carries is 1 + (index -
// funkeyTableStart).
var funkeyTableStart = len(keyTable) - funkeyCount
