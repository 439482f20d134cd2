package ansiterm

// EventKind identifies the kind of a decoded or synthesized Event. The full set is grounded on the legacy core's pa_evtcod
// enumeration; this rewrite keeps every kind even though the decoder
// (component C) only ever emits a subset directly — the rest are
// reachable via the generic function-key/editor-key paths or are
// reserved for an application's own event-handler override to synthesize.
type EventKind int

const (
	EventChar EventKind = iota
	EventUp
	EventDown
	EventLeft
	EventRight
	EventLeftWord
	EventRightWord
	EventHome
	EventHomeScreen
	EventHomeLine
	EventEnd
	EventEndScreen
	EventEndLine
	EventScrollLeft
	EventScrollRight
	EventScrollUp
	EventScrollDown
	EventPageDown
	EventPageUp
	EventTab
	EventEnter
	EventInsert
	EventInsertLine
	EventInsertToggle
	EventDelete
	EventDeleteLine
	EventDeleteCharForward
	EventDeleteCharBack
	EventCopy
	EventCopyLine
	EventCancel
	EventStop
	EventContinue
	EventPrint
	EventPrintBlock
	EventPrintScreen
	EventFunction
	EventMenu
	EventMouseButtonAssert
	EventMouseButtonDeassert
	EventMouseMove
	EventTimer
	EventJoystickButtonAssert
	EventJoystickButtonDeassert
	EventJoystickMove
	EventResize
	EventTerminate
	EventFrame
)

// Event is a tagged record carrying an event kind, the window it is routed
// to (0 if the window manager is not loaded or no window owns it), a
// handled flag the application sets to stop further propagation, and a
// payload whose active fields depend on Kind.
type Event struct {
	Kind     EventKind
	WindowID int
	Handled  bool

	Char rune // EventChar

	TimerID int // EventTimer

	MouseID     int // EventMouseButtonAssert/Deassert, EventMouseMove
	MouseButton int // EventMouseButtonAssert/Deassert
	MouseX      int // EventMouseMove
	MouseY      int // EventMouseMove

	JoystickID     int // EventJoystickButtonAssert/Deassert/Move
	JoystickButton int // EventJoystickButtonAssert/Deassert
	JoystickX      int // EventJoystickMove
	JoystickY      int // EventJoystickMove
	JoystickZ      int // EventJoystickMove
	JoystickA4     int // EventJoystickMove
	JoystickA5     int // EventJoystickMove
	JoystickA6     int // EventJoystickMove

	FunctionKey int // EventFunction

	MenuEntryID int // EventMenu
}
