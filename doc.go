// Package ansiterm is a portable, structured terminal-I/O library for
// text-mode applications targeting a VT100/xterm-compatible ANSI terminal.
//
// Applications draw into a two-dimensional grid of character cells, each
// with its own foreground color, background color, and attribute. The
// library mirrors the intended state of the physical terminal in memory
// (there is no reliable way to read a terminal's current state back), and
// emits the minimum ANSI escape sequence required to reconcile the two on
// every operation.
//
// Three subsystems do the work:
//
//   - The screen engine (Screen, Page, Buffer) owns the cell matrix,
//     cursor model, scrolling, and minimum-delta ANSI emission.
//   - The event source (an epoll or kqueue backend, read through
//     Terminal.NextEvent or Terminal.Events) demultiplexes keyboard input
//     and timers into one typed Event stream.
//   - The window manager (enabled with Terminal.EnableWindows; Window)
//     optionally subdivides the one physical terminal into overlapping,
//     focusable, Z-ordered subwindows with frames and titles.
//
// A minimal program creates a Terminal (New also enters raw mode and Close
// restores the terminal), draws into the update page (WriteString flushes
// its output), and pumps Events().Next in a loop:
//
//	term, err := ansiterm.New(ansiterm.Config{})
//	if err != nil { ... }
//	defer term.Close()
//
//	term.Home()
//	term.WriteString("hello")
//
//	for {
//		ev, err := term.Events().Next()
//		if err != nil { break }
//		if ev.Kind == ansiterm.EventChar && ev.Char == 'q' {
//			break
//		}
//	}
package ansiterm
