// Command demo exercises the screen engine and window manager: it opens
// two framed, titled windows and echoes each keystroke into the focused
// one until it sees 'q' or Ctrl-C.
package main

import (
	"fmt"
	"os"

	"ansiterm"
)

func main() {
	term, err := ansiterm.New(ansiterm.Config{WindowManager: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
	defer term.Close()

	left, _ := term.OpenWindow(0, 0, 2, 2, 30, 10)
	term.SetFrame(left, true, false, true)
	term.SetTitle(left, "left")
	term.WriteWindow(left, "left pane")
	term.Focus(left)

	right, _ := term.OpenWindow(0, 0, 34, 2, 30, 10)
	term.SetFrame(right, true, false, true)
	term.SetTitle(right, "right")
	term.WriteWindow(right, "right pane")

	for {
		ev, err := term.NextEvent()
		if err != nil {
			return
		}
		switch ev.Kind {
		case ansiterm.EventTerminate:
			return
		case ansiterm.EventChar:
			if ev.Char == 'q' {
				return
			}
			if ev.WindowID != 0 {
				term.WriteWindow(ev.WindowID, string(ev.Char))
			}
		case ansiterm.EventTab:
			if ev.WindowID == left {
				term.Focus(right)
			} else {
				term.Focus(left)
			}
		}
	}
}
