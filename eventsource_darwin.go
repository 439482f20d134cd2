//go:build darwin

package ansiterm

import (
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// wakeIdent is the EVFILT_USER identifier used purely to interrupt a
// blocked kevent() when registration happens concurrently.
const wakeIdent = 1

// darwinEventSource implements eventSource over kqueue: EVFILT_READ for the
// input fd, EVFILT_SIGNAL for signals, EVFILT_TIMER per armed timer
// (period expressed in milliseconds, the finest kqueue timer granularity
// without NOTE_USECONDS, which not every Darwin version supports), and
// EVFILT_USER for the self-wake.
type darwinEventSource struct {
	kq int

	mu      sync.Mutex
	inputFD int
}

func newEventSource() (eventSource, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, wrapIO(err)
	}
	es := &darwinEventSource{kq: kq}

	wake := unix.Kevent_t{
		Ident:  wakeIdent,
		Filter: unix.EVFILT_USER,
		Flags:  unix.EV_ADD | unix.EV_CLEAR,
	}
	if _, err := unix.Kevent(kq, []unix.Kevent_t{wake}, nil, nil); err != nil {
		unix.Close(kq)
		return nil, wrapIO(err)
	}
	return es, nil
}

func (es *darwinEventSource) RegisterInput(fd int) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.inputFD = fd
	ev := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_READ,
		Flags:  unix.EV_ADD,
	}
	if _, err := unix.Kevent(es.kq, []unix.Kevent_t{ev}, nil, nil); err != nil {
		return wrapIO(err)
	}
	return es.WakeUp()
}

func (es *darwinEventSource) RegisterSignal(sig syscall.Signal) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	signal.Ignore(sig) // kqueue delivers it as an event; stop the default action

	ev := unix.Kevent_t{
		Ident:  uint64(sig),
		Filter: unix.EVFILT_SIGNAL,
		Flags:  unix.EV_ADD,
	}
	if _, err := unix.Kevent(es.kq, []unix.Kevent_t{ev}, nil, nil); err != nil {
		return wrapIO(err)
	}
	return es.WakeUp()
}

func (es *darwinEventSource) ArmTimer(id int, period100us int64, repeating bool) error {
	es.mu.Lock()
	defer es.mu.Unlock()

	flags := uint16(unix.EV_ADD)
	if !repeating {
		flags |= unix.EV_ONESHOT
	}
	periodMS := period100us / 10
	if periodMS < 1 {
		periodMS = 1
	}
	ev := unix.Kevent_t{
		Ident:  uint64(id),
		Filter: unix.EVFILT_TIMER,
		Flags:  flags,
		Data:   periodMS,
	}
	if _, err := unix.Kevent(es.kq, []unix.Kevent_t{ev}, nil, nil); err != nil {
		return wrapIO(err)
	}
	return es.WakeUp()
}

func (es *darwinEventSource) DisarmTimer(id int) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	ev := unix.Kevent_t{
		Ident:  uint64(id),
		Filter: unix.EVFILT_TIMER,
		Flags:  unix.EV_DELETE,
	}
	unix.Kevent(es.kq, []unix.Kevent_t{ev}, nil, nil) // idempotent: ok if not armed
	return nil
}

func (es *darwinEventSource) Next() (sourceEvent, error) {
	var events [8]unix.Kevent_t
	for {
		n, err := unix.Kevent(es.kq, nil, events[:], nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return sourceEvent{}, wrapIO(err)
		}
		for i := 0; i < n; i++ {
			ev := events[i]
			switch ev.Filter {
			case unix.EVFILT_USER:
				continue // self-wake only, no caller-visible event
			case unix.EVFILT_READ:
				return sourceEvent{Kind: sourceInput}, nil
			case unix.EVFILT_SIGNAL:
				return sourceEvent{Kind: sourceSignal, Signal: syscall.Signal(ev.Ident)}, nil
			case unix.EVFILT_TIMER:
				return sourceEvent{Kind: sourceTimer, TimerID: int(ev.Ident)}, nil
			}
		}
	}
}

func (es *darwinEventSource) WakeUp() error {
	ev := unix.Kevent_t{
		Ident:  wakeIdent,
		Filter: unix.EVFILT_USER,
		Fflags: unix.NOTE_TRIGGER,
	}
	_, err := unix.Kevent(es.kq, []unix.Kevent_t{ev}, nil, nil)
	return wrapIO(err)
}

func (es *darwinEventSource) Close() error {
	return wrapIO(unix.Close(es.kq))
}
