//go:build linux

package ansiterm

import (
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// linuxEventSource implements eventSource over epoll, with signalfd for
// signals, timerfd per armed timer, and an eventfd used purely to wake a
// blocked epoll_wait when registration happens concurrently. Each epoll registration tags its event with a
// (kind, id) pair packed into EpollEvent's Pad field (Fd keeps the
// descriptor itself) — epoll_data is
// opaque to the kernel, so whatever is stored there is returned verbatim
// by EpollWait, letting Next() classify a ready fd without a side table.
type linuxEventSource struct {
	epfd int

	mu       sync.Mutex
	inputFD  int
	sigfd    int
	sigset   unix.Sigset_t
	wakeFD   int
	timerFDs map[int]int // timer id -> timerfd
}

func newEventSource() (eventSource, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, wrapIO(err)
	}
	wakeFD, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		unix.Close(epfd)
		return nil, wrapIO(err)
	}
	es := &linuxEventSource{
		epfd:     epfd,
		sigfd:    -1,
		wakeFD:   wakeFD,
		timerFDs: make(map[int]int),
	}
	if err := es.epollAdd(wakeFD, sourceWake, 0); err != nil {
		return nil, err
	}
	return es, nil
}

func (es *linuxEventSource) epollAdd(fd int, kind sourceEventKind, id int) error {
	ev := unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(fd),
		Pad:    int32(kind)<<16 | int32(id&0xffff),
	}
	if err := unix.EpollCtl(es.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return wrapIO(err)
	}
	return nil
}

func (es *linuxEventSource) RegisterInput(fd int) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.inputFD = fd
	if err := es.epollAdd(fd, sourceInput, 0); err != nil {
		return err
	}
	return es.WakeUp()
}

func (es *linuxEventSource) RegisterSignal(sig syscall.Signal) error {
	es.mu.Lock()
	defer es.mu.Unlock()

	sigsetAdd(&es.sigset, int(sig))
	if err := unix.PthreadSigmask(unix.SIG_BLOCK, &es.sigset, nil); err != nil {
		return wrapIO(err)
	}

	if es.sigfd >= 0 {
		unix.EpollCtl(es.epfd, unix.EPOLL_CTL_DEL, es.sigfd, nil)
		unix.Close(es.sigfd)
	}
	fd, err := unix.Signalfd(-1, &es.sigset, unix.SFD_CLOEXEC|unix.SFD_NONBLOCK)
	if err != nil {
		return wrapIO(err)
	}
	es.sigfd = fd
	if err := es.epollAdd(fd, sourceSignal, 0); err != nil {
		return err
	}
	return es.WakeUp()
}

func (es *linuxEventSource) ArmTimer(id int, period100us int64, repeating bool) error {
	es.mu.Lock()
	defer es.mu.Unlock()

	fd, ok := es.timerFDs[id]
	if !ok {
		newFD, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
		if err != nil {
			return wrapIO(err)
		}
		if err := es.epollAdd(newFD, sourceTimer, id); err != nil {
			unix.Close(newFD)
			return err
		}
		fd = newFD
		es.timerFDs[id] = fd
	}

	nanos := period100us * 100000
	spec := unix.ItimerSpec{Value: unix.NsecToTimespec(nanos)}
	if repeating {
		spec.Interval = unix.NsecToTimespec(nanos)
	}
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		return wrapIO(err)
	}
	return es.WakeUp()
}

func (es *linuxEventSource) DisarmTimer(id int) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	fd, ok := es.timerFDs[id]
	if !ok {
		return nil
	}
	var zero unix.ItimerSpec
	return wrapIO(unix.TimerfdSettime(fd, 0, &zero, nil))
}

func (es *linuxEventSource) Next() (sourceEvent, error) {
	var events [8]unix.EpollEvent
	for {
		n, err := unix.EpollWait(es.epfd, events[:], -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return sourceEvent{}, wrapIO(err)
		}
		for i := 0; i < n; i++ {
			kind := sourceEventKind(events[i].Pad >> 16)
			id := int(events[i].Pad & 0xffff)

			switch kind {
			case sourceWake:
				var buf [8]byte
				unix.Read(es.wakeFD, buf[:])
				continue
			case sourceInput:
				return sourceEvent{Kind: sourceInput}, nil
			case sourceSignal:
				buf := make([]byte, signalfdSiginfoSize)
				unix.Read(es.sigfd, buf)
				signo := decodeSignalfdSigno(buf)
				return sourceEvent{Kind: sourceSignal, Signal: syscall.Signal(signo)}, nil
			case sourceTimer:
				var buf [8]byte
				unix.Read(es.timerFDs[id], buf[:])
				return sourceEvent{Kind: sourceTimer, TimerID: id}, nil
			}
		}
	}
}

// signalfdSiginfoSize is struct signalfd_siginfo's fixed kernel ABI size.
const signalfdSiginfoSize = 128

// decodeSignalfdSigno pulls the signal number (the first uint32 field) out
// of a raw signalfd_siginfo record; the kernel always lays it out
// little-endian regardless of host byte order.
func decodeSignalfdSigno(buf []byte) uint32 {
	if len(buf) < 4 {
		return 0
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

// sigsetAdd sets signal sig's bit in a kernel sigset_t (64 signals per
// word, 1-based numbering), since x/sys/unix exposes Sigset_t as a raw
// bitmap with no public mutator.
func sigsetAdd(set *unix.Sigset_t, sig int) {
	word := (sig - 1) / 64
	bit := uint((sig - 1) % 64)
	if word >= 0 && word < len(set.Val) {
		set.Val[word] |= 1 << bit
	}
}

func (es *linuxEventSource) WakeUp() error {
	var one [8]byte
	one[0] = 1
	_, err := unix.Write(es.wakeFD, one[:])
	if err != nil && err != unix.EAGAIN {
		return wrapIO(err)
	}
	return nil
}

func (es *linuxEventSource) Close() error {
	for _, fd := range es.timerFDs {
		unix.Close(fd)
	}
	if es.sigfd >= 0 {
		unix.Close(es.sigfd)
	}
	unix.Close(es.wakeFD)
	return wrapIO(unix.Close(es.epfd))
}
