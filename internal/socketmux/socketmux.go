// Package socketmux implements a non-blocking socket multiplexer over a
// dense array of slots, driven by a single epoll instance.
//
// Callers open client or server sockets into slots, register them with the
// multiplexer, and drive a loop around Next to learn which slot became
// readable, writable, or disconnected. No goroutine is ever spawned here;
// the caller is expected to dispatch each event synchronously before
// calling Next again.
package socketmux

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Mode describes why a slot was reported by Next.
type Mode uint8

const (
	// Read means the slot has bytes ready (or, for a server slot, a
	// pending connection to Accept).
	Read Mode = iota
	// Write means the slot's socket buffer can accept more bytes.
	Write
	// Disconnect means the peer reset, aborted, or the slot's file
	// descriptor otherwise became invalid.
	Disconnect
)

// ErrRepeat is returned by Read, Write, and Next to mean "nothing happened,
// call again" — never a real error, always safe to ignore and loop.
var ErrRepeat = errors.New("socketmux: repeat")

// ErrConnectionClosed means the peer performed an orderly shutdown.
var ErrConnectionClosed = errors.New("socketmux: connection closed")

// ErrConnectionAborted means the peer reset the connection.
var ErrConnectionAborted = errors.New("socketmux: connection aborted")

// ErrConnectionRefused means a client connect attempt was refused.
var ErrConnectionRefused = errors.New("socketmux: connection refused")

// ErrInvalidSlot means a slot index was out of range or not in use.
var ErrInvalidSlot = errors.New("socketmux: invalid slot")

// maxEvents bounds how many epoll events are drained per Next call.
const maxEvents = 12

// epollTimeoutMS is the epoll_wait timeout; Next returns ErrRepeat when it
// elapses with nothing ready.
const epollTimeoutMS = 10

// socket is one slot's state.
type socket struct {
	fd        int
	valid     bool
	server    bool
	blocking  bool
	writing   bool
	peer      unix.Sockaddr
	localPort int
}

// Mux owns a fixed-size array of socket slots and the epoll instance that
// watches them.
//
// Grounded on the teacher's dependency-free, struct-of-state style; the
// epoll syscalls are the one place this module reaches past the teacher's
// own stack, for golang.org/x/sys/unix.
type Mux struct {
	slots   []socket
	epfd    int
	events  [maxEvents]unix.EpollEvent
	pending int // events[pendingPos:pending] are unreported from the last EpollWait
	pendingPos int
}

// Open allocates n slots, all invalid, and creates the backing epoll
// instance.
func Open(n int) (*Mux, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("socketmux: epoll_create1: %w", err)
	}
	return &Mux{
		slots: make([]socket, n),
		epfd:  epfd,
	}, nil
}

// Close releases the epoll instance. Individual slots should be closed with
// Close(slot) first.
func (m *Mux) Close() error {
	return unix.Close(m.epfd)
}

func (m *Mux) slot(i int) (*socket, error) {
	if i < 0 || i >= len(m.slots) {
		return nil, ErrInvalidSlot
	}
	return &m.slots[i], nil
}

// freeSlot finds the first invalid slot.
func (m *Mux) freeSlot() (int, error) {
	for i := range m.slots {
		if !m.slots[i].valid {
			return i, nil
		}
	}
	return -1, errors.New("socketmux: no free slots")
}

// OpenServer binds and listens on port, returning its slot index.
// SO_REUSEADDR and SO_REUSEPORT are set so a restarted process can rebind
// immediately.
func (m *Mux) OpenServer(port int, blocking bool) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("socketmux: socket: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("socketmux: SO_REUSEADDR: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("socketmux: SO_REUSEPORT: %w", err)
	}
	addr := &unix.SockaddrInet4{Port: port}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("socketmux: bind: %w", err)
	}
	if err := unix.Listen(fd, 128); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("socketmux: listen: %w", err)
	}
	if !blocking {
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fd)
			return -1, fmt.Errorf("socketmux: set nonblock: %w", err)
		}
	}

	i, err := m.freeSlot()
	if err != nil {
		unix.Close(fd)
		return -1, err
	}
	m.slots[i] = socket{fd: fd, valid: true, server: true, blocking: blocking, localPort: port}
	return i, nil
}

// OpenClient resolves host and connects to port. DNS resolution and the
// connect itself are blocking; the resulting socket is switched to
// non-blocking mode once established, matching the blocking discipline
// described for this layer (open_client blocks on connect; everything
// afterward never blocks).
func (m *Mux) OpenClient(host string, port int) (int, error) {
	ips, err := net.LookupIP(host)
	if err != nil || len(ips) == 0 {
		return -1, fmt.Errorf("socketmux: lookup %s: %w", host, err)
	}
	var ip4 [4]byte
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			copy(ip4[:], v4)
			break
		}
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("socketmux: socket: %w", err)
	}
	addr := &unix.SockaddrInet4{Port: port, Addr: ip4}
	if err := unix.Connect(fd, addr); err != nil {
		unix.Close(fd)
		if errors.Is(err, unix.ECONNREFUSED) {
			return -1, ErrConnectionRefused
		}
		return -1, fmt.Errorf("socketmux: connect: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, err
	}

	i, err := m.freeSlot()
	if err != nil {
		unix.Close(fd)
		return -1, err
	}
	m.slots[i] = socket{fd: fd, valid: true, peer: addr}
	return i, nil
}

// Accept accepts a pending connection on a server slot, returning the new
// client's slot index. Returns ErrRepeat if nothing is pending.
func (m *Mux) Accept(serverSlot int) (int, error) {
	s, err := m.slot(serverSlot)
	if err != nil {
		return -1, err
	}
	if !s.valid || !s.server {
		return -1, ErrInvalidSlot
	}

	fd, peer, err := unix.Accept4(s.fd, unix.SOCK_NONBLOCK)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return -1, ErrRepeat
		}
		return -1, fmt.Errorf("socketmux: accept: %w", err)
	}

	i, err := m.freeSlot()
	if err != nil {
		unix.Close(fd)
		return -1, err
	}
	m.slots[i] = socket{fd: fd, valid: true, peer: peer}
	return i, nil
}

// Read reads into buf from slot, returning ErrRepeat if the socket would
// block, ErrConnectionClosed on orderly shutdown, or ErrConnectionAborted
// on reset.
func (m *Mux) Read(slotIdx int, buf []byte) (int, error) {
	s, err := m.slot(slotIdx)
	if err != nil {
		return 0, err
	}
	if !s.valid {
		return 0, ErrInvalidSlot
	}
	n, err := unix.Read(s.fd, buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return 0, ErrRepeat
		}
		if errors.Is(err, unix.ECONNRESET) {
			return 0, ErrConnectionAborted
		}
		return 0, fmt.Errorf("socketmux: read: %w", err)
	}
	if n == 0 {
		return 0, ErrConnectionClosed
	}
	return n, nil
}

// Write writes buf to slot, returning ErrRepeat if the socket would block.
func (m *Mux) Write(slotIdx int, buf []byte) (int, error) {
	s, err := m.slot(slotIdx)
	if err != nil {
		return 0, err
	}
	if !s.valid {
		return 0, ErrInvalidSlot
	}
	n, err := unix.Write(s.fd, buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return 0, ErrRepeat
		}
		if errors.Is(err, unix.EPIPE) || errors.Is(err, unix.ECONNRESET) {
			return 0, ErrConnectionAborted
		}
		return 0, fmt.Errorf("socketmux: write: %w", err)
	}
	return n, nil
}

// Close closes the slot's file descriptor, unregisters it from epoll if
// needed, and marks the slot invalid.
func (m *Mux) Close(slotIdx int) error {
	s, err := m.slot(slotIdx)
	if err != nil {
		return err
	}
	if !s.valid {
		return nil
	}
	_ = unix.EpollCtl(m.epfd, unix.EPOLL_CTL_DEL, s.fd, nil)
	err = unix.Close(s.fd)
	*s = socket{}
	return err
}

// Register adds slotIdx's file descriptor to the epoll set, watching for
// EPOLLIN always and EPOLLOUT when writing is true.
func (m *Mux) Register(slotIdx int, writing bool) error {
	s, err := m.slot(slotIdx)
	if err != nil {
		return err
	}
	if !s.valid {
		return ErrInvalidSlot
	}
	s.writing = writing
	ev := unix.EpollEvent{
		Events: epollEventMask(writing),
		Fd:     int32(slotIdx),
	}
	return unix.EpollCtl(m.epfd, unix.EPOLL_CTL_ADD, s.fd, &ev)
}

// Unregister removes slotIdx from the epoll set without closing it.
func (m *Mux) Unregister(slotIdx int) error {
	s, err := m.slot(slotIdx)
	if err != nil {
		return err
	}
	if !s.valid {
		return ErrInvalidSlot
	}
	return unix.EpollCtl(m.epfd, unix.EPOLL_CTL_DEL, s.fd, nil)
}

func epollEventMask(writing bool) uint32 {
	mask := uint32(unix.EPOLLIN | unix.EPOLLRDHUP)
	if writing {
		mask |= unix.EPOLLOUT
	}
	return mask
}

// SetBlocking toggles O_NONBLOCK on slotIdx's file descriptor, and, if
// slotIdx is registered, refreshes its epoll event mask to match its
// current writing flag.
func (m *Mux) SetBlocking(slotIdx int, blocking bool) error {
	s, err := m.slot(slotIdx)
	if err != nil {
		return err
	}
	if !s.valid {
		return ErrInvalidSlot
	}
	s.blocking = blocking
	if err := unix.SetNonblock(s.fd, !blocking); err != nil {
		return err
	}
	ev := unix.EpollEvent{Events: epollEventMask(s.writing), Fd: int32(slotIdx)}
	_ = unix.EpollCtl(m.epfd, unix.EPOLL_CTL_MOD, s.fd, &ev)
	return nil
}

// SetWriting updates whether slotIdx is watched for EPOLLOUT and refreshes
// its epoll registration accordingly.
func (m *Mux) SetWriting(slotIdx int, writing bool) error {
	s, err := m.slot(slotIdx)
	if err != nil {
		return err
	}
	if !s.valid {
		return ErrInvalidSlot
	}
	s.writing = writing
	ev := unix.EpollEvent{Events: epollEventMask(writing), Fd: int32(slotIdx)}
	return unix.EpollCtl(m.epfd, unix.EPOLL_CTL_MOD, s.fd, &ev)
}

// Address returns the peer address of slotIdx, formatted "ip:port".
func (m *Mux) Address(slotIdx int) (string, error) {
	s, err := m.slot(slotIdx)
	if err != nil {
		return "", err
	}
	if !s.valid {
		return "", ErrInvalidSlot
	}
	sa, err := unix.Getpeername(s.fd)
	if err != nil {
		return "", fmt.Errorf("socketmux: getpeername: %w", err)
	}
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return fmt.Sprintf("%s:%d", net.IP(v.Addr[:]).String(), v.Port), nil
	default:
		return "", fmt.Errorf("socketmux: unsupported address family")
	}
}

// CommaAddress returns slotIdx's peer IPv4 address with dots replaced by
// commas. FTP PASV replies use CommaLocalAddress instead.
func (m *Mux) CommaAddress(slotIdx int) (string, error) {
	addr, err := m.Address(slotIdx)
	if err != nil {
		return "", err
	}
	host := addr
	if idx := strings.LastIndexByte(addr, ':'); idx >= 0 {
		host = addr[:idx]
	}
	return strings.ReplaceAll(host, ".", ","), nil
}

// LocalAddress returns slotIdx's own IPv4 address, formatted "ip:port".
func (m *Mux) LocalAddress(slotIdx int) (string, error) {
	s, err := m.slot(slotIdx)
	if err != nil {
		return "", err
	}
	if !s.valid {
		return "", ErrInvalidSlot
	}
	sa, err := unix.Getsockname(s.fd)
	if err != nil {
		return "", fmt.Errorf("socketmux: getsockname: %w", err)
	}
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return fmt.Sprintf("%s:%d", net.IP(v.Addr[:]).String(), v.Port), nil
	default:
		return "", fmt.Errorf("socketmux: unsupported address family")
	}
}

// CommaLocalAddress returns slotIdx's own IPv4 address with dots replaced
// by commas, used to tell an FTP client where to dial for a PASV/EPSV data
// connection.
func (m *Mux) CommaLocalAddress(slotIdx int) (string, error) {
	addr, err := m.LocalAddress(slotIdx)
	if err != nil {
		return "", err
	}
	host := addr
	if idx := strings.LastIndexByte(addr, ':'); idx >= 0 {
		host = addr[:idx]
	}
	return strings.ReplaceAll(host, ".", ","), nil
}

// LocalPort returns the port slotIdx was opened or bound on.
func (m *Mux) LocalPort(slotIdx int) (int, error) {
	s, err := m.slot(slotIdx)
	if err != nil {
		return 0, err
	}
	if !s.valid {
		return 0, ErrInvalidSlot
	}
	return s.localPort, nil
}

// Next waits for at most epollTimeoutMS for a ready slot and reports it.
// Returns ErrRepeat when nothing became ready before the timeout; the
// caller is expected to loop. A single sweep may buffer up to maxEvents
// ready descriptors; Next drains them one at a time before polling again.
func (m *Mux) Next() (int, Mode, error) {
	if m.pendingPos >= m.pending {
		n, err := unix.EpollWait(m.epfd, m.events[:], epollTimeoutMS)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				return -1, 0, ErrRepeat
			}
			return -1, 0, fmt.Errorf("socketmux: epoll_wait: %w", err)
		}
		m.pending = n
		m.pendingPos = 0
		if n == 0 {
			return -1, 0, ErrRepeat
		}
	}

	ev := m.events[m.pendingPos]
	m.pendingPos++
	slotIdx := int(ev.Fd)
	switch {
	case ev.Events&(unix.EPOLLRDHUP|unix.EPOLLHUP|unix.EPOLLERR) != 0:
		return slotIdx, Disconnect, nil
	case ev.Events&unix.EPOLLIN != 0:
		return slotIdx, Read, nil
	case ev.Events&unix.EPOLLOUT != 0:
		return slotIdx, Write, nil
	default:
		return -1, 0, ErrRepeat
	}
}

// ParsePort is a small convenience used by callers building listener
// addresses from string flags.
func ParsePort(s string) (int, error) {
	return strconv.Atoi(s)
}
