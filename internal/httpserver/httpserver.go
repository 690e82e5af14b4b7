// Package httpserver implements the per-session HTTP/1.1 state machine that
// sits on top of internal/socketmux and internal/httpparse. A Session owns
// exactly one client slot; the driver loop feeds it readiness events and it
// drives the incremental parser, a small request builder, and a bounded
// outgoing write queue.
package httpserver

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/llehouerou/go-aac/internal/httpparse"
	"github.com/llehouerou/go-aac/internal/socketmux"
)

// Delimiters used to flatten the header list into the session's scratch
// builder, mirroring the wire-adjacent representation described for this
// server: "|key:value|key2:value2|...".
const (
	HeadersPairDelim     = '|'
	HeadersKeyValueDelim = ':'
)

// MaxWriteQueue bounds how many pending writes a session can hold before
// the application must wait for the queue to drain.
const MaxWriteQueue = 8

// MaxIdleSweeps is the number of sweeps a session can go without I/O
// activity before the driver force-closes it.
const MaxIdleSweeps = 512

const ioBufSize = 32 * 1024

// Socket is the narrow slice of socketmux.Mux a Session needs. Defined here
// instead of depending on the concrete type so a session can be driven by a
// fake in tests.
type Socket interface {
	Read(slot int, buf []byte) (int, error)
	Write(slot int, buf []byte) (int, error)
}

// Request is the logical HTTP request handed to the application once a
// message finishes parsing. It aliases into the session's builder and is
// only valid until the session's next Read; handlers must enqueue all
// writes before returning.
type Request struct {
	Method  string
	Path    string
	Params  string
	Body    []byte
	Headers string
}

// Handler processes a finished request and enqueues zero or more writes on
// the session.
type Handler func(s *Session, r *Request)

// Session is one client connection's HTTP state.
type Session struct {
	sock    Socket
	slot    int
	handler Handler

	parser *httpparse.Parser

	builder     []byte
	pathStart   int
	pathLen     int
	headerStart int
	bodyStart   int
	lastKind    httpparse.EventKind

	readBuf [ioBufSize]byte
	ioBuf   [ioBufSize]byte

	queue [MaxWriteQueue]*writeEntry
	head  int
	count int

	idle   int
	closed bool
}

// NewSession creates a session bound to slot, ready to read requests and
// dispatch them to handler.
func NewSession(sock Socket, slot int, handler Handler) *Session {
	s := &Session{sock: sock, slot: slot, handler: handler}
	s.resetMessage()
	return s
}

func (s *Session) resetMessage() {
	s.parser = httpparse.NewParser()
	s.builder = s.builder[:0]
	s.pathStart = 0
	s.pathLen = 0
	s.headerStart = -1
	s.bodyStart = -1
	s.lastKind = httpparse.Nothing
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool { return s.closed }

// Slot returns the socket slot this session owns.
func (s *Session) Slot() int { return s.slot }

// QueueEmpty reports whether there are no pending writes. HandleReadable
// ignores Read events while the write queue is not empty.
func (s *Session) QueueEmpty() bool { return s.count == 0 }

// IdleTick increments the idle counter; the driver calls it once per sweep
// for every session that saw no activity that sweep. It returns true once
// the session has gone idle long enough to be force-closed.
func (s *Session) IdleTick() bool {
	s.idle++
	return s.idle >= MaxIdleSweeps
}

func (s *Session) resetIdle() { s.idle = 0 }

// Close marks the session closed. The driver is responsible for closing the
// underlying socket slot.
func (s *Session) Close() {
	s.closed = true
	s.count = 0
	s.head = 0
}

// HandleReadable pulls available bytes and feeds the parser. It returns nil
// on ordinary progress (including when the socket would block); any
// returned error means the session's socket should be torn down by the
// caller.
func (s *Session) HandleReadable() error {
	if !s.QueueEmpty() {
		return nil
	}

	n, err := s.sock.Read(s.slot, s.readBuf[:])
	if err != nil {
		if errors.Is(err, socketmux.ErrRepeat) {
			return nil
		}
		return err
	}
	s.resetIdle()

	data := s.readBuf[:n]
	for len(data) > 0 {
		consumed, ev := s.parser.Next(data)
		if consumed == 0 && ev.Kind == httpparse.Nothing {
			break
		}
		data = data[consumed:]
		if err := s.handleEvent(ev); err != nil {
			return err
		}
		if s.parser.Done() {
			s.deliver()
			if !s.QueueEmpty() {
				// Caller must enqueue all writes before returning; once it
				// has, stop feeding this message's leftover bytes (there
				// should be none for a non-pipelined server) and start
				// fresh for the next request on this connection.
				s.resetMessage()
				break
			}
			s.resetMessage()
		}
	}
	return nil
}

func (s *Session) handleEvent(ev httpparse.Event) error {
	switch ev.Kind {
	case httpparse.Path:
		s.pathStart = len(s.builder)
		s.builder = append(s.builder, ev.Data...)
		s.pathLen = len(ev.Data)
		s.headerStart = len(s.builder)
		s.lastKind = httpparse.Nothing
	case httpparse.Key:
		if s.lastKind != httpparse.Key {
			s.builder = append(s.builder, HeadersPairDelim)
		}
		s.builder = append(s.builder, ev.Data...)
		s.lastKind = httpparse.Key
	case httpparse.Value:
		if s.lastKind == httpparse.Key {
			s.builder = append(s.builder, HeadersKeyValueDelim)
		}
		s.builder = append(s.builder, ev.Data...)
		s.lastKind = httpparse.Value
	case httpparse.Body:
		if s.bodyStart < 0 {
			s.bodyStart = len(s.builder)
		}
		s.builder = append(s.builder, ev.Data...)
		s.lastKind = httpparse.Body
	case httpparse.Process:
		s.lastKind = httpparse.Nothing
	case httpparse.ErrorEvent:
		return errors.New("httpserver: malformed request")
	}
	return nil
}

// deliver builds the Request and calls the application handler.
func (s *Session) deliver() {
	path := string(s.builder[s.pathStart : s.pathStart+s.pathLen])
	target, params, _ := strings.Cut(path, "?")

	headersEnd := len(s.builder)
	if s.bodyStart >= 0 {
		headersEnd = s.bodyStart
	}
	headerStart := s.headerStart
	if headerStart < 0 || headerStart > headersEnd {
		headerStart = headersEnd
	}

	req := &Request{
		Method:  s.parser.Method(),
		Path:    target,
		Params:  params,
		Headers: string(s.builder[headerStart:headersEnd]),
	}
	if s.bodyStart >= 0 {
		req.Body = s.builder[s.bodyStart:]
	}

	if s.handler != nil {
		s.handler(s, req)
	}
}

// HandleWritable advances the write at the head of the queue. It returns
// nil on ordinary progress; a returned error means the socket should be
// torn down.
func (s *Session) HandleWritable() error {
	if s.count == 0 {
		return nil
	}
	e := s.queue[s.head]
	done, err := e.send(s.sock, s.slot, s.ioBuf[:])
	if err != nil {
		if errors.Is(err, socketmux.ErrRepeat) {
			return nil
		}
		return err
	}
	s.resetIdle()
	if !done {
		return nil
	}

	e.close()
	s.head = (s.head + 1) % MaxWriteQueue
	s.count--
	return nil
}

// Enqueue appends a write to the session's queue. It returns false if the
// queue is full.
func (s *Session) Enqueue(e *writeEntry) bool {
	if s.count >= MaxWriteQueue {
		return false
	}
	idx := (s.head + s.count) % MaxWriteQueue
	s.queue[idx] = e
	s.count++
	return true
}

// EnqueueFixed queues data to be sent verbatim.
func (s *Session) EnqueueFixed(data []byte) bool {
	return s.Enqueue(&writeEntry{kind: entryFixed, data: data})
}

// EnqueueFile queues a whole file to be streamed with a Content-Length
// framing (the caller is expected to have already enqueued the header
// block, including Content-Length, as a Fixed write).
func (s *Session) EnqueueFile(f *os.File, size int64) bool {
	return s.Enqueue(&writeEntry{kind: entryFile, file: f, size: size})
}

// EnqueueFileChunked queues a whole file to be streamed using HTTP chunked
// transfer-encoding, ending with the zero-length terminator chunk.
func (s *Session) EnqueueFileChunked(f *os.File, size int64) bool {
	return s.Enqueue(&writeEntry{kind: entryFileChunked, file: f, size: size})
}

type entryKind uint8

const (
	entryFixed entryKind = iota
	entryFile
	entryFileChunked
)

type writeEntry struct {
	kind entryKind

	data []byte // entryFixed: remaining bytes

	file      *os.File // entryFile, entryFileChunked
	size      int64
	pos       int64
	stage     []byte
	chunkDone bool
}

func (e *writeEntry) close() {
	if e.file != nil {
		e.file.Close()
	}
}

func (e *writeEntry) send(sock Socket, slot int, scratch []byte) (bool, error) {
	switch e.kind {
	case entryFixed:
		return e.sendFixed(sock, slot)
	case entryFile:
		return e.sendFile(sock, slot, scratch)
	default:
		return e.sendFileChunked(sock, slot, scratch)
	}
}

func (e *writeEntry) sendFixed(sock Socket, slot int) (bool, error) {
	if len(e.data) == 0 {
		return true, nil
	}
	n, err := sock.Write(slot, e.data)
	if err != nil {
		return false, err
	}
	e.data = e.data[n:]
	return len(e.data) == 0, nil
}

func (e *writeEntry) sendFile(sock Socket, slot int, scratch []byte) (bool, error) {
	if e.pos >= e.size {
		return true, nil
	}
	remain := e.size - e.pos
	n := int64(len(scratch))
	if remain < n {
		n = remain
	}
	rn, rerr := e.file.ReadAt(scratch[:n], e.pos)
	if rerr != nil && rerr != io.EOF {
		return false, errors.Wrap(rerr, "httpserver: read file")
	}
	if rn == 0 {
		return true, nil
	}
	wn, werr := sock.Write(slot, scratch[:rn])
	if werr != nil {
		return false, werr
	}
	e.pos += int64(wn)
	return e.pos >= e.size, nil
}

func (e *writeEntry) sendFileChunked(sock Socket, slot int, scratch []byte) (bool, error) {
	if len(e.stage) == 0 {
		if e.pos >= e.size {
			if e.chunkDone {
				return true, nil
			}
			e.stage = []byte("0\r\n\r\n")
			e.chunkDone = true
		} else {
			const headerRoom = 32
			n := int64(len(scratch) - headerRoom)
			if n <= 0 {
				n = int64(len(scratch))
			}
			remain := e.size - e.pos
			if remain < n {
				n = remain
			}
			rn, rerr := e.file.ReadAt(scratch[:n], e.pos)
			if rerr != nil && rerr != io.EOF {
				return false, errors.Wrap(rerr, "httpserver: read file")
			}
			e.pos += int64(rn)
			header := fmt.Sprintf("%x\r\n", rn)
			buf := make([]byte, 0, len(header)+int(rn)+2)
			buf = append(buf, header...)
			buf = append(buf, scratch[:rn]...)
			buf = append(buf, '\r', '\n')
			e.stage = buf
		}
	}

	n, err := sock.Write(slot, e.stage)
	if err != nil {
		return false, err
	}
	e.stage = e.stage[n:]
	return len(e.stage) == 0 && e.chunkDone, nil
}

// HeadersFind looks up a case-insensitive header name in the "|key:value|"
// flattened representation built by Session.
func HeadersFind(headers, name string) (string, bool) {
	for _, pair := range strings.Split(headers, string(HeadersPairDelim)) {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, string(HeadersKeyValueDelim))
		if !ok {
			continue
		}
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return "", false
}

// IsAuthenticated checks the request's Authorization header against user
// and pass using HTTP Basic auth. On failure it enqueues a 401 response
// (with a body unless the request is a HEAD) and returns false.
func IsAuthenticated(s *Session, r *Request, user, pass string) bool {
	auth, ok := HeadersFind(r.Headers, "Authorization")
	if ok {
		const prefix = "Basic "
		if strings.HasPrefix(auth, prefix) {
			raw, err := base64.StdEncoding.DecodeString(auth[len(prefix):])
			if err == nil {
				if u, p, ok := strings.Cut(string(raw), ":"); ok && u == user && p == pass {
					return true
				}
			}
		}
	}

	body := "401 Unauthorized\n"
	if r.Method == "HEAD" {
		body = ""
	}
	header := fmt.Sprintf(
		"HTTP/1.1 401 Unauthorized\r\nWWW-Authenticate: Basic realm=\"User Visible Realm\"\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s",
		len(body), body)
	s.EnqueueFixed([]byte(header))
	return false
}
