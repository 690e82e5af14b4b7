// Package ftpserver implements the per-session FTP control and data
// channel state machine that sits on top of internal/socketmux. A Session
// owns a control slot plus, once opened, a passive data listener and its
// accepted peer.
package ftpserver

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/llehouerou/go-aac/internal/socketmux"
)

// Multiplexer is the slice of socketmux.Mux a Session needs.
type Multiplexer interface {
	Read(slot int, buf []byte) (int, error)
	Write(slot int, buf []byte) (int, error)
	Close(slot int) error
	OpenServer(port int, blocking bool) (int, error)
	Accept(serverSlot int) (int, error)
	Register(slot int, writing bool) error
	SetWriting(slot int, writing bool) error
	CommaLocalAddress(slot int) (string, error)
	LocalPort(slot int) (int, error)
}

// maxLine bounds the control-connection command accumulator.
const maxLine = 64

const ioBufSize = 32 * 1024

type dataAction uint8

const (
	actionNone dataAction = iota
	actionMessage         // LIST: send a pre-built payload
	actionReadFile        // RETR: stream a file to the peer
	actionWriteFile       // STOR: sink bytes from the peer into a file
)

// delim is the path separator this server presents to clients.
const delim = "/"

// Session is one FTP client's control+data state.
type Session struct {
	mux Multiplexer

	control      int
	dataListener int
	dataPeer     int

	sessionIndex int
	numClients   int

	root string
	user string
	pass string

	cwd      string
	loggedIn bool
	rnfrPath string

	lineBuf [maxLine]byte
	lineLen int

	pendingResponse []byte
	responseSent    bool

	lookForDataConnection bool
	dataStarted           bool
	action                dataAction

	file    *os.File
	payload []byte
	pos     int64

	ioBuf [ioBufSize]byte

	closed bool
}

// NewSession creates a session bound to control, rooted at root. numClients
// and sessionIndex determine this session's passive-mode data port
// (60000 - numClients + sessionIndex).
func NewSession(mux Multiplexer, control, sessionIndex, numClients int, root, user, pass string) *Session {
	return &Session{
		mux:          mux,
		control:      control,
		dataListener: -1,
		dataPeer:     -1,
		sessionIndex: sessionIndex,
		numClients:   numClients,
		root:         root,
		user:         user,
		pass:         pass,
		cwd:          "." + delim,
		responseSent: true,
	}
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool { return s.closed }

// Control returns the session's control-channel slot.
func (s *Session) Control() int { return s.control }

// OwnsSlot reports whether slot belongs to this session.
func (s *Session) OwnsSlot(slot int) bool {
	return slot == s.control || (s.dataListener >= 0 && slot == s.dataListener) || (s.dataPeer >= 0 && slot == s.dataPeer)
}

func (s *Session) dataPort() int {
	return 60000 - s.numClients + s.sessionIndex
}

// Dispatch routes one readiness event from the driver loop to the right
// handler for this session.
func (s *Session) Dispatch(mode socketmux.Mode, slot int) error {
	switch {
	case slot == s.control:
		switch mode {
		case socketmux.Read:
			return s.handleControlReadable()
		case socketmux.Write:
			return s.handleControlWritable()
		case socketmux.Disconnect:
			s.Close()
			return nil
		}
	case s.dataListener >= 0 && slot == s.dataListener:
		if mode == socketmux.Read {
			return s.acceptData()
		}
	case s.dataPeer >= 0 && slot == s.dataPeer:
		switch mode {
		case socketmux.Read:
			return s.handleDataReadable()
		case socketmux.Write:
			return s.handleDataWritable()
		case socketmux.Disconnect:
			return s.closeDataPeer()
		}
	}
	return nil
}

// Close tears down every slot this session owns.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	if s.dataPeer >= 0 {
		s.mux.Close(s.dataPeer)
		s.dataPeer = -1
	}
	if s.dataListener >= 0 {
		s.mux.Close(s.dataListener)
		s.dataListener = -1
	}
	s.mux.Close(s.control)
}

func (s *Session) reply(code int, text string) {
	s.pendingResponse = []byte(fmt.Sprintf("%d %s\r\n", code, text))
	s.responseSent = false
	s.mux.SetWriting(s.control, true)
}

func (s *Session) replyRaw(raw string) {
	s.pendingResponse = []byte(raw)
	s.responseSent = false
	s.mux.SetWriting(s.control, true)
}

func (s *Session) handleControlReadable() error {
	if len(s.pendingResponse) > 0 {
		return nil
	}

	var buf [maxLine]byte
	n, err := s.mux.Read(s.control, buf[:])
	if err != nil {
		if errors.Is(err, socketmux.ErrRepeat) {
			return nil
		}
		s.Close()
		return nil
	}

	for i := 0; i < n; i++ {
		b := buf[i]
		if b == '\n' {
			line := strings.TrimRight(string(s.lineBuf[:s.lineLen]), "\r")
			s.lineLen = 0
			s.handleCommand(line)
			continue
		}
		if b == '\r' {
			continue
		}
		if s.lineLen < len(s.lineBuf) {
			s.lineBuf[s.lineLen] = b
			s.lineLen++
		}
	}
	return nil
}

func (s *Session) handleControlWritable() error {
	if len(s.pendingResponse) == 0 {
		return nil
	}
	n, err := s.mux.Write(s.control, s.pendingResponse)
	if err != nil {
		if errors.Is(err, socketmux.ErrRepeat) {
			return nil
		}
		s.Close()
		return nil
	}
	s.pendingResponse = s.pendingResponse[n:]
	if len(s.pendingResponse) > 0 {
		return nil
	}

	s.responseSent = true
	s.mux.SetWriting(s.control, false)

	if s.lookForDataConnection && s.dataPeer >= 0 && !s.dataStarted {
		s.beginAction()
	}
	return nil
}

func (s *Session) handleCommand(line string) {
	cmd, arg, _ := strings.Cut(line, " ")

	if !s.loggedIn && cmd != "USER" && cmd != "PASS" {
		s.reply(530, "Not logged in")
		return
	}

	switch cmd {
	case "USER":
		if arg == "anonymous" {
			s.reply(530, "Not logged in")
			return
		}
		if arg == s.user {
			s.reply(331, "Password required for login")
			return
		}
		s.reply(530, "Not logged in")
	case "PASS":
		if arg == s.pass && arg != "*" {
			s.loggedIn = true
			s.reply(230, "User logged in")
			return
		}
		s.reply(530, "Not logged in")
	case "SYST":
		s.reply(215, "Windows_NT")
	case "FEAT":
		s.replyRaw("211-Extensions supported\r\n211 End\r\n")
	case "PWD":
		shown := strings.TrimPrefix(s.cwd, ".")
		shown = strings.ReplaceAll(shown, delim, "/")
		s.reply(257, fmt.Sprintf("%q is current directory", shown))
	case "TYPE":
		if arg == "I" {
			s.reply(200, "Type set")
		} else {
			s.reply(500, "Type not supported")
		}
	case "PASV":
		s.doPASV(false)
	case "EPSV":
		s.doPASV(true)
	case "EPRT":
		s.reply(500, "This not supported")
	case "LIST":
		s.doLIST()
	case "SIZE":
		s.doSIZE(arg)
	case "RETR":
		s.doRETR(arg)
	case "STOR":
		s.doSTOR(arg)
	case "CWD":
		s.doCWD(arg)
	case "CDUP":
		s.cwd = "." + delim
		s.reply(250, "command successful")
	case "DELE":
		s.doFSOp(arg, os.Remove)
	case "MKD":
		s.doFSOp(arg, func(p string) error { return os.Mkdir(p, 0o755) })
	case "RMD":
		s.doFSOp(arg, os.Remove)
	case "RNFR":
		s.rnfrPath = s.resolve(arg)
		s.reply(350, "continue")
	case "RNTO":
		if s.rnfrPath == "" {
			s.reply(421, "You did not send RNFR before")
			return
		}
		err := os.Rename(s.rnfrPath, s.resolve(arg))
		s.rnfrPath = ""
		if err != nil {
			s.reply(500, "command was not successful")
			return
		}
		s.reply(250, "command successful")
	default:
		s.reply(500, "What?")
	}
}

// resolve maps a client-supplied path to a filesystem path relative to cwd.
func (s *Session) resolve(p string) string {
	base := s.cwd
	if strings.HasPrefix(p, "/") {
		base = "."
		p = strings.TrimPrefix(p, "/")
	}
	joined := path.Join(base, p)
	return joined
}

func (s *Session) fullPath(clientPath string) string {
	return path.Join(s.root, s.resolve(clientPath))
}

func (s *Session) ensureDataListener() error {
	if s.dataListener >= 0 {
		return nil
	}
	slot, err := s.mux.OpenServer(s.dataPort(), false)
	if err != nil {
		return err
	}
	if err := s.mux.Register(slot, false); err != nil {
		s.mux.Close(slot)
		return err
	}
	s.dataListener = slot
	return nil
}

func (s *Session) doPASV(extended bool) {
	if err := s.ensureDataListener(); err != nil {
		s.reply(500, "command was not successful")
		return
	}
	port, _ := s.mux.LocalPort(s.dataListener)
	if extended {
		s.reply(229, fmt.Sprintf("Entering Extended Passive Mode (|||%d|)", port))
		return
	}
	addr, err := s.mux.CommaLocalAddress(s.control)
	if err != nil {
		s.reply(500, "command was not successful")
		return
	}
	p1 := port / 256
	p2 := port % 256
	s.reply(227, fmt.Sprintf("Entering Passive Mode (%s,%d,%d)", addr, p1, p2))
}

func (s *Session) startDataAction(action dataAction) {
	s.lookForDataConnection = true
	s.dataStarted = false
	s.action = action
	if err := s.ensureDataListener(); err != nil {
		s.reply(500, "command was not successful")
		s.lookForDataConnection = false
	}
}

func (s *Session) acceptData() error {
	peer, err := s.mux.Accept(s.dataListener)
	if err != nil {
		return nil
	}
	s.dataPeer = peer
	s.mux.Register(peer, false)
	if s.responseSent {
		s.beginAction()
	}
	return nil
}

// beginAction starts the transfer once both the data peer is accepted and
// the control response announcing it (150 ...) has fully flushed.
func (s *Session) beginAction() {
	s.dataStarted = true
	if s.action != actionWriteFile {
		s.mux.SetWriting(s.dataPeer, true)
	}
}

func (s *Session) doLIST() {
	entries, err := os.ReadDir(path.Join(s.root, s.cwd))
	if err != nil {
		s.reply(500, "command was not successful")
		return
	}
	var b strings.Builder
	for _, e := range entries {
		if e.Name() == "." || e.Name() == ".." {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		kind := byte('-')
		if info.IsDir() {
			kind = 'd'
		}
		fmt.Fprintf(&b, "%crw-rw-rw- jschartner %8d %s %s\r\n",
			kind, info.Size(), info.ModTime().Format("01-02-2006 15:04"), e.Name())
	}

	s.payload = []byte(b.String())
	s.pos = 0
	s.startDataAction(actionMessage)
	s.reply(150, "Opening data connection")
}

func (s *Session) doSIZE(arg string) {
	f, err := os.Open(s.fullPath(arg))
	if err != nil {
		s.reply(500, "command was not successful")
		return
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		s.reply(500, "command was not successful")
		return
	}
	s.reply(213, strconv.FormatInt(info.Size(), 10))
}

func (s *Session) doRETR(arg string) {
	f, err := os.Open(s.fullPath(arg))
	if err != nil {
		s.reply(500, "command was not successful")
		return
	}
	s.file = f
	s.pos = 0
	s.startDataAction(actionReadFile)
	s.reply(150, "Opening data connection")
}

func (s *Session) doSTOR(arg string) {
	f, err := os.Create(s.fullPath(arg))
	if err != nil {
		s.reply(500, "command was not successful")
		return
	}
	s.file = f
	s.startDataAction(actionWriteFile)
	s.reply(150, "Opening data connection")
}

func (s *Session) doCWD(arg string) {
	target := s.resolve(arg)
	target = strings.ReplaceAll(target, "//", "/")
	if !strings.HasSuffix(target, delim) {
		target += delim
	}
	info, err := os.Stat(path.Join(s.root, target))
	if err != nil || !info.IsDir() {
		s.reply(500, "Does not exists")
		return
	}
	s.cwd = target
	s.reply(250, "command successful")
}

func (s *Session) doFSOp(arg string, op func(string) error) {
	if err := op(s.fullPath(arg)); err != nil {
		s.reply(500, "command was not successful")
		return
	}
	s.reply(250, "command successful")
}

func (s *Session) handleDataReadable() error {
	if s.action != actionWriteFile || !s.dataStarted {
		return nil
	}
	n, err := s.mux.Read(s.dataPeer, s.ioBuf[:])
	if err != nil {
		if errors.Is(err, socketmux.ErrRepeat) {
			return nil
		}
		// ConnectionClosed is the expected end of a STOR upload; any other
		// error tears the transfer down the same way.
		return s.finishDataAction()
	}
	if n > 0 {
		if _, werr := s.file.Write(s.ioBuf[:n]); werr != nil {
			return s.finishDataAction()
		}
	}
	return nil
}

func (s *Session) handleDataWritable() error {
	switch s.action {
	case actionMessage:
		if s.pos >= int64(len(s.payload)) {
			return s.finishDataAction()
		}
		n, err := s.mux.Write(s.dataPeer, s.payload[s.pos:])
		if err != nil {
			if errors.Is(err, socketmux.ErrRepeat) {
				return nil
			}
			return s.finishDataAction()
		}
		s.pos += int64(n)
		if s.pos >= int64(len(s.payload)) {
			return s.finishDataAction()
		}
		return nil
	case actionReadFile:
		info, err := s.file.Stat()
		if err != nil {
			return s.finishDataAction()
		}
		if s.pos >= info.Size() {
			return s.finishDataAction()
		}
		remain := info.Size() - s.pos
		n := int64(len(s.ioBuf))
		if remain < n {
			n = remain
		}
		rn, rerr := s.file.ReadAt(s.ioBuf[:n], s.pos)
		if rerr != nil && rn == 0 {
			return s.finishDataAction()
		}
		wn, werr := s.mux.Write(s.dataPeer, s.ioBuf[:rn])
		if werr != nil {
			if errors.Is(werr, socketmux.ErrRepeat) {
				return nil
			}
			return s.finishDataAction()
		}
		s.pos += int64(wn)
		return nil
	}
	return nil
}

func (s *Session) finishDataAction() error {
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	s.payload = nil
	s.closeDataPeer()
	s.action = actionNone
	s.lookForDataConnection = false
	s.dataStarted = false
	s.reply(226, "Transfer complete")
	return nil
}

func (s *Session) closeDataPeer() error {
	if s.dataPeer >= 0 {
		s.mux.Close(s.dataPeer)
		s.dataPeer = -1
	}
	return nil
}
