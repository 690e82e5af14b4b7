package ftpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/go-aac/internal/socketmux"
)

// fakeMux is a minimal in-memory Multiplexer good enough to drive a
// Session's control channel without real sockets.
type fakeMux struct {
	inbox      map[int][][]byte
	outbox     map[int][]byte
	nextSlot   int
	localPorts map[int]int
}

func newFakeMux() *fakeMux {
	return &fakeMux{
		inbox:      map[int][][]byte{},
		outbox:     map[int][]byte{},
		localPorts: map[int]int{},
		nextSlot:   10,
	}
}

func (f *fakeMux) Read(slot int, buf []byte) (int, error) {
	q := f.inbox[slot]
	if len(q) == 0 {
		return 0, socketmux.ErrRepeat
	}
	n := copy(buf, q[0])
	q[0] = q[0][n:]
	if len(q[0]) == 0 {
		q = q[1:]
	}
	f.inbox[slot] = q
	return n, nil
}

func (f *fakeMux) Write(slot int, buf []byte) (int, error) {
	f.outbox[slot] = append(f.outbox[slot], buf...)
	return len(buf), nil
}

func (f *fakeMux) Close(slot int) error { return nil }

func (f *fakeMux) OpenServer(port int, blocking bool) (int, error) {
	f.nextSlot++
	f.localPorts[f.nextSlot] = port
	return f.nextSlot, nil
}

func (f *fakeMux) Accept(serverSlot int) (int, error) {
	return 0, socketmux.ErrRepeat
}

func (f *fakeMux) Register(slot int, writing bool) error   { return nil }
func (f *fakeMux) SetWriting(slot int, writing bool) error { return nil }

func (f *fakeMux) CommaLocalAddress(slot int) (string, error) { return "127,0,0,1", nil }

func (f *fakeMux) LocalPort(slot int) (int, error) { return f.localPorts[slot], nil }

func sendLine(f *fakeMux, slot int, line string) {
	f.inbox[slot] = append(f.inbox[slot], []byte(line+"\r\n"))
}

func TestFTPSession_Login(t *testing.T) {
	mux := newFakeMux()
	s := NewSession(mux, 1, 0, 1, "/tmp", "bob", "secret")

	sendLine(mux, 1, "USER bob")
	require.NoError(t, s.handleControlReadable())
	assert.Contains(t, string(s.pendingResponse), "331")

	require.NoError(t, s.handleControlWritable())

	sendLine(mux, 1, "PASS secret")
	require.NoError(t, s.handleControlReadable())
	assert.Contains(t, string(s.pendingResponse), "230")
	assert.True(t, s.loggedIn)
}

func TestFTPSession_RejectsCommandsBeforeLogin(t *testing.T) {
	mux := newFakeMux()
	s := NewSession(mux, 1, 0, 1, "/tmp", "bob", "secret")

	sendLine(mux, 1, "PWD")
	require.NoError(t, s.handleControlReadable())
	assert.Contains(t, string(s.pendingResponse), "530")
}

func TestFTPSession_PASVUsesComputedPort(t *testing.T) {
	mux := newFakeMux()
	s := NewSession(mux, 1, 2, 5, "/tmp", "bob", "secret")
	s.loggedIn = true

	sendLine(mux, 1, "PASV")
	require.NoError(t, s.handleControlReadable())
	assert.Contains(t, string(s.pendingResponse), "227")
	assert.Equal(t, 60000-5+2, mux.localPorts[s.dataListener])
}

func TestFTPSession_TypeAndSyst(t *testing.T) {
	mux := newFakeMux()
	s := NewSession(mux, 1, 0, 1, "/tmp", "bob", "secret")
	s.loggedIn = true

	sendLine(mux, 1, "TYPE I")
	require.NoError(t, s.handleControlReadable())
	assert.Contains(t, string(s.pendingResponse), "200")

	s.pendingResponse = nil
	sendLine(mux, 1, "SYST")
	require.NoError(t, s.handleControlReadable())
	assert.Contains(t, string(s.pendingResponse), "Windows_NT")
}
