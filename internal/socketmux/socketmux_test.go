package socketmux

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// loopback exercises OpenServer/OpenClient/Accept/Write/Read end to end
// over the real Linux epoll backend.
func TestMux_Loopback(t *testing.T) {
	const port = 18765

	m, err := Open(8)
	require.NoError(t, err)
	defer m.Close()

	srv, err := m.OpenServer(port, false)
	require.NoError(t, err)

	cli, err := m.OpenClient("127.0.0.1", port)
	require.NoError(t, err)

	var peer int
	require.Eventually(t, func() bool {
		peer, err = m.Accept(srv)
		return err == nil || !errors.Is(err, ErrRepeat)
	}, time.Second, time.Millisecond)
	require.NoError(t, err)

	msg := []byte("hello")
	require.Eventually(t, func() bool {
		_, err = m.Write(cli, msg)
		return err == nil || !errors.Is(err, ErrRepeat)
	}, time.Second, time.Millisecond)
	require.NoError(t, err)

	buf := make([]byte, 16)
	var n int
	require.Eventually(t, func() bool {
		n, err = m.Read(peer, buf)
		return err == nil || !errors.Is(err, ErrRepeat)
	}, time.Second, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, msg, buf[:n])
}

func TestParsePort(t *testing.T) {
	p, err := ParsePort("8080")
	require.NoError(t, err)
	require.Equal(t, 8080, p)

	_, err = ParsePort("not-a-port")
	require.Error(t, err)
}
