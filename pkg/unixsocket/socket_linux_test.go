package unixsocket

import (
	"io"
	"testing"

	"gotest.tools/v3/assert"
)

func TestSocketPair(t *testing.T) {
	s, r, err := NewSocketPair()
	assert.NilError(t, err)
	defer r.Close()

	assert.NilError(t, s.SendMsg([]byte("conf")))
	assert.NilError(t, s.SendMsg([]byte("ping")))

	buf := make([]byte, 16)
	n, err := r.RecvMsg(buf)
	assert.NilError(t, err)
	assert.Equal(t, string(buf[:n]), "conf")

	// message boundaries are preserved
	n, err = r.RecvMsg(buf)
	assert.NilError(t, err)
	assert.Equal(t, string(buf[:n]), "ping")

	s.Close()
	_, err = r.RecvMsg(buf)
	assert.Equal(t, err, io.EOF)
}

func TestSocketPeerClosed(t *testing.T) {
	s, r, err := NewSocketPair()
	assert.NilError(t, err)
	defer r.Close()

	// nothing pending, the closed peer is reported as a bare io.EOF
	s.Close()
	n, err := r.RecvMsg(make([]byte, 16))
	assert.Equal(t, n, 0)
	assert.Equal(t, err, io.EOF)
}

func TestSocketTruncated(t *testing.T) {
	s, r, err := NewSocketPair()
	assert.NilError(t, err)
	defer s.Close()
	defer r.Close()

	assert.NilError(t, s.SendMsg([]byte("a long message")))
	_, err = r.RecvMsg(make([]byte, 4))
	assert.ErrorContains(t, err, "truncated")
}

func TestNewSocketInvalid(t *testing.T) {
	_, err := NewSocket(-1)
	assert.Check(t, err != nil)
}
