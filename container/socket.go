package container

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"

	"github.com/criyle/go-container/pkg/unixsocket"
)

// 16k buffsize
const bufferSize = 16 << 10

var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, bufferSize)
	},
}

// errMessageTooLarge is returned when an encoded message does not fit the
// receive buffer of the peer
var errMessageTooLarge = errors.New("message too large")

type socket unixsocket.Socket

// checkMessageSize encodes e the same way SendMsg does and fails when the
// peer would receive it truncated
func checkMessageSize(e interface{}) error {
	var buff bytes.Buffer
	if err := gob.NewEncoder(&buff).Encode(e); err != nil {
		return fmt.Errorf("failed to encode %w", err)
	}
	if buff.Len() > bufferSize {
		return fmt.Errorf("%w: %d bytes (max %d)", errMessageTooLarge, buff.Len(), bufferSize)
	}
	return nil
}

func (s *socket) RecvMsg(e interface{}) error {
	soc := (*unixsocket.Socket)(s)

	buff := bufferPool.Get().([]byte)
	defer bufferPool.Put(buff)

	n, err := soc.RecvMsg(buff)
	if err != nil {
		return err
	}

	if err := gob.NewDecoder(bytes.NewReader(buff[:n])).Decode(e); err != nil {
		return fmt.Errorf("RecvMsg: failed to decode %w", err)
	}
	return nil
}

func (s *socket) SendMsg(e interface{}) error {
	soc := (*unixsocket.Socket)(s)

	buf := bufferPool.Get().([]byte)
	defer bufferPool.Put(buf)

	// use buf pool to reduce allocation
	buff := bytes.NewBuffer(buf[:0])
	if err := gob.NewEncoder(buff).Encode(e); err != nil {
		return fmt.Errorf("SendMsg: failed to encode %w", err)
	}
	if buff.Len() > bufferSize {
		return fmt.Errorf("SendMsg: %w: %d bytes (max %d)", errMessageTooLarge, buff.Len(), bufferSize)
	}

	if err := soc.SendMsg(buff.Bytes()); err != nil {
		return fmt.Errorf("SendMsg: failed to SendMsg %w", err)
	}
	return nil
}

func (s *socket) Close() error {
	return (*unixsocket.Socket)(s).Close()
}
