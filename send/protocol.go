// Package send delivers finished dose object files to a configured
// destination over a simple store protocol: associate, one store exchange
// per file, release. Frames are length-prefixed msgpack messages.
package send

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	frameAssociate uint8 = iota + 1
	frameAssociateAck
	frameStore
	frameStoreAck
	frameRelease
	frameReleaseAck
)

const (
	// StatusSuccess acknowledges a stored object.
	StatusSuccess uint16 = 0
	// StatusRefused rejects an object the receiver cannot accept.
	StatusRefused uint16 = 1
)

// maxFrameSize bounds a single frame; dose objects are tens of megabytes at
// the very most.
const maxFrameSize = 1 << 28

type associateRequest struct {
	CallingAET string `msgpack:"calling_aet"`
	CalledAET  string `msgpack:"called_aet"`
}

type associateAck struct {
	Accepted bool   `msgpack:"accepted"`
	Reason   string `msgpack:"reason"`
}

type storeRequest struct {
	Name string `msgpack:"name"`
	Data []byte `msgpack:"data"`
}

type storeAck struct {
	Status uint16 `msgpack:"status"`
	Reason string `msgpack:"reason"`
}

type releaseRequest struct{}

type releaseAck struct{}

func writeFrame(w io.Writer, frameType uint8, body interface{}) error {
	buf, err := msgpack.Marshal(body)
	if err != nil {
		return err
	}
	var head [5]byte
	binary.LittleEndian.PutUint32(head[:4], uint32(len(buf)+1))
	head[4] = frameType
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func readFrame(r io.Reader) (uint8, []byte, error) {
	var head [5]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return 0, nil, err
	}
	size := binary.LittleEndian.Uint32(head[:4])
	if size == 0 || size > maxFrameSize {
		return 0, nil, fmt.Errorf("bad frame size %d", size)
	}
	body := make([]byte, size-1)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return head[4], body, nil
}

func expectFrame(r io.Reader, want uint8, body interface{}) error {
	frameType, buf, err := readFrame(r)
	if err != nil {
		return err
	}
	if frameType != want {
		return fmt.Errorf("unexpected frame type %d, want %d", frameType, want)
	}
	if body == nil {
		return nil
	}
	return msgpack.Unmarshal(buf, body)
}

var errAssociationRefused = errors.New("association refused")
