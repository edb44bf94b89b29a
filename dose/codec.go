package dose

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// On-disk envelope:
//
//	<4-byte magic> <1-byte version> <u32 header length> <msgpack header>
//	<u32 payload length> <payload>
//
// Lengths are little-endian. The payload is the raw fixed-point sample
// buffer; metadata-only readers stop after the header block.

var magic = [4]byte{'D', 'O', 'S', 'B'}

const codecVersion = 1

var (
	ErrBadMagic   = errors.New("not a dose object")
	ErrBadVersion = errors.New("unsupported dose object version")
	ErrBadPayload = errors.New("malformed dose object")
)

func Encode(w io.Writer, obj *Object) error {
	headerBuf, err := msgpack.Marshal(&obj.Header)
	if err != nil {
		return err
	}

	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{codecVersion}); err != nil {
		return err
	}
	if err := writeBlock(w, headerBuf); err != nil {
		return err
	}
	return writeBlock(w, obj.PixelData)
}

func Decode(r io.Reader) (*Object, error) {
	header, err := DecodeHeader(r)
	if err != nil {
		return nil, err
	}
	payload, err := readBlock(r)
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrBadPayload, err)
	}
	return &Object{Header: *header, PixelData: payload}, nil
}

// DecodeHeader reads only the envelope prefix and metadata block, leaving
// the pixel payload unread.
func DecodeHeader(r io.Reader) (*Header, error) {
	var prefix [5]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if [4]byte{prefix[0], prefix[1], prefix[2], prefix[3]} != magic {
		return nil, ErrBadMagic
	}
	if prefix[4] != codecVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, prefix[4])
	}

	headerBuf, err := readBlock(r)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadPayload, err)
	}
	header := &Header{}
	if err := msgpack.Unmarshal(headerBuf, header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadPayload, err)
	}
	return header, nil
}

func writeBlock(w io.Writer, buf []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(buf)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(buf)
	return err
}

func readBlock(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	buf := make([]byte, binary.LittleEndian.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// CodesToBytes packs 16-bit codes into the little-endian wire layout used
// by PixelData.
func CodesToBytes(codes []uint16) []byte {
	buf := make([]byte, 2*len(codes))
	for i, code := range codes {
		binary.LittleEndian.PutUint16(buf[2*i:], code)
	}
	return buf
}

// BytesToCodes is the inverse of CodesToBytes.
func BytesToCodes(buf []byte) ([]uint16, error) {
	if len(buf)%2 != 0 {
		return nil, fmt.Errorf("%w: odd pixel buffer length %d", ErrBadPayload, len(buf))
	}
	codes := make([]uint16, len(buf)/2)
	for i := range codes {
		codes[i] = binary.LittleEndian.Uint16(buf[2*i:])
	}
	return codes, nil
}
