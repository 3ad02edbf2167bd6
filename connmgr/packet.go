package connmgr

import (
	"encoding/binary"
	"errors"
	"io"
)

// maxFrameSize bounds a single frame to guard against a corrupt or
// adversarial length prefix driving an unbounded allocation.
const maxFrameSize = 16 << 20 // 16 MiB

// writeFrame writes a length-prefixed frame: a 4-byte big-endian length
// followed by data, mirroring the stream-framing convention the teacher's
// TCP transport uses to preserve packet boundaries over a byte stream.
func writeFrame(w io.Writer, data []byte) error {
	prefix := make([]byte, 4)
	binary.BigEndian.PutUint32(prefix, uint32(len(data)))

	if _, err := w.Write(prefix); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// readFrame reads a single length-prefixed frame from r.
func readFrame(r io.Reader) ([]byte, error) {
	prefix := make([]byte, 4)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(prefix)
	if length > maxFrameSize {
		return nil, errors.New("connmgr: frame exceeds maximum size")
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}
