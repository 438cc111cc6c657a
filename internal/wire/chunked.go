package wire

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
)

// maxChunkSize is the largest payload a single chunk header can
// declare: a 2-byte big-endian length field tops out at 0xFFFF.
const maxChunkSize = 0xFFFF

// ChunkWriter frames a message as a sequence of length-prefixed
// chunks, terminated by a zero-length chunk, the transport framing a
// PackStream message is always sent over. It wraps an io.Writer, not
// a ByteChannel: chunking is a transport concern the codec itself
// never sees.
type ChunkWriter struct {
	w       io.Writer
	pending []byte
}

// NewChunkWriter wraps w for chunked message framing.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{w: w}
}

// Write buffers message bytes; they are not sent until flushed into
// chunks by EndMessage.
func (c *ChunkWriter) Write(p []byte) (int, error) {
	c.pending = append(c.pending, p...)
	return len(p), nil
}

// EndMessage splits the buffered message into maxChunkSize chunks,
// writes each with its 2-byte length header, then writes the
// zero-length chunk that marks the message boundary.
func (c *ChunkWriter) EndMessage() error {
	remaining := c.pending
	for len(remaining) > 0 {
		n := len(remaining)
		if n > maxChunkSize {
			n = maxChunkSize
		}
		if err := c.writeChunk(remaining[:n]); err != nil {
			return err
		}
		remaining = remaining[n:]
	}
	c.pending = c.pending[:0]
	return c.writeChunk(nil)
}

func (c *ChunkWriter) writeChunk(payload []byte) error {
	var header [2]byte
	binary.BigEndian.PutUint16(header[:], uint16(len(payload)))
	if _, err := c.w.Write(header[:]); err != nil {
		return errors.Wrap(err, "wire: write chunk header")
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := c.w.Write(payload); err != nil {
		return errors.Wrap(err, "wire: write chunk payload")
	}
	return nil
}

// ChunkReader reassembles one chunked message into a contiguous byte
// slice, reading chunks until it sees the zero-length terminator.
type ChunkReader struct {
	r io.Reader
}

// NewChunkReader wraps r for chunked message framing.
func NewChunkReader(r io.Reader) *ChunkReader {
	return &ChunkReader{r: r}
}

// ReadMessage reads chunks until the terminating zero-length chunk and
// returns the reassembled message bytes.
func (c *ChunkReader) ReadMessage() ([]byte, error) {
	var msg []byte
	for {
		var header [2]byte
		if _, err := io.ReadFull(c.r, header[:]); err != nil {
			return nil, errors.Wrap(err, "wire: read chunk header")
		}
		n := binary.BigEndian.Uint16(header[:])
		if n == 0 {
			return msg, nil
		}
		chunk := make([]byte, n)
		if _, err := io.ReadFull(c.r, chunk); err != nil {
			return nil, errors.Wrap(err, "wire: read chunk payload")
		}
		msg = append(msg, chunk...)
	}
}
