// Package wire provides a reference ByteChannel/ByteBuffer pair backed
// by in-memory byte storage, used by the codec's own tests and by the
// packcli inspector. The root packstream package never imports this
// package; callers wire concrete channels in themselves, keeping the
// codec free of any particular transport or storage choice.
package wire

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/chaisql/packstream"
)

// BufferChannel is a packstream.ByteChannel backed by a growable
// in-memory buffer.
type BufferChannel struct {
	buf bytes.Buffer
}

// NewBufferChannel returns an empty BufferChannel.
func NewBufferChannel() *BufferChannel {
	return &BufferChannel{}
}

// Bytes returns the bytes written so far.
func (c *BufferChannel) Bytes() []byte {
	return c.buf.Bytes()
}

// Reset empties the channel so it can be reused for the next message.
func (c *BufferChannel) Reset() {
	c.buf.Reset()
}

func (c *BufferChannel) WriteUint8(b uint8) error {
	c.buf.WriteByte(b)
	return nil
}

func (c *BufferChannel) WriteInt8(b int8) error {
	c.buf.WriteByte(byte(b))
	return nil
}

func (c *BufferChannel) WriteInt16(n int16) error {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(n))
	c.buf.Write(tmp[:])
	return nil
}

func (c *BufferChannel) WriteInt32(n int32) error {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(n))
	c.buf.Write(tmp[:])
	return nil
}

func (c *BufferChannel) WriteFloat64(x float64) error {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(x))
	c.buf.Write(tmp[:])
	return nil
}

func (c *BufferChannel) WriteBytes(buf []byte) error {
	c.buf.Write(buf)
	return nil
}

// Cursor is a packstream.ByteBuffer backed by a fixed byte slice.
// Reads past the end return an error wrapping packstream.ErrProtocol
// rather than panicking.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor wraps data for sequential, cursor-style reads.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Remaining reports how many unread bytes are left.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

var errShortRead = errors.Wrap(packstream.ErrProtocol, "wire: short read")

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, errShortRead
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadInt8() (int8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (c *Cursor) ReadInt16() (int16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *Cursor) ReadInt32() (int32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *Cursor) ReadFloat64() (float64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}
