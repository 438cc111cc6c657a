package packstream

// ByteChannel is the abstract sink the Packer writes to. It is an
// external collaborator: the codec never opens, closes, or buffers a
// channel, only writes to one it is handed.
type ByteChannel interface {
	WriteUint8(b uint8) error
	WriteInt8(b int8) error
	WriteInt16(b int16) error
	WriteInt32(b int32) error
	WriteFloat64(x float64) error
	WriteBytes(buf []byte) error
}

// ByteBuffer is the abstract cursor-style source the Unpacker reads
// from. Reads advance the cursor; a read past the end of the
// available bytes must return a protocol error rather than panic.
type ByteBuffer interface {
	ReadUint8() (uint8, error)
	ReadInt8() (int8, error)
	ReadInt16() (int16, error)
	ReadUint16() (uint16, error)
	ReadInt32() (int32, error)
	ReadUint32() (uint32, error)
	ReadFloat64() (float64, error)
	ReadBytes(n int) ([]byte, error)
}
