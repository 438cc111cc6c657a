package wire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chaisql/packstream/internal/wire"
)

func TestChunkRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewChunkWriter(&buf)

	msg := []byte("hello chunked world")
	_, err := w.Write(msg)
	require.NoError(t, err)
	require.NoError(t, w.EndMessage())

	r := wire.NewChunkReader(&buf)
	got, err := r.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestChunkSplitsOversizedMessage(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewChunkWriter(&buf)

	msg := bytes.Repeat([]byte{0x2A}, 0xFFFF+100)
	_, err := w.Write(msg)
	require.NoError(t, err)
	require.NoError(t, w.EndMessage())

	// Two payload chunks (0xFFFF + 100) plus the zero-length terminator.
	require.Equal(t, []byte{0xFF, 0xFF}, buf.Bytes()[:2])

	r := wire.NewChunkReader(&buf)
	got, err := r.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestChunkWriterReusableAfterEndMessage(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewChunkWriter(&buf)

	_, err := w.Write([]byte("first"))
	require.NoError(t, err)
	require.NoError(t, w.EndMessage())

	_, err = w.Write([]byte("second"))
	require.NoError(t, err)
	require.NoError(t, w.EndMessage())

	r := wire.NewChunkReader(&buf)
	first, err := r.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, []byte("first"), first)

	second, err := r.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, []byte("second"), second)
}

func TestChunkReaderErrorsOnTruncatedHeader(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x00})
	r := wire.NewChunkReader(buf)
	_, err := r.ReadMessage()
	require.Error(t, err)
}
