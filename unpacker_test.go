package packstream_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/chaisql/packstream"
	"github.com/chaisql/packstream/internal/wire"
)

func unpackOne(t *testing.T, data []byte) any {
	t.Helper()
	v, err := packstream.NewUnpacker(wire.NewCursor(data)).Unpack(packstream.DefaultHooks())
	require.NoError(t, err)
	return v
}

func TestUnpackLiteralBoundaryScenarios(t *testing.T) {
	require.Nil(t, unpackOne(t, []byte{0xC0}))

	require.Equal(t, packstream.I64(127), unpackOne(t, []byte{0x7F}))
	require.Equal(t, packstream.I64(128), unpackOne(t, []byte{0xC9, 0x00, 0x80}))
	require.Equal(t, packstream.I64(-16), unpackOne(t, []byte{0xF0}))
	require.Equal(t, packstream.I64(-17), unpackOne(t, []byte{0xC8, 0xEF}))
	require.Equal(t, packstream.I64(math.MinInt64),
		unpackOne(t, []byte{0xCB, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}))

	require.Equal(t, "", unpackOne(t, []byte{0x80}))
	require.Equal(t, "A", unpackOne(t, []byte{0x81, 0x41}))
	require.Equal(t, "abcdefghijklmnop",
		unpackOne(t, append([]byte{0xD0, 0x10}, []byte("abcdefghijklmnop")...)))

	got := unpackOne(t, []byte{0xA2, 0x82, 0x6B, 0x31, 0x01, 0x82, 0x6B, 0x33, 0xC0})
	want := map[string]any{"k1": packstream.I64(1), "k3": nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}

	s, ok := unpackOne(t, []byte{0xB2, 0x4E, 0x81, 0x61, 0x01}).(*packstream.Structure)
	require.True(t, ok)
	require.Equal(t, byte(0x4E), s.Signature)
	require.Equal(t, []any{"a", packstream.I64(1)}, s.Fields)
}

func TestRoundTripDefaultIntegerPolicy(t *testing.T) {
	for _, v := range []int64{0, -1, -16, -17, 127, 128, -129, 32768, math.MinInt64, math.MaxInt64} {
		ch := wire.NewBufferChannel()
		require.NoError(t, packstream.NewPacker(ch).Pack(packstream.I64(v), packstream.DefaultHooks()))

		got, err := packstream.NewUnpacker(wire.NewCursor(ch.Bytes())).Unpack(packstream.DefaultHooks())
		require.NoError(t, err)
		require.Equal(t, packstream.I64(v), got)
	}
}

func TestUnpackDisableLosslessIntegers(t *testing.T) {
	ch := wire.NewBufferChannel()
	require.NoError(t, packstream.NewPacker(ch).Pack(packstream.I64(42), packstream.DefaultHooks()))

	u := packstream.NewUnpacker(wire.NewCursor(ch.Bytes()))
	u.SetDisableLosslessIntegers(true)
	got, err := u.Unpack(packstream.DefaultHooks())
	require.NoError(t, err)
	require.Equal(t, float64(42), got)
}

func TestUnpackDisableLosslessIntegersSaturates(t *testing.T) {
	ch := wire.NewBufferChannel()
	require.NoError(t, packstream.NewPacker(ch).Pack(packstream.I64(math.MaxInt64), packstream.DefaultHooks()))

	u := packstream.NewUnpacker(wire.NewCursor(ch.Bytes()))
	u.SetDisableLosslessIntegers(true)
	got, err := u.Unpack(packstream.DefaultHooks())
	require.NoError(t, err)
	require.Equal(t, math.Inf(1), got)
}

func TestUnpackDisableLosslessIntegersSaturationBoundary(t *testing.T) {
	const maxSafeInt = int64(1)<<53 - 1

	cases := []struct {
		name string
		v    int64
		want float64
	}{
		{"at positive boundary stays exact", maxSafeInt, float64(maxSafeInt)},
		{"past positive boundary saturates", maxSafeInt + 1, math.Inf(1)},
		{"at negative boundary stays exact", -maxSafeInt, float64(-maxSafeInt)},
		{"past negative boundary saturates", -maxSafeInt - 1, math.Inf(-1)},
	}

	for _, c := range cases {
		ch := wire.NewBufferChannel()
		require.NoError(t, packstream.NewPacker(ch).Pack(packstream.I64(c.v), packstream.DefaultHooks()))

		u := packstream.NewUnpacker(wire.NewCursor(ch.Bytes()))
		u.SetDisableLosslessIntegers(true)
		got, err := u.Unpack(packstream.DefaultHooks())
		require.NoError(t, err, c.name)
		require.Equal(t, c.want, got, c.name)
	}
}

func TestUnpackUseBigInteger(t *testing.T) {
	ch := wire.NewBufferChannel()
	require.NoError(t, packstream.NewPacker(ch).Pack(packstream.I64(math.MinInt64), packstream.DefaultHooks()))

	u := packstream.NewUnpacker(wire.NewCursor(ch.Bytes()))
	u.SetUseBigInteger(true)
	got, err := u.Unpack(packstream.DefaultHooks())
	require.NoError(t, err)
	require.Equal(t, big.NewInt(math.MinInt64), got)
}

func TestRoundTripListAndMap(t *testing.T) {
	ch := wire.NewBufferChannel()
	in := []any{packstream.I64(1), "two", nil, true, 3.5, map[string]any{"k": packstream.I64(1)}}
	require.NoError(t, packstream.NewPacker(ch).Pack(in, packstream.DefaultHooks()))

	got, err := packstream.NewUnpacker(wire.NewCursor(ch.Bytes())).Unpack(packstream.DefaultHooks())
	require.NoError(t, err)
	require.Equal(t, in, got)
}

func TestStructureIdentityRoundTrip(t *testing.T) {
	ch := wire.NewBufferChannel()
	s := &packstream.Structure{Signature: 0x01, Fields: []any{packstream.I64(1), "x"}}
	require.NoError(t, packstream.NewPacker(ch).Pack(s, packstream.DefaultHooks()))

	got, err := packstream.NewUnpacker(wire.NewCursor(ch.Bytes())).Unpack(packstream.DefaultHooks())
	require.NoError(t, err)
	decoded, ok := got.(*packstream.Structure)
	require.True(t, ok)
	require.Equal(t, s.Signature, decoded.Signature)
	require.Equal(t, s.Fields, decoded.Fields)
}

func TestHydrateHook(t *testing.T) {
	ch := wire.NewBufferChannel()
	s := &packstream.Structure{Signature: 0x58, Fields: []any{packstream.I64(1), packstream.I64(2)}}
	require.NoError(t, packstream.NewPacker(ch).Pack(s, packstream.DefaultHooks()))

	type point struct{ x, y int64 }
	hooks := packstream.Hooks{
		Hydrate: func(s *packstream.Structure) (any, error) {
			if s.Signature != 0x58 {
				return s, nil
			}
			return point{
				x: s.Fields[0].(packstream.I64).Int64(),
				y: s.Fields[1].(packstream.I64).Int64(),
			}, nil
		},
	}

	got, err := packstream.NewUnpacker(wire.NewCursor(ch.Bytes())).Unpack(hooks)
	require.NoError(t, err)
	require.Equal(t, point{1, 2}, got)
}

func TestUnpackUnrecognizedMarker(t *testing.T) {
	_, err := packstream.NewUnpacker(wire.NewCursor([]byte{0xC5})).Unpack(packstream.DefaultHooks())
	require.Error(t, err)
	require.ErrorIs(t, err, packstream.ErrProtocol)
}

func TestStruct16EmitsSignature(t *testing.T) {
	const n = 300 // forces STRUCT_16, exercising the fixed signature-byte emission
	fields := make([]any, n)
	for i := range fields {
		fields[i] = packstream.I64(int64(i))
	}
	s := &packstream.Structure{Signature: 0x7A, Fields: fields}

	ch := wire.NewBufferChannel()
	require.NoError(t, packstream.NewPacker(ch).Pack(s, packstream.DefaultHooks()))

	b := ch.Bytes()
	require.Equal(t, byte(0xDD), b[0])
	require.Equal(t, byte(0x01), b[1]) // 300 >> 8
	require.Equal(t, byte(0x2C), b[2]) // 300 & 0xFF
	require.Equal(t, byte(0x7A), b[3])

	got, err := packstream.NewUnpacker(wire.NewCursor(b)).Unpack(packstream.DefaultHooks())
	require.NoError(t, err)
	decoded := got.(*packstream.Structure)
	require.Equal(t, s.Signature, decoded.Signature)
	require.Len(t, decoded.Fields, n)
}
