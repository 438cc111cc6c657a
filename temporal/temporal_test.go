package temporal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chaisql/packstream"
	"github.com/chaisql/packstream/internal/wire"
	"github.com/chaisql/packstream/temporal"
)

func roundTrip(t *testing.T, v any) any {
	t.Helper()
	ch := wire.NewBufferChannel()
	require.NoError(t, packstream.NewPacker(ch).Pack(v, temporal.Hooks()))

	got, err := packstream.NewUnpacker(wire.NewCursor(ch.Bytes())).Unpack(temporal.Hooks())
	require.NoError(t, err)
	return got
}

func TestDateRoundTrip(t *testing.T) {
	d := temporal.NewDate(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))
	got := roundTrip(t, d)
	require.Equal(t, d, got)
}

func TestParseDateFormatsBack(t *testing.T) {
	d, err := temporal.ParseDate("2021-01-01")
	require.NoError(t, err)
	require.Equal(t, "2021-01-01", d.String())
}

func TestLocalDateTimeRoundTrip(t *testing.T) {
	dt := temporal.NewLocalDateTime(time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC))
	got := roundTrip(t, dt)
	require.Equal(t, dt, got)
}

func TestDurationRoundTrip(t *testing.T) {
	d := temporal.Duration{Months: 1, Days: 2, Seconds: 3, Nanoseconds: 4}
	got := roundTrip(t, d)
	require.Equal(t, d, got)
}

func TestUnrecognizedStructurePassesThrough(t *testing.T) {
	s := &packstream.Structure{Signature: 0x99, Fields: []any{packstream.I64(1)}}
	got := roundTrip(t, s)
	decoded, ok := got.(*packstream.Structure)
	require.True(t, ok)
	require.Equal(t, s.Signature, decoded.Signature)
}
