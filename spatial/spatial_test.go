package spatial_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chaisql/packstream"
	"github.com/chaisql/packstream/internal/wire"
	"github.com/chaisql/packstream/spatial"
)

func roundTrip(t *testing.T, v any) any {
	t.Helper()
	ch := wire.NewBufferChannel()
	require.NoError(t, packstream.NewPacker(ch).Pack(v, spatial.Hooks()))

	got, err := packstream.NewUnpacker(wire.NewCursor(ch.Bytes())).Unpack(spatial.Hooks())
	require.NoError(t, err)
	return got
}

func TestPoint2DRoundTrip(t *testing.T) {
	p := spatial.Point2D{SRID: 4326, X: 1.5, Y: -2.5}
	got := roundTrip(t, p)
	require.Equal(t, p, got)
}

func TestPoint3DRoundTrip(t *testing.T) {
	p := spatial.Point3D{SRID: 4979, X: 1, Y: 2, Z: 3}
	got := roundTrip(t, p)
	require.Equal(t, p, got)
}

func TestPoint2DDistance(t *testing.T) {
	a := spatial.Point2D{X: 0, Y: 0}
	b := spatial.Point2D{X: 3, Y: 4}
	require.Equal(t, 5.0, a.Distance(b))
}
