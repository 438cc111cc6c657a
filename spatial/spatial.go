// Package spatial adapts 2D and 3D points to the PackStream Structure
// envelope — the other named use case for the hydrate/dehydrate hook
// protocol alongside package temporal. It uses no geometry library:
// the point math is stdlib math only, and errors come from
// github.com/cockroachdb/errors like the rest of the module.
package spatial

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/chaisql/packstream"
)

// Structure signatures recognized by this package's Hooks.
const (
	sigPoint2D = 0x58
	sigPoint3D = 0x59
)

// Point2D is a planar point tagged with a spatial reference system
// identifier (SRID), the way a CRS-aware point always carries its
// coordinate system alongside its coordinates.
type Point2D struct {
	SRID int64
	X, Y float64
}

// Distance returns the Euclidean distance between p and other,
// ignoring SRID (callers are responsible for not mixing reference
// systems).
func (p Point2D) Distance(other Point2D) float64 {
	dx, dy := p.X-other.X, p.Y-other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func dehydratePoint2D(p Point2D) *packstream.Structure {
	return &packstream.Structure{
		Signature: sigPoint2D,
		Fields:    []any{packstream.I64(p.SRID), p.X, p.Y},
	}
}

func hydratePoint2D(s *packstream.Structure) (Point2D, error) {
	if len(s.Fields) != 3 {
		return Point2D{}, errors.Newf("spatial: Point2D structure expects 3 fields, got %d", len(s.Fields))
	}
	srid, ok := s.Fields[0].(packstream.I64)
	if !ok {
		return Point2D{}, errors.New("spatial: Point2D SRID field must be an integer")
	}
	x, ok := s.Fields[1].(float64)
	if !ok {
		return Point2D{}, errors.New("spatial: Point2D X field must be a float")
	}
	y, ok := s.Fields[2].(float64)
	if !ok {
		return Point2D{}, errors.New("spatial: Point2D Y field must be a float")
	}
	return Point2D{SRID: srid.Int64(), X: x, Y: y}, nil
}

// Point3D is a Point2D with an additional Z coordinate.
type Point3D struct {
	SRID    int64
	X, Y, Z float64
}

// Distance returns the Euclidean distance between p and other,
// ignoring SRID.
func (p Point3D) Distance(other Point3D) float64 {
	dx, dy, dz := p.X-other.X, p.Y-other.Y, p.Z-other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func dehydratePoint3D(p Point3D) *packstream.Structure {
	return &packstream.Structure{
		Signature: sigPoint3D,
		Fields:    []any{packstream.I64(p.SRID), p.X, p.Y, p.Z},
	}
}

func hydratePoint3D(s *packstream.Structure) (Point3D, error) {
	if len(s.Fields) != 4 {
		return Point3D{}, errors.Newf("spatial: Point3D structure expects 4 fields, got %d", len(s.Fields))
	}
	srid, ok := s.Fields[0].(packstream.I64)
	if !ok {
		return Point3D{}, errors.New("spatial: Point3D SRID field must be an integer")
	}
	coords := make([]float64, 3)
	for i, f := range s.Fields[1:] {
		v, ok := f.(float64)
		if !ok {
			return Point3D{}, errors.Newf("spatial: Point3D coordinate %d must be a float", i)
		}
		coords[i] = v
	}
	return Point3D{SRID: srid.Int64(), X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

// Hooks returns a packstream.Hooks pair that dehydrates Point2D and
// Point3D values into their Structure encodings and hydrates those
// Structures back on decode. Any value this package does not
// recognize passes through unchanged.
func Hooks() packstream.Hooks {
	return packstream.Hooks{
		Dehydrate: dehydrate,
		Hydrate:   hydrate,
	}
}

func dehydrate(v any) (any, error) {
	switch x := v.(type) {
	case Point2D:
		return dehydratePoint2D(x), nil
	case Point3D:
		return dehydratePoint3D(x), nil
	default:
		return v, nil
	}
}

func hydrate(s *packstream.Structure) (any, error) {
	switch s.Signature {
	case sigPoint2D:
		return hydratePoint2D(s)
	case sigPoint3D:
		return hydratePoint3D(s)
	default:
		return s, nil
	}
}
