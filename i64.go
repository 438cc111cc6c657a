package packstream

import (
	"math"
	"math/big"
)

// I64 is a lossless carrier for a signed 64-bit integer. Go's native
// int64 is already exact at this width, so I64 is a thin named type
// rather than a two-word high/low struct; High/Low are derived on
// demand to satisfy callers that still think in 32-bit halves.
type I64 int64

// NewI64FromParts reconstructs an I64 from its two 32-bit two's
// complement halves, high word first.
func NewI64FromParts(high, low int32) I64 {
	return I64(int64(high)<<32 | int64(uint32(low)))
}

// High returns the upper 32 bits of the two's complement
// representation.
func (i I64) High() int32 {
	return int32(int64(i) >> 32)
}

// Low returns the lower 32 bits of the two's complement
// representation.
func (i I64) Low() int32 {
	return int32(int64(i))
}

// Int64 returns the value as a native int64.
func (i I64) Int64() int64 {
	return int64(i)
}

// BigInt returns the value as an arbitrary-precision integer.
func (i I64) BigInt() *big.Int {
	return big.NewInt(int64(i))
}

// Float64 converts the value to a host double, saturating to +/-Inf
// when the value falls outside float64's exact-integer range, per the
// I64 helper's external conversion contract.
func (i I64) Float64() float64 {
	return saturatingFloat(i)
}

// GreaterThanOrEqual reports whether i >= other.
func (i I64) GreaterThanOrEqual(other I64) bool {
	return int64(i) >= int64(other)
}

// LessThan reports whether i < other.
func (i I64) LessThan(other I64) bool {
	return int64(i) < int64(other)
}

// IsInt reports whether v is a value the Packer treats as an integer
// rather than a float: a Go integer kind, an I64, or a *big.Int that
// fits in 64 bits.
func IsInt(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, I64:
		return true
	case *big.Int:
		return n.IsInt64()
	default:
		return false
	}
}

// toI64 promotes any of the Packer's recognized integer shapes to an
// I64, or reports ok=false if v is not one of them.
func toI64(v any) (I64, bool) {
	switch n := v.(type) {
	case I64:
		return n, true
	case int:
		return I64(n), true
	case int8:
		return I64(n), true
	case int16:
		return I64(n), true
	case int32:
		return I64(n), true
	case int64:
		return I64(n), true
	case uint:
		return I64(int64(n)), true
	case uint8:
		return I64(int64(n)), true
	case uint16:
		return I64(int64(n)), true
	case uint32:
		return I64(int64(n)), true
	case uint64:
		return I64(int64(n)), true
	case *big.Int:
		if n != nil && n.IsInt64() {
			return I64(n.Int64()), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// saturatingFloat converts i to a float64, saturating to +/-Infinity
// when the value falls outside the range a float64 can represent
// exactly (|v| > 2^53-1, i.e. Number.MAX_SAFE_INTEGER/MIN_SAFE_INTEGER),
// matching the disable_lossless_integers policy (the toNumberOrInfinity
// rule referenced in the codec's decode path).
func saturatingFloat(i I64) float64 {
	const maxSafeInt = 1<<53 - 1
	v := int64(i)
	if v > maxSafeInt {
		return math.Inf(1)
	}
	if v < -maxSafeInt {
		return math.Inf(-1)
	}
	return float64(v)
}
