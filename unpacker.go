package packstream

import "fmt"

// Unpacker reads one marker-delimited value at a time from a
// ByteBuffer. It holds two integer policy flags and is reused across
// any number of Unpack calls; it owns no other resources.
type Unpacker struct {
	buf                     ByteBuffer
	disableLosslessIntegers bool
	useBigInteger           bool
}

// NewUnpacker returns an Unpacker reading from buf with the default
// integer policy (decoded integers come back as I64).
func NewUnpacker(buf ByteBuffer) *Unpacker {
	return &Unpacker{buf: buf}
}

// SetDisableLosslessIntegers makes decoded integers come back as a
// saturating host float64 instead of I64.
func (u *Unpacker) SetDisableLosslessIntegers(disabled bool) {
	u.disableLosslessIntegers = disabled
}

// SetUseBigInteger makes decoded integers come back as *big.Int
// instead of I64. Takes precedence over SetDisableLosslessIntegers.
func (u *Unpacker) SetUseBigInteger(use bool) {
	u.useBigInteger = use
}

// Unpack advances the buffer over exactly one encoded value and
// returns its decoded form. hooks.Hydrate, if set, is called once per
// decoded Structure.
func (u *Unpacker) Unpack(hooks Hooks) (any, error) {
	return u.decodeOne(hooks)
}

func (u *Unpacker) decodeOne(hooks Hooks) (any, error) {
	marker, err := u.buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	return u.decodeMarker(marker, hooks)
}

func (u *Unpacker) decodeMarker(marker byte, hooks Hooks) (any, error) {
	switch {
	case marker == markerNull:
		return nil, nil
	case marker == markerTrue:
		return true, nil
	case marker == markerFalse:
		return false, nil
	case marker == markerFloat:
		return u.buf.ReadFloat64()
	case marker <= tinyPositiveIntMax:
		return u.resolveInt(I64(int64(marker)))
	case marker >= tinyNegativeIntMin:
		return u.resolveInt(I64(int64(int8(marker))))
	case marker == markerInt8:
		b, err := u.buf.ReadInt8()
		if err != nil {
			return nil, err
		}
		return u.resolveInt(I64(int64(b)))
	case marker == markerInt16:
		b, err := u.buf.ReadInt16()
		if err != nil {
			return nil, err
		}
		return u.resolveInt(I64(int64(b)))
	case marker == markerInt32:
		b, err := u.buf.ReadInt32()
		if err != nil {
			return nil, err
		}
		return u.resolveInt(I64(int64(b)))
	case marker == markerInt64:
		hi, err := u.buf.ReadInt32()
		if err != nil {
			return nil, err
		}
		lo, err := u.buf.ReadInt32()
		if err != nil {
			return nil, err
		}
		return u.resolveInt(NewI64FromParts(hi, lo))

	case marker&0xF0 == markerTinyStringBase:
		return u.decodeString(int(marker & 0x0F))
	case marker == markerString8:
		n, err := u.buf.ReadUint8()
		if err != nil {
			return nil, err
		}
		return u.decodeString(int(n))
	case marker == markerString16:
		n, err := u.buf.ReadUint16()
		if err != nil {
			return nil, err
		}
		return u.decodeString(int(n))
	case marker == markerString32:
		n, err := u.buf.ReadUint32()
		if err != nil {
			return nil, err
		}
		return u.decodeString(int(n))

	case marker&0xF0 == markerTinyListBase:
		return u.decodeList(int(marker&0x0F), hooks)
	case marker == markerList8:
		n, err := u.buf.ReadUint8()
		if err != nil {
			return nil, err
		}
		return u.decodeList(int(n), hooks)
	case marker == markerList16:
		n, err := u.buf.ReadUint16()
		if err != nil {
			return nil, err
		}
		return u.decodeList(int(n), hooks)
	case marker == markerList32:
		n, err := u.buf.ReadUint32()
		if err != nil {
			return nil, err
		}
		return u.decodeList(int(n), hooks)

	case marker == markerBytes8:
		n, err := u.buf.ReadUint8()
		if err != nil {
			return nil, err
		}
		return u.buf.ReadBytes(int(n))
	case marker == markerBytes16:
		n, err := u.buf.ReadUint16()
		if err != nil {
			return nil, err
		}
		return u.buf.ReadBytes(int(n))
	case marker == markerBytes32:
		n, err := u.buf.ReadUint32()
		if err != nil {
			return nil, err
		}
		return u.buf.ReadBytes(int(n))

	case marker&0xF0 == markerTinyMapBase:
		return u.decodeMap(int(marker&0x0F), hooks)
	case marker == markerMap8:
		n, err := u.buf.ReadUint8()
		if err != nil {
			return nil, err
		}
		return u.decodeMap(int(n), hooks)
	case marker == markerMap16:
		n, err := u.buf.ReadUint16()
		if err != nil {
			return nil, err
		}
		return u.decodeMap(int(n), hooks)
	case marker == markerMap32:
		n, err := u.buf.ReadUint32()
		if err != nil {
			return nil, err
		}
		return u.decodeMap(int(n), hooks)

	case marker&0xF0 == markerTinyStructBase:
		return u.decodeStruct(int(marker&0x0F), hooks)
	case marker == markerStruct8:
		n, err := u.buf.ReadUint8()
		if err != nil {
			return nil, err
		}
		return u.decodeStruct(int(n), hooks)
	case marker == markerStruct16:
		n, err := u.buf.ReadUint16()
		if err != nil {
			return nil, err
		}
		return u.decodeStruct(int(n), hooks)

	default:
		return nil, protoErrMarker("unrecognized marker", marker)
	}
}

// resolveInt applies the Unpacker's integer policy: use_big_integer
// wins over disable_lossless_integers, which wins over the default of
// returning the I64 as-is.
func (u *Unpacker) resolveInt(i I64) (any, error) {
	switch {
	case u.useBigInteger:
		return i.BigInt(), nil
	case u.disableLosslessIntegers:
		return i.Float64(), nil
	default:
		return i, nil
	}
}

func (u *Unpacker) decodeString(n int) (any, error) {
	if n == 0 {
		return "", nil
	}
	b, err := u.buf.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (u *Unpacker) decodeList(n int, hooks Hooks) (any, error) {
	out := make([]any, n)
	for i := 0; i < n; i++ {
		v, err := u.decodeOne(hooks)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// decodeMap decodes n (key, value) pairs. Keys are always decoded
// through the same recursive call; well-formed input yields strings,
// but a malformed key type does not abort decoding — it is coerced to
// its string representation so the map stays usable.
func (u *Unpacker) decodeMap(n int, hooks Hooks) (any, error) {
	out := make(map[string]any, n)
	for i := 0; i < n; i++ {
		k, err := u.decodeOne(hooks)
		if err != nil {
			return nil, err
		}
		v, err := u.decodeOne(hooks)
		if err != nil {
			return nil, err
		}
		key, ok := k.(string)
		if !ok {
			key = fmt.Sprintf("%v", k)
		}
		out[key] = v
	}
	return out, nil
}

func (u *Unpacker) decodeStruct(n int, hooks Hooks) (any, error) {
	sig, err := u.buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	fields := make([]any, n)
	for i := 0; i < n; i++ {
		v, err := u.decodeOne(hooks)
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	return hooks.hydrate(&Structure{Signature: sig, Fields: fields})
}
