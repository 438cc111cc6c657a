package packstream

import (
	"math/big"
	"reflect"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// Packer dispatches a host value to the narrowest PackStream wire
// encoding and writes it to a ByteChannel. It is stateless other than
// the channel reference and the byte-arrays-supported flag, and may be
// reused across any number of Pack calls.
type Packer struct {
	ch                  ByteChannel
	byteArraysSupported bool
}

// NewPacker returns a Packer writing to ch. Byte-array support is
// enabled by default; call SetByteArraysSupported(false) once, before
// the Packer is shared across goroutines, to match a peer that has
// negotiated no byte-array support.
func NewPacker(ch ByteChannel) *Packer {
	return &Packer{ch: ch, byteArraysSupported: true}
}

// SetByteArraysSupported toggles whether Pack will encode []byte
// values. It is meant to be set once at negotiation time; the flag is
// read on every Pack call with no locking, matching the set-before-
// publish contract described for the codec's concurrency model.
func (p *Packer) SetByteArraysSupported(supported bool) {
	p.byteArraysSupported = supported
}

// Pack writes the PackStream encoding of v to the Packer's channel.
// hooks.Dehydrate, if set, is consulted exactly once, only when v does
// not match any built-in recognized shape.
func (p *Packer) Pack(v any, hooks Hooks) error {
	return p.dispatch(v, hooks, true)
}

func (p *Packer) dispatch(v any, hooks Hooks, allowDehydrate bool) error {
	switch x := v.(type) {
	case nil:
		return p.packNull()
	case undefinedValue:
		// Outside of a list/map, undefined has no native slot on the
		// wire; it degrades to Null rather than failing the encode.
		return p.packNull()
	case bool:
		return p.packBool(x)
	case float32:
		return p.packFloat(float64(x))
	case float64:
		return p.packFloat(x)
	case *big.Int:
		i, ok := toI64(x)
		if !ok {
			return protoErr("big integer does not fit in a signed 64-bit value")
		}
		return p.packInt(i)
	case I64:
		return p.packInt(x)
	case int:
		i, _ := toI64(x)
		return p.packInt(i)
	case int8:
		i, _ := toI64(x)
		return p.packInt(i)
	case int16:
		i, _ := toI64(x)
		return p.packInt(i)
	case int32:
		i, _ := toI64(x)
		return p.packInt(i)
	case int64:
		i, _ := toI64(x)
		return p.packInt(i)
	case uint:
		i, _ := toI64(x)
		return p.packInt(i)
	case uint8:
		i, _ := toI64(x)
		return p.packInt(i)
	case uint16:
		i, _ := toI64(x)
		return p.packInt(i)
	case uint32:
		i, _ := toI64(x)
		return p.packInt(i)
	case uint64:
		i, _ := toI64(x)
		return p.packInt(i)
	case string:
		return p.packString(x)
	case []byte:
		return p.packBytes(x)
	case *Structure:
		return p.packStruct(x, hooks)
	case *OrderedMap:
		return p.packMapEntries(x.Entries, hooks)
	case []MapEntry:
		return p.packMapEntries(x, hooks)
	case map[string]any:
		return p.packGoMap(x, hooks)
	case Record:
		return p.packRecord(x, hooks)
	case Sequence:
		return p.packSequence(x, hooks)
	case []any:
		return p.packList(x, hooks)
	}

	if rv := reflect.ValueOf(v); rv.IsValid() {
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return p.packReflectList(rv, hooks)
		}
	}

	if allowDehydrate {
		dehydrated, err := hooks.dehydrate(v)
		if err != nil {
			return err
		}
		return p.dispatch(dehydrated, hooks, false)
	}

	return errors.Wrapf(protoErr("cannot encode value"), "type %T", v)
}

func (p *Packer) packNull() error {
	return p.ch.WriteUint8(markerNull)
}

func (p *Packer) packBool(b bool) error {
	if b {
		return p.ch.WriteUint8(markerTrue)
	}
	return p.ch.WriteUint8(markerFalse)
}

func (p *Packer) packFloat(x float64) error {
	if err := p.ch.WriteUint8(markerFloat); err != nil {
		return err
	}
	return p.ch.WriteFloat64(x)
}

// packInt implements the width-selection cascade of the marker
// grammar: the narrowest form whose signed range contains x wins, and
// the test is on the signed value, never the magnitude.
func (p *Packer) packInt(i I64) error {
	x := i.Int64()
	switch {
	case x >= -16 && x < 128:
		return p.ch.WriteUint8(uint8(int8(x)))
	case x >= -128 && x < -16:
		if err := p.ch.WriteUint8(markerInt8); err != nil {
			return err
		}
		return p.ch.WriteInt8(int8(x))
	case x >= -1<<15 && x < 1<<15:
		if err := p.ch.WriteUint8(markerInt16); err != nil {
			return err
		}
		return p.ch.WriteInt16(int16(x))
	case x >= -1<<31 && x < 1<<31:
		if err := p.ch.WriteUint8(markerInt32); err != nil {
			return err
		}
		return p.ch.WriteInt32(int32(x))
	default:
		if err := p.ch.WriteUint8(markerInt64); err != nil {
			return err
		}
		if err := p.ch.WriteInt32(i.High()); err != nil {
			return err
		}
		return p.ch.WriteInt32(i.Low())
	}
}

func (p *Packer) writeTinyHeader(base byte, n int) error {
	return p.ch.WriteUint8(base | byte(n))
}

func (p *Packer) writeSizeHeader(marker byte, width, n int) error {
	if err := p.ch.WriteUint8(marker); err != nil {
		return err
	}
	switch width {
	case 8:
		return p.ch.WriteUint8(uint8(n))
	case 16:
		return p.ch.WriteInt16(int16(uint16(n)))
	case 32:
		return p.ch.WriteInt32(int32(uint32(n)))
	default:
		panic("packstream: unsupported size header width")
	}
}

func (p *Packer) packString(s string) error {
	if !utf8.ValidString(s) {
		return protoErr("string is not valid UTF-8")
	}

	n := len(s)
	if err := p.writeSizedHeader(markerTinyStringBase, markerString8, markerString16, markerString32, n, "string"); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	return p.ch.WriteBytes([]byte(s))
}

func (p *Packer) packBytes(b []byte) error {
	if !p.byteArraysSupported {
		return protoErr("byte arrays are not supported by the negotiated protocol version")
	}
	n := len(b)
	switch {
	case n <= size8Max:
		if err := p.writeSizeHeader(markerBytes8, 8, n); err != nil {
			return err
		}
	case n <= size16Max:
		if err := p.writeSizeHeader(markerBytes16, 16, n); err != nil {
			return err
		}
	case n <= size32Max:
		if err := p.writeSizeHeader(markerBytes32, 32, n); err != nil {
			return err
		}
	default:
		return protoErrSize("byte array exceeds maximum size", int64(n))
	}
	if n == 0 {
		return nil
	}
	return p.ch.WriteBytes(b)
}

// writeSizedHeader writes the tiny/8/16/32 header for strings, lists,
// and maps, which share the same size-class boundaries.
func (p *Packer) writeSizedHeader(tinyBase, m8, m16, m32 byte, n int, what string) error {
	switch {
	case n <= tinyMaxSize:
		return p.writeTinyHeader(tinyBase, n)
	case n <= size8Max:
		return p.writeSizeHeader(m8, 8, n)
	case n <= size16Max:
		return p.writeSizeHeader(m16, 16, n)
	case n <= size32Max:
		return p.writeSizeHeader(m32, 32, n)
	default:
		return protoErrSize(what+" exceeds maximum size", int64(n))
	}
}

func (p *Packer) packList(elems []any, hooks Hooks) error {
	if err := p.writeSizedHeader(markerTinyListBase, markerList8, markerList16, markerList32, len(elems), "list"); err != nil {
		return err
	}
	for _, e := range elems {
		if err := p.dispatch(e, hooks, true); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packer) packReflectList(rv reflect.Value, hooks Hooks) error {
	n := rv.Len()
	elems := make([]any, n)
	for i := 0; i < n; i++ {
		elems[i] = rv.Index(i).Interface()
	}
	return p.packList(elems, hooks)
}

func (p *Packer) packSequence(seq Sequence, hooks Hooks) error {
	var elems []any
	if err := seq.Iterate(func(v any) error {
		elems = append(elems, v)
		return nil
	}); err != nil {
		return protoErr("failed to materialize sequence: " + err.Error())
	}
	return p.packList(elems, hooks)
}

// packMapEntries writes the tiny/8/16/32 map header and the kept
// (key, value) pairs. Entries whose value is Undefined are omitted
// before the header is written, so the header's count always matches
// what is actually emitted.
func (p *Packer) packMapEntries(entries []MapEntry, hooks Hooks) error {
	kept := make([]MapEntry, 0, len(entries))
	for _, e := range entries {
		if IsUndefined(e.Value) {
			continue
		}
		kept = append(kept, e)
	}

	if err := p.writeSizedHeader(markerTinyMapBase, markerMap8, markerMap16, markerMap32, len(kept), "map"); err != nil {
		return err
	}
	for _, e := range kept {
		if err := p.packString(e.Key); err != nil {
			return err
		}
		if err := p.dispatch(e.Value, hooks, true); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packer) packGoMap(m map[string]any, hooks Hooks) error {
	entries := make([]MapEntry, 0, len(m))
	for k, v := range m {
		entries = append(entries, MapEntry{Key: k, Value: v})
	}
	return p.packMapEntries(entries, hooks)
}

func (p *Packer) packRecord(r Record, hooks Hooks) error {
	var entries []MapEntry
	if err := r.Iterate(func(k string, v any) error {
		entries = append(entries, MapEntry{Key: k, Value: v})
		return nil
	}); err != nil {
		return protoErr("failed to materialize record: " + err.Error())
	}
	return p.packMapEntries(entries, hooks)
}

// packStruct writes the tiny/8/16 structure header, always followed
// by the signature byte — including at the 16-bit size, where an
// earlier revision of this codec dropped it.
func (p *Packer) packStruct(s *Structure, hooks Hooks) error {
	n := len(s.Fields)
	switch {
	case n <= tinyMaxSize:
		if err := p.writeTinyHeader(markerTinyStructBase, n); err != nil {
			return err
		}
	case n <= size8Max:
		if err := p.ch.WriteUint8(markerStruct8); err != nil {
			return err
		}
		if err := p.ch.WriteUint8(uint8(n)); err != nil {
			return err
		}
	case n <= size16Max:
		if err := p.ch.WriteUint8(markerStruct16); err != nil {
			return err
		}
		if err := p.ch.WriteInt16(int16(uint16(n))); err != nil {
			return err
		}
	default:
		return protoErrSize("structure exceeds maximum field count", int64(n))
	}

	if err := p.ch.WriteUint8(s.Signature); err != nil {
		return err
	}

	for _, f := range s.Fields {
		if err := p.dispatch(f, hooks, true); err != nil {
			return err
		}
	}
	return nil
}
