package packstream

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrProtocol is the sentinel every codec failure wraps. Callers can
// test for it with errors.Is regardless of how much context has been
// wrapped around the concrete ProtocolError.
var ErrProtocol = errors.New("packstream: protocol error")

// ProtocolError is the single error kind the codec raises: unknown
// marker, out-of-range size, disabled byte arrays, a non-materializable
// iterable, an unencodable value, or an integer read against a marker
// that isn't an integer. Marker and Size are filled in when known and
// are zero otherwise.
type ProtocolError struct {
	Reason string
	Marker byte
	Size   int64

	hasMarker bool
	hasSize   bool
}

func (e *ProtocolError) Error() string {
	switch {
	case e.hasMarker && e.hasSize:
		return fmt.Sprintf("packstream: %s (marker=0x%02X size=%d)", e.Reason, e.Marker, e.Size)
	case e.hasMarker:
		return fmt.Sprintf("packstream: %s (marker=0x%02X)", e.Reason, e.Marker)
	case e.hasSize:
		return fmt.Sprintf("packstream: %s (size=%d)", e.Reason, e.Size)
	default:
		return fmt.Sprintf("packstream: %s", e.Reason)
	}
}

// Unwrap lets errors.Is(err, ErrProtocol) succeed for any ProtocolError.
func (e *ProtocolError) Unwrap() error {
	return ErrProtocol
}

func protoErr(reason string) error {
	return errors.WithStack(&ProtocolError{Reason: reason})
}

func protoErrMarker(reason string, marker byte) error {
	return errors.WithStack(&ProtocolError{Reason: reason, Marker: marker, hasMarker: true})
}

func protoErrSize(reason string, size int64) error {
	return errors.WithStack(&ProtocolError{Reason: reason, Size: size, hasSize: true})
}
