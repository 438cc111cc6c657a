package packstream

// Value is the closed set of shapes the Packer accepts and the
// Unpacker produces. It exists purely as documentation of that
// closed set — Pack and Unpack operate on `any`, since most callers
// hand in native Go values (bool, string, []byte, ...) rather than
// wrapping them.
type Value interface {
	isPackstreamValue()
}

// undefinedValue is the host's "missing value" sentinel, distinct
// from explicit Null. Map entries holding it are omitted from the
// wire; list elements holding it are replaced with Null.
type undefinedValue struct{}

func (undefinedValue) isPackstreamValue() {}

// Undefined is the sentinel value callers use to mark a map entry as
// absent (it is dropped on encode) or a list element as absent (it is
// encoded as Null, preserving list length).
var Undefined Value = undefinedValue{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// MapEntry is one (key, value) pair of an OrderedMap.
type MapEntry struct {
	Key   string
	Value any
}

// OrderedMap is an insertion-ordered string-keyed map. Packer.Pack
// preserves this order on the wire (plain Go maps do not have a
// stable order, so OrderedMap or []MapEntry is how callers get
// deterministic map byte sequences).
type OrderedMap struct {
	Entries []MapEntry
}

// NewOrderedMap builds an OrderedMap from a flat key/value entry list.
func NewOrderedMap(entries ...MapEntry) *OrderedMap {
	return &OrderedMap{Entries: entries}
}

// Sequence is an iterable value that is not naturally a Go slice or
// array — dispatch policy step 8 of the Packer materializes it into a
// list before encoding. Mirrors an ordered-collection's Iterate
// method without requiring the whole collection to be held in memory
// at once.
type Sequence interface {
	Iterate(func(v any) error) error
}

// Record is an iterable string-keyed mapping that is not an
// OrderedMap, []MapEntry, or plain map[string]any — dispatch policy
// step 10 of the Packer consumes it directly, in whatever order it
// iterates.
type Record interface {
	Iterate(func(key string, v any) error) error
}
