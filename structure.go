package packstream

// Structure is the transparent (signature, fields) envelope used to
// carry application-defined record types — nodes, relationships,
// temporal values, spatial points. The codec assigns it no meaning of
// its own; meaning comes from whatever hydrate/dehydrate hook a
// caller supplies.
type Structure struct {
	Signature byte
	Fields    []any
}

func (*Structure) isPackstreamValue() {}

// DehydrateFunc maps an application value to a codec-recognized
// value. It is consulted only when the Packer's built-in dispatch
// (Null, Boolean, Float, Integer, String, Bytes, List, Structure, Map) finds
// no match for v. The default DehydrateFunc is the identity function,
// i.e. no hook at all.
type DehydrateFunc func(v any) (any, error)

// HydrateFunc maps a decoded Structure to an application value. The
// default HydrateFunc returns s unchanged.
type HydrateFunc func(s *Structure) (any, error)

// Hooks is the capability pair threaded explicitly through Pack and
// Unpack calls. There is no global signature registry: callers that
// need structure-to-type mapping build it into their own Hooks value.
type Hooks struct {
	Dehydrate DehydrateFunc
	Hydrate   HydrateFunc
}

// DefaultHooks returns the identity hook pair.
func DefaultHooks() Hooks {
	return Hooks{}
}

func (h Hooks) dehydrate(v any) (any, error) {
	if h.Dehydrate == nil {
		return v, nil
	}
	return h.Dehydrate(v)
}

func (h Hooks) hydrate(s *Structure) (any, error) {
	if h.Hydrate == nil {
		return s, nil
	}
	return h.Hydrate(s)
}
