// Package packstream implements the PackStream v1 binary codec: a
// typed, self-describing serialization format for a graph-database
// wire protocol. It provides a Packer that dispatches host values to
// the narrowest wire encoding and an Unpacker that reads them back,
// plus the Structure envelope and hook protocol third-party types use
// to ride inside it.
//
// The codec itself never touches the network: Packer writes to a
// ByteChannel and Unpacker reads from a ByteBuffer, both narrow
// interfaces a caller supplies. See internal/wire for a concrete,
// in-memory implementation of both.
package packstream
