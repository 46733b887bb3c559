// Package data implements the tagged-constructor value format ("Data")
// exchanged between the test/shrink core and compiled VM programs, and the
// fixed-shape encodings the PRNG protocol and the fuzzer's return value use
// on top of it.
//
// Constructors carry a numeric tag and an ordered list of field Data.
// User-defined sum types are wired onto this tree with a tag offset of 121:
// a constructor index k appears on the wire as tag 121+k. This offset and
// the field orderings below are part of the public ABI with compiled
// programs and must not be changed independently of the VM.
package data

import (
	"fmt"
	"math/big"
	"strings"
)

// ConstructorTagOffset is added to every user-defined sum type's
// constructor index to produce its wire tag.
const ConstructorTagOffset = 121

// Data is the tagged value format. Every concrete type in this package
// implements it; the set is closed: constructors, integers, byte strings,
// lists, and maps.
type Data interface {
	// String renders the value for diagnostics and structured logging.
	String() string
	isData()
}

// Constr is a constructor: a tag plus an ordered list of field Data.
type Constr struct {
	Tag    uint64
	Fields []Data
}

func (Constr) isData() {}

func (c Constr) String() string {
	fields := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		fields[i] = f.String()
	}
	return fmt.Sprintf("Constr(%d)[%s]", c.Tag, strings.Join(fields, ", "))
}

// Integer is an arbitrary-precision integer value.
type Integer struct {
	*big.Int
}

func (Integer) isData() {}

func (i Integer) String() string {
	if i.Int == nil {
		return "0"
	}
	return i.Int.String()
}

// NewInteger wraps a big.Int as Data.
func NewInteger(v *big.Int) Integer {
	return Integer{Int: v}
}

// IntegerFromInt64 is a convenience constructor for small integers.
func IntegerFromInt64(v int64) Integer {
	return Integer{Int: big.NewInt(v)}
}

// IntegerFromUint32 is a convenience constructor used throughout the PRNG
// encoding, whose choices and seed are u32-valued.
func IntegerFromUint32(v uint32) Integer {
	return Integer{Int: new(big.Int).SetUint64(uint64(v))}
}

// ByteString is a byte-string value.
type ByteString struct {
	Bytes []byte
}

func (ByteString) isData() {}

func (b ByteString) String() string {
	return fmt.Sprintf("#%x", b.Bytes)
}

// List is an ordered sequence of Data.
type List struct {
	Items []Data
}

func (List) isData() {}

func (l List) String() string {
	items := make([]string, len(l.Items))
	for i, it := range l.Items {
		items[i] = it.String()
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// Pair is a single key/value entry of a Map.
type Pair struct {
	Key   Data
	Value Data
}

// Map is an ordered collection of key/value Data pairs.
type Map struct {
	Pairs []Pair
}

func (Map) isData() {}

func (m Map) String() string {
	pairs := make([]string, len(m.Pairs))
	for i, p := range m.Pairs {
		pairs[i] = fmt.Sprintf("%s: %s", p.Key.String(), p.Value.String())
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// ConstructorTag computes the wire tag for a user-defined sum type's
// constructor index k, applying ConstructorTagOffset.
func ConstructorTag(k uint64) uint64 {
	return ConstructorTagOffset + k
}

// ConstructorIndex is the inverse of ConstructorTag: it recovers the
// constructor index from a wire tag, along with whether the tag actually
// falls in the user-defined sum type range.
func ConstructorIndex(tag uint64) (uint64, bool) {
	if tag < ConstructorTagOffset {
		return 0, false
	}
	return tag - ConstructorTagOffset, true
}

// AsUint32 interprets d as an Integer and narrows it to uint32. This is used
// throughout the PRNG codec, where every integer field is either a u32 seed
// or a u32 choice. A value that does not fit is a malformed-protocol
// condition, reported via the boolean return rather than panicking, since
// callers need to turn it into ErrMalformedFuzzerResult.
func AsUint32(d Data) (uint32, bool) {
	i, ok := d.(Integer)
	if !ok || i.Int == nil {
		return 0, false
	}
	if !i.IsUint64() || i.Uint64() > uint64(^uint32(0)) {
		return 0, false
	}
	return uint32(i.Uint64()), true
}
