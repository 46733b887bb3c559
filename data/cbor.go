package data

import (
	"math/big"

	"github.com/fxamacker/cbor"
)

// cborEnvelope is the on-the-wire shape used to round-trip a Data tree
// through CBOR: a small discriminated envelope rather than relying on Go's
// static type for each branch, since Data is a closed interface with five
// concrete shapes.
type cborEnvelope struct {
	Kind   string         `cbor:"k"`
	Tag    uint64         `cbor:"t,omitempty"`
	Fields []cborEnvelope `cbor:"f,omitempty"`
	Int    []byte         `cbor:"i,omitempty"`
	Neg    bool           `cbor:"n,omitempty"`
	Bytes  []byte         `cbor:"b,omitempty"`
	Keys   []cborEnvelope `cbor:"mk,omitempty"`
	Values []cborEnvelope `cbor:"mv,omitempty"`
}

// MarshalCBOR encodes a Data tree for use in structured log fields or any
// other in-process representation that needs a stable byte form. This is
// distinct from the VM wire protocol, which exchanges Data trees directly;
// CBOR here is this repo's serialization of that same tree for
// storage/logging, not a second ABI.
func MarshalCBOR(d Data) ([]byte, error) {
	return cbor.Marshal(toEnvelope(d), cbor.EncOptions{})
}

// UnmarshalCBOR decodes a Data tree previously produced by MarshalCBOR.
func UnmarshalCBOR(b []byte) (Data, error) {
	var env cborEnvelope
	if err := cbor.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	return fromEnvelope(env)
}

func toEnvelope(d Data) cborEnvelope {
	switch v := d.(type) {
	case Constr:
		fields := make([]cborEnvelope, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = toEnvelope(f)
		}
		return cborEnvelope{Kind: "constr", Tag: v.Tag, Fields: fields}
	case Integer:
		neg := v.Int.Sign() < 0
		abs := new(big.Int).Abs(v.Int)
		return cborEnvelope{Kind: "int", Int: abs.Bytes(), Neg: neg}
	case ByteString:
		return cborEnvelope{Kind: "bytes", Bytes: v.Bytes}
	case List:
		items := make([]cborEnvelope, len(v.Items))
		for i, it := range v.Items {
			items[i] = toEnvelope(it)
		}
		return cborEnvelope{Kind: "list", Fields: items}
	case Map:
		keys := make([]cborEnvelope, len(v.Pairs))
		values := make([]cborEnvelope, len(v.Pairs))
		for i, p := range v.Pairs {
			keys[i] = toEnvelope(p.Key)
			values[i] = toEnvelope(p.Value)
		}
		return cborEnvelope{Kind: "map", Keys: keys, Values: values}
	default:
		panic("data: unreachable Data implementation")
	}
}

func fromEnvelope(env cborEnvelope) (Data, error) {
	switch env.Kind {
	case "constr":
		fields := make([]Data, len(env.Fields))
		for i, f := range env.Fields {
			d, err := fromEnvelope(f)
			if err != nil {
				return nil, err
			}
			fields[i] = d
		}
		return Constr{Tag: env.Tag, Fields: fields}, nil
	case "int":
		n := new(big.Int).SetBytes(env.Int)
		if env.Neg {
			n.Neg(n)
		}
		return Integer{Int: n}, nil
	case "bytes":
		return ByteString{Bytes: env.Bytes}, nil
	case "list":
		items := make([]Data, len(env.Fields))
		for i, f := range env.Fields {
			d, err := fromEnvelope(f)
			if err != nil {
				return nil, err
			}
			items[i] = d
		}
		return List{Items: items}, nil
	case "map":
		pairs := make([]Pair, len(env.Keys))
		for i := range env.Keys {
			k, err := fromEnvelope(env.Keys[i])
			if err != nil {
				return nil, err
			}
			v, err := fromEnvelope(env.Values[i])
			if err != nil {
				return nil, err
			}
			pairs[i] = Pair{Key: k, Value: v}
		}
		return Map{Pairs: pairs}, nil
	default:
		return nil, ErrMalformedFuzzerResult
	}
}
