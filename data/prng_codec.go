package data

import (
	"github.com/pkg/errors"
)

// Wire tags for the Prng sum type. Constructor indices 0 and 1 land on
// ConstructorTagOffset+0 and +1 respectively.
const (
	prngSeededIndex   uint64 = 0
	prngReplayedIndex uint64 = 1
)

// Wire tags for the fuzzer's Option<(Prng, value)> return.
const (
	optionSomeIndex uint64 = 0
	optionNoneIndex uint64 = 1
)

// ErrMalformedFuzzerResult is returned when a compiled fuzzer or Prng
// producer emits a Data shape that does not match the expected protocol.
// This is unrecoverable: a well-typed fuzzer cannot produce it, so a
// mismatch indicates a compiler bug rather than an ordinary test failure.
var ErrMalformedFuzzerResult = errors.New("malformed fuzzer result")

// EncodeSeededPrng builds the canonical Data encoding of a Seeded Prng:
// tag 121+0 with fields [int(seed), list(choices)]. choices must already be
// in the variant's internal storage order (newest-first / prepend order),
// not the reversed draw order Prng.Choices() exposes.
func EncodeSeededPrng(seed uint32, choices []uint32) Data {
	items := make([]Data, len(choices))
	for i, c := range choices {
		items[i] = IntegerFromUint32(c)
	}
	return Constr{
		Tag: ConstructorTag(prngSeededIndex),
		Fields: []Data{
			IntegerFromUint32(seed),
			List{Items: items},
		},
	}
}

// EncodeReplayedPrng builds the canonical Data encoding of a Replayed Prng:
// tag 121+1 with a single field, the list of choices in consumption order.
func EncodeReplayedPrng(choices []uint32) Data {
	items := make([]Data, len(choices))
	for i, c := range choices {
		items[i] = IntegerFromUint32(c)
	}
	return Constr{
		Tag:    ConstructorTag(prngReplayedIndex),
		Fields: []Data{List{Items: items}},
	}
}

// DecodedPrng is the result of parsing a Data value as one of the two Prng
// constructors.
type DecodedPrng struct {
	Replayed bool
	Seed     uint32 // only meaningful when !Replayed
	Choices  []uint32
	Uplc     Data
}

// DecodePrng parses d as a Seeded or Replayed Prng constructor. A shape that
// matches neither is a protocol violation.
func DecodePrng(d Data) (DecodedPrng, error) {
	c, ok := d.(Constr)
	if !ok {
		return DecodedPrng{}, errors.Wrap(ErrMalformedFuzzerResult, "prng is not a constructor")
	}

	index, inRange := ConstructorIndex(c.Tag)
	if !inRange {
		return DecodedPrng{}, errors.Wrapf(ErrMalformedFuzzerResult, "prng constructor tag %d below offset", c.Tag)
	}

	switch index {
	case prngSeededIndex:
		if len(c.Fields) != 2 {
			return DecodedPrng{}, errors.Wrap(ErrMalformedFuzzerResult, "seeded prng must carry exactly 2 fields")
		}
		seed, ok := AsUint32(c.Fields[0])
		if !ok {
			return DecodedPrng{}, errors.Wrap(ErrMalformedFuzzerResult, "seeded prng's seed is not a u32 integer")
		}
		choices, err := decodeUint32List(c.Fields[1])
		if err != nil {
			return DecodedPrng{}, err
		}
		return DecodedPrng{Replayed: false, Seed: seed, Choices: choices, Uplc: d}, nil

	case prngReplayedIndex:
		if len(c.Fields) != 1 {
			return DecodedPrng{}, errors.Wrap(ErrMalformedFuzzerResult, "replayed prng must carry exactly 1 field")
		}
		choices, err := decodeUint32List(c.Fields[0])
		if err != nil {
			return DecodedPrng{}, err
		}
		return DecodedPrng{Replayed: true, Choices: choices, Uplc: d}, nil

	default:
		return DecodedPrng{}, errors.Wrapf(ErrMalformedFuzzerResult, "unrecognized prng constructor index %d", index)
	}
}

func decodeUint32List(d Data) ([]uint32, error) {
	l, ok := d.(List)
	if !ok {
		return nil, errors.Wrap(ErrMalformedFuzzerResult, "prng choices field is not a list")
	}
	out := make([]uint32, len(l.Items))
	for i, item := range l.Items {
		v, ok := AsUint32(item)
		if !ok {
			return nil, errors.Wrapf(ErrMalformedFuzzerResult, "prng choice at index %d is not a u32 integer", i)
		}
		out[i] = v
	}
	return out, nil
}

// DecodeFuzzerResult parses the top-level Term a fuzzer evaluation
// produced. A fuzzer has VM-level signature Prng -> Option<(Prng, value)>;
// Some is encoded as constructor tag 121+0 with a single field that is a
// two-element *list* [new_prng, value] (not a constructor — this is a
// protocol fact implementers must match exactly), and None as tag 121+1
// with no fields.
//
// Returns (prng, value, ok, err): ok is false iff the fuzzer returned None;
// err is non-nil iff the shape did not match the protocol at all.
func DecodeFuzzerResult(d Data) (DecodedPrng, Data, bool, error) {
	c, ok := d.(Constr)
	if !ok {
		return DecodedPrng{}, nil, false, errors.Wrap(ErrMalformedFuzzerResult, "fuzzer result is not a constructor")
	}

	index, inRange := ConstructorIndex(c.Tag)
	if !inRange {
		return DecodedPrng{}, nil, false, errors.Wrapf(ErrMalformedFuzzerResult, "fuzzer result tag %d below offset", c.Tag)
	}

	switch index {
	case optionSomeIndex:
		if len(c.Fields) != 1 {
			return DecodedPrng{}, nil, false, errors.Wrap(ErrMalformedFuzzerResult, "Some must carry exactly 1 field")
		}
		tuple, ok := c.Fields[0].(List)
		if !ok || len(tuple.Items) != 2 {
			return DecodedPrng{}, nil, false, errors.Wrap(ErrMalformedFuzzerResult, "Some's field must be a 2-element list")
		}
		prng, err := DecodePrng(tuple.Items[0])
		if err != nil {
			return DecodedPrng{}, nil, false, err
		}
		return prng, tuple.Items[1], true, nil

	case optionNoneIndex:
		return DecodedPrng{}, nil, false, nil

	default:
		return DecodedPrng{}, nil, false, errors.Wrapf(ErrMalformedFuzzerResult, "unrecognized option constructor index %d", index)
	}
}

// EncodeFuzzerSome builds the Data encoding of Some(prng, value), as a test
// helper and as the shape a fake Program implementation can return to
// exercise the core without a real VM.
func EncodeFuzzerSome(prng Data, value Data) Data {
	return Constr{
		Tag:    ConstructorTag(optionSomeIndex),
		Fields: []Data{List{Items: []Data{prng, value}}},
	}
}

// EncodeFuzzerNone builds the Data encoding of None.
func EncodeFuzzerNone() Data {
	return Constr{Tag: ConstructorTag(optionNoneIndex), Fields: nil}
}
