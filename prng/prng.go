// Package prng implements the Prng protocol: a sum type shared with
// compiled fuzzer programs over the Data wire format, used to seed and
// replay pseudo-random draws during property testing.
package prng

import (
	"github.com/pkg/errors"

	"github.com/aiken-lang/aiken-vm-tests/data"
	"github.com/aiken-lang/aiken-vm-tests/vm"
)

// Prng is the sealed sum type { Seeded, Replayed }. Both variants cache
// their canonical Data encoding at construction time so repeat calls to
// Uplc do not re-encode.
type Prng interface {
	// Uplc returns the cached Data encoding of this Prng state.
	Uplc() data.Data
	// Choices returns the random draws made so far, in draw order (oldest
	// first). Seeded reverses its internal prepend-order storage to
	// produce this; Replayed returns its stored sequence unchanged.
	Choices() []uint32
	// Sample applies this Prng to fuzzer and evaluates it once under the
	// maximum cost budget, decoding the result per the protocol in
	// data.DecodeFuzzerResult. Returns ok=false iff the fuzzer reported
	// None (replay exhaustion or violated precondition); a fuzzer crash or
	// malformed return is reported via err and is always fatal.
	Sample(fuzzer vm.Program) (next Prng, value data.Data, ok bool, err error)

	isPrng()
}

// seeded is the Prng variant that produces pseudo-random draws and records
// them as it goes. choices is kept in prepend (newest-first) order, exactly
// as the fuzzer reports them; Choices() reverses it on read.
type seeded struct {
	seed    uint32
	choices []uint32
	uplc    data.Data
}

// replayed is the Prng variant that consumes a pre-written list of draws,
// reporting exhaustion via Sample returning ok=false.
type replayed struct {
	choices []uint32
	uplc    data.Data
}

func (seeded) isPrng()   {}
func (replayed) isPrng() {}

// FromSeed constructs a Seeded Prng with an empty choice history.
func FromSeed(seed uint32) Prng {
	return seeded{
		seed:    seed,
		choices: nil,
		uplc:    data.EncodeSeededPrng(seed, nil),
	}
}

// FromChoices constructs a Replayed Prng that will hand out choices in the
// given order, reporting None once exhausted.
func FromChoices(choices []uint32) Prng {
	cloned := append([]uint32(nil), choices...)
	return replayed{
		choices: cloned,
		uplc:    data.EncodeReplayedPrng(cloned),
	}
}

func (s seeded) Uplc() data.Data { return s.uplc }
func (r replayed) Uplc() data.Data { return r.uplc }

// Choices reverses the Seeded variant's prepend-order storage into draw
// order (oldest first).
func (s seeded) Choices() []uint32 {
	out := make([]uint32, len(s.choices))
	for i, c := range s.choices {
		out[len(s.choices)-1-i] = c
	}
	return out
}

// Choices returns the Replayed variant's stored sequence unchanged: it is
// already in consumption (draw) order.
func (r replayed) Choices() []uint32 {
	return append([]uint32(nil), r.choices...)
}

// errFuzzerCrashed wraps a VM evaluation error encountered while sampling a
// fuzzer. A fuzzer is required not to crash; this is treated identically to
// a fuzzer-contract violation and is always fatal.
var errFuzzerCrashed = errors.New("fuzzer crashed")

func (s seeded) Sample(fuzzer vm.Program) (Prng, data.Data, bool, error) {
	return sample(s.uplc, fuzzer)
}

func (r replayed) Sample(fuzzer vm.Program) (Prng, data.Data, bool, error) {
	return sample(r.uplc, fuzzer)
}

func sample(self data.Data, fuzzer vm.Program) (Prng, data.Data, bool, error) {
	applied := fuzzer.ApplyValue(self)
	eval := applied.Evaluate(vm.Max())
	if eval.Err != nil {
		return nil, nil, false, errors.Wrap(errFuzzerCrashed, eval.Err.Error())
	}

	term, ok := eval.Result.(vm.DataTerm)
	if !ok {
		return nil, nil, false, errors.Wrap(data.ErrMalformedFuzzerResult, "fuzzer did not return a Data term")
	}

	decodedPrng, value, hasSome, err := data.DecodeFuzzerResult(term.Value)
	if err != nil {
		return nil, nil, false, err
	}
	if !hasSome {
		return nil, nil, false, nil
	}

	return fromDecoded(decodedPrng), value, true, nil
}

func fromDecoded(d data.DecodedPrng) Prng {
	if d.Replayed {
		return replayed{choices: d.Choices, uplc: d.Uplc}
	}
	return seeded{seed: d.Seed, choices: d.Choices, uplc: d.Uplc}
}

// FromResult decodes the top-level Option<(Prng, value)> term a fuzzer
// evaluation produced, exposing the same decoding Sample performs
// internally, for callers that already hold an evaluated Term (rather than
// a Program to apply and evaluate).
func FromResult(result vm.Term) (next Prng, value data.Data, ok bool, err error) {
	term, isData := result.(vm.DataTerm)
	if !isData {
		return nil, nil, false, errors.Wrap(data.ErrMalformedFuzzerResult, "fuzzer did not return a Data term")
	}

	decodedPrng, v, hasSome, decodeErr := data.DecodeFuzzerResult(term.Value)
	if decodeErr != nil {
		return nil, nil, false, decodeErr
	}
	if !hasSome {
		return nil, nil, false, nil
	}
	return fromDecoded(decodedPrng), v, true, nil
}
