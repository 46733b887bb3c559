// Package shrink implements the Counterexample minimization algorithm used
// once a property test fails: given the failing choice sequence, find a
// smaller or simpler one that still fails, by chunked deletion,
// zero-replacement, and per-index binary search, run to a fixed point.
package shrink

import (
	"golang.org/x/exp/slices"

	"github.com/aiken-lang/aiken-vm-tests/data"
	"github.com/aiken-lang/aiken-vm-tests/prng"
	"github.com/aiken-lang/aiken-vm-tests/vm"
)

// Property is the seam a Counterexample replays choice sequences against.
// It is deliberately narrow (just the fuzzer and the failure predicate) so
// this package never imports the testing package that defines the full
// property test; the testing package depends on shrink, not the reverse.
type Property interface {
	Fuzzer() vm.Program
	// CanError reports whether value, as produced by Fuzzer, should be
	// treated as a failing draw. For a property test this mirrors its
	// assertion/predicate; for a plain boolean fuzzer output it is just
	// "is the result false".
	CanError(value data.Data) bool
}

// Counterexample holds the current best-known failing choice sequence and
// its associated value, and drives its own minimization.
type Counterexample struct {
	Choices  []uint32
	Value    data.Data
	property Property

	// Err is set if replaying a candidate ever reported a fatal error
	// (fuzzer crash or malformed protocol result). Once set, Simplify
	// stops attempting further candidates and returns immediately: a
	// fuzzer is required not to crash, so this always indicates a bug
	// rather than an ordinary shrink failure.
	Err error
}

// NewCounterexample wraps the failing (choices, value) pair discovered by a
// property test run, ready to be simplified against property.
func NewCounterexample(choices []uint32, value data.Data, property Property) *Counterexample {
	return &Counterexample{
		Choices:  append([]uint32(nil), choices...),
		Value:    value,
		property: property,
	}
}

// consider replays candidate and, iff it still demonstrates a failure and is
// no larger/later than the current choices, adopts it as the new current
// counterexample. Returns whether candidate was accepted.
func (c *Counterexample) consider(candidate []uint32) bool {
	if c.Err != nil {
		return false
	}
	if slices.Equal(candidate, c.Choices) {
		return true
	}
	if !acceptableOrder(candidate, c.Choices) {
		return false
	}

	p := prng.FromChoices(candidate)
	_, value, ok, err := p.Sample(c.property.Fuzzer())
	if err != nil {
		c.Err = err
		return false
	}
	if !ok {
		return false
	}
	if !c.property.CanError(value) {
		return false
	}

	c.Choices = append([]uint32(nil), candidate...)
	c.Value = value
	return true
}

// acceptableOrder is the ordering half of consider's acceptance test: a
// candidate must be no longer than current, or else lexicographically
// smaller than it.
func acceptableOrder(candidate, current []uint32) bool {
	if len(candidate) <= len(current) {
		return true
	}
	return lexLess(candidate, current)
}

func lexLess(a, b []uint32) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Simplify runs the three shrink passes repeatedly until a full round
// leaves the choice sequence unchanged (a fixed point), or a fatal error is
// recorded on c.Err.
func (c *Counterexample) Simplify() {
	for {
		before := append([]uint32(nil), c.Choices...)

		c.removeChunks()
		if c.Err != nil {
			return
		}
		c.zeroChunks()
		if c.Err != nil {
			return
		}
		c.binarySearchAll()
		if c.Err != nil {
			return
		}

		if slices.Equal(before, c.Choices) {
			return
		}
	}
}

// removeChunks is pass 1: delete contiguous chunks of size k, descending
// through k = 8, 4, 2, 1. k only controls the width of the deletion window;
// the sliding index i always steps by 1, using explicit underflow checks
// rather than relying on signed wraparound, since i is logically an
// unsigned offset into the choice sequence.
//
// When a deletion at position i fails, but the same deletion combined with
// decrementing the element just before it succeeds, the same position i is
// retried against the now-shorter sequence: this handles length-prefixed sub-structures,
// where a list's length choice must shrink in lockstep with deleting one of
// its elements. When i runs past the end of an already-shrunk sequence, it
// is decremented and retried rather than abandoning the rest of the round.
func (c *Counterexample) removeChunks() {
	for _, k := range []uint32{8, 4, 2, 1} {
		var i uint32
		var underflowed bool
		if uint32(len(c.Choices)) < k {
			underflowed = true
		} else {
			i, underflowed = uint32(len(c.Choices))-k, false
		}

		for !underflowed {
			if i >= uint32(len(c.Choices)) {
				i, underflowed = subUint32(i, 1)
				continue
			}

			attempt := deleteRange(c.Choices, i, k)
			if c.consider(attempt) {
				// c.Choices is now shorter; retry at the same offset i on
				// the next iteration (the overrun check above will back it
				// off if it now runs past the end).
				continue
			}
			if c.Err != nil {
				return
			}

			if i > 0 && attempt[i-1] > 0 {
				alt := append([]uint32(nil), attempt...)
				alt[i-1]--
				if c.consider(alt) {
					// Counteract the decrement below so i stays put.
					i++
				} else if c.Err != nil {
					return
				}
			}

			i, underflowed = subUint32(i, 1)
		}
	}
}

// zeroChunks is pass 2: for chunk sizes k = 8, 4, 2, try replacing each full
// window of k consecutive choices with zero, starting with the window that
// ends at the last choice and moving towards the front: by k after an
// accepted replacement, by 1 after a rejected one.
func (c *Counterexample) zeroChunks() {
	for _, k := range []uint32{8, 4, 2} {
		end := uint32(len(c.Choices))
		for end >= k {
			if c.replace(end-k, end, 0) {
				end -= k
				continue
			}
			if c.Err != nil {
				return
			}
			end--
		}
	}
}

// replace attempts to set every choice in [start, end) to value in a single
// candidate and reports whether it was accepted; a no-op (reported as
// accepted) if all are already value.
func (c *Counterexample) replace(start, end, value uint32) bool {
	allAlready := true
	for idx := start; idx < end; idx++ {
		if c.Choices[idx] != value {
			allAlready = false
			break
		}
	}
	if allAlready {
		return true
	}

	candidate := append([]uint32(nil), c.Choices...)
	for idx := start; idx < end; idx++ {
		candidate[idx] = value
	}
	return c.consider(candidate)
}

// binarySearchAll is pass 3: for each index, from the last to the first,
// binary-search the smallest value at that index (holding all others fixed)
// that still fails.
func (c *Counterexample) binarySearchAll() {
	for i := len(c.Choices) - 1; i >= 0; i-- {
		c.binarySearchReplace(i)
		if c.Err != nil {
			return
		}
	}
}

func (c *Counterexample) binarySearchReplace(index int) {
	if index >= len(c.Choices) || c.Choices[index] == 0 {
		return
	}

	candidateZero := append([]uint32(nil), c.Choices...)
	candidateZero[index] = 0
	if c.consider(candidateZero) {
		return
	}
	if c.Err != nil {
		return
	}

	// Invariant: lo is rejected, hi is accepted (it is the current value).
	lo, hi := uint32(0), c.Choices[index]
	for lo+1 < hi {
		mid := lo + (hi-lo)/2
		candidate := append([]uint32(nil), c.Choices...)
		candidate[index] = mid
		if c.consider(candidate) {
			hi = mid
		} else {
			if c.Err != nil {
				return
			}
			lo = mid
		}
	}
}

func deleteRange(choices []uint32, start, length uint32) []uint32 {
	end := start + length
	if end > uint32(len(choices)) {
		end = uint32(len(choices))
	}
	out := make([]uint32, 0, len(choices)-int(end-start))
	out = append(out, choices[:start]...)
	out = append(out, choices[end:]...)
	return out
}

func subUint32(a, b uint32) (uint32, bool) {
	if b > a {
		return 0, true
	}
	return a - b, false
}
