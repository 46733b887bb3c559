package testing

import "github.com/google/uuid"

// IterationEvent is published once per property test draw, letting a caller
// observe progress through the MAX_TEST_RUN budget without waiting for the
// final result.
type IterationEvent struct {
	RunID   uuid.UUID
	Module  string
	Title   string
	Index   int
	Choices []uint32
}

// ShrinkProgressEvent is published once shrinking a failing counterexample
// has run to its fixed point, carrying the final minimized choice sequence.
type ShrinkProgressEvent struct {
	RunID   uuid.UUID
	Module  string
	Title   string
	Choices []uint32
}
