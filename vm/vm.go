// Package vm provides the thin bridge between the test/shrink core and the
// compiled programs it evaluates. The evaluator itself (the graph-reduction
// VM) is an external collaborator: this package only describes the contract
// a compiled Program must satisfy and the result shape the core consumes.
package vm

import (
	"fmt"

	"github.com/aiken-lang/aiken-vm-tests/data"
)

// ExBudget describes the pair of cost counters a VM evaluation is bounded
// by: memory and CPU units. A VM run decrements both as it executes and
// aborts once either reaches zero.
type ExBudget struct {
	// Mem is the remaining memory budget.
	Mem int64
	// Cpu is the remaining CPU budget.
	Cpu int64
}

// Max returns an effectively unbounded ExBudget, used whenever the core
// needs an evaluation to run to completion regardless of cost (property
// iterations, assertion rendering).
func Max() ExBudget {
	return ExBudget{Mem: 1<<63 - 1, Cpu: 1<<63 - 1}
}

// Sub returns the budget remaining after spending the given amount. Negative
// results are clamped to zero; callers only use this for diagnostics.
func (b ExBudget) Sub(spent ExBudget) ExBudget {
	mem := b.Mem - spent.Mem
	if mem < 0 {
		mem = 0
	}
	cpu := b.Cpu - spent.Cpu
	if cpu < 0 {
		cpu = 0
	}
	return ExBudget{Mem: mem, Cpu: cpu}
}

// Term is an evaluated VM result. The core only ever inspects a Term to
// compare it against the canonical boolean constructors or to pretty-print
// it for diagnostics; everything else about term shapes belongs to the VM.
type Term interface {
	// IsTrue reports whether this term is the VM's canonical "true" value.
	IsTrue() bool
	// IsFalse reports whether this term is the VM's canonical "false" value.
	IsFalse() bool
	// String renders the term for diagnostic output.
	String() string
}

// DataTerm wraps a data.Data value as a Term. It is the only Term
// implementation the core constructs itself (from a fuzzer-generated value);
// terms produced directly by evaluating a compiled program may use other
// concrete types supplied by the VM, as long as they satisfy this interface.
type DataTerm struct {
	Value data.Data
}

// IsTrue reports whether the wrapped Data is the canonical boolean true,
// which the VM represents as an argument-less constructor whose Tag is 0
// (compared as is, without ConstructorTagOffset applied).
func (t DataTerm) IsTrue() bool {
	c, ok := t.Value.(data.Constr)
	return ok && c.Tag == 0 && len(c.Fields) == 0
}

// IsFalse reports whether the wrapped Data is the canonical boolean false,
// an argument-less constructor whose Tag is 1.
func (t DataTerm) IsFalse() bool {
	c, ok := t.Value.(data.Constr)
	return ok && c.Tag == 1 && len(c.Fields) == 0
}

func (t DataTerm) String() string {
	return t.Value.String()
}

// Evaluation is the outcome of running a compiled Program to completion: the
// residual result (success or VM error), the cost actually spent and the
// ordered trace logs emitted along the way. Logs from aborted runs are
// retained, matching the VM's "no silent drop on failure" contract.
type Evaluation struct {
	// Result is the produced Term when the VM run did not error.
	Result Term
	// Err is the VM error, if the run aborted.
	Err error
	// Spent is the cost actually consumed by the run.
	Spent ExBudget
	// Logs is the ordered sequence of trace strings emitted during the run.
	Logs []string
}

// Failed reports whether this evaluation counts as a test failure under the
// given can_error polarity.
//
//   - a VM error counts as success iff canError is true.
//   - a VM value counts as success iff it is canonical true and !canError,
//     or canonical false and canError.
func (e Evaluation) Failed(canError bool) bool {
	if e.Err != nil {
		return !canError
	}

	if e.Result == nil {
		// A program that produced neither an error nor a recognizable
		// boolean term cannot satisfy the test convention.
		return true
	}

	switch {
	case e.Result.IsTrue():
		return canError
	case e.Result.IsFalse():
		return !canError
	default:
		return true
	}
}

// Program is a compiled VM program: applying a value to it yields a new
// Program (partial application), and evaluating it under a budget runs it to
// completion. Implementations are expected to be immutable and cheap to
// clone, or to be shared read-only by a single authoritative owner.
type Program interface {
	// ApplyValue partially applies the given Data value to the program,
	// returning the resulting Program.
	ApplyValue(v data.Data) Program
	// ApplyTerm partially applies an already-evaluated Term to the program.
	ApplyTerm(t Term) Program
	// Evaluate runs the program to completion under the given cost budget.
	Evaluate(budget ExBudget) Evaluation
	// TargetVMVersion reports the VM version this program was compiled
	// against, as a semver string (e.g. "1.1.0").
	TargetVMVersion() string
	// Pretty renders the program for diagnostic output.
	Pretty() string
}

// Run evaluates program under budget via a Bridge configured for the
// default supported VM version range. It is a convenience wrapper around
// NewBridge(DefaultSupportedVersions()).Run.
func Run(program Program, budget ExBudget) Evaluation {
	return NewBridge(DefaultSupportedVersions()).Run(program, budget)
}

// ErrUnsupportedVMVersion is returned when a compiled program declares a
// target VM version outside the range this bridge was built to support.
type ErrUnsupportedVMVersion struct {
	Version string
}

func (e *ErrUnsupportedVMVersion) Error() string {
	return fmt.Sprintf("program targets unsupported VM version %q", e.Version)
}
