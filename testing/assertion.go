package testing

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/aiken-lang/aiken-vm-tests/vm"
)

// BinaryOp is the comparison an Assertion renders a counterexample against.
// Aiken's `expect`/`and`/`or`/comparison test bodies compile down to one of
// these eight shapes; the VM only ever reports true/false, so the original
// operator has to be carried separately to render a useful failure message.
type BinaryOp int

const (
	And BinaryOp = iota
	Or
	Eq
	NotEq
	LtInt
	LtEqInt
	GtEqInt
	GtInt
)

// Assertion describes a single comparison performed inside a test body, and
// whether the test body is a "may fail" (CanError) or "must hold" check.
// Rendering it produces a human-readable explanation of the failure.
type Assertion struct {
	Op       BinaryOp
	Left     string
	Right    string
	CanError bool
}

// Render picks a template by (Op, CanError) and fills it in with Left/Right,
// already boxed by the caller. An Op outside the eight declared constants is
// a formatting error rather than a panic, since Left/Right are still usable
// on their own in that case.
func (a Assertion) Render() (string, error) {
	switch a.Op {
	case And:
		if a.CanError {
			return fmt.Sprintf("%s and %s are both true but shouldn't.", a.Left, a.Right), nil
		}
		return fmt.Sprintf("%s and %s should both be true.", a.Left, a.Right), nil
	case Or:
		if a.CanError {
			return fmt.Sprintf("neither %s nor %s should be true.", a.Left, a.Right), nil
		}
		return fmt.Sprintf("%s or %s should be true.", a.Left, a.Right), nil
	case Eq:
		if a.CanError {
			return fmt.Sprintf("%s should not be equal to %s", a.Left, a.Right), nil
		}
		return fmt.Sprintf("%s should be equal to %s", a.Left, a.Right), nil
	case NotEq:
		if a.CanError {
			return fmt.Sprintf("%s should be equal to %s", a.Left, a.Right), nil
		}
		return fmt.Sprintf("%s should not be equal to %s", a.Left, a.Right), nil
	case LtInt:
		if a.CanError {
			return fmt.Sprintf("%s should be greater than or equal to %s", a.Left, a.Right), nil
		}
		return fmt.Sprintf("%s should be lower than %s", a.Left, a.Right), nil
	case LtEqInt:
		if a.CanError {
			return fmt.Sprintf("%s should be greater than %s", a.Left, a.Right), nil
		}
		return fmt.Sprintf("%s should be lower than or equal to %s", a.Left, a.Right), nil
	case GtEqInt:
		if a.CanError {
			return fmt.Sprintf("%s should be lower than or equal %s", a.Left, a.Right), nil
		}
		return fmt.Sprintf("%s should be greater than %s", a.Left, a.Right), nil
	case GtInt:
		if a.CanError {
			return fmt.Sprintf("%s should be lower than %s", a.Left, a.Right), nil
		}
		return fmt.Sprintf("%s should be greater than or equal to %s", a.Left, a.Right), nil
	default:
		return "", errors.Errorf("unrecognized assertion operator %d", a.Op)
	}
}

// String renders the assertion for diagnostic output, falling back to the
// error text for an unrecognized Op so Assertion still satisfies fmt.Stringer
// unconditionally.
func (a Assertion) String() string {
	rendered, err := a.Render()
	if err != nil {
		return err.Error()
	}
	return rendered
}

// AssertionSpec is the compile-time half of an Assertion: the comparison's
// two sides as not-yet-evaluated programs, attached to a UnitTest whose body
// was recognized as a comparison. Evaluation (and therefore rendering) is
// deferred until the test actually fails, since a passing test never needs
// either side's value.
type AssertionSpec struct {
	Op    BinaryOp
	Left  vm.Program
	Right vm.Program
}

// Render evaluates Left and Right independently under an unlimited budget
// and boxes each result, producing the Assertion used to format a failure
// message. canError is the enclosing test's polarity, not a property of the
// comparison itself.
func (s AssertionSpec) Render(canError bool) Assertion {
	return Assertion{
		Op:       s.Op,
		Left:     evalAndBox("left", s.Left),
		Right:    evalAndBox("right", s.Right),
		CanError: canError,
	}
}

func evalAndBox(label string, program vm.Program) string {
	eval := program.Evaluate(vm.Max())
	var value string
	switch {
	case eval.Err != nil:
		value = eval.Err.Error()
	case eval.Result != nil:
		value = eval.Result.String()
	}
	return boxed(label, value)
}

// boxed frames value under label, the same presentation an assertion's two
// sides get before being dropped into one of the templates above.
func boxed(label, value string) string {
	return fmt.Sprintf("┌── %s ──\n│ %s\n└──", label, value)
}
