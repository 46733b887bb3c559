package testing

import (
	"github.com/aiken-lang/aiken-vm-tests/logging"
	"github.com/aiken-lang/aiken-vm-tests/vm"
)

// UnitTest is a fully-applied program evaluated exactly once: there is no
// fuzzer involved, so there is nothing to shrink.
type UnitTest struct {
	ModuleName string
	TestTitle  string
	Program    vm.Program
	// CanError mirrors Aiken's `expect`/plain-body distinction: true for a
	// test body written to demonstrate failure (e.g. `fail`-driven), false
	// for an ordinary assertion the body must satisfy.
	CanError bool
	// Assertion carries the two sides of a recognized comparison test body
	// (e.g. `1 + 1 == 3`), compiled separately so a failure can report what
	// each side actually evaluated to. Nil when the body isn't a recognized
	// comparison, or produced no usable hint.
	Assertion *AssertionSpec

	Logger *logging.Logger
}

// NewUnitTestFromDefinition constructs a UnitTest from a compiled program,
// mirroring the shape a compiler's test-definition pass produces: each
// top-level `test`/`!test` declaration already carries its fully-applied
// body by the time it reaches here. assertion may be nil.
func NewUnitTestFromDefinition(module, title string, program vm.Program, canError bool, assertion *AssertionSpec) *UnitTest {
	return &UnitTest{
		ModuleName: module,
		TestTitle:  title,
		Program:    program,
		CanError:   canError,
		Assertion:  assertion,
		Logger:     logging.GlobalLogger.NewSubLogger("module", "testing"),
	}
}

// Run evaluates the test body once under the maximum cost budget, since
// unit tests are not subject to an execution budget of their own.
func (t *UnitTest) Run() UnitTestResult {
	eval := t.Program.Evaluate(vm.Max())
	failed := eval.Failed(t.CanError)

	if failed {
		t.Logger.Debug("unit test failed: ", t.ModuleName, " :: ", t.TestTitle)
	}

	return UnitTestResult{
		module:    t.ModuleName,
		title:     t.TestTitle,
		success:   !failed,
		eval:      eval,
		assertion: t.Assertion,
		canError:  t.CanError,
	}
}
