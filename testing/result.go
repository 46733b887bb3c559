package testing

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aiken-lang/aiken-vm-tests/data"
	"github.com/aiken-lang/aiken-vm-tests/shrink"
	"github.com/aiken-lang/aiken-vm-tests/vm"
)

// TestResult is the common surface UnitTestResult and PropertyTestResult
// both satisfy.
type TestResult interface {
	IsSuccess() bool
	Module() string
	Title() string
	Logs() []string
}

// UnitTestResult is the outcome of running a UnitTest.
type UnitTestResult struct {
	module    string
	title     string
	success   bool
	eval      vm.Evaluation
	assertion *AssertionSpec
	canError  bool
}

func (r UnitTestResult) IsSuccess() bool { return r.success }
func (r UnitTestResult) Module() string  { return r.module }
func (r UnitTestResult) Title() string   { return r.title }
func (r UnitTestResult) Logs() []string  { return r.eval.Logs }

// IntoError renders a failure message for a failed UnitTestResult, or the
// empty string if the test succeeded. verbose controls whether the
// underlying evaluation error (if any) is included. When the test carries an
// Assertion, its rendered comparison is always appended, verbose or not.
func (r UnitTestResult) IntoError(verbose bool) string {
	if r.success {
		return ""
	}

	var base string
	switch {
	case r.eval.Err != nil && verbose:
		base = fmt.Sprintf("%s :: %s failed: %s", r.module, r.title, r.eval.Err.Error())
	case r.eval.Err == nil && verbose:
		base = fmt.Sprintf("%s :: %s failed: got %s", r.module, r.title, r.eval.Result.String())
	default:
		base = fmt.Sprintf("%s failed", r.title)
	}

	if r.assertion == nil {
		return base
	}
	return fmt.Sprintf("%s: %s", base, r.assertion.Render(r.canError).String())
}

// PropertyTestResult is the outcome of running a PropertyTest.
type PropertyTestResult struct {
	module     string
	title      string
	success    bool
	iterations int
	runID      uuid.UUID

	counterexample *shrink.Counterexample
	lastEval       vm.Evaluation
	fatalErr       error
}

func (r PropertyTestResult) IsSuccess() bool { return r.success }
func (r PropertyTestResult) Module() string  { return r.module }
func (r PropertyTestResult) Title() string   { return r.title }
func (r PropertyTestResult) Logs() []string  { return r.lastEval.Logs }

// Iterations reports how many draws were made before the test concluded:
// MaxTestRun on success, or the 1-based index of the failing draw otherwise.
func (r PropertyTestResult) Iterations() int { return r.iterations }

// RunID identifies this run for correlating its IterationEvent and
// ShrinkProgressEvent publications.
func (r PropertyTestResult) RunID() uuid.UUID { return r.runID }

// FatalErr reports a protocol violation encountered while sampling the
// fuzzer (a crash or malformed result), as opposed to an ordinary failing
// draw. This is never recoverable.
func (r PropertyTestResult) FatalErr() error { return r.fatalErr }

// Counterexample returns the minimized failing choices and value, if this
// result represents a failure that was not a fatal protocol violation.
func (r PropertyTestResult) Counterexample() (choices []uint32, value data.Data, ok bool) {
	if r.counterexample == nil {
		return nil, nil, false
	}
	return r.counterexample.Choices, r.counterexample.Value, true
}

// IntoError renders a failure message for a failed PropertyTestResult, or
// the empty string if the test succeeded.
func (r PropertyTestResult) IntoError(verbose bool) string {
	if r.success {
		return ""
	}
	if r.fatalErr != nil {
		return fmt.Sprintf("%s :: %s: %s", r.module, r.title, r.fatalErr.Error())
	}

	choices, value, _ := r.Counterexample()
	if verbose {
		return fmt.Sprintf(
			"%s :: %s: after %d test(s), found a counterexample with choices %v:\n%s",
			r.module, r.title, r.iterations, choices, value.String(),
		)
	}
	return fmt.Sprintf("%s: counterexample found after %d test(s): %s", r.title, r.iterations, value.String())
}
