package testing

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aiken-lang/aiken-vm-tests/data"
	"github.com/aiken-lang/aiken-vm-tests/events"
	"github.com/aiken-lang/aiken-vm-tests/logging"
	"github.com/aiken-lang/aiken-vm-tests/prng"
	"github.com/aiken-lang/aiken-vm-tests/shrink"
	"github.com/aiken-lang/aiken-vm-tests/testconfig"
	"github.com/aiken-lang/aiken-vm-tests/vm"
)

// errFuzzerReturnedNone is returned when a seeded run's fuzzer reports no
// value at all. Non-goals exclude preconditions and targeted search, so a
// seeded draw is never expected to come back empty; if it does, that is a
// fuzzer-contract violation rather than an ordinary failing draw.
var errFuzzerReturnedNone = errors.New("fuzzer returned no value during a seeded property run")

// PropertyTest runs a fuzzer-driven test body up to Config.MaxTestRun times,
// short-circuiting and shrinking on the first failing draw.
type PropertyTest struct {
	ModuleName string
	TestTitle  string

	// Fuzzer is the compiled Prng -> Option<(Prng, value)> program that
	// produces each draw.
	Fuzzer vm.Program
	// Body is the compiled test predicate; each draw is applied to it via
	// ApplyValue before evaluation.
	Body vm.Program
	// CanError mirrors UnitTest.CanError: whether this body is expected to
	// demonstrate failure or to hold.
	CanError bool

	Config testconfig.Config
	Logger *logging.Logger

	OnIteration      events.EventEmitter[IterationEvent]
	OnShrinkProgress events.EventEmitter[ShrinkProgressEvent]
}

// NewPropertyTestFromDefinition constructs a PropertyTest from a compiled
// fuzzer and test body, the property-test analogue of
// NewUnitTestFromDefinition.
func NewPropertyTestFromDefinition(module, title string, fuzzer, body vm.Program, canError bool, cfg testconfig.Config) *PropertyTest {
	return &PropertyTest{
		ModuleName: module,
		TestTitle:  title,
		Fuzzer:     fuzzer,
		Body:       body,
		CanError:   canError,
		Config:     cfg,
		Logger:     logging.GlobalLogger.NewSubLogger("module", "testing"),
	}
}

// propertyAdapter exposes a PropertyTest as a shrink.Property without the
// shrink package needing to know anything about PropertyTest itself.
type propertyAdapter struct {
	test *PropertyTest
}

func (a propertyAdapter) Fuzzer() vm.Program { return a.test.Fuzzer }

func (a propertyAdapter) CanError(value data.Data) bool {
	eval := a.test.Body.ApplyValue(value).Evaluate(vm.Max())
	return eval.Failed(a.test.CanError)
}

// Run draws up to Config.MaxTestRun values from Fuzzer, seeded from seed,
// evaluating Body against each. It stops at the first failing draw and
// shrinks it, or reports success once MaxTestRun passing draws have been
// made.
func (p *PropertyTest) Run(seed uint32) PropertyTestResult {
	runID := uuid.New()

	maxRun := p.Config.MaxTestRun
	if maxRun <= 0 {
		maxRun = testconfig.DefaultMaxTestRun
	}

	current := prng.FromSeed(seed)

	for i := 0; i < maxRun; i++ {
		next, value, ok, err := current.Sample(p.Fuzzer)
		if err != nil {
			return PropertyTestResult{module: p.ModuleName, title: p.TestTitle, fatalErr: err}
		}
		if !ok {
			return PropertyTestResult{module: p.ModuleName, title: p.TestTitle, fatalErr: errFuzzerReturnedNone}
		}

		p.OnIteration.Publish(IterationEvent{
			RunID:   runID,
			Module:  p.ModuleName,
			Title:   p.TestTitle,
			Index:   i,
			Choices: next.Choices(),
		})

		eval := p.Body.ApplyValue(value).Evaluate(vm.Max())
		if eval.Failed(p.CanError) {
			counterexample := shrink.NewCounterexample(next.Choices(), value, propertyAdapter{test: p})
			counterexample.Simplify()

			p.OnShrinkProgress.Publish(ShrinkProgressEvent{
				RunID:   runID,
				Module:  p.ModuleName,
				Title:   p.TestTitle,
				Choices: counterexample.Choices,
			})

			if counterexample.Err != nil {
				return PropertyTestResult{module: p.ModuleName, title: p.TestTitle, fatalErr: counterexample.Err}
			}

			p.Logger.Debug("property test failed: ", p.ModuleName, " :: ", p.TestTitle)

			return PropertyTestResult{
				module:         p.ModuleName,
				title:          p.TestTitle,
				iterations:     i + 1,
				runID:          runID,
				counterexample: counterexample,
				lastEval:       eval,
			}
		}

		current = next
	}

	return PropertyTestResult{
		module:     p.ModuleName,
		title:      p.TestTitle,
		success:    true,
		iterations: maxRun,
		runID:      runID,
	}
}
