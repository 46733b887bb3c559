package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiken-lang/aiken-vm-tests/data"
	"github.com/aiken-lang/aiken-vm-tests/testconfig"
	"github.com/aiken-lang/aiken-vm-tests/vm"
)

// lcgFuzzer is a fake fuzzer Program standing in for a compiled int()
// fuzzer: it draws one byte per Sample using a small linear congruential
// step, exactly as the fake fuzzer in the prng package's own tests does,
// so PropertyTest can be exercised end to end without a real VM.
type lcgFuzzer struct{ applied data.Data }

func (f lcgFuzzer) ApplyValue(v data.Data) vm.Program { return lcgFuzzer{applied: v} }
func (f lcgFuzzer) ApplyTerm(vm.Term) vm.Program       { return f }
func (f lcgFuzzer) TargetVMVersion() string            { return "1.0.0" }
func (f lcgFuzzer) Pretty() string                     { return "lcgFuzzer" }

func (f lcgFuzzer) Evaluate(vm.ExBudget) vm.Evaluation {
	decoded, err := data.DecodePrng(f.applied)
	if err != nil {
		return vm.Evaluation{Err: err}
	}

	if decoded.Replayed {
		if len(decoded.Choices) == 0 {
			return vm.Evaluation{Result: vm.DataTerm{Value: data.EncodeFuzzerNone()}}
		}
		value := decoded.Choices[0] % 256
		nextPrng := data.EncodeReplayedPrng(decoded.Choices[1:])
		return vm.Evaluation{Result: vm.DataTerm{Value: data.EncodeFuzzerSome(nextPrng, data.IntegerFromUint32(value))}}
	}

	value := (decoded.Seed*1103515245 + 12345) % 256
	nextPrng := data.EncodeSeededPrng(decoded.Seed+1, append([]uint32{value}, decoded.Choices...))
	return vm.Evaluation{Result: vm.DataTerm{Value: data.EncodeFuzzerSome(nextPrng, data.IntegerFromUint32(value))}}
}

// evenBody is a fake test body that holds (returns true) iff its argument
// is even; used with CanError=false (body must hold) so odd draws fail it.
type evenBody struct{ applied data.Data }

func (b evenBody) ApplyValue(v data.Data) vm.Program { return evenBody{applied: v} }
func (b evenBody) ApplyTerm(vm.Term) vm.Program      { return b }
func (b evenBody) TargetVMVersion() string           { return "1.0.0" }
func (b evenBody) Pretty() string                    { return "evenBody" }

func (b evenBody) Evaluate(vm.ExBudget) vm.Evaluation {
	v, ok := data.AsUint32(b.applied)
	if !ok {
		return vm.Evaluation{Err: data.ErrMalformedFuzzerResult}
	}
	if v%2 == 0 {
		return vm.Evaluation{Result: vm.DataTerm{Value: data.Constr{Tag: 0}}}
	}
	return vm.Evaluation{Result: vm.DataTerm{Value: data.Constr{Tag: 1}}}
}

func TestPropertyTestFindsAndShrinksFailingDraw(t *testing.T) {
	// The LCG's multiplier and increment are both odd, so each draw's
	// parity is the previous seed's parity flipped: starting from an even
	// seed the very first draw is odd and fails evenBody immediately.
	pt := NewPropertyTestFromDefinition("my_module", "always even", lcgFuzzer{}, evenBody{}, false, testconfig.DefaultConfig())

	result := pt.Run(2)

	require.False(t, result.IsSuccess())
	require.NoError(t, result.FatalErr())
	assert.Equal(t, 1, result.Iterations())

	choices, value, ok := result.Counterexample()
	require.True(t, ok)
	require.NotEmpty(t, choices)

	v, ok := data.AsUint32(value)
	require.True(t, ok)
	assert.Equal(t, uint32(1), v%2, "shrunk counterexample must still be an odd, failing draw")
}

// alwaysTrueBody always holds, regardless of its argument.
type alwaysTrueBody struct{}

func (alwaysTrueBody) ApplyValue(data.Data) vm.Program { return alwaysTrueBody{} }
func (alwaysTrueBody) ApplyTerm(vm.Term) vm.Program    { return alwaysTrueBody{} }
func (alwaysTrueBody) TargetVMVersion() string         { return "1.0.0" }
func (alwaysTrueBody) Pretty() string                  { return "alwaysTrueBody" }
func (alwaysTrueBody) Evaluate(vm.ExBudget) vm.Evaluation {
	return vm.Evaluation{Result: vm.DataTerm{Value: data.Constr{Tag: 0}}}
}

func TestPropertyTestSucceedsAfterMaxTestRun(t *testing.T) {
	cfg := testconfig.Config{MaxTestRun: 5}
	pt := NewPropertyTestFromDefinition("my_module", "trivially holds", lcgFuzzer{}, alwaysTrueBody{}, false, cfg)

	result := pt.Run(2)

	assert.True(t, result.IsSuccess())
	assert.Equal(t, 5, result.Iterations())
	_, _, ok := result.Counterexample()
	assert.False(t, ok)
}

// crashingFuzzer always reports a VM error, simulating a fuzzer that
// violates the "must not crash" contract.
type crashingFuzzer struct{}

func (crashingFuzzer) ApplyValue(data.Data) vm.Program { return crashingFuzzer{} }
func (crashingFuzzer) ApplyTerm(vm.Term) vm.Program    { return crashingFuzzer{} }
func (crashingFuzzer) TargetVMVersion() string         { return "1.0.0" }
func (crashingFuzzer) Pretty() string                  { return "crashingFuzzer" }
func (crashingFuzzer) Evaluate(vm.ExBudget) vm.Evaluation {
	return vm.Evaluation{Err: assert.AnError}
}

func TestPropertyTestReportsFuzzerCrashAsFatal(t *testing.T) {
	pt := NewPropertyTestFromDefinition("my_module", "broken fuzzer", crashingFuzzer{}, alwaysTrueBody{}, false, testconfig.DefaultConfig())

	result := pt.Run(1)

	assert.False(t, result.IsSuccess())
	assert.Error(t, result.FatalErr())
}
