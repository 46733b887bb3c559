package vm

import (
	"github.com/Masterminds/semver"
)

// Bridge evaluates a compiled program under a fixed cost budget, returning
// success/failure, logs, the residual term and budget spent. A Bridge
// additionally gates evaluation on the program's declared target VM
// version, rejecting versions outside its supported range before invoking
// the evaluator.
type Bridge struct {
	supported *semver.Constraints
}

// DefaultSupportedVersions returns the semver range of VM versions this
// bridge accepts: any 1.x release.
func DefaultSupportedVersions() *semver.Constraints {
	c, err := semver.NewConstraint(">= 1.0.0, < 2.0.0")
	if err != nil {
		panic(err)
	}
	return c
}

// NewBridge creates a Bridge that only evaluates programs whose
// TargetVMVersion satisfies supported.
func NewBridge(supported *semver.Constraints) *Bridge {
	return &Bridge{supported: supported}
}

// Run applies no further arguments and evaluates program under budget,
// deterministically for equal inputs. A version mismatch is reported as a
// failed Evaluation rather than a panic, since an out-of-range VM version is
// a legitimate (if fatal) outcome the caller must be able to render.
func (b *Bridge) Run(program Program, budget ExBudget) Evaluation {
	version, err := semver.NewVersion(program.TargetVMVersion())
	if err != nil {
		return Evaluation{Err: err}
	}

	if !b.supported.Check(version) {
		return Evaluation{Err: &ErrUnsupportedVMVersion{Version: program.TargetVMVersion()}}
	}

	return program.Evaluate(budget)
}
