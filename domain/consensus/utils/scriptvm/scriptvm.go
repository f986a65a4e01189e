// Package scriptvm implements a native script VM. Instead of interpreting
// program bytecode, it recognizes a fixed set of built-in programs by their
// code and runs a Go implementation of each, charging a fixed cycle cost.
package scriptvm

import (
	"context"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/utils/hashes"
)

// The code of the built-in programs. A script runs one of them when its
// CodeHash is the data hash of the code, and a cell dep carries the code
// as its data.
var (
	AlwaysSuccessCode              = []byte("always_success")
	AlwaysFailureCode              = []byte("always_failure")
	Secp256k1Blake2bSighashAllCode = []byte("secp256k1_blake2b_sighash_all")
)

// The code hashes of the built-in programs
var (
	AlwaysSuccessCodeHash              = hashes.DataHash(AlwaysSuccessCode)
	AlwaysFailureCodeHash              = hashes.DataHash(AlwaysFailureCode)
	Secp256k1Blake2bSighashAllCodeHash = hashes.DataHash(Secp256k1Blake2bSighashAllCode)
)

const (
	alwaysSuccessCycles              = 500
	alwaysFailureCycles              = 500
	secp256k1Blake2bSighashAllCycles = 1_200_000

	// ExitCodeUnknownProgram is returned for code that is not a built-in
	ExitCodeUnknownProgram int8 = -128
)

type builtin struct {
	name   string
	cycles uint64
	run    func(program *model.ScriptProgram) int8
}

var builtins = map[string]*builtin{
	string(AlwaysSuccessCode): {
		name:   "always_success",
		cycles: alwaysSuccessCycles,
		run:    func(*model.ScriptProgram) int8 { return 0 },
	},
	string(AlwaysFailureCode): {
		name:   "always_failure",
		cycles: alwaysFailureCycles,
		run:    func(*model.ScriptProgram) int8 { return -1 },
	},
	string(Secp256k1Blake2bSighashAllCode): {
		name:   "secp256k1_blake2b_sighash_all",
		cycles: secp256k1Blake2bSighashAllCycles,
		run:    verifySighashAll,
	},
}

type nativeVM struct{}

// New instantiates a new native ScriptVM
func New() model.ScriptVM {
	return &nativeVM{}
}

// Run executes program within maxCycles. The cycle cost of a built-in is
// charged in full before it runs, so a program that does not fit the budget
// never runs.
func (vm *nativeVM) Run(ctx context.Context, program *model.ScriptProgram, maxCycles uint64) (*model.ScriptResult, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	impl, ok := builtins[string(program.Code)]
	if !ok {
		log.Debugf("Script %s has no built-in implementation", program.ScriptHash)
		return &model.ScriptResult{ExitCode: ExitCodeUnknownProgram}, nil
	}
	if impl.cycles > maxCycles {
		return nil, model.ErrExceededMaxCycles
	}

	exitCode := impl.run(program)
	log.Tracef("Script %s (%s) exited with code %d", program.ScriptHash, impl.name, exitCode)
	return &model.ScriptResult{ExitCode: exitCode, Cycles: impl.cycles}, nil
}
