package model

import (
	"context"

	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
)

// ErrExceededMaxCycles is returned by a ScriptVM when a program runs out of
// its cycle budget
var ErrExceededMaxCycles = errors.New("exceeded max cycles")

// ScriptProgram is a single script group ready to be executed
type ScriptProgram struct {
	Code       []byte
	Script     *externalapi.Script
	ScriptHash *externalapi.DomainHash

	// InputIndices and OutputIndices are the positions within Transaction
	// of the cells whose lock or type script is Script.
	InputIndices  []int
	OutputIndices []int

	Transaction *externalapi.ResolvedTransaction
}

// ScriptResult is the outcome of executing a ScriptProgram
type ScriptResult struct {
	ExitCode int8
	Cycles   uint64
}

// ScriptVM executes script programs
type ScriptVM interface {
	Run(ctx context.Context, program *ScriptProgram, maxCycles uint64) (*ScriptResult, error)
}
