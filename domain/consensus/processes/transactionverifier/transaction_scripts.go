package transactionverifier

import (
	"context"

	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/consensus/utils/hashes"
	"github.com/321cherish/ckb/infrastructure/logger"
)

// scriptGroup is the set of cells of a transaction that share one lock or
// type script. The script runs once for the whole group.
type scriptGroup struct {
	groupType     ruleerrors.ScriptGroupType
	script        *externalapi.Script
	scriptHash    *externalapi.DomainHash
	inputIndices  []int
	outputIndices []int
}

type scriptGroupKey struct {
	groupType  ruleerrors.ScriptGroupType
	scriptHash externalapi.DomainHash
}

// scriptGroups returns the lock groups of rtx followed by its type groups,
// each kind in the order its scripts are first seen
func scriptGroups(rtx *externalapi.ResolvedTransaction) []*scriptGroup {
	var groups []*scriptGroup
	groupsByKey := make(map[scriptGroupKey]*scriptGroup)
	groupOf := func(groupType ruleerrors.ScriptGroupType, script *externalapi.Script) *scriptGroup {
		scriptHash := consensushashing.ScriptHash(script)
		key := scriptGroupKey{groupType: groupType, scriptHash: *scriptHash}
		group, ok := groupsByKey[key]
		if !ok {
			group = &scriptGroup{groupType: groupType, script: script, scriptHash: scriptHash}
			groupsByKey[key] = group
			groups = append(groups, group)
		}
		return group
	}

	for i, cell := range rtx.ResolvedInputs {
		group := groupOf(ruleerrors.ScriptGroupTypeLock, cell.Output.Lock)
		group.inputIndices = append(group.inputIndices, i)
	}
	for i, cell := range rtx.ResolvedInputs {
		if cell.Output.Type == nil {
			continue
		}
		group := groupOf(ruleerrors.ScriptGroupTypeType, cell.Output.Type)
		group.inputIndices = append(group.inputIndices, i)
	}
	for i, output := range rtx.Transaction.Outputs {
		if output.Type == nil {
			continue
		}
		group := groupOf(ruleerrors.ScriptGroupTypeType, output.Type)
		group.outputIndices = append(group.outputIndices, i)
	}
	return groups
}

// verifyScripts runs every script group of rtx and returns the total number
// of cycles consumed. Each group may use whatever the previous groups left
// of the block's cycle budget.
func (v *transactionVerifier) verifyScripts(ctx context.Context, rtx *externalapi.ResolvedTransaction,
	verifyContext *model.VerifyContext) (uint64, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "verifyScripts")
	defer onEnd()

	codeByHash := make(map[externalapi.DomainHash][]byte, len(rtx.ResolvedDeps))
	for _, dep := range rtx.ResolvedDeps {
		codeByHash[*hashes.DataHash(dep.Data)] = dep.Data
	}

	maxCycles := verifyContext.Params.MaxBlockCycles
	totalCycles := uint64(0)
	for _, group := range scriptGroups(rtx) {
		err := ctx.Err()
		if err != nil {
			return 0, errors.WithStack(err)
		}

		code, ok := codeByHash[group.script.CodeHash]
		if !ok {
			return 0, ruleerrors.NewErrScriptFailure(group.scriptHash, group.groupType, 0, "code not found")
		}

		program := &model.ScriptProgram{
			Code:          code,
			Script:        group.script,
			ScriptHash:    group.scriptHash,
			InputIndices:  group.inputIndices,
			OutputIndices: group.outputIndices,
			Transaction:   rtx,
		}
		remainingCycles := maxCycles - totalCycles
		result, err := v.scriptVM.Run(ctx, program, remainingCycles)
		if err != nil {
			if errors.Is(err, model.ErrExceededMaxCycles) {
				return 0, errors.Wrapf(ruleerrors.ErrCyclesExceeded, "%s script %s of transaction %s "+
					"exceeded the remaining %d cycles", group.groupType, group.scriptHash,
					rtx.TransactionID, remainingCycles)
			}
			return 0, errors.Wrapf(err, "failed running %s script %s", group.groupType, group.scriptHash)
		}
		if result.Cycles > remainingCycles {
			return 0, errors.Wrapf(ruleerrors.ErrCyclesExceeded, "%s script %s of transaction %s "+
				"consumed %d cycles while only %d remained", group.groupType, group.scriptHash,
				rtx.TransactionID, result.Cycles, remainingCycles)
		}
		if result.ExitCode != 0 {
			return 0, ruleerrors.NewErrScriptFailure(group.scriptHash, group.groupType, result.ExitCode, "")
		}

		log.Tracef("%s script %s of transaction %s passed using %d cycles", group.groupType,
			group.scriptHash, rtx.TransactionID, result.Cycles)
		totalCycles += result.Cycles
	}
	return totalCycles, nil
}
