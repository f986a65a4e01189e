package pow

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/utils/difficulty"
	"github.com/321cherish/ckb/domain/dagconfig"
)

// New returns the ProofOfWork adapter selected by params.PowFunction
func New(params *dagconfig.Params) (model.ProofOfWork, error) {
	switch params.PowFunction {
	case dagconfig.PowFunctionCuckoo:
		return newCuckoo(params)
	case dagconfig.PowFunctionBlake2b:
		return &blake2bTarget{retargeter{params}}, nil
	case dagconfig.PowFunctionDummy:
		return &dummy{retargeter{params}}, nil
	}
	return nil, errors.Errorf("unknown pow function %s", params.PowFunction)
}

// retargeter implements the difficulty half of model.ProofOfWork, shared by
// all the adapters
type retargeter struct {
	params *dagconfig.Params
}

// NextDifficulty scales the target of the finished epoch by how long it
// actually took relative to how long it should have taken
func (r retargeter) NextDifficulty(history *model.EpochHistory) uint32 {
	actualDuration := history.LastHeader.TimeInMilliseconds - history.FirstHeader.TimeInMilliseconds
	targetDuration := r.params.TargetEpochDuration(history.Epoch.Length).Milliseconds()
	return difficulty.Retarget(history.Epoch.CompactTarget, targetDuration, actualDuration,
		r.params.RetargetBound, r.params.PowMax)
}

// checkHashAgainstTarget returns whether hash, read as a big-endian number,
// does not exceed the target compactTarget stands for
func checkHashAgainstTarget(hash *[32]byte, compactTarget uint32) bool {
	target, err := difficulty.CompactToTarget(compactTarget)
	if err != nil {
		return false
	}
	return new(uint256.Int).SetBytes32(hash[:]).Cmp(target) <= 0
}
