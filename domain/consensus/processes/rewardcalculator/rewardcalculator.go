package rewardcalculator

import (
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
)

type rewardCalculator struct{}

// New instantiates a new RewardCalculator
func New() model.RewardCalculator {
	return &rewardCalculator{}
}

// RewardFor returns the reward of the block at the given height. The
// primary and secondary epoch rewards are each split evenly among the
// blocks of the epoch, and the remainder of each division is handed out
// one shannon at a time to the first blocks of the epoch.
func (rc *rewardCalculator) RewardFor(height uint64, epoch *externalapi.Epoch) (externalapi.BlockReward, error) {
	if epoch.Length == 0 || !epoch.Contains(height) {
		return externalapi.BlockReward{}, errors.Wrapf(ruleerrors.ErrHeightOutsideEpoch,
			"height %d is outside of epoch %d [%d, %d)", height, epoch.Number,
			epoch.StartHeight, epoch.StartHeight+epoch.Length)
	}

	indexInEpoch := height - epoch.StartHeight
	return externalapi.BlockReward{
		Primary:   splitReward(epoch.PrimaryReward, epoch.Length, indexInEpoch),
		Secondary: splitReward(epoch.SecondaryReward, epoch.Length, indexInEpoch),
	}, nil
}

func splitReward(total, length, indexInEpoch uint64) uint64 {
	reward := total / length
	if indexInEpoch < total%length {
		reward++
	}
	return reward
}
