package model

import "github.com/321cherish/ckb/domain/consensus/model/externalapi"

// RewardCalculator computes the reward of a block from its epoch
type RewardCalculator interface {
	RewardFor(height uint64, epoch *externalapi.Epoch) (externalapi.BlockReward, error)
}
