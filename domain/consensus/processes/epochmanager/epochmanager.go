package epochmanager

import (
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/dagconfig"
)

type epochManager struct {
	params      *dagconfig.Params
	proofOfWork model.ProofOfWork
}

// New instantiates a new EpochManager
func New(params *dagconfig.Params, proofOfWork model.ProofOfWork) model.EpochManager {
	return &epochManager{
		params:      params,
		proofOfWork: proofOfWork,
	}
}

// GenesisEpoch returns the epoch the genesis block opens
func (em *epochManager) GenesisEpoch() *externalapi.Epoch {
	return &externalapi.Epoch{
		Number:          0,
		StartHeight:     0,
		Length:          em.params.EpochLength,
		CompactTarget:   em.params.GenesisBlock.Header.CompactTarget,
		PrimaryReward:   em.params.PrimaryEpochReward,
		SecondaryReward: em.params.SecondaryEpochReward,
	}
}

// NextEpoch returns the epoch that follows current. firstHeader and
// lastHeader are the first and last headers of current, and the time that
// passed between them drives the difficulty retarget.
func (em *epochManager) NextEpoch(current *externalapi.Epoch,
	firstHeader, lastHeader *externalapi.DomainHeader) (*externalapi.Epoch, error) {

	if firstHeader.Height != current.StartHeight {
		return nil, errors.Errorf("header at height %d does not open epoch %d starting at height %d",
			firstHeader.Height, current.Number, current.StartHeight)
	}
	if lastHeader.Height != current.LastHeight() {
		return nil, errors.Errorf("header at height %d does not close epoch %d ending at height %d",
			lastHeader.Height, current.Number, current.LastHeight())
	}

	number := current.Number + 1
	next := &externalapi.Epoch{
		Number:      number,
		StartHeight: current.StartHeight + current.Length,
		Length:      em.params.EpochLength,
		CompactTarget: em.proofOfWork.NextDifficulty(&model.EpochHistory{
			Epoch:       current,
			FirstHeader: firstHeader,
			LastHeader:  lastHeader,
		}),
		PrimaryReward:   em.primaryEpochReward(number),
		SecondaryReward: em.params.SecondaryEpochReward,
	}

	log.Debugf("Epoch %d starts at height %d with target %08x (previous %08x)",
		next.Number, next.StartHeight, next.CompactTarget, current.CompactTarget)
	return next, nil
}

// primaryEpochReward halves the initial primary epoch reward once every
// PrimaryHalvingInterval epochs
func (em *epochManager) primaryEpochReward(epochNumber uint64) uint64 {
	if em.params.PrimaryHalvingInterval == 0 {
		return em.params.PrimaryEpochReward
	}
	halvings := epochNumber / em.params.PrimaryHalvingInterval
	if halvings >= 64 {
		return 0
	}
	return em.params.PrimaryEpochReward >> halvings
}
