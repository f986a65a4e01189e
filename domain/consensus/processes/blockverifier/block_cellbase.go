package blockverifier

import (
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
)

// checkCellbase ensures the block starts with a single well formed
// cellbase paying exactly the reward due at its height
func (bv *blockVerifier) checkCellbase(block *externalapi.DomainBlock, verifyContext *model.VerifyContext) error {
	if len(block.Transactions) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTransactions, "block does not contain "+
			"any transactions")
	}

	for i, tx := range block.Transactions[1:] {
		if tx.IsCellbase() {
			return errors.Wrapf(ruleerrors.ErrCellbaseMalformed, "block contains second cellbase at "+
				"index %d", i+1)
		}
	}

	cellbase := block.Transactions[0]
	height := block.Header.Height
	if !cellbase.IsCellbase() {
		return errors.Wrapf(ruleerrors.ErrCellbaseMalformed, "first transaction in "+
			"block is not a cellbase")
	}
	if cellbase.Inputs[0].Since != height {
		return errors.Wrapf(ruleerrors.ErrCellbaseMalformed, "cellbase input since is %d "+
			"while the block height is %d", cellbase.Inputs[0].Since, height)
	}
	if len(cellbase.Outputs) != 1 || len(cellbase.OutputsData) != 1 {
		return errors.Wrapf(ruleerrors.ErrCellbaseMalformed, "cellbase has %d outputs and %d outputs "+
			"data while exactly one of each is allowed", len(cellbase.Outputs), len(cellbase.OutputsData))
	}
	output := cellbase.Outputs[0]
	if output.Type != nil {
		return errors.Wrapf(ruleerrors.ErrCellbaseMalformed, "cellbase output has a type script")
	}

	reward, err := bv.rewardCalculator.RewardFor(height, verifyContext.Epoch)
	if err != nil {
		return err
	}
	if output.Capacity != reward.Total() {
		return errors.Wrapf(ruleerrors.ErrCellbaseRewardMismatch, "cellbase pays %d while the "+
			"reward at height %d is %d", output.Capacity, height, reward.Total())
	}
	return nil
}
