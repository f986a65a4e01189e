package blockverifier

import (
	"context"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/infrastructure/logger"
)

// blockVerifier orchestrates the verification of a whole block: its
// header, its commitments, its cellbase, its transactions and its uncles
type blockVerifier struct {
	verifyWorkers int

	headerVerifier      model.HeaderVerifier
	transactionResolver model.TransactionResolver
	transactionVerifier model.TransactionVerifier
	rewardCalculator    model.RewardCalculator
}

// New instantiates a new BlockVerifier. At most verifyWorkers transactions
// or uncles of a block are verified concurrently. A non-positive value
// means no limit.
func New(verifyWorkers int,
	headerVerifier model.HeaderVerifier,
	transactionResolver model.TransactionResolver,
	transactionVerifier model.TransactionVerifier,
	rewardCalculator model.RewardCalculator) model.BlockVerifier {

	if verifyWorkers <= 0 {
		verifyWorkers = -1
	}
	return &blockVerifier{
		verifyWorkers:       verifyWorkers,
		headerVerifier:      headerVerifier,
		transactionResolver: transactionResolver,
		transactionVerifier: transactionVerifier,
		rewardCalculator:    rewardCalculator,
	}
}

// VerifyBlock verifies block as the successor of verifyContext.Tip. When
// verifyContext.Tip is nil, block must be the genesis block.
func (bv *blockVerifier) VerifyBlock(ctx context.Context, block *externalapi.DomainBlock,
	verifyContext *model.VerifyContext) error {

	onEnd := logger.LogAndMeasureExecutionTime(log, "VerifyBlock")
	defer onEnd()

	log.Debugf("Verifying block %s at height %d", logger.NewLogClosure(func() string {
		return consensushashing.BlockHash(block).String()
	}), block.Header.Height)

	err := bv.headerVerifier.VerifyHeader(block.Header, verifyContext.Tip, verifyContext.Epoch, verifyContext)
	if err != nil {
		return err
	}

	err = bv.checkCommitments(block)
	if err != nil {
		return err
	}

	err = bv.checkCellbase(block, verifyContext)
	if err != nil {
		return err
	}

	err = bv.verifyTransactions(ctx, block, verifyContext)
	if err != nil {
		return err
	}

	return bv.verifyUncles(ctx, block, verifyContext)
}
