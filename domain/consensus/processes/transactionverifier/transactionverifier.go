package transactionverifier

import (
	"context"

	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
	"github.com/321cherish/ckb/infrastructure/logger"
)

// transactionVerifier verifies resolved ordinary transactions, both on
// their own and against the chain they are about to be committed to
type transactionVerifier struct {
	scriptVM              model.ScriptVM
	pastMedianTimeManager model.PastMedianTimeManager
}

// New instantiates a new TransactionVerifier
func New(scriptVM model.ScriptVM,
	pastMedianTimeManager model.PastMedianTimeManager) model.TransactionVerifier {

	return &transactionVerifier{
		scriptVM:              scriptVM,
		pastMedianTimeManager: pastMedianTimeManager,
	}
}

// VerifyTransaction verifies rtx as a transaction of the block following
// verifyContext.Tip, and returns the number of cycles its scripts
// consumed.
func (v *transactionVerifier) VerifyTransaction(ctx context.Context, rtx *externalapi.ResolvedTransaction,
	verifyContext *model.VerifyContext) (uint64, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "VerifyTransaction")
	defer onEnd()

	if rtx.IsCellbase() {
		return 0, errors.Wrapf(ruleerrors.ErrCellbaseMalformed, "cellbase %s can only be verified "+
			"as part of its block", rtx.TransactionID)
	}

	err := v.verifyTransactionInIsolation(rtx.Transaction)
	if err != nil {
		return 0, err
	}

	err = v.verifyTransactionInContext(rtx, verifyContext)
	if err != nil {
		return 0, err
	}

	cycles, err := v.verifyScripts(ctx, rtx, verifyContext)
	if err != nil {
		return 0, err
	}

	log.Debugf("Transaction %s consumed %d cycles", rtx.TransactionID, cycles)
	return cycles, nil
}
