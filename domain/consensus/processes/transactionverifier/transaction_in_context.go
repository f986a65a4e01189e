package transactionverifier

import (
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
	"github.com/321cherish/ckb/domain/consensus/utils/capacity"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/consensus/utils/since"
)

func (v *transactionVerifier) verifyTransactionInContext(rtx *externalapi.ResolvedTransaction,
	verifyContext *model.VerifyContext) error {

	if len(rtx.ResolvedInputs) != len(rtx.Transaction.Inputs) ||
		len(rtx.ResolvedDeps) != len(rtx.Transaction.CellDeps) {

		return errors.Errorf("transaction %s is not fully resolved", rtx.TransactionID)
	}

	err := v.checkCellbaseMaturity(rtx, verifyContext)
	if err != nil {
		return err
	}

	err = v.checkCapacityConservation(rtx)
	if err != nil {
		return err
	}

	return v.checkSince(rtx, verifyContext)
}

// checkCellbaseMaturity ensures that no input or dep of rtx was created by a
// cellbase that is younger than the cellbase maturity
func (v *transactionVerifier) checkCellbaseMaturity(rtx *externalapi.ResolvedTransaction,
	verifyContext *model.VerifyContext) error {

	blockHeight := verifyContext.BlockHeight()
	maturity := verifyContext.Params.CellbaseMaturity
	check := func(cell *externalapi.CellMeta, kind string) error {
		if !cell.IsCellbase() {
			return nil
		}
		originHeight := cell.TransactionInfo.BlockHeight
		if blockHeight < originHeight || blockHeight-originHeight < maturity {
			return errors.Wrapf(ruleerrors.ErrCellbaseImmature, "tried to use cellbase output %s "+
				"from height %d as %s at height %d before required maturity of %d blocks",
				cell.Outpoint, originHeight, kind, blockHeight, maturity)
		}
		return nil
	}

	for _, cell := range rtx.ResolvedInputs {
		err := check(cell, "an input")
		if err != nil {
			return err
		}
	}
	for _, cell := range rtx.ResolvedDeps {
		err := check(cell, "a cell dep")
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *transactionVerifier) checkCapacityConservation(rtx *externalapi.ResolvedTransaction) error {
	totalCapacityIn := uint64(0)
	for i, cell := range rtx.ResolvedInputs {
		var err error
		totalCapacityIn, err = capacity.SafeAdd(totalCapacityIn, cell.Output.Capacity)
		if err != nil {
			return errors.Wrapf(ruleerrors.ErrCapacityOverflow, "total capacity of the transaction "+
				"inputs overflows at input %d", i)
		}
	}

	totalCapacityOut, err := checkTransactionOutputCapacities(rtx.Transaction)
	if err != nil {
		return err
	}

	if totalCapacityIn < totalCapacityOut {
		return errors.Wrapf(ruleerrors.ErrCapacityConservationViolated, "total capacity of all "+
			"transaction inputs for transaction %s is %d which is less than the capacity of %d "+
			"spent by its outputs", rtx.TransactionID, totalCapacityIn, totalCapacityOut)
	}
	return nil
}

// sinceVerifier checks the time locks of a single transaction. Median
// times are calculated at most once per block.
type sinceVerifier struct {
	pastMedianTimeManager model.PastMedianTimeManager
	verifyContext         *model.VerifyContext

	tipMedianTime      int64
	tipMedianTimeKnown bool
	cellBlockMedians   map[externalapi.DomainHash]int64
}

func (v *transactionVerifier) checkSince(rtx *externalapi.ResolvedTransaction,
	verifyContext *model.VerifyContext) error {

	sv := &sinceVerifier{
		pastMedianTimeManager: v.pastMedianTimeManager,
		verifyContext:         verifyContext,
		cellBlockMedians:      make(map[externalapi.DomainHash]int64),
	}

	for i, input := range rtx.Transaction.Inputs {
		if input.Since == 0 {
			continue
		}
		lock, ok := since.Parse(input.Since)
		if !ok {
			return errors.Wrapf(ruleerrors.ErrInvalidSince, "input %d has a malformed since "+
				"value of %016x", i, input.Since)
		}

		var err error
		if lock.Relative {
			err = sv.checkRelative(lock, rtx.ResolvedInputs[i])
		} else {
			err = sv.checkAbsolute(lock)
		}
		if err != nil {
			return errors.Wrapf(err, "input %d", i)
		}
	}
	return nil
}

func (sv *sinceVerifier) checkAbsolute(lock *since.Since) error {
	var current uint64
	switch lock.Metric {
	case since.MetricBlockHeight:
		current = sv.verifyContext.BlockHeight()
	case since.MetricEpochNumber:
		current = sv.verifyContext.Epoch.Number
	case since.MetricTimestamp:
		medianTime, err := sv.tipPastMedianTime()
		if err != nil {
			return err
		}
		current = uint64(medianTime)
	}

	if current < lock.Value {
		return errors.Wrapf(ruleerrors.ErrImmatureSince, "absolute %s lock of %d is not met at %d",
			lock.Metric, lock.Value, current)
	}
	return nil
}

func (sv *sinceVerifier) checkRelative(lock *since.Since, cell *externalapi.CellMeta) error {
	info := cell.TransactionInfo
	if info == nil {
		return errors.Wrapf(ruleerrors.ErrImmatureSince, "relative %s lock on cell %s "+
			"whose creating block is unknown", lock.Metric, cell.Outpoint)
	}

	var base, current uint64
	switch lock.Metric {
	case since.MetricBlockHeight:
		base = info.BlockHeight
		current = sv.verifyContext.BlockHeight()
	case since.MetricEpochNumber:
		base = info.BlockEpoch
		current = sv.verifyContext.Epoch.Number
	case since.MetricTimestamp:
		cellBlockMedianTime, err := sv.cellBlockPastMedianTime(&info.BlockHash)
		if err != nil {
			return err
		}
		medianTime, err := sv.tipPastMedianTime()
		if err != nil {
			return err
		}
		base = uint64(cellBlockMedianTime)
		current = uint64(medianTime)
	}

	required, err := capacity.SafeAdd(base, lock.Value)
	if err != nil || current < required {
		return errors.Wrapf(ruleerrors.ErrImmatureSince, "relative %s lock of %d from %d is not met at %d",
			lock.Metric, lock.Value, base, current)
	}
	return nil
}

// tipPastMedianTime returns the median time past of the block the
// transaction is verified for
func (sv *sinceVerifier) tipPastMedianTime() (int64, error) {
	if sv.tipMedianTimeKnown {
		return sv.tipMedianTime, nil
	}
	if sv.verifyContext.Tip == nil {
		return 0, errors.New("a timestamp lock cannot be evaluated without a tip")
	}

	tipHash := consensushashing.HeaderHash(sv.verifyContext.Tip)
	medianTime, err := sv.pastMedianTimeManager.PastMedianTime(sv.verifyContext.Headers, tipHash)
	if err != nil {
		return 0, err
	}
	sv.tipMedianTime = medianTime
	sv.tipMedianTimeKnown = true
	return medianTime, nil
}

// cellBlockPastMedianTime returns the median time past of the block that
// committed a cell, which is the median of the blocks preceding it. The
// genesis block has no predecessors, so its own timestamp is used.
func (sv *sinceVerifier) cellBlockPastMedianTime(blockHash *externalapi.DomainHash) (int64, error) {
	if medianTime, ok := sv.cellBlockMedians[*blockHash]; ok {
		return medianTime, nil
	}

	header, err := sv.verifyContext.Headers.Header(blockHash)
	if err != nil {
		return 0, err
	}
	windowEnd := &header.ParentHash
	if header.Height == 0 {
		windowEnd = blockHash
	}
	medianTime, err := sv.pastMedianTimeManager.PastMedianTime(sv.verifyContext.Headers, windowEnd)
	if err != nil {
		return 0, err
	}
	sv.cellBlockMedians[*blockHash] = medianTime
	return medianTime, nil
}
