package transactionverifier

import (
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
	"github.com/321cherish/ckb/domain/consensus/utils/capacity"
	"github.com/321cherish/ckb/domain/consensus/utils/constants"
)

func (v *transactionVerifier) verifyTransactionInIsolation(tx *externalapi.DomainTransaction) error {
	err := checkTransactionVersion(tx)
	if err != nil {
		return err
	}
	err = checkTransactionInputCount(tx)
	if err != nil {
		return err
	}
	err = checkTransactionOutputCount(tx)
	if err != nil {
		return err
	}
	err = checkDuplicateTransactionInputs(tx)
	if err != nil {
		return err
	}
	err = checkDuplicateCellDeps(tx)
	if err != nil {
		return err
	}
	_, err = checkTransactionOutputCapacities(tx)
	return err
}

func checkTransactionVersion(tx *externalapi.DomainTransaction) error {
	if tx.Version != constants.TransactionVersion {
		return errors.Wrapf(ruleerrors.ErrTransactionVersion, "transaction version %d is not "+
			"supported, expected %d", tx.Version, constants.TransactionVersion)
	}
	return nil
}

func checkTransactionInputCount(tx *externalapi.DomainTransaction) error {
	// A non-cellbase transaction must reference at least one input.
	if len(tx.Inputs) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTxInputs, "transaction has no inputs")
	}
	return nil
}

func checkTransactionOutputCount(tx *externalapi.DomainTransaction) error {
	if len(tx.Outputs) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTxOutputs, "transaction has no outputs")
	}
	if len(tx.OutputsData) != len(tx.Outputs) {
		return errors.Wrapf(ruleerrors.ErrOutputsDataLengthMismatch, "transaction has %d outputs "+
			"but %d outputs data", len(tx.Outputs), len(tx.OutputsData))
	}
	return nil
}

func checkDuplicateTransactionInputs(tx *externalapi.DomainTransaction) error {
	existingOutpoints := make(map[externalapi.DomainOutpoint]struct{}, len(tx.Inputs))
	for _, input := range tx.Inputs {
		if _, exists := existingOutpoints[input.PreviousOutpoint]; exists {
			return errors.Wrapf(ruleerrors.ErrDuplicateInput, "transaction "+
				"contains duplicate inputs of %s", input.PreviousOutpoint)
		}
		existingOutpoints[input.PreviousOutpoint] = struct{}{}
	}
	return nil
}

func checkDuplicateCellDeps(tx *externalapi.DomainTransaction) error {
	existingDeps := make(map[externalapi.DomainOutpoint]struct{}, len(tx.CellDeps))
	for _, dep := range tx.CellDeps {
		if _, exists := existingDeps[*dep]; exists {
			return errors.Wrapf(ruleerrors.ErrDuplicateDeps, "transaction "+
				"lists cell dep %s more than once", dep)
		}
		existingDeps[*dep] = struct{}{}
	}
	return nil
}

// checkTransactionOutputCapacities ensures every output can pay for the
// bytes it occupies and that the outputs' total fits in 64 bits. It returns
// that total.
func checkTransactionOutputCapacities(tx *externalapi.DomainTransaction) (uint64, error) {
	totalCapacityOut := uint64(0)
	for i, output := range tx.Outputs {
		occupied, err := capacity.OccupiedCapacity(output, tx.OutputsData[i])
		if err != nil {
			return 0, errors.Wrapf(ruleerrors.ErrCapacityOverflow, "occupied capacity of output %d "+
				"overflows", i)
		}
		if output.Capacity < occupied {
			return 0, errors.Wrapf(ruleerrors.ErrInsufficientCellCapacity, "output %d has a capacity "+
				"of %d while it occupies %d", i, output.Capacity, occupied)
		}

		totalCapacityOut, err = capacity.SafeAdd(totalCapacityOut, output.Capacity)
		if err != nil {
			return 0, errors.Wrapf(ruleerrors.ErrCapacityOverflow, "total capacity of the transaction "+
				"outputs overflows at output %d", i)
		}
	}
	return totalCapacityOut, nil
}
