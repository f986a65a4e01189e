package blockverifier

import (
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
	"github.com/321cherish/ckb/domain/consensus/utils/merkle"
)

// checkCommitments ensures the roots declared by the header match the
// transactions, witnesses and uncles of the block
func (bv *blockVerifier) checkCommitments(block *externalapi.DomainBlock) error {
	header := block.Header

	transactionsRoot := merkle.CalculateTransactionsRoot(block.Transactions)
	if !header.TransactionsRoot.Equal(transactionsRoot) {
		return errors.Wrapf(ruleerrors.ErrCommitmentMismatch, "block transactions root is invalid - "+
			"block header indicates %s, but calculated value is %s", header.TransactionsRoot, transactionsRoot)
	}

	witnessesRoot := merkle.CalculateWitnessesRoot(block.Transactions)
	if !header.WitnessesRoot.Equal(witnessesRoot) {
		return errors.Wrapf(ruleerrors.ErrCommitmentMismatch, "block witnesses root is invalid - "+
			"block header indicates %s, but calculated value is %s", header.WitnessesRoot, witnessesRoot)
	}

	unclesHash := merkle.CalculateUnclesHash(block.Uncles)
	if !header.UnclesHash.Equal(unclesHash) {
		return errors.Wrapf(ruleerrors.ErrCommitmentMismatch, "block uncles hash is invalid - "+
			"block header indicates %s, but calculated value is %s", header.UnclesHash, unclesHash)
	}
	return nil
}
