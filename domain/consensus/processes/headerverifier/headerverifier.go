package headerverifier

import (
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/infrastructure/logger"
)

// headerVerifier checks that a header may extend its parent
type headerVerifier struct {
	skipPoW bool

	proofOfWork           model.ProofOfWork
	pastMedianTimeManager model.PastMedianTimeManager
}

// New instantiates a new HeaderVerifier
func New(skipPoW bool,
	proofOfWork model.ProofOfWork,
	pastMedianTimeManager model.PastMedianTimeManager) model.HeaderVerifier {

	return &headerVerifier{
		skipPoW:               skipPoW,
		proofOfWork:           proofOfWork,
		pastMedianTimeManager: pastMedianTimeManager,
	}
}

// VerifyHeader checks header against its parent and the epoch it claims
// to belong to. A nil parent is only allowed for the genesis header, which
// is only checked for its target.
func (hv *headerVerifier) VerifyHeader(header *externalapi.DomainHeader, parent *externalapi.DomainHeader,
	epoch *externalapi.Epoch, verifyContext *model.VerifyContext) error {

	onEnd := logger.LogAndMeasureExecutionTime(log, "VerifyHeader")
	defer onEnd()

	if parent == nil {
		return hv.verifyGenesisHeader(header, epoch, verifyContext)
	}

	err := hv.checkVersion(header, verifyContext)
	if err != nil {
		return err
	}

	err = hv.checkParent(header, parent)
	if err != nil {
		return err
	}

	err = hv.checkEpoch(header, epoch)
	if err != nil {
		return err
	}

	err = hv.checkTimestamp(header, verifyContext)
	if err != nil {
		return err
	}

	err = hv.checkDifficulty(header, epoch)
	if err != nil {
		return err
	}

	return hv.checkProofOfWork(header)
}

func (hv *headerVerifier) verifyGenesisHeader(header *externalapi.DomainHeader, epoch *externalapi.Epoch,
	verifyContext *model.VerifyContext) error {

	headerHash := consensushashing.HeaderHash(header)
	if header.Height != 0 || !headerHash.Equal(verifyContext.Params.GenesisHash) {
		return errors.Wrapf(ruleerrors.ErrUnexpectedParent, "header %s at height %d has no parent "+
			"but is not the genesis %s", headerHash, header.Height, verifyContext.Params.GenesisHash)
	}
	return hv.checkDifficulty(header, epoch)
}

func (hv *headerVerifier) checkVersion(header *externalapi.DomainHeader, verifyContext *model.VerifyContext) error {
	if header.Version > verifyContext.Params.MaxBlockVersion {
		return errors.Wrapf(ruleerrors.ErrBlockVersionIsOld, "block version %d is not supported, "+
			"the newest supported version is %d", header.Version, verifyContext.Params.MaxBlockVersion)
	}
	return nil
}

func (hv *headerVerifier) checkParent(header *externalapi.DomainHeader, parent *externalapi.DomainHeader) error {
	parentHash := consensushashing.HeaderHash(parent)
	if !header.ParentHash.Equal(parentHash) {
		return errors.Wrapf(ruleerrors.ErrUnexpectedParent, "header builds on %s instead of %s",
			header.ParentHash, parentHash)
	}
	if header.Height != parent.Height+1 {
		return errors.Wrapf(ruleerrors.ErrInvalidHeight, "header height is %d while its parent is at "+
			"height %d", header.Height, parent.Height)
	}
	return nil
}

func (hv *headerVerifier) checkEpoch(header *externalapi.DomainHeader, epoch *externalapi.Epoch) error {
	if header.EpochNumber != epoch.Number {
		return errors.Wrapf(ruleerrors.ErrWrongEpoch, "header declares epoch %d instead of %d",
			header.EpochNumber, epoch.Number)
	}
	if !epoch.Contains(header.Height) {
		return errors.Wrapf(ruleerrors.ErrWrongEpoch, "height %d is outside of epoch %d [%d, %d]",
			header.Height, epoch.Number, epoch.StartHeight, epoch.LastHeight())
	}
	return nil
}

// checkTimestamp ensures the header is newer than the median timestamp of
// the blocks preceding it
func (hv *headerVerifier) checkTimestamp(header *externalapi.DomainHeader, verifyContext *model.VerifyContext) error {
	pastMedianTime, err := hv.pastMedianTimeManager.PastMedianTime(verifyContext.Headers, &header.ParentHash)
	if err != nil {
		return err
	}
	if header.TimeInMilliseconds <= pastMedianTime {
		return errors.Wrapf(ruleerrors.ErrTimestampTooEarly, "block timestamp of %d is not after the "+
			"past median time of %d", header.TimeInMilliseconds, pastMedianTime)
	}
	return nil
}

func (hv *headerVerifier) checkDifficulty(header *externalapi.DomainHeader, epoch *externalapi.Epoch) error {
	if header.CompactTarget != epoch.CompactTarget {
		return errors.Wrapf(ruleerrors.ErrDifficultyMismatch, "header declares target %08x while epoch %d "+
			"requires %08x", header.CompactTarget, epoch.Number, epoch.CompactTarget)
	}
	return nil
}

// checkProofOfWork ensures the seal of the header satisfies its target,
// unless proof of work checks are disabled
func (hv *headerVerifier) checkProofOfWork(header *externalapi.DomainHeader) error {
	if hv.skipPoW {
		return nil
	}

	powHash := consensushashing.PowHash(header)
	if !hv.proofOfWork.Verify(powHash, header.Nonce, header.Proof, header.CompactTarget) {
		return errors.Wrapf(ruleerrors.ErrPowInvalid, "seal of block %s with pow hash %s does not "+
			"satisfy target %08x", consensushashing.HeaderHash(header), powHash, header.CompactTarget)
	}
	return nil
}
