package consensus

import (
	"context"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/dagconfig"
)

// Consensus is the entry point of the verification engine. Every method
// is a pure decision over its arguments and the read-only chain context it
// is given, and is safe for concurrent use.
type Consensus interface {
	VerifyBlock(ctx context.Context, block *externalapi.DomainBlock, verifyContext *model.VerifyContext) error
	VerifyHeader(header *externalapi.DomainHeader, parent *externalapi.DomainHeader,
		epoch *externalapi.Epoch, verifyContext *model.VerifyContext) error

	ResolveTransaction(tx *externalapi.DomainTransaction, cells model.CellProvider) (
		*externalapi.ResolvedTransaction, error)
	VerifyTransaction(ctx context.Context, tx *externalapi.DomainTransaction,
		verifyContext *model.VerifyContext) (uint64, error)
	OnNewBlock()

	RewardFor(height uint64, epoch *externalapi.Epoch) (externalapi.BlockReward, error)
	GenesisEpoch() *externalapi.Epoch
	NextEpoch(current *externalapi.Epoch, firstHeader *externalapi.DomainHeader,
		lastHeader *externalapi.DomainHeader) (*externalapi.Epoch, error)
	EpochManager() model.EpochManager

	Params() *dagconfig.Params
}

type consensus struct {
	params *dagconfig.Params

	epochManager        model.EpochManager
	rewardCalculator    model.RewardCalculator
	transactionResolver model.TransactionResolver
	headerVerifier      model.HeaderVerifier
	transactionVerifier model.TransactionVerifier
	blockVerifier       model.BlockVerifier
}

// VerifyBlock verifies block as the successor of verifyContext.Tip
func (s *consensus) VerifyBlock(ctx context.Context, block *externalapi.DomainBlock,
	verifyContext *model.VerifyContext) error {

	return s.blockVerifier.VerifyBlock(ctx, block, verifyContext)
}

// VerifyHeader verifies header as the child of parent within epoch
func (s *consensus) VerifyHeader(header *externalapi.DomainHeader, parent *externalapi.DomainHeader,
	epoch *externalapi.Epoch, verifyContext *model.VerifyContext) error {

	return s.headerVerifier.VerifyHeader(header, parent, epoch, verifyContext)
}

// ResolveTransaction binds the inputs and cell deps of tx to live cells
func (s *consensus) ResolveTransaction(tx *externalapi.DomainTransaction, cells model.CellProvider) (
	*externalapi.ResolvedTransaction, error) {

	return s.transactionResolver.Resolve(tx, cells)
}

// VerifyTransaction resolves tx and verifies it as a transaction of the
// block following verifyContext.Tip. It returns the cycles its scripts
// consumed.
func (s *consensus) VerifyTransaction(ctx context.Context, tx *externalapi.DomainTransaction,
	verifyContext *model.VerifyContext) (uint64, error) {

	rtx, err := s.transactionResolver.Resolve(tx, verifyContext.Cells)
	if err != nil {
		return 0, err
	}
	return s.transactionVerifier.VerifyTransaction(ctx, rtx, verifyContext)
}

// OnNewBlock must be called whenever a block is added to the chain state,
// since cached resolutions may refer to cells it spent
func (s *consensus) OnNewBlock() {
	s.transactionResolver.Purge()
}

// RewardFor returns the cellbase reward of the block at height in epoch
func (s *consensus) RewardFor(height uint64, epoch *externalapi.Epoch) (externalapi.BlockReward, error) {
	return s.rewardCalculator.RewardFor(height, epoch)
}

// GenesisEpoch returns the first epoch of the chain
func (s *consensus) GenesisEpoch() *externalapi.Epoch {
	return s.epochManager.GenesisEpoch()
}

// NextEpoch derives the epoch following current
func (s *consensus) NextEpoch(current *externalapi.Epoch, firstHeader *externalapi.DomainHeader,
	lastHeader *externalapi.DomainHeader) (*externalapi.Epoch, error) {

	return s.epochManager.NextEpoch(current, firstHeader, lastHeader)
}

// EpochManager returns the epoch manager of the consensus, to be handed to
// chain state implementations
func (s *consensus) EpochManager() model.EpochManager {
	return s.epochManager
}

// Params returns the chain parameters the consensus verifies against
func (s *consensus) Params() *dagconfig.Params {
	return s.params
}
