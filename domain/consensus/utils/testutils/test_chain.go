package testutils

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus"
	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/consensus/utils/constants"
	"github.com/321cherish/ckb/domain/consensus/utils/memchainstate"
	"github.com/321cherish/ckb/domain/consensus/utils/merkle"
	"github.com/321cherish/ckb/domain/consensus/utils/mining"
	"github.com/321cherish/ckb/domain/consensus/utils/pow"
	"github.com/321cherish/ckb/domain/consensus/utils/scriptvm"
)

const maxSealAttempts = 1_000_000

// TestChain is an in-memory chain that verifies and accepts blocks built on
// its tip. Every built-in script program is available as a system cell.
type TestChain struct {
	Config    *consensus.Config
	Consensus consensus.Consensus
	State     *memchainstate.ChainState

	proofOfWork model.ProofOfWork
	rd          *rand.Rand
	blocksBuilt uint64
}

// NewTestChain creates a chain holding the genesis block of config
func NewTestChain(config *consensus.Config) (*TestChain, error) {
	c, err := consensus.NewFactory().NewConsensus(config)
	if err != nil {
		return nil, err
	}
	proofOfWork, err := pow.New(&config.Params)
	if err != nil {
		return nil, err
	}
	state, err := memchainstate.New(&config.Params, c.EpochManager())
	if err != nil {
		return nil, err
	}
	AddSystemCells(state)

	return &TestChain{
		Config:      config,
		Consensus:   c,
		State:       state,
		proofOfWork: proofOfWork,
		rd:          rand.New(rand.NewSource(0)),
	}, nil
}

// BuildBlock builds a block on the tip of the chain holding the given
// transactions and uncles. Its cellbase pays the block reward to
// AlwaysSuccessLock. The block is sealed unless proof of work is skipped.
// Every built block is unique, even with identical contents.
func (tc *TestChain) BuildBlock(transactions []*externalapi.DomainTransaction,
	uncles []*externalapi.DomainHeader) (*externalapi.DomainBlock, error) {

	verifyContext, err := tc.State.VerifyContext()
	if err != nil {
		return nil, err
	}
	tip := verifyContext.Tip
	height := verifyContext.BlockHeight()
	reward, err := tc.Consensus.RewardFor(height, verifyContext.Epoch)
	if err != nil {
		return nil, err
	}

	tc.blocksBuilt++
	cellbase := NewCellbase(height, reward.Total(), []byte(fmt.Sprintf("test block %d", tc.blocksBuilt)))
	allTransactions := append([]*externalapi.DomainTransaction{cellbase}, transactions...)
	if uncles == nil {
		uncles = []*externalapi.DomainHeader{}
	}

	header := &externalapi.DomainHeader{
		Version:            constants.BlockVersion,
		ParentHash:         *tc.State.TipHash(),
		TimeInMilliseconds: tip.TimeInMilliseconds + tc.Config.TargetTimePerBlock.Milliseconds(),
		Height:             height,
		EpochNumber:        verifyContext.Epoch.Number,
		CompactTarget:      verifyContext.Epoch.CompactTarget,
		TransactionsRoot:   *merkle.CalculateTransactionsRoot(allTransactions),
		WitnessesRoot:      *merkle.CalculateWitnessesRoot(allTransactions),
		UnclesHash:         *merkle.CalculateUnclesHash(uncles),
	}
	err = tc.Seal(header)
	if err != nil {
		return nil, err
	}

	return &externalapi.DomainBlock{
		Header:       header,
		Uncles:       uncles,
		Transactions: allTransactions,
	}, nil
}

// Seal searches a nonce for header, unless proof of work is skipped
func (tc *TestChain) Seal(header *externalapi.DomainHeader) error {
	if tc.Config.SkipProofOfWork {
		return nil
	}
	return mining.SolveHeader(header, tc.proofOfWork, tc.rd, maxSealAttempts)
}

// Recommit recomputes the commitments of block after its body changed, and
// seals it again
func (tc *TestChain) Recommit(block *externalapi.DomainBlock) error {
	block.Header.TransactionsRoot = *merkle.CalculateTransactionsRoot(block.Transactions)
	block.Header.WitnessesRoot = *merkle.CalculateWitnessesRoot(block.Transactions)
	block.Header.UnclesHash = *merkle.CalculateUnclesHash(block.Uncles)
	return tc.Seal(block.Header)
}

// AcceptBlock verifies block against the tip of the chain and, if it is
// valid, appends it
func (tc *TestChain) AcceptBlock(block *externalapi.DomainBlock) error {
	verifyContext, err := tc.State.VerifyContext()
	if err != nil {
		return err
	}
	err = tc.Consensus.VerifyBlock(context.Background(), block, verifyContext)
	if err != nil {
		return err
	}
	err = tc.State.AddBlock(block)
	if err != nil {
		return err
	}
	tc.Consensus.OnNewBlock()
	return nil
}

// AddBlock builds a block with the given transactions and uncles on the
// tip of the chain and accepts it
func (tc *TestChain) AddBlock(transactions []*externalapi.DomainTransaction,
	uncles []*externalapi.DomainHeader) (*externalapi.DomainBlock, error) {

	block, err := tc.BuildBlock(transactions, uncles)
	if err != nil {
		return nil, err
	}
	err = tc.AcceptBlock(block)
	if err != nil {
		return nil, errors.Wrapf(err, "failed accepting block at height %d", block.Header.Height)
	}
	return block, nil
}

// AddEmptyBlocks appends count blocks holding nothing but their cellbase
// and returns them
func (tc *TestChain) AddEmptyBlocks(count int) ([]*externalapi.DomainBlock, error) {
	blocks := make([]*externalapi.DomainBlock, count)
	for i := range blocks {
		var err error
		blocks[i], err = tc.AddBlock(nil, nil)
		if err != nil {
			return nil, err
		}
	}
	return blocks, nil
}

// MatureCellbase appends enough blocks for the cellbase of a new block to
// be spendable, and returns that block
func (tc *TestChain) MatureCellbase() (*externalapi.DomainBlock, error) {
	block, err := tc.AddBlock(nil, nil)
	if err != nil {
		return nil, err
	}
	_, err = tc.AddEmptyBlocks(int(tc.Config.CellbaseMaturity))
	if err != nil {
		return nil, err
	}
	return block, nil
}

// NewCellbase returns the cellbase of a block at height paying reward to
// AlwaysSuccessLock
func NewCellbase(height uint64, reward uint64, message []byte) *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		Version: constants.TransactionVersion,
		Inputs: []*externalapi.DomainCellInput{{
			PreviousOutpoint: *externalapi.NullOutpoint(),
			Since:            height,
		}},
		Outputs: []*externalapi.DomainCellOutput{{
			Capacity: reward,
			Lock:     AlwaysSuccessLock(),
		}},
		OutputsData: [][]byte{{}},
		Witnesses:   [][]byte{message},
	}
}

// SpendCellbase returns a transaction spending the cellbase output of block
// into outputCount equal AlwaysSuccessLock outputs, leaving fee unclaimed
func SpendCellbase(block *externalapi.DomainBlock, outputCount int, fee uint64) *externalapi.DomainTransaction {
	cellbase := block.Transactions[0]
	outpoint := externalapi.NewDomainOutpoint(consensushashing.TransactionID(cellbase), 0)
	return SpendAlwaysSuccessCell(outpoint, cellbase.Outputs[0].Capacity, outputCount, fee)
}

// SpendAlwaysSuccessCell returns a transaction spending the AlwaysSuccessLock
// cell at outpoint, worth capacity, into outputCount equal
// AlwaysSuccessLock outputs, leaving fee unclaimed
func SpendAlwaysSuccessCell(outpoint *externalapi.DomainOutpoint, capacity uint64, outputCount int,
	fee uint64) *externalapi.DomainTransaction {

	outputCapacity := (capacity - fee) / uint64(outputCount)
	outputs := make([]*externalapi.DomainCellOutput, outputCount)
	outputsData := make([][]byte, outputCount)
	for i := range outputs {
		outputs[i] = &externalapi.DomainCellOutput{
			Capacity: outputCapacity,
			Lock:     AlwaysSuccessLock(),
		}
		outputsData[i] = []byte{}
	}

	return &externalapi.DomainTransaction{
		Version:  constants.TransactionVersion,
		CellDeps: []*externalapi.DomainOutpoint{SystemCellOutpoint(scriptvm.AlwaysSuccessCode)},
		Inputs: []*externalapi.DomainCellInput{{
			PreviousOutpoint: *outpoint,
		}},
		Outputs:     outputs,
		OutputsData: outputsData,
		Witnesses:   [][]byte{{}},
	}
}
