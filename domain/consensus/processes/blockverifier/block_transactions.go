package blockverifier

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
)

// verifyTransactions verifies the ordinary transactions of block. Inputs
// are checked for conflicts and resolved in block order, then the
// transactions are verified concurrently. The error reported is the one of
// the lowest transaction index, which makes the outcome independent of
// scheduling.
func (bv *blockVerifier) verifyTransactions(ctx context.Context, block *externalapi.DomainBlock,
	verifyContext *model.VerifyContext) error {

	transactions := block.Transactions[1:]
	if len(transactions) == 0 {
		return nil
	}

	err := checkBlockInputs(block)
	if err != nil {
		return err
	}

	resolvedTransactions := make([]*externalapi.ResolvedTransaction, len(transactions))
	for i, tx := range transactions {
		resolvedTransactions[i], err = bv.transactionResolver.Resolve(tx, verifyContext.Cells)
		if err != nil {
			return errors.Wrapf(err, "failed resolving transaction %d", i+1)
		}
	}

	return bv.verifyResolvedTransactions(ctx, resolvedTransactions, verifyContext)
}

// checkBlockInputs ensures that no cell is spent twice within the block,
// and that no transaction spends a cell created within the block
func checkBlockInputs(block *externalapi.DomainBlock) error {
	blockTransactionIDs := make(map[externalapi.DomainTransactionID]int, len(block.Transactions))
	for i, tx := range block.Transactions {
		blockTransactionIDs[*consensushashing.TransactionID(tx)] = i
	}

	spentBy := make(map[externalapi.DomainOutpoint]int)
	for i, tx := range block.Transactions[1:] {
		txIndex := i + 1
		for _, input := range tx.Inputs {
			if spendingIndex, ok := spentBy[input.PreviousOutpoint]; ok {
				return errors.Wrapf(ruleerrors.ErrDuplicateInput, "cell %s is spent by transaction "+
					"%d and by transaction %d", input.PreviousOutpoint, spendingIndex, txIndex)
			}
			spentBy[input.PreviousOutpoint] = txIndex
		}
	}

	for i, tx := range block.Transactions[1:] {
		for _, input := range tx.Inputs {
			if creatorIndex, ok := blockTransactionIDs[input.PreviousOutpoint.TransactionID]; ok {
				return errors.Wrapf(ruleerrors.ErrChainedTransaction, "transaction %d spends output %d "+
					"of transaction %d in the same block", i+1, input.PreviousOutpoint.Index, creatorIndex)
			}
		}
	}
	return nil
}

type transactionOutcome struct {
	cycles uint64
	err    error
}

// transactionsScan collects the outcomes of concurrently verified
// transactions. terminalIndex is the lowest index known to end the scan,
// either because it failed or because the cycles of the prefix ending at it
// exceed the block's budget. Transactions after it need not be verified.
type transactionsScan struct {
	lock sync.Mutex

	maxCycles     uint64
	outcomes      []*transactionOutcome
	cancels       []context.CancelFunc
	terminalIndex int

	// scannedCycles is the sum of the cycles of outcomes[:nextToScan]
	nextToScan    int
	scannedCycles uint64
}

func newTransactionsScan(count int, maxCycles uint64) *transactionsScan {
	return &transactionsScan{
		maxCycles:     maxCycles,
		outcomes:      make([]*transactionOutcome, count),
		cancels:       make([]context.CancelFunc, count),
		terminalIndex: count,
	}
}

func (s *transactionsScan) isAfterTerminal(index int) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return index > s.terminalIndex
}

func (s *transactionsScan) setCancel(index int, cancel context.CancelFunc) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.cancels[index] = cancel
}

func (s *transactionsScan) record(index int, cycles uint64, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.outcomes[index] = &transactionOutcome{cycles: cycles, err: err}
	if err != nil {
		s.terminateAt(index)
	}

	for s.nextToScan < s.terminalIndex && s.outcomes[s.nextToScan] != nil {
		outcome := s.outcomes[s.nextToScan]
		if outcome.err != nil {
			break
		}
		s.scannedCycles += outcome.cycles
		if s.scannedCycles > s.maxCycles || s.scannedCycles < outcome.cycles {
			s.terminateAt(s.nextToScan)
			break
		}
		s.nextToScan++
	}
}

// terminateAt lowers the terminal index and cancels the verification of
// every transaction after it. It must be called with the lock held.
func (s *transactionsScan) terminateAt(index int) {
	if index >= s.terminalIndex {
		return
	}
	s.terminalIndex = index
	for i := index + 1; i < len(s.cancels); i++ {
		if s.cancels[i] != nil {
			s.cancels[i]()
		}
	}
}

// result scans the outcomes in order and returns the first failure
func (s *transactionsScan) result(resolvedTransactions []*externalapi.ResolvedTransaction) error {
	totalCycles := uint64(0)
	for i, outcome := range s.outcomes {
		if outcome == nil {
			return errors.Errorf("transaction %d was never verified", i+1)
		}
		rtx := resolvedTransactions[i]
		if outcome.err != nil {
			return errors.Wrapf(outcome.err, "transaction %s at index %d", rtx.TransactionID, i+1)
		}
		totalCycles += outcome.cycles
		if totalCycles > s.maxCycles || totalCycles < outcome.cycles {
			return errors.Wrapf(ruleerrors.ErrCyclesExceeded, "the first %d transactions of the block "+
				"consume more than %d cycles", i+1, s.maxCycles)
		}
	}
	log.Debugf("Block transactions consumed %d cycles", totalCycles)
	return nil
}

func (bv *blockVerifier) verifyResolvedTransactions(ctx context.Context,
	resolvedTransactions []*externalapi.ResolvedTransaction, verifyContext *model.VerifyContext) error {

	scan := newTransactionsScan(len(resolvedTransactions), verifyContext.Params.MaxBlockCycles)

	group := errgroup.Group{}
	group.SetLimit(bv.verifyWorkers)
	for i, rtx := range resolvedTransactions {
		if scan.isAfterTerminal(i) {
			break
		}

		i, rtx := i, rtx
		taskCtx, cancel := context.WithCancel(ctx)
		scan.setCancel(i, cancel)
		group.Go(func() error {
			defer cancel()
			if scan.isAfterTerminal(i) {
				return nil
			}
			cycles, err := bv.transactionVerifier.VerifyTransaction(taskCtx, rtx, verifyContext)
			scan.record(i, cycles, err)
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return err
	}

	return scan.result(resolvedTransactions)
}
