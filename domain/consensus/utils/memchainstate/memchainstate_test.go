package memchainstate_test

import (
	"testing"

	"github.com/321cherish/ckb/domain/consensus"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/consensus/utils/testutils"
)

func TestGenesisState(t *testing.T) {
	testutils.ForAllNets(t, true, func(t *testing.T, consensusConfig *consensus.Config) {
		chain, err := testutils.NewTestChain(consensusConfig)
		if err != nil {
			t.Fatalf("NewTestChain: %+v", err)
		}
		state := chain.State

		if !state.TipHash().Equal(consensusConfig.GenesisHash) {
			t.Fatalf("expected the tip to be the genesis %s but got %s", consensusConfig.GenesisHash, state.TipHash())
		}

		genesisCellbase := consensusConfig.GenesisBlock.Transactions[0]
		outpoint := externalapi.NewDomainOutpoint(consensushashing.TransactionID(genesisCellbase), 0)
		cell, status, err := state.Cell(outpoint)
		if err != nil {
			t.Fatalf("Cell: %+v", err)
		}
		if status != externalapi.CellStatusLive {
			t.Fatalf("expected the genesis cellbase output to be live but it is %s", status)
		}
		if !cell.IsCellbase() || cell.TransactionInfo.BlockHeight != 0 {
			t.Fatalf("unexpected transaction info %+v", cell.TransactionInfo)
		}

		epoch, err := state.EpochForHeight(consensusConfig.EpochLength - 1)
		if err != nil {
			t.Fatalf("EpochForHeight: %+v", err)
		}
		if epoch.Number != 0 {
			t.Fatalf("expected epoch 0 but got %d", epoch.Number)
		}
		_, err = state.EpochForHeight(consensusConfig.EpochLength)
		if err == nil {
			t.Fatalf("expected no known epoch past the genesis epoch")
		}

		verifyContext := state.GenesisVerifyContext()
		if verifyContext.Tip != nil || verifyContext.BlockHeight() != 0 {
			t.Fatalf("the genesis verify context must have no tip")
		}
	})
}

func TestSpendingAndEpochs(t *testing.T) {
	consensusConfig := &consensus.Config{Params: devnetParams()}
	chain, err := testutils.NewTestChain(consensusConfig)
	if err != nil {
		t.Fatalf("NewTestChain: %+v", err)
	}

	block, err := chain.AddBlock(nil, nil)
	if err != nil {
		t.Fatalf("AddBlock: %+v", err)
	}
	spend := testutils.SpendCellbase(block, 2, 0)
	_, err = chain.AddBlock([]*externalapi.DomainTransaction{spend}, nil)
	if err != nil {
		t.Fatalf("AddBlock: %+v", err)
	}

	cellbaseOutpoint := &spend.Inputs[0].PreviousOutpoint
	_, status, err := chain.State.Cell(cellbaseOutpoint)
	if err != nil {
		t.Fatalf("Cell: %+v", err)
	}
	if status != externalapi.CellStatusDead {
		t.Fatalf("expected the spent cellbase output to be dead but it is %s", status)
	}

	spendID := consensushashing.TransactionID(spend)
	for i := range spend.Outputs {
		cell, status, err := chain.State.Cell(externalapi.NewDomainOutpoint(spendID, uint32(i)))
		if err != nil {
			t.Fatalf("Cell: %+v", err)
		}
		if status != externalapi.CellStatusLive || cell.IsCellbase() || cell.TransactionInfo.BlockHeight != 2 {
			t.Fatalf("unexpected output %d: %s %+v", i, status, cell)
		}
	}

	_, status, err = chain.State.Cell(externalapi.NewDomainOutpoint(spendID, 2))
	if err != nil {
		t.Fatalf("Cell: %+v", err)
	}
	if status != externalapi.CellStatusUnknown {
		t.Fatalf("expected a missing output to be unknown but it is %s", status)
	}

	// Fill the genesis epoch; the next epoch must then become known
	_, err = chain.AddEmptyBlocks(int(consensusConfig.EpochLength) - 3)
	if err != nil {
		t.Fatalf("AddEmptyBlocks: %+v", err)
	}
	nextEpoch, err := chain.State.EpochForHeight(consensusConfig.EpochLength)
	if err != nil {
		t.Fatalf("EpochForHeight: %+v", err)
	}
	if nextEpoch.Number != 1 || nextEpoch.StartHeight != consensusConfig.EpochLength {
		t.Fatalf("unexpected next epoch %+v", nextEpoch)
	}
}

func TestUncleBookkeeping(t *testing.T) {
	consensusConfig := &consensus.Config{Params: devnetParams()}
	chain, err := testutils.NewTestChain(consensusConfig)
	if err != nil {
		t.Fatalf("NewTestChain: %+v", err)
	}

	_, err = chain.AddBlock(nil, nil)
	if err != nil {
		t.Fatalf("AddBlock: %+v", err)
	}
	stale, err := chain.BuildBlock(nil, nil)
	if err != nil {
		t.Fatalf("BuildBlock: %+v", err)
	}
	chain.State.AddHeader(stale.Header)
	mainBlock, err := chain.AddBlock(nil, nil)
	if err != nil {
		t.Fatalf("AddBlock: %+v", err)
	}

	staleHash := consensushashing.HeaderHash(stale.Header)
	mainHash := consensushashing.HeaderHash(mainBlock.Header)
	tests := []struct {
		name           string
		hash           *externalapi.DomainHash
		expectedOnMain bool
	}{
		{"stale sibling", staleHash, false},
		{"main chain block", mainHash, true},
		{"genesis", consensusConfig.GenesisHash, true},
		{"unknown", externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{1}), false},
	}
	for _, test := range tests {
		onMain, err := chain.State.IsMainChainAncestor(test.hash)
		if err != nil {
			t.Fatalf("%s: IsMainChainAncestor: %+v", test.name, err)
		}
		if onMain != test.expectedOnMain {
			t.Errorf("%s: expected IsMainChainAncestor to be %t", test.name, test.expectedOnMain)
		}
	}

	included, err := chain.State.IsUncleIncluded(staleHash)
	if err != nil {
		t.Fatalf("IsUncleIncluded: %+v", err)
	}
	if included {
		t.Fatalf("the stale block was not included yet")
	}
	_, err = chain.AddBlock(nil, []*externalapi.DomainHeader{stale.Header})
	if err != nil {
		t.Fatalf("AddBlock: %+v", err)
	}
	included, err = chain.State.IsUncleIncluded(staleHash)
	if err != nil {
		t.Fatalf("IsUncleIncluded: %+v", err)
	}
	if !included {
		t.Fatalf("expected the stale block to be an included uncle")
	}
}

func TestAddBlockRejectsNonTipParent(t *testing.T) {
	consensusConfig := &consensus.Config{Params: devnetParams()}
	chain, err := testutils.NewTestChain(consensusConfig)
	if err != nil {
		t.Fatalf("NewTestChain: %+v", err)
	}
	sibling, err := chain.BuildBlock(nil, nil)
	if err != nil {
		t.Fatalf("BuildBlock: %+v", err)
	}
	_, err = chain.AddBlock(nil, nil)
	if err != nil {
		t.Fatalf("AddBlock: %+v", err)
	}
	err = chain.State.AddBlock(sibling)
	if err == nil {
		t.Fatalf("expected a block that does not build on the tip to be refused")
	}
}
