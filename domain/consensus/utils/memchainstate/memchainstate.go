// Package memchainstate is an in-memory chain state: a single chain of
// blocks, the live cells it created and the uncles it included. It
// implements the collaborator interfaces the consensus engine verifies
// against, and is used by tests and tools. It never persists anything and
// never verifies what it is given.
package memchainstate

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/dagconfig"
)

// ErrNotFound is returned when a requested header does not exist
var ErrNotFound = errors.New("not found")

// ChainState is an in-memory chain state. It is safe for concurrent use.
type ChainState struct {
	lock sync.RWMutex

	params       *dagconfig.Params
	epochManager model.EpochManager

	headers   map[externalapi.DomainHash]*externalapi.DomainHeader
	mainChain []*externalapi.DomainHash
	epochs    []*externalapi.Epoch

	cells map[externalapi.DomainOutpoint]*externalapi.CellMeta
	spent map[externalapi.DomainOutpoint]struct{}

	includedUncles map[externalapi.DomainHash]struct{}
}

// New returns a chain state that holds the genesis block of params
func New(params *dagconfig.Params, epochManager model.EpochManager) (*ChainState, error) {
	cs := &ChainState{
		params:         params,
		epochManager:   epochManager,
		headers:        make(map[externalapi.DomainHash]*externalapi.DomainHeader),
		cells:          make(map[externalapi.DomainOutpoint]*externalapi.CellMeta),
		spent:          make(map[externalapi.DomainOutpoint]struct{}),
		includedUncles: make(map[externalapi.DomainHash]struct{}),
	}

	cs.epochs = []*externalapi.Epoch{epochManager.GenesisEpoch()}
	err := cs.addBlock(params.GenesisBlock)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// Params returns the consensus parameters of the chain
func (cs *ChainState) Params() *dagconfig.Params {
	return cs.params
}

// Tip returns the header of the last block of the chain
func (cs *ChainState) Tip() *externalapi.DomainHeader {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.headers[*cs.mainChain[len(cs.mainChain)-1]]
}

// TipHash returns the hash of the last block of the chain
func (cs *ChainState) TipHash() *externalapi.DomainHash {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.mainChain[len(cs.mainChain)-1]
}

// HeaderByHeight returns the header of the chain block at the given height
func (cs *ChainState) HeaderByHeight(height uint64) (*externalapi.DomainHeader, error) {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	if height >= uint64(len(cs.mainChain)) {
		return nil, errors.Wrapf(ErrNotFound, "no chain block at height %d", height)
	}
	return cs.headers[*cs.mainChain[height]], nil
}

// EpochForHeight returns the epoch the chain block at the given height
// belongs to. Heights up to one past the tip are supported.
func (cs *ChainState) EpochForHeight(height uint64) (*externalapi.Epoch, error) {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.epochForHeight(height)
}

func (cs *ChainState) epochForHeight(height uint64) (*externalapi.Epoch, error) {
	for i := len(cs.epochs) - 1; i >= 0; i-- {
		if cs.epochs[i].Contains(height) {
			return cs.epochs[i], nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "no known epoch contains height %d", height)
}

// VerifyContext returns the context a block extending the tip of the chain
// is verified in
func (cs *ChainState) VerifyContext() (*model.VerifyContext, error) {
	tip := cs.Tip()
	epoch, err := cs.EpochForHeight(tip.Height + 1)
	if err != nil {
		return nil, err
	}
	return &model.VerifyContext{
		Params:  cs.params,
		Tip:     tip,
		Epoch:   epoch,
		Cells:   cs,
		Headers: cs,
		Uncles:  cs,
	}, nil
}

// GenesisVerifyContext returns the context the genesis block is verified in
func (cs *ChainState) GenesisVerifyContext() *model.VerifyContext {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return &model.VerifyContext{
		Params:  cs.params,
		Epoch:   cs.epochs[0],
		Cells:   cs,
		Headers: cs,
		Uncles:  cs,
	}
}

// AddBlock appends block to the chain. The block must build on the tip.
// Its inputs become dead, its outputs become live and its uncles become
// included.
func (cs *ChainState) AddBlock(block *externalapi.DomainBlock) error {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	tipHash := cs.mainChain[len(cs.mainChain)-1]
	if !block.Header.ParentHash.Equal(tipHash) {
		return errors.Errorf("block builds on %s instead of the tip %s", block.Header.ParentHash, tipHash)
	}
	return cs.addBlock(block)
}

func (cs *ChainState) addBlock(block *externalapi.DomainBlock) error {
	header := block.Header
	if header.Height != uint64(len(cs.mainChain)) {
		return errors.Errorf("block at height %d cannot follow a chain of %d blocks",
			header.Height, len(cs.mainChain))
	}
	blockHash := consensushashing.HeaderHash(header)
	cs.headers[*blockHash] = header
	cs.mainChain = append(cs.mainChain, blockHash)

	for _, uncle := range block.Uncles {
		uncleHash := consensushashing.HeaderHash(uncle)
		cs.headers[*uncleHash] = uncle
		cs.includedUncles[*uncleHash] = struct{}{}
	}

	for _, tx := range block.Transactions {
		isCellbase := tx.IsCellbase()
		if !isCellbase {
			for _, input := range tx.Inputs {
				delete(cs.cells, input.PreviousOutpoint)
				cs.spent[input.PreviousOutpoint] = struct{}{}
			}
		}

		transactionID := consensushashing.TransactionID(tx)
		for i, output := range tx.Outputs {
			outpoint := externalapi.NewDomainOutpoint(transactionID, uint32(i))
			var data []byte
			if i < len(tx.OutputsData) {
				data = tx.OutputsData[i]
			}
			cs.cells[*outpoint] = &externalapi.CellMeta{
				Outpoint: *outpoint,
				Output:   output.Clone(),
				Data:     append([]byte(nil), data...),
				TransactionInfo: &externalapi.TransactionInfo{
					BlockHash:   *blockHash,
					BlockHeight: header.Height,
					BlockEpoch:  header.EpochNumber,
					IsCellbase:  isCellbase,
				},
			}
		}
	}

	return cs.advanceEpoch(header)
}

// advanceEpoch derives the next epoch once the last block of the current
// one is added
func (cs *ChainState) advanceEpoch(header *externalapi.DomainHeader) error {
	current := cs.epochs[len(cs.epochs)-1]
	if header.Height != current.LastHeight() {
		return nil
	}

	firstHeader := cs.headers[*cs.mainChain[current.StartHeight]]
	next, err := cs.epochManager.NextEpoch(current, firstHeader, header)
	if err != nil {
		return err
	}
	cs.epochs = append(cs.epochs, next)
	return nil
}

// AddHeader stores a header that is not part of the chain, such as a stale
// block that may later be included as an uncle
func (cs *ChainState) AddHeader(header *externalapi.DomainHeader) {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.headers[*consensushashing.HeaderHash(header)] = header
}

// AddCell makes a cell live without a transaction creating it. It is used
// to set up fixtures, such as the code of system scripts.
func (cs *ChainState) AddCell(cell *externalapi.CellMeta) {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.cells[cell.Outpoint] = cell.Clone()
}

// Cell implements model.CellProvider
func (cs *ChainState) Cell(outpoint *externalapi.DomainOutpoint) (
	*externalapi.CellMeta, externalapi.CellStatus, error) {

	cs.lock.RLock()
	defer cs.lock.RUnlock()

	if cell, ok := cs.cells[*outpoint]; ok {
		return cell, externalapi.CellStatusLive, nil
	}
	if _, ok := cs.spent[*outpoint]; ok {
		return nil, externalapi.CellStatusDead, nil
	}
	return nil, externalapi.CellStatusUnknown, nil
}

// Header implements model.HeaderProvider
func (cs *ChainState) Header(blockHash *externalapi.DomainHash) (*externalapi.DomainHeader, error) {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	header, ok := cs.headers[*blockHash]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "header %s", blockHash)
	}
	return header, nil
}

// HasHeader implements model.HeaderProvider
func (cs *ChainState) HasHeader(blockHash *externalapi.DomainHash) (bool, error) {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	_, ok := cs.headers[*blockHash]
	return ok, nil
}

// IsUncleIncluded implements model.UncleProvider
func (cs *ChainState) IsUncleIncluded(uncleHash *externalapi.DomainHash) (bool, error) {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	_, ok := cs.includedUncles[*uncleHash]
	return ok, nil
}

// IsMainChainAncestor implements model.UncleProvider
func (cs *ChainState) IsMainChainAncestor(blockHash *externalapi.DomainHash) (bool, error) {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	header, ok := cs.headers[*blockHash]
	if !ok || header.Height >= uint64(len(cs.mainChain)) {
		return false, nil
	}
	return cs.mainChain[header.Height].Equal(blockHash), nil
}
