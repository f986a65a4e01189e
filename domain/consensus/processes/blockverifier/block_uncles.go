package blockverifier

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
)

// verifyUncles ensures every uncle of block may be included by it. Uncles
// are verified concurrently and the error of the lowest uncle index is
// reported.
func (bv *blockVerifier) verifyUncles(ctx context.Context, block *externalapi.DomainBlock,
	verifyContext *model.VerifyContext) error {

	if len(block.Uncles) == 0 {
		return nil
	}
	if len(block.Uncles) > verifyContext.Params.MaxUncles {
		return errors.Wrapf(ruleerrors.ErrUncleIneligible, "block includes %d uncles while at most %d "+
			"are allowed", len(block.Uncles), verifyContext.Params.MaxUncles)
	}
	if verifyContext.Tip == nil || verifyContext.Uncles == nil {
		return errors.Wrapf(ruleerrors.ErrUncleIneligible, "block at height %d cannot include uncles",
			block.Header.Height)
	}

	uncleHashes := make([]*externalapi.DomainHash, len(block.Uncles))
	seen := mapset.NewThreadUnsafeSet[externalapi.DomainHash]()
	for i, uncle := range block.Uncles {
		uncleHashes[i] = consensushashing.HeaderHash(uncle)
		if !seen.Add(*uncleHashes[i]) {
			return errors.Wrapf(ruleerrors.ErrUncleIneligible, "uncle %s is included twice", uncleHashes[i])
		}
	}

	ancestors, err := bv.recentAncestors(block.Header, verifyContext)
	if err != nil {
		return err
	}

	uncleErrors := make([]error, len(block.Uncles))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(bv.verifyWorkers)
	for i := range block.Uncles {
		i := i
		group.Go(func() error {
			err := groupCtx.Err()
			if err != nil {
				return errors.WithStack(err)
			}
			uncleErrors[i] = bv.verifyUncle(block.Header, block.Uncles[i], uncleHashes[i], ancestors, verifyContext)
			return nil
		})
	}
	err = group.Wait()
	if err != nil {
		return err
	}

	for i, err := range uncleErrors {
		if err != nil {
			return errors.Wrapf(err, "uncle %s at index %d", uncleHashes[i], i)
		}
	}
	return nil
}

// recentAncestors returns the hashes of the ancestors of header that are
// young enough to have been included as uncles
func (bv *blockVerifier) recentAncestors(header *externalapi.DomainHeader,
	verifyContext *model.VerifyContext) (mapset.Set[externalapi.DomainHash], error) {

	ancestors := mapset.NewSet[externalapi.DomainHash]()
	lowestHeight := uint64(0)
	if header.Height > verifyContext.Params.MaxUncleAge {
		lowestHeight = header.Height - verifyContext.Params.MaxUncleAge
	}

	current := verifyContext.Tip
	for {
		ancestors.Add(*consensushashing.HeaderHash(current))
		if current.Height == 0 || current.Height <= lowestHeight {
			return ancestors, nil
		}
		var err error
		current, err = verifyContext.Headers.Header(&current.ParentHash)
		if err != nil {
			return nil, err
		}
	}
}

func (bv *blockVerifier) verifyUncle(blockHeader *externalapi.DomainHeader, uncle *externalapi.DomainHeader,
	uncleHash *externalapi.DomainHash, ancestors mapset.Set[externalapi.DomainHash],
	verifyContext *model.VerifyContext) error {

	if uncle.Height >= blockHeader.Height {
		return errors.Wrapf(ruleerrors.ErrUncleIneligible, "uncle height %d is not below the block "+
			"height %d", uncle.Height, blockHeader.Height)
	}
	if blockHeader.Height-uncle.Height > verifyContext.Params.MaxUncleAge {
		return errors.Wrapf(ruleerrors.ErrUncleIneligible, "uncle at height %d is more than %d blocks "+
			"older than the block at height %d", uncle.Height, verifyContext.Params.MaxUncleAge, blockHeader.Height)
	}
	if uncle.EpochNumber != blockHeader.EpochNumber {
		return errors.Wrapf(ruleerrors.ErrUncleIneligible, "uncle belongs to epoch %d while the block "+
			"belongs to epoch %d", uncle.EpochNumber, blockHeader.EpochNumber)
	}
	if ancestors.Contains(*uncleHash) {
		return errors.Wrapf(ruleerrors.ErrUncleIneligible, "uncle is an ancestor of the block")
	}

	included, err := verifyContext.Uncles.IsUncleIncluded(uncleHash)
	if err != nil {
		return err
	}
	if included {
		return errors.Wrapf(ruleerrors.ErrUncleIneligible, "uncle was already included by another block")
	}

	isParentOnMainChain, err := verifyContext.Uncles.IsMainChainAncestor(&uncle.ParentHash)
	if err != nil {
		return err
	}
	if !isParentOnMainChain {
		return errors.Wrapf(ruleerrors.ErrUncleIneligible, "uncle parent %s is not on the main chain",
			uncle.ParentHash)
	}

	parent, err := verifyContext.Headers.Header(&uncle.ParentHash)
	if err != nil {
		return err
	}
	return bv.headerVerifier.VerifyHeader(uncle, parent, verifyContext.Epoch, verifyContext)
}
