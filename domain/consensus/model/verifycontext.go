package model

import (
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/dagconfig"
)

// VerifyContext is the read-only chain context a header, transaction or
// block is judged against. It is borrowed for the duration of a single
// verification call and never retained.
type VerifyContext struct {
	// Params are the consensus parameters of the network.
	Params *dagconfig.Params

	// Tip is the header the candidate builds on. It is nil only when
	// verifying the genesis block.
	Tip *externalapi.DomainHeader

	// Epoch is the epoch the candidate belongs to.
	Epoch *externalapi.Epoch

	Cells   CellProvider
	Headers HeaderProvider

	// Uncles answers uncle eligibility questions relative to the chain
	// ending at Tip. It is only consulted by block verification.
	Uncles UncleProvider
}

// BlockHeight returns the height of a block built on top of the context's tip
func (vctx *VerifyContext) BlockHeight() uint64 {
	if vctx.Tip == nil {
		return 0
	}
	return vctx.Tip.Height + 1
}
