package consensushashing

import (
	"io"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/hashes"
	"github.com/321cherish/ckb/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// BlockHash returns the given block's hash
func BlockHash(block *externalapi.DomainBlock) *externalapi.DomainHash {
	return HeaderHash(block.Header)
}

// HeaderHash returns the given header's hash. It covers every header
// field, the seal included.
func HeaderHash(header *externalapi.DomainHeader) *externalapi.DomainHash {
	writer := hashes.NewHeaderHashWriter()
	err := serializeHeader(writer, header, true)
	if err != nil {
		// It seems like this could only happen if the writer returned an error.
		// and this writer should never return an error (no allocations or possible failures)
		// the only non-writer error path here is unknown types in `WriteElement`
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}

	return writer.Finalize()
}

// PowHash returns the hash the proof-of-work seal commits to: every header
// field except the nonce and the proof.
func PowHash(header *externalapi.DomainHeader) *externalapi.DomainHash {
	writer := hashes.NewPoWHashWriter()
	err := serializeHeader(writer, header, false)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}

	return writer.Finalize()
}

func serializeHeader(w io.Writer, header *externalapi.DomainHeader, includeSeal bool) error {
	err := serialization.WriteElements(w, header.Version, header.ParentHash, header.TimeInMilliseconds,
		header.Height, header.EpochNumber, header.CompactTarget, header.TransactionsRoot,
		header.WitnessesRoot, header.UnclesHash)
	if err != nil {
		return err
	}
	if !includeSeal {
		return nil
	}
	return serialization.WriteElements(w, header.Nonce, header.Proof)
}
