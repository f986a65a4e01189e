package consensushashing

import (
	"io"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/hashes"
	"github.com/321cherish/ckb/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// txEncoding is a bitmask defining which transaction fields we
// want to encode and which to ignore.
type txEncoding uint8

const (
	txEncodingFull txEncoding = 0

	txEncodingExcludeWitnesses txEncoding = 1 << iota
)

// TransactionID generates the ID for the given transaction. The ID
// excludes the witnesses, so signing a transaction does not change it.
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.DomainTransactionID {
	writer := hashes.NewTransactionHashWriter()
	err := serializeTransaction(writer, tx, txEncodingExcludeWitnesses)
	if err != nil {
		// this writer never return errors (no allocations or possible failures) so errors can only come from validity checks,
		// and we assume we never construct malformed transactions.
		panic(errors.Wrap(err, "TransactionID() failed. this should never fail for structurally-valid transactions"))
	}
	return (*externalapi.DomainTransactionID)(writer.Finalize())
}

// TransactionWitnessHash generates the hash of the full transaction,
// witnesses included. It is the leaf of a block's witnesses root.
func TransactionWitnessHash(tx *externalapi.DomainTransaction) *externalapi.DomainHash {
	writer := hashes.NewTransactionWitnessHashWriter()
	err := serializeTransaction(writer, tx, txEncodingFull)
	if err != nil {
		panic(errors.Wrap(err, "TransactionWitnessHash() failed. this should never fail for structurally-valid transactions"))
	}
	return writer.Finalize()
}

func serializeTransaction(w io.Writer, tx *externalapi.DomainTransaction, encodingFlags txEncoding) error {
	err := serialization.WriteElements(w, tx.Version, uint64(len(tx.CellDeps)))
	if err != nil {
		return err
	}
	for _, dep := range tx.CellDeps {
		err = serialization.WriteElement(w, dep)
		if err != nil {
			return err
		}
	}

	err = serialization.WriteElement(w, uint64(len(tx.Inputs)))
	if err != nil {
		return err
	}
	for _, input := range tx.Inputs {
		err = serialization.WriteElements(w, &input.PreviousOutpoint, input.Since)
		if err != nil {
			return err
		}
	}

	err = serialization.WriteElement(w, uint64(len(tx.Outputs)))
	if err != nil {
		return err
	}
	for _, output := range tx.Outputs {
		err = writeOutput(w, output)
		if err != nil {
			return err
		}
	}

	err = serialization.WriteElement(w, uint64(len(tx.OutputsData)))
	if err != nil {
		return err
	}
	for _, data := range tx.OutputsData {
		err = serialization.WriteElement(w, data)
		if err != nil {
			return err
		}
	}

	if encodingFlags&txEncodingExcludeWitnesses != txEncodingExcludeWitnesses {
		err = serialization.WriteElement(w, uint64(len(tx.Witnesses)))
		if err != nil {
			return err
		}
		for _, witness := range tx.Witnesses {
			err = serialization.WriteElement(w, witness)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func writeOutput(w io.Writer, output *externalapi.DomainCellOutput) error {
	err := serialization.WriteElement(w, output.Capacity)
	if err != nil {
		return err
	}
	err = writeScript(w, output.Lock)
	if err != nil {
		return err
	}
	return writeScript(w, output.Type)
}

// writeScript writes a presence flag followed by the script, so that a
// missing type script and an empty one hash differently.
func writeScript(w io.Writer, script *externalapi.Script) error {
	if script == nil {
		return serialization.WriteElement(w, false)
	}
	return serialization.WriteElements(w, true, script.CodeHash, script.Args)
}
