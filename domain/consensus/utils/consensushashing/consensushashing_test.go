package consensushashing

import (
	"testing"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
)

func testTransaction() *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		Version: 0,
		CellDeps: []*externalapi.DomainOutpoint{
			externalapi.NewDomainOutpoint(&externalapi.DomainTransactionID{}, 3),
		},
		Inputs: []*externalapi.DomainCellInput{{
			PreviousOutpoint: externalapi.DomainOutpoint{Index: 2},
			Since:            7,
		}},
		Outputs: []*externalapi.DomainCellOutput{{
			Capacity: 1564,
			Lock:     &externalapi.Script{Args: []byte{1, 2, 3}},
		}},
		OutputsData: [][]byte{{}},
		Witnesses:   [][]byte{{0xde, 0xad}},
	}
}

func TestTransactionIDExcludesWitnesses(t *testing.T) {
	tx := testTransaction()
	signed := tx.Clone()
	signed.Witnesses[0] = []byte{0xbe, 0xef}

	if !TransactionID(tx).Equal(TransactionID(signed)) {
		t.Fatalf("changing a witness should not change the transaction ID")
	}
	if TransactionWitnessHash(tx).Equal(TransactionWitnessHash(signed)) {
		t.Fatalf("changing a witness should change the witness hash")
	}

	changed := tx.Clone()
	changed.Inputs[0].Since++
	if TransactionID(tx).Equal(TransactionID(changed)) {
		t.Fatalf("changing an input should change the transaction ID")
	}
}

func TestTypeScriptPresenceIsCommitted(t *testing.T) {
	tx := testTransaction()
	withEmptyType := tx.Clone()
	withEmptyType.Outputs[0].Type = &externalapi.Script{}

	if TransactionID(tx).Equal(TransactionID(withEmptyType)) {
		t.Fatalf("a missing type script and an empty one should hash differently")
	}
	if ScriptHash(nil).Equal(ScriptHash(&externalapi.Script{})) {
		t.Fatalf("a nil script and an empty script should hash differently")
	}
}

func TestPowHashExcludesSeal(t *testing.T) {
	header := &externalapi.DomainHeader{
		Height:             5,
		TimeInMilliseconds: 1000,
		CompactTarget:      0x207fffff,
		Nonce:              1,
		Proof:              []byte{1, 2, 3},
	}
	resealed := header.Clone()
	resealed.Nonce = 2
	resealed.Proof = []byte{4}

	if !PowHash(header).Equal(PowHash(resealed)) {
		t.Fatalf("the pow hash should not depend on the seal")
	}
	if HeaderHash(header).Equal(HeaderHash(resealed)) {
		t.Fatalf("the header hash should depend on the seal")
	}
}
