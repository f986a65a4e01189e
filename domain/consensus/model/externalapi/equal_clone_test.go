package externalapi

import (
	"testing"
)

func testHash(b byte) DomainHash {
	return DomainHash{hashArray: [DomainHashSize]byte{b}}
}

func initTestBaseHeader() *DomainHeader {
	return &DomainHeader{
		Version:            0,
		ParentHash:         testHash(1),
		TimeInMilliseconds: 5,
		Height:             6,
		EpochNumber:        7,
		CompactTarget:      8,
		TransactionsRoot:   testHash(2),
		WitnessesRoot:      testHash(3),
		UnclesHash:         testHash(4),
		Nonce:              9,
		Proof:              []byte{10, 11},
	}
}

func initTestBaseTransaction() *DomainTransaction {
	return &DomainTransaction{
		Version:  0,
		CellDeps: []*DomainOutpoint{{TransactionID: DomainTransactionID(testHash(1)), Index: 0}},
		Inputs: []*DomainCellInput{{
			PreviousOutpoint: DomainOutpoint{TransactionID: DomainTransactionID(testHash(2)), Index: 1},
			Since:            3,
		}},
		Outputs: []*DomainCellOutput{{
			Capacity: 4,
			Lock:     &Script{CodeHash: testHash(5), Args: []byte{6}},
			Type:     &Script{CodeHash: testHash(7)},
		}},
		OutputsData: [][]byte{{8}},
		Witnesses:   [][]byte{{9}},
	}
}

func TestDomainHeader_Equal(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(header *DomainHeader)
	}{
		{"version", func(header *DomainHeader) { header.Version++ }},
		{"parent hash", func(header *DomainHeader) { header.ParentHash = testHash(100) }},
		{"time", func(header *DomainHeader) { header.TimeInMilliseconds++ }},
		{"height", func(header *DomainHeader) { header.Height++ }},
		{"epoch number", func(header *DomainHeader) { header.EpochNumber++ }},
		{"compact target", func(header *DomainHeader) { header.CompactTarget++ }},
		{"transactions root", func(header *DomainHeader) { header.TransactionsRoot = testHash(100) }},
		{"witnesses root", func(header *DomainHeader) { header.WitnessesRoot = testHash(100) }},
		{"uncles hash", func(header *DomainHeader) { header.UnclesHash = testHash(100) }},
		{"nonce", func(header *DomainHeader) { header.Nonce++ }},
		{"proof", func(header *DomainHeader) { header.Proof[0]++ }},
		{"proof length", func(header *DomainHeader) { header.Proof = header.Proof[:1] }},
	}

	base := initTestBaseHeader()
	if !base.Equal(initTestBaseHeader()) {
		t.Fatalf("identical headers are not equal")
	}
	if base.Equal(nil) {
		t.Fatalf("a header equals nil")
	}
	if !(*DomainHeader)(nil).Equal(nil) {
		t.Fatalf("nil does not equal nil")
	}

	for _, test := range tests {
		other := initTestBaseHeader()
		test.mutate(other)
		if base.Equal(other) {
			t.Errorf("headers differing in %s are equal", test.name)
		}
	}
}

func TestDomainHeader_Clone(t *testing.T) {
	header := initTestBaseHeader()
	clone := header.Clone()
	if !header.Equal(clone) {
		t.Fatalf("the clone differs from the original")
	}
	clone.Proof[0]++
	if header.Proof[0] != 10 {
		t.Fatalf("mutating the clone changed the original")
	}
}

func TestDomainTransaction_Equal(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(tx *DomainTransaction)
	}{
		{"version", func(tx *DomainTransaction) { tx.Version++ }},
		{"cell dep", func(tx *DomainTransaction) { tx.CellDeps[0].Index++ }},
		{"no cell deps", func(tx *DomainTransaction) { tx.CellDeps = nil }},
		{"previous outpoint", func(tx *DomainTransaction) { tx.Inputs[0].PreviousOutpoint.Index++ }},
		{"since", func(tx *DomainTransaction) { tx.Inputs[0].Since++ }},
		{"capacity", func(tx *DomainTransaction) { tx.Outputs[0].Capacity++ }},
		{"lock args", func(tx *DomainTransaction) { tx.Outputs[0].Lock.Args[0]++ }},
		{"lock code hash", func(tx *DomainTransaction) { tx.Outputs[0].Lock.CodeHash = testHash(100) }},
		{"type script", func(tx *DomainTransaction) { tx.Outputs[0].Type = nil }},
		{"outputs data", func(tx *DomainTransaction) { tx.OutputsData[0] = []byte{} }},
		{"witnesses", func(tx *DomainTransaction) { tx.Witnesses = append(tx.Witnesses, []byte{}) }},
	}

	base := initTestBaseTransaction()
	if !base.Equal(initTestBaseTransaction()) {
		t.Fatalf("identical transactions are not equal")
	}

	for _, test := range tests {
		other := initTestBaseTransaction()
		test.mutate(other)
		if base.Equal(other) {
			t.Errorf("transactions differing in %s are equal", test.name)
		}

		original := initTestBaseTransaction()
		test.mutate(original.Clone())
		if !base.Equal(original) {
			t.Errorf("mutating the %s of a clone changed the original", test.name)
		}
	}
}

func TestDomainTransaction_IsCellbase(t *testing.T) {
	tx := initTestBaseTransaction()
	if tx.IsCellbase() {
		t.Fatalf("a transaction spending a cell is a cellbase")
	}

	tx.Inputs[0].PreviousOutpoint = *NullOutpoint()
	if !tx.IsCellbase() {
		t.Fatalf("a transaction spending the null outpoint is not a cellbase")
	}

	tx.Inputs = append(tx.Inputs, &DomainCellInput{})
	if tx.IsCellbase() {
		t.Fatalf("a transaction with two inputs is a cellbase")
	}
}

func TestEpoch(t *testing.T) {
	epoch := &Epoch{Number: 2, StartHeight: 20, Length: 10, CompactTarget: 5, PrimaryReward: 100, SecondaryReward: 7}
	if epoch.LastHeight() != 29 {
		t.Fatalf("expected last height 29 but got %d", epoch.LastHeight())
	}
	for height, expected := range map[uint64]bool{19: false, 20: true, 29: true, 30: false} {
		if epoch.Contains(height) != expected {
			t.Errorf("Contains(%d) is %t", height, !expected)
		}
	}

	clone := epoch.Clone()
	if !epoch.Equal(clone) {
		t.Fatalf("the clone differs from the original")
	}
	clone.CompactTarget++
	if epoch.Equal(clone) {
		t.Fatalf("epochs with different targets are equal")
	}

	reward := BlockReward{Primary: 3, Secondary: 4}
	if reward.Total() != 7 {
		t.Fatalf("expected total reward 7 but got %d", reward.Total())
	}
}

func TestCellMeta_Clone(t *testing.T) {
	cell := &CellMeta{
		Outpoint: DomainOutpoint{TransactionID: DomainTransactionID(testHash(1)), Index: 2},
		Output:   &DomainCellOutput{Capacity: 3, Lock: &Script{Args: []byte{4}}},
		Data:     []byte{5},
		TransactionInfo: &TransactionInfo{
			BlockHash:   testHash(6),
			BlockHeight: 7,
			BlockEpoch:  8,
			IsCellbase:  true,
		},
	}
	if !cell.IsCellbase() {
		t.Fatalf("a cellbase cell is not reported as such")
	}

	clone := cell.Clone()
	if !cell.Equal(clone) {
		t.Fatalf("the clone differs from the original")
	}
	clone.Data[0]++
	clone.Output.Lock.Args[0]++
	clone.TransactionInfo.BlockHeight++
	if cell.Data[0] != 5 || cell.Output.Lock.Args[0] != 4 || cell.TransactionInfo.BlockHeight != 7 {
		t.Fatalf("mutating the clone changed the original")
	}

	fixture := &CellMeta{Outpoint: cell.Outpoint, Output: cell.Output, Data: cell.Data}
	if fixture.IsCellbase() {
		t.Fatalf("a cell without transaction info is reported as a cellbase")
	}
}
