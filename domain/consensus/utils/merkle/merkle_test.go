package merkle

import (
	"testing"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
)

func hashOf(b byte) *externalapi.DomainHash {
	return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{b})
}

func TestMerkleRoot(t *testing.T) {
	a, b, c := hashOf(1), hashOf(2), hashOf(3)
	zero := &externalapi.DomainHash{}

	tests := []struct {
		name     string
		leaves   []*externalapi.DomainHash
		expected *externalapi.DomainHash
	}{
		{"empty", nil, zero},
		{"single leaf", []*externalapi.DomainHash{a}, a},
		{"two leaves", []*externalapi.DomainHash{a, b}, hashMerkleBranches(a, b)},
		{"three leaves", []*externalapi.DomainHash{a, b, c},
			hashMerkleBranches(hashMerkleBranches(a, b), hashMerkleBranches(c, zero))},
	}
	for _, test := range tests {
		root := merkleRoot(test.leaves)
		if !root.Equal(test.expected) {
			t.Errorf("%s: expected root %s, got %s", test.name, test.expected, root)
		}
	}
}

func TestMerkleRootResistsDuplication(t *testing.T) {
	a, b, c := hashOf(1), hashOf(2), hashOf(3)
	odd := merkleRoot([]*externalapi.DomainHash{a, b, c})
	duplicated := merkleRoot([]*externalapi.DomainHash{a, b, c, c})
	if odd.Equal(duplicated) {
		t.Fatalf("duplicating the last leaf should change the root")
	}
}

func TestCalculateUnclesHash(t *testing.T) {
	if !CalculateUnclesHash(nil).IsZero() {
		t.Fatalf("a block without uncles should commit to the zero hash")
	}
	first := &externalapi.DomainHeader{Height: 1}
	second := &externalapi.DomainHeader{Height: 2}
	forward := CalculateUnclesHash([]*externalapi.DomainHeader{first, second})
	backward := CalculateUnclesHash([]*externalapi.DomainHeader{second, first})
	if forward.Equal(backward) {
		t.Fatalf("the uncles hash should commit to the order of the uncles")
	}
}
