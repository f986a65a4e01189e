package mining

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/consensus/utils/pow"
	"github.com/321cherish/ckb/domain/dagconfig"
)

func TestSolveHeader(t *testing.T) {
	proofOfWork, err := pow.New(&dagconfig.SimnetParams)
	if err != nil {
		t.Fatalf("pow.New: %+v", err)
	}
	header := dagconfig.SimnetParams.GenesisBlock.Header.Clone()
	header.Height = 1
	header.Proof = []byte{1}

	err = SolveHeader(header, proofOfWork, rand.New(rand.NewSource(0)), 1000)
	if err != nil {
		t.Fatalf("SolveHeader: %+v", err)
	}
	if header.Proof != nil {
		t.Fatalf("the solved header kept a proof")
	}
	if !proofOfWork.Verify(consensushashing.PowHash(header), header.Nonce, nil, header.CompactTarget) {
		t.Fatalf("the solved header is not sealed")
	}
}

func TestSolveHeaderGivesUp(t *testing.T) {
	proofOfWork, err := pow.New(&dagconfig.SimnetParams)
	if err != nil {
		t.Fatalf("pow.New: %+v", err)
	}
	header := dagconfig.SimnetParams.GenesisBlock.Header.Clone()
	header.CompactTarget = 0x03000001

	err = SolveHeader(header, proofOfWork, rand.New(rand.NewSource(0)), 100)
	if !errors.Is(err, ErrNoSeal) {
		t.Fatalf("expected ErrNoSeal but got %+v", err)
	}
}
