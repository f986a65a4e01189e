package epochmanager

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/pow"
	"github.com/321cherish/ckb/domain/dagconfig"
)

func newTestEpochManager(t *testing.T) (*epochManager, *dagconfig.Params) {
	params := dagconfig.DevnetParams
	proofOfWork, err := pow.New(&params)
	if err != nil {
		t.Fatalf("pow.New: %+v", err)
	}
	return New(&params, proofOfWork).(*epochManager), &params
}

func TestGenesisEpoch(t *testing.T) {
	em, params := newTestEpochManager(t)

	expected := &externalapi.Epoch{
		Number:          0,
		StartHeight:     0,
		Length:          params.EpochLength,
		CompactTarget:   params.GenesisBlock.Header.CompactTarget,
		PrimaryReward:   params.PrimaryEpochReward,
		SecondaryReward: params.SecondaryEpochReward,
	}
	genesisEpoch := em.GenesisEpoch()
	if !genesisEpoch.Equal(expected) {
		t.Fatalf("unexpected genesis epoch. Want: %s, got: %s", spew.Sdump(expected), spew.Sdump(genesisEpoch))
	}
}

func TestNextEpoch(t *testing.T) {
	em, params := newTestEpochManager(t)
	genesisEpoch := em.GenesisEpoch()
	targetDuration := params.TargetEpochDuration(genesisEpoch.Length).Milliseconds()

	tests := []struct {
		name                  string
		duration              int64
		expectedCompactTarget uint32
	}{
		// The genesis target is already at the maximum, so a slow epoch
		// cannot make it any easier
		{"on schedule", targetDuration, 0x207fffff},
		{"slow", 2 * targetDuration, 0x207fffff},
		{"fast", targetDuration / 2, 0x203fffff},
		{"very fast", 1, 0x203fffff},
	}

	for _, test := range tests {
		firstHeader := &externalapi.DomainHeader{Height: 0, TimeInMilliseconds: 1_000_000}
		lastHeader := &externalapi.DomainHeader{
			Height:             genesisEpoch.LastHeight(),
			TimeInMilliseconds: 1_000_000 + test.duration,
		}
		next, err := em.NextEpoch(genesisEpoch, firstHeader, lastHeader)
		if err != nil {
			t.Fatalf("%s: NextEpoch: %+v", test.name, err)
		}

		expected := &externalapi.Epoch{
			Number:          1,
			StartHeight:     genesisEpoch.Length,
			Length:          params.EpochLength,
			CompactTarget:   test.expectedCompactTarget,
			PrimaryReward:   params.PrimaryEpochReward,
			SecondaryReward: params.SecondaryEpochReward,
		}
		if !next.Equal(expected) {
			t.Errorf("%s: unexpected epoch. Want: %s, got: %s", test.name, spew.Sdump(expected), spew.Sdump(next))
		}
	}
}

func TestNextEpochWrongHeaders(t *testing.T) {
	em, _ := newTestEpochManager(t)
	genesisEpoch := em.GenesisEpoch()

	_, err := em.NextEpoch(genesisEpoch,
		&externalapi.DomainHeader{Height: 1},
		&externalapi.DomainHeader{Height: genesisEpoch.LastHeight()})
	if err == nil {
		t.Errorf("expected an error for a first header that does not open the epoch")
	}

	_, err = em.NextEpoch(genesisEpoch,
		&externalapi.DomainHeader{Height: 0},
		&externalapi.DomainHeader{Height: genesisEpoch.LastHeight() + 1})
	if err == nil {
		t.Errorf("expected an error for a last header that does not close the epoch")
	}
}

func TestPrimaryEpochRewardHalving(t *testing.T) {
	em, params := newTestEpochManager(t)
	interval := params.PrimaryHalvingInterval

	tests := []struct {
		epochNumber    uint64
		expectedReward uint64
	}{
		{0, params.PrimaryEpochReward},
		{interval - 1, params.PrimaryEpochReward},
		{interval, params.PrimaryEpochReward / 2},
		{2*interval + 1, params.PrimaryEpochReward / 4},
		{64 * interval, 0},
	}

	for _, test := range tests {
		reward := em.primaryEpochReward(test.epochNumber)
		if reward != test.expectedReward {
			t.Errorf("epoch %d: expected primary reward %d but got %d",
				test.epochNumber, test.expectedReward, reward)
		}
	}
}
