package pastmediantimemanager

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
)

type fakeHeaderProvider map[externalapi.DomainHash]*externalapi.DomainHeader

func (f fakeHeaderProvider) Header(blockHash *externalapi.DomainHash) (*externalapi.DomainHeader, error) {
	header, ok := f[*blockHash]
	if !ok {
		return nil, errors.Errorf("header %s not found", blockHash)
	}
	return header, nil
}

func (f fakeHeaderProvider) HasHeader(blockHash *externalapi.DomainHash) (bool, error) {
	_, ok := f[*blockHash]
	return ok, nil
}

// buildChain returns a chain of headers whose timestamps are the given
// offsets in seconds, and the hashes of the headers by height
func buildChain(offsets []int64) (fakeHeaderProvider, []*externalapi.DomainHash) {
	headers := make(fakeHeaderProvider)
	hashes := make([]*externalapi.DomainHash, len(offsets))
	parentHash := externalapi.DomainHash{}
	for height, offset := range offsets {
		header := &externalapi.DomainHeader{
			ParentHash:         parentHash,
			Height:             uint64(height),
			TimeInMilliseconds: 1_600_000_000_000 + offset*1000,
		}
		hash := consensushashing.HeaderHash(header)
		headers[*hash] = header
		hashes[height] = hash
		parentHash = *hash
	}
	return headers, hashes
}

func TestPastMedianTime(t *testing.T) {
	offsets := make([]int64, 40)
	for i := range offsets {
		offsets[i] = int64(i)
	}
	// A timestamp far in the future must not move the median much
	offsets[38] = 10_000
	headers, hashes := buildChain(offsets)

	pmtm := New(11)
	tests := []struct {
		height         int
		expectedOffset int64
	}{
		{height: 0, expectedOffset: 0},
		{height: 1, expectedOffset: 1},
		{height: 4, expectedOffset: 2},
		{height: 10, expectedOffset: 5},
		{height: 20, expectedOffset: 15},
		{height: 38, expectedOffset: 33},
		{height: 39, expectedOffset: 34},
	}

	for _, test := range tests {
		pastMedianTime, err := pmtm.PastMedianTime(headers, hashes[test.height])
		if err != nil {
			t.Fatalf("PastMedianTime: %+v", err)
		}
		offset := (pastMedianTime - 1_600_000_000_000) / 1000
		if offset != test.expectedOffset {
			t.Errorf("expected past median time of block %d to be %d seconds after the first block "+
				"but got %d", test.height, test.expectedOffset, offset)
		}
	}
}

func TestPastMedianTimeMissingHeader(t *testing.T) {
	headers, hashes := buildChain([]int64{0, 1, 2, 3})
	delete(headers, *hashes[1])

	_, err := New(11).PastMedianTime(headers, hashes[3])
	if err == nil {
		t.Fatalf("expected an error for a missing ancestor")
	}
}
