package pastmediantimemanager

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
)

// pastMedianTimeManager provides a method to resolve the
// past median time of a block
type pastMedianTimeManager struct {
	medianTimeBlockCount int
}

// New instantiates a new PastMedianTimeManager
func New(medianTimeBlockCount int) model.PastMedianTimeManager {
	return &pastMedianTimeManager{
		medianTimeBlockCount: medianTimeBlockCount,
	}
}

// PastMedianTime returns the median timestamp of the window of
// medianTimeBlockCount blocks ending at blockHash, inclusive. Close to
// genesis, the window holds every block down to genesis.
func (pmtm *pastMedianTimeManager) PastMedianTime(headers model.HeaderProvider,
	blockHash *externalapi.DomainHash) (int64, error) {

	window, err := pmtm.windowTimestamps(headers, blockHash)
	if err != nil {
		return 0, err
	}
	return windowMedianTimestamp(window), nil
}

func (pmtm *pastMedianTimeManager) windowTimestamps(headers model.HeaderProvider,
	blockHash *externalapi.DomainHash) ([]int64, error) {

	window := make([]int64, 0, pmtm.medianTimeBlockCount)
	current := blockHash
	for len(window) < pmtm.medianTimeBlockCount {
		header, err := headers.Header(current)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get the header of block %s", current)
		}
		window = append(window, header.TimeInMilliseconds)
		if header.Height == 0 {
			break
		}
		current = &header.ParentHash
	}
	return window, nil
}

// windowMedianTimestamp returns the upper median of the window. The window
// is sorted in place.
func windowMedianTimestamp(window []int64) int64 {
	sort.Slice(window, func(i, j int) bool {
		return window[i] < window[j]
	})
	return window[len(window)/2]
}
