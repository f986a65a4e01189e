// Package since decodes the time lock carried by the Since field of a cell
// input.
//
// The highest bit tells whether the lock is relative to the block that
// created the spent cell or absolute. The next two bits select the metric:
// block height, epoch number or median timestamp in seconds. The five bits
// below them are reserved and must be zero. The low 56 bits hold the value.
package since

const (
	relativeFlag     uint64 = 1 << 63
	metricFlagMask   uint64 = 0x6000_0000_0000_0000
	valueMask        uint64 = 0x00ff_ffff_ffff_ffff
	reservedBitsMask uint64 = 0x1f00_0000_0000_0000

	metricBlockHeight uint64 = 0x0000_0000_0000_0000
	metricEpochNumber uint64 = 0x2000_0000_0000_0000
	metricTimestamp   uint64 = 0x4000_0000_0000_0000
)

// Metric is the unit a time lock is expressed in
type Metric uint8

// Time lock metrics
const (
	MetricBlockHeight Metric = iota
	MetricEpochNumber
	MetricTimestamp
)

func (m Metric) String() string {
	switch m {
	case MetricBlockHeight:
		return "block height"
	case MetricEpochNumber:
		return "epoch number"
	case MetricTimestamp:
		return "timestamp"
	}
	return "unknown metric"
}

// Since is the decoded form of an input's since field
type Since struct {
	Relative bool
	Metric   Metric

	// Value is in blocks, epochs or milliseconds, depending on Metric
	Value uint64
}

// Parse decodes a raw since value. It returns false if reserved bits are
// set or the metric is unknown. A zero since means no lock and is
// reported as an absolute block height lock of zero, which is always met.
func Parse(raw uint64) (*Since, bool) {
	if raw&reservedBitsMask != 0 {
		return nil, false
	}

	value := raw & valueMask
	since := &Since{Relative: raw&relativeFlag != 0}
	switch raw & metricFlagMask {
	case metricBlockHeight:
		since.Metric = MetricBlockHeight
	case metricEpochNumber:
		since.Metric = MetricEpochNumber
	case metricTimestamp:
		since.Metric = MetricTimestamp
		// timestamps are encoded in seconds
		value *= 1000
	default:
		return nil, false
	}
	since.Value = value
	return since, true
}

// Encode returns the raw since value of an absolute or relative lock.
// Timestamp values are given in milliseconds and truncated to seconds.
func Encode(relative bool, metric Metric, value uint64) uint64 {
	raw := uint64(0)
	if relative {
		raw |= relativeFlag
	}
	switch metric {
	case MetricEpochNumber:
		raw |= metricEpochNumber
	case MetricTimestamp:
		raw |= metricTimestamp
		value /= 1000
	}
	return raw | value&valueMask
}
