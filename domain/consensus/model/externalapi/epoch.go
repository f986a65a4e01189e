package externalapi

// Epoch is a numbered run of consecutive block heights sharing one
// difficulty target and one reward schedule. PrimaryReward and
// SecondaryReward are totals for the whole epoch.
type Epoch struct {
	Number          uint64
	StartHeight     uint64
	Length          uint64
	CompactTarget   uint32
	PrimaryReward   uint64
	SecondaryReward uint64
}

// Contains returns whether the given block height belongs to the epoch
func (epoch *Epoch) Contains(height uint64) bool {
	return height >= epoch.StartHeight && height-epoch.StartHeight < epoch.Length
}

// LastHeight returns the height of the final block of the epoch
func (epoch *Epoch) LastHeight() uint64 {
	return epoch.StartHeight + epoch.Length - 1
}

// Clone returns a clone of Epoch
func (epoch *Epoch) Clone() *Epoch {
	clone := *epoch
	return &clone
}

// Equal returns whether epoch equals to other
func (epoch *Epoch) Equal(other *Epoch) bool {
	if epoch == nil || other == nil {
		return epoch == other
	}
	return *epoch == *other
}

// BlockReward is the reward due to one block's cellbase
type BlockReward struct {
	Primary   uint64
	Secondary uint64
}

// Total returns the sum of the primary and secondary rewards.
// The caller is expected to make sure the sum does not overflow.
func (reward BlockReward) Total() uint64 {
	return reward.Primary + reward.Secondary
}
