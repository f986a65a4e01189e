package externalapi

import "bytes"

// Script is a reference to on-chain code together with the arguments
// it is run with. The code is the data of a cell whose data hash
// equals CodeHash.
type Script struct {
	CodeHash DomainHash
	Args     []byte
}

// Clone returns a clone of Script
func (script *Script) Clone() *Script {
	if script == nil {
		return nil
	}

	return &Script{
		CodeHash: script.CodeHash,
		Args:     append([]byte(nil), script.Args...),
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = Script{DomainHash{}, []byte{}}

// Equal returns whether script equals to other
func (script *Script) Equal(other *Script) bool {
	if script == nil || other == nil {
		return script == other
	}

	return script.CodeHash.Equal(&other.CodeHash) && bytes.Equal(script.Args, other.Args)
}
