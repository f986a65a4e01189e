package constants

const (
	// BlockVersion represents the current version of blocks mined and the maximum block version
	// this node is able to validate
	BlockVersion = 0

	// TransactionVersion is the only transaction version this node is able to validate.
	TransactionVersion = 0

	// ShannonsPerByte is the capacity, in shannons, a cell needs for every byte it occupies.
	// One byte of cell storage costs one whole capacity unit.
	ShannonsPerByte = 100_000_000

	// CapacityFieldSize is the number of bytes the capacity field of a cell occupies
	CapacityFieldSize = 8

	// ScriptCodeHashSize is the number of bytes the code hash of a script occupies
	ScriptCodeHashSize = 32

	// LockArgsBlake160Size is the length of the public key hash expected by the
	// secp256k1 sighash-all lock
	LockArgsBlake160Size = 20
)
