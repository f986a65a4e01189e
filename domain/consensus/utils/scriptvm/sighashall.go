package scriptvm

import (
	"bytes"

	"github.com/kaspanet/go-secp256k1"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/consensus/utils/constants"
	"github.com/321cherish/ckb/domain/consensus/utils/hashes"
)

const (
	schnorrPublicKeySize = 32
	schnorrSignatureSize = 64

	// SighashAllWitnessSize is the size of the witness a
	// secp256k1_blake2b_sighash_all lock expects: the public key followed by
	// the signature.
	SighashAllWitnessSize = schnorrPublicKeySize + schnorrSignatureSize
)

// Exit codes of the secp256k1_blake2b_sighash_all lock
const (
	ExitCodeArgsLength         int8 = -1
	ExitCodeWitnessMissing     int8 = -2
	ExitCodeEncoding           int8 = -3
	ExitCodePublicKeyHash      int8 = -31
	ExitCodeSignatureIncorrect int8 = -32
)

// verifySighashAll checks that the witness of the first input of the group
// carries a public key whose blake2b-160 hash is the script args, and a
// Schnorr signature by that key over the sighash-all message of the
// transaction.
func verifySighashAll(program *model.ScriptProgram) int8 {
	if len(program.Script.Args) != constants.LockArgsBlake160Size {
		return ExitCodeArgsLength
	}
	if len(program.InputIndices) == 0 {
		return ExitCodeWitnessMissing
	}

	tx := program.Transaction.Transaction
	firstInputIndex := program.InputIndices[0]
	if firstInputIndex >= len(tx.Witnesses) || len(tx.Witnesses[firstInputIndex]) != SighashAllWitnessSize {
		return ExitCodeWitnessMissing
	}
	witness := tx.Witnesses[firstInputIndex]
	publicKeyBytes := witness[:schnorrPublicKeySize]
	signatureBytes := witness[schnorrPublicKeySize:]

	if !bytes.Equal(hashes.Blake2b160(publicKeyBytes), program.Script.Args) {
		return ExitCodePublicKeyHash
	}

	publicKey, err := secp256k1.DeserializeSchnorrPubKey(publicKeyBytes)
	if err != nil {
		return ExitCodeEncoding
	}
	signature, err := secp256k1.DeserializeSchnorrSignatureFromSlice(signatureBytes)
	if err != nil {
		return ExitCodeEncoding
	}

	message := consensushashing.CalculateSighashAll(program.Transaction.TransactionID)
	secpHash := secp256k1.Hash(*message.ByteArray())
	if !publicKey.SchnorrVerify(&secpHash, signature) {
		return ExitCodeSignatureIncorrect
	}
	return 0
}
