package scriptvm

import (
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/consensus/utils/hashes"
)

// SighashAllLockArgs returns the args of a secp256k1_blake2b_sighash_all lock
// script that the owner of keyPair can unlock
func SighashAllLockArgs(keyPair *secp256k1.SchnorrKeyPair) ([]byte, error) {
	publicKey, err := keyPair.SchnorrPublicKey()
	if err != nil {
		return nil, err
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		return nil, err
	}
	return hashes.Blake2b160(serializedPublicKey[:]), nil
}

// SighashAllLockScript returns a secp256k1_blake2b_sighash_all lock script
// that the owner of keyPair can unlock
func SighashAllLockScript(keyPair *secp256k1.SchnorrKeyPair) (*externalapi.Script, error) {
	args, err := SighashAllLockArgs(keyPair)
	if err != nil {
		return nil, err
	}
	return &externalapi.Script{
		CodeHash: *Secp256k1Blake2bSighashAllCodeHash,
		Args:     args,
	}, nil
}

// SighashAllWitness signs the sighash-all message of tx with keyPair and
// returns the witness that unlocks a group of inputs locked by
// SighashAllLockScript(keyPair). The witness belongs at the position of the
// first input of the group.
func SighashAllWitness(tx *externalapi.DomainTransaction, keyPair *secp256k1.SchnorrKeyPair) ([]byte, error) {
	message := consensushashing.CalculateSighashAll(consensushashing.TransactionID(tx))
	secpHash := secp256k1.Hash(*message.ByteArray())
	signature, err := keyPair.SchnorrSign(&secpHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign the transaction")
	}

	publicKey, err := keyPair.SchnorrPublicKey()
	if err != nil {
		return nil, err
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		return nil, err
	}

	witness := make([]byte, 0, SighashAllWitnessSize)
	witness = append(witness, serializedPublicKey[:]...)
	witness = append(witness, signature.Serialize()[:]...)
	return witness, nil
}
