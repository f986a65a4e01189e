// Package mining seals headers for tests and tools
package mining

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
)

// ErrNoSeal is returned when no nonce within the allowed attempts seals the header
var ErrNoSeal = errors.New("no valid seal found")

// SolveHeader searches for a nonce that makes header satisfy proofOfWork,
// starting from a random nonce. Only seals that need no proof besides the
// nonce can be found this way.
func SolveHeader(header *externalapi.DomainHeader, proofOfWork model.ProofOfWork, rd *rand.Rand,
	maxAttempts uint64) error {

	powHash := consensushashing.PowHash(header)
	nonce := rd.Uint64()
	for attempt := uint64(0); attempt < maxAttempts; attempt++ {
		if proofOfWork.Verify(powHash, nonce, nil, header.CompactTarget) {
			header.Nonce = nonce
			header.Proof = nil
			return nil
		}
		if nonce == math.MaxUint64 {
			nonce = 0
		} else {
			nonce++
		}
	}
	return errors.Wrapf(ErrNoSeal, "tried %d nonces for target %08x", maxAttempts, header.CompactTarget)
}
