package consensus

import (
	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/processes/blockverifier"
	"github.com/321cherish/ckb/domain/consensus/processes/epochmanager"
	"github.com/321cherish/ckb/domain/consensus/processes/headerverifier"
	"github.com/321cherish/ckb/domain/consensus/processes/pastmediantimemanager"
	"github.com/321cherish/ckb/domain/consensus/processes/rewardcalculator"
	"github.com/321cherish/ckb/domain/consensus/processes/transactionresolver"
	"github.com/321cherish/ckb/domain/consensus/processes/transactionverifier"
	"github.com/321cherish/ckb/domain/consensus/utils/pow"
	"github.com/321cherish/ckb/domain/consensus/utils/scriptvm"
)

// Factory instantiates new Consensuses
type Factory interface {
	NewConsensus(config *Config) (Consensus, error)

	SetTestScriptVM(scriptVM model.ScriptVM)
	SetTestProofOfWork(proofOfWork model.ProofOfWork)
}

type factory struct {
	scriptVM    model.ScriptVM
	proofOfWork model.ProofOfWork
}

// NewFactory creates a new Consensus factory
func NewFactory() Factory {
	return &factory{}
}

// NewConsensus instantiates a new Consensus
func (f *factory) NewConsensus(config *Config) (Consensus, error) {
	params := &config.Params

	proofOfWork := f.proofOfWork
	if proofOfWork == nil {
		var err error
		proofOfWork, err = pow.New(params)
		if err != nil {
			return nil, err
		}
	}
	scriptVM := f.scriptVM
	if scriptVM == nil {
		scriptVM = scriptvm.New()
	}

	// Processes
	pastMedianTimeManager := pastmediantimemanager.New(params.MedianTimeBlockCount)
	epochManager := epochmanager.New(params, proofOfWork)
	rewardCalculator := rewardcalculator.New()
	transactionResolver, err := transactionresolver.New(config.resolverCacheSize())
	if err != nil {
		return nil, err
	}
	headerVerifier := headerverifier.New(
		config.SkipProofOfWork,
		proofOfWork,
		pastMedianTimeManager)
	transactionVerifier := transactionverifier.New(
		scriptVM,
		pastMedianTimeManager)
	blockVerifier := blockverifier.New(
		config.verifyWorkers(),
		headerVerifier,
		transactionResolver,
		transactionVerifier,
		rewardCalculator)

	log.Debugf("Created consensus for %s with %s proof of work", params.Name, params.PowFunction)

	return &consensus{
		params: params,

		epochManager:        epochManager,
		rewardCalculator:    rewardCalculator,
		transactionResolver: transactionResolver,
		headerVerifier:      headerVerifier,
		transactionVerifier: transactionVerifier,
		blockVerifier:       blockVerifier,
	}, nil
}

// SetTestScriptVM replaces the native script VM of the consensuses built
// by this factory
func (f *factory) SetTestScriptVM(scriptVM model.ScriptVM) {
	f.scriptVM = scriptVM
}

// SetTestProofOfWork replaces the proof of work adapter selected by the
// chain parameters
func (f *factory) SetTestProofOfWork(proofOfWork model.ProofOfWork) {
	f.proofOfWork = proofOfWork
}
