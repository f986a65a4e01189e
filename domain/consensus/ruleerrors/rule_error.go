package ruleerrors

import (
	"fmt"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrBlockVersionIsOld indicates that the block version is lower
	// than the oldest version this engine accepts.
	ErrBlockVersionIsOld = newRuleError("ErrBlockVersionIsOld")

	// ErrUnexpectedParent indicates that a header does not point to the
	// parent it is verified against.
	ErrUnexpectedParent = newRuleError("ErrUnexpectedParent")

	// ErrInvalidHeight indicates that a header's height is not its
	// parent's height plus one.
	ErrInvalidHeight = newRuleError("ErrInvalidHeight")

	// ErrWrongEpoch indicates that a header declares an epoch other than
	// the one its height belongs to.
	ErrWrongEpoch = newRuleError("ErrWrongEpoch")

	// ErrTimestampTooEarly indicates the time on the block is not after the
	// median of the last several blocks.
	ErrTimestampTooEarly = newRuleError("ErrTimestampTooEarly")

	// ErrDifficultyMismatch indicates that the compact target of a header
	// is not the one computed for its epoch.
	ErrDifficultyMismatch = newRuleError("ErrDifficultyMismatch")

	// ErrPowInvalid indicates that the proof-of-work seal of a header does not
	// satisfy its difficulty.
	ErrPowInvalid = newRuleError("ErrPowInvalid")

	// ErrCommitmentMismatch indicates that a merkle root or uncles hash
	// declared by a header does not match the block body.
	ErrCommitmentMismatch = newRuleError("ErrCommitmentMismatch")

	// ErrNoTransactions indicates the block does not have even the
	// cellbase transaction.
	ErrNoTransactions = newRuleError("ErrNoTransactions")

	// ErrCellbaseMalformed indicates that the first transaction of a block
	// is not a well formed cellbase, or that a cellbase appears elsewhere.
	ErrCellbaseMalformed = newRuleError("ErrCellbaseMalformed")

	// ErrCellbaseRewardMismatch indicates that the cellbase does not pay
	// exactly the reward due to the block.
	ErrCellbaseRewardMismatch = newRuleError("ErrCellbaseRewardMismatch")

	// ErrHeightOutsideEpoch indicates that a reward was requested for a
	// height the given epoch does not contain.
	ErrHeightOutsideEpoch = newRuleError("ErrHeightOutsideEpoch")

	// ErrTransactionVersion indicates that a transaction has an unsupported version.
	ErrTransactionVersion = newRuleError("ErrTransactionVersion")

	// ErrNoTxInputs indicates a transaction does not have any inputs. A
	// valid transaction must have at least one input.
	ErrNoTxInputs = newRuleError("ErrNoTxInputs")

	// ErrNoTxOutputs indicates a transaction does not create any cells.
	ErrNoTxOutputs = newRuleError("ErrNoTxOutputs")

	// ErrOutputsDataLengthMismatch indicates that a transaction does not
	// carry exactly one data entry per output.
	ErrOutputsDataLengthMismatch = newRuleError("ErrOutputsDataLengthMismatch")

	// ErrDuplicateInput indicates a transaction references the same
	// input more than once, or that two transactions of a block spend
	// the same cell.
	ErrDuplicateInput = newRuleError("ErrDuplicateInput")

	// ErrDuplicateDeps indicates a transaction lists the same cell dep twice.
	ErrDuplicateDeps = newRuleError("ErrDuplicateDeps")

	// ErrChainedTransaction indicates that a block contains a transaction
	// that spends an output of a transaction in the same block.
	ErrChainedTransaction = newRuleError("ErrChainedTransaction")

	// ErrCapacityOverflow indicates that a sum of capacities does not fit
	// in 64 bits.
	ErrCapacityOverflow = newRuleError("ErrCapacityOverflow")

	// ErrInsufficientCellCapacity indicates that an output's capacity is
	// lower than the capacity its own bytes occupy.
	ErrInsufficientCellCapacity = newRuleError("ErrInsufficientCellCapacity")

	// ErrCapacityConservationViolated indicates a transaction creates more
	// capacity than it consumes.
	ErrCapacityConservationViolated = newRuleError("ErrCapacityConservationViolated")

	// ErrCellbaseImmature indicates that a transaction spends a cellbase
	// output before it reached the required maturity.
	ErrCellbaseImmature = newRuleError("ErrCellbaseImmature")

	// ErrInvalidSince indicates a since field with unknown flag bits or
	// an unsupported metric.
	ErrInvalidSince = newRuleError("ErrInvalidSince")

	// ErrImmatureSince indicates that an input's time lock is not satisfied yet.
	ErrImmatureSince = newRuleError("ErrImmatureSince")

	// ErrUnresolvableInput indicates that an input or cell dep of a transaction
	// could not be bound to a live cell. Use errors.As with
	// UnresolvableInput to find out whether the failure is retriable.
	ErrUnresolvableInput = newRuleError("ErrUnresolvableInput")

	// ErrScriptFailure indicates that a script exited with a non-zero code,
	// or could not be run at all.
	ErrScriptFailure = newRuleError("ErrScriptFailure")

	// ErrCyclesExceeded indicates that script execution of a transaction or a
	// block consumed more cycles than allowed.
	ErrCyclesExceeded = newRuleError("ErrCyclesExceeded")

	// ErrUncleIneligible indicates that an uncle header is not allowed to be
	// included by the block.
	ErrUncleIneligible = newRuleError("ErrUncleIneligible")
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block or transaction failed due to one of the many validation
// rules. The caller can use type assertions to determine if a failure was
// specifically due to a rule violation.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

// Is makes a structured RuleError match the sentinel of the same kind,
// so that errors.Is(err, ErrScriptFailure) holds for errors built by
// NewErrScriptFailure.
func (e RuleError) Is(target error) bool {
	targetRuleError, ok := target.(RuleError)
	if !ok {
		return false
	}
	return targetRuleError.inner == nil && targetRuleError.message == e.message
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// IsRuleError returns whether err is, or wraps, a RuleError
func IsRuleError(err error) bool {
	return errors.As(err, &RuleError{})
}

// UnresolvableInput carries the outpoint that could not be resolved and
// the status the chain state reported for it.
type UnresolvableInput struct {
	Outpoint externalapi.DomainOutpoint
	Status   externalapi.CellStatus
	IsDep    bool
}

func (e UnresolvableInput) Error() string {
	kind := "input"
	if e.IsDep {
		kind = "cell dep"
	}
	return fmt.Sprintf("%s %s is %s", kind, e.Outpoint, e.Status)
}

// Retriable returns whether the outpoint may still become live. Unknown
// outpoints are retriable, for example when the parent of an orphan
// transaction is not yet known. Dead outpoints never become live again.
func (e UnresolvableInput) Retriable() bool {
	return e.Status != externalapi.CellStatusDead
}

// NewErrUnresolvableInput creates a new UnresolvableInput error wrapped in a RuleError
func NewErrUnresolvableInput(outpoint *externalapi.DomainOutpoint, status externalapi.CellStatus, isDep bool) error {
	return errors.WithStack(RuleError{
		message: ErrUnresolvableInput.message,
		inner:   UnresolvableInput{Outpoint: *outpoint, Status: status, IsDep: isDep},
	})
}

// IsRetriable returns whether err is an ErrUnresolvableInput that the caller
// may retry once more of the chain becomes known.
func IsRetriable(err error) bool {
	var unresolvable UnresolvableInput
	return errors.As(err, &unresolvable) && unresolvable.Retriable()
}

// ScriptGroupType tells whether a script ran as a lock or as a type script
type ScriptGroupType string

// Script group types
const (
	ScriptGroupTypeLock ScriptGroupType = "lock"
	ScriptGroupTypeType ScriptGroupType = "type"
)

// ScriptFailure carries the exit information of a failing script
type ScriptFailure struct {
	ScriptHash externalapi.DomainHash
	GroupType  ScriptGroupType
	ExitCode   int8
	Detail     string
}

func (e ScriptFailure) Error() string {
	message := fmt.Sprintf("%s script %s", e.GroupType, e.ScriptHash)
	if e.Detail != "" {
		return fmt.Sprintf("%s failed: %s", message, e.Detail)
	}
	return fmt.Sprintf("%s exited with code %d", message, e.ExitCode)
}

// NewErrScriptFailure creates a new ScriptFailure error wrapped in a RuleError
func NewErrScriptFailure(scriptHash *externalapi.DomainHash, groupType ScriptGroupType,
	exitCode int8, detail string) error {

	return errors.WithStack(RuleError{
		message: ErrScriptFailure.message,
		inner: ScriptFailure{
			ScriptHash: *scriptHash,
			GroupType:  groupType,
			ExitCode:   exitCode,
			Detail:     detail,
		},
	})
}
