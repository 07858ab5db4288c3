// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package validation

import (
	"fmt"
	"strings"

	"github.com/blinklabs-io/txcheck/ledger"
)

// TxDecodeError wraps a failure to decode the raw transaction bytes or the
// snapshot document. It aborts the whole call rather than accumulating
type TxDecodeError struct {
	Err error
}

func (e TxDecodeError) Error() string {
	return "decode failure: " + e.Err.Error()
}

func (e TxDecodeError) Unwrap() error {
	return e.Err
}

type ValueNotConservedUTxOError struct {
	Consumed ledger.Value
	Produced ledger.Value
}

func (e ValueNotConservedUTxOError) Error() string {
	diff := e.Consumed.Clone()
	diff.Sub(e.Produced)
	return fmt.Sprintf(
		"value not conserved: consumed %s, produced %s, difference %s",
		e.Consumed.String(),
		e.Produced.String(),
		diff.String(),
	)
}

func (e ValueNotConservedUTxOError) RuleName() string {
	return RuleValueNotConservedUTxO
}

func (e ValueNotConservedUTxOError) Locations() []string {
	return []string{"transaction.body.inputs", "transaction.body.outputs"}
}

type TreasuryValueMismatchError struct {
	Declared int64
	Actual   int64
}

func (e TreasuryValueMismatchError) Error() string {
	return fmt.Sprintf(
		"declared treasury value %d does not match actual treasury value %d",
		e.Declared,
		e.Actual,
	)
}

func (e TreasuryValueMismatchError) RuleName() string {
	return RuleTreasuryValueMismatch
}

func (e TreasuryValueMismatchError) Locations() []string {
	return []string{"transaction.body.current_treasury_value"}
}

type RewardAccountNotExistingError struct {
	Address string
}

func (e RewardAccountNotExistingError) Error() string {
	return "withdrawal from unknown or unregistered reward account: " + e.Address
}

func (e RewardAccountNotExistingError) RuleName() string {
	return RuleRewardAccountNotExisting
}

func (e RewardAccountNotExistingError) Locations() []string {
	return []string{"transaction.body.withdrawals." + e.Address}
}

type WrongRequestedWithdrawalAmountError struct {
	Address   string
	Requested uint64
	Actual    uint64
}

func (e WrongRequestedWithdrawalAmountError) Error() string {
	return fmt.Sprintf(
		"withdrawal of %d from %s does not match reward balance %d",
		e.Requested,
		e.Address,
		e.Actual,
	)
}

func (e WrongRequestedWithdrawalAmountError) RuleName() string {
	return RuleWrongRequestedWithdrawalAmount
}

func (e WrongRequestedWithdrawalAmountError) Locations() []string {
	return []string{"transaction.body.withdrawals." + e.Address}
}

type WithdrawalNotAllowedBecauseNotDelegatedToDRepError struct {
	Address string
}

func (e WithdrawalNotAllowedBecauseNotDelegatedToDRepError) Error() string {
	return "withdrawal from account not delegated to a vote delegate: " + e.Address
}

func (e WithdrawalNotAllowedBecauseNotDelegatedToDRepError) RuleName() string {
	return RuleWithdrawalNotAllowedBecauseNotDelegatedToDRep
}

func (e WithdrawalNotAllowedBecauseNotDelegatedToDRepError) Locations() []string {
	return []string{"transaction.body.withdrawals." + e.Address}
}

type WrongStakeDepositError struct {
	CertIndex int
	Declared  int64
	Expected  int64
}

func (e WrongStakeDepositError) Error() string {
	return fmt.Sprintf(
		"certificate %d declares stake deposit %d, expected %d",
		e.CertIndex,
		e.Declared,
		e.Expected,
	)
}

func (e WrongStakeDepositError) RuleName() string {
	return RuleWrongStakeDeposit
}

func (e WrongStakeDepositError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type WrongDRepDepositError struct {
	CertIndex int
	Declared  int64
	Expected  int64
}

func (e WrongDRepDepositError) Error() string {
	return fmt.Sprintf(
		"certificate %d declares DRep deposit %d, expected %d",
		e.CertIndex,
		e.Declared,
		e.Expected,
	)
}

func (e WrongDRepDepositError) RuleName() string {
	return RuleWrongDRepDeposit
}

func (e WrongDRepDepositError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type WrongProposalDepositError struct {
	ProposalIndex int
	Declared      uint64
	Expected      uint64
}

func (e WrongProposalDepositError) Error() string {
	return fmt.Sprintf(
		"proposal %d declares deposit %d, expected %d",
		e.ProposalIndex,
		e.Declared,
		e.Expected,
	)
}

func (e WrongProposalDepositError) RuleName() string {
	return RuleWrongProposalDeposit
}

func (e WrongProposalDepositError) Locations() []string {
	return []string{
		fmt.Sprintf("transaction.body.proposal_procedures.%d", e.ProposalIndex),
	}
}

type WrongRefundAmountError struct {
	CertIndex int
	Declared  int64
	Expected  int64
}

func (e WrongRefundAmountError) Error() string {
	return fmt.Sprintf(
		"certificate %d declares refund %d, recorded deposit was %d",
		e.CertIndex,
		e.Declared,
		e.Expected,
	)
}

func (e WrongRefundAmountError) RuleName() string {
	return RuleWrongRefundAmount
}

func (e WrongRefundAmountError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type WrongNetworkWithdrawalError struct {
	NetworkId uint
	Address   string
}

func (e WrongNetworkWithdrawalError) Error() string {
	return fmt.Sprintf(
		"withdrawal reward account %s is not on network %d",
		e.Address,
		e.NetworkId,
	)
}

func (e WrongNetworkWithdrawalError) RuleName() string {
	return RuleWrongNetworkWithdrawal
}

func (e WrongNetworkWithdrawalError) Locations() []string {
	return []string{"transaction.body.withdrawals." + e.Address}
}

type FeeTooSmallUTxOError struct {
	MinimumFee   int64
	ActualFee    int64
	SizeFee      int64
	RefScriptFee int64
	ExecutionFee int64
}

func (e FeeTooSmallUTxOError) Error() string {
	return fmt.Sprintf(
		"fee %d is below minimum %d (size fee %d + reference script fee %d + execution fee %d)",
		e.ActualFee,
		e.MinimumFee,
		e.SizeFee,
		e.RefScriptFee,
		e.ExecutionFee,
	)
}

func (e FeeTooSmallUTxOError) RuleName() string {
	return RuleFeeTooSmallUTxO
}

func (e FeeTooSmallUTxOError) Locations() []string {
	return []string{"transaction.body.fee"}
}

type MissingVKeyWitnessesError struct {
	KeyHash ledger.Blake2b224
	Reason  string
}

func (e MissingVKeyWitnessesError) Error() string {
	return fmt.Sprintf(
		"missing verification key witness for %s (%s)",
		e.KeyHash.String(),
		e.Reason,
	)
}

func (e MissingVKeyWitnessesError) RuleName() string {
	return RuleMissingVKeyWitnesses
}

func (e MissingVKeyWitnessesError) Locations() []string {
	return []string{e.Reason, "transaction.witness_set.vkeywitness"}
}

type MissingScriptWitnessesError struct {
	ScriptHash ledger.ScriptHash
	Reason     string
}

func (e MissingScriptWitnessesError) Error() string {
	return fmt.Sprintf(
		"missing script witness for %s (%s)",
		e.ScriptHash.String(),
		e.Reason,
	)
}

func (e MissingScriptWitnessesError) RuleName() string {
	return RuleMissingScriptWitnesses
}

func (e MissingScriptWitnessesError) Locations() []string {
	return []string{e.Reason, "transaction.witness_set"}
}

type InvalidSignatureError struct {
	KeyHash ledger.Blake2b224
	Index   int
}

func (e InvalidSignatureError) Error() string {
	return "signature verification failed for key " + e.KeyHash.String()
}

func (e InvalidSignatureError) RuleName() string {
	return RuleInvalidSignature
}

func (e InvalidSignatureError) Locations() []string {
	return []string{
		fmt.Sprintf("transaction.witness_set.vkeywitness.%d", e.Index),
	}
}

type NativeScriptIsUnsuccessfulError struct {
	ScriptHash ledger.ScriptHash
	Reason     string
}

func (e NativeScriptIsUnsuccessfulError) Error() string {
	return "native script evaluated to false: " + e.ScriptHash.String()
}

func (e NativeScriptIsUnsuccessfulError) RuleName() string {
	return RuleNativeScriptIsUnsuccessful
}

func (e NativeScriptIsUnsuccessfulError) Locations() []string {
	return []string{e.Reason, "transaction.witness_set.native_scripts"}
}

type MissingRedeemerError struct {
	Tag   uint8
	Index uint32
}

func (e MissingRedeemerError) Error() string {
	return fmt.Sprintf(
		"missing redeemer for %s index %d",
		ledger.RedeemerTagName(e.Tag),
		e.Index,
	)
}

func (e MissingRedeemerError) RuleName() string {
	return RuleMissingRedeemer
}

func (e MissingRedeemerError) Locations() []string {
	return []string{"transaction.witness_set.redeemers"}
}

type MissingDatumError struct {
	DatumHash ledger.Blake2b256
	Utxo      string
}

func (e MissingDatumError) Error() string {
	return fmt.Sprintf(
		"missing datum %s for input %s",
		e.DatumHash.String(),
		e.Utxo,
	)
}

func (e MissingDatumError) RuleName() string {
	return RuleMissingDatum
}

func (e MissingDatumError) Locations() []string {
	return []string{"transaction.witness_set.plutus_data"}
}

type ExtraneousScriptWitnessesError struct {
	ScriptHash ledger.ScriptHash
}

func (e ExtraneousScriptWitnessesError) Error() string {
	return "extraneous script witness: " + e.ScriptHash.String()
}

func (e ExtraneousScriptWitnessesError) RuleName() string {
	return RuleExtraneousScriptWitnesses
}

func (e ExtraneousScriptWitnessesError) Locations() []string {
	return []string{"transaction.witness_set"}
}

type ExtraneousDatumWitnessesError struct {
	DatumHash ledger.Blake2b256
}

func (e ExtraneousDatumWitnessesError) Error() string {
	return "extraneous datum witness: " + e.DatumHash.String()
}

func (e ExtraneousDatumWitnessesError) RuleName() string {
	return RuleExtraneousDatumWitnesses
}

func (e ExtraneousDatumWitnessesError) Locations() []string {
	return []string{"transaction.witness_set.plutus_data"}
}

type ExtraneousSignatureError struct {
	KeyHash ledger.Blake2b224
	Index   int
}

func (e ExtraneousSignatureError) Error() string {
	return "extraneous signature from key " + e.KeyHash.String()
}

func (e ExtraneousSignatureError) RuleName() string {
	return RuleExtraneousSignature
}

func (e ExtraneousSignatureError) Locations() []string {
	return []string{
		fmt.Sprintf("transaction.witness_set.vkeywitness.%d", e.Index),
	}
}

type ScriptDataHashMismatchError struct {
	Declared *ledger.Blake2b256
	Computed *ledger.Blake2b256
}

func (e ScriptDataHashMismatchError) Error() string {
	declared := "(absent)"
	if e.Declared != nil {
		declared = e.Declared.String()
	}
	computed := "(absent)"
	if e.Computed != nil {
		computed = e.Computed.String()
	}
	return fmt.Sprintf(
		"declared script data hash %s does not match computed %s",
		declared,
		computed,
	)
}

func (e ScriptDataHashMismatchError) RuleName() string {
	return RuleScriptDataHashMismatch
}

func (e ScriptDataHashMismatchError) Locations() []string {
	return []string{"transaction.body.script_data_hash"}
}

type NoCollateralInputsError struct{}

func (e NoCollateralInputsError) Error() string {
	return "transaction uses scripts but declares no collateral inputs"
}

func (e NoCollateralInputsError) RuleName() string {
	return RuleNoCollateralInputs
}

func (e NoCollateralInputsError) Locations() []string {
	return []string{"transaction.body.collateral"}
}

type InsufficientCollateralError struct {
	Provided int64
	Required int64
}

func (e InsufficientCollateralError) Error() string {
	return fmt.Sprintf(
		"collateral of %d is below required %d",
		e.Provided,
		e.Required,
	)
}

func (e InsufficientCollateralError) RuleName() string {
	return RuleInsufficientCollateral
}

func (e InsufficientCollateralError) Locations() []string {
	return []string{"transaction.body.collateral"}
}

type CollateralIsLockedByScriptError struct {
	Index int
	Utxo  string
}

func (e CollateralIsLockedByScriptError) Error() string {
	return "collateral input is locked by a script: " + e.Utxo
}

func (e CollateralIsLockedByScriptError) RuleName() string {
	return RuleCollateralIsLockedByScript
}

func (e CollateralIsLockedByScriptError) Locations() []string {
	return []string{fmt.Sprintf("transaction.body.collateral.%d", e.Index)}
}

type CollateralContainsNonAdaError struct {
	Index int
	Utxo  string
}

func (e CollateralContainsNonAdaError) Error() string {
	return "collateral input carries non-ada assets without a collateral return output: " + e.Utxo
}

func (e CollateralContainsNonAdaError) RuleName() string {
	return RuleCollateralContainsNonAda
}

func (e CollateralContainsNonAdaError) Locations() []string {
	return []string{fmt.Sprintf("transaction.body.collateral.%d", e.Index)}
}

type CollateralTotalMismatchError struct {
	Declared int64
	Actual   int64
}

func (e CollateralTotalMismatchError) Error() string {
	return fmt.Sprintf(
		"declared total collateral %d does not match actual retained collateral %d",
		e.Declared,
		e.Actual,
	)
}

func (e CollateralTotalMismatchError) RuleName() string {
	return RuleCollateralTotalMismatch
}

func (e CollateralTotalMismatchError) Locations() []string {
	return []string{"transaction.body.total_collateral"}
}

type TooManyCollateralInputsError struct {
	Count int
	Max   uint
}

func (e TooManyCollateralInputsError) Error() string {
	return fmt.Sprintf(
		"%d collateral inputs exceeds maximum of %d",
		e.Count,
		e.Max,
	)
}

func (e TooManyCollateralInputsError) RuleName() string {
	return RuleTooManyCollateralInputs
}

func (e TooManyCollateralInputsError) Locations() []string {
	return []string{"transaction.body.collateral"}
}

type StakeAlreadyRegisteredError struct {
	CertIndex  int
	Credential string
}

func (e StakeAlreadyRegisteredError) Error() string {
	return "stake credential is already registered: " + e.Credential
}

func (e StakeAlreadyRegisteredError) RuleName() string {
	return RuleStakeAlreadyRegistered
}

func (e StakeAlreadyRegisteredError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type StakeNotRegisteredError struct {
	CertIndex  int
	Credential string
}

func (e StakeNotRegisteredError) Error() string {
	return "stake credential is not registered: " + e.Credential
}

func (e StakeNotRegisteredError) RuleName() string {
	return RuleStakeNotRegistered
}

func (e StakeNotRegisteredError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type PoolNotRegisteredError struct {
	CertIndex int
	PoolId    string
}

func (e PoolNotRegisteredError) Error() string {
	return "pool is not registered: " + e.PoolId
}

func (e PoolNotRegisteredError) RuleName() string {
	return RulePoolNotRegistered
}

func (e PoolNotRegisteredError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type PoolCostTooLowError struct {
	CertIndex int
	Declared  uint64
	Minimum   uint64
}

func (e PoolCostTooLowError) Error() string {
	return fmt.Sprintf(
		"declared pool cost %d is below minimum %d",
		e.Declared,
		e.Minimum,
	)
}

func (e PoolCostTooLowError) RuleName() string {
	return RulePoolCostTooLow
}

func (e PoolCostTooLowError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type PoolRetirementEpochInvalidError struct {
	CertIndex int
	Epoch     uint64
	MinEpoch  uint64
	MaxEpoch  uint64
}

func (e PoolRetirementEpochInvalidError) Error() string {
	return fmt.Sprintf(
		"pool retirement epoch %d outside allowed window [%d, %d]",
		e.Epoch,
		e.MinEpoch,
		e.MaxEpoch,
	)
}

func (e PoolRetirementEpochInvalidError) RuleName() string {
	return RulePoolRetirementEpochInvalid
}

func (e PoolRetirementEpochInvalidError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type DRepAlreadyRegisteredError struct {
	CertIndex  int
	Credential string
}

func (e DRepAlreadyRegisteredError) Error() string {
	return "DRep is already registered: " + e.Credential
}

func (e DRepAlreadyRegisteredError) RuleName() string {
	return RuleDRepAlreadyRegistered
}

func (e DRepAlreadyRegisteredError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type DRepNotRegisteredError struct {
	CertIndex  int
	Credential string
}

func (e DRepNotRegisteredError) Error() string {
	return "DRep is not registered: " + e.Credential
}

func (e DRepNotRegisteredError) RuleName() string {
	return RuleDRepNotRegistered
}

func (e DRepNotRegisteredError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type CommitteeNotMemberError struct {
	CertIndex  int
	Credential string
}

func (e CommitteeNotMemberError) Error() string {
	return "credential is not a committee member: " + e.Credential
}

func (e CommitteeNotMemberError) RuleName() string {
	return RuleCommitteeNotMember
}

func (e CommitteeNotMemberError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type CommitteeHasResignedError struct {
	CertIndex  int
	Credential string
}

func (e CommitteeHasResignedError) Error() string {
	return "committee member has already resigned: " + e.Credential
}

func (e CommitteeHasResignedError) RuleName() string {
	return RuleCommitteeHasResigned
}

func (e CommitteeHasResignedError) Locations() []string {
	return []string{certLocation(e.CertIndex)}
}

type OutputTooSmallUTxOError struct {
	Index       int
	Location    string
	MinimumCoin int64
	ActualCoin  int64
}

func (e OutputTooSmallUTxOError) Error() string {
	return fmt.Sprintf(
		"output holds %d lovelace, below required minimum %d",
		e.ActualCoin,
		e.MinimumCoin,
	)
}

func (e OutputTooSmallUTxOError) RuleName() string {
	return RuleOutputTooSmallUTxO
}

func (e OutputTooSmallUTxOError) Locations() []string {
	if e.Location != "" {
		return []string{e.Location}
	}
	return []string{fmt.Sprintf("transaction.body.outputs.%d", e.Index)}
}

type OutputTooBigUTxOError struct {
	Index int
	Size  int
	Max   uint
}

func (e OutputTooBigUTxOError) Error() string {
	return fmt.Sprintf(
		"serialized output value size %d exceeds maximum %d",
		e.Size,
		e.Max,
	)
}

func (e OutputTooBigUTxOError) RuleName() string {
	return RuleOutputTooBigUTxO
}

func (e OutputTooBigUTxOError) Locations() []string {
	return []string{fmt.Sprintf("transaction.body.outputs.%d", e.Index)}
}

type InputSetEmptyUTxOError struct{}

func (e InputSetEmptyUTxOError) Error() string {
	return "transaction has an empty input set"
}

func (e InputSetEmptyUTxOError) RuleName() string {
	return RuleInputSetEmptyUTxO
}

func (e InputSetEmptyUTxOError) Locations() []string {
	return []string{"transaction.body.inputs"}
}

type MaxTxSizeUTxOError struct {
	Size int
	Max  uint
}

func (e MaxTxSizeUTxOError) Error() string {
	return fmt.Sprintf(
		"transaction size %d exceeds maximum %d",
		e.Size,
		e.Max,
	)
}

func (e MaxTxSizeUTxOError) RuleName() string {
	return RuleMaxTxSizeUTxO
}

func (e MaxTxSizeUTxOError) Locations() []string {
	return []string{"transaction"}
}

type ExUnitsTooBigUTxOError struct {
	Axis     string
	Declared int64
	Max      int64
}

func (e ExUnitsTooBigUTxOError) Error() string {
	return fmt.Sprintf(
		"total declared execution %s %d exceeds maximum %d",
		e.Axis,
		e.Declared,
		e.Max,
	)
}

func (e ExUnitsTooBigUTxOError) RuleName() string {
	return RuleExUnitsTooBigUTxO
}

func (e ExUnitsTooBigUTxOError) Locations() []string {
	return []string{"transaction.witness_set.redeemers"}
}

type RefScriptsSizeTooBigError struct {
	Size int
	Max  int
}

func (e RefScriptsSizeTooBigError) Error() string {
	return fmt.Sprintf(
		"total reference script size %d exceeds maximum %d",
		e.Size,
		e.Max,
	)
}

func (e RefScriptsSizeTooBigError) RuleName() string {
	return RuleRefScriptsSizeTooBig
}

func (e RefScriptsSizeTooBigError) Locations() []string {
	return []string{"transaction.body.reference_inputs"}
}

type OutsideValidityIntervalUTxOError struct {
	ValidityStart *uint64
	Ttl           *uint64
	Slot          uint64
}

func (e OutsideValidityIntervalUTxOError) Error() string {
	start := "-inf"
	if e.ValidityStart != nil {
		start = fmt.Sprintf("%d", *e.ValidityStart)
	}
	end := "+inf"
	if e.Ttl != nil {
		end = fmt.Sprintf("%d", *e.Ttl)
	}
	return fmt.Sprintf(
		"current slot %d outside validity interval [%s, %s)",
		e.Slot,
		start,
		end,
	)
}

func (e OutsideValidityIntervalUTxOError) RuleName() string {
	return RuleOutsideValidityIntervalUTxO
}

func (e OutsideValidityIntervalUTxOError) Locations() []string {
	return []string{
		"transaction.body.validity_interval_start",
		"transaction.body.ttl",
	}
}

type BadInputsUTxOError struct {
	Utxos []string
}

func (e BadInputsUTxOError) Error() string {
	return "inputs missing from UTxO set or already spent: " +
		strings.Join(e.Utxos, ", ")
}

func (e BadInputsUTxOError) RuleName() string {
	return RuleBadInputsUTxO
}

func (e BadInputsUTxOError) Locations() []string {
	return []string{"transaction.body.inputs"}
}

type ReferenceInputOverlapsWithInputError struct {
	Utxo string
}

func (e ReferenceInputOverlapsWithInputError) Error() string {
	return "reference input also appears as a spent input: " + e.Utxo
}

func (e ReferenceInputOverlapsWithInputError) RuleName() string {
	return RuleReferenceInputOverlapsWithInput
}

func (e ReferenceInputOverlapsWithInputError) Locations() []string {
	return []string{
		"transaction.body.inputs",
		"transaction.body.reference_inputs",
	}
}

type WrongNetworkError struct {
	NetworkId uint
	Index     int
	Address   string
}

func (e WrongNetworkError) Error() string {
	return fmt.Sprintf(
		"output address %s is not on network %d",
		e.Address,
		e.NetworkId,
	)
}

func (e WrongNetworkError) RuleName() string {
	return RuleWrongNetwork
}

func (e WrongNetworkError) Locations() []string {
	return []string{fmt.Sprintf("transaction.body.outputs.%d", e.Index)}
}

type AuxiliaryDataHashMismatchError struct {
	Declared ledger.Blake2b256
	Computed ledger.Blake2b256
}

func (e AuxiliaryDataHashMismatchError) Error() string {
	return fmt.Sprintf(
		"declared auxiliary data hash %s does not match computed %s",
		e.Declared.String(),
		e.Computed.String(),
	)
}

func (e AuxiliaryDataHashMismatchError) RuleName() string {
	return RuleAuxiliaryDataHashMismatch
}

func (e AuxiliaryDataHashMismatchError) Locations() []string {
	return []string{"transaction.body.auxiliary_data_hash"}
}

type AuxiliaryDataHashMissingError struct {
	Computed ledger.Blake2b256
}

func (e AuxiliaryDataHashMissingError) Error() string {
	return "auxiliary data attached but no hash declared in transaction body"
}

func (e AuxiliaryDataHashMissingError) RuleName() string {
	return RuleAuxiliaryDataHashMissing
}

func (e AuxiliaryDataHashMissingError) Locations() []string {
	return []string{"transaction.body.auxiliary_data_hash"}
}

type AuxiliaryDataHashPresentButNotExpectedError struct {
	Declared ledger.Blake2b256
}

func (e AuxiliaryDataHashPresentButNotExpectedError) Error() string {
	return "auxiliary data hash declared but no auxiliary data attached"
}

func (e AuxiliaryDataHashPresentButNotExpectedError) RuleName() string {
	return RuleAuxiliaryDataHashUnexpected
}

func (e AuxiliaryDataHashPresentButNotExpectedError) Locations() []string {
	return []string{"transaction.body.auxiliary_data_hash"}
}

func certLocation(idx int) string {
	return fmt.Sprintf("transaction.body.certificates.%d", idx)
}
