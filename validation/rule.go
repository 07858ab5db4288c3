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

// Rule names for phase-1 errors
const (
	RuleValueNotConservedUTxO                         = "ValueNotConservedUTxO"
	RuleTreasuryValueMismatch                         = "TreasuryValueMismatch"
	RuleRewardAccountNotExisting                      = "RewardAccountNotExisting"
	RuleWrongRequestedWithdrawalAmount                = "WrongRequestedWithdrawalAmount"
	RuleWithdrawalNotAllowedBecauseNotDelegatedToDRep = "WithdrawalNotAllowedBecauseNotDelegatedToDRep"
	RuleWrongStakeDeposit                             = "WrongStakeDeposit"
	RuleWrongDRepDeposit                              = "WrongDRepDeposit"
	RuleWrongProposalDeposit                          = "WrongProposalDeposit"
	RuleWrongRefundAmount                             = "WrongRefundAmount"
	RuleWrongNetworkWithdrawal                        = "WrongNetworkWithdrawal"
	RuleFeeTooSmallUTxO                               = "FeeTooSmallUTxO"
	RuleMissingVKeyWitnesses                          = "MissingVKeyWitnesses"
	RuleMissingScriptWitnesses                        = "MissingScriptWitnesses"
	RuleInvalidSignature                              = "InvalidSignature"
	RuleNativeScriptIsUnsuccessful                    = "NativeScriptIsUnsuccessful"
	RuleMissingRedeemer                               = "MissingRedeemer"
	RuleMissingDatum                                  = "MissingDatum"
	RuleExtraneousScriptWitnesses                     = "ExtraneousScriptWitnesses"
	RuleExtraneousDatumWitnesses                      = "ExtraneousDatumWitnesses"
	RuleExtraneousSignature                           = "ExtraneousSignature"
	RuleScriptDataHashMismatch                        = "ScriptDataHashMismatch"
	RuleNoCollateralInputs                            = "NoCollateralInputs"
	RuleInsufficientCollateral                        = "InsufficientCollateral"
	RuleCollateralIsLockedByScript                    = "CollateralIsLockedByScript"
	RuleCollateralContainsNonAda                      = "CollateralContainsNonAda"
	RuleCollateralTotalMismatch                       = "CollateralTotalMismatch"
	RuleTooManyCollateralInputs                       = "TooManyCollateralInputs"
	RuleStakeAlreadyRegistered                        = "StakeAlreadyRegistered"
	RuleStakeNotRegistered                            = "StakeNotRegistered"
	RulePoolNotRegistered                             = "PoolNotRegistered"
	RulePoolCostTooLow                                = "PoolCostTooLow"
	RulePoolRetirementEpochInvalid                    = "PoolRetirementEpochInvalid"
	RuleDRepAlreadyRegistered                         = "DRepAlreadyRegistered"
	RuleDRepNotRegistered                             = "DRepNotRegistered"
	RuleCommitteeNotMember                            = "CommitteeNotMember"
	RuleCommitteeHasResigned                          = "CommitteeHasResigned"
	RuleOutputTooSmallUTxO                            = "OutputTooSmallUTxO"
	RuleOutputTooBigUTxO                              = "OutputTooBigUTxO"
	RuleInputSetEmptyUTxO                             = "InputSetEmptyUTxO"
	RuleMaxTxSizeUTxO                                 = "MaxTxSizeUTxO"
	RuleExUnitsTooBigUTxO                             = "ExUnitsTooBigUTxO"
	RuleRefScriptsSizeTooBig                          = "RefScriptsSizeTooBig"
	RuleOutsideValidityIntervalUTxO                   = "OutsideValidityIntervalUTxO"
	RuleBadInputsUTxO                                 = "BadInputsUTxO"
	RuleReferenceInputOverlapsWithInput               = "ReferenceInputOverlapsWithInput"
	RuleWrongNetwork                                  = "WrongNetwork"
	RuleAuxiliaryDataHashMismatch                     = "AuxiliaryDataHashMismatch"
	RuleAuxiliaryDataHashMissing                      = "AuxiliaryDataHashMissing"
	RuleAuxiliaryDataHashUnexpected                   = "AuxiliaryDataHashPresentButNotExpected"
)

// Rule names for phase-1 warnings
const (
	RuleFeeBiggerThanMinimum      = "FeeBiggerThanMinimum"
	RuleCannotVerifyRefund        = "CannotVerifyRefund"
	RuleDuplicateRegistrationInTx = "DuplicateRegistrationInTx"
	RuleInputsNotInCanonicalOrder = "InputsNotInCanonicalOrder"
	RuleCannotVerifyWithdrawal    = "CannotVerifyWithdrawalAmount"
)

// Rule names for phase-2 findings
const (
	RuleMissingScriptForRedeemer           = "MissingScriptForRedeemer"
	RuleNativeScriptIsReferencedByRedeemer = "NativeScriptIsReferencedByRedeemer"
	RuleNoCostModel                        = "NoCostModel"
	RuleNoEnoughBudget                     = "NoEnoughBudget"
	RuleMachineError                       = "MachineError"
	RuleBudgetBiggerThanExpected           = "BudgetBiggerThanExpected"
)

// Finding is a single structured validation error or warning
type Finding interface {
	error
	RuleName() string
	Locations() []string
}
