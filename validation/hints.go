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

// ruleHints maps each rule name to a short remediation hint. Every rule
// name constant has an entry; an empty string means no useful hint exists
var ruleHints = map[string]string{
	RuleValueNotConservedUTxO:                         "adjust outputs, fee, mint, deposits, or withdrawals so consumed equals produced",
	RuleTreasuryValueMismatch:                         "set current_treasury_value to the treasury amount in the provided context, or omit the field",
	RuleRewardAccountNotExisting:                      "register the stake credential before withdrawing, or fix the reward address",
	RuleWrongRequestedWithdrawalAmount:                "withdrawals must drain the full reward balance, partial withdrawals are rejected",
	RuleWithdrawalNotAllowedBecauseNotDelegatedToDRep: "delegate the reward account's voting power to a DRep before withdrawing",
	RuleWrongStakeDeposit:                             "set the certificate deposit to the current stakeAddressDeposit protocol parameter",
	RuleWrongDRepDeposit:                              "set the certificate deposit to the current dRepDeposit protocol parameter",
	RuleWrongProposalDeposit:                          "set the proposal deposit to the current govActionDeposit protocol parameter",
	RuleWrongRefundAmount:                             "the refund must equal the deposit paid at registration time",
	RuleWrongNetworkWithdrawal:                        "use reward addresses for the network the transaction targets",
	RuleFeeTooSmallUTxO:                               "raise the fee to at least the computed minimum",
	RuleMissingVKeyWitnesses:                          "add a vkey witness signed by the required key",
	RuleMissingScriptWitnesses:                        "attach the script in the witness set or supply it via a reference input",
	RuleInvalidSignature:                              "re-sign the transaction body hash with the correct key",
	RuleNativeScriptIsUnsuccessful:                    "satisfy the native script's signature and timelock conditions",
	RuleMissingRedeemer:                               "add a redeemer for every Plutus script use",
	RuleMissingDatum:                                  "attach the datum whose hash the spent output references",
	RuleExtraneousScriptWitnesses:                     "remove scripts the transaction never uses",
	RuleExtraneousDatumWitnesses:                      "remove datums no spent output or script references",
	RuleExtraneousSignature:                           "remove signatures from keys the transaction does not require",
	RuleScriptDataHashMismatch:                        "recompute script_data_hash over redeemers, datums, and the cost model language views",
	RuleNoCollateralInputs:                            "add at least one collateral input when the transaction runs Plutus scripts",
	RuleInsufficientCollateral:                        "increase collateral to at least fee * collateralPercentage / 100",
	RuleCollateralIsLockedByScript:                    "collateral inputs must be locked by verification keys, not scripts",
	RuleCollateralContainsNonAda:                      "add a collateral return output to receive the non-ada assets",
	RuleCollateralTotalMismatch:                       "set total_collateral to collateral inputs minus collateral return",
	RuleTooManyCollateralInputs:                       "reduce collateral inputs to at most maxCollateralInputs",
	RuleStakeAlreadyRegistered:                        "drop the duplicate registration certificate",
	RuleStakeNotRegistered:                            "register the stake credential before delegating or deregistering it",
	RulePoolNotRegistered:                             "delegate to a pool that is registered in the provided context",
	RulePoolCostTooLow:                                "raise the declared pool cost to at least minPoolCost",
	RulePoolRetirementEpochInvalid:                    "pick a retirement epoch after the current epoch and within poolRetireMaxEpoch",
	RuleDRepAlreadyRegistered:                         "drop the duplicate DRep registration certificate",
	RuleDRepNotRegistered:                             "register the DRep before updating or deregistering it",
	RuleCommitteeNotMember:                            "only credentials in the current committee may authorize or resign",
	RuleCommitteeHasResigned:                          "a resigned committee member cannot act again",
	RuleOutputTooSmallUTxO:                            "raise the output's lovelace to the size-based minimum",
	RuleOutputTooBigUTxO:                              "split the output's assets across multiple outputs",
	RuleInputSetEmptyUTxO:                             "every transaction must spend at least one input",
	RuleMaxTxSizeUTxO:                                 "shrink the transaction below maxTxSize bytes",
	RuleExUnitsTooBigUTxO:                             "lower the declared execution units below maxTxExecutionUnits",
	RuleRefScriptsSizeTooBig:                          "reference fewer or smaller scripts",
	RuleOutsideValidityIntervalUTxO:                   "widen the validity interval or submit at an eligible slot",
	RuleBadInputsUTxO:                                 "spend only inputs present and unspent in the provided UTxO set",
	RuleReferenceInputOverlapsWithInput:               "an input may be spent or referenced, not both",
	RuleWrongNetwork:                                  "use output addresses for the network the transaction targets",
	RuleAuxiliaryDataHashMismatch:                     "recompute auxiliary_data_hash over the attached auxiliary data",
	RuleAuxiliaryDataHashMissing:                      "declare auxiliary_data_hash when auxiliary data is attached",
	RuleAuxiliaryDataHashUnexpected:                   "attach the auxiliary data or drop the hash from the body",

	RuleFeeBiggerThanMinimum:      "",
	RuleCannotVerifyRefund:        "provide the account's paid deposit in the context to verify the refund",
	RuleDuplicateRegistrationInTx: "",
	RuleInputsNotInCanonicalOrder: "sort inputs by transaction id, then by output index",
	RuleCannotVerifyWithdrawal:    "provide the account's reward balance in the context to verify the amount",

	RuleMissingScriptForRedeemer:           "every redeemer must point at a Plutus script use in the transaction",
	RuleNativeScriptIsReferencedByRedeemer: "native scripts take no redeemer, remove it",
	RuleNoCostModel:                        "provide a cost model for the script's Plutus version in the protocol parameters",
	RuleNoEnoughBudget:                     "raise the redeemer's declared execution units to cover actual consumption",
	RuleMachineError:                       "the script itself rejected the transaction, inspect the trace logs",
	RuleBudgetBiggerThanExpected:           "",
}

// Hint returns the remediation hint for a finding, or an empty string
func Hint(f Finding) string {
	if f == nil {
		return ""
	}
	return ruleHints[f.RuleName()]
}
