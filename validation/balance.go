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
	"github.com/blinklabs-io/txcheck/cbor"
	"github.com/blinklabs-io/txcheck/ledger"
)

// InputsDecomposition is everything a transaction consumes: resolved input
// values, deregistration refunds, withdrawals, and minted assets
type InputsDecomposition struct {
	SpentValue  ledger.Value
	Refunds     int64
	Withdrawals int64
	Minted      ledger.MultiAsset
}

func (d *InputsDecomposition) Total() ledger.Value {
	ret := d.SpentValue.Clone()
	ret.Add(ledger.NewValueWithAssets(
		d.Refunds+d.Withdrawals,
		d.Minted,
	))
	return ret
}

// OutputsDecomposition is everything a transaction produces: output values,
// deposits, burned assets, the fee, and the treasury donation
type OutputsDecomposition struct {
	OutputValue ledger.Value
	Deposits    int64
	Burned      ledger.MultiAsset
	Fee         int64
	Donation    int64
}

func (d *OutputsDecomposition) Total() ledger.Value {
	ret := d.OutputValue.Clone()
	ret.Add(ledger.NewValueWithAssets(
		d.Deposits+d.Fee+d.Donation,
		d.Burned,
	))
	return ret
}

// validateBalance checks value conservation, the declared treasury value,
// withdrawal legality, and deposit/refund amounts
func validateBalance(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
	res *ValidationResult,
) {
	inputs := InputsDecomposition{}
	outputs := OutputsDecomposition{
		Fee:      tx.Body.Fee(),
		Donation: int64(tx.Body.Donation()), // #nosec G115
	}
	for _, input := range tx.Body.Inputs() {
		entry, ok := ctx.FindUtxo(input)
		if !ok || entry.Spent {
			// Reported by the limits validator as BadInputsUTxO
			continue
		}
		inputs.SpentValue.Add(entry.Utxo.Output.Amount())
	}
	for _, output := range tx.Body.Outputs() {
		outputs.OutputValue.Add(output.Amount())
	}
	if mint := tx.Body.Mint(); mint != nil {
		inputs.Minted, outputs.Burned = splitMint(mint)
	}
	validateWithdrawals(tx, ctx, res, &inputs)
	validateDeposits(tx, ctx, res, &inputs, &outputs)
	for i, proposal := range tx.Body.ProposalProcedures() {
		if proposal.Deposit != ctx.ProtocolParameters.GovActionDeposit {
			res.addError(WrongProposalDepositError{
				ProposalIndex: i,
				Declared:      proposal.Deposit,
				Expected:      ctx.ProtocolParameters.GovActionDeposit,
			})
		}
		outputs.Deposits += int64(proposal.Deposit) // #nosec G115
		if proposal.RewardAccount.NetworkId() != ctx.NetworkId {
			res.addError(WrongNetworkWithdrawalError{
				NetworkId: ctx.NetworkId,
				Address:   proposal.RewardAccount.String(),
			})
		}
	}
	consumed := inputs.Total()
	produced := outputs.Total()
	if !consumed.Compare(produced) {
		res.addError(ValueNotConservedUTxOError{
			Consumed: consumed,
			Produced: produced,
		})
	}
	if declared := tx.Body.CurrentTreasuryValue(); declared != nil {
		if *declared != ctx.TreasuryValue {
			res.addError(TreasuryValueMismatchError{
				Declared: *declared,
				Actual:   ctx.TreasuryValue,
			})
		}
	}
}

func validateWithdrawals(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
	res *ValidationResult,
	inputs *InputsDecomposition,
) {
	for addr, amount := range tx.Body.Withdrawals() {
		if addr == nil {
			continue
		}
		inputs.Withdrawals += int64(amount) // #nosec G115
		addrStr := addr.String()
		if addr.NetworkId() != ctx.NetworkId {
			res.addError(WrongNetworkWithdrawalError{
				NetworkId: ctx.NetworkId,
				Address:   addrStr,
			})
		}
		account, found := ctx.FindAccountByHash(addr.StakeKeyHash())
		if !found {
			res.addError(RewardAccountNotExistingError{Address: addrStr})
			continue
		}
		if !account.IsRegistered {
			res.addError(RewardAccountNotExistingError{Address: addrStr})
			continue
		}
		if account.RewardBalance == nil {
			res.addWarning(CannotVerifyWithdrawalAmountWarning{Address: addrStr})
		} else if amount != *account.RewardBalance {
			res.addError(WrongRequestedWithdrawalAmountError{
				Address:   addrStr,
				Requested: amount,
				Actual:    *account.RewardBalance,
			})
		}
		// Withdrawals from script accounts are gated by the script itself
		if !addr.StakeIsScript() && !account.HasVoteDelegation() {
			res.addError(
				WithdrawalNotAllowedBecauseNotDelegatedToDRepError{
					Address: addrStr,
				},
			)
		}
	}
}

func validateDeposits(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
	res *ValidationResult,
	inputs *InputsDecomposition,
	outputs *OutputsDecomposition,
) {
	pp := &ctx.ProtocolParameters
	keyDeposit := int64(pp.KeyDeposit)   // #nosec G115
	drepDeposit := int64(pp.DRepDeposit) // #nosec G115
	for certIdx, certWrapper := range tx.Body.Certificates() {
		switch tmpCert := certWrapper.Certificate.(type) {
		case *ledger.StakeRegistrationCertificate:
			outputs.Deposits += keyDeposit
		case *ledger.StakeDeregistrationCertificate:
			inputs.Refunds += accountRefund(
				ctx, res, certIdx,
				&tmpCert.StakeCredential, keyDeposit,
			)
		case *ledger.RegistrationCertificate:
			if tmpCert.Amount != keyDeposit {
				res.addError(WrongStakeDepositError{
					CertIndex: certIdx,
					Declared:  tmpCert.Amount,
					Expected:  keyDeposit,
				})
			}
			outputs.Deposits += tmpCert.Amount
		case *ledger.DeregistrationCertificate:
			checkRefund(
				ctx, res, certIdx,
				&tmpCert.StakeCredential, tmpCert.Amount,
			)
			inputs.Refunds += tmpCert.Amount
		case *ledger.StakeRegistrationDelegationCertificate:
			if tmpCert.Amount != keyDeposit {
				res.addError(WrongStakeDepositError{
					CertIndex: certIdx,
					Declared:  tmpCert.Amount,
					Expected:  keyDeposit,
				})
			}
			outputs.Deposits += tmpCert.Amount
		case *ledger.VoteRegistrationDelegationCertificate:
			if tmpCert.Amount != keyDeposit {
				res.addError(WrongStakeDepositError{
					CertIndex: certIdx,
					Declared:  tmpCert.Amount,
					Expected:  keyDeposit,
				})
			}
			outputs.Deposits += tmpCert.Amount
		case *ledger.StakeVoteRegistrationDelegationCertificate:
			if tmpCert.Amount != keyDeposit {
				res.addError(WrongStakeDepositError{
					CertIndex: certIdx,
					Declared:  tmpCert.Amount,
					Expected:  keyDeposit,
				})
			}
			outputs.Deposits += tmpCert.Amount
		case *ledger.PoolRegistrationCertificate:
			// Re-registering an existing pool is an update and pays nothing
			pool, found := ctx.FindPool(tmpCert.Operator)
			if !found || !pool.IsRegistered {
				outputs.Deposits += int64(pp.PoolDeposit) // #nosec G115
			}
		case *ledger.RegistrationDrepCertificate:
			if tmpCert.Amount != drepDeposit {
				res.addError(WrongDRepDepositError{
					CertIndex: certIdx,
					Declared:  tmpCert.Amount,
					Expected:  drepDeposit,
				})
			}
			outputs.Deposits += tmpCert.Amount
		case *ledger.DeregistrationDrepCertificate:
			drep, found := ctx.FindDRep(tmpCert.DrepCredential.Hash())
			if !found || drep.PaidDeposit == nil {
				res.addWarning(CannotVerifyRefundWarning{
					CertIndex:  certIdx,
					Credential: tmpCert.DrepCredential.String(),
				})
			} else if tmpCert.Amount != *drep.PaidDeposit {
				res.addError(WrongRefundAmountError{
					CertIndex: certIdx,
					Declared:  tmpCert.Amount,
					Expected:  *drep.PaidDeposit,
				})
			}
			inputs.Refunds += tmpCert.Amount
		}
	}
}

// accountRefund returns the refund credited by a pre-Conway style stake
// deregistration, which declares no amount of its own
func accountRefund(
	ctx *ValidationInputContext,
	res *ValidationResult,
	certIdx int,
	cred *ledger.Credential,
	keyDeposit int64,
) int64 {
	account, found := ctx.FindAccount(cred)
	if found && account.PaidDeposit != nil {
		return *account.PaidDeposit
	}
	res.addWarning(CannotVerifyRefundWarning{
		CertIndex:  certIdx,
		Credential: cred.String(),
	})
	return keyDeposit
}

// checkRefund verifies a declared refund amount against the recorded
// deposit for the account
func checkRefund(
	ctx *ValidationInputContext,
	res *ValidationResult,
	certIdx int,
	cred *ledger.Credential,
	declared int64,
) {
	account, found := ctx.FindAccount(cred)
	if !found || account.PaidDeposit == nil {
		res.addWarning(CannotVerifyRefundWarning{
			CertIndex:  certIdx,
			Credential: cred.String(),
		})
		return
	}
	if declared != *account.PaidDeposit {
		res.addError(WrongRefundAmountError{
			CertIndex: certIdx,
			Declared:  declared,
			Expected:  *account.PaidDeposit,
		})
	}
}

// splitMint separates a mint field into minted (positive) and burned
// (negative, sign flipped) asset bundles
func splitMint(mint *ledger.MultiAsset) (ledger.MultiAsset, ledger.MultiAsset) {
	minted := ledger.MultiAsset{}
	burned := ledger.MultiAsset{}
	for _, policyId := range mint.Policies() {
		for _, assetName := range mint.Assets(policyId) {
			amount := mint.Asset(policyId, assetName)
			if amount > 0 {
				minted.Add(
					singleAsset(policyId, assetName, amount),
				)
			} else if amount < 0 {
				burned.Add(
					singleAsset(policyId, assetName, -amount),
				)
			}
		}
	}
	return minted, burned
}

func singleAsset(
	policyId ledger.Blake2b224,
	assetName []byte,
	amount int64,
) *ledger.MultiAsset {
	ret := ledger.NewMultiAsset(
		map[ledger.Blake2b224]map[cbor.ByteString]int64{
			policyId: {cbor.NewByteString(assetName): amount},
		},
	)
	return &ret
}
