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
	"github.com/blinklabs-io/txcheck/ledger"
)

// validateCollateral checks collateral sufficiency and eligibility. The
// checks only apply when the transaction carries redeemers
func validateCollateral(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
	res *ValidationResult,
) {
	if tx.Witnesses().Redeemers().Len() == 0 {
		return
	}
	collateral := tx.Body.Collateral()
	if len(collateral) == 0 {
		res.addError(NoCollateralInputsError{})
		return
	}
	pp := &ctx.ProtocolParameters
	if pp.MaxCollateralInputs > 0 &&
		uint(len(collateral)) > pp.MaxCollateralInputs { // #nosec G115
		res.addError(TooManyCollateralInputsError{
			Count: len(collateral),
			Max:   pp.MaxCollateralInputs,
		})
	}
	collateralReturn := tx.Body.CollateralReturn()
	total := ledger.NewValue(0)
	for i, input := range collateral {
		entry, ok := ctx.FindUtxo(input)
		if !ok || entry.Spent {
			// Reported by the limits validator as BadInputsUTxO
			continue
		}
		output := entry.Utxo.Output
		if output.Address().PaymentIsScript() {
			res.addError(CollateralIsLockedByScriptError{
				Index: i,
				Utxo:  UtxoKey(input),
			})
		}
		amount := output.Amount()
		if amount.HasAssets() && collateralReturn == nil {
			res.addError(CollateralContainsNonAdaError{
				Index: i,
				Utxo:  UtxoKey(input),
			})
		}
		total.Add(amount)
	}
	retained := total.Coin
	if collateralReturn != nil {
		retained -= collateralReturn.Amount().Coin
		minCoin := minOutputCoin(pp, collateralReturn)
		if collateralReturn.Amount().Coin < minCoin {
			res.addError(OutputTooSmallUTxOError{
				Location:    "transaction.body.collateral_return",
				MinimumCoin: minCoin,
				ActualCoin:  collateralReturn.Amount().Coin,
			})
		}
	}
	// Required collateral rounds up
	fee := tx.Body.Fee()
	required := (fee*int64(pp.CollateralPercentage) + 99) / 100 // #nosec G115
	if retained < required {
		res.addError(InsufficientCollateralError{
			Provided: retained,
			Required: required,
		})
	}
	if declared := tx.Body.TotalCollateral(); declared != 0 &&
		declared != retained {
		res.addError(CollateralTotalMismatchError{
			Declared: declared,
			Actual:   retained,
		})
	}
}
