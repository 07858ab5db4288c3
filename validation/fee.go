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
	"math/big"

	"github.com/blinklabs-io/txcheck/ledger"
)

// Reference script pricing: the per-byte price grows by a fifth for every
// full tier of bytes
const (
	refScriptFeeTierSize   = 25600
	refScriptFeeMultiplier = 1.2
)

// validateFee recomputes the minimum fee and compares it against the
// declared fee. Overpaying by more than a tenth produces a warning
func validateFee(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
	res *ValidationResult,
) {
	pp := &ctx.ProtocolParameters
	// #nosec G115
	sizeFee := int64(pp.MinFeeA)*int64(len(tx.Cbor())) + int64(pp.MinFeeB)
	refScriptFee := referenceScriptFee(
		pp,
		totalReferenceScriptSize(tx, ctx),
	)
	executionFee := executionUnitsFee(pp, tx.Witnesses().Redeemers())
	minFee := sizeFee + refScriptFee + executionFee
	actualFee := tx.Body.Fee()
	if actualFee < minFee {
		res.addError(FeeTooSmallUTxOError{
			MinimumFee:   minFee,
			ActualFee:    actualFee,
			SizeFee:      sizeFee,
			RefScriptFee: refScriptFee,
			ExecutionFee: executionFee,
		})
		return
	}
	if actualFee > minFee+minFee/10 {
		res.addWarning(FeeBiggerThanMinimumWarning{
			MinimumFee: minFee,
			ActualFee:  actualFee,
		})
	}
}

// totalReferenceScriptSize sums the byte sizes of every script carried by a
// resolved input or reference input
func totalReferenceScriptSize(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
) int64 {
	var total int64
	seen := map[string]struct{}{}
	for _, input := range append(
		tx.Body.Inputs(),
		tx.Body.ReferenceInputs()...,
	) {
		key := UtxoKey(input)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		entry, ok := ctx.FindUtxo(input)
		if !ok {
			continue
		}
		if scriptRef := entry.Utxo.Output.ScriptRef(); scriptRef != nil &&
			scriptRef.Script != nil {
			total += int64(len(scriptRef.Script.RawScriptBytes()))
		}
	}
	return total
}

// referenceScriptFee prices reference script bytes in tiers, raising the
// per-byte price for each full tier consumed
func referenceScriptFee(pp *ledger.ProtocolParameters, size int64) int64 {
	if size <= 0 || pp.MinFeeRefScriptCostPerByte == nil {
		return 0
	}
	price := new(big.Rat).Set(pp.MinFeeRefScriptCostPerByte.ToBigRat())
	multiplier := big.NewRat(6, 5)
	total := new(big.Rat)
	remaining := size
	for remaining > 0 {
		chunk := min(remaining, int64(refScriptFeeTierSize))
		total.Add(
			total,
			new(big.Rat).Mul(price, new(big.Rat).SetInt64(chunk)),
		)
		price.Mul(price, multiplier)
		remaining -= chunk
	}
	return ratFloor(total)
}

// executionUnitsFee prices the total declared execution units, rounding up
func executionUnitsFee(
	pp *ledger.ProtocolParameters,
	redeemers *ledger.Redeemers,
) int64 {
	if redeemers.Len() == 0 {
		return 0
	}
	var totalMem, totalSteps int64
	for _, value := range redeemers.Iter() {
		totalMem += value.ExUnits.Memory
		totalSteps += value.ExUnits.Steps
	}
	total := new(big.Rat)
	if pp.ExecutionCosts.MemPrice != nil {
		total.Add(total, new(big.Rat).Mul(
			pp.ExecutionCosts.MemPrice.ToBigRat(),
			new(big.Rat).SetInt64(totalMem),
		))
	}
	if pp.ExecutionCosts.StepPrice != nil {
		total.Add(total, new(big.Rat).Mul(
			pp.ExecutionCosts.StepPrice.ToBigRat(),
			new(big.Rat).SetInt64(totalSteps),
		))
	}
	return ratCeil(total)
}

func ratFloor(r *big.Rat) int64 {
	return new(big.Int).Div(r.Num(), r.Denom()).Int64()
}

func ratCeil(r *big.Rat) int64 {
	num := new(big.Int).Add(
		r.Num(),
		new(big.Int).Sub(r.Denom(), big.NewInt(1)),
	)
	return new(big.Int).Div(num, r.Denom()).Int64()
}
