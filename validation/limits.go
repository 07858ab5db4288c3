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
	"slices"

	"github.com/blinklabs-io/txcheck/ledger"
)

// Reference scripts per transaction are capped at a fixed total size
const maxRefScriptSizePerTx = 200 * 1024

// validateLimits applies the structural and size limits: non-empty inputs,
// transaction size, execution unit caps, reference script size, validity
// interval, input resolution, reference input overlap, network id, and the
// canonical input order warning
func validateLimits(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
	res *ValidationResult,
) {
	pp := &ctx.ProtocolParameters
	inputs := tx.Body.Inputs()
	if len(inputs) == 0 {
		res.addError(InputSetEmptyUTxOError{})
	}
	if pp.MaxTxSize > 0 && len(tx.Cbor()) > int(pp.MaxTxSize) { // #nosec G115
		res.addError(MaxTxSizeUTxOError{
			Size: len(tx.Cbor()),
			Max:  pp.MaxTxSize,
		})
	}
	var totalMem, totalSteps int64
	for _, value := range tx.Witnesses().Redeemers().Iter() {
		totalMem += value.ExUnits.Memory
		totalSteps += value.ExUnits.Steps
	}
	if pp.MaxTxExUnits.Memory > 0 && totalMem > pp.MaxTxExUnits.Memory {
		res.addError(ExUnitsTooBigUTxOError{
			Axis:     "memory",
			Declared: totalMem,
			Max:      pp.MaxTxExUnits.Memory,
		})
	}
	if pp.MaxTxExUnits.Steps > 0 && totalSteps > pp.MaxTxExUnits.Steps {
		res.addError(ExUnitsTooBigUTxOError{
			Axis:     "steps",
			Declared: totalSteps,
			Max:      pp.MaxTxExUnits.Steps,
		})
	}
	if refScriptSize := totalReferenceScriptSize(tx, ctx); refScriptSize > maxRefScriptSizePerTx {
		res.addError(RefScriptsSizeTooBigError{
			Size: int(refScriptSize),
			Max:  maxRefScriptSizePerTx,
		})
	}
	validityStart := tx.Body.ValidityIntervalStart
	ttl := tx.Body.Ttl
	if (validityStart != nil && ctx.CurrentSlot < *validityStart) ||
		(ttl != nil && ctx.CurrentSlot >= *ttl) {
		res.addError(OutsideValidityIntervalUTxOError{
			ValidityStart: validityStart,
			Ttl:           ttl,
			Slot:          ctx.CurrentSlot,
		})
	}
	var badInputs []string
	checkResolvable := func(input ledger.TransactionInput) {
		entry, ok := ctx.FindUtxo(input)
		if !ok || entry.Spent {
			key := UtxoKey(input)
			if !slices.Contains(badInputs, key) {
				badInputs = append(badInputs, key)
			}
		}
	}
	for _, input := range inputs {
		checkResolvable(input)
	}
	for _, input := range tx.Body.Collateral() {
		checkResolvable(input)
	}
	for _, input := range tx.Body.ReferenceInputs() {
		checkResolvable(input)
	}
	if len(badInputs) > 0 {
		slices.Sort(badInputs)
		res.addError(BadInputsUTxOError{Utxos: badInputs})
	}
	inputSet := map[string]struct{}{}
	for _, input := range inputs {
		inputSet[UtxoKey(input)] = struct{}{}
	}
	for _, refInput := range tx.Body.ReferenceInputs() {
		if _, ok := inputSet[UtxoKey(refInput)]; ok {
			res.addError(ReferenceInputOverlapsWithInputError{
				Utxo: UtxoKey(refInput),
			})
		}
	}
	for i, output := range tx.Body.Outputs() {
		if output.Address().NetworkId() != ctx.NetworkId {
			res.addError(WrongNetworkError{
				NetworkId: ctx.NetworkId,
				Index:     i,
				Address:   output.Address().String(),
			})
		}
	}
	if !slices.IsSortedFunc(
		inputs,
		func(a, b ledger.TransactionInput) int {
			if c := compareInputIds(a, b); c != 0 {
				return c
			}
			return int(a.OutputIndex) - int(b.OutputIndex)
		},
	) {
		res.addWarning(InputsNotInCanonicalOrderWarning{})
	}
}

func compareInputIds(a, b ledger.TransactionInput) int {
	for i := range a.TxId {
		if a.TxId[i] != b.TxId[i] {
			return int(a.TxId[i]) - int(b.TxId[i])
		}
	}
	return 0
}
