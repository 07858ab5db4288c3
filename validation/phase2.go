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
	"math"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txcheck/ledger"
	"github.com/blinklabs-io/txcheck/ledger/script"
)

// validatePhase2 executes every redeemer's script against a rebuilt script
// context and compares the consumed execution units to the declared budget.
// Every redeemer gets a report regardless of outcome
func validatePhase2(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
	res *ValidationResult,
) {
	redeemers := tx.Witnesses().Redeemers()
	if redeemers.Len() == 0 {
		return
	}
	pp := &ctx.ProtocolParameters
	ix := buildScriptIndex(tx, ctx)
	resolvedInputs := resolveTxUtxos(tx, ctx)
	purposeOf := script.NewScriptPurposeBuilder(tx, resolvedInputs)
	// Per-language transaction views are built once and shared between
	// redeemers
	txInfos := map[uint]script.TxInfo{}
	txInfoFor := func(language uint) script.TxInfo {
		if info, ok := txInfos[language]; ok {
			return info
		}
		var info script.TxInfo
		switch language {
		case ledger.PlutusLanguageV1:
			info = script.NewTxInfoV1FromTransaction(tx, resolvedInputs)
		case ledger.PlutusLanguageV2:
			info = script.NewTxInfoV2FromTransaction(tx, resolvedInputs)
		case ledger.PlutusLanguageV3:
			info = script.NewTxInfoV3FromTransaction(tx, resolvedInputs)
		}
		txInfos[language] = info
		return info
	}
	for key, value := range redeemers.Iter() {
		report := RedeemerReport{
			Tag:             key.Tag,
			Index:           key.Index,
			DeclaredExUnits: value.ExUnits,
		}
		purpose := purposeOf(key)
		if purpose == nil {
			res.addPhase2Error(MissingScriptForRedeemerError{
				Tag:   key.Tag,
				Index: key.Index,
			})
			res.RedeemerReports = append(res.RedeemerReports, report)
			continue
		}
		scriptHash := purpose.ScriptHash()
		if _, ok := ix.native[scriptHash]; ok {
			res.addPhase2Error(NativeScriptIsReferencedByRedeemerError{
				Tag:        key.Tag,
				Index:      key.Index,
				ScriptHash: scriptHash,
			})
			res.RedeemerReports = append(res.RedeemerReports, report)
			continue
		}
		entry, ok := ix.plutus[scriptHash]
		if !ok {
			res.addPhase2Error(MissingScriptForRedeemerError{
				Tag:   key.Tag,
				Index: key.Index,
			})
			res.RedeemerReports = append(res.RedeemerReports, report)
			continue
		}
		if costs, ok := pp.CostModels[entry.language]; !ok || len(costs) == 0 {
			res.addPhase2Error(NoCostModelError{
				Language: plutusLanguageName(entry.language),
			})
			res.RedeemerReports = append(res.RedeemerReports, report)
			continue
		}
		args := scriptArgs(entry.language, txInfoFor(entry.language), purpose, key, value)
		// Evaluation runs with an effectively unbounded budget so the
		// consumed units can be compared to the declared ones afterward
		consumed, err := entry.script.Evaluate(
			args,
			ledger.ExUnits{Memory: math.MaxInt64, Steps: math.MaxInt64},
		)
		report.ComputedExUnits = consumed
		if err != nil {
			report.Err = err.Error()
			res.addPhase2Error(MachineError{
				Tag:   key.Tag,
				Index: key.Index,
				Err:   err.Error(),
			})
			res.RedeemerReports = append(res.RedeemerReports, report)
			continue
		}
		report.Success = true
		if consumed.Memory > value.ExUnits.Memory ||
			consumed.Steps > value.ExUnits.Steps {
			res.addPhase2Error(NoEnoughBudgetError{
				Tag:      key.Tag,
				Index:    key.Index,
				Declared: value.ExUnits,
				Consumed: consumed,
			})
			report.Success = false
		} else if value.ExUnits.Memory > consumed.Memory ||
			value.ExUnits.Steps > consumed.Steps {
			res.addPhase2Warning(BudgetBiggerThanExpectedWarning{
				Tag:      key.Tag,
				Index:    key.Index,
				Declared: value.ExUnits,
				Consumed: consumed,
			})
		}
		res.RedeemerReports = append(res.RedeemerReports, report)
	}
}

// scriptArgs assembles the argument list for a script invocation. V1 and V2
// scripts take the datum (spending only, when present), the redeemer, and
// the context as separate arguments; V3 scripts take the context alone
func scriptArgs(
	language uint,
	txInfo script.TxInfo,
	purpose script.ScriptInfo,
	key ledger.RedeemerKey,
	value ledger.RedeemerValue,
) []data.PlutusData {
	if language == ledger.PlutusLanguageV3 {
		scriptContext := script.NewScriptContextV3(
			txInfo,
			script.Redeemer{
				Tag:     key.Tag,
				Index:   key.Index,
				Data:    value.Data.Data,
				ExUnits: value.ExUnits,
			},
			purpose,
		)
		return []data.PlutusData{scriptContext.ToPlutusData()}
	}
	scriptContext := script.NewScriptContextV1V2(txInfo, purpose)
	var args []data.PlutusData
	if spending, ok := purpose.(script.ScriptInfoSpending); ok &&
		spending.Datum != nil {
		args = append(args, spending.Datum)
	}
	args = append(args, value.Data.Data, scriptContext.ToPlutusData())
	return args
}

func plutusLanguageName(language uint) string {
	switch language {
	case ledger.PlutusLanguageV1:
		return "PlutusV1"
	case ledger.PlutusLanguageV2:
		return "PlutusV2"
	case ledger.PlutusLanguageV3:
		return "PlutusV3"
	}
	return "unknown"
}

// resolveTxUtxos gathers the resolved form of every input the transaction
// references: spending inputs, reference inputs, and collateral. Unknown
// and spent entries are skipped; they are reported elsewhere
func resolveTxUtxos(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
) []ledger.Utxo {
	var ret []ledger.Utxo
	seen := map[string]struct{}{}
	addInput := func(input ledger.TransactionInput) {
		key := UtxoKey(input)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		if entry, ok := ctx.FindUtxo(input); ok && !entry.Spent {
			ret = append(ret, entry.Utxo)
		}
	}
	for _, input := range tx.Body.Inputs() {
		addInput(input)
	}
	for _, input := range tx.Body.ReferenceInputs() {
		addInput(input)
	}
	for _, input := range tx.Body.Collateral() {
		addInput(input)
	}
	return ret
}
