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
	"testing"

	"github.com/blinklabs-io/plutigo/syn"
	"github.com/blinklabs-io/txcheck/cbor"
	test_ledger "github.com/blinklabs-io/txcheck/internal/test/ledger"
	"github.com/blinklabs-io/txcheck/ledger"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func spendRedeemer(index uint32) ledger.Redeemers {
	return ledger.Redeemers{
		Redeemers: map[ledger.RedeemerKey]ledger.RedeemerValue{
			{Tag: ledger.RedeemerTagSpend, Index: index}: {
				ExUnits: ledger.ExUnits{Memory: 1000, Steps: 100_000},
			},
		},
	}
}

func spendRedeemerBudget(
	index uint32,
	exUnits ledger.ExUnits,
) ledger.Redeemers {
	return ledger.Redeemers{
		Redeemers: map[ledger.RedeemerKey]ledger.RedeemerValue{
			{Tag: ledger.RedeemerTagSpend, Index: index}: {
				Data:    test_ledger.Datum(uint64(42)),
				ExUnits: exUnits,
			},
		},
	}
}

// unitResultScript builds a two-argument script that ignores its redeemer
// and context and returns unit
func unitResultScript(t *testing.T) ledger.PlutusV2Script {
	t.Helper()
	program := &syn.Program[syn.DeBruijn]{
		Version: [3]uint32{1, 0, 0},
		Term: &syn.Lambda[syn.DeBruijn]{
			Body: &syn.Lambda[syn.DeBruijn]{
				Body: &syn.Constant{Con: &syn.Unit{}},
			},
		},
	}
	flatBytes, err := syn.Encode[syn.DeBruijn](program)
	assert.NoError(t, err)
	scriptCbor, err := cbor.Encode(flatBytes)
	assert.NoError(t, err)
	return ledger.PlutusV2Script(scriptCbor)
}

func TestValidatePhase2(t *testing.T) {
	input := test_ledger.Input(0x10, 0)

	t.Run("no redeemers", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validatePhase2(&ledger.Transaction{}, ctx, res)
		assert.Empty(t, res.Phase2Errors)
		assert.Empty(t, res.RedeemerReports)
	})

	t.Run("missing script for redeemer", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(
			ctx,
			input,
			test_ledger.Output(test_ledger.KeyAddress(1, 2), 1_000_000),
		)
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.WitnessSet.WsRedeemers = spendRedeemer(0)
		res := &ValidationResult{}
		validatePhase2(tx, ctx, res)
		assertOnlyRule(t, res.Phase2Errors, RuleMissingScriptForRedeemer)
		assert.Len(t, res.RedeemerReports, 1)
		assert.False(t, res.RedeemerReports[0].Success)
		assert.Equal(
			t,
			ledger.ExUnits{Memory: 1000, Steps: 100_000},
			res.RedeemerReports[0].DeclaredExUnits,
		)
	})

	t.Run("redeemer index out of range", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(
			ctx,
			input,
			test_ledger.Output(test_ledger.KeyAddress(1, 2), 1_000_000),
		)
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.WitnessSet.WsRedeemers = spendRedeemer(5)
		res := &ValidationResult{}
		validatePhase2(tx, ctx, res)
		assertOnlyRule(t, res.Phase2Errors, RuleMissingScriptForRedeemer)
	})

	t.Run("native script referenced by redeemer", func(t *testing.T) {
		ctx := testSnapshot()
		script := test_ledger.PubkeyScript(test_ledger.KeyHash(1))
		scriptAddr := test_ledger.ScriptAddress(script.Hash(), 2)
		addUtxo(ctx, input, test_ledger.Output(scriptAddr, 1_000_000))
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.WitnessSet.WsNativeScripts = cbor.NewSetType(
			[]ledger.NativeScript{script},
			false,
		)
		tx.WitnessSet.WsRedeemers = spendRedeemer(0)
		res := &ValidationResult{}
		validatePhase2(tx, ctx, res)
		assertOnlyRule(
			t,
			res.Phase2Errors,
			RuleNativeScriptIsReferencedByRedeemer,
		)
	})

	t.Run("missing cost model", func(t *testing.T) {
		ctx := testSnapshot()
		script := ledger.PlutusV2Script([]byte{0x01, 0x02, 0x03})
		scriptAddr := test_ledger.ScriptAddress(script.Hash(), 2)
		addUtxo(ctx, input, test_ledger.Output(scriptAddr, 1_000_000))
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.WitnessSet.WsPlutusV2Scripts = cbor.NewSetType(
			[]ledger.PlutusV2Script{script},
			false,
		)
		tx.WitnessSet.WsRedeemers = spendRedeemer(0)
		res := &ValidationResult{}
		validatePhase2(tx, ctx, res)
		assertOnlyRule(t, res.Phase2Errors, RuleNoCostModel)
		tmpErr, ok := res.Phase2Errors[0].(NoCostModelError)
		assert.True(t, ok)
		assert.Equal(t, "PlutusV2", tmpErr.Language)
		assert.Len(t, res.RedeemerReports, 1)
	})

	t.Run("machine error", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.ProtocolParameters.CostModels = map[uint][]int64{
			ledger.PlutusLanguageV2: {100, 200, 300},
		}
		script := ledger.PlutusV2Script([]byte{0x01, 0x02, 0x03})
		scriptAddr := test_ledger.ScriptAddress(script.Hash(), 2)
		addUtxo(ctx, input, test_ledger.Output(scriptAddr, 1_000_000))
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.WitnessSet.WsPlutusV2Scripts = cbor.NewSetType(
			[]ledger.PlutusV2Script{script},
			false,
		)
		tx.WitnessSet.WsRedeemers = spendRedeemerBudget(
			0,
			ledger.ExUnits{Memory: 1000, Steps: 100_000},
		)
		res := &ValidationResult{}
		validatePhase2(tx, ctx, res)
		assertOnlyRule(t, res.Phase2Errors, RuleMachineError)
		assert.Len(t, res.RedeemerReports, 1)
		assert.False(t, res.RedeemerReports[0].Success)
		assert.NotEmpty(t, res.RedeemerReports[0].Err)
	})

	t.Run("not enough budget", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.ProtocolParameters.CostModels = map[uint][]int64{
			ledger.PlutusLanguageV2: {100, 200, 300},
		}
		script := unitResultScript(t)
		scriptAddr := test_ledger.ScriptAddress(script.Hash(), 2)
		addUtxo(ctx, input, test_ledger.Output(scriptAddr, 1_000_000))
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.WitnessSet.WsPlutusV2Scripts = cbor.NewSetType(
			[]ledger.PlutusV2Script{script},
			false,
		)
		tx.WitnessSet.WsRedeemers = spendRedeemerBudget(
			0,
			ledger.ExUnits{Memory: 1, Steps: 1},
		)
		res := &ValidationResult{}
		validatePhase2(tx, ctx, res)
		assertOnlyRule(t, res.Phase2Errors, RuleNoEnoughBudget)
		assert.Len(t, res.RedeemerReports, 1)
		assert.False(t, res.RedeemerReports[0].Success)
		assert.Positive(t, res.RedeemerReports[0].ComputedExUnits.Memory)
		assert.Positive(t, res.RedeemerReports[0].ComputedExUnits.Steps)
		tmpErr, ok := res.Phase2Errors[0].(NoEnoughBudgetError)
		assert.True(t, ok)
		assert.Equal(t, ledger.ExUnits{Memory: 1, Steps: 1}, tmpErr.Declared)
		assert.Equal(
			t,
			res.RedeemerReports[0].ComputedExUnits,
			tmpErr.Consumed,
		)
	})

	t.Run("declared budget bigger than consumed", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.ProtocolParameters.CostModels = map[uint][]int64{
			ledger.PlutusLanguageV2: {100, 200, 300},
		}
		script := unitResultScript(t)
		scriptAddr := test_ledger.ScriptAddress(script.Hash(), 2)
		addUtxo(ctx, input, test_ledger.Output(scriptAddr, 1_000_000))
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.WitnessSet.WsPlutusV2Scripts = cbor.NewSetType(
			[]ledger.PlutusV2Script{script},
			false,
		)
		tx.WitnessSet.WsRedeemers = spendRedeemerBudget(
			0,
			ledger.ExUnits{Memory: 14_000_000, Steps: 10_000_000_000},
		)
		res := &ValidationResult{}
		validatePhase2(tx, ctx, res)
		assert.Empty(t, res.Phase2Errors)
		assertOnlyRule(t, res.Phase2Warnings, RuleBudgetBiggerThanExpected)
		assert.Len(t, res.RedeemerReports, 1)
		assert.True(t, res.RedeemerReports[0].Success)
	})
}

// A script-locked input with no script witness is reported by both phases:
// the witness check flags the missing script and the evaluator flags the
// redeemer it cannot resolve
func TestValidateTransactionDualFindings(t *testing.T) {
	ctx := testSnapshot()
	input := test_ledger.Input(0x10, 0)
	scriptAddr := test_ledger.ScriptAddress(test_ledger.Hash28(0x50), 2)
	addUtxo(ctx, input, test_ledger.Output(scriptAddr, 1_000_000))

	tx := &ledger.Transaction{}
	tx.Body.TxInputs = cbor.NewSetType(
		[]ledger.TransactionInput{input},
		false,
	)
	tx.WitnessSet.WsRedeemers = spendRedeemer(0)

	res := ValidateTransaction(tx, ctx)
	assert.True(t, hasRule(res.Errors, RuleMissingScriptWitnesses))
	assert.True(t, hasRule(res.Phase2Errors, RuleMissingScriptForRedeemer))
	assert.False(t, res.IsValid())
}
