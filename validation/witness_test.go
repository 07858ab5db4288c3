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

	"github.com/blinklabs-io/txcheck/cbor"
	test_ledger "github.com/blinklabs-io/txcheck/internal/test/ledger"
	"github.com/blinklabs-io/txcheck/ledger"
	"github.com/stretchr/testify/assert"
)

// signerAddr locks the payment part behind a seed-derived key pair so tests
// can produce real signatures for it
func signerAddr(t *testing.T, seed byte) ledger.Address {
	t.Helper()
	addr, err := ledger.NewAddressFromParts(
		ledger.AddressTypeKeyKey,
		ledger.AddressNetworkTestnet,
		test_ledger.KeyHash(seed).Bytes(),
		test_ledger.Hash28(0xff).Bytes(),
	)
	assert.NoError(t, err)
	return addr
}

func TestValidateWitnessesVkey(t *testing.T) {
	input := test_ledger.Input(0x10, 0)

	buildTx := func() *ledger.Transaction {
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		return tx
	}

	t.Run("missing signature", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(signerAddr(t, 1), 1_000_000))
		res := &ValidationResult{}
		validateWitnesses(buildTx(), ctx, res)
		assertOnlyRule(t, res.Errors, RuleMissingVKeyWitnesses)
		tmpErr, ok := res.Errors[0].(MissingVKeyWitnessesError)
		assert.True(t, ok)
		assert.Equal(t, "transaction.body.inputs", tmpErr.Reason)
	})

	t.Run("valid signature", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(signerAddr(t, 1), 1_000_000))
		tx := buildTx()
		tx.WitnessSet.VkeyWitnesses = cbor.NewSetType(
			[]ledger.VkeyWitness{
				test_ledger.VkeyWitness(1, tx.Hash().Bytes()),
			},
			false,
		)
		res := &ValidationResult{}
		validateWitnesses(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("signature over wrong message", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(signerAddr(t, 1), 1_000_000))
		tx := buildTx()
		tx.WitnessSet.VkeyWitnesses = cbor.NewSetType(
			[]ledger.VkeyWitness{
				test_ledger.VkeyWitness(1, []byte("wrong message")),
			},
			false,
		)
		res := &ValidationResult{}
		validateWitnesses(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleInvalidSignature)
	})

	t.Run("extraneous signature", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(signerAddr(t, 1), 1_000_000))
		tx := buildTx()
		tx.WitnessSet.VkeyWitnesses = cbor.NewSetType(
			[]ledger.VkeyWitness{
				test_ledger.VkeyWitness(1, tx.Hash().Bytes()),
				test_ledger.VkeyWitness(2, tx.Hash().Bytes()),
			},
			false,
		)
		res := &ValidationResult{}
		validateWitnesses(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleExtraneousSignature)
	})

	t.Run("missing required signer", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(signerAddr(t, 1), 1_000_000))
		tx := buildTx()
		tx.Body.TxRequiredSigners = cbor.NewSetType(
			[]ledger.Blake2b224{test_ledger.KeyHash(3)},
			false,
		)
		tx.WitnessSet.VkeyWitnesses = cbor.NewSetType(
			[]ledger.VkeyWitness{
				test_ledger.VkeyWitness(1, tx.Hash().Bytes()),
			},
			false,
		)
		res := &ValidationResult{}
		validateWitnesses(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleMissingVKeyWitnesses)
		tmpErr, ok := res.Errors[0].(MissingVKeyWitnessesError)
		assert.True(t, ok)
		assert.Equal(t, "transaction.body.required_signers", tmpErr.Reason)
	})
}

func TestValidateWitnessesNativeScript(t *testing.T) {
	input := test_ledger.Input(0x10, 0)
	script := test_ledger.PubkeyScript(test_ledger.KeyHash(1))
	scriptAddr := test_ledger.ScriptAddress(script.Hash(), 2)

	buildTx := func() *ledger.Transaction {
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.WitnessSet.WsNativeScripts = cbor.NewSetType(
			[]ledger.NativeScript{script},
			false,
		)
		return tx
	}

	t.Run("satisfied by signature", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(scriptAddr, 1_000_000))
		tx := buildTx()
		tx.WitnessSet.VkeyWitnesses = cbor.NewSetType(
			[]ledger.VkeyWitness{
				test_ledger.VkeyWitness(1, tx.Hash().Bytes()),
			},
			false,
		)
		res := &ValidationResult{}
		validateWitnesses(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("unsatisfied without signature", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(scriptAddr, 1_000_000))
		res := &ValidationResult{}
		validateWitnesses(buildTx(), ctx, res)
		assertOnlyRule(t, res.Errors, RuleNativeScriptIsUnsuccessful)
	})

	t.Run("extraneous native script", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(signerAddr(t, 1), 1_000_000))
		tx := buildTx()
		tx.WitnessSet.VkeyWitnesses = cbor.NewSetType(
			[]ledger.VkeyWitness{
				test_ledger.VkeyWitness(1, tx.Hash().Bytes()),
			},
			false,
		)
		res := &ValidationResult{}
		validateWitnesses(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleExtraneousScriptWitnesses)
	})
}

func TestValidateWitnessesPlutus(t *testing.T) {
	input := test_ledger.Input(0x10, 0)
	script := ledger.PlutusV2Script([]byte{0x01, 0x02, 0x03})
	scriptAddr := test_ledger.ScriptAddress(script.Hash(), 2)
	datum := test_ledger.Datum(uint64(42))

	buildTx := func() *ledger.Transaction {
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.WitnessSet.WsPlutusV2Scripts = cbor.NewSetType(
			[]ledger.PlutusV2Script{script},
			false,
		)
		return tx
	}
	spendRedeemers := func() ledger.Redeemers {
		return ledger.Redeemers{
			Redeemers: map[ledger.RedeemerKey]ledger.RedeemerValue{
				{Tag: ledger.RedeemerTagSpend, Index: 0}: {
					Data: datum,
				},
			},
		}
	}
	v2Languages := map[uint]struct{}{ledger.PlutusLanguageV2: {}}

	t.Run("missing redeemer and datum", func(t *testing.T) {
		ctx := testSnapshot()
		output := test_ledger.Output(scriptAddr, 1_000_000)
		output.DatumOption = test_ledger.DatumHashOption(datum.Hash())
		addUtxo(ctx, input, output)
		tx := buildTx()
		tx.Body.TxScriptDataHash = computeScriptDataHash(
			tx,
			&ctx.ProtocolParameters,
			v2Languages,
		)
		res := &ValidationResult{}
		validateWitnesses(tx, ctx, res)
		assert.Len(t, res.Errors, 2)
		assert.True(t, hasRule(res.Errors, RuleMissingRedeemer))
		assert.True(t, hasRule(res.Errors, RuleMissingDatum))
	})

	t.Run("redeemer and datum provided", func(t *testing.T) {
		ctx := testSnapshot()
		output := test_ledger.Output(scriptAddr, 1_000_000)
		output.DatumOption = test_ledger.DatumHashOption(datum.Hash())
		addUtxo(ctx, input, output)
		tx := buildTx()
		tx.WitnessSet.WsRedeemers = spendRedeemers()
		tx.WitnessSet.WsPlutusData = cbor.NewSetType(
			[]ledger.Datum{datum},
			false,
		)
		tx.Body.TxScriptDataHash = computeScriptDataHash(
			tx,
			&ctx.ProtocolParameters,
			v2Languages,
		)
		res := &ValidationResult{}
		validateWitnesses(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("missing script witness", func(t *testing.T) {
		ctx := testSnapshot()
		output := test_ledger.Output(scriptAddr, 1_000_000)
		output.DatumOption = test_ledger.InlineDatumOption(datum)
		addUtxo(ctx, input, output)
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		res := &ValidationResult{}
		validateWitnesses(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleMissingScriptWitnesses)
	})

	t.Run("script data hash not declared", func(t *testing.T) {
		ctx := testSnapshot()
		output := test_ledger.Output(scriptAddr, 1_000_000)
		output.DatumOption = test_ledger.InlineDatumOption(datum)
		addUtxo(ctx, input, output)
		tx := buildTx()
		tx.WitnessSet.WsRedeemers = spendRedeemers()
		res := &ValidationResult{}
		validateWitnesses(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleScriptDataHashMismatch)
	})

	t.Run("extraneous datum witness", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(signerAddr(t, 1), 1_000_000))
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.WitnessSet.VkeyWitnesses = cbor.NewSetType(
			[]ledger.VkeyWitness{
				test_ledger.VkeyWitness(1, tx.Hash().Bytes()),
			},
			false,
		)
		tx.WitnessSet.WsPlutusData = cbor.NewSetType(
			[]ledger.Datum{datum},
			false,
		)
		tx.Body.TxScriptDataHash = computeScriptDataHash(
			tx,
			&ctx.ProtocolParameters,
			map[uint]struct{}{},
		)
		res := &ValidationResult{}
		validateWitnesses(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleExtraneousDatumWitnesses)
	})
}
