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

func TestValidateLimitsInputs(t *testing.T) {
	addr := test_ledger.KeyAddress(1, 2)

	t.Run("empty input set", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateLimits(&ledger.Transaction{}, ctx, res)
		assert.True(t, hasRule(res.Errors, RuleInputSetEmptyUTxO))
	})

	t.Run("resolvable inputs", func(t *testing.T) {
		ctx := testSnapshot()
		input := test_ledger.Input(0x10, 0)
		addUtxo(ctx, input, test_ledger.Output(addr, 1_000_000))
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		res := &ValidationResult{}
		validateLimits(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("bad inputs deduplicated and sorted", func(t *testing.T) {
		ctx := testSnapshot()
		spent := test_ledger.Input(0x11, 0)
		unknown := test_ledger.Input(0x10, 0)
		addUtxo(ctx, spent, test_ledger.Output(addr, 1_000_000))
		ctx.Utxos[UtxoKey(spent)].Spent = true
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{unknown, spent},
			false,
		)
		// The same unknown input again as collateral must not double-report
		tx.Body.TxCollateral = cbor.NewSetType(
			[]ledger.TransactionInput{unknown},
			false,
		)
		res := &ValidationResult{}
		validateLimits(tx, ctx, res)
		assert.True(t, hasRule(res.Errors, RuleBadInputsUTxO))
		for _, f := range res.Errors {
			if tmpErr, ok := f.(BadInputsUTxOError); ok {
				expected := []string{UtxoKey(unknown), UtxoKey(spent)}
				if expected[0] > expected[1] {
					expected[0], expected[1] = expected[1], expected[0]
				}
				assert.Equal(t, expected, tmpErr.Utxos)
			}
		}
	})

	t.Run("reference input overlaps with input", func(t *testing.T) {
		ctx := testSnapshot()
		input := test_ledger.Input(0x10, 0)
		addUtxo(ctx, input, test_ledger.Output(addr, 1_000_000))
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.Body.TxReferenceInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		res := &ValidationResult{}
		validateLimits(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleReferenceInputOverlapsWithInput)
	})

	t.Run("inputs not in canonical order", func(t *testing.T) {
		ctx := testSnapshot()
		input1 := test_ledger.Input(0x10, 0)
		input2 := test_ledger.Input(0x10, 1)
		addUtxo(ctx, input1, test_ledger.Output(addr, 1_000_000))
		addUtxo(ctx, input2, test_ledger.Output(addr, 1_000_000))
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input2, input1},
			false,
		)
		res := &ValidationResult{}
		validateLimits(tx, ctx, res)
		assert.Empty(t, res.Errors)
		assertOnlyRule(t, res.Warnings, RuleInputsNotInCanonicalOrder)
	})
}

func TestValidateLimitsValidityInterval(t *testing.T) {
	addr := test_ledger.KeyAddress(1, 2)
	input := test_ledger.Input(0x10, 0)

	buildTx := func(start *uint64, ttl *uint64) *ledger.Transaction {
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.Body.ValidityIntervalStart = start
		tx.Body.Ttl = ttl
		return tx
	}
	uptr := func(v uint64) *uint64 { return &v }

	// The snapshot slot is 1000. The interval start is inclusive, the ttl
	// slot itself is already outside
	for _, tc := range []struct {
		name  string
		start *uint64
		ttl   *uint64
		valid bool
	}{
		{"no bounds", nil, nil, true},
		{"slot at interval start", uptr(1000), nil, true},
		{"slot before interval start", uptr(1001), nil, false},
		{"slot below ttl", nil, uptr(1001), true},
		{"slot at ttl", nil, uptr(1000), false},
		{"inside both bounds", uptr(900), uptr(1100), true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testSnapshot()
			addUtxo(ctx, input, test_ledger.Output(addr, 1_000_000))
			res := &ValidationResult{}
			validateLimits(buildTx(tc.start, tc.ttl), ctx, res)
			if tc.valid {
				assert.Empty(t, res.Errors)
			} else {
				assertOnlyRule(t, res.Errors, RuleOutsideValidityIntervalUTxO)
			}
		})
	}
}

func TestValidateLimitsExUnits(t *testing.T) {
	addr := test_ledger.KeyAddress(1, 2)
	input := test_ledger.Input(0x10, 0)

	buildTx := func(mem int64, steps int64) *ledger.Transaction {
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.WitnessSet.WsRedeemers = ledger.Redeemers{
			Redeemers: map[ledger.RedeemerKey]ledger.RedeemerValue{
				{Tag: ledger.RedeemerTagSpend, Index: 0}: {
					ExUnits: ledger.ExUnits{Memory: mem, Steps: steps},
				},
			},
		}
		return tx
	}

	t.Run("at the caps", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 1_000_000))
		res := &ValidationResult{}
		validateLimits(buildTx(14_000_000, 10_000_000_000), ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("memory over the cap", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 1_000_000))
		res := &ValidationResult{}
		validateLimits(buildTx(14_000_001, 1), ctx, res)
		assertOnlyRule(t, res.Errors, RuleExUnitsTooBigUTxO)
		tmpErr, ok := res.Errors[0].(ExUnitsTooBigUTxOError)
		assert.True(t, ok)
		assert.Equal(t, "memory", tmpErr.Axis)
	})

	t.Run("both axes over the cap", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 1_000_000))
		res := &ValidationResult{}
		validateLimits(buildTx(14_000_001, 10_000_000_001), ctx, res)
		assert.Len(t, res.Errors, 2)
	})
}

func TestValidateLimitsWrongNetwork(t *testing.T) {
	input := test_ledger.Input(0x10, 0)
	addr := test_ledger.KeyAddress(1, 2)

	mainnetAddr, err := ledger.NewAddressFromParts(
		ledger.AddressTypeKeyKey,
		ledger.AddressNetworkMainnet,
		test_ledger.Hash28(1).Bytes(),
		test_ledger.Hash28(2).Bytes(),
	)
	assert.NoError(t, err)

	ctx := testSnapshot()
	addUtxo(ctx, input, test_ledger.Output(addr, 1_000_000))
	tx := &ledger.Transaction{}
	tx.Body.TxInputs = cbor.NewSetType(
		[]ledger.TransactionInput{input},
		false,
	)
	tx.Body.TxOutputs = []ledger.TransactionOutput{
		test_ledger.Output(mainnetAddr, 1_000_000),
	}
	res := &ValidationResult{}
	validateLimits(tx, ctx, res)
	assertOnlyRule(t, res.Errors, RuleWrongNetwork)
	tmpErr, ok := res.Errors[0].(WrongNetworkError)
	assert.True(t, ok)
	assert.Equal(t, 0, tmpErr.Index)
}
