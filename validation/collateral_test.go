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

func TestValidateCollateral(t *testing.T) {
	addr := test_ledger.KeyAddress(1, 2)
	collInput := test_ledger.Input(0x40, 0)

	// Fee of 1_000_000 at 150% requires 1_500_000 in collateral
	buildTx := func(collateral ...ledger.TransactionInput) *ledger.Transaction {
		tx := &ledger.Transaction{}
		tx.Body.TxFee = 1_000_000
		tx.Body.TxCollateral = cbor.NewSetType(collateral, false)
		tx.WitnessSet.WsRedeemers = ledger.Redeemers{
			Redeemers: map[ledger.RedeemerKey]ledger.RedeemerValue{
				{Tag: ledger.RedeemerTagSpend, Index: 0}: {},
			},
		}
		return tx
	}

	t.Run("no redeemers means no findings", func(t *testing.T) {
		ctx := testSnapshot()
		tx := &ledger.Transaction{}
		tx.Body.TxFee = 1_000_000
		res := &ValidationResult{}
		validateCollateral(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("missing collateral inputs", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateCollateral(buildTx(), ctx, res)
		assertOnlyRule(t, res.Errors, RuleNoCollateralInputs)
	})

	t.Run("sufficient collateral", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, collInput, test_ledger.Output(addr, 1_500_000))
		res := &ValidationResult{}
		validateCollateral(buildTx(collInput), ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("one lovelace short", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, collInput, test_ledger.Output(addr, 1_499_999))
		res := &ValidationResult{}
		validateCollateral(buildTx(collInput), ctx, res)
		assertOnlyRule(t, res.Errors, RuleInsufficientCollateral)
		tmpErr, ok := res.Errors[0].(InsufficientCollateralError)
		assert.True(t, ok)
		assert.Equal(t, int64(1_499_999), tmpErr.Provided)
		assert.Equal(t, int64(1_500_000), tmpErr.Required)
	})

	t.Run("script-locked collateral", func(t *testing.T) {
		ctx := testSnapshot()
		scriptAddr := test_ledger.ScriptAddress(test_ledger.Hash28(0x50), 2)
		addUtxo(ctx, collInput, test_ledger.Output(scriptAddr, 1_500_000))
		res := &ValidationResult{}
		validateCollateral(buildTx(collInput), ctx, res)
		assertOnlyRule(t, res.Errors, RuleCollateralIsLockedByScript)
	})

	t.Run("non-ada collateral without return output", func(t *testing.T) {
		ctx := testSnapshot()
		output := test_ledger.Output(addr, 1_500_000)
		output.OutputAmount.Assets = ledger.NewMultiAsset(
			map[ledger.Blake2b224]map[cbor.ByteString]int64{
				test_ledger.Hash28(0x20): {
					cbor.NewByteString([]byte("token")): 1,
				},
			},
		)
		addUtxo(ctx, collInput, output)
		res := &ValidationResult{}
		validateCollateral(buildTx(collInput), ctx, res)
		assertOnlyRule(t, res.Errors, RuleCollateralContainsNonAda)
	})

	t.Run("non-ada collateral with return output", func(t *testing.T) {
		ctx := testSnapshot()
		output := test_ledger.Output(addr, 3_000_000)
		output.OutputAmount.Assets = ledger.NewMultiAsset(
			map[ledger.Blake2b224]map[cbor.ByteString]int64{
				test_ledger.Hash28(0x20): {
					cbor.NewByteString([]byte("token")): 1,
				},
			},
		)
		addUtxo(ctx, collInput, output)
		tx := buildTx(collInput)
		tmpReturn := test_ledger.Output(addr, 1_500_000)
		tx.Body.TxCollateralReturn = &tmpReturn
		res := &ValidationResult{}
		validateCollateral(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("return output below minimum coin", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, collInput, test_ledger.Output(addr, 3_000_000))
		tx := buildTx(collInput)
		tmpReturn := test_ledger.Output(addr, 1)
		tx.Body.TxCollateralReturn = &tmpReturn
		res := &ValidationResult{}
		validateCollateral(tx, ctx, res)
		assert.True(t, hasRule(res.Errors, RuleOutputTooSmallUTxO))
		for _, f := range res.Errors {
			if f.RuleName() == RuleOutputTooSmallUTxO {
				assert.Equal(
					t,
					[]string{"transaction.body.collateral_return"},
					f.Locations(),
				)
			}
		}
	})

	t.Run("declared total mismatch", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, collInput, test_ledger.Output(addr, 1_500_000))
		tx := buildTx(collInput)
		tx.Body.TxTotalCollateral = 1_400_000
		res := &ValidationResult{}
		validateCollateral(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleCollateralTotalMismatch)
	})

	t.Run("declared total matches", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, collInput, test_ledger.Output(addr, 1_500_000))
		tx := buildTx(collInput)
		tx.Body.TxTotalCollateral = 1_500_000
		res := &ValidationResult{}
		validateCollateral(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("too many collateral inputs", func(t *testing.T) {
		ctx := testSnapshot()
		inputs := []ledger.TransactionInput{
			test_ledger.Input(0x40, 0),
			test_ledger.Input(0x40, 1),
			test_ledger.Input(0x40, 2),
			test_ledger.Input(0x40, 3),
		}
		for _, input := range inputs {
			addUtxo(ctx, input, test_ledger.Output(addr, 1_000_000))
		}
		res := &ValidationResult{}
		validateCollateral(buildTx(inputs...), ctx, res)
		assertOnlyRule(t, res.Errors, RuleTooManyCollateralInputs)
	})
}
