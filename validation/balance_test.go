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

func TestValidateBalanceConservation(t *testing.T) {
	addr := test_ledger.KeyAddress(1, 2)
	input := test_ledger.Input(0x10, 0)

	buildTx := func(outputCoin int64, fee int64) *ledger.Transaction {
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.Body.TxOutputs = []ledger.TransactionOutput{
			test_ledger.Output(addr, outputCoin),
		}
		tx.Body.TxFee = fee
		return tx
	}

	t.Run("exactly conserved", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		res := &ValidationResult{}
		validateBalance(buildTx(9_844_619, 155_381), ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("one lovelace short", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		res := &ValidationResult{}
		validateBalance(buildTx(9_844_618, 155_381), ctx, res)
		assertOnlyRule(t, res.Errors, RuleValueNotConservedUTxO)
		tmpErr, ok := res.Errors[0].(ValueNotConservedUTxOError)
		assert.True(t, ok)
		assert.Equal(t, int64(10_000_000), tmpErr.Consumed.Coin)
		assert.Equal(t, int64(9_999_999), tmpErr.Produced.Coin)
	})

	t.Run("one lovelace over", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		res := &ValidationResult{}
		validateBalance(buildTx(9_844_620, 155_381), ctx, res)
		assertOnlyRule(t, res.Errors, RuleValueNotConservedUTxO)
	})

	t.Run("unresolved input excluded from consumed", func(t *testing.T) {
		// The bad input is reported by the limits validator; here it just
		// shrinks the consumed side
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateBalance(buildTx(9_844_619, 155_381), ctx, res)
		assertOnlyRule(t, res.Errors, RuleValueNotConservedUTxO)
	})

	t.Run("minted assets balance outputs", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		policyId := test_ledger.Hash28(0x20)
		mint := ledger.NewMultiAsset(
			map[ledger.Blake2b224]map[cbor.ByteString]int64{
				policyId: {cbor.NewByteString([]byte("token")): 5},
			},
		)
		tx := buildTx(9_844_619, 155_381)
		tx.Body.TxMint = &mint
		tx.Body.TxOutputs[0].OutputAmount.Assets = mint
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("burn without matching input assets", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		policyId := test_ledger.Hash28(0x20)
		burn := ledger.NewMultiAsset(
			map[ledger.Blake2b224]map[cbor.ByteString]int64{
				policyId: {cbor.NewByteString([]byte("token")): -5},
			},
		)
		tx := buildTx(9_844_619, 155_381)
		tx.Body.TxMint = &burn
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleValueNotConservedUTxO)
	})

	t.Run("treasury value mismatch", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.TreasuryValue = 1_000_000_000
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		tx := buildTx(9_844_619, 155_381)
		tmpTreasury := int64(999_999_999)
		tx.Body.TxCurrentTreasuryValue = &tmpTreasury
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleTreasuryValueMismatch)
	})

	t.Run("treasury value matching", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.TreasuryValue = 1_000_000_000
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		tx := buildTx(9_844_619, 155_381)
		tmpTreasury := int64(1_000_000_000)
		tx.Body.TxCurrentTreasuryValue = &tmpTreasury
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	// A declared value of zero is still a declaration and must match the
	// snapshot
	t.Run("treasury value declared zero", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.TreasuryValue = 1_000_000_000
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		tx := buildTx(9_844_619, 155_381)
		tmpTreasury := int64(0)
		tx.Body.TxCurrentTreasuryValue = &tmpTreasury
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assertOnlyRule(t, res.Errors, RuleTreasuryValueMismatch)
		tmpErr, ok := res.Errors[0].(TreasuryValueMismatchError)
		assert.True(t, ok)
		assert.Equal(t, int64(0), tmpErr.Declared)
	})

	t.Run("treasury value not declared", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.TreasuryValue = 1_000_000_000
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		tx := buildTx(9_844_619, 155_381)
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})
}

func TestValidateBalanceWithdrawals(t *testing.T) {
	addr := test_ledger.KeyAddress(1, 2)
	rewardAddr, err := ledger.NewAddressFromParts(
		ledger.AddressTypeNoneKey,
		ledger.AddressNetworkTestnet,
		nil,
		test_ledger.Hash28(2).Bytes(),
	)
	assert.NoError(t, err)
	input := test_ledger.Input(0x10, 0)
	credHash := test_ledger.Hash28(2).String()

	buildTx := func(amount uint64) *ledger.Transaction {
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.Body.TxOutputs = []ledger.TransactionOutput{
			// #nosec G115
			test_ledger.Output(addr, 9_844_619+int64(amount)),
		}
		tx.Body.TxFee = 155_381
		tx.Body.TxWithdrawals = ledger.Withdrawals{&rewardAddr: amount}
		return tx
	}

	balance := uint64(3_000_000)
	registered := func() *AccountContext {
		return &AccountContext{
			IsRegistered:  true,
			RewardBalance: &balance,
			DelegatedDRep: "abstain",
		}
	}

	t.Run("legal withdrawal", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		ctx.Accounts[credHash] = registered()
		res := &ValidationResult{}
		validateBalance(buildTx(3_000_000), ctx, res)
		assert.Empty(t, res.Errors)
		assert.Empty(t, res.Warnings)
	})

	t.Run("account unknown", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		res := &ValidationResult{}
		validateBalance(buildTx(3_000_000), ctx, res)
		assert.True(t, hasRule(res.Errors, RuleRewardAccountNotExisting))
	})

	t.Run("account not registered", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		ctx.Accounts[credHash] = &AccountContext{IsRegistered: false}
		res := &ValidationResult{}
		validateBalance(buildTx(3_000_000), ctx, res)
		assert.True(t, hasRule(res.Errors, RuleRewardAccountNotExisting))
	})

	t.Run("wrong amount", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		ctx.Accounts[credHash] = registered()
		res := &ValidationResult{}
		validateBalance(buildTx(2_999_999), ctx, res)
		assert.True(
			t,
			hasRule(res.Errors, RuleWrongRequestedWithdrawalAmount),
		)
	})

	t.Run("unknown balance downgrades to warning", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		account := registered()
		account.RewardBalance = nil
		ctx.Accounts[credHash] = account
		res := &ValidationResult{}
		validateBalance(buildTx(3_000_000), ctx, res)
		assert.False(
			t,
			hasRule(res.Errors, RuleWrongRequestedWithdrawalAmount),
		)
		assert.True(
			t,
			hasRule(res.Warnings, RuleCannotVerifyWithdrawal),
		)
	})

	t.Run("no vote delegation", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		account := registered()
		account.DelegatedDRep = ""
		ctx.Accounts[credHash] = account
		res := &ValidationResult{}
		validateBalance(buildTx(3_000_000), ctx, res)
		assert.True(t, hasRule(
			res.Errors,
			RuleWithdrawalNotAllowedBecauseNotDelegatedToDRep,
		))
	})

	t.Run("wrong network reward account", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.NetworkId = ledger.AddressNetworkMainnet
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		ctx.Accounts[credHash] = registered()
		res := &ValidationResult{}
		validateBalance(buildTx(3_000_000), ctx, res)
		assert.True(t, hasRule(res.Errors, RuleWrongNetworkWithdrawal))
	})
}

func TestValidateBalanceDeposits(t *testing.T) {
	addr := test_ledger.KeyAddress(1, 2)
	input := test_ledger.Input(0x10, 0)
	cred := ledger.Credential{
		CredType:   ledger.CredentialTypeAddrKeyHash,
		Credential: test_ledger.Hash28(5),
	}

	buildTx := func(outputCoin int64, certs ...ledger.Certificate) *ledger.Transaction {
		tx := &ledger.Transaction{}
		tx.Body.TxInputs = cbor.NewSetType(
			[]ledger.TransactionInput{input},
			false,
		)
		tx.Body.TxOutputs = []ledger.TransactionOutput{
			test_ledger.Output(addr, outputCoin),
		}
		tx.Body.TxFee = 155_381
		wrappers := make([]ledger.CertificateWrapper, 0, len(certs))
		for _, cert := range certs {
			wrappers = append(
				wrappers,
				ledger.CertificateWrapper{Certificate: cert},
			)
		}
		tx.Body.TxCertificates = cbor.NewSetType(wrappers, false)
		return tx
	}

	t.Run("conway registration with correct deposit", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		tx := buildTx(
			7_844_619,
			&ledger.RegistrationCertificate{
				StakeCredential: cred,
				Amount:          2_000_000,
			},
		)
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("conway registration with wrong deposit", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		tx := buildTx(
			7_844_620,
			&ledger.RegistrationCertificate{
				StakeCredential: cred,
				Amount:          1_999_999,
			},
		)
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assert.True(t, hasRule(res.Errors, RuleWrongStakeDeposit))
	})

	t.Run("deregistration refund from snapshot", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		deposit := int64(2_000_000)
		ctx.Accounts[cred.String()] = &AccountContext{
			IsRegistered: true,
			PaidDeposit:  &deposit,
		}
		tx := buildTx(
			11_844_619,
			&ledger.StakeDeregistrationCertificate{StakeCredential: cred},
		)
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assert.Empty(t, res.Errors)
		assert.Empty(t, res.Warnings)
	})

	t.Run("deregistration with unknown deposit warns", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		// Falls back to the current key deposit parameter
		tx := buildTx(
			11_844_619,
			&ledger.StakeDeregistrationCertificate{StakeCredential: cred},
		)
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assert.Empty(t, res.Errors)
		assert.True(t, hasRule(res.Warnings, RuleCannotVerifyRefund))
	})

	t.Run("conway deregistration wrong refund", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		deposit := int64(2_000_000)
		ctx.Accounts[cred.String()] = &AccountContext{
			IsRegistered: true,
			PaidDeposit:  &deposit,
		}
		tx := buildTx(
			11_844_618,
			&ledger.DeregistrationCertificate{
				StakeCredential: cred,
				Amount:          1_999_999,
			},
		)
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assert.True(t, hasRule(res.Errors, RuleWrongRefundAmount))
	})

	t.Run("pool re-registration pays nothing", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		poolId := test_ledger.Hash28(0x30)
		ctx.Pools[poolId.String()] = &PoolContext{IsRegistered: true}
		tx := buildTx(
			9_844_619,
			&ledger.PoolRegistrationCertificate{
				Operator: poolId,
				Cost:     170_000_000,
			},
		)
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("drep registration deposit", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 600_000_000))
		tx := buildTx(
			99_844_619,
			&ledger.RegistrationDrepCertificate{
				DrepCredential: cred,
				Amount:         500_000_000,
			},
		)
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("wrong proposal deposit", func(t *testing.T) {
		ctx := testSnapshot()
		addUtxo(ctx, input, test_ledger.Output(addr, 10_000_000))
		rewardAddr, err := ledger.NewAddressFromParts(
			ledger.AddressTypeNoneKey,
			ledger.AddressNetworkTestnet,
			nil,
			test_ledger.Hash28(2).Bytes(),
		)
		assert.NoError(t, err)
		tx := buildTx(9_844_619)
		tx.Body.TxProposalProcedures = cbor.NewSetType(
			[]ledger.ProposalProcedure{
				{
					Deposit:       1,
					RewardAccount: rewardAddr,
					GovAction: ledger.GovActionWrapper{
						Action: &ledger.InfoGovAction{},
					},
				},
			},
			false,
		)
		res := &ValidationResult{}
		validateBalance(tx, ctx, res)
		assert.True(t, hasRule(res.Errors, RuleWrongProposalDeposit))
	})
}
