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
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/blinklabs-io/txcheck/cbor"
	test_ledger "github.com/blinklabs-io/txcheck/internal/test/ledger"
	"github.com/stretchr/testify/assert"
)

func TestNewValidationInputContextFromJSON(t *testing.T) {
	addr := test_ledger.KeyAddress(1, 2)
	input := test_ledger.Input(0x10, 0)
	outputCbor, err := cbor.Encode(test_ledger.Output(addr, 5_000_000))
	assert.NoError(t, err)

	jsonData := fmt.Sprintf(
		`{
			"utxos": {
				%q: {"outputCbor": %q, "spent": true}
			},
			"accounts": {
				%q: {"isRegistered": true, "delegatedDRep": "abstain"}
			},
			"currentSlot": 1234,
			"currentEpoch": 56,
			"networkId": 0
		}`,
		UtxoKey(input),
		hex.EncodeToString(outputCbor),
		test_ledger.Hash28(5).String(),
	)

	ctx, err := NewValidationInputContextFromJSON([]byte(jsonData))
	assert.NoError(t, err)
	assert.Equal(t, uint64(1234), ctx.CurrentSlot)
	assert.Equal(t, uint64(56), ctx.CurrentEpoch)

	entry, ok := ctx.FindUtxo(input)
	assert.True(t, ok)
	assert.True(t, entry.Spent)
	assert.Equal(t, input, entry.Utxo.Id)
	assert.Equal(t, int64(5_000_000), entry.Utxo.Output.Amount().Coin)
	assert.Equal(t, addr.String(), entry.Utxo.Output.Address().String())

	account, ok := ctx.FindAccountByHash(test_ledger.Hash28(5))
	assert.True(t, ok)
	assert.True(t, account.IsRegistered)
	assert.True(t, account.HasVoteDelegation())
}

func TestNewValidationInputContextFromJSONErrors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		jsonData string
	}{
		{
			"not json",
			`{`,
		},
		{
			"utxo key without index",
			`{"utxos": {"deadbeef": {"outputCbor": ""}}}`,
		},
		{
			"utxo key with short hash",
			`{"utxos": {"dead#0": {"outputCbor": ""}}}`,
		},
		{
			"utxo key with bad index",
			fmt.Sprintf(
				`{"utxos": {"%064x#abc": {"outputCbor": ""}}}`,
				0,
			),
		},
		{
			"output cbor not hex",
			fmt.Sprintf(
				`{"utxos": {"%064x#0": {"outputCbor": "zz"}}}`,
				0,
			),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewValidationInputContextFromJSON([]byte(tc.jsonData))
			assert.Error(t, err)
		})
	}
}

func TestParseUtxoKeyRoundTrip(t *testing.T) {
	input := test_ledger.Input(0x10, 7)
	parsed, err := parseUtxoKey(UtxoKey(input))
	assert.NoError(t, err)
	assert.Equal(t, input, parsed)
}

func TestFindLookups(t *testing.T) {
	ctx := testSnapshot()
	poolHash := test_ledger.Hash28(0x30)
	ctx.Pools[poolHash.String()] = &PoolContext{IsRegistered: true}
	ctx.DReps[test_ledger.Hash28(6).String()] = &DRepContext{IsRegistered: true}

	pool, ok := ctx.FindPool(poolHash)
	assert.True(t, ok)
	assert.True(t, pool.IsRegistered)

	_, ok = ctx.FindPool(test_ledger.Hash28(0x31))
	assert.False(t, ok)

	drep, ok := ctx.FindDRep(test_ledger.Hash28(6))
	assert.True(t, ok)
	assert.True(t, drep.IsRegistered)

	_, ok = ctx.FindAccount(nil)
	assert.False(t, ok)
}
