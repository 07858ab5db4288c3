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

package ledger

import (
	"bytes"
	"testing"

	"github.com/blinklabs-io/txcheck/cbor"
	"github.com/blinklabs-io/txcheck/internal/test"
	"github.com/stretchr/testify/assert"
)

func testPolicyId(seed byte) Blake2b224 {
	return NewBlake2b224(bytes.Repeat([]byte{seed}, 28))
}

func TestNewMultiAssetPrunesZeroQuantities(t *testing.T) {
	policy := testPolicyId(0x01)
	ma := NewMultiAsset(
		map[Blake2b224]map[cbor.ByteString]int64{
			policy: {
				cbor.NewByteString([]byte("keep")): 5,
				cbor.NewByteString([]byte("drop")): 0,
			},
		},
	)
	assert.Equal(t, int64(5), ma.Asset(policy, []byte("keep")))
	assert.Equal(t, int64(0), ma.Asset(policy, []byte("drop")))
	assert.Equal(t, [][]byte{[]byte("keep")}, ma.Assets(policy))
}

func TestMultiAssetArithmetic(t *testing.T) {
	policyA := testPolicyId(0x01)
	policyB := testPolicyId(0x02)
	ma := NewMultiAsset(
		map[Blake2b224]map[cbor.ByteString]int64{
			policyA: {cbor.NewByteString([]byte("token")): 10},
		},
	)
	other := NewMultiAsset(
		map[Blake2b224]map[cbor.ByteString]int64{
			policyA: {cbor.NewByteString([]byte("token")): 3},
			policyB: {cbor.NewByteString([]byte("extra")): 7},
		},
	)

	tmpClone := ma.Clone()
	ma.Add(&other)
	assert.Equal(t, int64(13), ma.Asset(policyA, []byte("token")))
	assert.Equal(t, int64(7), ma.Asset(policyB, []byte("extra")))
	// Clone is unaffected by mutation of the original
	assert.Equal(t, int64(10), tmpClone.Asset(policyA, []byte("token")))

	ma.Sub(&other)
	assert.True(t, ma.Compare(&tmpClone))
	assert.True(t, ma.IsPositive())

	// Subtracting everything prunes to empty
	ma.Sub(&tmpClone)
	assert.True(t, ma.IsEmpty())
}

func TestMultiAssetPoliciesSorted(t *testing.T) {
	ma := NewMultiAsset(
		map[Blake2b224]map[cbor.ByteString]int64{
			testPolicyId(0x03): {cbor.NewByteString([]byte("c")): 1},
			testPolicyId(0x01): {cbor.NewByteString([]byte("a")): 1},
			testPolicyId(0x02): {cbor.NewByteString([]byte("b")): 1},
		},
	)
	assert.Equal(
		t,
		[]Blake2b224{
			testPolicyId(0x01),
			testPolicyId(0x02),
			testPolicyId(0x03),
		},
		ma.Policies(),
	)
}

func TestValueDecodeBareCoin(t *testing.T) {
	var v Value
	err := v.UnmarshalCBOR(test.DecodeHexString("1a000f4240"))
	assert.NoError(t, err)
	assert.Equal(t, int64(1_000_000), v.Coin)
	assert.False(t, v.HasAssets())

	// A value without assets re-encodes as a bare coin
	encoded, err := v.MarshalCBOR()
	assert.NoError(t, err)
	assert.Equal(t, test.DecodeHexString("1a000f4240"), encoded)
}

func TestValueDecodeWithAssets(t *testing.T) {
	// [1000000, {h'01..01': {h'6e616d65' (name): 5}}]
	valueCbor := test.DecodeHexString(
		"821a000f4240a1581c" +
			"01010101010101010101010101010101010101010101010101010101" +
			"a1446e616d6505",
	)
	var v Value
	err := v.UnmarshalCBOR(valueCbor)
	assert.NoError(t, err)
	assert.Equal(t, int64(1_000_000), v.Coin)
	assert.True(t, v.HasAssets())
	assert.Equal(
		t,
		int64(5),
		v.Assets.Asset(testPolicyId(0x01), []byte("name")),
	)
}

func TestValueArithmetic(t *testing.T) {
	policy := testPolicyId(0x01)
	v := NewValueWithAssets(
		2_000_000,
		NewMultiAsset(
			map[Blake2b224]map[cbor.ByteString]int64{
				policy: {cbor.NewByteString([]byte("token")): 4},
			},
		),
	)
	v.Add(NewValue(500_000))
	assert.Equal(t, int64(2_500_000), v.Coin)
	assert.True(t, v.IsPositive())

	tmpClone := v.Clone()
	v.Sub(tmpClone)
	assert.Equal(t, int64(0), v.Coin)
	assert.False(t, v.HasAssets())
	assert.False(t, v.Compare(tmpClone))
	assert.True(t, tmpClone.Compare(tmpClone.Clone()))
}
