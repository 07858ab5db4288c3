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
	"strings"
	"testing"

	"github.com/blinklabs-io/txcheck/internal/test"
	"github.com/stretchr/testify/assert"
)

func TestNewAddressFromPartsRoundTrip(t *testing.T) {
	paymentHash := bytes.Repeat([]byte{0x01}, 28)
	stakeHash := bytes.Repeat([]byte{0x02}, 28)

	addr, err := NewAddressFromParts(
		AddressTypeKeyKey,
		AddressNetworkMainnet,
		paymentHash,
		stakeHash,
	)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(addr.String(), "addr1"))
	assert.Equal(t, uint(AddressNetworkMainnet), addr.NetworkId())
	assert.False(t, addr.PaymentIsScript())
	assert.False(t, addr.StakeIsScript())
	assert.Equal(t, NewBlake2b224(paymentHash), addr.PaymentKeyHash())
	assert.Equal(t, NewBlake2b224(stakeHash), addr.StakeKeyHash())

	decoded, err := NewAddress(addr.String())
	assert.NoError(t, err)
	assert.Equal(t, addr.String(), decoded.String())
	assert.Equal(t, addr.PaymentKeyHash(), decoded.PaymentKeyHash())
}

func TestNewAddressFromPartsScriptTestnet(t *testing.T) {
	scriptHash := bytes.Repeat([]byte{0x03}, 28)
	stakeHash := bytes.Repeat([]byte{0x04}, 28)

	addr, err := NewAddressFromParts(
		AddressTypeScriptKey,
		AddressNetworkTestnet,
		scriptHash,
		stakeHash,
	)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(addr.String(), "addr_test1"))
	assert.Equal(t, uint(AddressNetworkTestnet), addr.NetworkId())
	assert.True(t, addr.PaymentIsScript())
	assert.False(t, addr.StakeIsScript())
}

func TestNewAddressFromPartsInvalidNetwork(t *testing.T) {
	_, err := NewAddressFromParts(
		AddressTypeKeyKey,
		9,
		bytes.Repeat([]byte{0x01}, 28),
		bytes.Repeat([]byte{0x02}, 28),
	)
	assert.Error(t, err)
}

func TestNewAddressFromBytesRoundTrip(t *testing.T) {
	// Mainnet key/key base address: header 0x01, then payment and stake
	// key hashes
	addrBytes := test.DecodeHexString(
		"01" +
			"01010101010101010101010101010101010101010101010101010101" +
			"02020202020202020202020202020202020202020202020202020202",
	)
	addr, err := NewAddressFromBytes(addrBytes)
	assert.NoError(t, err)
	assert.Equal(t, uint8(AddressTypeKeyKey), addr.Type())

	encoded, err := addr.Bytes()
	assert.NoError(t, err)
	assert.Equal(t, addrBytes, encoded)
}

func TestPoolIdBech32(t *testing.T) {
	poolId := PoolKeyHash(
		NewBlake2b224(bytes.Repeat([]byte{0x05}, 28)),
	)
	assert.True(t, strings.HasPrefix(PoolIdBech32(poolId), "pool1"))
}

func TestDRepIdBech32(t *testing.T) {
	cred := NewBlake2b224(bytes.Repeat([]byte{0x06}, 28))
	assert.True(t, strings.HasPrefix(DRepIdBech32(cred), "drep1"))
}
