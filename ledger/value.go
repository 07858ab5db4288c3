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
	"encoding/hex"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txcheck/cbor"
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
	"math/big"
)

// MultiAsset represents a collection of policies, assets, and quantities.
// Quantities are signed to allow the same type to represent output values
// (positive) and mint/burn deltas (negative for burning). A zero quantity is
// never stored; mutating operations prune entries that reach zero.
type MultiAsset struct {
	data map[Blake2b224]map[cbor.ByteString]int64
}

// NewMultiAsset creates a MultiAsset with the specified data. Zero-quantity
// entries in the provided data are dropped.
func NewMultiAsset(
	assets map[Blake2b224]map[cbor.ByteString]int64,
) MultiAsset {
	ret := MultiAsset{
		data: make(map[Blake2b224]map[cbor.ByteString]int64),
	}
	for policyId, policyData := range assets {
		for assetName, amount := range policyData {
			ret.setAsset(policyId, assetName, amount)
		}
	}
	return ret
}

func (m *MultiAsset) UnmarshalCBOR(cborData []byte) error {
	if _, err := cbor.Decode(cborData, &(m.data)); err != nil {
		return err
	}
	// Prune explicit zero-quantity entries from the wire
	for policyId, policyData := range m.data {
		for assetName, amount := range policyData {
			if amount == 0 {
				delete(policyData, assetName)
			}
		}
		if len(policyData) == 0 {
			delete(m.data, policyId)
		}
	}
	return nil
}

func (m *MultiAsset) MarshalCBOR() ([]byte, error) {
	// The CBOR library is configured with SortCoreDeterministic, so direct
	// encoding of the map produces deterministic output without manual sorting
	return cbor.Encode(m.data)
}

func (m *MultiAsset) setAsset(
	policyId Blake2b224,
	assetName cbor.ByteString,
	amount int64,
) {
	if m.data == nil {
		m.data = make(map[Blake2b224]map[cbor.ByteString]int64)
	}
	if amount == 0 {
		if policyData, ok := m.data[policyId]; ok {
			delete(policyData, assetName)
			if len(policyData) == 0 {
				delete(m.data, policyId)
			}
		}
		return
	}
	if _, ok := m.data[policyId]; !ok {
		m.data[policyId] = make(map[cbor.ByteString]int64)
	}
	m.data[policyId][assetName] = amount
}

func (m *MultiAsset) Policies() []Blake2b224 {
	ret := slices.Collect(maps.Keys(m.data))
	slices.SortFunc(
		ret,
		func(a, b Blake2b224) int { return bytes.Compare(a.Bytes(), b.Bytes()) },
	)
	return ret
}

func (m *MultiAsset) Assets(policyId Blake2b224) [][]byte {
	assets, ok := m.data[policyId]
	if !ok {
		return nil
	}
	ret := make([][]byte, 0, len(assets))
	for assetName := range assets {
		ret = append(ret, assetName.Bytes())
	}
	slices.SortFunc(ret, bytes.Compare)
	return ret
}

func (m *MultiAsset) Asset(policyId Blake2b224, assetName []byte) int64 {
	policy, ok := m.data[policyId]
	if !ok {
		return 0
	}
	return policy[cbor.NewByteString(assetName)]
}

// IsEmpty returns true when the MultiAsset contains no non-zero quantities
func (m *MultiAsset) IsEmpty() bool {
	return len(m.data) == 0
}

// IsPositive returns true when every stored quantity is positive
func (m *MultiAsset) IsPositive() bool {
	for _, policyData := range m.data {
		for _, amount := range policyData {
			if amount < 0 {
				return false
			}
		}
	}
	return true
}

func (m *MultiAsset) Add(assets *MultiAsset) {
	if assets == nil {
		return
	}
	for policyId, policyData := range assets.data {
		for assetName, amount := range policyData {
			m.setAsset(
				policyId,
				assetName,
				m.Asset(policyId, assetName.Bytes())+amount,
			)
		}
	}
}

func (m *MultiAsset) Sub(assets *MultiAsset) {
	if assets == nil {
		return
	}
	for policyId, policyData := range assets.data {
		for assetName, amount := range policyData {
			m.setAsset(
				policyId,
				assetName,
				m.Asset(policyId, assetName.Bytes())-amount,
			)
		}
	}
}

func (m *MultiAsset) Compare(assets *MultiAsset) bool {
	var otherData map[Blake2b224]map[cbor.ByteString]int64
	if assets != nil {
		otherData = assets.data
	}
	if len(otherData) != len(m.data) {
		return false
	}
	for policyId, policyData := range otherData {
		if len(policyData) != len(m.data[policyId]) {
			return false
		}
		for assetName, amount := range policyData {
			if amount != m.Asset(policyId, assetName.Bytes()) {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the MultiAsset
func (m *MultiAsset) Clone() MultiAsset {
	ret := MultiAsset{
		data: make(map[Blake2b224]map[cbor.ByteString]int64, len(m.data)),
	}
	for policyId, policyData := range m.data {
		ret.data[policyId] = maps.Clone(policyData)
	}
	return ret
}

func (m *MultiAsset) ToPlutusData() data.PlutusData {
	tmpData := make([][2]data.PlutusData, 0, len(m.data))
	for _, policyId := range m.Policies() {
		policyData := m.data[policyId]
		tmpPolicyData := make([][2]data.PlutusData, 0, len(policyData))
		for _, assetName := range m.Assets(policyId) {
			tmpPolicyData = append(
				tmpPolicyData,
				[2]data.PlutusData{
					data.NewByteString(assetName),
					data.NewInteger(
						big.NewInt(m.Asset(policyId, assetName)),
					),
				},
			)
		}
		tmpData = append(
			tmpData,
			[2]data.PlutusData{
				data.NewByteString(policyId.Bytes()),
				data.NewMap(tmpPolicyData),
			},
		)
	}
	return data.NewMap(tmpData)
}

// String returns a stable, human-friendly representation of the MultiAsset.
// Output format: [<policyId>.<assetNameHex>=<amount>, ...] sorted by
// policyId, then asset name
func (m *MultiAsset) String() string {
	if m == nil || len(m.data) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	first := true
	for _, policyId := range m.Policies() {
		for _, assetName := range m.Assets(policyId) {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(policyId.String())
			b.WriteByte('.')
			b.WriteString(hex.EncodeToString(assetName))
			b.WriteByte('=')
			b.WriteString(
				strconv.FormatInt(m.Asset(policyId, assetName), 10),
			)
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Value is a coin quantity plus an optional collection of native assets.
// The coin is signed so that Value can represent differences as well as
// absolute amounts.
type Value struct {
	Coin   int64
	Assets MultiAsset
}

func NewValue(coin int64) Value {
	return Value{
		Coin:   coin,
		Assets: NewMultiAsset(nil),
	}
}

func NewValueWithAssets(coin int64, assets MultiAsset) Value {
	return Value{
		Coin:   coin,
		Assets: assets,
	}
}

func (v *Value) Add(other Value) {
	v.Coin += other.Coin
	v.Assets.Add(&other.Assets)
}

func (v *Value) Sub(other Value) {
	v.Coin -= other.Coin
	v.Assets.Sub(&other.Assets)
}

func (v *Value) Compare(other Value) bool {
	return v.Coin == other.Coin && v.Assets.Compare(&other.Assets)
}

// UnmarshalCBOR accepts both the bare coin encoding and the
// [coin, multiasset] encoding
func (v *Value) UnmarshalCBOR(cborData []byte) error {
	// Try to decode as bare coin first
	var tmpCoin int64
	if _, err := cbor.Decode(cborData, &tmpCoin); err == nil {
		v.Coin = tmpCoin
		v.Assets = NewMultiAsset(nil)
		return nil
	}
	var tmpData struct {
		cbor.StructAsArray
		Coin   int64
		Assets MultiAsset
	}
	if _, err := cbor.Decode(cborData, &tmpData); err != nil {
		return err
	}
	v.Coin = tmpData.Coin
	v.Assets = tmpData.Assets
	return nil
}

func (v Value) MarshalCBOR() ([]byte, error) {
	if v.Assets.IsEmpty() {
		return cbor.Encode(v.Coin)
	}
	tmpData := []any{
		v.Coin,
		&v.Assets,
	}
	return cbor.Encode(tmpData)
}

// HasAssets returns true when the Value carries any native assets
func (v *Value) HasAssets() bool {
	return !v.Assets.IsEmpty()
}

// IsPositive returns true when the coin and every asset quantity are
// non-negative
func (v *Value) IsPositive() bool {
	return v.Coin >= 0 && v.Assets.IsPositive()
}

func (v *Value) Clone() Value {
	return Value{
		Coin:   v.Coin,
		Assets: v.Assets.Clone(),
	}
}

func (v Value) String() string {
	if v.Assets.IsEmpty() {
		return strconv.FormatInt(v.Coin, 10)
	}
	return strconv.FormatInt(v.Coin, 10) + " + " + v.Assets.String()
}

// Utxorpc converts the coin portion of a Value for UTxO-RPC interop
func (v Value) Utxorpc() *utxorpc.BigInt {
	return ToUtxorpcBigInt(v.Coin)
}
