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

package script

import (
	"math/big"
	"reflect"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txcheck/ledger"
)

// ToPlutusData is an interface that represents types that support serialization to PlutusData when building a ScriptContext
type ToPlutusData interface {
	ToPlutusData() data.PlutusData
}

// Option wraps an optional value using the Maybe encoding: a present value
// is constructor 0, an absent value is constructor 1
type Option[T ToPlutusData] struct {
	Value ToPlutusData
}

func (o Option[T]) ToPlutusData() data.PlutusData {
	if o.Value == nil {
		return data.NewConstr(1)
	}
	return data.NewConstr(
		0,
		o.Value.ToPlutusData(),
	)
}

type KeyValuePairs[K any, V any] []KeyValuePair[K, V]

func (k KeyValuePairs[K, V]) ToPlutusData() data.PlutusData {
	pairs := make([][2]data.PlutusData, len(k))
	for i, tmpPair := range k {
		pairs[i] = [2]data.PlutusData{
			toPlutusData(tmpPair.Key),
			toPlutusData(tmpPair.Value),
		}
	}
	return data.NewMap(pairs)
}

type KeyValuePair[K any, V any] struct {
	Key   K
	Value V
}

func toPlutusData(val any) data.PlutusData {
	if pd, ok := val.(ToPlutusData); ok {
		return pd.ToPlutusData()
	}
	switch v := val.(type) {
	case bool:
		if v {
			return data.NewConstr(1)
		}
		return data.NewConstr(0)
	case int64:
		return data.NewInteger(new(big.Int).SetInt64(v))
	case uint64:
		return data.NewInteger(new(big.Int).SetUint64(v))
	case data.PlutusData:
		return v
	case []ToPlutusData:
		tmpItems := make([]data.PlutusData, len(v))
		for i, item := range v {
			tmpItems[i] = item.ToPlutusData()
		}
		return data.NewList(tmpItems...)
	default:
		rv := reflect.ValueOf(v)
		// nolint:exhaustive
		switch rv.Kind() {
		case reflect.Slice:
			tmpItems := make([]data.PlutusData, rv.Len())
			for i := range rv.Len() {
				item := rv.Index(i)
				tmpItems[i] = toPlutusData(item.Interface())
			}
			return data.NewList(tmpItems...)
		case reflect.Map:
			tmpPairs := make([][2]data.PlutusData, rv.Len())
			for i, k := range rv.MapKeys() {
				v := rv.MapIndex(k)
				tmpPairs[i] = [2]data.PlutusData{
					toPlutusData(k.Interface()),
					toPlutusData(v.Interface()),
				}
			}
			return data.NewMap(tmpPairs)
		}
	}
	return nil
}

type Coin int64

func (c Coin) ToPlutusData() data.PlutusData {
	return data.NewInteger(new(big.Int).SetInt64(int64(c)))
}

type PositiveCoin uint64

func (c PositiveCoin) ToPlutusData() data.PlutusData {
	return data.NewInteger(new(big.Int).SetUint64(uint64(c)))
}

// ResolvedInput is a UTxO rendered as a TxInInfo pair of output reference
// and resolved output
type ResolvedInput ledger.Utxo

func (r ResolvedInput) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		0,
		r.Id.ToPlutusData(),
		txOutToPlutusData(r.Output),
	)
}

type Redeemer struct {
	Tag     uint8
	Index   uint32
	Data    data.PlutusData
	ExUnits ledger.ExUnits
}

func (r Redeemer) ToPlutusData() data.PlutusData {
	return r.Data
}

// valueToPlutusData renders a Value in the script view form, with the coin
// quantity keyed under the empty policy and asset name
func valueToPlutusData(v ledger.Value) data.PlutusData {
	pairs := [][2]data.PlutusData{
		{
			data.NewByteString(nil),
			data.NewMap([][2]data.PlutusData{
				{
					data.NewByteString(nil),
					data.NewInteger(big.NewInt(v.Coin)),
				},
			}),
		},
	}
	if !v.Assets.IsEmpty() {
		assetsPd := v.Assets.ToPlutusData()
		if assetsMap, ok := assetsPd.(*data.Map); ok {
			pairs = append(pairs, assetsMap.Pairs...)
		}
	}
	return data.NewMap(pairs)
}

// txOutToPlutusData renders an output in the Babbage-and-forward form with
// an inline datum option and an optional reference script hash
func txOutToPlutusData(o ledger.TransactionOutput) data.PlutusData {
	tmpAddr := o.Address()
	var datumPd data.PlutusData
	if tmpDatum := o.Datum(); tmpDatum != nil {
		datumPd = data.NewConstr(2, tmpDatum.Data)
	} else if tmpHash := o.DatumHash(); tmpHash != nil {
		datumPd = data.NewConstr(1, data.NewByteString(tmpHash.Bytes()))
	} else {
		datumPd = data.NewConstr(0)
	}
	var refScriptPd data.PlutusData
	if tmpRef := o.ScriptRef(); tmpRef != nil && tmpRef.Script != nil {
		refScriptPd = data.NewConstr(
			0,
			data.NewByteString(tmpRef.Script.Hash().Bytes()),
		)
	} else {
		refScriptPd = data.NewConstr(1)
	}
	return data.NewConstr(
		0,
		tmpAddr.ToPlutusData(),
		valueToPlutusData(o.Amount()),
		datumPd,
		refScriptPd,
	)
}

// txOutToPlutusDataV1 renders an output in the original form with an
// optional datum hash
func txOutToPlutusDataV1(o ledger.TransactionOutput) data.PlutusData {
	tmpAddr := o.Address()
	var datumPd data.PlutusData
	if tmpHash := o.DatumHash(); tmpHash != nil {
		datumPd = data.NewConstr(0, data.NewByteString(tmpHash.Bytes()))
	} else {
		datumPd = data.NewConstr(1)
	}
	return data.NewConstr(
		0,
		tmpAddr.ToPlutusData(),
		valueToPlutusData(o.Amount()),
		datumPd,
	)
}

// txOutRefToPlutusDataV1V2 renders an output reference with the transaction
// id wrapped in its own constructor, as the V1/V2 context shape requires
func txOutRefToPlutusDataV1V2(i ledger.TransactionInput) data.PlutusData {
	return data.NewConstr(
		0,
		data.NewConstr(0, data.NewByteString(i.Id().Bytes())),
		data.NewInteger(new(big.Int).SetUint64(uint64(i.Index()))),
	)
}
