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
	"iter"
	"slices"

	"github.com/blinklabs-io/txcheck/cbor"
)

type VkeyWitness struct {
	cbor.StructAsArray
	Vkey      []byte
	Signature []byte
}

// KeyHash returns the hash of the witness verification key
func (w VkeyWitness) KeyHash() Blake2b224 {
	return Blake2b224Hash(w.Vkey)
}

type BootstrapWitness struct {
	cbor.StructAsArray
	PublicKey  []byte
	Signature  []byte
	ChainCode  []byte
	Attributes []byte
}

const (
	RedeemerTagSpend     uint8 = 0
	RedeemerTagMint      uint8 = 1
	RedeemerTagCert      uint8 = 2
	RedeemerTagReward    uint8 = 3
	RedeemerTagVoting    uint8 = 4
	RedeemerTagProposing uint8 = 5
)

// RedeemerTagName renders a redeemer tag for display
func RedeemerTagName(tag uint8) string {
	switch tag {
	case RedeemerTagSpend:
		return "spend"
	case RedeemerTagMint:
		return "mint"
	case RedeemerTagCert:
		return "cert"
	case RedeemerTagReward:
		return "reward"
	case RedeemerTagVoting:
		return "voting"
	case RedeemerTagProposing:
		return "proposing"
	default:
		return "unknown"
	}
}

type RedeemerKey struct {
	cbor.StructAsArray
	Tag   uint8
	Index uint32
}

type RedeemerValue struct {
	cbor.StructAsArray
	Data    Datum
	ExUnits ExUnits
}

// legacyRedeemer is the pre-Conway list form of a redeemer
type legacyRedeemer struct {
	cbor.StructAsArray
	Tag     uint8
	Index   uint32
	Data    Datum
	ExUnits ExUnits
}

// Redeemers is the set of redeemers from a transaction witness set. Both the
// legacy list encoding and the map encoding are accepted
type Redeemers struct {
	cbor.DecodeStoreCbor
	Redeemers map[RedeemerKey]RedeemerValue
	legacy    bool
}

func (r *Redeemers) UnmarshalCBOR(cborData []byte) error {
	r.SetCbor(cborData)
	// Try to parse as legacy redeemer first
	var tmpRedeemers []legacyRedeemer
	if _, err := cbor.Decode(cborData, &tmpRedeemers); err == nil {
		r.Redeemers = make(map[RedeemerKey]RedeemerValue)
		for _, redeemer := range tmpRedeemers {
			tmpKey := RedeemerKey{
				Tag:   redeemer.Tag,
				Index: redeemer.Index,
			}
			tmpVal := RedeemerValue{
				Data:    redeemer.Data,
				ExUnits: redeemer.ExUnits,
			}
			r.Redeemers[tmpKey] = tmpVal
		}
		r.legacy = true
		return nil
	}
	_, err := cbor.Decode(cborData, &(r.Redeemers))
	return err
}

func (r *Redeemers) MarshalCBOR() ([]byte, error) {
	if r.legacy {
		tmpRedeemers := make([]legacyRedeemer, 0, len(r.Redeemers))
		for key, value := range r.Iter() {
			tmpRedeemers = append(
				tmpRedeemers,
				legacyRedeemer{
					Tag:     key.Tag,
					Index:   key.Index,
					Data:    value.Data,
					ExUnits: value.ExUnits,
				},
			)
		}
		return cbor.Encode(tmpRedeemers)
	}
	return cbor.Encode(r.Redeemers)
}

// Len returns the number of redeemers
func (r *Redeemers) Len() int {
	return len(r.Redeemers)
}

// Value looks up the redeemer for the provided tag and index
func (r *Redeemers) Value(tag uint8, index uint32) (RedeemerValue, bool) {
	val, ok := r.Redeemers[RedeemerKey{Tag: tag, Index: index}]
	return val, ok
}

// Iter iterates over the redeemers in deterministic order, sorted by tag and
// then index
func (r *Redeemers) Iter() iter.Seq2[RedeemerKey, RedeemerValue] {
	sortedKeys := make([]RedeemerKey, 0, len(r.Redeemers))
	for key := range r.Redeemers {
		sortedKeys = append(sortedKeys, key)
	}
	slices.SortFunc(
		sortedKeys,
		func(a, b RedeemerKey) int {
			if a.Tag != b.Tag {
				return int(a.Tag) - int(b.Tag)
			}
			return int(a.Index) - int(b.Index)
		},
	)
	return func(yield func(RedeemerKey, RedeemerValue) bool) {
		for _, key := range sortedKeys {
			if !yield(key, r.Redeemers[key]) {
				return
			}
		}
	}
}
