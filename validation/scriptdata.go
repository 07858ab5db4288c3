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
	"bytes"
	"slices"

	"github.com/blinklabs-io/txcheck/cbor"
	"github.com/blinklabs-io/txcheck/ledger"
)

// computeScriptDataHash recomputes the script data hash over the witness
// redeemers, the witness datums, and the language views of every Plutus
// version the transaction uses. Returns nil when the transaction has no
// script data at all
func computeScriptDataHash(
	tx *ledger.Transaction,
	pp *ledger.ProtocolParameters,
	usedLanguages map[uint]struct{},
) *ledger.Blake2b256 {
	ws := tx.Witnesses()
	redeemers := ws.Redeemers()
	datums := ws.PlutusData()
	if redeemers.Len() == 0 && len(datums) == 0 && len(usedLanguages) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if redeemers.Len() > 0 {
		buf.Write(redeemers.Cbor())
	} else {
		// An absent redeemer set hashes as an empty map
		buf.WriteByte(0xa0)
	}
	if len(datums) > 0 {
		datumsRaw := make([]cbor.RawMessage, 0, len(datums))
		for _, datum := range datums {
			datumsRaw = append(datumsRaw, cbor.RawMessage(datum.Cbor()))
		}
		datumsCbor, err := cbor.Encode(datumsRaw)
		if err == nil {
			buf.Write(datumsCbor)
		}
	}
	buf.Write(languageViews(pp, usedLanguages))
	hash := ledger.Blake2b256Hash(buf.Bytes())
	return &hash
}

// languageViews encodes the cost model language views map. PlutusV1 keeps
// its historical double-bagged encoding: the key is the byte-wrapped
// language tag and the value is a byte-wrapped indefinite-length array
func languageViews(
	pp *ledger.ProtocolParameters,
	usedLanguages map[uint]struct{},
) []byte {
	type viewEntry struct {
		key   []byte
		value []byte
	}
	entries := make([]viewEntry, 0, len(usedLanguages))
	for language := range usedLanguages {
		costs := pp.CostModel(language)
		if costs == nil {
			continue
		}
		var entry viewEntry
		if language == ledger.PlutusLanguageV1 {
			keyInner, err := cbor.Encode(uint(language))
			if err != nil {
				continue
			}
			key, err := cbor.Encode(keyInner)
			if err != nil {
				continue
			}
			var valueInner bytes.Buffer
			valueInner.WriteByte(0x9f)
			for _, cost := range costs {
				costCbor, err := cbor.Encode(cost)
				if err != nil {
					continue
				}
				valueInner.Write(costCbor)
			}
			valueInner.WriteByte(0xff)
			value, err := cbor.Encode(valueInner.Bytes())
			if err != nil {
				continue
			}
			entry = viewEntry{key: key, value: value}
		} else {
			key, err := cbor.Encode(uint(language))
			if err != nil {
				continue
			}
			value, err := cbor.Encode(costs)
			if err != nil {
				continue
			}
			entry = viewEntry{key: key, value: value}
		}
		entries = append(entries, entry)
	}
	slices.SortFunc(entries, func(a, b viewEntry) int {
		return bytes.Compare(a.key, b.key)
	})
	var buf bytes.Buffer
	// At most three entries, so the short map header form always fits
	buf.WriteByte(0xa0 | byte(len(entries)))
	for _, entry := range entries {
		buf.Write(entry.key)
		buf.Write(entry.value)
	}
	return buf.Bytes()
}
