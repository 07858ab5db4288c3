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
	"fmt"
	"slices"

	"github.com/blinklabs-io/txcheck/cbor"
)

const (
	NativeScriptTypePubkey           = 0
	NativeScriptTypeAll              = 1
	NativeScriptTypeAny              = 2
	NativeScriptTypeNofK             = 3
	NativeScriptTypeInvalidBefore    = 4
	NativeScriptTypeInvalidHereafter = 5
)

type NativeScript struct {
	cbor.DecodeStoreCbor
	item nativeScriptItem
}

func (n *NativeScript) Item() any {
	return n.item
}

func (n *NativeScript) UnmarshalCBOR(data []byte) error {
	id, err := cbor.DecodeIdFromList(data)
	if err != nil {
		return err
	}
	var tmpData nativeScriptItem
	switch id {
	case NativeScriptTypePubkey:
		tmpData = &NativeScriptPubkey{}
	case NativeScriptTypeAll:
		tmpData = &NativeScriptAll{}
	case NativeScriptTypeAny:
		tmpData = &NativeScriptAny{}
	case NativeScriptTypeNofK:
		tmpData = &NativeScriptNofK{}
	case NativeScriptTypeInvalidBefore:
		tmpData = &NativeScriptInvalidBefore{}
	case NativeScriptTypeInvalidHereafter:
		tmpData = &NativeScriptInvalidHereafter{}
	default:
		return fmt.Errorf("unknown native script type %d", id)
	}
	if _, err := cbor.Decode(data, tmpData); err != nil {
		return err
	}
	n.item = tmpData
	n.SetCbor(data)
	return nil
}

func (n NativeScript) MarshalCBOR() ([]byte, error) {
	if n.Cbor() != nil {
		return n.Cbor(), nil
	}
	return cbor.Encode(n.item)
}

func (NativeScript) isScript() {}

// Hash returns the script hash, computed over the script bytes with the
// native script language prefix
func (n NativeScript) Hash() ScriptHash {
	return Blake2b224Hash(
		slices.Concat(
			[]byte{ScriptRefTypeNativeScript},
			[]byte(n.Cbor()),
		),
	)
}

func (n NativeScript) RawScriptBytes() []byte {
	return n.Cbor()
}

// Evaluate determines whether the script is satisfied by the provided set of
// key hashes and the transaction validity interval. A nil bound means the
// corresponding end of the interval is open
func (n *NativeScript) Evaluate(
	keyHashes map[Blake2b224]struct{},
	validityStart *uint64,
	validityEnd *uint64,
) bool {
	if n.item == nil {
		return false
	}
	return n.item.evaluate(keyHashes, validityStart, validityEnd)
}

type nativeScriptItem interface {
	evaluate(
		keyHashes map[Blake2b224]struct{},
		validityStart *uint64,
		validityEnd *uint64,
	) bool
}

type NativeScriptPubkey struct {
	cbor.StructAsArray
	Type uint
	Hash []byte
}

func (s *NativeScriptPubkey) evaluate(
	keyHashes map[Blake2b224]struct{},
	_ *uint64,
	_ *uint64,
) bool {
	_, ok := keyHashes[NewBlake2b224(s.Hash)]
	return ok
}

type NativeScriptAll struct {
	cbor.StructAsArray
	Type    uint
	Scripts []NativeScript
}

func (s *NativeScriptAll) evaluate(
	keyHashes map[Blake2b224]struct{},
	validityStart *uint64,
	validityEnd *uint64,
) bool {
	for _, script := range s.Scripts {
		if !script.Evaluate(keyHashes, validityStart, validityEnd) {
			return false
		}
	}
	return true
}

type NativeScriptAny struct {
	cbor.StructAsArray
	Type    uint
	Scripts []NativeScript
}

func (s *NativeScriptAny) evaluate(
	keyHashes map[Blake2b224]struct{},
	validityStart *uint64,
	validityEnd *uint64,
) bool {
	for _, script := range s.Scripts {
		if script.Evaluate(keyHashes, validityStart, validityEnd) {
			return true
		}
	}
	return false
}

type NativeScriptNofK struct {
	cbor.StructAsArray
	Type    uint
	N       uint
	Scripts []NativeScript
}

func (s *NativeScriptNofK) evaluate(
	keyHashes map[Blake2b224]struct{},
	validityStart *uint64,
	validityEnd *uint64,
) bool {
	var count uint
	for _, script := range s.Scripts {
		if script.Evaluate(keyHashes, validityStart, validityEnd) {
			count++
			if count >= s.N {
				return true
			}
		}
	}
	return count >= s.N
}

type NativeScriptInvalidBefore struct {
	cbor.StructAsArray
	Type uint
	Slot uint64
}

func (s *NativeScriptInvalidBefore) evaluate(
	_ map[Blake2b224]struct{},
	validityStart *uint64,
	_ *uint64,
) bool {
	// The transaction interval must have a lower bound at or after the
	// script slot
	return validityStart != nil && *validityStart >= s.Slot
}

type NativeScriptInvalidHereafter struct {
	cbor.StructAsArray
	Type uint
	Slot uint64
}

func (s *NativeScriptInvalidHereafter) evaluate(
	_ map[Blake2b224]struct{},
	_ *uint64,
	validityEnd *uint64,
) bool {
	// The transaction interval must have an upper bound at or before the
	// script slot
	return validityEnd != nil && *validityEnd <= s.Slot
}
