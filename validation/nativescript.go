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
	"github.com/blinklabs-io/txcheck/ledger"
)

// evalNativeScript determines whether a native script is satisfied by the
// provided signer set at the given slot. Timelock semantics: a start lock is
// satisfied strictly after its slot, an expiry lock at or before its slot
func evalNativeScript(
	script *ledger.NativeScript,
	signers map[ledger.Blake2b224]struct{},
	currentSlot uint64,
) bool {
	switch item := script.Item().(type) {
	case *ledger.NativeScriptPubkey:
		_, ok := signers[ledger.NewBlake2b224(item.Hash)]
		return ok
	case *ledger.NativeScriptAll:
		for i := range item.Scripts {
			if !evalNativeScript(&item.Scripts[i], signers, currentSlot) {
				return false
			}
		}
		return true
	case *ledger.NativeScriptAny:
		for i := range item.Scripts {
			if evalNativeScript(&item.Scripts[i], signers, currentSlot) {
				return true
			}
		}
		return false
	case *ledger.NativeScriptNofK:
		var count uint
		for i := range item.Scripts {
			if evalNativeScript(&item.Scripts[i], signers, currentSlot) {
				count++
				if count >= item.N {
					return true
				}
			}
		}
		return count >= item.N
	case *ledger.NativeScriptInvalidBefore:
		return currentSlot > item.Slot
	case *ledger.NativeScriptInvalidHereafter:
		return currentSlot <= item.Slot
	}
	return false
}

// nativeScriptSigners collects every pubkey hash mentioned anywhere inside a
// native script. Signatures from these keys are never extraneous even when
// the minimal satisfying set does not need them
func nativeScriptSigners(
	script *ledger.NativeScript,
	out map[ledger.Blake2b224]struct{},
) {
	switch item := script.Item().(type) {
	case *ledger.NativeScriptPubkey:
		out[ledger.NewBlake2b224(item.Hash)] = struct{}{}
	case *ledger.NativeScriptAll:
		for i := range item.Scripts {
			nativeScriptSigners(&item.Scripts[i], out)
		}
	case *ledger.NativeScriptAny:
		for i := range item.Scripts {
			nativeScriptSigners(&item.Scripts[i], out)
		}
	case *ledger.NativeScriptNofK:
		for i := range item.Scripts {
			nativeScriptSigners(&item.Scripts[i], out)
		}
	}
}
