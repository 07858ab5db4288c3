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

	"github.com/stretchr/testify/assert"
)

func slotPtr(slot uint64) *uint64 {
	return &slot
}

func pubkeyNativeScript(seed byte) NativeScript {
	return NativeScript{
		item: &NativeScriptPubkey{
			Type: NativeScriptTypePubkey,
			Hash: bytes.Repeat([]byte{seed}, 28),
		},
	}
}

func TestNativeScriptEvaluatePubkey(t *testing.T) {
	script := pubkeyNativeScript(0x01)
	signers := map[Blake2b224]struct{}{
		NewBlake2b224(bytes.Repeat([]byte{0x01}, 28)): {},
	}
	assert.True(t, script.Evaluate(signers, nil, nil))
	assert.False(
		t,
		script.Evaluate(map[Blake2b224]struct{}{}, nil, nil),
	)
}

func TestNativeScriptEvaluateInterval(t *testing.T) {
	before := NativeScript{
		item: &NativeScriptInvalidBefore{
			Type: NativeScriptTypeInvalidBefore,
			Slot: 100,
		},
	}
	hereafter := NativeScript{
		item: &NativeScriptInvalidHereafter{
			Type: NativeScriptTypeInvalidHereafter,
			Slot: 100,
		},
	}
	noSigners := map[Blake2b224]struct{}{}

	// A start lock needs a lower bound at or after its slot
	assert.False(t, before.Evaluate(noSigners, nil, nil))
	assert.False(t, before.Evaluate(noSigners, slotPtr(99), nil))
	assert.True(t, before.Evaluate(noSigners, slotPtr(100), nil))
	assert.True(t, before.Evaluate(noSigners, slotPtr(101), nil))

	// An expiry lock needs an upper bound at or before its slot
	assert.False(t, hereafter.Evaluate(noSigners, nil, nil))
	assert.True(t, hereafter.Evaluate(noSigners, nil, slotPtr(99)))
	assert.True(t, hereafter.Evaluate(noSigners, nil, slotPtr(100)))
	assert.False(t, hereafter.Evaluate(noSigners, nil, slotPtr(101)))
}

func TestNativeScriptEvaluateCompound(t *testing.T) {
	signers := map[Blake2b224]struct{}{
		NewBlake2b224(bytes.Repeat([]byte{0x01}, 28)): {},
		NewBlake2b224(bytes.Repeat([]byte{0x02}, 28)): {},
	}

	all := NativeScript{
		item: &NativeScriptAll{
			Type: NativeScriptTypeAll,
			Scripts: []NativeScript{
				pubkeyNativeScript(0x01),
				{
					item: &NativeScriptInvalidBefore{
						Type: NativeScriptTypeInvalidBefore,
						Slot: 100,
					},
				},
			},
		},
	}
	assert.True(t, all.Evaluate(signers, slotPtr(100), nil))
	assert.False(t, all.Evaluate(signers, slotPtr(99), nil))

	anyScript := NativeScript{
		item: &NativeScriptAny{
			Type: NativeScriptTypeAny,
			Scripts: []NativeScript{
				pubkeyNativeScript(0x07),
				pubkeyNativeScript(0x02),
			},
		},
	}
	assert.True(t, anyScript.Evaluate(signers, nil, nil))

	nofk := NativeScript{
		item: &NativeScriptNofK{
			Type: NativeScriptTypeNofK,
			N:    2,
			Scripts: []NativeScript{
				pubkeyNativeScript(0x01),
				pubkeyNativeScript(0x07),
				pubkeyNativeScript(0x02),
			},
		},
	}
	assert.True(t, nofk.Evaluate(signers, nil, nil))
	nofk.item.(*NativeScriptNofK).N = 3
	assert.False(t, nofk.Evaluate(signers, nil, nil))
}

func TestNativeScriptEvaluateEmpty(t *testing.T) {
	var script NativeScript
	assert.False(t, script.Evaluate(nil, nil, nil))
}
