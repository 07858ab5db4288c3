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

// Package test_ledger holds deterministic fixture builders shared by the
// validation tests. Keeping them in an internal package prevents external
// consumers from depending on test-only helpers
package test_ledger

import (
	"crypto/ed25519"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/txcheck/cbor"
	"github.com/blinklabs-io/txcheck/ledger"
)

// Hash28 derives a deterministic 28-byte hash from a single seed byte
func Hash28(seed byte) ledger.Blake2b224 {
	return ledger.Blake2b224Hash([]byte{seed})
}

// Hash32 derives a deterministic 32-byte hash from a single seed byte
func Hash32(seed byte) ledger.Blake2b256 {
	return ledger.Blake2b256Hash([]byte{seed})
}

// Input builds a transaction input whose id derives from the seed byte
func Input(seed byte, idx int) ledger.TransactionInput {
	if idx < 0 {
		panic("negative output index")
	}
	return ledger.TransactionInput{
		TxId:        Hash32(seed),
		OutputIndex: uint32(idx),
	}
}

// KeyAddress builds a testnet base address with key-hash payment and
// staking parts derived from the seed bytes
func KeyAddress(paymentSeed byte, stakeSeed byte) ledger.Address {
	addr, err := ledger.NewAddressFromParts(
		ledger.AddressTypeKeyKey,
		ledger.AddressNetworkTestnet,
		Hash28(paymentSeed).Bytes(),
		Hash28(stakeSeed).Bytes(),
	)
	if err != nil {
		panic(fmt.Sprintf("build key address: %s", err))
	}
	return addr
}

// ScriptAddress builds a testnet address whose payment part is the provided
// script hash
func ScriptAddress(scriptHash ledger.Blake2b224, stakeSeed byte) ledger.Address {
	addr, err := ledger.NewAddressFromParts(
		ledger.AddressTypeScriptKey,
		ledger.AddressNetworkTestnet,
		scriptHash.Bytes(),
		Hash28(stakeSeed).Bytes(),
	)
	if err != nil {
		panic(fmt.Sprintf("build script address: %s", err))
	}
	return addr
}

// ScriptStakeAddress builds a testnet base address whose staking part is the
// provided script hash
func ScriptStakeAddress(paymentSeed byte, scriptHash ledger.Blake2b224) ledger.Address {
	addr, err := ledger.NewAddressFromParts(
		ledger.AddressTypeKeyScript,
		ledger.AddressNetworkTestnet,
		Hash28(paymentSeed).Bytes(),
		scriptHash.Bytes(),
	)
	if err != nil {
		panic(fmt.Sprintf("build script stake address: %s", err))
	}
	return addr
}

// Output builds a transaction output holding the given coin amount
func Output(addr ledger.Address, coin int64) ledger.TransactionOutput {
	return ledger.TransactionOutput{
		OutputAddress: addr,
		OutputAmount:  ledger.NewValue(coin),
	}
}

// Utxo pairs an input with the output it resolves to
func Utxo(input ledger.TransactionInput, output ledger.TransactionOutput) ledger.Utxo {
	return ledger.Utxo{
		Id:     input,
		Output: output,
	}
}

// NativeScript builds a native script through its CBOR form so the stored
// bytes and the script hash match what a decoded script would have
func NativeScript(item any) ledger.NativeScript {
	cborData, err := cbor.Encode(item)
	if err != nil {
		panic(fmt.Sprintf("encode native script: %s", err))
	}
	var script ledger.NativeScript
	if err := script.UnmarshalCBOR(cborData); err != nil {
		panic(fmt.Sprintf("decode native script: %s", err))
	}
	return script
}

// PubkeyScript builds a native pubkey script requiring the given key hash
func PubkeyScript(keyHash ledger.Blake2b224) ledger.NativeScript {
	return NativeScript(ledger.NativeScriptPubkey{
		Type: ledger.NativeScriptTypePubkey,
		Hash: keyHash.Bytes(),
	})
}

// KeyPair derives a deterministic ed25519 key pair from a seed byte
func KeyPair(seed byte) (ed25519.PublicKey, ed25519.PrivateKey) {
	var seedBytes [ed25519.SeedSize]byte
	seedBytes[0] = seed
	priv := ed25519.NewKeyFromSeed(seedBytes[:])
	return priv.Public().(ed25519.PublicKey), priv
}

// VkeyWitness signs the message with a key pair derived from the seed byte
func VkeyWitness(seed byte, msg []byte) ledger.VkeyWitness {
	pub, priv := KeyPair(seed)
	return ledger.VkeyWitness{
		Vkey:      pub,
		Signature: ed25519.Sign(priv, msg),
	}
}

// KeyHash returns the witness key hash for a seed-derived key pair
func KeyHash(seed byte) ledger.Blake2b224 {
	pub, _ := KeyPair(seed)
	return ledger.Blake2b224Hash(pub)
}

// Datum builds a witness datum from any CBOR-encodable value
func Datum(value any) ledger.Datum {
	cborData, err := cbor.Encode(value)
	if err != nil {
		panic(fmt.Sprintf("encode datum: %s", err))
	}
	var datum ledger.Datum
	if err := datum.UnmarshalCBOR(cborData); err != nil {
		panic(fmt.Sprintf("decode datum: %s", err))
	}
	return datum
}

// DatumHashOption builds an output datum option that references a witness
// datum by hash
func DatumHashOption(hash ledger.Blake2b256) *ledger.DatumOption {
	cborData, err := cbor.Encode([]any{ledger.DatumOptionTypeHash, hash})
	if err != nil {
		panic(fmt.Sprintf("encode datum option: %s", err))
	}
	var opt ledger.DatumOption
	if err := opt.UnmarshalCBOR(cborData); err != nil {
		panic(fmt.Sprintf("decode datum option: %s", err))
	}
	return &opt
}

// InlineDatumOption builds an output datum option carrying the datum inline
func InlineDatumOption(datum ledger.Datum) *ledger.DatumOption {
	cborData, err := cbor.Encode([]any{
		ledger.DatumOptionTypeData,
		cbor.Tag{Number: cbor.CborTagCbor, Content: datum.Cbor()},
	})
	if err != nil {
		panic(fmt.Sprintf("encode datum option: %s", err))
	}
	var opt ledger.DatumOption
	if err := opt.UnmarshalCBOR(cborData); err != nil {
		panic(fmt.Sprintf("decode datum option: %s", err))
	}
	return &opt
}

// ProtocolParameters returns a parameter set with realistic mainnet-era
// values, suitable as a baseline that individual tests tweak
func ProtocolParameters() ledger.ProtocolParameters {
	return ledger.ProtocolParameters{
		MinFeeA:              44,
		MinFeeB:              155381,
		MaxTxSize:            16384,
		KeyDeposit:           2_000_000,
		PoolDeposit:          500_000_000,
		MaxEpoch:             18,
		MinPoolCost:          170_000_000,
		AdaPerUtxoByte:       4310,
		MaxValueSize:         5000,
		CollateralPercentage: 150,
		MaxCollateralInputs:  3,
		GovActionDeposit:     100_000_000_000,
		DRepDeposit:          500_000_000,
		ExecutionCosts: ledger.ExUnitPrice{
			MemPrice:  &cbor.Rat{Rat: big.NewRat(577, 10000)},
			StepPrice: &cbor.Rat{Rat: big.NewRat(721, 10000000)},
		},
		MaxTxExUnits: ledger.ExUnits{
			Memory: 14_000_000,
			Steps:  10_000_000_000,
		},
		MinFeeRefScriptCostPerByte: &cbor.Rat{Rat: big.NewRat(15, 1)},
	}
}
