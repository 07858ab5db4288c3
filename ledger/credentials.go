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
	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txcheck/cbor"
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
)

const (
	CredentialTypeAddrKeyHash = 0
	CredentialTypeScriptHash  = 1
)

// Credential is a key hash or script hash with a discriminator for which of
// the two it is. It is used for stake credentials, committee members, and
// DRep identities
type Credential struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	CredType   uint
	Credential Blake2b224
}

func (c *Credential) UnmarshalCBOR(cborData []byte) error {
	type tCredential Credential
	var tmp tCredential
	if _, err := cbor.Decode(cborData, &tmp); err != nil {
		return err
	}
	*c = Credential(tmp)
	c.SetCbor(cborData)
	return nil
}

// IsScript returns true when the credential is a script hash
func (c *Credential) IsScript() bool {
	return c != nil && c.CredType == CredentialTypeScriptHash
}

// Hash returns the credential hash
func (c *Credential) Hash() Blake2b224 {
	if c == nil {
		return Blake2b224{}
	}
	return c.Credential
}

func (c *Credential) String() string {
	if c == nil {
		return ""
	}
	return c.Credential.String()
}

func (c *Credential) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		// Constructor index matches the credential type discriminator
		uint(c.CredType),
		data.NewByteString(c.Credential.Bytes()),
	)
}

func (c *Credential) Utxorpc() *utxorpc.StakeCredential {
	ret := &utxorpc.StakeCredential{}
	switch c.CredType {
	case CredentialTypeAddrKeyHash:
		ret.StakeCredential = &utxorpc.StakeCredential_AddrKeyHash{
			AddrKeyHash: c.Credential.Bytes(),
		}
	case CredentialTypeScriptHash:
		ret.StakeCredential = &utxorpc.StakeCredential_ScriptHash{
			ScriptHash: c.Credential.Bytes(),
		}
	}
	return ret
}

// StakeCredential is a Credential used in certificates and withdrawals
type StakeCredential = Credential
