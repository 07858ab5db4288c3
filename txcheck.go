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

// Package txcheck is an offline validation oracle for Conway-era Cardano
// transactions. The caller supplies the raw transaction CBOR and a snapshot
// of the chain state the transaction depends on; the oracle reports every
// ledger rule violation it can find, in both phases, rather than stopping
// at the first
package txcheck

import (
	"github.com/blinklabs-io/txcheck/ledger"
	"github.com/blinklabs-io/txcheck/validation"
)

// CollectNecessaryData decodes a transaction and reports which chain state
// entries a subsequent ValidateTransaction call will look up: UTxOs,
// accounts, pools, DReps, governance actions, and committee credentials
func CollectNecessaryData(
	txBytes []byte,
) (*validation.NecessaryInputData, error) {
	tx, err := ledger.NewTransactionFromCbor(txBytes)
	if err != nil {
		return nil, validation.TxDecodeError{Err: err}
	}
	return validation.CollectNecessaryData(tx), nil
}

// ValidateTransaction decodes a transaction and validates it against the
// provided snapshot. The only error return is a decode failure; every rule
// violation is accumulated into the result instead
func ValidateTransaction(
	txBytes []byte,
	ctx *validation.ValidationInputContext,
) (*validation.ValidationResult, error) {
	tx, err := ledger.NewTransactionFromCbor(txBytes)
	if err != nil {
		return nil, validation.TxDecodeError{Err: err}
	}
	return validation.ValidateTransaction(tx, ctx), nil
}
