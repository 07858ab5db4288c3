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

// ValidateTransaction runs every phase-1 validator and the phase-2 script
// evaluator against the transaction, accumulating all findings into a
// single result. Validators run unconditionally; a failure in one never
// short-circuits the others
func ValidateTransaction(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
) *ValidationResult {
	res := &ValidationResult{}
	validateLimits(tx, ctx, res)
	validateBalance(tx, ctx, res)
	validateFee(tx, ctx, res)
	validateOutputs(tx, ctx, res)
	validateCollateral(tx, ctx, res)
	validateRegistration(tx, ctx, res)
	validateWitnesses(tx, ctx, res)
	validateAuxiliaryData(tx, res)
	validatePhase2(tx, ctx, res)
	return res
}
