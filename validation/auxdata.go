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

// validateAuxiliaryData cross-checks attached auxiliary data against the
// hash declared in the transaction body
func validateAuxiliaryData(
	tx *ledger.Transaction,
	res *ValidationResult,
) {
	auxData := tx.Metadata()
	declared := tx.Body.AuxDataHash
	if auxData == nil {
		if declared != nil {
			res.addError(AuxiliaryDataHashPresentButNotExpectedError{
				Declared: *declared,
			})
		}
		return
	}
	computed := auxData.Hash()
	if declared == nil {
		res.addError(AuxiliaryDataHashMissingError{Computed: computed})
		return
	}
	if *declared != computed {
		res.addError(AuxiliaryDataHashMismatchError{
			Declared: *declared,
			Computed: computed,
		})
	}
}
