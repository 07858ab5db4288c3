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

package txcheck

import (
	"github.com/blinklabs-io/txcheck/validation"
)

// Convenience aliases so embedding callers can work with the result types
// without importing the validation package directly
type (
	Finding                = validation.Finding
	ValidationResult       = validation.ValidationResult
	ValidationInputContext = validation.ValidationInputContext
	NecessaryInputData     = validation.NecessaryInputData
	RedeemerReport         = validation.RedeemerReport
	TxDecodeError          = validation.TxDecodeError
)

// NewValidationInputContextFromJSON builds a snapshot from its JSON form
func NewValidationInputContextFromJSON(
	jsonData []byte,
) (*validation.ValidationInputContext, error) {
	return validation.NewValidationInputContextFromJSON(jsonData)
}

// Hint returns remediation guidance for a finding, when one exists
func Hint(f Finding) string {
	return validation.Hint(f)
}
