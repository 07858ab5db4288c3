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

// RedeemerReport is the evaluation outcome for a single redeemer
type RedeemerReport struct {
	Tag             uint8          `json:"tag"`
	Index           uint32         `json:"index"`
	Success         bool           `json:"success"`
	DeclaredExUnits ledger.ExUnits `json:"declaredExUnits"`
	ComputedExUnits ledger.ExUnits `json:"computedExUnits"`
	Err             string         `json:"error,omitempty"`
	Logs            []string       `json:"logs,omitempty"`
}

// ValidationResult accumulates all findings from a single validation call.
// Errors and warnings are additive across validators and never deduplicated
type ValidationResult struct {
	Errors          []Finding
	Warnings        []Finding
	Phase2Errors    []Finding
	Phase2Warnings  []Finding
	RedeemerReports []RedeemerReport
}

func (r *ValidationResult) addError(f Finding) {
	r.Errors = append(r.Errors, f)
}

func (r *ValidationResult) addWarning(f Finding) {
	r.Warnings = append(r.Warnings, f)
}

func (r *ValidationResult) addPhase2Error(f Finding) {
	r.Phase2Errors = append(r.Phase2Errors, f)
}

func (r *ValidationResult) addPhase2Warning(f Finding) {
	r.Phase2Warnings = append(r.Phase2Warnings, f)
}

// Append concatenates another result's findings onto this one
func (r *ValidationResult) Append(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Phase2Errors = append(r.Phase2Errors, other.Phase2Errors...)
	r.Phase2Warnings = append(r.Phase2Warnings, other.Phase2Warnings...)
	r.RedeemerReports = append(r.RedeemerReports, other.RedeemerReports...)
}

// IsValid returns true when no errors were found in either phase
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0 && len(r.Phase2Errors) == 0
}
