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
	"fmt"

	"github.com/blinklabs-io/txcheck/ledger"
)

func redeemerLocation(tag uint8, index uint32) string {
	return fmt.Sprintf(
		"transaction.witness_set.redeemers.%s.%d",
		ledger.RedeemerTagName(tag),
		index,
	)
}

type MissingScriptForRedeemerError struct {
	Tag   uint8
	Index uint32
}

func (e MissingScriptForRedeemerError) Error() string {
	return fmt.Sprintf(
		"no script resolves for redeemer %s index %d",
		ledger.RedeemerTagName(e.Tag),
		e.Index,
	)
}

func (e MissingScriptForRedeemerError) RuleName() string {
	return RuleMissingScriptForRedeemer
}

func (e MissingScriptForRedeemerError) Locations() []string {
	return []string{redeemerLocation(e.Tag, e.Index)}
}

type NativeScriptIsReferencedByRedeemerError struct {
	Tag        uint8
	Index      uint32
	ScriptHash ledger.ScriptHash
}

func (e NativeScriptIsReferencedByRedeemerError) Error() string {
	return fmt.Sprintf(
		"redeemer %s index %d points at native script %s",
		ledger.RedeemerTagName(e.Tag),
		e.Index,
		e.ScriptHash.String(),
	)
}

func (e NativeScriptIsReferencedByRedeemerError) RuleName() string {
	return RuleNativeScriptIsReferencedByRedeemer
}

func (e NativeScriptIsReferencedByRedeemerError) Locations() []string {
	return []string{redeemerLocation(e.Tag, e.Index)}
}

type NoCostModelError struct {
	Language string
}

func (e NoCostModelError) Error() string {
	return "no cost model available for " + e.Language
}

func (e NoCostModelError) RuleName() string {
	return RuleNoCostModel
}

func (e NoCostModelError) Locations() []string {
	return []string{"context.protocol_parameters.cost_models"}
}

type NoEnoughBudgetError struct {
	Tag      uint8
	Index    uint32
	Declared ledger.ExUnits
	Consumed ledger.ExUnits
}

func (e NoEnoughBudgetError) Error() string {
	return fmt.Sprintf(
		"script for redeemer %s index %d consumed (mem %d, steps %d), exceeding declared (mem %d, steps %d)",
		ledger.RedeemerTagName(e.Tag),
		e.Index,
		e.Consumed.Memory,
		e.Consumed.Steps,
		e.Declared.Memory,
		e.Declared.Steps,
	)
}

func (e NoEnoughBudgetError) RuleName() string {
	return RuleNoEnoughBudget
}

func (e NoEnoughBudgetError) Locations() []string {
	return []string{redeemerLocation(e.Tag, e.Index)}
}

type MachineError struct {
	Tag   uint8
	Index uint32
	Err   string
	Logs  []string
}

func (e MachineError) Error() string {
	tmpMsg := fmt.Sprintf(
		"script for redeemer %s index %d failed: %s",
		ledger.RedeemerTagName(e.Tag),
		e.Index,
		e.Err,
	)
	for _, logLine := range e.Logs {
		tmpMsg += "\n  trace: " + logLine
	}
	return tmpMsg
}

func (e MachineError) RuleName() string {
	return RuleMachineError
}

func (e MachineError) Locations() []string {
	return []string{redeemerLocation(e.Tag, e.Index)}
}

type BudgetBiggerThanExpectedWarning struct {
	Tag      uint8
	Index    uint32
	Declared ledger.ExUnits
	Consumed ledger.ExUnits
}

func (w BudgetBiggerThanExpectedWarning) Error() string {
	return fmt.Sprintf(
		"declared budget (mem %d, steps %d) exceeds consumed (mem %d, steps %d) for redeemer %s index %d",
		w.Declared.Memory,
		w.Declared.Steps,
		w.Consumed.Memory,
		w.Consumed.Steps,
		ledger.RedeemerTagName(w.Tag),
		w.Index,
	)
}

func (w BudgetBiggerThanExpectedWarning) RuleName() string {
	return RuleBudgetBiggerThanExpected
}

func (w BudgetBiggerThanExpectedWarning) Locations() []string {
	return []string{redeemerLocation(w.Tag, w.Index)}
}
