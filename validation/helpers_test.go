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
	"testing"

	test_ledger "github.com/blinklabs-io/txcheck/internal/test/ledger"
	"github.com/blinklabs-io/txcheck/ledger"
)

func testSnapshot() *ValidationInputContext {
	return &ValidationInputContext{
		Utxos:                 map[string]*UtxoEntry{},
		Accounts:              map[string]*AccountContext{},
		Pools:                 map[string]*PoolContext{},
		DReps:                 map[string]*DRepContext{},
		GovActions:            map[string]*GovActionContext{},
		CommitteeMembers:      map[string]*CommitteeMemberContext{},
		LastEnactedGovActions: map[uint]string{},
		ProtocolParameters:    test_ledger.ProtocolParameters(),
		CurrentSlot:           1000,
		CurrentEpoch:          100,
		NetworkId:             ledger.AddressNetworkTestnet,
	}
}

func addUtxo(
	ctx *ValidationInputContext,
	input ledger.TransactionInput,
	output ledger.TransactionOutput,
) {
	ctx.Utxos[UtxoKey(input)] = &UtxoEntry{
		Utxo: ledger.Utxo{
			Id:     input,
			Output: output,
		},
	}
}

func findingRules(findings []Finding) []string {
	ret := make([]string, 0, len(findings))
	for _, f := range findings {
		ret = append(ret, f.RuleName())
	}
	return ret
}

func hasRule(findings []Finding, rule string) bool {
	for _, f := range findings {
		if f.RuleName() == rule {
			return true
		}
	}
	return false
}

func assertOnlyRule(t *testing.T, findings []Finding, rule string) {
	t.Helper()
	if len(findings) != 1 || findings[0].RuleName() != rule {
		t.Fatalf(
			"expected single %s finding, got %v",
			rule,
			findingRules(findings),
		)
	}
}
