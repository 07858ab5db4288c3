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
	"slices"

	"github.com/blinklabs-io/txcheck/ledger"
)

// NecessaryInputData enumerates every external entity a transaction
// references, so a caller can resolve them before building a
// ValidationInputContext. All slices are sorted and free of duplicates
type NecessaryInputData struct {
	Utxos                     []string `json:"utxos"`
	Accounts                  []string `json:"accounts,omitempty"`
	Pools                     []string `json:"pools,omitempty"`
	DReps                     []string `json:"dreps,omitempty"`
	GovActions                []string `json:"govActions,omitempty"`
	CommitteeCredentials      []string `json:"committeeCredentials,omitempty"`
	LastEnactedGovActionTypes []uint   `json:"lastEnactedGovActionTypes,omitempty"`
}

type necessaryDataCollector struct {
	utxos          map[string]struct{}
	accounts       map[string]struct{}
	pools          map[string]struct{}
	dreps          map[string]struct{}
	govActions     map[string]struct{}
	committeeCreds map[string]struct{}
	actionTypes    map[uint]struct{}
}

func newNecessaryDataCollector() *necessaryDataCollector {
	return &necessaryDataCollector{
		utxos:          map[string]struct{}{},
		accounts:       map[string]struct{}{},
		pools:          map[string]struct{}{},
		dreps:          map[string]struct{}{},
		govActions:     map[string]struct{}{},
		committeeCreds: map[string]struct{}{},
		actionTypes:    map[uint]struct{}{},
	}
}

// CollectNecessaryData walks a decoded transaction and returns every
// snapshot key it will need during validation. It is a pure function of
// the transaction
func CollectNecessaryData(tx *ledger.Transaction) *NecessaryInputData {
	c := newNecessaryDataCollector()
	for _, input := range tx.Body.Inputs() {
		c.utxos[UtxoKey(input)] = struct{}{}
	}
	for _, input := range tx.Body.Collateral() {
		c.utxos[UtxoKey(input)] = struct{}{}
	}
	for _, input := range tx.Body.ReferenceInputs() {
		c.utxos[UtxoKey(input)] = struct{}{}
	}
	for addr := range tx.Body.Withdrawals() {
		if addr == nil {
			continue
		}
		c.accounts[addr.StakeKeyHash().String()] = struct{}{}
	}
	for _, certWrapper := range tx.Body.Certificates() {
		c.collectCertificate(certWrapper.Certificate)
	}
	for _, proposal := range tx.Body.ProposalProcedures() {
		c.collectProposal(proposal)
	}
	for voter, votes := range tx.Body.VotingProcedures() {
		if voter == nil {
			continue
		}
		c.collectVoter(*voter)
		for actionId := range votes {
			if actionId == nil {
				continue
			}
			c.govActions[actionId.String()] = struct{}{}
		}
	}
	return c.result()
}

func (c *necessaryDataCollector) collectCertificate(cert ledger.Certificate) {
	switch tmpCert := cert.(type) {
	case *ledger.StakeRegistrationCertificate:
		c.addAccount(&tmpCert.StakeCredential)
	case *ledger.StakeDeregistrationCertificate:
		c.addAccount(&tmpCert.StakeCredential)
	case *ledger.StakeDelegationCertificate:
		c.addAccount(&tmpCert.StakeCredential)
		c.pools[tmpCert.PoolKeyHash.String()] = struct{}{}
	case *ledger.PoolRegistrationCertificate:
		c.pools[tmpCert.Operator.String()] = struct{}{}
	case *ledger.PoolRetirementCertificate:
		c.pools[tmpCert.PoolKeyHash.String()] = struct{}{}
	case *ledger.RegistrationCertificate:
		c.addAccount(&tmpCert.StakeCredential)
	case *ledger.DeregistrationCertificate:
		c.addAccount(&tmpCert.StakeCredential)
	case *ledger.VoteDelegationCertificate:
		c.addAccount(&tmpCert.StakeCredential)
		c.addDrep(tmpCert.Drep)
	case *ledger.StakeVoteDelegationCertificate:
		c.addAccount(&tmpCert.StakeCredential)
		c.pools[tmpCert.PoolKeyHash.String()] = struct{}{}
		c.addDrep(tmpCert.Drep)
	case *ledger.StakeRegistrationDelegationCertificate:
		c.addAccount(&tmpCert.StakeCredential)
		c.pools[tmpCert.PoolKeyHash.String()] = struct{}{}
	case *ledger.VoteRegistrationDelegationCertificate:
		c.addAccount(&tmpCert.StakeCredential)
		c.addDrep(tmpCert.Drep)
	case *ledger.StakeVoteRegistrationDelegationCertificate:
		c.addAccount(&tmpCert.StakeCredential)
		c.pools[tmpCert.PoolKeyHash.String()] = struct{}{}
		c.addDrep(tmpCert.Drep)
	case *ledger.AuthCommitteeHotCertificate:
		c.committeeCreds[tmpCert.ColdCredential.Hash().String()] = struct{}{}
	case *ledger.ResignCommitteeColdCertificate:
		c.committeeCreds[tmpCert.ColdCredential.Hash().String()] = struct{}{}
	case *ledger.RegistrationDrepCertificate:
		c.dreps[tmpCert.DrepCredential.Hash().String()] = struct{}{}
	case *ledger.DeregistrationDrepCertificate:
		c.dreps[tmpCert.DrepCredential.Hash().String()] = struct{}{}
	case *ledger.UpdateDrepCertificate:
		c.dreps[tmpCert.DrepCredential.Hash().String()] = struct{}{}
	}
}

func (c *necessaryDataCollector) collectProposal(
	proposal ledger.ProposalProcedure,
) {
	c.actionTypes[proposal.GovAction.Type] = struct{}{}
	if tmpAction, ok := proposal.GovAction.Action.(*ledger.TreasuryWithdrawalGovAction); ok {
		for addr := range tmpAction.Withdrawals {
			if addr == nil {
				continue
			}
			c.accounts[addr.StakeKeyHash().String()] = struct{}{}
		}
	}
}

func (c *necessaryDataCollector) collectVoter(voter ledger.Voter) {
	switch voter.Type {
	case ledger.VoterTypeConstitutionalCommitteeHotKeyHash,
		ledger.VoterTypeConstitutionalCommitteeHotScriptHash:
		c.committeeCreds[voter.KeyHash().String()] = struct{}{}
	case ledger.VoterTypeDRepKeyHash, ledger.VoterTypeDRepScriptHash:
		c.dreps[voter.KeyHash().String()] = struct{}{}
	case ledger.VoterTypeStakingPoolKeyHash:
		c.pools[voter.KeyHash().String()] = struct{}{}
	}
}

func (c *necessaryDataCollector) addAccount(cred *ledger.Credential) {
	c.accounts[cred.Hash().String()] = struct{}{}
}

func (c *necessaryDataCollector) addDrep(drep ledger.Drep) {
	// Abstain and no-confidence delegates are not ledger entities
	if drep.Type != ledger.DrepTypeAddrKeyHash &&
		drep.Type != ledger.DrepTypeScriptHash {
		return
	}
	c.dreps[ledger.NewBlake2b224(drep.Credential).String()] = struct{}{}
}

func (c *necessaryDataCollector) result() *NecessaryInputData {
	ret := &NecessaryInputData{
		Utxos:                sortedKeys(c.utxos),
		Accounts:             sortedKeys(c.accounts),
		Pools:                sortedKeys(c.pools),
		DReps:                sortedKeys(c.dreps),
		GovActions:           sortedKeys(c.govActions),
		CommitteeCredentials: sortedKeys(c.committeeCreds),
	}
	for actionType := range c.actionTypes {
		ret.LastEnactedGovActionTypes = append(
			ret.LastEnactedGovActionTypes,
			actionType,
		)
	}
	slices.Sort(ret.LastEnactedGovActionTypes)
	return ret
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	slices.Sort(ret)
	return ret
}
