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
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/blinklabs-io/txcheck/ledger"
)

// UtxoEntry is a UTxO as known to the snapshot, with a spent marker so
// callers can include recently spent outputs for better diagnostics
type UtxoEntry struct {
	Utxo  ledger.Utxo
	Spent bool
}

// AccountContext describes a reward account as of the snapshot. Pointer
// fields distinguish "unknown to the caller" from a known zero value
type AccountContext struct {
	IsRegistered  bool    `json:"isRegistered"`
	PaidDeposit   *int64  `json:"paidDeposit,omitempty"`
	RewardBalance *uint64 `json:"rewardBalance,omitempty"`
	DelegatedPool string  `json:"delegatedPool,omitempty"`
	DelegatedDRep string  `json:"delegatedDRep,omitempty"`
}

// HasVoteDelegation returns true when the account has delegated its voting
// power to a DRep (including the abstain and no-confidence delegates)
func (a *AccountContext) HasVoteDelegation() bool {
	return a != nil && a.DelegatedDRep != ""
}

type PoolContext struct {
	IsRegistered    bool    `json:"isRegistered"`
	PaidDeposit     *int64  `json:"paidDeposit,omitempty"`
	RetirementEpoch *uint64 `json:"retirementEpoch,omitempty"`
}

type DRepContext struct {
	IsRegistered bool   `json:"isRegistered"`
	PaidDeposit  *int64 `json:"paidDeposit,omitempty"`
}

type CommitteeMemberContext struct {
	IsMember      bool   `json:"isMember"`
	HasResigned   bool   `json:"hasResigned"`
	HotCredential string `json:"hotCredential,omitempty"`
}

type GovActionContext struct {
	IsActive bool `json:"isActive"`
}

// ValidationInputContext is the caller-supplied ledger snapshot for a single
// validation call. It is never mutated by the engine. Map keys are the
// canonical string forms: "txhash#index" for UTxOs and governance actions,
// lowercase hex hashes for credentials and pool ids
type ValidationInputContext struct {
	Utxos                 map[string]*UtxoEntry
	Accounts              map[string]*AccountContext
	Pools                 map[string]*PoolContext
	DReps                 map[string]*DRepContext
	GovActions            map[string]*GovActionContext
	CommitteeMembers      map[string]*CommitteeMemberContext
	LastEnactedGovActions map[uint]string
	ProtocolParameters    ledger.ProtocolParameters
	CurrentSlot           uint64
	CurrentEpoch          uint64
	TreasuryValue         int64
	NetworkId             uint
}

// UtxoKey returns the canonical snapshot key for a transaction input
func UtxoKey(input ledger.TransactionInput) string {
	return input.String()
}

func (c *ValidationInputContext) FindUtxo(
	input ledger.TransactionInput,
) (*UtxoEntry, bool) {
	entry, ok := c.Utxos[UtxoKey(input)]
	return entry, ok
}

func (c *ValidationInputContext) FindAccount(
	cred *ledger.Credential,
) (*AccountContext, bool) {
	if cred == nil {
		return nil, false
	}
	account, ok := c.Accounts[cred.Hash().String()]
	return account, ok
}

// FindAccountByHash looks up a reward account by raw credential hash
func (c *ValidationInputContext) FindAccountByHash(
	hash ledger.Blake2b224,
) (*AccountContext, bool) {
	account, ok := c.Accounts[hash.String()]
	return account, ok
}

func (c *ValidationInputContext) FindPool(
	poolId ledger.PoolKeyHash,
) (*PoolContext, bool) {
	pool, ok := c.Pools[poolId.String()]
	return pool, ok
}

func (c *ValidationInputContext) FindDRep(
	hash ledger.Blake2b224,
) (*DRepContext, bool) {
	drep, ok := c.DReps[hash.String()]
	return drep, ok
}

func (c *ValidationInputContext) FindGovAction(
	actionId ledger.GovActionId,
) (*GovActionContext, bool) {
	action, ok := c.GovActions[actionId.String()]
	return action, ok
}

func (c *ValidationInputContext) FindCommitteeMember(
	coldCred *ledger.Credential,
) (*CommitteeMemberContext, bool) {
	if coldCred == nil {
		return nil, false
	}
	member, ok := c.CommitteeMembers[coldCred.Hash().String()]
	return member, ok
}

type utxoEntryJson struct {
	OutputCbor string `json:"outputCbor"`
	Spent      bool   `json:"spent,omitempty"`
}

type validationInputContextJson struct {
	Utxos                 map[string]utxoEntryJson           `json:"utxos"`
	Accounts              map[string]*AccountContext         `json:"accounts,omitempty"`
	Pools                 map[string]*PoolContext            `json:"pools,omitempty"`
	DReps                 map[string]*DRepContext            `json:"dreps,omitempty"`
	GovActions            map[string]*GovActionContext       `json:"govActions,omitempty"`
	CommitteeMembers      map[string]*CommitteeMemberContext `json:"committeeMembers,omitempty"`
	LastEnactedGovActions map[uint]string                    `json:"lastEnactedGovActions,omitempty"`
	ProtocolParameters    ledger.ProtocolParameters          `json:"protocolParameters"`
	CurrentSlot           uint64                             `json:"currentSlot"`
	CurrentEpoch          uint64                             `json:"currentEpoch"`
	TreasuryValue         int64                              `json:"treasuryValue,omitempty"`
	NetworkId             uint                               `json:"networkId"`
}

// NewValidationInputContextFromJSON builds a snapshot from its JSON document
// form. UTxO entries carry the full output as hex CBOR under "outputCbor"
func NewValidationInputContextFromJSON(
	jsonData []byte,
) (*ValidationInputContext, error) {
	var tmpCtx validationInputContextJson
	if err := json.Unmarshal(jsonData, &tmpCtx); err != nil {
		return nil, fmt.Errorf("decode validation context: %w", err)
	}
	ret := &ValidationInputContext{
		Utxos:                 make(map[string]*UtxoEntry, len(tmpCtx.Utxos)),
		Accounts:              tmpCtx.Accounts,
		Pools:                 tmpCtx.Pools,
		DReps:                 tmpCtx.DReps,
		GovActions:            tmpCtx.GovActions,
		CommitteeMembers:      tmpCtx.CommitteeMembers,
		LastEnactedGovActions: tmpCtx.LastEnactedGovActions,
		ProtocolParameters:    tmpCtx.ProtocolParameters,
		CurrentSlot:           tmpCtx.CurrentSlot,
		CurrentEpoch:          tmpCtx.CurrentEpoch,
		TreasuryValue:         tmpCtx.TreasuryValue,
		NetworkId:             tmpCtx.NetworkId,
	}
	for key, entry := range tmpCtx.Utxos {
		input, err := parseUtxoKey(key)
		if err != nil {
			return nil, err
		}
		outputCbor, err := hex.DecodeString(entry.OutputCbor)
		if err != nil {
			return nil, fmt.Errorf("decode UTxO output for %s: %w", key, err)
		}
		var tmpOutput ledger.TransactionOutput
		if err := tmpOutput.UnmarshalCBOR(outputCbor); err != nil {
			return nil, fmt.Errorf("decode UTxO output for %s: %w", key, err)
		}
		ret.Utxos[key] = &UtxoEntry{
			Utxo: ledger.Utxo{
				Id:     input,
				Output: tmpOutput,
			},
			Spent: entry.Spent,
		}
	}
	return ret, nil
}

func parseUtxoKey(key string) (ledger.TransactionInput, error) {
	var ret ledger.TransactionInput
	hashHex, idxStr, ok := strings.Cut(key, "#")
	if !ok {
		return ret, fmt.Errorf("malformed UTxO key: %s", key)
	}
	hashBytes, err := hex.DecodeString(hashHex)
	if err != nil || len(hashBytes) != 32 {
		return ret, fmt.Errorf("malformed UTxO key: %s", key)
	}
	idx, err := strconv.ParseUint(idxStr, 10, 32)
	if err != nil {
		return ret, fmt.Errorf("malformed UTxO key: %s", key)
	}
	ret.TxId = ledger.Blake2b256(hashBytes)
	ret.OutputIndex = uint32(idx)
	return ret, nil
}
