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

package script

import (
	"math/big"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txcheck/ledger"
)

// ScriptInfo identifies why a script is being executed. It doubles as the
// redeemer map key (with any spending datum stripped) and as the script
// argument of the V3 context (with the datum attached)
type ScriptInfo interface {
	isScriptInfo()
	ScriptHash() ledger.ScriptHash
	ToPlutusData
}

type ScriptInfoMinting struct {
	PolicyId ledger.Blake2b224
}

func (ScriptInfoMinting) isScriptInfo() {}

func (s ScriptInfoMinting) ScriptHash() ledger.ScriptHash {
	return s.PolicyId
}

func (s ScriptInfoMinting) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		0,
		data.NewByteString(s.PolicyId.Bytes()),
	)
}

type ScriptInfoSpending struct {
	Input ledger.Utxo
	Datum data.PlutusData
}

func (ScriptInfoSpending) isScriptInfo() {}

func (s ScriptInfoSpending) ScriptHash() ledger.ScriptHash {
	tmpAddr := s.Input.Output.Address()
	return tmpAddr.PaymentKeyHash()
}

func (s ScriptInfoSpending) ToPlutusData() data.PlutusData {
	if s.Datum == nil {
		return data.NewConstr(
			1,
			s.Input.Id.ToPlutusData(),
		)
	}
	return data.NewConstr(
		1,
		s.Input.Id.ToPlutusData(),
		data.NewConstr(
			0,
			s.Datum,
		),
	)
}

type ScriptInfoRewarding struct {
	StakeCredential ledger.Credential
}

func (ScriptInfoRewarding) isScriptInfo() {}

func (s ScriptInfoRewarding) ScriptHash() ledger.ScriptHash {
	return ledger.ScriptHash(s.StakeCredential.Credential)
}

func (s ScriptInfoRewarding) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		2,
		s.StakeCredential.ToPlutusData(),
	)
}

type ScriptInfoCertifying struct {
	Index       uint32
	Certificate ledger.Certificate
}

func (ScriptInfoCertifying) isScriptInfo() {}

func (s ScriptInfoCertifying) ScriptHash() ledger.ScriptHash {
	cred := certificateCredential(s.Certificate)
	if cred != nil && cred.CredType == ledger.CredentialTypeScriptHash {
		return cred.Credential
	}
	return ledger.ScriptHash{}
}

func (s ScriptInfoCertifying) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		3,
		data.NewInteger(new(big.Int).SetUint64(uint64(s.Index))),
		certificateToPlutusData(s.Certificate),
	)
}

type ScriptInfoVoting struct {
	Voter ledger.Voter
}

func (ScriptInfoVoting) isScriptInfo() {}

func (s ScriptInfoVoting) ScriptHash() ledger.ScriptHash {
	if s.Voter.IsScript() {
		return s.Voter.KeyHash()
	}
	return ledger.ScriptHash{}
}

func (s ScriptInfoVoting) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		4,
		voterToPlutusData(s.Voter),
	)
}

type ScriptInfoProposing struct {
	Index             uint32
	ProposalProcedure ledger.ProposalProcedure
}

func (ScriptInfoProposing) isScriptInfo() {}

func (s ScriptInfoProposing) ScriptHash() ledger.ScriptHash {
	// Proposals are checked by the guardrail script named in the action's
	// policy hash field
	switch a := s.ProposalProcedure.GovAction.Action.(type) {
	case *ledger.ParameterChangeGovAction:
		if len(a.PolicyHash) == ledger.Blake2b224Size {
			return ledger.NewBlake2b224(a.PolicyHash)
		}
	case *ledger.TreasuryWithdrawalGovAction:
		if len(a.PolicyHash) == ledger.Blake2b224Size {
			return ledger.NewBlake2b224(a.PolicyHash)
		}
	}
	return ledger.ScriptHash{}
}

func (s ScriptInfoProposing) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		5,
		data.NewInteger(new(big.Int).SetUint64(uint64(s.Index))),
		proposalProcedureToPlutusData(s.ProposalProcedure),
	)
}

// certificateCredential extracts the credential that authorizes a
// certificate, when it has one
func certificateCredential(cert ledger.Certificate) *ledger.Credential {
	switch c := cert.(type) {
	case *ledger.StakeRegistrationCertificate:
		return &c.StakeCredential
	case *ledger.StakeDeregistrationCertificate:
		return &c.StakeCredential
	case *ledger.StakeDelegationCertificate:
		return &c.StakeCredential
	case *ledger.RegistrationCertificate:
		return &c.StakeCredential
	case *ledger.DeregistrationCertificate:
		return &c.StakeCredential
	case *ledger.VoteDelegationCertificate:
		return &c.StakeCredential
	case *ledger.StakeVoteDelegationCertificate:
		return &c.StakeCredential
	case *ledger.StakeRegistrationDelegationCertificate:
		return &c.StakeCredential
	case *ledger.VoteRegistrationDelegationCertificate:
		return &c.StakeCredential
	case *ledger.StakeVoteRegistrationDelegationCertificate:
		return &c.StakeCredential
	case *ledger.RegistrationDrepCertificate:
		return &c.DrepCredential
	case *ledger.DeregistrationDrepCertificate:
		return &c.DrepCredential
	case *ledger.UpdateDrepCertificate:
		return &c.DrepCredential
	case *ledger.AuthCommitteeHotCertificate:
		return &c.ColdCredential
	case *ledger.ResignCommitteeColdCertificate:
		return &c.ColdCredential
	}
	return nil
}

// certificateToPlutusData renders a certificate in the V3 TxCert form
func certificateToPlutusData(cert ledger.Certificate) data.PlutusData {
	coin := func(v int64) data.PlutusData {
		return data.NewInteger(big.NewInt(v))
	}
	someCoin := func(v int64) data.PlutusData {
		return data.NewConstr(0, coin(v))
	}
	none := func() data.PlutusData { return data.NewConstr(1) }
	switch c := cert.(type) {
	case *ledger.StakeRegistrationCertificate:
		return data.NewConstr(0, c.StakeCredential.ToPlutusData(), none())
	case *ledger.RegistrationCertificate:
		return data.NewConstr(
			0,
			c.StakeCredential.ToPlutusData(),
			someCoin(c.Amount),
		)
	case *ledger.StakeDeregistrationCertificate:
		return data.NewConstr(1, c.StakeCredential.ToPlutusData(), none())
	case *ledger.DeregistrationCertificate:
		return data.NewConstr(
			1,
			c.StakeCredential.ToPlutusData(),
			someCoin(c.Amount),
		)
	case *ledger.StakeDelegationCertificate:
		return data.NewConstr(
			2,
			c.StakeCredential.ToPlutusData(),
			data.NewConstr(0, data.NewByteString(c.PoolKeyHash.Bytes())),
		)
	case *ledger.VoteDelegationCertificate:
		return data.NewConstr(
			2,
			c.StakeCredential.ToPlutusData(),
			data.NewConstr(1, c.Drep.ToPlutusData()),
		)
	case *ledger.StakeVoteDelegationCertificate:
		return data.NewConstr(
			2,
			c.StakeCredential.ToPlutusData(),
			data.NewConstr(
				2,
				data.NewByteString(c.PoolKeyHash.Bytes()),
				c.Drep.ToPlutusData(),
			),
		)
	case *ledger.StakeRegistrationDelegationCertificate:
		return data.NewConstr(
			3,
			c.StakeCredential.ToPlutusData(),
			data.NewConstr(0, data.NewByteString(c.PoolKeyHash.Bytes())),
			coin(c.Amount),
		)
	case *ledger.VoteRegistrationDelegationCertificate:
		return data.NewConstr(
			3,
			c.StakeCredential.ToPlutusData(),
			data.NewConstr(1, c.Drep.ToPlutusData()),
			coin(c.Amount),
		)
	case *ledger.StakeVoteRegistrationDelegationCertificate:
		return data.NewConstr(
			3,
			c.StakeCredential.ToPlutusData(),
			data.NewConstr(
				2,
				data.NewByteString(c.PoolKeyHash.Bytes()),
				c.Drep.ToPlutusData(),
			),
			coin(c.Amount),
		)
	case *ledger.RegistrationDrepCertificate:
		return data.NewConstr(
			4,
			c.DrepCredential.ToPlutusData(),
			coin(c.Amount),
		)
	case *ledger.UpdateDrepCertificate:
		return data.NewConstr(5, c.DrepCredential.ToPlutusData())
	case *ledger.DeregistrationDrepCertificate:
		return data.NewConstr(
			6,
			c.DrepCredential.ToPlutusData(),
			coin(c.Amount),
		)
	case *ledger.PoolRegistrationCertificate:
		return data.NewConstr(
			7,
			data.NewByteString(c.Operator.Bytes()),
			data.NewByteString(c.VrfKeyHash.Bytes()),
		)
	case *ledger.PoolRetirementCertificate:
		return data.NewConstr(
			8,
			data.NewByteString(c.PoolKeyHash.Bytes()),
			data.NewInteger(new(big.Int).SetUint64(c.Epoch)),
		)
	case *ledger.AuthCommitteeHotCertificate:
		return data.NewConstr(
			9,
			c.ColdCredential.ToPlutusData(),
			c.HotCredential.ToPlutusData(),
		)
	case *ledger.ResignCommitteeColdCertificate:
		return data.NewConstr(10, c.ColdCredential.ToPlutusData())
	}
	return nil
}

// certificateToPlutusDataV1V2 renders a certificate in the pre-Conway DCert
// form. Certificate kinds introduced in Conway have no such form and return
// nil
func certificateToPlutusDataV1V2(cert ledger.Certificate) data.PlutusData {
	stakingCred := func(cred *ledger.Credential) data.PlutusData {
		return data.NewConstr(0, cred.ToPlutusData())
	}
	switch c := cert.(type) {
	case *ledger.StakeRegistrationCertificate:
		return data.NewConstr(0, stakingCred(&c.StakeCredential))
	case *ledger.StakeDeregistrationCertificate:
		return data.NewConstr(1, stakingCred(&c.StakeCredential))
	case *ledger.StakeDelegationCertificate:
		return data.NewConstr(
			2,
			stakingCred(&c.StakeCredential),
			data.NewByteString(c.PoolKeyHash.Bytes()),
		)
	case *ledger.PoolRegistrationCertificate:
		return data.NewConstr(
			3,
			data.NewByteString(c.Operator.Bytes()),
			data.NewByteString(c.VrfKeyHash.Bytes()),
		)
	case *ledger.PoolRetirementCertificate:
		return data.NewConstr(
			4,
			data.NewByteString(c.PoolKeyHash.Bytes()),
			data.NewInteger(new(big.Int).SetUint64(c.Epoch)),
		)
	}
	return nil
}

// voterToPlutusData renders a voter as a committee, DRep, or pool voter
func voterToPlutusData(v ledger.Voter) data.PlutusData {
	credPd := func(credType uint) data.PlutusData {
		tmpCred := ledger.Credential{
			CredType:   credType,
			Credential: v.KeyHash(),
		}
		return tmpCred.ToPlutusData()
	}
	switch v.Type {
	case ledger.VoterTypeConstitutionalCommitteeHotKeyHash:
		return data.NewConstr(0, credPd(ledger.CredentialTypeAddrKeyHash))
	case ledger.VoterTypeConstitutionalCommitteeHotScriptHash:
		return data.NewConstr(0, credPd(ledger.CredentialTypeScriptHash))
	case ledger.VoterTypeDRepKeyHash:
		return data.NewConstr(1, credPd(ledger.CredentialTypeAddrKeyHash))
	case ledger.VoterTypeDRepScriptHash:
		return data.NewConstr(1, credPd(ledger.CredentialTypeScriptHash))
	case ledger.VoterTypeStakingPoolKeyHash:
		return data.NewConstr(2, data.NewByteString(v.KeyHash().Bytes()))
	}
	return nil
}

func govActionIdToPlutusData(id ledger.GovActionId) data.PlutusData {
	return data.NewConstr(
		0,
		data.NewByteString(id.TransactionId[:]),
		data.NewInteger(new(big.Int).SetUint64(uint64(id.GovActionIdx))),
	)
}

func optionGovActionId(id *ledger.GovActionId) data.PlutusData {
	if id == nil {
		return data.NewConstr(1)
	}
	return data.NewConstr(0, govActionIdToPlutusData(*id))
}

func optionScriptHash(hash []byte) data.PlutusData {
	if len(hash) == 0 {
		return data.NewConstr(1)
	}
	return data.NewConstr(0, data.NewByteString(hash))
}

// rewardAccountCredential builds the stake credential held in a reward
// account address
func rewardAccountCredential(addr ledger.Address) ledger.Credential {
	credType := uint(ledger.CredentialTypeAddrKeyHash)
	if addr.StakeIsScript() {
		credType = ledger.CredentialTypeScriptHash
	}
	return ledger.Credential{
		CredType:   credType,
		Credential: addr.StakeKeyHash(),
	}
}

func govActionToPlutusData(wrapper ledger.GovActionWrapper) data.PlutusData {
	switch a := wrapper.Action.(type) {
	case *ledger.ParameterChangeGovAction:
		// The raw parameter update map is valid plutus data for integral
		// parameters; anything that does not translate is rendered as an
		// empty map
		paramsPd, err := data.Decode(a.ParamUpdate)
		if err != nil {
			paramsPd = data.NewMap([][2]data.PlutusData{})
		}
		return data.NewConstr(
			0,
			optionGovActionId(a.ActionId),
			paramsPd,
			optionScriptHash(a.PolicyHash),
		)
	case *ledger.HardForkInitiationGovAction:
		return data.NewConstr(
			1,
			optionGovActionId(a.ActionId),
			data.NewConstr(
				0,
				data.NewInteger(new(big.Int).SetUint64(uint64(a.ProtocolVersion.Major))),
				data.NewInteger(new(big.Int).SetUint64(uint64(a.ProtocolVersion.Minor))),
			),
		)
	case *ledger.TreasuryWithdrawalGovAction:
		tmpPairs := make([][2]data.PlutusData, 0, len(a.Withdrawals))
		for addr, amount := range a.Withdrawals {
			tmpCred := rewardAccountCredential(*addr)
			tmpPairs = append(
				tmpPairs,
				[2]data.PlutusData{
					tmpCred.ToPlutusData(),
					data.NewInteger(new(big.Int).SetUint64(amount)),
				},
			)
		}
		return data.NewConstr(
			2,
			data.NewMap(tmpPairs),
			optionScriptHash(a.PolicyHash),
		)
	case *ledger.NoConfidenceGovAction:
		return data.NewConstr(3, optionGovActionId(a.ActionId))
	case *ledger.UpdateCommitteeGovAction:
		tmpRemoved := make([]data.PlutusData, 0, len(a.Credentials))
		for i := range a.Credentials {
			tmpRemoved = append(tmpRemoved, a.Credentials[i].ToPlutusData())
		}
		tmpAdded := make([][2]data.PlutusData, 0, len(a.CredEpochs))
		for cred, epoch := range a.CredEpochs {
			tmpAdded = append(
				tmpAdded,
				[2]data.PlutusData{
					cred.ToPlutusData(),
					data.NewInteger(new(big.Int).SetUint64(uint64(epoch))),
				},
			)
		}
		var quorumPd data.PlutusData
		if a.Quorum.Rat != nil {
			quorumPd = data.NewConstr(
				0,
				data.NewInteger(a.Quorum.Num()),
				data.NewInteger(a.Quorum.Denom()),
			)
		} else {
			quorumPd = data.NewConstr(
				0,
				data.NewInteger(big.NewInt(0)),
				data.NewInteger(big.NewInt(1)),
			)
		}
		return data.NewConstr(
			4,
			optionGovActionId(a.ActionId),
			data.NewList(tmpRemoved...),
			data.NewMap(tmpAdded),
			quorumPd,
		)
	case *ledger.NewConstitutionGovAction:
		return data.NewConstr(
			5,
			optionGovActionId(a.ActionId),
			data.NewConstr(
				0,
				optionScriptHash(a.Constitution.ScriptHash),
			),
		)
	case *ledger.InfoGovAction:
		return data.NewConstr(6)
	}
	return nil
}

func proposalProcedureToPlutusData(p ledger.ProposalProcedure) data.PlutusData {
	tmpCred := rewardAccountCredential(p.RewardAccount)
	return data.NewConstr(
		0,
		data.NewInteger(new(big.Int).SetUint64(p.Deposit)),
		tmpCred.ToPlutusData(),
		govActionToPlutusData(p.GovAction),
	)
}

// scriptPurposeToPlutusDataV1V2 renders a purpose in the pre-Conway
// ScriptPurpose form for the V1/V2 context
func scriptPurposeToPlutusDataV1V2(purpose ScriptInfo) data.PlutusData {
	switch p := purpose.(type) {
	case ScriptInfoMinting:
		return data.NewConstr(0, data.NewByteString(p.PolicyId.Bytes()))
	case ScriptInfoSpending:
		return data.NewConstr(1, txOutRefToPlutusDataV1V2(p.Input.Id))
	case ScriptInfoRewarding:
		return data.NewConstr(
			2,
			data.NewConstr(0, p.StakeCredential.ToPlutusData()),
		)
	case ScriptInfoCertifying:
		return data.NewConstr(
			3,
			certificateToPlutusDataV1V2(p.Certificate),
		)
	}
	return nil
}

type toScriptPurposeFunc func(ledger.RedeemerKey) ScriptInfo

// scriptPurposeBuilder creates a reusable function preloaded with information about a particular transaction
func scriptPurposeBuilder(
	resolvedInputs []ledger.Utxo,
	inputs []ledger.TransactionInput,
	mint *ledger.MultiAsset,
	certificates []ledger.CertificateWrapper,
	withdrawals KeyValuePairs[*ledger.Address, Coin],
	voters []ledger.Voter,
	proposals []ledger.ProposalProcedure,
	datums map[ledger.Blake2b256]data.PlutusData,
) toScriptPurposeFunc {
	return func(redeemerKey ledger.RedeemerKey) ScriptInfo {
		switch redeemerKey.Tag {
		case ledger.RedeemerTagSpend:
			if int(redeemerKey.Index) >= len(inputs) {
				return nil
			}
			tmpInput := inputs[redeemerKey.Index]
			var datum data.PlutusData
			var resolvedInput ledger.Utxo
			for _, tmpResolvedInput := range resolvedInputs {
				if tmpResolvedInput.Id.String() == tmpInput.String() {
					resolvedInput = tmpResolvedInput
					if tmpDatum := resolvedInput.Output.Datum(); tmpDatum != nil {
						datum = tmpDatum.Data
					} else if tmpHash := resolvedInput.Output.DatumHash(); tmpHash != nil {
						if tmpDatum, ok := datums[*tmpHash]; ok {
							datum = tmpDatum
						}
					}
					break
				}
			}
			return ScriptInfoSpending{
				Input: resolvedInput,
				Datum: datum,
			}
		case ledger.RedeemerTagMint:
			if mint == nil {
				return nil
			}
			mintPolicies := mint.Policies()
			if int(redeemerKey.Index) >= len(mintPolicies) {
				return nil
			}
			return ScriptInfoMinting{
				PolicyId: mintPolicies[redeemerKey.Index],
			}
		case ledger.RedeemerTagCert:
			if int(redeemerKey.Index) >= len(certificates) {
				return nil
			}
			return ScriptInfoCertifying{
				Index:       redeemerKey.Index,
				Certificate: certificates[redeemerKey.Index].Certificate,
			}
		case ledger.RedeemerTagReward:
			if int(redeemerKey.Index) >= len(withdrawals) {
				return nil
			}
			return ScriptInfoRewarding{
				StakeCredential: rewardAccountCredential(
					*withdrawals[redeemerKey.Index].Key,
				),
			}
		case ledger.RedeemerTagVoting:
			if int(redeemerKey.Index) >= len(voters) {
				return nil
			}
			return ScriptInfoVoting{
				Voter: voters[redeemerKey.Index],
			}
		case ledger.RedeemerTagProposing:
			if int(redeemerKey.Index) >= len(proposals) {
				return nil
			}
			return ScriptInfoProposing{
				Index:             redeemerKey.Index,
				ProposalProcedure: proposals[redeemerKey.Index],
			}
		}
		return nil
	}
}

func scriptPurposeStripDatum(purpose ScriptInfo) ScriptInfo {
	switch p := purpose.(type) {
	case ScriptInfoSpending:
		p.Datum = nil
		return p
	}
	return purpose
}
