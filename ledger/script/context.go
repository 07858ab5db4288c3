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
	"bytes"
	"math/big"
	"slices"
	"strings"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txcheck/ledger"
)

type ScriptContext interface {
	isScriptContext()
	ToPlutusData() data.PlutusData
}

// ScriptContextV1V2 is the script context shape shared by the first two
// Plutus generations. The redeemer and any datum are passed to the script
// as separate arguments
type ScriptContextV1V2 struct {
	TxInfo  TxInfo
	Purpose ScriptInfo
}

func (ScriptContextV1V2) isScriptContext() {}

func (s ScriptContextV1V2) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		0,
		s.TxInfo.ToPlutusData(),
		scriptPurposeToPlutusDataV1V2(scriptPurposeStripDatum(s.Purpose)),
	)
}

func NewScriptContextV1V2(
	txInfo TxInfo,
	purpose ScriptInfo,
) ScriptContext {
	return ScriptContextV1V2{
		TxInfo:  txInfo,
		Purpose: purpose,
	}
}

// ScriptContextV3 bundles the transaction info, the redeemer, and the
// script info into the single argument passed to a V3 script
type ScriptContextV3 struct {
	TxInfo   TxInfo
	Redeemer Redeemer
	Purpose  ScriptInfo
}

func (ScriptContextV3) isScriptContext() {}

func (s ScriptContextV3) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		0,
		s.TxInfo.ToPlutusData(),
		s.Redeemer.ToPlutusData(),
		s.Purpose.ToPlutusData(),
	)
}

func NewScriptContextV3(
	txInfo TxInfo,
	redeemer Redeemer,
	purpose ScriptInfo,
) ScriptContext {
	return ScriptContextV3{
		TxInfo:   txInfo,
		Redeemer: redeemer,
		Purpose:  purpose,
	}
}

type TxInfo interface {
	isTxInfo()
	ToPlutusData() data.PlutusData
}

type TxInfoV1 struct {
	Inputs       []ResolvedInput
	Outputs      []ledger.TransactionOutput
	Fee          int64
	Mint         *ledger.MultiAsset
	Certificates []ledger.CertificateWrapper
	Withdrawals  KeyValuePairs[*ledger.Address, Coin]
	ValidRange   TimeRange
	Signatories  []ledger.Blake2b224
	Data         KeyValuePairs[ledger.Blake2b256, data.PlutusData]
	Id           ledger.Blake2b256
}

func (TxInfoV1) isTxInfo() {}

func (t TxInfoV1) ToPlutusData() data.PlutusData {
	tmpInputs := make([]data.PlutusData, len(t.Inputs))
	for i, input := range t.Inputs {
		tmpInputs[i] = data.NewConstr(
			0,
			txOutRefToPlutusDataV1V2(input.Id),
			txOutToPlutusDataV1(input.Output),
		)
	}
	tmpOutputs := make([]data.PlutusData, len(t.Outputs))
	for i, output := range t.Outputs {
		tmpOutputs[i] = txOutToPlutusDataV1(output)
	}
	return data.NewConstr(
		0,
		data.NewList(tmpInputs...),
		data.NewList(tmpOutputs...),
		valueToPlutusData(ledger.NewValue(t.Fee)),
		mintToPlutusDataV1V2(t.Mint),
		certsToPlutusDataV1V2(t.Certificates),
		withdrawalsToPlutusDataV1V2(t.Withdrawals),
		t.ValidRange.ToPlutusData(),
		signatoriesToPlutusData(t.Signatories),
		t.Data.ToPlutusData(),
		data.NewConstr(0, data.NewByteString(t.Id.Bytes())),
	)
}

type TxInfoV2 struct {
	Inputs          []ResolvedInput
	ReferenceInputs []ResolvedInput
	Outputs         []ledger.TransactionOutput
	Fee             int64
	Mint            *ledger.MultiAsset
	Certificates    []ledger.CertificateWrapper
	Withdrawals     KeyValuePairs[*ledger.Address, Coin]
	ValidRange      TimeRange
	Signatories     []ledger.Blake2b224
	Redeemers       KeyValuePairs[ScriptInfo, Redeemer]
	Data            KeyValuePairs[ledger.Blake2b256, data.PlutusData]
	Id              ledger.Blake2b256
}

func (TxInfoV2) isTxInfo() {}

func (t TxInfoV2) ToPlutusData() data.PlutusData {
	txInInfo := func(inputs []ResolvedInput) data.PlutusData {
		tmpItems := make([]data.PlutusData, len(inputs))
		for i, input := range inputs {
			tmpItems[i] = data.NewConstr(
				0,
				txOutRefToPlutusDataV1V2(input.Id),
				txOutToPlutusData(input.Output),
			)
		}
		return data.NewList(tmpItems...)
	}
	tmpOutputs := make([]data.PlutusData, len(t.Outputs))
	for i, output := range t.Outputs {
		tmpOutputs[i] = txOutToPlutusData(output)
	}
	tmpRedeemers := make([][2]data.PlutusData, len(t.Redeemers))
	for i, pair := range t.Redeemers {
		tmpRedeemers[i] = [2]data.PlutusData{
			scriptPurposeToPlutusDataV1V2(pair.Key),
			pair.Value.ToPlutusData(),
		}
	}
	return data.NewConstr(
		0,
		txInInfo(t.Inputs),
		txInInfo(t.ReferenceInputs),
		data.NewList(tmpOutputs...),
		valueToPlutusData(ledger.NewValue(t.Fee)),
		mintToPlutusDataV1V2(t.Mint),
		certsToPlutusDataV1V2(t.Certificates),
		withdrawalsToPlutusDataV1V2(t.Withdrawals),
		t.ValidRange.ToPlutusData(),
		signatoriesToPlutusData(t.Signatories),
		data.NewMap(tmpRedeemers),
		t.Data.ToPlutusData(),
		data.NewConstr(0, data.NewByteString(t.Id.Bytes())),
	)
}

type TxInfoV3 struct {
	Inputs                []ResolvedInput
	ReferenceInputs       []ResolvedInput
	Outputs               []ledger.TransactionOutput
	Fee                   int64
	Mint                  *ledger.MultiAsset
	Certificates          []ledger.CertificateWrapper
	Withdrawals           KeyValuePairs[*ledger.Address, Coin]
	ValidRange            TimeRange
	Signatories           []ledger.Blake2b224
	Redeemers             KeyValuePairs[ScriptInfo, Redeemer]
	Data                  KeyValuePairs[ledger.Blake2b256, data.PlutusData]
	Id                    ledger.Blake2b256
	Votes                 ledger.VotingProcedures
	ProposalProcedures    []ledger.ProposalProcedure
	CurrentTreasuryAmount Option[Coin]
	TreasuryDonation      Option[PositiveCoin]
}

func (TxInfoV3) isTxInfo() {}

func (t TxInfoV3) ToPlutusData() data.PlutusData {
	tmpOutputs := make([]data.PlutusData, len(t.Outputs))
	for i, output := range t.Outputs {
		tmpOutputs[i] = txOutToPlutusData(output)
	}
	var mintPd data.PlutusData
	if t.Mint != nil {
		mintPd = t.Mint.ToPlutusData()
	} else {
		mintPd = data.NewMap([][2]data.PlutusData{})
	}
	tmpCerts := make([]data.PlutusData, len(t.Certificates))
	for i := range t.Certificates {
		tmpCerts[i] = certificateToPlutusData(t.Certificates[i].Certificate)
	}
	tmpWithdrawals := make([][2]data.PlutusData, len(t.Withdrawals))
	for i, pair := range t.Withdrawals {
		tmpCred := rewardAccountCredential(*pair.Key)
		tmpWithdrawals[i] = [2]data.PlutusData{
			tmpCred.ToPlutusData(),
			pair.Value.ToPlutusData(),
		}
	}
	tmpRedeemers := make([][2]data.PlutusData, len(t.Redeemers))
	for i, pair := range t.Redeemers {
		tmpRedeemers[i] = [2]data.PlutusData{
			pair.Key.ToPlutusData(),
			pair.Value.ToPlutusData(),
		}
	}
	tmpProposals := make([]data.PlutusData, len(t.ProposalProcedures))
	for i, proposal := range t.ProposalProcedures {
		tmpProposals[i] = proposalProcedureToPlutusData(proposal)
	}
	return data.NewConstr(
		0,
		toPlutusData(t.Inputs),
		toPlutusData(t.ReferenceInputs),
		data.NewList(tmpOutputs...),
		data.NewInteger(big.NewInt(t.Fee)),
		mintPd,
		data.NewList(tmpCerts...),
		data.NewMap(tmpWithdrawals),
		t.ValidRange.ToPlutusData(),
		signatoriesToPlutusData(t.Signatories),
		data.NewMap(tmpRedeemers),
		t.Data.ToPlutusData(),
		data.NewByteString(t.Id.Bytes()),
		votesToPlutusData(t.Votes),
		data.NewList(tmpProposals...),
		t.CurrentTreasuryAmount.ToPlutusData(),
		t.TreasuryDonation.ToPlutusData(),
	)
}

// NewTxInfoV1FromTransaction builds the V1 transaction view
func NewTxInfoV1FromTransaction(
	tx *ledger.Transaction,
	resolvedInputs []ledger.Utxo,
) TxInfoV1 {
	inputs := sortInputs(tx.Body.Inputs())
	return TxInfoV1{
		Inputs:       expandInputs(inputs, resolvedInputs),
		Outputs:      tx.Body.Outputs(),
		Fee:          tx.Body.Fee(),
		Mint:         tx.Body.Mint(),
		Certificates: tx.Body.Certificates(),
		Withdrawals:  withdrawalsInfo(tx.Body.Withdrawals()),
		ValidRange: NewTimeRange(
			tx.Body.ValidityIntervalStart,
			tx.Body.Ttl,
		),
		Signatories: signatoriesInfo(tx.Body.RequiredSigners()),
		Data:        dataInfo(tx.Witnesses()),
		Id:          tx.Hash(),
	}
}

// NewTxInfoV2FromTransaction builds the V2 transaction view
func NewTxInfoV2FromTransaction(
	tx *ledger.Transaction,
	resolvedInputs []ledger.Utxo,
) TxInfoV2 {
	inputs := sortInputs(tx.Body.Inputs())
	redeemers := redeemersInfo(
		tx.Witnesses(),
		NewScriptPurposeBuilder(tx, resolvedInputs),
	)
	return TxInfoV2{
		Inputs: expandInputs(inputs, resolvedInputs),
		ReferenceInputs: expandInputs(
			sortInputs(tx.Body.ReferenceInputs()),
			resolvedInputs,
		),
		Outputs:      tx.Body.Outputs(),
		Fee:          tx.Body.Fee(),
		Mint:         tx.Body.Mint(),
		Certificates: tx.Body.Certificates(),
		Withdrawals:  withdrawalsInfo(tx.Body.Withdrawals()),
		ValidRange: NewTimeRange(
			tx.Body.ValidityIntervalStart,
			tx.Body.Ttl,
		),
		Signatories: signatoriesInfo(tx.Body.RequiredSigners()),
		Redeemers:   redeemers,
		Data:        dataInfo(tx.Witnesses()),
		Id:          tx.Hash(),
	}
}

// NewTxInfoV3FromTransaction builds the V3 transaction view
func NewTxInfoV3FromTransaction(
	tx *ledger.Transaction,
	resolvedInputs []ledger.Utxo,
) TxInfoV3 {
	inputs := sortInputs(tx.Body.Inputs())
	redeemers := redeemersInfo(
		tx.Witnesses(),
		NewScriptPurposeBuilder(tx, resolvedInputs),
	)
	ret := TxInfoV3{
		Inputs: expandInputs(inputs, resolvedInputs),
		ReferenceInputs: expandInputs(
			sortInputs(tx.Body.ReferenceInputs()),
			resolvedInputs,
		),
		Outputs:      tx.Body.Outputs(),
		Fee:          tx.Body.Fee(),
		Mint:         tx.Body.Mint(),
		Certificates: tx.Body.Certificates(),
		Withdrawals:  withdrawalsInfo(tx.Body.Withdrawals()),
		ValidRange: NewTimeRange(
			tx.Body.ValidityIntervalStart,
			tx.Body.Ttl,
		),
		Signatories:        signatoriesInfo(tx.Body.RequiredSigners()),
		Redeemers:          redeemers,
		Data:               dataInfo(tx.Witnesses()),
		Id:                 tx.Hash(),
		Votes:              tx.Body.VotingProcedures(),
		ProposalProcedures: tx.Body.ProposalProcedures(),
	}
	if tx.Body.TxCurrentTreasuryValue != nil {
		ret.CurrentTreasuryAmount = Option[Coin]{
			Value: Coin(*tx.Body.TxCurrentTreasuryValue),
		}
	}
	if tx.Body.TxDonation != 0 {
		ret.TreasuryDonation = Option[PositiveCoin]{
			Value: PositiveCoin(tx.Body.TxDonation),
		}
	}
	return ret
}

// NewScriptPurposeBuilder preloads a purpose lookup with the transaction
// entities that redeemer indexes refer to
func NewScriptPurposeBuilder(
	tx *ledger.Transaction,
	resolvedInputs []ledger.Utxo,
) func(ledger.RedeemerKey) ScriptInfo {
	return scriptPurposeBuilder(
		resolvedInputs,
		sortInputs(tx.Body.Inputs()),
		tx.Body.Mint(),
		tx.Body.Certificates(),
		withdrawalsInfo(tx.Body.Withdrawals()),
		sortedVoters(tx.Body.VotingProcedures()),
		tx.Body.ProposalProcedures(),
		datumsByHash(tx.Witnesses()),
	)
}

// TimeRange is a validity interval in slots. A nil bound is unbounded
type TimeRange struct {
	lowerBound *uint64
	upperBound *uint64
}

func NewTimeRange(lowerBound *uint64, upperBound *uint64) TimeRange {
	return TimeRange{
		lowerBound: lowerBound,
		upperBound: upperBound,
	}
}

func (t TimeRange) ToPlutusData() data.PlutusData {
	bound := func(bound *uint64, isLower bool) data.PlutusData {
		if bound != nil {
			return data.NewConstr(
				0,
				data.NewConstr(
					1,
					data.NewInteger(
						new(big.Int).SetUint64(*bound),
					),
				),
				toPlutusData(isLower),
			)
		}
		var constrType uint = 0
		if !isLower {
			constrType = 2
		}
		return data.NewConstr(
			0,
			data.NewConstr(constrType),
			// NOTE: Infinite bounds are always exclusive, by convention.
			toPlutusData(true),
		)
	}
	return data.NewConstr(
		0,
		bound(t.lowerBound, true),
		bound(t.upperBound, false),
	)
}

func sortInputs(inputs []ledger.TransactionInput) []ledger.TransactionInput {
	ret := make([]ledger.TransactionInput, len(inputs))
	copy(ret, inputs)
	slices.SortFunc(
		ret,
		func(a, b ledger.TransactionInput) int {
			// Compare TX ID
			x := strings.Compare(a.Id().String(), b.Id().String())
			if x != 0 {
				return x
			}
			if a.Index() < b.Index() {
				return -1
			} else if a.Index() > b.Index() {
				return 1
			}
			return 0
		},
	)
	return ret
}

func expandInputs(
	inputs []ledger.TransactionInput,
	resolvedInputs []ledger.Utxo,
) []ResolvedInput {
	ret := make([]ResolvedInput, len(inputs))
	for i, input := range inputs {
		for _, resolvedInput := range resolvedInputs {
			if input.String() == resolvedInput.Id.String() {
				ret[i] = ResolvedInput(resolvedInput)
				break
			}
		}
	}
	return ret
}

func redeemersInfo(
	witnessSet *ledger.TransactionWitnessSet,
	toScriptPurpose func(ledger.RedeemerKey) ScriptInfo,
) KeyValuePairs[ScriptInfo, Redeemer] {
	var ret KeyValuePairs[ScriptInfo, Redeemer]
	for key, value := range witnessSet.Redeemers().Iter() {
		purpose := toScriptPurpose(key)
		if purpose == nil {
			continue
		}
		ret = append(
			ret,
			KeyValuePair[ScriptInfo, Redeemer]{
				Key: scriptPurposeStripDatum(purpose),
				Value: Redeemer{
					Tag:     key.Tag,
					Index:   key.Index,
					Data:    value.Data.Data,
					ExUnits: value.ExUnits,
				},
			},
		)
	}
	return ret
}

// datumsByHash indexes the witness set datums by their hash
func datumsByHash(
	witnessSet *ledger.TransactionWitnessSet,
) map[ledger.Blake2b256]data.PlutusData {
	ret := make(map[ledger.Blake2b256]data.PlutusData)
	for _, datum := range witnessSet.PlutusData() {
		ret[datum.Hash()] = datum.Data
	}
	return ret
}

func dataInfo(
	witnessSet *ledger.TransactionWitnessSet,
) KeyValuePairs[ledger.Blake2b256, data.PlutusData] {
	datums := witnessSet.PlutusData()
	ret := make(KeyValuePairs[ledger.Blake2b256, data.PlutusData], 0, len(datums))
	for _, datum := range datums {
		ret = append(
			ret,
			KeyValuePair[ledger.Blake2b256, data.PlutusData]{
				Key:   datum.Hash(),
				Value: datum.Data,
			},
		)
	}
	slices.SortFunc(
		ret,
		func(a, b KeyValuePair[ledger.Blake2b256, data.PlutusData]) int {
			return bytes.Compare(a.Key.Bytes(), b.Key.Bytes())
		},
	)
	return ret
}

func signatoriesInfo(signers []ledger.Blake2b224) []ledger.Blake2b224 {
	ret := make([]ledger.Blake2b224, len(signers))
	copy(ret, signers)
	slices.SortFunc(
		ret,
		func(a, b ledger.Blake2b224) int {
			return bytes.Compare(a.Bytes(), b.Bytes())
		},
	)
	return ret
}

func signatoriesToPlutusData(signers []ledger.Blake2b224) data.PlutusData {
	tmpItems := make([]data.PlutusData, len(signers))
	for i, signer := range signers {
		tmpItems[i] = data.NewByteString(signer.Bytes())
	}
	return data.NewList(tmpItems...)
}

// withdrawalsInfo sorts the withdrawal map by reward account bytes, which
// is the order withdrawal redeemer indexes refer to
func withdrawalsInfo(
	withdrawals ledger.Withdrawals,
) KeyValuePairs[*ledger.Address, Coin] {
	ret := make(KeyValuePairs[*ledger.Address, Coin], 0, len(withdrawals))
	for addr, amount := range withdrawals {
		ret = append(
			ret,
			KeyValuePair[*ledger.Address, Coin]{
				Key: addr,
				// #nosec G115
				Value: Coin(amount),
			},
		)
	}
	slices.SortFunc(
		ret,
		func(a, b KeyValuePair[*ledger.Address, Coin]) int {
			aBytes, _ := a.Key.Bytes()
			bBytes, _ := b.Key.Bytes()
			return bytes.Compare(aBytes, bBytes)
		},
	)
	return ret
}

func withdrawalsToPlutusDataV1V2(
	withdrawals KeyValuePairs[*ledger.Address, Coin],
) data.PlutusData {
	tmpPairs := make([][2]data.PlutusData, len(withdrawals))
	for i, pair := range withdrawals {
		tmpCred := rewardAccountCredential(*pair.Key)
		tmpPairs[i] = [2]data.PlutusData{
			data.NewConstr(0, tmpCred.ToPlutusData()),
			pair.Value.ToPlutusData(),
		}
	}
	return data.NewMap(tmpPairs)
}

func mintToPlutusDataV1V2(mint *ledger.MultiAsset) data.PlutusData {
	tmpValue := ledger.NewValue(0)
	if mint != nil {
		tmpValue.Assets = mint.Clone()
	}
	return valueToPlutusData(tmpValue)
}

func certsToPlutusDataV1V2(certs []ledger.CertificateWrapper) data.PlutusData {
	tmpItems := make([]data.PlutusData, 0, len(certs))
	for i := range certs {
		if tmpItem := certificateToPlutusDataV1V2(certs[i].Certificate); tmpItem != nil {
			tmpItems = append(tmpItems, tmpItem)
		}
	}
	return data.NewList(tmpItems...)
}

// sortedVoters orders the voters of a voting procedure map by voter type
// and hash, which is the order voting redeemer indexes refer to
func sortedVoters(votes ledger.VotingProcedures) []ledger.Voter {
	ret := make([]ledger.Voter, 0, len(votes))
	for voter := range votes {
		ret = append(ret, *voter)
	}
	slices.SortFunc(
		ret,
		func(a, b ledger.Voter) int {
			if a.Type != b.Type {
				return int(a.Type) - int(b.Type)
			}
			return bytes.Compare(a.Hash[:], b.Hash[:])
		},
	)
	return ret
}

func votesToPlutusData(votes ledger.VotingProcedures) data.PlutusData {
	voters := sortedVoters(votes)
	tmpPairs := make([][2]data.PlutusData, 0, len(voters))
	for _, voter := range voters {
		var procedures map[*ledger.GovActionId]ledger.VotingProcedure
		for tmpVoter, tmpProcedures := range votes {
			if *tmpVoter == voter {
				procedures = tmpProcedures
				break
			}
		}
		actionIds := make([]*ledger.GovActionId, 0, len(procedures))
		for actionId := range procedures {
			actionIds = append(actionIds, actionId)
		}
		slices.SortFunc(
			actionIds,
			func(a, b *ledger.GovActionId) int {
				if x := bytes.Compare(a.TransactionId[:], b.TransactionId[:]); x != 0 {
					return x
				}
				return int(a.GovActionIdx) - int(b.GovActionIdx)
			},
		)
		tmpVotes := make([][2]data.PlutusData, 0, len(actionIds))
		for _, actionId := range actionIds {
			tmpVotes = append(
				tmpVotes,
				[2]data.PlutusData{
					govActionIdToPlutusData(*actionId),
					data.NewConstr(uint(procedures[actionId].Vote)),
				},
			)
		}
		tmpPairs = append(
			tmpPairs,
			[2]data.PlutusData{
				voterToPlutusData(voter),
				data.NewMap(tmpVotes),
			},
		)
	}
	return data.NewMap(tmpPairs)
}
