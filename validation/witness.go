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
	"bytes"
	"fmt"
	"slices"

	"github.com/blinklabs-io/txcheck/ledger"
)

type scriptClass int

const (
	scriptClassUnknown scriptClass = iota
	scriptClassNative
	scriptClassPlutus
)

type plutusScriptEntry struct {
	language uint
	script   ledger.PlutusScript
}

// scriptIndex is the two-map hash lookup over every script visible to the
// transaction: witness set scripts plus reference scripts carried by
// resolved inputs and reference inputs
type scriptIndex struct {
	native map[ledger.ScriptHash]*ledger.NativeScript
	plutus map[ledger.ScriptHash]plutusScriptEntry
}

func buildScriptIndex(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
) *scriptIndex {
	ix := &scriptIndex{
		native: map[ledger.ScriptHash]*ledger.NativeScript{},
		plutus: map[ledger.ScriptHash]plutusScriptEntry{},
	}
	ws := tx.Witnesses()
	tmpNative := ws.NativeScripts()
	for i := range tmpNative {
		ix.native[tmpNative[i].Hash()] = &tmpNative[i]
	}
	for _, script := range ws.PlutusV1Scripts() {
		ix.plutus[script.Hash()] = plutusScriptEntry{
			language: ledger.PlutusLanguageV1,
			script:   script,
		}
	}
	for _, script := range ws.PlutusV2Scripts() {
		ix.plutus[script.Hash()] = plutusScriptEntry{
			language: ledger.PlutusLanguageV2,
			script:   script,
		}
	}
	for _, script := range ws.PlutusV3Scripts() {
		ix.plutus[script.Hash()] = plutusScriptEntry{
			language: ledger.PlutusLanguageV3,
			script:   script,
		}
	}
	for _, input := range append(
		tx.Body.Inputs(),
		tx.Body.ReferenceInputs()...,
	) {
		entry, ok := ctx.FindUtxo(input)
		if !ok {
			continue
		}
		scriptRef := entry.Utxo.Output.ScriptRef()
		if scriptRef == nil || scriptRef.Script == nil {
			continue
		}
		switch scriptRef.Type {
		case ledger.ScriptRefTypeNativeScript:
			if tmpScript, ok := scriptRef.Script.(*ledger.NativeScript); ok {
				ix.native[tmpScript.Hash()] = tmpScript
			}
		case ledger.ScriptRefTypePlutusV1:
			ix.addRefPlutus(scriptRef.Script, ledger.PlutusLanguageV1)
		case ledger.ScriptRefTypePlutusV2:
			ix.addRefPlutus(scriptRef.Script, ledger.PlutusLanguageV2)
		case ledger.ScriptRefTypePlutusV3:
			ix.addRefPlutus(scriptRef.Script, ledger.PlutusLanguageV3)
		}
	}
	return ix
}

func (ix *scriptIndex) addRefPlutus(script ledger.Script, language uint) {
	if tmpScript, ok := script.(ledger.PlutusScript); ok {
		ix.plutus[script.Hash()] = plutusScriptEntry{
			language: language,
			script:   tmpScript,
		}
	}
}

func (ix *scriptIndex) classify(hash ledger.ScriptHash) scriptClass {
	if _, ok := ix.native[hash]; ok {
		return scriptClassNative
	}
	if _, ok := ix.plutus[hash]; ok {
		return scriptClassPlutus
	}
	return scriptClassUnknown
}

// scriptRequirement is a single script-locked entity the transaction must
// satisfy a witness for
type scriptRequirement struct {
	hash      ledger.ScriptHash
	location  string
	key       ledger.RedeemerKey
	datumHash *ledger.Blake2b256
	utxo      string
}

// witnessRequirements is the required side of the witness check, built in
// one pass over every witnessable entity
type witnessRequirements struct {
	vkeyOrder   []ledger.Blake2b224
	vkeyReasons map[ledger.Blake2b224]string
	scripts     []scriptRequirement
	scriptSet   map[ledger.ScriptHash]struct{}
}

func newWitnessRequirements() *witnessRequirements {
	return &witnessRequirements{
		vkeyReasons: map[ledger.Blake2b224]string{},
		scriptSet:   map[ledger.ScriptHash]struct{}{},
	}
}

func (r *witnessRequirements) requireVkey(
	hash ledger.Blake2b224,
	reason string,
) {
	if _, ok := r.vkeyReasons[hash]; ok {
		return
	}
	r.vkeyReasons[hash] = reason
	r.vkeyOrder = append(r.vkeyOrder, hash)
}

func (r *witnessRequirements) requireScript(req scriptRequirement) {
	r.scripts = append(r.scripts, req)
	r.scriptSet[req.hash] = struct{}{}
}

// validateWitnesses checks every required signature, script, datum, and
// redeemer against the provided witness set, verifies signatures, evaluates
// native scripts, reports extraneous witnesses, and recomputes the script
// data hash
func validateWitnesses(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
	res *ValidationResult,
) {
	ix := buildScriptIndex(tx, ctx)
	reqs := collectWitnessRequirements(tx, ctx)
	ws := tx.Witnesses()

	providedVkeys := map[ledger.Blake2b224]struct{}{}
	signers := map[ledger.Blake2b224]struct{}{}
	for _, w := range ws.Vkey() {
		providedVkeys[w.KeyHash()] = struct{}{}
		signers[w.KeyHash()] = struct{}{}
	}
	providedDatums := map[ledger.Blake2b256]ledger.Datum{}
	for _, datum := range ws.PlutusData() {
		providedDatums[datum.Hash()] = datum
	}

	for _, hash := range reqs.vkeyOrder {
		if _, ok := providedVkeys[hash]; !ok {
			res.addError(MissingVKeyWitnessesError{
				KeyHash: hash,
				Reason:  reqs.vkeyReasons[hash],
			})
		}
	}
	txHash := tx.Hash()
	for i, w := range ws.Vkey() {
		if err := ledger.VerifyVKeySignature(
			w.Vkey, w.Signature, txHash.Bytes(),
		); err != nil {
			res.addError(InvalidSignatureError{
				KeyHash: w.KeyHash(),
				Index:   i,
			})
		}
	}

	redeemers := ws.Redeemers()
	usedLanguages := map[uint]struct{}{}
	for _, req := range reqs.scripts {
		switch ix.classify(req.hash) {
		case scriptClassNative:
			if !evalNativeScript(
				ix.native[req.hash], signers, ctx.CurrentSlot,
			) {
				res.addError(NativeScriptIsUnsuccessfulError{
					ScriptHash: req.hash,
					Reason:     req.location,
				})
			}
		case scriptClassPlutus:
			usedLanguages[ix.plutus[req.hash].language] = struct{}{}
			if _, ok := redeemers.Value(req.key.Tag, req.key.Index); !ok {
				res.addError(MissingRedeemerError{
					Tag:   req.key.Tag,
					Index: req.key.Index,
				})
			}
			if req.datumHash != nil {
				if _, ok := providedDatums[*req.datumHash]; !ok {
					res.addError(MissingDatumError{
						DatumHash: *req.datumHash,
						Utxo:      req.utxo,
					})
				}
			}
		default:
			res.addError(MissingScriptWitnessesError{
				ScriptHash: req.hash,
				Reason:     req.location,
			})
		}
	}

	reportExtraneous(tx, ix, reqs, providedVkeys, providedDatums, res)

	computed := computeScriptDataHash(tx, &ctx.ProtocolParameters, usedLanguages)
	declared := tx.Body.ScriptDataHash()
	if !hashPtrEqual(declared, computed) {
		res.addError(ScriptDataHashMismatchError{
			Declared: declared,
			Computed: computed,
		})
	}
}

func collectWitnessRequirements(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
) *witnessRequirements {
	reqs := newWitnessRequirements()
	for i, input := range sortedInputSet(tx.Body.Inputs()) {
		entry, ok := ctx.FindUtxo(input)
		if !ok {
			continue
		}
		addr := entry.Utxo.Output.Address()
		if addr.PaymentIsScript() {
			req := scriptRequirement{
				hash:     addr.PaymentKeyHash(),
				location: "transaction.body.inputs",
				key: ledger.RedeemerKey{
					Tag:   ledger.RedeemerTagSpend,
					Index: uint32(i), // #nosec G115
				},
				utxo: UtxoKey(input),
			}
			if datumOption := entry.Utxo.Output.DatumOption; datumOption != nil {
				// An inline datum needs no witness datum
				if datumOption.Datum() == nil {
					req.datumHash = datumOption.Hash()
				}
			}
			reqs.requireScript(req)
		} else {
			reqs.requireVkey(addr.PaymentKeyHash(), "transaction.body.inputs")
		}
	}
	for _, input := range tx.Body.Collateral() {
		entry, ok := ctx.FindUtxo(input)
		if !ok {
			continue
		}
		addr := entry.Utxo.Output.Address()
		// Script-locked collateral is rejected by the collateral validator
		if !addr.PaymentIsScript() {
			reqs.requireVkey(
				addr.PaymentKeyHash(),
				"transaction.body.collateral",
			)
		}
	}
	for i, withdrawal := range sortedWithdrawalAddrs(tx.Body.Withdrawals()) {
		location := "transaction.body.withdrawals." + withdrawal.String()
		if withdrawal.StakeIsScript() {
			reqs.requireScript(scriptRequirement{
				hash:     withdrawal.StakeKeyHash(),
				location: location,
				key: ledger.RedeemerKey{
					Tag:   ledger.RedeemerTagReward,
					Index: uint32(i), // #nosec G115
				},
			})
		} else {
			reqs.requireVkey(withdrawal.StakeKeyHash(), location)
		}
	}
	for certIdx, certWrapper := range tx.Body.Certificates() {
		collectCertificateWitness(reqs, certIdx, certWrapper.Certificate)
	}
	for i, voter := range sortedVoterList(tx.Body.VotingProcedures()) {
		location := "transaction.body.voting_procedures"
		if voter.IsScript() {
			reqs.requireScript(scriptRequirement{
				hash:     voter.KeyHash(),
				location: location,
				key: ledger.RedeemerKey{
					Tag:   ledger.RedeemerTagVoting,
					Index: uint32(i), // #nosec G115
				},
			})
		} else {
			reqs.requireVkey(voter.KeyHash(), location)
		}
	}
	for i, proposal := range tx.Body.ProposalProcedures() {
		policyHash := proposalPolicyHash(proposal)
		if policyHash != nil {
			reqs.requireScript(scriptRequirement{
				hash: *policyHash,
				location: fmt.Sprintf(
					"transaction.body.proposal_procedures.%d", i,
				),
				key: ledger.RedeemerKey{
					Tag:   ledger.RedeemerTagProposing,
					Index: uint32(i), // #nosec G115
				},
			})
		}
	}
	if mint := tx.Body.Mint(); mint != nil {
		for i, policyId := range mint.Policies() {
			reqs.requireScript(scriptRequirement{
				hash:     policyId,
				location: "transaction.body.mint",
				key: ledger.RedeemerKey{
					Tag:   ledger.RedeemerTagMint,
					Index: uint32(i), // #nosec G115
				},
			})
		}
	}
	for _, signer := range tx.Body.RequiredSigners() {
		reqs.requireVkey(signer, "transaction.body.required_signers")
	}
	return reqs
}

func collectCertificateWitness(
	reqs *witnessRequirements,
	certIdx int,
	cert ledger.Certificate,
) {
	location := certLocation(certIdx)
	requireCredential := func(cred *ledger.Credential) {
		if cred.IsScript() {
			reqs.requireScript(scriptRequirement{
				hash:     cred.Hash(),
				location: location,
				key: ledger.RedeemerKey{
					Tag:   ledger.RedeemerTagCert,
					Index: uint32(certIdx), // #nosec G115
				},
			})
		} else {
			reqs.requireVkey(cred.Hash(), location)
		}
	}
	switch tmpCert := cert.(type) {
	case *ledger.StakeRegistrationCertificate:
		// Pre-Conway stake registration needs no witness
	case *ledger.StakeDeregistrationCertificate:
		requireCredential(&tmpCert.StakeCredential)
	case *ledger.StakeDelegationCertificate:
		requireCredential(&tmpCert.StakeCredential)
	case *ledger.PoolRegistrationCertificate:
		reqs.requireVkey(tmpCert.Operator, location)
		for _, owner := range tmpCert.PoolOwners {
			reqs.requireVkey(owner, location)
		}
	case *ledger.PoolRetirementCertificate:
		reqs.requireVkey(tmpCert.PoolKeyHash, location)
	case *ledger.RegistrationCertificate:
		requireCredential(&tmpCert.StakeCredential)
	case *ledger.DeregistrationCertificate:
		requireCredential(&tmpCert.StakeCredential)
	case *ledger.VoteDelegationCertificate:
		requireCredential(&tmpCert.StakeCredential)
	case *ledger.StakeVoteDelegationCertificate:
		requireCredential(&tmpCert.StakeCredential)
	case *ledger.StakeRegistrationDelegationCertificate:
		requireCredential(&tmpCert.StakeCredential)
	case *ledger.VoteRegistrationDelegationCertificate:
		requireCredential(&tmpCert.StakeCredential)
	case *ledger.StakeVoteRegistrationDelegationCertificate:
		requireCredential(&tmpCert.StakeCredential)
	case *ledger.AuthCommitteeHotCertificate:
		requireCredential(&tmpCert.ColdCredential)
	case *ledger.ResignCommitteeColdCertificate:
		requireCredential(&tmpCert.ColdCredential)
	case *ledger.RegistrationDrepCertificate:
		requireCredential(&tmpCert.DrepCredential)
	case *ledger.DeregistrationDrepCertificate:
		requireCredential(&tmpCert.DrepCredential)
	case *ledger.UpdateDrepCertificate:
		requireCredential(&tmpCert.DrepCredential)
	}
}

func reportExtraneous(
	tx *ledger.Transaction,
	ix *scriptIndex,
	reqs *witnessRequirements,
	providedVkeys map[ledger.Blake2b224]struct{},
	providedDatums map[ledger.Blake2b256]ledger.Datum,
	res *ValidationResult,
) {
	ws := tx.Witnesses()
	for _, script := range ws.NativeScripts() {
		if _, ok := reqs.scriptSet[script.Hash()]; !ok {
			res.addError(ExtraneousScriptWitnessesError{
				ScriptHash: script.Hash(),
			})
		}
	}
	witnessPlutusHashes := []ledger.ScriptHash{}
	for _, script := range ws.PlutusV1Scripts() {
		witnessPlutusHashes = append(witnessPlutusHashes, script.Hash())
	}
	for _, script := range ws.PlutusV2Scripts() {
		witnessPlutusHashes = append(witnessPlutusHashes, script.Hash())
	}
	for _, script := range ws.PlutusV3Scripts() {
		witnessPlutusHashes = append(witnessPlutusHashes, script.Hash())
	}
	for _, hash := range witnessPlutusHashes {
		if _, ok := reqs.scriptSet[hash]; !ok {
			res.addError(ExtraneousScriptWitnessesError{ScriptHash: hash})
		}
	}

	usedDatums := map[ledger.Blake2b256]struct{}{}
	for _, req := range reqs.scripts {
		if req.datumHash != nil {
			usedDatums[*req.datumHash] = struct{}{}
		}
	}
	// Outputs may carry supplemental datums for later spending
	outputs := tx.Body.Outputs()
	if ret := tx.Body.CollateralReturn(); ret != nil {
		outputs = append(outputs, *ret)
	}
	for _, output := range outputs {
		if datumOption := output.DatumOption; datumOption != nil {
			if hash := datumOption.Hash(); hash != nil {
				usedDatums[*hash] = struct{}{}
			}
		}
	}
	datumHashes := make([]ledger.Blake2b256, 0, len(providedDatums))
	for hash := range providedDatums {
		datumHashes = append(datumHashes, hash)
	}
	slices.SortFunc(datumHashes, func(a, b ledger.Blake2b256) int {
		return bytes.Compare(a.Bytes(), b.Bytes())
	})
	for _, hash := range datumHashes {
		if _, ok := usedDatums[hash]; !ok {
			res.addError(ExtraneousDatumWitnessesError{DatumHash: hash})
		}
	}

	// Signatures plausibly consumed by a native script are never extraneous
	exempt := map[ledger.Blake2b224]struct{}{}
	for _, script := range ix.native {
		nativeScriptSigners(script, exempt)
	}
	for i, w := range ws.Vkey() {
		keyHash := w.KeyHash()
		if _, ok := reqs.vkeyReasons[keyHash]; ok {
			continue
		}
		if _, ok := exempt[keyHash]; ok {
			continue
		}
		res.addError(ExtraneousSignatureError{
			KeyHash: keyHash,
			Index:   i,
		})
	}
}

func proposalPolicyHash(proposal ledger.ProposalProcedure) *ledger.ScriptHash {
	var policyHash []byte
	switch tmpAction := proposal.GovAction.Action.(type) {
	case *ledger.ParameterChangeGovAction:
		policyHash = tmpAction.PolicyHash
	case *ledger.TreasuryWithdrawalGovAction:
		policyHash = tmpAction.PolicyHash
	}
	if len(policyHash) == 0 {
		return nil
	}
	hash := ledger.NewBlake2b224(policyHash)
	return &hash
}

func sortedInputSet(
	inputs []ledger.TransactionInput,
) []ledger.TransactionInput {
	ret := slices.Clone(inputs)
	slices.SortFunc(ret, func(a, b ledger.TransactionInput) int {
		if c := bytes.Compare(a.TxId.Bytes(), b.TxId.Bytes()); c != 0 {
			return c
		}
		return int(a.OutputIndex) - int(b.OutputIndex)
	})
	return ret
}

func sortedWithdrawalAddrs(withdrawals ledger.Withdrawals) []*ledger.Address {
	ret := make([]*ledger.Address, 0, len(withdrawals))
	for addr := range withdrawals {
		if addr == nil {
			continue
		}
		ret = append(ret, addr)
	}
	slices.SortFunc(ret, func(a, b *ledger.Address) int {
		aBytes, _ := a.Bytes()
		bBytes, _ := b.Bytes()
		return bytes.Compare(aBytes, bBytes)
	})
	return ret
}

func sortedVoterList(procedures ledger.VotingProcedures) []ledger.Voter {
	ret := make([]ledger.Voter, 0, len(procedures))
	for voter := range procedures {
		if voter == nil {
			continue
		}
		ret = append(ret, *voter)
	}
	slices.SortFunc(ret, func(a, b ledger.Voter) int {
		if a.Type != b.Type {
			return int(a.Type) - int(b.Type)
		}
		return bytes.Compare(a.Hash[:], b.Hash[:])
	})
	return ret
}

func hashPtrEqual(a, b *ledger.Blake2b256) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
