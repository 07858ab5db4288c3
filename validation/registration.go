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

// certState is the registration bookkeeping accumulator threaded through
// the certificate list in document order. Each certificate sees the
// snapshot overlaid with the effect of every earlier certificate in the
// same transaction
type certState struct {
	ctx               *ValidationInputContext
	stakeOverlay      map[string]bool
	drepOverlay       map[string]bool
	poolOverlay       map[string]bool
	poolRetirements   map[string]uint64
	committeeResigned map[string]struct{}
}

func newCertState(ctx *ValidationInputContext) *certState {
	return &certState{
		ctx:               ctx,
		stakeOverlay:      map[string]bool{},
		drepOverlay:       map[string]bool{},
		poolOverlay:       map[string]bool{},
		poolRetirements:   map[string]uint64{},
		committeeResigned: map[string]struct{}{},
	}
}

func (s *certState) stakeIsRegistered(credHash string) bool {
	if v, ok := s.stakeOverlay[credHash]; ok {
		return v
	}
	account, found := s.ctx.Accounts[credHash]
	return found && account.IsRegistered
}

// stakeRegisteredInTx reports whether the credential was registered by an
// earlier certificate in the same transaction
func (s *certState) stakeRegisteredInTx(credHash string) bool {
	return s.stakeOverlay[credHash]
}

func (s *certState) drepIsRegistered(credHash string) bool {
	if v, ok := s.drepOverlay[credHash]; ok {
		return v
	}
	drep, found := s.ctx.DReps[credHash]
	return found && drep.IsRegistered
}

func (s *certState) drepRegisteredInTx(credHash string) bool {
	return s.drepOverlay[credHash]
}

func (s *certState) poolIsRegistered(poolId string) bool {
	if v, ok := s.poolOverlay[poolId]; ok {
		return v
	}
	pool, found := s.ctx.Pools[poolId]
	return found && pool.IsRegistered
}

func (s *certState) committeeHasResigned(credHash string) bool {
	if _, ok := s.committeeResigned[credHash]; ok {
		return true
	}
	member, found := s.ctx.CommitteeMembers[credHash]
	return found && member.HasResigned
}

// validateRegistration replays the certificate list in order, checking
// each certificate against the cumulative state before it
func validateRegistration(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
	res *ValidationResult,
) {
	state := newCertState(ctx)
	for certIdx, certWrapper := range tx.Body.Certificates() {
		validateCertificate(state, certIdx, certWrapper.Certificate, res)
	}
}

func validateCertificate(
	state *certState,
	certIdx int,
	cert ledger.Certificate,
	res *ValidationResult,
) {
	ctx := state.ctx
	pp := &ctx.ProtocolParameters
	switch tmpCert := cert.(type) {
	case *ledger.StakeRegistrationCertificate:
		registerStake(state, certIdx, &tmpCert.StakeCredential, true, res)
	case *ledger.RegistrationCertificate:
		registerStake(state, certIdx, &tmpCert.StakeCredential, true, res)
	case *ledger.StakeDeregistrationCertificate:
		deregisterStake(state, certIdx, &tmpCert.StakeCredential, res)
	case *ledger.DeregistrationCertificate:
		deregisterStake(state, certIdx, &tmpCert.StakeCredential, res)
	case *ledger.StakeDelegationCertificate:
		requireStakeRegistered(state, certIdx, &tmpCert.StakeCredential, res)
		requirePoolRegistered(state, certIdx, tmpCert.PoolKeyHash, res)
	case *ledger.VoteDelegationCertificate:
		requireStakeRegistered(state, certIdx, &tmpCert.StakeCredential, res)
		requireDrepRegistered(state, certIdx, tmpCert.Drep, res)
	case *ledger.StakeVoteDelegationCertificate:
		requireStakeRegistered(state, certIdx, &tmpCert.StakeCredential, res)
		requirePoolRegistered(state, certIdx, tmpCert.PoolKeyHash, res)
		requireDrepRegistered(state, certIdx, tmpCert.Drep, res)
	case *ledger.StakeRegistrationDelegationCertificate:
		registerStake(state, certIdx, &tmpCert.StakeCredential, true, res)
		requirePoolRegistered(state, certIdx, tmpCert.PoolKeyHash, res)
	case *ledger.VoteRegistrationDelegationCertificate:
		registerStake(state, certIdx, &tmpCert.StakeCredential, true, res)
		requireDrepRegistered(state, certIdx, tmpCert.Drep, res)
	case *ledger.StakeVoteRegistrationDelegationCertificate:
		// This combined kind never produced the same-transaction
		// duplicate warning upstream
		registerStake(state, certIdx, &tmpCert.StakeCredential, false, res)
		requirePoolRegistered(state, certIdx, tmpCert.PoolKeyHash, res)
		requireDrepRegistered(state, certIdx, tmpCert.Drep, res)
	case *ledger.PoolRegistrationCertificate:
		if tmpCert.Cost < pp.MinPoolCost {
			res.addError(PoolCostTooLowError{
				CertIndex: certIdx,
				Declared:  tmpCert.Cost,
				Minimum:   pp.MinPoolCost,
			})
		}
		state.poolOverlay[tmpCert.Operator.String()] = true
	case *ledger.PoolRetirementCertificate:
		poolId := tmpCert.PoolKeyHash.String()
		if !state.poolIsRegistered(poolId) {
			res.addError(PoolNotRegisteredError{
				CertIndex: certIdx,
				PoolId:    ledger.PoolIdBech32(tmpCert.PoolKeyHash),
			})
		}
		minEpoch := ctx.CurrentEpoch + 1
		maxEpoch := ctx.CurrentEpoch + uint64(pp.MaxEpoch) // #nosec G115
		if tmpCert.Epoch < minEpoch || tmpCert.Epoch > maxEpoch {
			res.addError(PoolRetirementEpochInvalidError{
				CertIndex: certIdx,
				Epoch:     tmpCert.Epoch,
				MinEpoch:  minEpoch,
				MaxEpoch:  maxEpoch,
			})
		}
		state.poolRetirements[poolId] = tmpCert.Epoch
	case *ledger.RegistrationDrepCertificate:
		credHash := tmpCert.DrepCredential.String()
		if state.drepIsRegistered(credHash) {
			res.addError(DRepAlreadyRegisteredError{
				CertIndex:  certIdx,
				Credential: credHash,
			})
			if state.drepRegisteredInTx(credHash) {
				res.addWarning(DuplicateRegistrationInTxWarning{
					CertIndex:  certIdx,
					Credential: credHash,
				})
			}
		}
		state.drepOverlay[credHash] = true
	case *ledger.DeregistrationDrepCertificate:
		credHash := tmpCert.DrepCredential.String()
		if !state.drepIsRegistered(credHash) {
			res.addError(DRepNotRegisteredError{
				CertIndex:  certIdx,
				Credential: credHash,
			})
		}
		state.drepOverlay[credHash] = false
	case *ledger.UpdateDrepCertificate:
		credHash := tmpCert.DrepCredential.String()
		if !state.drepIsRegistered(credHash) {
			res.addError(DRepNotRegisteredError{
				CertIndex:  certIdx,
				Credential: credHash,
			})
		}
	case *ledger.AuthCommitteeHotCertificate:
		checkCommitteeMember(state, certIdx, &tmpCert.ColdCredential, res)
	case *ledger.ResignCommitteeColdCertificate:
		credHash := tmpCert.ColdCredential.String()
		checkCommitteeMember(state, certIdx, &tmpCert.ColdCredential, res)
		state.committeeResigned[credHash] = struct{}{}
	}
}

func registerStake(
	state *certState,
	certIdx int,
	cred *ledger.Credential,
	duplicateWarning bool,
	res *ValidationResult,
) {
	credHash := cred.String()
	if state.stakeIsRegistered(credHash) {
		res.addError(StakeAlreadyRegisteredError{
			CertIndex:  certIdx,
			Credential: credHash,
		})
		if duplicateWarning && state.stakeRegisteredInTx(credHash) {
			res.addWarning(DuplicateRegistrationInTxWarning{
				CertIndex:  certIdx,
				Credential: credHash,
			})
		}
	}
	state.stakeOverlay[credHash] = true
}

func deregisterStake(
	state *certState,
	certIdx int,
	cred *ledger.Credential,
	res *ValidationResult,
) {
	credHash := cred.String()
	if !state.stakeIsRegistered(credHash) {
		res.addError(StakeNotRegisteredError{
			CertIndex:  certIdx,
			Credential: credHash,
		})
	}
	state.stakeOverlay[credHash] = false
}

func requireStakeRegistered(
	state *certState,
	certIdx int,
	cred *ledger.Credential,
	res *ValidationResult,
) {
	credHash := cred.String()
	if !state.stakeIsRegistered(credHash) {
		res.addError(StakeNotRegisteredError{
			CertIndex:  certIdx,
			Credential: credHash,
		})
	}
}

func requirePoolRegistered(
	state *certState,
	certIdx int,
	poolId ledger.PoolKeyHash,
	res *ValidationResult,
) {
	if !state.poolIsRegistered(poolId.String()) {
		res.addError(PoolNotRegisteredError{
			CertIndex: certIdx,
			PoolId:    ledger.PoolIdBech32(poolId),
		})
	}
}

func requireDrepRegistered(
	state *certState,
	certIdx int,
	drep ledger.Drep,
	res *ValidationResult,
) {
	// The abstain and no-confidence delegates always exist
	if drep.Type != ledger.DrepTypeAddrKeyHash &&
		drep.Type != ledger.DrepTypeScriptHash {
		return
	}
	credHash := ledger.NewBlake2b224(drep.Credential).String()
	if !state.drepIsRegistered(credHash) {
		res.addError(DRepNotRegisteredError{
			CertIndex:  certIdx,
			Credential: credHash,
		})
	}
}

func checkCommitteeMember(
	state *certState,
	certIdx int,
	coldCred *ledger.Credential,
	res *ValidationResult,
) {
	credHash := coldCred.String()
	member, found := state.ctx.CommitteeMembers[credHash]
	if !found || !member.IsMember {
		res.addError(CommitteeNotMemberError{
			CertIndex:  certIdx,
			Credential: credHash,
		})
		return
	}
	if state.committeeHasResigned(credHash) {
		res.addError(CommitteeHasResignedError{
			CertIndex:  certIdx,
			Credential: credHash,
		})
	}
}
