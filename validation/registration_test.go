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

	"github.com/blinklabs-io/txcheck/cbor"
	test_ledger "github.com/blinklabs-io/txcheck/internal/test/ledger"
	"github.com/blinklabs-io/txcheck/ledger"
	"github.com/stretchr/testify/assert"
)

func certTx(certs ...ledger.CertificateWrapper) *ledger.Transaction {
	tx := &ledger.Transaction{}
	tx.Body.TxCertificates = cbor.NewSetType(certs, false)
	return tx
}

func stakeRegCert(cred ledger.Credential) ledger.CertificateWrapper {
	return ledger.CertificateWrapper{
		Type: ledger.CertificateTypeStakeRegistration,
		Certificate: &ledger.StakeRegistrationCertificate{
			CertType:        ledger.CertificateTypeStakeRegistration,
			StakeCredential: cred,
		},
	}
}

func stakeDeregCert(cred ledger.Credential) ledger.CertificateWrapper {
	return ledger.CertificateWrapper{
		Type: ledger.CertificateTypeStakeDeregistration,
		Certificate: &ledger.StakeDeregistrationCertificate{
			CertType:        ledger.CertificateTypeStakeDeregistration,
			StakeCredential: cred,
		},
	}
}

func TestValidateRegistrationStake(t *testing.T) {
	cred := ledger.Credential{
		CredType:   ledger.CredentialTypeAddrKeyHash,
		Credential: test_ledger.Hash28(5),
	}
	credHash := cred.String()
	poolHash := test_ledger.Hash28(0x30)

	t.Run("registration then deregistration in same tx", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(
			certTx(stakeRegCert(cred), stakeDeregCert(cred)),
			ctx,
			res,
		)
		assert.Empty(t, res.Errors)
		assert.Empty(t, res.Warnings)
	})

	t.Run("already registered in snapshot", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.Accounts[credHash] = &AccountContext{IsRegistered: true}
		res := &ValidationResult{}
		validateRegistration(certTx(stakeRegCert(cred)), ctx, res)
		assertOnlyRule(t, res.Errors, RuleStakeAlreadyRegistered)
		assert.Empty(t, res.Warnings)
	})

	t.Run("double registration in same tx", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(
			certTx(stakeRegCert(cred), stakeRegCert(cred)),
			ctx,
			res,
		)
		assertOnlyRule(t, res.Errors, RuleStakeAlreadyRegistered)
		assertOnlyRule(t, res.Warnings, RuleDuplicateRegistrationInTx)
	})

	t.Run("deregistration of unregistered credential", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(certTx(stakeDeregCert(cred)), ctx, res)
		assertOnlyRule(t, res.Errors, RuleStakeNotRegistered)
	})

	t.Run("delegation without registration", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(certTx(ledger.CertificateWrapper{
			Type: ledger.CertificateTypeStakeDelegation,
			Certificate: &ledger.StakeDelegationCertificate{
				CertType:        ledger.CertificateTypeStakeDelegation,
				StakeCredential: cred,
				PoolKeyHash:     poolHash,
			},
		}), ctx, res)
		assert.Len(t, res.Errors, 2)
		assert.True(t, hasRule(res.Errors, RuleStakeNotRegistered))
		assert.True(t, hasRule(res.Errors, RulePoolNotRegistered))
	})

	t.Run("register and delegate in one tx", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.Pools[poolHash.String()] = &PoolContext{IsRegistered: true}
		res := &ValidationResult{}
		validateRegistration(certTx(
			stakeRegCert(cred),
			ledger.CertificateWrapper{
				Type: ledger.CertificateTypeStakeDelegation,
				Certificate: &ledger.StakeDelegationCertificate{
					CertType:        ledger.CertificateTypeStakeDelegation,
					StakeCredential: cred,
					PoolKeyHash:     poolHash,
				},
			},
		), ctx, res)
		assert.Empty(t, res.Errors)
	})
}

func TestValidateRegistrationPool(t *testing.T) {
	poolHash := test_ledger.Hash28(0x30)

	regCert := func(cost uint64) ledger.CertificateWrapper {
		return ledger.CertificateWrapper{
			Type: ledger.CertificateTypePoolRegistration,
			Certificate: &ledger.PoolRegistrationCertificate{
				CertType: ledger.CertificateTypePoolRegistration,
				Operator: poolHash,
				Cost:     cost,
			},
		}
	}
	retireCert := func(epoch uint64) ledger.CertificateWrapper {
		return ledger.CertificateWrapper{
			Type: ledger.CertificateTypePoolRetirement,
			Certificate: &ledger.PoolRetirementCertificate{
				CertType:    ledger.CertificateTypePoolRetirement,
				PoolKeyHash: poolHash,
				Epoch:       epoch,
			},
		}
	}

	t.Run("cost at minimum", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(certTx(regCert(170_000_000)), ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("cost below minimum", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(certTx(regCert(169_999_999)), ctx, res)
		assertOnlyRule(t, res.Errors, RulePoolCostTooLow)
	})

	t.Run("retirement of unregistered pool", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(certTx(retireCert(101)), ctx, res)
		assertOnlyRule(t, res.Errors, RulePoolNotRegistered)
	})

	// Current epoch is 100 and the maximum retirement horizon is 18 epochs,
	// so valid epochs are 101 through 118 inclusive
	t.Run("retirement epoch window", func(t *testing.T) {
		for _, tc := range []struct {
			epoch uint64
			valid bool
		}{
			{100, false},
			{101, true},
			{118, true},
			{119, false},
		} {
			ctx := testSnapshot()
			ctx.Pools[poolHash.String()] = &PoolContext{IsRegistered: true}
			res := &ValidationResult{}
			validateRegistration(certTx(retireCert(tc.epoch)), ctx, res)
			if tc.valid {
				assert.Empty(t, res.Errors, "epoch %d", tc.epoch)
			} else {
				assertOnlyRule(t, res.Errors, RulePoolRetirementEpochInvalid)
			}
		}
	})

	t.Run("register then retire in same tx", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(
			certTx(regCert(170_000_000), retireCert(101)),
			ctx,
			res,
		)
		assert.Empty(t, res.Errors)
	})
}

func TestValidateRegistrationDRep(t *testing.T) {
	cred := ledger.Credential{
		CredType:   ledger.CredentialTypeAddrKeyHash,
		Credential: test_ledger.Hash28(6),
	}
	credHash := cred.String()
	stakeCred := ledger.Credential{
		CredType:   ledger.CredentialTypeAddrKeyHash,
		Credential: test_ledger.Hash28(7),
	}

	drepRegCert := func() ledger.CertificateWrapper {
		return ledger.CertificateWrapper{
			Type: ledger.CertificateTypeRegistrationDrep,
			Certificate: &ledger.RegistrationDrepCertificate{
				CertType:       ledger.CertificateTypeRegistrationDrep,
				DrepCredential: cred,
				Amount:         500_000_000,
			},
		}
	}
	voteDelegCert := func(drep ledger.Drep) ledger.CertificateWrapper {
		return ledger.CertificateWrapper{
			Type: ledger.CertificateTypeVoteDelegation,
			Certificate: &ledger.VoteDelegationCertificate{
				CertType:        ledger.CertificateTypeVoteDelegation,
				StakeCredential: stakeCred,
				Drep:            drep,
			},
		}
	}

	t.Run("already registered in snapshot", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.DReps[credHash] = &DRepContext{IsRegistered: true}
		res := &ValidationResult{}
		validateRegistration(certTx(drepRegCert()), ctx, res)
		assertOnlyRule(t, res.Errors, RuleDRepAlreadyRegistered)
		assert.Empty(t, res.Warnings)
	})

	t.Run("double registration in same tx", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(certTx(drepRegCert(), drepRegCert()), ctx, res)
		assertOnlyRule(t, res.Errors, RuleDRepAlreadyRegistered)
		assertOnlyRule(t, res.Warnings, RuleDuplicateRegistrationInTx)
	})

	t.Run("deregistration of unregistered drep", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(certTx(ledger.CertificateWrapper{
			Type: ledger.CertificateTypeDeregistrationDrep,
			Certificate: &ledger.DeregistrationDrepCertificate{
				CertType:       ledger.CertificateTypeDeregistrationDrep,
				DrepCredential: cred,
			},
		}), ctx, res)
		assertOnlyRule(t, res.Errors, RuleDRepNotRegistered)
	})

	t.Run("update of unregistered drep", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(certTx(ledger.CertificateWrapper{
			Type: ledger.CertificateTypeUpdateDrep,
			Certificate: &ledger.UpdateDrepCertificate{
				CertType:       ledger.CertificateTypeUpdateDrep,
				DrepCredential: cred,
			},
		}), ctx, res)
		assertOnlyRule(t, res.Errors, RuleDRepNotRegistered)
	})

	t.Run("vote delegation to unregistered drep", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.Accounts[stakeCred.String()] = &AccountContext{IsRegistered: true}
		res := &ValidationResult{}
		validateRegistration(certTx(voteDelegCert(ledger.Drep{
			Type:       ledger.DrepTypeAddrKeyHash,
			Credential: test_ledger.Hash28(6).Bytes(),
		})), ctx, res)
		assertOnlyRule(t, res.Errors, RuleDRepNotRegistered)
	})

	t.Run("vote delegation to abstain delegate", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.Accounts[stakeCred.String()] = &AccountContext{IsRegistered: true}
		res := &ValidationResult{}
		validateRegistration(certTx(voteDelegCert(ledger.Drep{
			Type: ledger.DrepTypeAbstain,
		})), ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("register drep then delegate in same tx", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.Accounts[stakeCred.String()] = &AccountContext{IsRegistered: true}
		res := &ValidationResult{}
		validateRegistration(certTx(
			drepRegCert(),
			voteDelegCert(ledger.Drep{
				Type:       ledger.DrepTypeAddrKeyHash,
				Credential: test_ledger.Hash28(6).Bytes(),
			}),
		), ctx, res)
		assert.Empty(t, res.Errors)
	})
}

func TestValidateRegistrationCommittee(t *testing.T) {
	coldCred := ledger.Credential{
		CredType:   ledger.CredentialTypeAddrKeyHash,
		Credential: test_ledger.Hash28(8),
	}
	hotCred := ledger.Credential{
		CredType:   ledger.CredentialTypeAddrKeyHash,
		Credential: test_ledger.Hash28(9),
	}
	credHash := coldCred.String()

	authCert := func() ledger.CertificateWrapper {
		return ledger.CertificateWrapper{
			Type: ledger.CertificateTypeAuthCommitteeHot,
			Certificate: &ledger.AuthCommitteeHotCertificate{
				CertType:       ledger.CertificateTypeAuthCommitteeHot,
				ColdCredential: coldCred,
				HotCredential:  hotCred,
			},
		}
	}
	resignCert := func() ledger.CertificateWrapper {
		return ledger.CertificateWrapper{
			Type: ledger.CertificateTypeResignCommitteeCold,
			Certificate: &ledger.ResignCommitteeColdCertificate{
				CertType:       ledger.CertificateTypeResignCommitteeCold,
				ColdCredential: coldCred,
			},
		}
	}

	t.Run("auth by member", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.CommitteeMembers[credHash] = &CommitteeMemberContext{IsMember: true}
		res := &ValidationResult{}
		validateRegistration(certTx(authCert()), ctx, res)
		assert.Empty(t, res.Errors)
	})

	t.Run("auth by non-member", func(t *testing.T) {
		ctx := testSnapshot()
		res := &ValidationResult{}
		validateRegistration(certTx(authCert()), ctx, res)
		assertOnlyRule(t, res.Errors, RuleCommitteeNotMember)
	})

	t.Run("auth by resigned member", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.CommitteeMembers[credHash] = &CommitteeMemberContext{
			IsMember:    true,
			HasResigned: true,
		}
		res := &ValidationResult{}
		validateRegistration(certTx(authCert()), ctx, res)
		assertOnlyRule(t, res.Errors, RuleCommitteeHasResigned)
	})

	t.Run("resign then auth in same tx", func(t *testing.T) {
		ctx := testSnapshot()
		ctx.CommitteeMembers[credHash] = &CommitteeMemberContext{IsMember: true}
		res := &ValidationResult{}
		validateRegistration(certTx(resignCert(), authCert()), ctx, res)
		assertOnlyRule(t, res.Errors, RuleCommitteeHasResigned)
	})
}
