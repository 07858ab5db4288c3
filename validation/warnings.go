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
)

type FeeBiggerThanMinimumWarning struct {
	MinimumFee int64
	ActualFee  int64
}

func (w FeeBiggerThanMinimumWarning) Error() string {
	return fmt.Sprintf(
		"fee %d overpays the minimum %d by %d lovelace",
		w.ActualFee,
		w.MinimumFee,
		w.ActualFee-w.MinimumFee,
	)
}

func (w FeeBiggerThanMinimumWarning) RuleName() string {
	return RuleFeeBiggerThanMinimum
}

func (w FeeBiggerThanMinimumWarning) Locations() []string {
	return []string{"transaction.body.fee"}
}

type CannotVerifyRefundWarning struct {
	CertIndex  int
	Credential string
}

func (w CannotVerifyRefundWarning) Error() string {
	return "no recorded deposit to verify refund for credential " + w.Credential
}

func (w CannotVerifyRefundWarning) RuleName() string {
	return RuleCannotVerifyRefund
}

func (w CannotVerifyRefundWarning) Locations() []string {
	return []string{certLocation(w.CertIndex)}
}

type DuplicateRegistrationInTxWarning struct {
	CertIndex  int
	Credential string
}

func (w DuplicateRegistrationInTxWarning) Error() string {
	return "credential registered more than once within the transaction: " + w.Credential
}

func (w DuplicateRegistrationInTxWarning) RuleName() string {
	return RuleDuplicateRegistrationInTx
}

func (w DuplicateRegistrationInTxWarning) Locations() []string {
	return []string{certLocation(w.CertIndex)}
}

type InputsNotInCanonicalOrderWarning struct{}

func (w InputsNotInCanonicalOrderWarning) Error() string {
	return "transaction inputs are not in canonical lexicographic order"
}

func (w InputsNotInCanonicalOrderWarning) RuleName() string {
	return RuleInputsNotInCanonicalOrder
}

func (w InputsNotInCanonicalOrderWarning) Locations() []string {
	return []string{"transaction.body.inputs"}
}

type CannotVerifyWithdrawalAmountWarning struct {
	Address string
}

func (w CannotVerifyWithdrawalAmountWarning) Error() string {
	return "reward balance unknown, cannot verify withdrawal amount for " + w.Address
}

func (w CannotVerifyWithdrawalAmountWarning) RuleName() string {
	return RuleCannotVerifyWithdrawal
}

func (w CannotVerifyWithdrawalAmountWarning) Locations() []string {
	return []string{"transaction.body.withdrawals." + w.Address}
}
