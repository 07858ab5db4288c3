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

package ledger

import (
	"errors"
	"math"

	"github.com/blinklabs-io/txcheck/cbor"
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
)

// Plutus language identifiers as used in the cost model map
const (
	PlutusLanguageV1 = 0
	PlutusLanguageV2 = 1
	PlutusLanguageV3 = 2
)

type ProtocolVersion struct {
	cbor.StructAsArray
	Major uint `json:"major"`
	Minor uint `json:"minor"`
}

// ExUnitPrice is the pair of prices charged per execution unit
type ExUnitPrice struct {
	cbor.StructAsArray
	MemPrice  *cbor.Rat `json:"priceMemory"`
	StepPrice *cbor.Rat `json:"priceSteps"`
}

// ProtocolParameters is the subset of the protocol parameters that influence
// transaction validation. JSON tags allow them to be loaded from an input
// context document
type ProtocolParameters struct {
	MinFeeA                    uint64           `json:"txFeePerByte"`
	MinFeeB                    uint64           `json:"txFeeFixed"`
	MaxBlockBodySize           uint             `json:"maxBlockBodySize"`
	MaxTxSize                  uint             `json:"maxTxSize"`
	MaxBlockHeaderSize         uint             `json:"maxBlockHeaderSize"`
	KeyDeposit                 uint64           `json:"stakeAddressDeposit"`
	PoolDeposit                uint64           `json:"stakePoolDeposit"`
	MaxEpoch                   uint             `json:"poolRetireMaxEpoch"`
	NOpt                       uint             `json:"stakePoolTargetNum"`
	A0                         *cbor.Rat        `json:"poolPledgeInfluence"`
	Rho                        *cbor.Rat        `json:"monetaryExpansion"`
	Tau                        *cbor.Rat        `json:"treasuryCut"`
	ProtocolVersion            ProtocolVersion  `json:"protocolVersion"`
	MinPoolCost                uint64           `json:"minPoolCost"`
	AdaPerUtxoByte             uint64           `json:"utxoCostPerByte"`
	CostModels                 map[uint][]int64 `json:"costModels"`
	ExecutionCosts             ExUnitPrice      `json:"executionUnitPrices"`
	MaxTxExUnits               ExUnits          `json:"maxTxExecutionUnits"`
	MaxBlockExUnits            ExUnits          `json:"maxBlockExecutionUnits"`
	MaxValueSize               uint             `json:"maxValueSize"`
	CollateralPercentage       uint             `json:"collateralPercentage"`
	MaxCollateralInputs        uint             `json:"maxCollateralInputs"`
	GovActionDeposit           uint64           `json:"govActionDeposit"`
	DRepDeposit                uint64           `json:"dRepDeposit"`
	MinFeeRefScriptCostPerByte *cbor.Rat        `json:"minFeeRefScriptCostPerByte"`
}

// CostModel returns the cost model for the given Plutus language version
func (p *ProtocolParameters) CostModel(language uint) []int64 {
	if p.CostModels == nil {
		return nil
	}
	return p.CostModels[language]
}

func (p *ProtocolParameters) Utxorpc() (*utxorpc.PParams, error) {
	if p.ExecutionCosts.MemPrice == nil || p.ExecutionCosts.StepPrice == nil {
		return nil, errors.New("missing execution unit prices")
	}
	if p.ExecutionCosts.MemPrice.Num().Int64() > math.MaxInt32 ||
		p.ExecutionCosts.MemPrice.Denom().Int64() < 0 ||
		p.ExecutionCosts.MemPrice.Denom().Int64() > math.MaxUint32 {
		return nil, errors.New("invalid memory price rational number values")
	}
	if p.ExecutionCosts.StepPrice.Num().Int64() > math.MaxInt32 ||
		p.ExecutionCosts.StepPrice.Denom().Int64() < 0 ||
		p.ExecutionCosts.StepPrice.Denom().Int64() > math.MaxUint32 {
		return nil, errors.New("invalid step price rational number values")
	}
	// #nosec G115
	return &utxorpc.PParams{
		CoinsPerUtxoByte:         p.AdaPerUtxoByte,
		MaxTxSize:                uint64(p.MaxTxSize),
		MinFeeCoefficient:        p.MinFeeA,
		MinFeeConstant:           p.MinFeeB,
		MaxBlockBodySize:         uint64(p.MaxBlockBodySize),
		MaxBlockHeaderSize:       uint64(p.MaxBlockHeaderSize),
		StakeKeyDeposit:          p.KeyDeposit,
		PoolDeposit:              p.PoolDeposit,
		PoolRetirementEpochBound: uint64(p.MaxEpoch),
		DesiredNumberOfPools:     uint64(p.NOpt),
		MinPoolCost:              p.MinPoolCost,
		ProtocolVersion: &utxorpc.ProtocolVersion{
			Major: uint32(p.ProtocolVersion.Major),
			Minor: uint32(p.ProtocolVersion.Minor),
		},
		MaxValueSize:         uint64(p.MaxValueSize),
		CollateralPercentage: uint64(p.CollateralPercentage),
		MaxCollateralInputs:  uint64(p.MaxCollateralInputs),
		Prices: &utxorpc.ExPrices{
			Memory: &utxorpc.RationalNumber{
				Numerator:   int32(p.ExecutionCosts.MemPrice.Num().Int64()),
				Denominator: uint32(p.ExecutionCosts.MemPrice.Denom().Int64()),
			},
			Steps: &utxorpc.RationalNumber{
				Numerator:   int32(p.ExecutionCosts.StepPrice.Num().Int64()),
				Denominator: uint32(p.ExecutionCosts.StepPrice.Denom().Int64()),
			},
		},
		MaxExecutionUnitsPerTransaction: &utxorpc.ExUnits{
			Memory: uint64(p.MaxTxExUnits.Memory),
			Steps:  uint64(p.MaxTxExUnits.Steps),
		},
		MaxExecutionUnitsPerBlock: &utxorpc.ExUnits{
			Memory: uint64(p.MaxBlockExUnits.Memory),
			Steps:  uint64(p.MaxBlockExUnits.Steps),
		},
	}, nil
}
