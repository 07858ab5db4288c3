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
	"github.com/blinklabs-io/txcheck/cbor"
	"github.com/blinklabs-io/txcheck/ledger"
)

// Fixed per-output overhead added to the serialized size when computing
// the minimum coin requirement
const minOutputCoinOverhead = 160

// validateOutputs applies the serialized value size cap and the size-based
// minimum coin requirement to every output
func validateOutputs(
	tx *ledger.Transaction,
	ctx *ValidationInputContext,
	res *ValidationResult,
) {
	pp := &ctx.ProtocolParameters
	for i, output := range tx.Body.Outputs() {
		if pp.MaxValueSize > 0 {
			valueSize := serializedSize(output.Amount())
			if valueSize > int(pp.MaxValueSize) { // #nosec G115
				res.addError(OutputTooBigUTxOError{
					Index: i,
					Size:  valueSize,
					Max:   pp.MaxValueSize,
				})
			}
		}
		minCoin := minOutputCoin(pp, &output)
		if output.Amount().Coin < minCoin {
			res.addError(OutputTooSmallUTxOError{
				Index:       i,
				MinimumCoin: minCoin,
				ActualCoin:  output.Amount().Coin,
			})
		}
	}
}

// minOutputCoin is the minimum lovelace an output must hold, driven by its
// serialized size and the ada-per-byte protocol parameter
func minOutputCoin(
	pp *ledger.ProtocolParameters,
	output *ledger.TransactionOutput,
) int64 {
	size := int64(len(output.Cbor()))
	if size == 0 {
		size = int64(serializedSize(output))
	}
	// #nosec G115
	return (minOutputCoinOverhead + size) * int64(pp.AdaPerUtxoByte)
}

func serializedSize(v any) int {
	tmpCbor, err := cbor.Encode(v)
	if err != nil {
		return 0
	}
	return len(tmpCbor)
}
