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
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txcheck/cbor"
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
)

type TransactionInput struct {
	cbor.StructAsArray
	TxId        Blake2b256
	OutputIndex uint32
}

func NewTransactionInput(hash string, idx int) TransactionInput {
	tmpHash, err := hex.DecodeString(hash)
	if err != nil {
		panic(fmt.Sprintf("failed to decode transaction hash: %s", err))
	}
	if idx < 0 || idx > math.MaxUint32 {
		panic("index out of range")
	}
	return TransactionInput{
		TxId:        Blake2b256(tmpHash),
		OutputIndex: uint32(idx),
	}
}

func (i TransactionInput) Id() Blake2b256 {
	return i.TxId
}

func (i TransactionInput) Index() uint32 {
	return i.OutputIndex
}

func (i TransactionInput) Utxorpc() *utxorpc.TxInput {
	return &utxorpc.TxInput{
		TxHash:      i.TxId.Bytes(),
		OutputIndex: i.OutputIndex,
	}
}

func (i TransactionInput) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		0,
		data.NewByteString(i.TxId.Bytes()),
		data.NewInteger(new(big.Int).SetUint64(uint64(i.OutputIndex))),
	)
}

func (i TransactionInput) String() string {
	return fmt.Sprintf("%s#%d", i.TxId, i.OutputIndex)
}

func (i TransactionInput) MarshalJSON() ([]byte, error) {
	return []byte("\"" + i.String() + "\""), nil
}

const (
	DatumOptionTypeHash = 0
	DatumOptionTypeData = 1
)

type DatumOption struct {
	hash *Blake2b256
	data *Datum
}

func (d *DatumOption) UnmarshalCBOR(data []byte) error {
	datumOptionType, err := cbor.DecodeIdFromList(data)
	if err != nil {
		return err
	}
	switch datumOptionType {
	case DatumOptionTypeHash:
		var tmpDatumHash struct {
			cbor.StructAsArray
			Type int
			Hash Blake2b256
		}
		if _, err := cbor.Decode(data, &tmpDatumHash); err != nil {
			return err
		}
		d.hash = &(tmpDatumHash.Hash)
	case DatumOptionTypeData:
		var tmpDatumData struct {
			cbor.StructAsArray
			Type     int
			DataCbor []byte
		}
		if _, err := cbor.Decode(data, &tmpDatumData); err != nil {
			return err
		}
		var tmpDatum Datum
		if err := tmpDatum.UnmarshalCBOR(tmpDatumData.DataCbor); err != nil {
			return err
		}
		d.data = &tmpDatum
	default:
		return fmt.Errorf("unsupported datum option type: %d", datumOptionType)
	}
	return nil
}

func (d *DatumOption) MarshalCBOR() ([]byte, error) {
	var tmpObj []any
	if d.hash != nil {
		tmpObj = []any{DatumOptionTypeHash, d.hash}
	} else if d.data != nil {
		tmpObj = []any{
			DatumOptionTypeData,
			cbor.Tag{Number: cbor.CborTagCbor, Content: d.data.Cbor()},
		}
	} else {
		return nil, errors.New("unknown datum option type")
	}
	return cbor.Encode(&tmpObj)
}

func (d *DatumOption) Hash() *Blake2b256 {
	return d.hash
}

func (d *DatumOption) Datum() *Datum {
	return d.data
}

type TransactionOutput struct {
	cbor.DecodeStoreCbor
	OutputAddress Address      `cbor:"0,keyasint,omitempty"`
	OutputAmount  Value        `cbor:"1,keyasint,omitempty"`
	DatumOption   *DatumOption `cbor:"2,keyasint,omitempty"`
	TxScriptRef   *ScriptRef   `cbor:"3,keyasint,omitempty"`
	legacyOutput  bool
}

func (o *TransactionOutput) UnmarshalCBOR(cborData []byte) error {
	// Save original CBOR
	o.SetCbor(cborData)
	// Try to parse as legacy (array form) output first
	if o.unmarshalLegacy(cborData) == nil {
		o.legacyOutput = true
		return nil
	}
	return cbor.DecodeGeneric(cborData, o)
}

func (o *TransactionOutput) unmarshalLegacy(cborData []byte) error {
	listLen, err := cbor.ListLength(cborData)
	if err != nil {
		return err
	}
	switch listLen {
	case 2:
		var tmpOutput struct {
			cbor.StructAsArray
			Address Address
			Amount  Value
		}
		if _, err := cbor.Decode(cborData, &tmpOutput); err != nil {
			return err
		}
		o.OutputAddress = tmpOutput.Address
		o.OutputAmount = tmpOutput.Amount
	case 3:
		var tmpOutput struct {
			cbor.StructAsArray
			Address   Address
			Amount    Value
			DatumHash Blake2b256
		}
		if _, err := cbor.Decode(cborData, &tmpOutput); err != nil {
			return err
		}
		o.OutputAddress = tmpOutput.Address
		o.OutputAmount = tmpOutput.Amount
		o.DatumOption = &DatumOption{hash: &tmpOutput.DatumHash}
	default:
		return fmt.Errorf("unexpected output list length: %d", listLen)
	}
	return nil
}

func (o *TransactionOutput) MarshalCBOR() ([]byte, error) {
	if o.Cbor() != nil {
		return o.Cbor(), nil
	}
	if o.legacyOutput {
		tmpObj := []any{o.OutputAddress, o.OutputAmount}
		if o.DatumOption != nil && o.DatumOption.hash != nil {
			tmpObj = append(tmpObj, o.DatumOption.hash)
		}
		return cbor.Encode(tmpObj)
	}
	return cbor.EncodeGeneric(o)
}

func (o TransactionOutput) Address() Address {
	return o.OutputAddress
}

func (o TransactionOutput) Amount() Value {
	return o.OutputAmount
}

func (o TransactionOutput) Assets() *MultiAsset {
	if o.OutputAmount.Assets.IsEmpty() {
		return nil
	}
	return &o.OutputAmount.Assets
}

func (o TransactionOutput) DatumHash() *Blake2b256 {
	if o.DatumOption != nil {
		return o.DatumOption.hash
	}
	return nil
}

func (o TransactionOutput) Datum() *Datum {
	if o.DatumOption != nil {
		return o.DatumOption.data
	}
	return nil
}

func (o TransactionOutput) ScriptRef() *ScriptRef {
	return o.TxScriptRef
}

func (o TransactionOutput) Utxorpc() *utxorpc.TxOutput {
	var assets []*utxorpc.Multiasset
	if tmpAssets := o.Assets(); tmpAssets != nil {
		for _, policyId := range tmpAssets.Policies() {
			ma := &utxorpc.Multiasset{
				PolicyId: policyId.Bytes(),
			}
			for _, assetName := range tmpAssets.Assets(policyId) {
				amount := tmpAssets.Asset(policyId, assetName)
				asset := &utxorpc.Asset{
					Name: assetName,
					// #nosec G115
					OutputCoin: uint64(amount),
				}
				ma.Assets = append(ma.Assets, asset)
			}
			assets = append(assets, ma)
		}
	}
	ret := &utxorpc.TxOutput{
		// #nosec G115
		Coin:   uint64(o.OutputAmount.Coin),
		Assets: assets,
	}
	if addrBytes, err := o.OutputAddress.Bytes(); err == nil {
		ret.Address = addrBytes
	}
	if o.DatumHash() != nil {
		ret.Datum = &utxorpc.Datum{
			Hash: o.DatumHash().Bytes(),
		}
	}
	return ret
}

// Utxo is a transaction output paired with the input that identifies it
type Utxo struct {
	Id     TransactionInput
	Output TransactionOutput
}

type Withdrawals map[*Address]uint64

type TransactionBody struct {
	cbor.DecodeStoreCbor
	TxInputs               cbor.SetType[TransactionInput]   `cbor:"0,keyasint,omitempty"`
	TxOutputs              []TransactionOutput              `cbor:"1,keyasint,omitempty"`
	TxFee                  int64                            `cbor:"2,keyasint,omitempty"`
	Ttl                    *uint64                          `cbor:"3,keyasint,omitempty"`
	TxCertificates         cbor.SetType[CertificateWrapper] `cbor:"4,keyasint,omitempty"`
	TxWithdrawals          Withdrawals                      `cbor:"5,keyasint,omitempty"`
	AuxDataHash            *Blake2b256                      `cbor:"7,keyasint,omitempty"`
	ValidityIntervalStart  *uint64                          `cbor:"8,keyasint,omitempty"`
	TxMint                 *MultiAsset                      `cbor:"9,keyasint,omitempty"`
	TxScriptDataHash       *Blake2b256                      `cbor:"11,keyasint,omitempty"`
	TxCollateral           cbor.SetType[TransactionInput]   `cbor:"13,keyasint,omitempty"`
	TxRequiredSigners      cbor.SetType[Blake2b224]         `cbor:"14,keyasint,omitempty"`
	NetworkId              *uint8                           `cbor:"15,keyasint,omitempty"`
	TxCollateralReturn     *TransactionOutput               `cbor:"16,keyasint,omitempty"`
	TxTotalCollateral      int64                            `cbor:"17,keyasint,omitempty"`
	TxReferenceInputs      cbor.SetType[TransactionInput]   `cbor:"18,keyasint,omitempty"`
	TxVotingProcedures     VotingProcedures                 `cbor:"19,keyasint,omitempty"`
	TxProposalProcedures   cbor.SetType[ProposalProcedure]  `cbor:"20,keyasint,omitempty"`
	TxCurrentTreasuryValue *int64                           `cbor:"21,keyasint,omitempty"`
	TxDonation             uint64                           `cbor:"22,keyasint,omitempty"`
}

func (b *TransactionBody) UnmarshalCBOR(cborData []byte) error {
	return b.UnmarshalCbor(cborData, b)
}

// Hash returns the transaction hash, the Blake2b-256 hash of the transaction
// body bytes
func (b *TransactionBody) Hash() Blake2b256 {
	return Blake2b256Hash(b.Cbor())
}

func (b *TransactionBody) Inputs() []TransactionInput {
	return b.TxInputs.Items()
}

func (b *TransactionBody) Outputs() []TransactionOutput {
	return b.TxOutputs
}

func (b *TransactionBody) Fee() int64 {
	return b.TxFee
}

func (b *TransactionBody) Certificates() []CertificateWrapper {
	return b.TxCertificates.Items()
}

func (b *TransactionBody) Withdrawals() Withdrawals {
	return b.TxWithdrawals
}

func (b *TransactionBody) Mint() *MultiAsset {
	return b.TxMint
}

func (b *TransactionBody) ScriptDataHash() *Blake2b256 {
	return b.TxScriptDataHash
}

func (b *TransactionBody) Collateral() []TransactionInput {
	return b.TxCollateral.Items()
}

func (b *TransactionBody) RequiredSigners() []Blake2b224 {
	return b.TxRequiredSigners.Items()
}

func (b *TransactionBody) CollateralReturn() *TransactionOutput {
	return b.TxCollateralReturn
}

func (b *TransactionBody) TotalCollateral() int64 {
	return b.TxTotalCollateral
}

func (b *TransactionBody) ReferenceInputs() []TransactionInput {
	return b.TxReferenceInputs.Items()
}

func (b *TransactionBody) VotingProcedures() VotingProcedures {
	return b.TxVotingProcedures
}

func (b *TransactionBody) ProposalProcedures() []ProposalProcedure {
	return b.TxProposalProcedures.Items()
}

// CurrentTreasuryValue returns the declared treasury value, or nil when the
// transaction does not declare one. A declared zero is preserved
func (b *TransactionBody) CurrentTreasuryValue() *int64 {
	return b.TxCurrentTreasuryValue
}

func (b *TransactionBody) Donation() uint64 {
	return b.TxDonation
}

type TransactionWitnessSet struct {
	cbor.DecodeStoreCbor
	VkeyWitnesses      cbor.SetType[VkeyWitness]      `cbor:"0,keyasint,omitempty"`
	WsNativeScripts    cbor.SetType[NativeScript]     `cbor:"1,keyasint,omitempty"`
	BootstrapWitnesses cbor.SetType[BootstrapWitness] `cbor:"2,keyasint,omitempty"`
	WsPlutusV1Scripts  cbor.SetType[PlutusV1Script]   `cbor:"3,keyasint,omitempty"`
	WsPlutusData       cbor.SetType[Datum]            `cbor:"4,keyasint,omitempty"`
	WsRedeemers        Redeemers                      `cbor:"5,keyasint,omitempty"`
	WsPlutusV2Scripts  cbor.SetType[PlutusV2Script]   `cbor:"6,keyasint,omitempty"`
	WsPlutusV3Scripts  cbor.SetType[PlutusV3Script]   `cbor:"7,keyasint,omitempty"`
}

func (w *TransactionWitnessSet) UnmarshalCBOR(cborData []byte) error {
	return w.UnmarshalCbor(cborData, w)
}

func (w *TransactionWitnessSet) Vkey() []VkeyWitness {
	return w.VkeyWitnesses.Items()
}

func (w *TransactionWitnessSet) NativeScripts() []NativeScript {
	return w.WsNativeScripts.Items()
}

func (w *TransactionWitnessSet) Bootstrap() []BootstrapWitness {
	return w.BootstrapWitnesses.Items()
}

func (w *TransactionWitnessSet) PlutusV1Scripts() []PlutusV1Script {
	return w.WsPlutusV1Scripts.Items()
}

func (w *TransactionWitnessSet) PlutusData() []Datum {
	return w.WsPlutusData.Items()
}

func (w *TransactionWitnessSet) Redeemers() *Redeemers {
	return &w.WsRedeemers
}

func (w *TransactionWitnessSet) PlutusV2Scripts() []PlutusV2Script {
	return w.WsPlutusV2Scripts.Items()
}

func (w *TransactionWitnessSet) PlutusV3Scripts() []PlutusV3Script {
	return w.WsPlutusV3Scripts.Items()
}

// AuxiliaryData is the metadata attached to a transaction. The content is
// kept as raw CBOR; only the hash is needed for validation
type AuxiliaryData struct {
	cbor.DecodeStoreCbor
	RawData cbor.RawMessage
}

func (a *AuxiliaryData) UnmarshalCBOR(cborData []byte) error {
	a.SetCbor(cborData)
	a.RawData = cbor.RawMessage(a.Cbor())
	return nil
}

func (a *AuxiliaryData) MarshalCBOR() ([]byte, error) {
	return a.Cbor(), nil
}

func (a *AuxiliaryData) Hash() Blake2b256 {
	return Blake2b256Hash(a.Cbor())
}

type Transaction struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	Body       TransactionBody
	WitnessSet TransactionWitnessSet
	TxIsValid  bool
	TxMetadata *AuxiliaryData
}

// NewTransactionFromCbor decodes a full transaction from its CBOR bytes
func NewTransactionFromCbor(cborData []byte) (*Transaction, error) {
	var tx Transaction
	if _, err := cbor.Decode(cborData, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return &tx, nil
}

func (t *Transaction) UnmarshalCBOR(cborData []byte) error {
	return t.UnmarshalCbor(cborData, t)
}

func (t *Transaction) Hash() Blake2b256 {
	return t.Body.Hash()
}

func (t *Transaction) IsValid() bool {
	return t.TxIsValid
}

func (t *Transaction) Metadata() *AuxiliaryData {
	return t.TxMetadata
}

func (t *Transaction) Witnesses() *TransactionWitnessSet {
	return &t.WitnessSet
}

// Consumed returns the set of inputs consumed when the transaction is
// applied: the regular inputs on success, the collateral inputs on phase-2
// failure
func (t *Transaction) Consumed() []TransactionInput {
	if t.IsValid() {
		return t.Body.Inputs()
	}
	return t.Body.Collateral()
}

func (t *Transaction) Utxorpc() *utxorpc.Tx {
	txHash := t.Hash()
	tmpInputs := make([]*utxorpc.TxInput, 0, len(t.Body.Inputs()))
	for _, input := range t.Body.Inputs() {
		tmpInputs = append(tmpInputs, input.Utxorpc())
	}
	tmpOutputs := make([]*utxorpc.TxOutput, 0, len(t.Body.Outputs()))
	for _, output := range t.Body.Outputs() {
		tmpOutputs = append(tmpOutputs, output.Utxorpc())
	}
	return &utxorpc.Tx{
		Hash:    txHash.Bytes(),
		Inputs:  tmpInputs,
		Outputs: tmpOutputs,
		// #nosec G115
		Fee:        uint64(t.Body.Fee()),
		Successful: t.IsValid(),
	}
}
