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

package cbor

import (
	"encoding/json"
	"errors"
	"math/big"
	"reflect"

	_cbor "github.com/fxamacker/cbor/v2"
)

const (
	// Useful tag numbers
	CborTagCbor     = 24
	CborTagRational = 30
	CborTagSet      = 258
	CborTagMap      = 259
)

var customTagSet _cbor.TagSet

func init() {
	// Build custom tagset
	customTagSet = _cbor.NewTagSet()
	tagOpts := _cbor.TagOptions{
		EncTag: _cbor.EncTagRequired,
		DecTag: _cbor.DecTagRequired,
	}
	// Wrapped CBOR
	if err := customTagSet.Add(
		tagOpts,
		reflect.TypeOf(WrappedCbor{}),
		CborTagCbor,
	); err != nil {
		panic(err)
	}
	// Rational numbers
	if err := customTagSet.Add(
		tagOpts,
		reflect.TypeOf(Rat{}),
		CborTagRational,
	); err != nil {
		panic(err)
	}
	// Sets
	if err := customTagSet.Add(
		tagOpts,
		reflect.TypeOf(Set{}),
		CborTagSet,
	); err != nil {
		panic(err)
	}
	// Maps
	if err := customTagSet.Add(
		tagOpts,
		reflect.TypeOf(Map{}),
		CborTagMap,
	); err != nil {
		panic(err)
	}
}

// WrappedCbor corresponds to CBOR tag 24 and is used to encode nested CBOR data
type WrappedCbor []byte

func (w WrappedCbor) Bytes() []byte {
	return w[:]
}

// Rat corresponds to CBOR tag 30 and is used to represent a rational number
type Rat struct {
	*big.Rat
}

func (r *Rat) UnmarshalCBOR(cborData []byte) error {
	tmpRat := []int64{}
	if _, err := Decode(cborData, &tmpRat); err != nil {
		return err
	}
	if len(tmpRat) != 2 || tmpRat[1] == 0 {
		return errors.New("invalid rational number")
	}
	r.Rat = big.NewRat(tmpRat[0], tmpRat[1])
	return nil
}

func (r *Rat) MarshalCBOR() ([]byte, error) {
	tmpData := _cbor.Tag{
		Number: CborTagRational,
		Content: []int64{
			r.Num().Int64(),
			r.Denom().Int64(),
		},
	}
	return Encode(&tmpData)
}

func (r *Rat) ToBigRat() *big.Rat {
	return r.Rat
}

// UnmarshalJSON accepts either a JSON number (including decimal notation) or
// / an explicit {"numerator": ..., "denominator": ...} object
func (r *Rat) UnmarshalJSON(data []byte) error {
	tmpRat := new(big.Rat)
	if _, ok := tmpRat.SetString(string(data)); ok {
		r.Rat = tmpRat
		return nil
	}
	var tmpData struct {
		Numerator   int64 `json:"numerator"`
		Denominator int64 `json:"denominator"`
	}
	if err := json.Unmarshal(data, &tmpData); err != nil {
		return err
	}
	if tmpData.Denominator == 0 {
		return errors.New("invalid rational number")
	}
	r.Rat = big.NewRat(tmpData.Numerator, tmpData.Denominator)
	return nil
}

func (r Rat) MarshalJSON() ([]byte, error) {
	if r.Rat == nil {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Numerator   int64 `json:"numerator"`
		Denominator int64 `json:"denominator"`
	}{
		Numerator:   r.Num().Int64(),
		Denominator: r.Denom().Int64(),
	})
}

// Set corresponds to CBOR tag 258 and is used to represent a mathematical finite set
type Set []any

// Map corresponds to CBOR tag 259 and is used to represent a map with key/value operations
type Map map[any]any

// setTagPrefix is the encoded form of CBOR tag 258
var setTagPrefix = []byte{0xd9, 0x01, 0x02}

// SetType is a wrapper for a list of items that may or may not be wrapped
// in the CBOR set tag (258). The original form is preserved on re-encode.
type SetType[T any] struct {
	useTag bool
	items  []T
}

func NewSetType[T any](items []T, useTag bool) SetType[T] {
	return SetType[T]{
		useTag: useTag,
		items:  items,
	}
}

func (s *SetType[T]) UnmarshalCBOR(data []byte) error {
	s.useTag = false
	// Strip the optional set tag
	if len(data) > len(setTagPrefix) &&
		data[0] == setTagPrefix[0] &&
		data[1] == setTagPrefix[1] &&
		data[2] == setTagPrefix[2] {
		data = data[len(setTagPrefix):]
		s.useTag = true
	}
	var tmpItems []T
	if _, err := Decode(data, &tmpItems); err != nil {
		return err
	}
	s.items = tmpItems
	return nil
}

func (s SetType[T]) MarshalCBOR() ([]byte, error) {
	itemsCbor, err := Encode(s.items)
	if err != nil {
		return nil, err
	}
	if !s.useTag {
		return itemsCbor, nil
	}
	ret := make([]byte, 0, len(setTagPrefix)+len(itemsCbor))
	ret = append(ret, setTagPrefix...)
	ret = append(ret, itemsCbor...)
	return ret, nil
}

func (s SetType[T]) Items() []T {
	return s.items
}
