// Copyright 2026 Blink Labs Software
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
	"fmt"

	"github.com/blinklabs-io/gohaze/ledger/common"
)

// Variant tags. Each is emitted verbatim at the start of a signing payload and
// used as the object key on the wire.
const (
	TagTransfer            = "Transfer"
	TagStake               = "Stake"
	TagContractCall        = "ContractCall"
	TagDeployContract      = "DeployContract"
	TagMistbornAsset       = "MistbornAsset"
	TagSetAssetPermissions = "SetAssetPermissions"
)

// Metadata keys that carry Merge/Split payload extras on the wire
const (
	MetadataKeyOtherAssetId = "_other_asset_id"
	MetadataKeyComponents   = "_components"
)

// Transaction is the closed set of HAZE transaction variants. Only the types in
// this package implement it.
type Transaction interface {
	// Tag returns the variant tag
	Tag() string
	// Header returns the fields common to all variants
	Header() *TxHeader
	isTransaction()
}

// TxHeader holds the fields shared by every variant
type TxHeader struct {
	From             common.Address
	Fee              uint64
	Nonce            uint64
	ChainId          *uint64
	ValidUntilHeight *uint64
	// Signature is nil until the transaction is signed, and is set exactly once
	Signature *common.Signature
}

func (h *TxHeader) Header() *TxHeader {
	return h
}

// IsSigned returns whether a signature has been attached
func (h *TxHeader) IsSigned() bool {
	return h.Signature != nil
}

// TransferTx moves HAZE tokens between accounts
type TransferTx struct {
	TxHeader
	To     common.Address
	Amount uint64
}

func (*TransferTx) Tag() string    { return TagTransfer }
func (*TransferTx) isTransaction() {}

// StakeTx stakes tokens with a validator
type StakeTx struct {
	TxHeader
	Validator common.Address
	Amount    uint64
}

func (*StakeTx) Tag() string    { return TagStake }
func (*StakeTx) isTransaction() {}

// ContractCallTx invokes a method on a deployed contract
type ContractCallTx struct {
	TxHeader
	Contract common.Address
	Method   string
	Args     []byte
	GasLimit uint64
}

func (*ContractCallTx) Tag() string    { return TagContractCall }
func (*ContractCallTx) isTransaction() {}

// DeployContractTx deploys contract code
type DeployContractTx struct {
	TxHeader
	Code     []byte
	GasLimit uint64
}

func (*DeployContractTx) Tag() string    { return TagDeployContract }
func (*DeployContractTx) isTransaction() {}

// AssetOpTx creates or modifies a Mistborn asset.
//
// OtherAssetId is only meaningful for Merge and Components only for Split. On
// the wire both travel inside the metadata map under reserved keys.
type AssetOpTx struct {
	TxHeader
	Action       common.AssetAction
	AssetId      common.Hash
	Data         common.AssetData
	OtherAssetId *common.Hash
	Components   []string
}

func (*AssetOpTx) Tag() string    { return TagMistbornAsset }
func (*AssetOpTx) isTransaction() {}

// SetPermissionsTx replaces the permission grants on an asset. Only the asset
// owner may submit it.
type SetPermissionsTx struct {
	TxHeader
	AssetId     common.Hash
	Owner       common.Address
	PublicRead  bool
	Permissions []common.AssetPermission
}

func (*SetPermissionsTx) Tag() string    { return TagSetAssetPermissions }
func (*SetPermissionsTx) isTransaction() {}

// NewTransactionFromTag returns an empty transaction of the variant named by tag
func NewTransactionFromTag(tag string) (Transaction, error) {
	switch tag {
	case TagTransfer:
		return &TransferTx{}, nil
	case TagStake:
		return &StakeTx{}, nil
	case TagContractCall:
		return &ContractCallTx{}, nil
	case TagDeployContract:
		return &DeployContractTx{}, nil
	case TagMistbornAsset:
		return &AssetOpTx{}, nil
	case TagSetAssetPermissions:
		return &SetPermissionsTx{}, nil
	}
	// Matches both ErrMalformedWireValue and ErrUnknownVariant
	return nil, common.MalformedWireValueError{
		Field: "transaction",
		Value: tag,
		Err:   ErrUnknownVariant,
	}
}

// Tags returns every variant tag in a stable order
func Tags() []string {
	return []string{
		TagTransfer,
		TagStake,
		TagContractCall,
		TagDeployContract,
		TagMistbornAsset,
		TagSetAssetPermissions,
	}
}

// ErrUnknownVariant is matched by UnknownVariantError
var ErrUnknownVariant = errors.New("unknown transaction variant")

// UnknownVariantError is returned by consumers handed a Transaction they do not
// know how to handle
type UnknownVariantError struct {
	Tx Transaction
}

func (e UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown transaction variant: %T", e.Tx)
}

func (UnknownVariantError) Is(target error) bool {
	return target == ErrUnknownVariant ||
		target == common.ErrPreconditionViolation
}
