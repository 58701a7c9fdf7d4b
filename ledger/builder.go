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
	"bytes"
	"encoding/json"
	"slices"

	"github.com/blinklabs-io/gohaze/ledger/common"
)

// Builder assembles, signs and encodes transactions for one account. Slices and
// maps handed to it are copied, so callers may reuse their buffers.
type Builder struct {
	signer           Signer
	chainId          *uint64
	validUntilHeight *uint64
}

type BuilderOptionFunc func(*Builder)

// NewBuilder returns a Builder that signs with signer
func NewBuilder(signer Signer, opts ...BuilderOptionFunc) *Builder {
	b := &Builder{
		signer: signer,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithChainId binds every built transaction to a chain
func WithChainId(chainId uint64) BuilderOptionFunc {
	return func(b *Builder) {
		b.chainId = &chainId
	}
}

// WithValidUntilHeight sets the last block height at which built transactions
// are accepted
func WithValidUntilHeight(height uint64) BuilderOptionFunc {
	return func(b *Builder) {
		b.validUntilHeight = &height
	}
}

// Address returns the from address of built transactions
func (b *Builder) Address() common.Address {
	return b.signer.Address()
}

func (b *Builder) header(fee uint64, nonce uint64) TxHeader {
	h := TxHeader{
		From:  b.signer.Address(),
		Fee:   fee,
		Nonce: nonce,
	}
	if b.chainId != nil {
		tmp := *b.chainId
		h.ChainId = &tmp
	}
	if b.validUntilHeight != nil {
		tmp := *b.validUntilHeight
		h.ValidUntilHeight = &tmp
	}
	return h
}

// Sign signs tx and returns it
func (b *Builder) Sign(tx Transaction) (Transaction, error) {
	if err := SignTransaction(tx, b.signer); err != nil {
		return nil, err
	}
	return tx, nil
}

// Wire returns the wire form of tx, signing it first if it is not signed yet
func (b *Builder) Wire(tx Transaction) ([]byte, error) {
	if tx != nil && !tx.Header().IsSigned() {
		if err := SignTransaction(tx, b.signer); err != nil {
			return nil, err
		}
	}
	return MarshalTransaction(tx)
}

// WireSubmission is like Wire but wraps the result in the body accepted by
// the ledger's transaction endpoint
func (b *Builder) WireSubmission(tx Transaction) ([]byte, error) {
	txData, err := b.Wire(tx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Transaction json.RawMessage `json:"transaction"`
	}{Transaction: txData})
}

func (b *Builder) Transfer(to common.Address, amount uint64, fee uint64, nonce uint64) (*TransferTx, error) {
	tx := &TransferTx{
		TxHeader: b.header(fee, nonce),
		To:       to,
		Amount:   amount,
	}
	if err := SignTransaction(tx, b.signer); err != nil {
		return nil, err
	}
	return tx, nil
}

func (b *Builder) Stake(validator common.Address, amount uint64, fee uint64, nonce uint64) (*StakeTx, error) {
	tx := &StakeTx{
		TxHeader:  b.header(fee, nonce),
		Validator: validator,
		Amount:    amount,
	}
	if err := SignTransaction(tx, b.signer); err != nil {
		return nil, err
	}
	return tx, nil
}

func (b *Builder) ContractCall(
	contract common.Address,
	method string,
	args []byte,
	gasLimit uint64,
	fee uint64,
	nonce uint64,
) (*ContractCallTx, error) {
	tx := &ContractCallTx{
		TxHeader: b.header(fee, nonce),
		Contract: contract,
		Method:   method,
		Args:     bytes.Clone(args),
		GasLimit: gasLimit,
	}
	if err := SignTransaction(tx, b.signer); err != nil {
		return nil, err
	}
	return tx, nil
}

func (b *Builder) DeployContract(code []byte, gasLimit uint64, fee uint64, nonce uint64) (*DeployContractTx, error) {
	tx := &DeployContractTx{
		TxHeader: b.header(fee, nonce),
		Code:     bytes.Clone(code),
		GasLimit: gasLimit,
	}
	if err := SignTransaction(tx, b.signer); err != nil {
		return nil, err
	}
	return tx, nil
}

// AssetOp builds a MistbornAsset transaction for any action. The typed helpers
// below cover the common cases.
func (b *Builder) AssetOp(tx AssetOpTx, fee uint64, nonce uint64) (*AssetOpTx, error) {
	tx.TxHeader = b.header(fee, nonce)
	tx.Data = tx.Data.Clone()
	if tx.OtherAssetId != nil {
		tmp := *tx.OtherAssetId
		tx.OtherAssetId = &tmp
	}
	tx.Components = slices.Clone(tx.Components)
	if err := SignTransaction(&tx, b.signer); err != nil {
		return nil, err
	}
	return &tx, nil
}

// CreateAsset builds a Create action. The asset is owned by the builder's
// account unless data names another owner.
func (b *Builder) CreateAsset(assetId common.Hash, data common.AssetData, fee uint64, nonce uint64) (*AssetOpTx, error) {
	if data.Owner.IsZero() {
		data.Owner = b.signer.Address()
	}
	return b.AssetOp(
		AssetOpTx{
			Action:  common.AssetActionCreate,
			AssetId: assetId,
			Data:    data,
		},
		fee,
		nonce,
	)
}

func (b *Builder) UpdateAsset(assetId common.Hash, data common.AssetData, fee uint64, nonce uint64) (*AssetOpTx, error) {
	return b.AssetOp(
		AssetOpTx{
			Action:  common.AssetActionUpdate,
			AssetId: assetId,
			Data:    data,
		},
		fee,
		nonce,
	)
}

// CondenseAsset moves an asset to a denser tier
func (b *Builder) CondenseAsset(assetId common.Hash, data common.AssetData, fee uint64, nonce uint64) (*AssetOpTx, error) {
	return b.AssetOp(
		AssetOpTx{
			Action:  common.AssetActionCondense,
			AssetId: assetId,
			Data:    data,
		},
		fee,
		nonce,
	)
}

// EvaporateAsset moves an asset to a lighter tier
func (b *Builder) EvaporateAsset(assetId common.Hash, data common.AssetData, fee uint64, nonce uint64) (*AssetOpTx, error) {
	return b.AssetOp(
		AssetOpTx{
			Action:  common.AssetActionEvaporate,
			AssetId: assetId,
			Data:    data,
		},
		fee,
		nonce,
	)
}

// MergeAssets merges otherAssetId into assetId
func (b *Builder) MergeAssets(
	assetId common.Hash,
	otherAssetId common.Hash,
	data common.AssetData,
	fee uint64,
	nonce uint64,
) (*AssetOpTx, error) {
	return b.AssetOp(
		AssetOpTx{
			Action:       common.AssetActionMerge,
			AssetId:      assetId,
			Data:         data,
			OtherAssetId: &otherAssetId,
		},
		fee,
		nonce,
	)
}

// SplitAsset splits assetId into the named components
func (b *Builder) SplitAsset(
	assetId common.Hash,
	components []string,
	data common.AssetData,
	fee uint64,
	nonce uint64,
) (*AssetOpTx, error) {
	return b.AssetOp(
		AssetOpTx{
			Action:     common.AssetActionSplit,
			AssetId:    assetId,
			Data:       data,
			Components: components,
		},
		fee,
		nonce,
	)
}

func (b *Builder) SetPermissions(
	assetId common.Hash,
	publicRead bool,
	permissions []common.AssetPermission,
	fee uint64,
	nonce uint64,
) (*SetPermissionsTx, error) {
	tx := &SetPermissionsTx{
		TxHeader:    b.header(fee, nonce),
		AssetId:     assetId,
		Owner:       b.signer.Address(),
		PublicRead:  publicRead,
		Permissions: clonePermissions(permissions),
	}
	if err := SignTransaction(tx, b.signer); err != nil {
		return nil, err
	}
	return tx, nil
}

func clonePermissions(perms []common.AssetPermission) []common.AssetPermission {
	if perms == nil {
		return nil
	}
	ret := make([]common.AssetPermission, len(perms))
	for i, p := range perms {
		ret[i] = p.Clone()
	}
	return ret
}
