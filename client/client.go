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

// Package client talks to the HAZE ledger HTTP API.
//
// The client submits signed transactions and reads account and pool state.
// It never retries: a rejected submission is returned to the caller as a
// common.RemoteRejectionError carrying the ledger's message verbatim.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blinklabs-io/gohaze/amm"
	"github.com/blinklabs-io/gohaze/ledger"
	"github.com/blinklabs-io/gohaze/ledger/common"
)

const (
	DefaultTimeout = 30 * time.Second

	maxResponseSize = 10 * 1024 * 1024
)

// ErrNotFound is returned when the ledger has no record of the requested object
var ErrNotFound = errors.New("not found")

// Client is a HAZE ledger API client
type Client struct {
	baseURL    string
	networkURL string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// New returns a client configured with the given options
func New(opts ...ClientOptionFunc) (*Client, error) {
	c := &Client{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = c.networkURL
	}
	if c.baseURL == "" {
		return nil, errors.New("no ledger API URL provided")
	}
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("invalid ledger API URL: %w", err)
	}
	c.baseURL = strings.TrimRight(strings.TrimSpace(c.baseURL), "/")
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// BaseURL returns the normalized API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is the envelope wrapping every ledger API response
type Response[T any] struct {
	Success bool    `json:"success"`
	Data    *T      `json:"data"`
	Error   *string `json:"error"`
}

// BlockchainInfo summarizes the ledger's current state
type BlockchainInfo struct {
	CurrentHeight       common.DecimalUint64 `json:"current_height"`
	TotalSupply         common.DecimalUint64 `json:"total_supply"`
	CurrentWave         common.DecimalUint64 `json:"current_wave"`
	StateRoot           string               `json:"state_root"`
	LastFinalizedHeight common.DecimalUint64 `json:"last_finalized_height"`
	LastFinalizedWave   common.DecimalUint64 `json:"last_finalized_wave"`
}

// Account is the ledger's view of an account
type Account struct {
	Address common.Address       `json:"address"`
	Balance common.DecimalUint64 `json:"balance"`
	Nonce   common.DecimalUint64 `json:"nonce"`
	Staked  common.DecimalUint64 `json:"staked"`
}

// TransactionStatus is the ledger's record of a submitted transaction. The
// hash is computed by the ledger and need not equal ledger.ContentHash.
type TransactionStatus struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
}

// Health returns the node health string
func (c *Client) Health(ctx context.Context) (string, error) {
	var ret string
	if err := c.get(ctx, "/health", &ret); err != nil {
		return "", err
	}
	return ret, nil
}

func (c *Client) BlockchainInfo(ctx context.Context) (*BlockchainInfo, error) {
	var ret BlockchainInfo
	if err := c.get(ctx, "/api/v1/blockchain/info", &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Account returns the account for addr, or ErrNotFound for an unused address
func (c *Client) Account(ctx context.Context, addr common.Address) (*Account, error) {
	var ret Account
	if err := c.get(ctx, "/api/v1/accounts/"+addr.String(), &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Balance returns the balance of addr. An unused address has a zero balance.
func (c *Client) Balance(ctx context.Context, addr common.Address) (uint64, error) {
	var ret common.DecimalUint64
	if err := c.get(ctx, "/api/v1/accounts/"+addr.String()+"/balance", &ret); err != nil {
		return 0, err
	}
	return uint64(ret), nil
}

// NextNonce returns the nonce the ledger expects for the next transaction
// from addr. An unused address starts at 0.
func (c *Client) NextNonce(ctx context.Context, addr common.Address) (uint64, error) {
	account, err := c.Account(ctx, addr)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return uint64(account.Nonce), nil
}

// Pools returns a snapshot of every liquidity pool
func (c *Client) Pools(ctx context.Context) ([]amm.Pool, error) {
	var ret []amm.Pool
	if err := c.get(ctx, "/api/v1/economy/pools", &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Pool returns a snapshot of one liquidity pool
func (c *Client) Pool(ctx context.Context, poolId string) (*amm.Pool, error) {
	var ret amm.Pool
	if err := c.get(ctx, "/api/v1/economy/pools/"+url.PathEscape(poolId), &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Transaction returns the status of a transaction by its ledger hash
func (c *Client) Transaction(ctx context.Context, hash common.Hash) (*TransactionStatus, error) {
	var ret TransactionStatus
	if err := c.get(ctx, "/api/v1/transactions/"+hash.String(), &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// SubmitTransaction submits a signed transaction. Unsigned or malformed
// transactions are rejected before any request is made. A ledger refusal is
// returned as common.RemoteRejectionError and is not retried.
func (c *Client) SubmitTransaction(ctx context.Context, tx ledger.Transaction) (*TransactionStatus, error) {
	if tx == nil {
		return nil, common.NewPreconditionError("transaction", "nil transaction")
	}
	if !tx.Header().IsSigned() {
		return nil, common.NewPreconditionError("signature", "transaction is not signed")
	}
	body, err := json.Marshal(ledger.Submission{Transaction: tx})
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/v1/transactions",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.logger.Debug(
		"submitting transaction",
		"component", "client",
		"type", tx.Tag(),
		"nonce", tx.Header().Nonce,
	)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit transaction: %w", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("submit transaction: read response: %w", err)
	}
	var envelope Response[TransactionStatus]
	decodeErr := json.Unmarshal(respBody, &envelope)
	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil || !envelope.Success || envelope.Data == nil {
		rejectErr := common.RemoteRejectionError{
			StatusCode: resp.StatusCode,
			Message:    rejectionMessage(respBody, decodeErr, envelope.Error),
		}
		c.logger.Debug(
			"transaction rejected",
			"component", "client",
			"status", resp.StatusCode,
			"error", rejectErr.Message,
		)
		return nil, rejectErr
	}
	return envelope.Data, nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// get fetches path and decodes the data field of the response envelope into dest
func (c *Client) get(ctx context.Context, path string, dest any) error {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	c.logger.Debug("request", "component", "client", "method", req.Method, "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("GET %s: read response: %w", path, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf(
			"GET %s: unexpected HTTP status %d: %s",
			path,
			resp.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *string         `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return common.MalformedWireValueError{Field: "response", Reason: "invalid envelope", Err: err}
	}
	if !envelope.Success {
		msg := "request failed"
		if envelope.Error != nil {
			msg = *envelope.Error
		}
		return fmt.Errorf("GET %s: %s", path, msg)
	}
	if len(envelope.Data) == 0 || bytes.Equal(envelope.Data, []byte("null")) {
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		var wireErr common.MalformedWireValueError
		if errors.As(err, &wireErr) {
			return err
		}
		return common.MalformedWireValueError{Field: "data", Err: err}
	}
	return nil
}

func rejectionMessage(body []byte, decodeErr error, envelopeErr *string) string {
	if decodeErr == nil && envelopeErr != nil {
		return *envelopeErr
	}
	return strings.TrimSpace(string(body))
}
