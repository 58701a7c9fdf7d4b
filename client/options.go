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

package client

import (
	"log/slog"
	"net/http"
	"time"

	haze "github.com/blinklabs-io/gohaze"
)

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithBaseURL specifies the base URL of the ledger API, such as http://127.0.0.1:8080
func WithBaseURL(baseURL string) ClientOptionFunc {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithNetwork uses the default API URL of a predefined network. An explicit
// WithBaseURL takes precedence regardless of option order.
func WithNetwork(network haze.Network) ClientOptionFunc {
	return func(c *Client) {
		c.networkURL = network.ApiUrl
	}
}

// WithHTTPClient specifies the HTTP client to use. If none is provided, a new one is created
func WithHTTPClient(httpClient *http.Client) ClientOptionFunc {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout specifies a per-request timeout. A zero value disables it
func WithTimeout(timeout time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}
