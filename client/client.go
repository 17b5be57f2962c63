// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client provides an HTTP client for the Ember node API. It offers
// methods to read ledger state, move tokens and stake into pools through
// HTTP requests.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/emberfi/ember/api/accounts"
	"github.com/emberfi/ember/api/logs"
	"github.com/emberfi/ember/api/pools"
	"github.com/emberfi/ember/ember"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNot200Status = errors.New("not 200 status code")
)

// Client represents the HTTP client for interacting with an Ember node.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

// Token retrieves the token ledger overview.
func (c *Client) Token() (*accounts.TokenInfo, error) {
	body, err := c.httpGET(c.url + "/accounts/token")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token info - %w", err)
	}
	var info accounts.TokenInfo
	if err = json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("unable to unmarshal token info - %w", err)
	}
	return &info, nil
}

// Account retrieves the balance of the given address.
func (c *Client) Account(addr ember.Address) (*accounts.Account, error) {
	body, err := c.httpGET(c.url + "/accounts/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve account - %w", err)
	}
	var acc accounts.Account
	if err = json.Unmarshal(body, &acc); err != nil {
		return nil, fmt.Errorf("unable to unmarshal account - %w", err)
	}
	return &acc, nil
}

// Transfer moves amount from caller to the recipient.
func (c *Client) Transfer(caller, to ember.Address, amount *big.Int) error {
	_, err := c.httpPOST(c.url+"/accounts/transfer", &accounts.TransferRequest{
		Caller: caller,
		To:     to,
		Amount: (*math.HexOrDecimal256)(amount),
	})
	if err != nil {
		return fmt.Errorf("unable to transfer - %w", err)
	}
	return nil
}

// Approve grants spender an allowance on behalf of caller.
func (c *Client) Approve(caller, spender ember.Address, amount *big.Int) error {
	_, err := c.httpPOST(c.url+"/accounts/approve", &accounts.ApproveRequest{
		Caller:  caller,
		Spender: spender,
		Amount:  (*math.HexOrDecimal256)(amount),
	})
	if err != nil {
		return fmt.Errorf("unable to approve - %w", err)
	}
	return nil
}

// Pools retrieves all staking pools.
func (c *Client) Pools() ([]*pools.Pool, error) {
	body, err := c.httpGET(c.url + "/pools")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve pools - %w", err)
	}
	var list []*pools.Pool
	if err = json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("unable to unmarshal pools - %w", err)
	}
	return list, nil
}

// PoolUser retrieves the staking state of addr within pool pid.
func (c *Client) PoolUser(pid uint64, addr ember.Address) (*pools.User, error) {
	body, err := c.httpGET(fmt.Sprintf("%s/pools/%d/users/%s", c.url, pid, addr))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve pool user - %w", err)
	}
	var user pools.User
	if err = json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("unable to unmarshal pool user - %w", err)
	}
	return &user, nil
}

// Deposit stakes amount into pool pid for caller.
func (c *Client) Deposit(caller ember.Address, pid uint64, amount *big.Int) error {
	_, err := c.httpPOST(fmt.Sprintf("%s/pools/%d/deposit", c.url, pid), &pools.StakeRequest{
		Caller: caller,
		Amount: (*math.HexOrDecimal256)(amount),
	})
	if err != nil {
		return fmt.Errorf("unable to deposit - %w", err)
	}
	return nil
}

// Withdraw unstakes amount from pool pid for caller.
func (c *Client) Withdraw(caller ember.Address, pid uint64, amount *big.Int) error {
	_, err := c.httpPOST(fmt.Sprintf("%s/pools/%d/withdraw", c.url, pid), &pools.StakeRequest{
		Caller: caller,
		Amount: (*math.HexOrDecimal256)(amount),
	})
	if err != nil {
		return fmt.Errorf("unable to withdraw - %w", err)
	}
	return nil
}

// UpdateEmissionRate asks the node to recompute the reward rate.
func (c *Client) UpdateEmissionRate() (*big.Int, error) {
	body, err := c.httpPOST(c.url+"/pools/emission", struct{}{})
	if err != nil {
		return nil, fmt.Errorf("unable to update emission rate - %w", err)
	}
	var res map[string]*math.HexOrDecimal256
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unable to unmarshal emission rate - %w", err)
	}
	return (*big.Int)(res["rewardPerBlock"]), nil
}

// FilterEvents queries the recorded ledger events.
func (c *Client) FilterEvents(filter *logs.FilterRequest) ([]*logs.Event, error) {
	body, err := c.httpPOST(c.url+"/logs/events", filter)
	if err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}
	var events []*logs.Event
	if err = json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("unable to unmarshal events - %w", err)
	}
	return events, nil
}

func (c *Client) httpGET(url string) ([]byte, error) {
	body, status, err := c.rawHTTPRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return validateResponse(body, status)
}

func (c *Client) httpPOST(url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}
	body, status, err := c.rawHTTPRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return validateResponse(body, status)
}

func (c *Client) rawHTTPRequest(method, url string, payload io.Reader) ([]byte, int, error) {
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to create request - %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.c.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to perform request - %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, fmt.Errorf("unable to read response - %w", err)
	}
	return body, res.StatusCode, nil
}

func validateResponse(body []byte, status int) ([]byte, error) {
	switch {
	case status == http.StatusNotFound:
		return nil, ErrNotFound
	case status != http.StatusOK:
		return nil, fmt.Errorf("%w: %d %s", ErrNot200Status, status, bytes.TrimSpace(body))
	}
	return body, nil
}
