// Package rpcclient implements construction.RPC against the Solana
// JSON-RPC API, built on a failover-capable Transport so a misbehaving
// endpoint is skipped in favour of the next-ranked one.
package rpcclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/codec"
)

// Client adapts Transport's generic JSON-RPC calls to the handful of
// Solana methods the construction and data-API pipelines need.
type Client struct {
	rpc Transport
}

// New builds a Client with failover across endpoints, sharing the
// backoff health tracker across all calls it makes.
func New(endpoints []string, timeout time.Duration) (*Client, error) {
	httpClient, err := NewHTTPTransport(endpoints, timeout, NewBackoffHealthTracker())
	if err != nil {
		return nil, apierrors.NewRpcClientError(err)
	}
	return &Client{rpc: httpClient}, nil
}

// NewWithClient wraps an already-constructed Transport, letting tests
// substitute NewMockTransport (or any other Transport) without
// touching the construction/server wiring.
func NewWithClient(rpc Transport) *Client {
	return &Client{rpc: rpc}
}

func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	raw, err := c.rpc.Call(ctx, method, params)
	if err != nil {
		return apierrors.NewRpcClientError(err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apierrors.NewRpcClientError(err)
	}
	return nil
}

type blockhashValue struct {
	Blockhash string `json:"blockhash"`
}

type getLatestBlockhashResult struct {
	Value blockhashValue `json:"value"`
}

// RecentBlockhash fetches a blockhash usable as a transaction's
// recent_blockhash within its validity window.
func (c *Client) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	var result getLatestBlockhashResult
	if err := c.call(ctx, "getLatestBlockhash", []interface{}{map[string]interface{}{"commitment": "finalized"}}, &result); err != nil {
		return solana.Hash{}, err
	}
	return codec.DecodeHash(result.Value.Blockhash)
}

type nonceAccountInfo struct {
	Blockhash string `json:"blockhash"`
	Authority string `json:"authority"`
}

type nonceParsedData struct {
	Info nonceAccountInfo `json:"info"`
}

type nonceAccountParsed struct {
	Parsed nonceParsedData `json:"parsed"`
}

type getAccountInfoValue struct {
	Data nonceAccountParsed `json:"data"`
}

type getAccountInfoResult struct {
	Value *getAccountInfoValue `json:"value"`
}

// NonceAccountBlockhash reads a durable nonce account's current stored
// blockhash and its authority, the values construction_metadata needs
// in place of a fetched recent blockhash when with_nonce is set.
func (c *Client) NonceAccountBlockhash(ctx context.Context, nonceAccount solana.PublicKey) (solana.Hash, solana.PublicKey, error) {
	var result getAccountInfoResult
	params := []interface{}{
		nonceAccount.String(),
		map[string]interface{}{"encoding": "jsonParsed", "commitment": "finalized"},
	}
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return solana.Hash{}, solana.PublicKey{}, err
	}
	if result.Value == nil {
		return solana.Hash{}, solana.PublicKey{}, apierrors.NewAccountNotFound()
	}
	info := result.Value.Data.Parsed.Info
	hash, err := codec.DecodeHash(info.Blockhash)
	if err != nil {
		return solana.Hash{}, solana.PublicKey{}, err
	}
	authority, err := codec.DecodeAddress(info.Authority)
	if err != nil {
		return solana.Hash{}, solana.PublicKey{}, err
	}
	return hash, authority, nil
}

// MinimumBalanceForRentExemption returns the lamport balance an account
// of sizeBytes needs to never pay rent, used when a Token__CreateToken
// or Token__CreateAccount operation doesn't supply its own funding
// amount.
func (c *Client) MinimumBalanceForRentExemption(ctx context.Context, sizeBytes uint64) (uint64, error) {
	var result uint64
	if err := c.call(ctx, "getMinimumBalanceForRentExemption", []interface{}{sizeBytes}, &result); err != nil {
		return 0, err
	}
	return result, nil
}

// SendTransaction broadcasts a fully signed wire transaction and
// returns the signature the cluster assigned it.
func (c *Client) SendTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	encoded := base64.StdEncoding.EncodeToString(raw)
	params := []interface{}{
		encoded,
		map[string]interface{}{"encoding": "base64", "preflightCommitment": "finalized"},
	}
	var sigStr string
	if err := c.call(ctx, "sendTransaction", params, &sigStr); err != nil {
		return solana.Signature{}, err
	}
	sigBytes, err := codec.DecodeBase58(sigStr)
	if err != nil {
		return solana.Signature{}, err
	}
	if len(sigBytes) != 64 {
		return solana.Signature{}, apierrors.New(apierrors.KindParseSignatureError, "signature must be 64 bytes", nil)
	}
	var sig solana.Signature
	copy(sig[:], sigBytes)
	return sig, nil
}
