package rpcclient

import (
	"context"

	"github.com/yourusername/solmesh/internal/apierrors"
)

// TokenAccountBalance is one SPL token account a GetTokenAccountsByOwner
// call surfaces, flattened from its jsonParsed account data.
type TokenAccountBalance struct {
	Mint     string
	Amount   string
	Decimals uint8
}

type getBalanceResult struct {
	Value uint64 `json:"value"`
}

// GetBalance returns an address's native lamport balance.
func (c *Client) GetBalance(ctx context.Context, address string) (uint64, error) {
	var result getBalanceResult
	params := []interface{}{address, map[string]interface{}{"commitment": "finalized"}}
	if err := c.call(ctx, "getBalance", params, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

type tokenAmountJSON struct {
	Amount   string `json:"amount"`
	Decimals uint8  `json:"decimals"`
}

type tokenAccountInfoJSON struct {
	Mint        string          `json:"mint"`
	TokenAmount tokenAmountJSON `json:"tokenAmount"`
}

type tokenAccountParsedJSON struct {
	Info tokenAccountInfoJSON `json:"info"`
}

type tokenAccountDataJSON struct {
	Parsed tokenAccountParsedJSON `json:"parsed"`
}

type tokenAccountEntryJSON struct {
	Account struct {
		Data tokenAccountDataJSON `json:"data"`
	} `json:"account"`
}

type getTokenAccountsByOwnerResult struct {
	Value []tokenAccountEntryJSON `json:"value"`
}

// GetTokenAccountsByOwner lists every SPL token account an address
// holds under the SPL Token program, the set account/balance folds
// into non-native Amounts alongside the native balance.
func (c *Client) GetTokenAccountsByOwner(ctx context.Context, owner, tokenProgramID string) ([]TokenAccountBalance, error) {
	var result getTokenAccountsByOwnerResult
	params := []interface{}{
		owner,
		map[string]interface{}{"programId": tokenProgramID},
		map[string]interface{}{"encoding": "jsonParsed", "commitment": "finalized"},
	}
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return nil, err
	}
	out := make([]TokenAccountBalance, 0, len(result.Value))
	for _, entry := range result.Value {
		info := entry.Account.Data.Parsed.Info
		out = append(out, TokenAccountBalance{
			Mint:     info.Mint,
			Amount:   info.TokenAmount.Amount,
			Decimals: info.TokenAmount.Decimals,
		})
	}
	return out, nil
}

type getSlotResult = uint64

// GetSlot returns the cluster's current slot, this chain's block index.
func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	var result getSlotResult
	if err := c.call(ctx, "getSlot", []interface{}{map[string]interface{}{"commitment": "finalized"}}, &result); err != nil {
		return 0, err
	}
	return result, nil
}

// GetBlockTime returns a slot's estimated production time as a Unix
// timestamp in seconds.
func (c *Client) GetBlockTime(ctx context.Context, slot uint64) (int64, error) {
	var result int64
	if err := c.call(ctx, "getBlockTime", []interface{}{slot}, &result); err != nil {
		return 0, err
	}
	return result, nil
}

// GetFirstAvailableBlock returns the lowest slot this node still has
// data for, the chain's genesis block index as observed by this node.
func (c *Client) GetFirstAvailableBlock(ctx context.Context) (uint64, error) {
	var result uint64
	if err := c.call(ctx, "getFirstAvailableBlock", []interface{}{}, &result); err != nil {
		return 0, err
	}
	return result, nil
}

// GetGenesisHash returns the cluster's genesis block hash.
func (c *Client) GetGenesisHash(ctx context.Context) (string, error) {
	var result string
	if err := c.call(ctx, "getGenesisHash", []interface{}{}, &result); err != nil {
		return "", err
	}
	return result, nil
}

// ClusterNode is one peer entry from getClusterNodes.
type ClusterNode struct {
	Pubkey string `json:"pubkey"`
}

// GetClusterNodes lists the cluster's known validator peers.
func (c *Client) GetClusterNodes(ctx context.Context) ([]ClusterNode, error) {
	var result []ClusterNode
	if err := c.call(ctx, "getClusterNodes", []interface{}{}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmedBlock is the subset of getBlock's base58-encoded response this
// server's block handler needs.
type ConfirmedBlock struct {
	Blockhash         string             `json:"blockhash"`
	PreviousBlockhash string             `json:"previousBlockhash"`
	ParentSlot        uint64             `json:"parentSlot"`
	BlockTime         *int64             `json:"blockTime"`
	Transactions      []ConfirmedTxEntry `json:"transactions"`
}

// ConfirmedTxEntry is one transaction entry inside a confirmed block or
// the sole result of getTransaction.
type ConfirmedTxEntry struct {
	Transaction EncodedTransaction `json:"transaction"`
}

// EncodedTransaction is the [data, encoding] tuple Solana's JSON-RPC
// returns for a transaction requested with a non-JSON encoding. Only
// base58 is requested here, so Base58() is always the right accessor.
type EncodedTransaction [2]string

// Base58 returns the transaction's wire bytes, base58 encoded — the
// form nativetx.Decode consumes directly.
func (e EncodedTransaction) Base58() string {
	return e[0]
}

// GetConfirmedBlockWithEncoding fetches a full block by slot, base58
// encoded so nativetx.Decode can parse each transaction directly.
func (c *Client) GetConfirmedBlockWithEncoding(ctx context.Context, slot uint64) (*ConfirmedBlock, error) {
	var result *ConfirmedBlock
	params := []interface{}{
		slot,
		map[string]interface{}{
			"encoding":                       "base58",
			"transactionDetails":             "full",
			"rewards":                        false,
			"maxSupportedTransactionVersion": 0,
		},
	}
	if err := c.call(ctx, "getBlock", params, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, apierrors.NewAccountNotFound()
	}
	return result, nil
}

// GetConfirmedTransaction fetches one transaction by its base58
// signature.
func (c *Client) GetConfirmedTransaction(ctx context.Context, signature string) (*ConfirmedTxEntry, error) {
	var result *ConfirmedTxEntry
	params := []interface{}{
		signature,
		map[string]interface{}{"encoding": "base58", "maxSupportedTransactionVersion": 0},
	}
	if err := c.call(ctx, "getTransaction", params, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, apierrors.NewAccountNotFound()
	}
	return result, nil
}

// Call forwards an arbitrary JSON-RPC method/params pair, the
// collaborator behind the /call passthrough's closed method allow-list.
func (c *Client) Call(ctx context.Context, method string, params interface{}) (interface{}, error) {
	var result interface{}
	if err := c.call(ctx, method, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
