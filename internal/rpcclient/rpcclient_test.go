package rpcclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBlockhash = "EETubP5AKHgjPAhzPAFcb8BAY1hMH639CWCFTqi3hq1k"

func TestRecentBlockhashDecodesValue(t *testing.T) {
	mock := NewMockTransport()
	mock.SetResponse("getLatestBlockhash", map[string]interface{}{
		"context": map[string]interface{}{"slot": 1},
		"value":   map[string]interface{}{"blockhash": testBlockhash, "lastValidBlockHeight": 100},
	})
	c := NewWithClient(mock)

	hash, err := c.RecentBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testBlockhash, hash.String())
}

func TestNonceAccountBlockhashParsesAuthorityAndBlockhash(t *testing.T) {
	mock := NewMockTransport()
	const authority = "11111111111111111111111111111111"
	mock.SetResponse("getAccountInfo", map[string]interface{}{
		"context": map[string]interface{}{"slot": 1},
		"value": map[string]interface{}{
			"data": map[string]interface{}{
				"parsed": map[string]interface{}{
					"info": map[string]interface{}{
						"blockhash": testBlockhash,
						"authority": authority,
					},
				},
			},
		},
	})
	c := NewWithClient(mock)

	hash, auth, err := c.NonceAccountBlockhash(context.Background(), [32]byte{})
	require.NoError(t, err)
	assert.Equal(t, testBlockhash, hash.String())
	assert.Equal(t, authority, auth.String())
}

func TestMinimumBalanceForRentExemptionReturnsLamports(t *testing.T) {
	mock := NewMockTransport()
	mock.SetResponse("getMinimumBalanceForRentExemption", 2039280)
	c := NewWithClient(mock)

	lamports, err := c.MinimumBalanceForRentExemption(context.Background(), 165)
	require.NoError(t, err)
	assert.Equal(t, uint64(2039280), lamports)
}

func TestNonceAccountBlockhashMissingAccountIsNotFound(t *testing.T) {
	mock := NewMockTransport()
	mock.SetResponse("getAccountInfo", map[string]interface{}{
		"context": map[string]interface{}{"slot": 1},
		"value":   nil,
	})
	c := NewWithClient(mock)

	_, _, err := c.NonceAccountBlockhash(context.Background(), [32]byte{})
	assert.Error(t, err)
}
