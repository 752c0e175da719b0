package server

import (
	"context"
	"testing"

	"github.com/coinbase/rosetta-sdk-go/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallRejectsMethodOutsideAllowList(t *testing.T) {
	s := newTestService(&fakeRPC{})
	_, terr := s.Call(context.Background(), &types.CallRequest{
		NetworkIdentifier: &types.NetworkIdentifier{Blockchain: "Solana", Network: "devnet"},
		Method:            "deletePermissionedAccount",
	})
	require.NotNil(t, terr)
	assert.Equal(t, "bad request", terr.Message)
}

func TestCallForwardsAllowedMethodToRPC(t *testing.T) {
	rpc := &fakeRPC{callResult: map[string]interface{}{"value": float64(123)}}
	s := newTestService(rpc)
	resp, terr := s.Call(context.Background(), &types.CallRequest{
		NetworkIdentifier: &types.NetworkIdentifier{Blockchain: "Solana", Network: "devnet"},
		Method:            "getSlot",
		Parameters:        map[string]interface{}{"commitment": "finalized"},
	})
	require.Nil(t, terr)
	assert.Equal(t, "getSlot", rpc.lastCallMethod)
	assert.Equal(t, float64(123), resp.Result["value"])
}

func TestAllowedCallMethodsCoversEverySpecMethod(t *testing.T) {
	for _, m := range []string{
		"getBalance", "getTokenAccountsByOwner", "getLatestBlockhash",
		"getAccountInfo", "getMinimumBalanceForRentExemption", "getBlock",
		"getTransaction", "sendTransaction", "getSlot", "getBlockTime",
		"getFirstAvailableBlock", "getGenesisHash", "getClusterNodes",
	} {
		assert.True(t, isAllowedCallMethod(m), "expected %s to be allowed", m)
	}
	assert.False(t, isAllowedCallMethod("requestAirdrop"))
}
