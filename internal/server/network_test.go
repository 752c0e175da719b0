package server

import (
	"context"
	"testing"

	"github.com/coinbase/rosetta-sdk-go/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/solmesh/internal/rpcclient"
)

func newTestService(rpc *fakeRPC) *Service {
	return &Service{Blockchain: "Solana", Network: "devnet", RPC: rpc}
}

func TestNetworkListReturnsConfiguredNetwork(t *testing.T) {
	s := newTestService(&fakeRPC{})
	resp, terr := s.NetworkList(context.Background(), &types.MetadataRequest{})
	require.Nil(t, terr)
	require.Len(t, resp.NetworkIdentifiers, 1)
	assert.Equal(t, "Solana", resp.NetworkIdentifiers[0].Blockchain)
	assert.Equal(t, "devnet", resp.NetworkIdentifiers[0].Network)
}

func TestNetworkOptionsRejectsWrongNetwork(t *testing.T) {
	s := newTestService(&fakeRPC{})
	_, terr := s.NetworkOptions(context.Background(), &types.NetworkRequest{
		NetworkIdentifier: &types.NetworkIdentifier{Blockchain: "Solana", Network: "mainnet"},
	})
	require.NotNil(t, terr)
	assert.Equal(t, "bad network", terr.Message)
}

func TestNetworkOptionsAdvertisesCallMethodsAndOperationTypes(t *testing.T) {
	s := newTestService(&fakeRPC{})
	resp, terr := s.NetworkOptions(context.Background(), &types.NetworkRequest{
		NetworkIdentifier: &types.NetworkIdentifier{Blockchain: "Solana", Network: "devnet"},
	})
	require.Nil(t, terr)
	assert.ElementsMatch(t, AllowedCallMethods, resp.Allow.CallMethods)
	assert.Contains(t, resp.Allow.OperationTypes, "System__Transfer")
	assert.Contains(t, resp.Allow.OperationTypes, "Token__TransferChecked")
}

func TestNetworkStatusReportsTipAndGenesis(t *testing.T) {
	rpc := &fakeRPC{
		slot:         42,
		blockTime:    1000,
		firstBlock:   1,
		genesisHash:  "genesis-hash",
		clusterNodes: []rpcclient.ClusterNode{{Pubkey: "validator-1"}},
	}
	s := newTestService(rpc)
	resp, terr := s.NetworkStatus(context.Background(), &types.NetworkRequest{
		NetworkIdentifier: &types.NetworkIdentifier{Blockchain: "Solana", Network: "devnet"},
	})
	require.Nil(t, terr)
	assert.Equal(t, int64(42), resp.CurrentBlockIdentifier.Index)
	assert.Equal(t, int64(1), resp.GenesisBlockIdentifier.Index)
	assert.Equal(t, "genesis-hash", resp.GenesisBlockIdentifier.Hash)
	assert.Equal(t, int64(1000000), resp.CurrentBlockTimestamp)
	require.Len(t, resp.Peers, 1)
	assert.Equal(t, "validator-1", resp.Peers[0].PeerID)
}
