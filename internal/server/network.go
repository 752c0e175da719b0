package server

import (
	"context"
	"strconv"

	"github.com/coinbase/rosetta-sdk-go/types"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/operation"
)

const (
	rosettaVersion = "1.4.13"
	nodeVersion    = "1.0.0"
)

var middlewareVersion = "1.0.0"

var operationStatuses = []*types.OperationStatus{
	{Status: "SUCCESS", Successful: true},
	{Status: "FAILURE", Successful: false},
}

// NetworkList advertises the single network this process serves.
func (s *Service) NetworkList(ctx context.Context, req *types.MetadataRequest) (*types.NetworkListResponse, *types.Error) {
	return &types.NetworkListResponse{
		NetworkIdentifiers: []*types.NetworkIdentifier{
			{Blockchain: s.Blockchain, Network: s.Network},
		},
	}, nil
}

// NetworkOptions advertises the fixed capability set: known operation
// types/statuses, the error catalogue, and the call-method allow-list.
// Signature type ed25519 / curve type edwards25519 are not advertised
// here, since the Allow envelope carries no field for them;
// ConstructionDerive rejects other curves, and ConstructionCombine
// checks only the public key length.
func (s *Service) NetworkOptions(ctx context.Context, req *types.NetworkRequest) (*types.NetworkOptionsResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	startIndex := int64(0)
	return &types.NetworkOptionsResponse{
		Version: &types.Version{
			RosettaVersion:    rosettaVersion,
			NodeVersion:       nodeVersion,
			MiddlewareVersion: &middlewareVersion,
		},
		Allow: &types.Allow{
			OperationStatuses:       operationStatuses,
			OperationTypes:          operation.AllTypes(),
			Errors:                  apierrors.AllErrors(),
			HistoricalBalanceLookup: false,
			TimestampStartIndex:     &startIndex,
			CallMethods:             AllowedCallMethods,
			BalanceExemptions:       []*types.BalanceExemption{},
		},
	}, nil
}

// NetworkStatus reports the current tip, genesis, and known peers.
func (s *Service) NetworkStatus(ctx context.Context, req *types.NetworkRequest) (*types.NetworkStatusResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}

	genesisHash, err := s.RPC.GetGenesisHash(ctx)
	if err != nil {
		return nil, errToTypes(err)
	}
	firstSlot, err := s.RPC.GetFirstAvailableBlock(ctx)
	if err != nil {
		return nil, errToTypes(err)
	}
	currentSlot, err := s.RPC.GetSlot(ctx)
	if err != nil {
		return nil, errToTypes(err)
	}
	blockTime, err := s.RPC.GetBlockTime(ctx, currentSlot)
	if err != nil {
		return nil, errToTypes(err)
	}
	nodes, err := s.RPC.GetClusterNodes(ctx)
	if err != nil {
		return nil, errToTypes(err)
	}

	peers := make([]*types.Peer, len(nodes))
	for i, n := range nodes {
		peers[i] = &types.Peer{PeerID: n.Pubkey}
	}

	return &types.NetworkStatusResponse{
		CurrentBlockIdentifier: &types.BlockIdentifier{
			Index: int64(currentSlot),
			Hash:  slotHash(currentSlot),
		},
		CurrentBlockTimestamp: blockTime * 1000,
		GenesisBlockIdentifier: &types.BlockIdentifier{
			Index: int64(firstSlot),
			Hash:  genesisHash,
		},
		Peers: peers,
	}, nil
}

// slotHash is the block hash placeholder used wherever a slot's own
// compiled blockhash hasn't been looked up — mirrors the original
// gateway's network_status, which also reports the slot number itself
// pending a real block-hash lookup.
func slotHash(slot uint64) string {
	return strconv.FormatUint(slot, 10)
}
