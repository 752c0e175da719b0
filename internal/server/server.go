// Package server implements the data API: network, account, block, and
// call. It is the read side of the Mesh surface. The account, block,
// call and network-status handlers need a live RPC collaborator and are
// wired only in online mode; offline mode reuses NetworkOptions alone.
package server

import (
	"context"

	"github.com/coinbase/rosetta-sdk-go/types"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/rpcclient"
)

// RPC is the chain-state surface the data API needs; it shares no
// method with construction's RPC interface, and both are satisfied
// structurally by *rpcclient.Client.
type RPC interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
	GetTokenAccountsByOwner(ctx context.Context, owner, tokenProgramID string) ([]rpcclient.TokenAccountBalance, error)
	GetSlot(ctx context.Context) (uint64, error)
	GetBlockTime(ctx context.Context, slot uint64) (int64, error)
	GetFirstAvailableBlock(ctx context.Context) (uint64, error)
	GetGenesisHash(ctx context.Context) (string, error)
	GetClusterNodes(ctx context.Context) ([]rpcclient.ClusterNode, error)
	GetConfirmedBlockWithEncoding(ctx context.Context, slot uint64) (*rpcclient.ConfirmedBlock, error)
	GetConfirmedTransaction(ctx context.Context, signature string) (*rpcclient.ConfirmedTxEntry, error)
	Call(ctx context.Context, method string, params interface{}) (interface{}, error)
}

// Service implements server.NetworkAPIServicer, server.AccountAPIServicer,
// server.BlockAPIServicer, and server.CallAPIServicer for one network.
type Service struct {
	Blockchain string
	Network    string
	RPC        RPC
}

func (s *Service) checkNetwork(ni *types.NetworkIdentifier) *types.Error {
	if ni == nil || ni.Blockchain != s.Blockchain || ni.Network != s.Network {
		return apierrors.NewBadNetwork().ToTypesError()
	}
	return nil
}

func errToTypes(err error) *types.Error {
	if ae, ok := apierrors.As(err); ok {
		return ae.ToTypesError()
	}
	return apierrors.New(apierrors.KindBadRequest, err.Error(), err).ToTypesError()
}
